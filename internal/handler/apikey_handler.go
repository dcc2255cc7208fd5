package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marikuna367/mockbank-api/internal/middleware"
	"github.com/marikuna367/mockbank-api/internal/models"
)

// KeyIssuer defines the admin operation used by APIKeyHandler.
type KeyIssuer interface {
	IssueKey(ctx context.Context, name string) (*models.APIKey, error)
}

// APIKeyHandler serves key issuance. The route is gated by the master-key
// middleware, not by per-client API keys.
type APIKeyHandler struct {
	issuer KeyIssuer
}

type CreateAPIKeyRequest struct {
	Name string `json:"name"`
}

type APIKeyResponse struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

func NewAPIKeyHandler(issuer KeyIssuer) *APIKeyHandler {
	return &APIKeyHandler{issuer: issuer}
}

// CreateKey issues a new API key and returns its plaintext exactly once.
// The body is optional; an absent body issues an unnamed key.
func (h *APIKeyHandler) CreateKey(c *gin.Context) {
	var req CreateAPIKeyRequest
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	apiKey, err := h.issuer.IssueKey(c.Request.Context(), req.Name)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create API key")
		return
	}

	c.JSON(http.StatusOK, APIKeyResponse{Key: apiKey.Key, Name: apiKey.Name})
}
