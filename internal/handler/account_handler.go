// Package handler maps HTTP requests onto the ledger and API-key services.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/marikuna367/mockbank-api/internal/middleware"
	"github.com/marikuna367/mockbank-api/internal/models"
)

// AccountService defines the ledger operations used by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, name, accountType string, balance decimal.Decimal) (*models.Account, error)
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
}

type AccountHandler struct {
	ledger AccountService
}

type CreateAccountRequest struct {
	Name    string           `json:"name" validate:"required"`
	Type    string           `json:"type" validate:"required"`
	Balance *decimal.Decimal `json:"balance"`
}

func NewAccountHandler(ledger AccountService) *AccountHandler {
	return &AccountHandler{ledger: ledger}
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	balance := decimal.Zero
	if req.Balance != nil {
		balance = *req.Balance
	}

	account, err := h.ledger.CreateAccount(c.Request.Context(), req.Name, req.Type, balance)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.ledger.ListAccounts(c.Request.Context())
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list accounts")
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	// A non-numeric id cannot name an existing account, so it gets the
	// same 404 as a missing one.
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		return
	}

	account, err := h.ledger.GetAccount(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get account")
		return
	}

	c.JSON(http.StatusOK, account)
}
