package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marikuna367/mockbank-api/internal/models"
)

// APIKeyHeader carries both per-client API keys and, on admin routes, the
// master secret. The same header slot is deliberately reused for both.
const APIKeyHeader = "x-api-key"

const apiKeyContextKey = "apiKey"

// APIKeyValidator resolves a presented key to an active APIKey record.
type APIKeyValidator interface {
	ValidateKey(ctx context.Context, key string) (*models.APIKey, error)
}

// APIKeyAuth rejects requests whose x-api-key header is missing or does not
// match an active (non-revoked) key. On success the matched key is stored
// in the request context for downstream handlers.
func APIKeyAuth(validator APIKeyValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Missing API key",
			})
			c.Abort()
			return
		}

		apiKey, err := validator.ValidateKey(c.Request.Context(), key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or revoked API key",
			})
			c.Abort()
			return
		}

		c.Set(apiKeyContextKey, apiKey)
		c.Next()
	}
}

// MasterKeyAuth gates admin routes behind the process-wide master secret.
// The comparison is constant-time; an empty or wrong header yields 403.
func MasterKeyAuth(masterKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(masterKey)) != 1 {
			c.JSON(http.StatusForbidden, gin.H{
				"message": "Admin privileges required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetAPIKey returns the APIKey that authenticated the current request.
func GetAPIKey(c *gin.Context) (*models.APIKey, bool) {
	value, exists := c.Get(apiKeyContextKey)
	if !exists {
		return nil, false
	}
	key, ok := value.(*models.APIKey)
	return key, ok
}
