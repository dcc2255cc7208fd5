package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/marikuna367/mockbank-api/internal/middleware"
	"github.com/marikuna367/mockbank-api/internal/models"
)

const (
	minLimit = 1
	maxLimit = 1000
)

// TransactionService defines the ledger operations used by TransactionHandler.
type TransactionService interface {
	RecordTransaction(ctx context.Context, accountID int64, amount decimal.Decimal, category, description string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
}

type TransactionHandler struct {
	ledger TransactionService
}

type CreateTransactionRequest struct {
	AccountID   int64            `json:"account_id" validate:"required,gt=0"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
}

func NewTransactionHandler(ledger TransactionService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	txn, err := h.ledger.RecordTransaction(c.Request.Context(), req.AccountID, *req.Amount, req.Category, req.Description)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, txn)
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	filter, err := parseTransactionQuery(c)
	if err != nil {
		middleware.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	txns, err := h.ledger.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	c.JSON(http.StatusOK, txns)
}

// parseTransactionQuery validates the listing query string. Out-of-range
// pagination and malformed values are rejected here, before the service.
func parseTransactionQuery(c *gin.Context) (models.TransactionFilter, error) {
	filter := models.TransactionFilter{Limit: 100, Offset: 0}

	if raw := c.Query("account_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, errors.New("account_id must be an integer")
		}
		filter.AccountID = &id
	}

	filter.Category = c.Query("category")

	if raw := c.Query("date_from"); raw != "" {
		t, err := parseTimestamp(raw)
		if err != nil {
			return filter, errors.New("date_from must be an RFC 3339 timestamp or YYYY-MM-DD date")
		}
		filter.DateFrom = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := parseTimestamp(raw)
		if err != nil {
			return filter, errors.New("date_to must be an RFC 3339 timestamp or YYYY-MM-DD date")
		}
		filter.DateTo = &t
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < minLimit || limit > maxLimit {
			return filter, errors.New("limit must be an integer between 1 and 1000")
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, errors.New("offset must be a non-negative integer")
		}
		filter.Offset = offset
	}

	return filter, nil
}

// parseTimestamp accepts RFC 3339 timestamps and bare dates; a bare date
// means midnight UTC on that day.
func parseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
