package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/marikuna367/mockbank-api/internal/models"
)

// ---- mock implementation ----

type mockTransactionService struct {
	recordFn func(ctx context.Context, accountID int64, amount decimal.Decimal, category, description string) (*models.Transaction, error)
	listFn   func(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
}

func (m *mockTransactionService) RecordTransaction(ctx context.Context, accountID int64, amount decimal.Decimal, category, description string) (*models.Transaction, error) {
	if m.recordFn != nil {
		return m.recordFn(ctx, accountID, amount, category, description)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockTransactionService) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newTransactionTestRouter(svc TransactionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTransactionHandler(svc)
	transactions := r.Group("/transactions")
	transactions.POST("", h.CreateTransaction)
	transactions.GET("", h.ListTransactions)
	return r
}

// ---- test data ----

var aTestTransaction = &models.Transaction{
	ID: 1, AccountID: 1, Amount: decimal.RequireFromString("100.00"),
	Category: "salary", Timestamp: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
}

// ---- tests ----

func TestCreateTransaction(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		recordFn       func(ctx context.Context, accountID int64, amount decimal.Decimal, category, description string) (*models.Transaction, error)
		expectedStatus int
	}{
		{
			name: "success - credit",
			body: map[string]interface{}{"account_id": 1, "amount": "100.00"},
			recordFn: func(ctx context.Context, accountID int64, amount decimal.Decimal, category, description string) (*models.Transaction, error) {
				return aTestTransaction, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "success - debit drives balance negative",
			body: map[string]interface{}{"account_id": 1, "amount": "-9999.99"},
			recordFn: func(ctx context.Context, accountID int64, amount decimal.Decimal, category, description string) (*models.Transaction, error) {
				if !amount.IsNegative() {
					t.Errorf("expected negative amount to pass through, got %s", amount)
				}
				return aTestTransaction, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "not found - unknown account",
			body: map[string]interface{}{"account_id": 42, "amount": "10.00"},
			recordFn: func(ctx context.Context, accountID int64, amount decimal.Decimal, category, description string) (*models.Transaction, error) {
				return nil, models.ErrAccountNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad request - missing amount",
			body:           map[string]interface{}{"account_id": 1},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing account_id",
			body:           map[string]interface{}{"amount": "10.00"},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTransactionTestRouter(&mockTransactionService{recordFn: tt.recordFn})
			w := doRequest(router, http.MethodPost, "/transactions", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateTransactionPassesFieldsThrough(t *testing.T) {
	var gotAccountID int64
	var gotCategory, gotDescription string
	svc := &mockTransactionService{
		recordFn: func(ctx context.Context, accountID int64, amount decimal.Decimal, category, description string) (*models.Transaction, error) {
			gotAccountID, gotCategory, gotDescription = accountID, category, description
			return aTestTransaction, nil
		},
	}
	router := newTransactionTestRouter(svc)

	doRequest(router, http.MethodPost, "/transactions", map[string]interface{}{
		"account_id": 7, "amount": "12.34", "category": "groceries", "description": "weekly shop",
	})
	if gotAccountID != 7 || gotCategory != "groceries" || gotDescription != "weekly shop" {
		t.Errorf("fields not passed through: account=%d category=%q description=%q",
			gotAccountID, gotCategory, gotDescription)
	}
}

func TestListTransactionsQueryValidation(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus int
	}{
		{name: "success - no filters", query: "", expectedStatus: http.StatusOK},
		{name: "unprocessable - limit zero", query: "?limit=0", expectedStatus: http.StatusUnprocessableEntity},
		{name: "unprocessable - limit above cap", query: "?limit=1001", expectedStatus: http.StatusUnprocessableEntity},
		{name: "unprocessable - limit not a number", query: "?limit=ten", expectedStatus: http.StatusUnprocessableEntity},
		{name: "unprocessable - negative offset", query: "?offset=-1", expectedStatus: http.StatusUnprocessableEntity},
		{name: "unprocessable - malformed date_from", query: "?date_from=January", expectedStatus: http.StatusUnprocessableEntity},
		{name: "unprocessable - malformed account_id", query: "?account_id=abc", expectedStatus: http.StatusUnprocessableEntity},
		{name: "success - bounds at the edges", query: "?limit=1000&offset=0", expectedStatus: http.StatusOK},
	}
	svc := &mockTransactionService{
		listFn: func(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
			return nil, nil
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTransactionTestRouter(svc)
			w := doRequest(router, http.MethodGet, "/transactions"+tt.query, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListTransactionsBuildsFilter(t *testing.T) {
	var captured models.TransactionFilter
	svc := &mockTransactionService{
		listFn: func(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
			captured = filter
			return []models.Transaction{*aTestTransaction}, nil
		},
	}
	router := newTransactionTestRouter(svc)

	w := doRequest(router, http.MethodGet,
		"/transactions?account_id=3&category=rent&date_from=2024-01-01&date_to=2024-01-31&limit=25&offset=50", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	if captured.AccountID == nil || *captured.AccountID != 3 {
		t.Errorf("expected account filter 3, got %v", captured.AccountID)
	}
	if captured.Category != "rent" {
		t.Errorf("expected category rent, got %q", captured.Category)
	}
	wantFrom := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	if captured.DateFrom == nil || !captured.DateFrom.Equal(wantFrom) {
		t.Errorf("expected date_from %v, got %v", wantFrom, captured.DateFrom)
	}
	if captured.DateTo == nil || !captured.DateTo.Equal(wantTo) {
		t.Errorf("expected date_to %v, got %v", wantTo, captured.DateTo)
	}
	if captured.Limit != 25 || captured.Offset != 50 {
		t.Errorf("expected limit=25 offset=50, got limit=%d offset=%d", captured.Limit, captured.Offset)
	}
}

func TestListTransactionsAcceptsRFC3339(t *testing.T) {
	var captured models.TransactionFilter
	svc := &mockTransactionService{
		listFn: func(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
			captured = filter
			return nil, nil
		},
	}
	router := newTransactionTestRouter(svc)

	w := doRequest(router, http.MethodGet, "/transactions?date_from=2024-01-01T15%3A04%3A05Z", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}
	want := time.Date(2024, 1, 1, 15, 4, 5, 0, time.UTC)
	if captured.DateFrom == nil || !captured.DateFrom.Equal(want) {
		t.Errorf("expected date_from %v, got %v", want, captured.DateFrom)
	}
}

func TestListTransactionsEmpty(t *testing.T) {
	svc := &mockTransactionService{
		listFn: func(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
			return nil, nil
		},
	}
	router := newTransactionTestRouter(svc)
	w := doRequest(router, http.MethodGet, "/transactions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var txns []models.Transaction
	if err := json.Unmarshal(w.Body.Bytes(), &txns); err != nil {
		t.Fatalf("response is not a transaction array: %v", err)
	}
	if txns == nil {
		// body must be [] rather than null
		t.Errorf("expected empty array body, got %s", w.Body.String())
	}
}
