package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the write model for a bank account. Balance is kept in sync
// with the account's transactions by the transaction repository; the
// initial balance set at creation is not backed by a transaction row.
type Account struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Balance decimal.Decimal `json:"balance"`
}

// Transaction is a single ledger entry. A positive amount is a credit,
// a negative amount a debit. Timestamp is assigned by the store.
type Transaction struct {
	ID          int64           `json:"id"`
	AccountID   int64           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// APIKey is a per-client credential. The plaintext key is returned to the
// caller exactly once at issuance; afterwards the store only serves it to
// the authorization gate for comparison.
type APIKey struct {
	ID        int64     `json:"-"`
	Key       string    `json:"key"`
	Name      string    `json:"name,omitempty"`
	Revoked   bool      `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// TransactionFilter narrows a transaction listing. All set fields are
// combined with AND. DateFrom and DateTo are inclusive bounds on Timestamp.
type TransactionFilter struct {
	AccountID *int64
	Category  string
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}
