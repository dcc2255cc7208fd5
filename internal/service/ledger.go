// Package service holds the domain logic: the account/transaction ledger
// and API-key issuance.
package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/marikuna367/mockbank-api/internal/models"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// AccountStore is the persistence surface the ledger needs for accounts.
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
}

// TransactionStore persists transactions. Create must apply the amount to
// the owning account's balance atomically with the insert: both writes
// commit together or not at all, and the balance change must be an atomic
// read-modify-write in the store so concurrent postings are never lost.
type TransactionStore interface {
	Create(ctx context.Context, txn *models.Transaction) error
	List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
}

// Ledger maintains the invariant that an account's balance equals the sum
// of its transactions' amounts, excluding any initial balance supplied at
// account creation.
type Ledger struct {
	accounts     AccountStore
	transactions TransactionStore
}

func NewLedger(accounts AccountStore, transactions TransactionStore) *Ledger {
	return &Ledger{accounts: accounts, transactions: transactions}
}

// CreateAccount opens an account. A nonzero initial balance is stored
// directly without an opening transaction row, so it is invisible to the
// transaction history.
func (s *Ledger) CreateAccount(ctx context.Context, name, accountType string, balance decimal.Decimal) (*models.Account, error) {
	account := &models.Account{
		Name:    name,
		Type:    accountType,
		Balance: balance,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Ledger) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

func (s *Ledger) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.accounts.List(ctx)
}

// RecordTransaction posts an amount against an account. Positive amounts
// credit, negative amounts debit; there is no overdraft protection. The
// account must exist, and the insert plus balance update happen as one
// atomic unit in the store.
func (s *Ledger) RecordTransaction(ctx context.Context, accountID int64, amount decimal.Decimal, category, description string) (*models.Transaction, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		AccountID:   accountID,
		Amount:      amount,
		Category:    category,
		Description: description,
	}
	if err := s.transactions.Create(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// ListTransactions returns matching transactions, newest first. The
// handler validates pagination bounds; the defaults here only cover
// callers that leave the filter zero-valued.
func (s *Ledger) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.transactions.List(ctx, filter)
}
