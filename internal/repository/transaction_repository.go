package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/marikuna367/mockbank-api/internal/models"
)

// pqForeignKeyViolation is the PostgreSQL error code raised when the
// transaction insert references a missing account.
const pqForeignKeyViolation = "23503"

// TransactionRepository handles transaction rows in PostgreSQL.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts the transaction and applies its amount to the owning
// account's balance in a single database transaction. The balance change
// is an in-place SQL increment, so concurrent postings to the same account
// serialize on the row and neither update is lost. Either both writes
// commit or neither does.
func (r *TransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO transactions (account_id, amount, category, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, timestamp
	`
	err = tx.QueryRowContext(ctx, insert,
		txn.AccountID, txn.Amount, nullString(txn.Category), nullString(txn.Description),
	).Scan(&txn.ID, &txn.Timestamp)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return models.ErrAccountNotFound
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	update := `
		UPDATE accounts
		SET balance = balance + $2
		WHERE id = $1
	`
	result, err := tx.ExecContext(ctx, update, txn.AccountID, txn.Amount)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrAccountNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// List returns transactions matching the filter, newest first. Equal
// timestamps are broken by id descending so pagination stays stable.
func (r *TransactionRepository) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	where, args := buildTransactionFilter(filter)
	query := `
		SELECT id, account_id, amount, category, description, timestamp
		FROM transactions
	` + where + fmt.Sprintf(`
		ORDER BY timestamp DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var txn models.Transaction
		var category, description sql.NullString
		if err := rows.Scan(
			&txn.ID, &txn.AccountID, &txn.Amount,
			&category, &description, &txn.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Category = category.String
		txn.Description = description.String
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

// buildTransactionFilter assembles the WHERE clause for List. All supplied
// filters are conjunctive; date bounds are inclusive.
func buildTransactionFilter(filter models.TransactionFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		conds = append(conds, fmt.Sprintf("account_id = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conds = append(conds, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conds = append(conds, fmt.Sprintf("timestamp <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
