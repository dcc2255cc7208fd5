package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements create the tables on startup if they do not exist yet.
// Balances and amounts are NUMERIC(18,2): two fractional digits, exact
// arithmetic in the store.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id      BIGSERIAL PRIMARY KEY,
		name    TEXT NOT NULL,
		type    TEXT NOT NULL,
		balance NUMERIC(18,2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id          BIGSERIAL PRIMARY KEY,
		account_id  BIGINT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		amount      NUMERIC(18,2) NOT NULL,
		category    TEXT,
		description TEXT,
		timestamp   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions (account_id)`,
	`CREATE TABLE IF NOT EXISTS api_keys (
		id         BIGSERIAL PRIMARY KEY,
		key        TEXT NOT NULL UNIQUE,
		name       TEXT,
		revoked    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates all tables and indexes the service needs.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
