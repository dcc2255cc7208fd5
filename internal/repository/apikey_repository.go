package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/marikuna367/mockbank-api/internal/models"
)

// APIKeyRepository handles API-key rows in PostgreSQL.
type APIKeyRepository struct {
	db *sql.DB
}

func NewAPIKeyRepository(db *sql.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Insert stores a freshly issued key and fills in its id and creation time.
func (r *APIKeyRepository) Insert(ctx context.Context, key *models.APIKey) error {
	query := `
		INSERT INTO api_keys (key, name, revoked)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		key.Key, nullString(key.Name), key.Revoked,
	).Scan(&key.ID, &key.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert api key: %w", err)
	}
	return nil
}

// FindActive resolves a presented key to its row, requiring an exact match
// that has not been revoked.
func (r *APIKeyRepository) FindActive(ctx context.Context, key string) (*models.APIKey, error) {
	query := `
		SELECT id, key, COALESCE(name, ''), revoked, created_at
		FROM api_keys
		WHERE key = $1 AND revoked = FALSE
	`
	var apiKey models.APIKey
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&apiKey.ID, &apiKey.Key, &apiKey.Name, &apiKey.Revoked, &apiKey.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrAPIKeyInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up api key: %w", err)
	}
	return &apiKey, nil
}
