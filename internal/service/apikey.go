package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/marikuna367/mockbank-api/internal/models"
)

// apiKeyBytes is the entropy of a generated key: 32 bytes (256 bits),
// encoded to a 43-character URL-safe token. Collisions are not checked
// against existing keys; at this entropy they do not happen in practice.
const apiKeyBytes = 32

// APIKeyStore is the persistence surface for API keys.
type APIKeyStore interface {
	Insert(ctx context.Context, key *models.APIKey) error
	FindActive(ctx context.Context, key string) (*models.APIKey, error)
}

// APIKeyService issues and validates per-client API keys.
type APIKeyService struct {
	keys APIKeyStore
}

func NewAPIKeyService(keys APIKeyStore) *APIKeyService {
	return &APIKeyService{keys: keys}
}

// IssueKey generates a fresh key and persists it active. The plaintext key
// on the returned record is the only time it is ever handed out.
func (s *APIKeyService) IssueKey(ctx context.Context, name string) (*models.APIKey, error) {
	key, err := GenerateKey()
	if err != nil {
		return nil, err
	}

	apiKey := &models.APIKey{
		Key:     key,
		Name:    name,
		Revoked: false,
	}
	if err := s.keys.Insert(ctx, apiKey); err != nil {
		return nil, err
	}
	return apiKey, nil
}

// ValidateKey resolves a presented key to an active record, rejecting
// unknown and revoked keys alike.
func (s *APIKeyService) ValidateKey(ctx context.Context, key string) (*models.APIKey, error) {
	return s.keys.FindActive(ctx, key)
}

// GenerateKey produces an opaque token safe to carry in a header value:
// no padding, no control characters.
func GenerateKey() (string, error) {
	buf := make([]byte, apiKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
