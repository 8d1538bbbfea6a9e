package revocation

import (
	"context"
	"time"

	"github.com/spec-kit/job-marketplace/internal/repository"
)

// PostgresStore is the durable revocation store, used where a shared
// database is the only infrastructure available. Unlike Redis there is no
// native TTL, so expired rows linger until the pruner worker sweeps them;
// lookups stay correct regardless because expiry is checked first by the
// token service.
type PostgresStore struct {
	repo repository.RevokedTokenRepository
}

// NewPostgresStore wraps the repository.
func NewPostgresStore(repo repository.RevokedTokenRepository) *PostgresStore {
	return &PostgresStore{repo: repo}
}

// IsRevoked checks entry existence.
func (s *PostgresStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	return s.repo.Exists(ctx, entryKey(token))
}

// Revoke inserts an entry; the repository insert is idempotent.
func (s *PostgresStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if !time.Now().Before(expiresAt) {
		return nil
	}
	return s.repo.Insert(ctx, entryKey(token), expiresAt)
}
