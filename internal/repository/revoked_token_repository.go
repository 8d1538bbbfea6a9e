package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RevokedTokenRepository persists revocation entries in the shared
// database. Keys are token digests; rows whose expiry has passed are
// redundant and swept by the pruner.
type RevokedTokenRepository interface {
	Insert(ctx context.Context, tokenKey string, expiresAt time.Time) error
	Exists(ctx context.Context, tokenKey string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type revokedTokenRepository struct {
	pool *pgxpool.Pool
}

// NewRevokedTokenRepository returns a Postgres-backed implementation.
func NewRevokedTokenRepository(pool *pgxpool.Pool) RevokedTokenRepository {
	return &revokedTokenRepository{pool: pool}
}

func (r *revokedTokenRepository) Insert(ctx context.Context, tokenKey string, expiresAt time.Time) error {
	const query = `
        INSERT INTO revoked_tokens (token_key, expires_at)
        VALUES ($1, $2)
        ON CONFLICT (token_key) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, tokenKey, expiresAt)
	return err
}

func (r *revokedTokenRepository) Exists(ctx context.Context, tokenKey string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token_key=$1)`

	var found bool
	if err := r.pool.QueryRow(ctx, query, tokenKey).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}

func (r *revokedTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM revoked_tokens WHERE expires_at < $1`

	cmd, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
