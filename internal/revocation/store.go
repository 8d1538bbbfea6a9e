// Package revocation keeps the set of tokens invalidated before their
// natural expiry. Tokens are otherwise stateless, so this small mutable
// set is the only thing standing between logout and a still-valid
// signature; every protected request pays one lookup against it.
package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/job-marketplace/internal/repository"
)

// Store is the revocation contract. Implementations must provide
// read-your-writes consistency for a single entry: once Revoke returns,
// IsRevoked for the same token must observe it. Revoke is idempotent.
type Store interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
}

// Backend names accepted by NewStore. All services sharing a token secret
// must also share a backend, or a revocation written by one is invisible
// to the others.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// NewStore selects the backing implementation by configured name. The
// Postgres backend needs the pruner worker running somewhere to bound
// table growth; Redis evicts on its own.
func NewStore(backend string, client *redis.Client, repo repository.RevokedTokenRepository) (Store, error) {
	switch backend {
	case BackendRedis:
		return NewRedisStore(client), nil
	case BackendPostgres:
		return NewPostgresStore(repo), nil
	default:
		return nil, fmt.Errorf("unknown revocation backend %q", backend)
	}
}

// entryKey derives a fixed-size storage key from the raw token string.
// The raw encoded token is the revocation identity; hashing only bounds
// key size, equality is all that matters.
func entryKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
