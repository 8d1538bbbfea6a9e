package revocation

import (
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestNewStore_SelectsBackend(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	repo := newFakeRevokedRepo()

	store, err := NewStore(BackendRedis, client, repo)
	if err != nil {
		t.Fatalf("NewStore(redis) error: %v", err)
	}
	if _, ok := store.(*RedisStore); !ok {
		t.Fatalf("redis backend produced %T", store)
	}

	store, err = NewStore(BackendPostgres, client, repo)
	if err != nil {
		t.Fatalf("NewStore(postgres) error: %v", err)
	}
	if _, ok := store.(*PostgresStore); !ok {
		t.Fatalf("postgres backend produced %T", store)
	}
}

func TestNewStore_RejectsUnknownBackend(t *testing.T) {
	t.Parallel()

	if _, err := NewStore("memcached", nil, nil); err == nil {
		t.Fatal("unknown backend must be rejected")
	}
}
