package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/talentgate/authcore/internal/auth/store"
)

// Key namespaces. Families live under tf:, the per-subject index under
// tfs:, rate counters under rc:.
const (
	familyKeyPrefix  = "tf:"
	subjectKeyPrefix = "tfs:"
	counterKeyPrefix = "rc:"
)

type Store struct {
	rdb redis.UniversalClient
}

// NewStore wraps an existing Redis client. The caller owns the client's
// lifecycle up until Close.
func NewStore(rdb redis.UniversalClient) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Close() error { return s.rdb.Close() }

// Ping verifies the Redis connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// ApplyMigrations is a no-op; Redis has no schema to migrate.
func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Families() store.Families { return &familiesRepo{rdb: s.rdb} }
func (s *Store) Counters() store.Counters { return &countersRepo{rdb: s.rdb} }
