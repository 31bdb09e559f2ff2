package store

import (
	"context"
	"errors"
	"time"

	"github.com/talentgate/authcore/internal/auth/domain"
)

var (
	ErrNotFound = errors.New("store: not found")

	// ErrConflict is returned by Rotate when the presented generation is
	// not the family's current one. The caller treats this as reuse.
	ErrConflict = errors.New("store: generation conflict")

	// ErrRevoked is returned by Rotate when the family has already been
	// revoked.
	ErrRevoked = errors.New("store: family revoked")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// redis) implement this. It exposes sub-repositories to keep concerns
// tidy and testable.
type Store interface {
	Families() Families
	Counters() Counters

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing store is still reachable.
	Ping(ctx context.Context) error
}

// Families persists refresh-token lineages. The store never sees token
// material; a family record's generation counter is the only state that
// decides which refresh token is still live.
type Families interface {
	// Create inserts a new family at generation 0.
	Create(ctx context.Context, f domain.TokenFamily) error

	// Get returns a family by id, revoked or not.
	Get(ctx context.Context, id string) (domain.TokenFamily, error)

	// Rotate atomically advances the family's generation, but only when
	// expectedGen matches the stored generation and the family is live.
	// It returns the new generation on success. Under concurrent calls
	// with the same expectedGen exactly one caller wins; the rest get
	// ErrConflict. A revoked family yields ErrRevoked, a missing one
	// ErrNotFound.
	Rotate(ctx context.Context, id string, expectedGen int64) (int64, error)

	// Revoke marks the family revoked. Revoking an already-revoked
	// family is a no-op, not an error.
	Revoke(ctx context.Context, id string) error

	// RevokeAllForSubject revokes every live family belonging to the
	// subject and returns how many were affected.
	RevokeAllForSubject(ctx context.Context, subject string) (int64, error)

	// DeleteExpired removes families whose expiry passed more than
	// grace ago. Housekeeping only; revocation never deletes.
	DeleteExpired(ctx context.Context, grace time.Duration) (int64, error)
}

// Counters is a fixed-window counter repository backing the shared rate
// limiter. Incr returns the count within the current window after the
// increment.
type Counters interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)

	// DeleteStale drops counters whose window has long passed.
	DeleteStale(ctx context.Context) (int64, error)
}
