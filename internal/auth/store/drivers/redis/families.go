package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/talentgate/authcore/internal/auth/domain"
	"github.com/talentgate/authcore/internal/auth/store"
)

// Rotation outcomes returned by the Lua script.
const (
	rotateNotFound = 0
	rotateRevoked  = 1
	rotateMismatch = 2
	rotateRotated  = 3
)

// rotateScript performs the compare-and-increment server-side so
// concurrent rotations of one family serialize inside Redis. Exactly
// one caller per generation sees {3, newGen}.
const rotateScript = `
local key = KEYS[1]
local expected = tonumber(ARGV[1])
local now = ARGV[2]

if redis.call("EXISTS", key) == 0 then
  return {0}
end

if redis.call("HGET", key, "revoked") == "1" then
  return {1}
end

local gen = tonumber(redis.call("HGET", key, "generation"))
if gen ~= expected then
  return {2}
end

local newgen = redis.call("HINCRBY", key, "generation", 1)
redis.call("HSET", key, "updated_at", now)
return {3, newgen}
`

var rotateLua = redis.NewScript(rotateScript)

type familiesRepo struct {
	rdb redis.UniversalClient
}

func familyKey(id string) string       { return familyKeyPrefix + id }
func subjectKey(subject string) string { return subjectKeyPrefix + subject }

func (r *familiesRepo) Create(ctx context.Context, f domain.TokenFamily) error {
	key := familyKey(f.ID)

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]any{
			"subject":    f.Subject,
			"role":       string(f.Role),
			"generation": f.Generation,
			"revoked":    "0",
			"expires_at": f.ExpiresAt.Unix(),
			"created_at": f.CreatedAt.Unix(),
			"updated_at": f.UpdatedAt.Unix(),
		})
		// Let Redis expire the record itself, with a day of slack so
		// reuse of an expired token still classifies as expired rather
		// than unknown.
		pipe.PExpireAt(ctx, key, f.ExpiresAt.Add(24*time.Hour))
		pipe.SAdd(ctx, subjectKey(f.Subject), f.ID)
		return nil
	})
	return err
}

func (r *familiesRepo) Get(ctx context.Context, id string) (domain.TokenFamily, error) {
	vals, err := r.rdb.HGetAll(ctx, familyKey(id)).Result()
	if err != nil {
		return domain.TokenFamily{}, err
	}
	if len(vals) == 0 {
		return domain.TokenFamily{}, store.ErrNotFound
	}

	gen, _ := strconv.ParseInt(vals["generation"], 10, 64)
	expiresAt, _ := strconv.ParseInt(vals["expires_at"], 10, 64)
	createdAt, _ := strconv.ParseInt(vals["created_at"], 10, 64)
	updatedAt, _ := strconv.ParseInt(vals["updated_at"], 10, 64)

	return domain.TokenFamily{
		ID:         id,
		Subject:    vals["subject"],
		Role:       domain.Role(vals["role"]),
		Generation: gen,
		Revoked:    vals["revoked"] == "1",
		ExpiresAt:  time.Unix(expiresAt, 0).UTC(),
		CreatedAt:  time.Unix(createdAt, 0).UTC(),
		UpdatedAt:  time.Unix(updatedAt, 0).UTC(),
	}, nil
}

func (r *familiesRepo) Rotate(ctx context.Context, id string, expectedGen int64) (int64, error) {
	res, err := rotateLua.Run(ctx, r.rdb,
		[]string{familyKey(id)},
		expectedGen, time.Now().UTC().Unix(),
	).Slice()
	if err != nil {
		return 0, err
	}

	status, _ := res[0].(int64)
	switch status {
	case rotateRotated:
		newGen, _ := res[1].(int64)
		return newGen, nil
	case rotateRevoked:
		return 0, store.ErrRevoked
	case rotateMismatch:
		return 0, store.ErrConflict
	default:
		return 0, store.ErrNotFound
	}
}

func (r *familiesRepo) Revoke(ctx context.Context, id string) error {
	key := familyKey(id)

	exists, err := r.rdb.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return store.ErrNotFound
	}

	return r.rdb.HSet(ctx, key,
		"revoked", "1",
		"updated_at", time.Now().UTC().Unix(),
	).Err()
}

func (r *familiesRepo) RevokeAllForSubject(ctx context.Context, subject string) (int64, error) {
	ids, err := r.rdb.SMembers(ctx, subjectKey(subject)).Result()
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC().Unix()
	var revoked int64
	for _, id := range ids {
		key := familyKey(id)

		state, err := r.rdb.HGet(ctx, key, "revoked").Result()
		if err == redis.Nil {
			// Family expired out from under its index entry.
			_ = r.rdb.SRem(ctx, subjectKey(subject), id).Err()
			continue
		}
		if err != nil {
			return revoked, err
		}
		if state == "1" {
			continue
		}

		if err := r.rdb.HSet(ctx, key, "revoked", "1", "updated_at", now).Err(); err != nil {
			return revoked, err
		}
		revoked++
	}
	return revoked, nil
}

// DeleteExpired prunes subject index entries whose family keys Redis
// has already expired. Family records themselves carry a TTL, so only
// the index needs sweeping.
func (r *familiesRepo) DeleteExpired(ctx context.Context, _ time.Duration) (int64, error) {
	var pruned int64

	iter := r.rdb.Scan(ctx, 0, subjectKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		setKey := iter.Val()

		ids, err := r.rdb.SMembers(ctx, setKey).Result()
		if err != nil {
			return pruned, err
		}
		for _, id := range ids {
			exists, err := r.rdb.Exists(ctx, familyKey(id)).Result()
			if err != nil {
				return pruned, err
			}
			if exists == 0 {
				if err := r.rdb.SRem(ctx, setKey, id).Err(); err != nil {
					return pruned, err
				}
				pruned++
			}
		}
	}
	return pruned, iter.Err()
}
