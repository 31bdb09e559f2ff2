package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type countersRepo struct {
	rdb redis.UniversalClient
}

// Incr bumps the fixed-window counter for key. Window boundaries are
// quantised to wall-clock time so every instance agrees on them, and
// the key expires shortly after the window closes.
func (r *countersRepo) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	windowStart := time.Now().UTC().Truncate(window)
	counterKey := fmt.Sprintf("%s%s:%d", counterKeyPrefix, key, windowStart.Unix())

	var incr *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, counterKey)
		pipe.PExpire(ctx, counterKey, window+time.Minute)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// DeleteStale is a no-op; counter keys expire on their own.
func (r *countersRepo) DeleteStale(context.Context) (int64, error) {
	return 0, nil
}
