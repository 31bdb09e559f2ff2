package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/talentgate/authcore/pkg/slogx"
)

// CounterStore is a fixed-window request counter shared across service
// instances. Incr bumps the counter for key within the current window
// and returns the count after the increment; a fresh window starts at 1.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimitWithStore creates a fixed-window rate limiting middleware
// backed by a shared counter store, so the budget holds across all
// instances behind the same store. The in-process token-bucket variant
// (RateLimitMiddleware) is per-instance.
//
// Store errors fail open: the request proceeds and the error is logged.
func RateLimitWithStore(store CounterStore, config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			key := keyExtractor(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			count, err := store.Incr(ctx, "ratelimit:"+key+":"+r.URL.Path, config.Window)
			if err != nil {
				log.Error("rate limit: counter store unavailable", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(config.RequestsPerWindow) {
				retryAfter := max(int(config.Window.Seconds()), 1)
				writeRateLimited(w, config, retryAfter)

				log.Warn("rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"count", count,
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
