package sqlite

import (
	"context"
	"database/sql"
	"time"
)

type countersRepo struct {
	db *sql.DB
}

// Incr bumps the fixed-window counter for key. The window start is
// quantised so every instance sharing the database agrees on window
// boundaries without coordination.
func (r *countersRepo) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	windowStart := time.Now().UTC().Truncate(window)

	var count int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO rate_counters (key, window_start, count)
		VALUES (?, ?, 1)
		ON CONFLICT (key, window_start) DO UPDATE SET count = count + 1
		RETURNING count`,
		key, windowStart,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteStale drops counter rows older than an hour. Windows are a
// minute or less in practice, so anything that old is dead weight.
func (r *countersRepo) DeleteStale(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-time.Hour)
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM rate_counters WHERE window_start < ?`, cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
