package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/talentgate/authcore/internal/auth/domain"
	"github.com/talentgate/authcore/internal/auth/store"
)

type familiesRepo struct {
	db *sql.DB
}

func (r *familiesRepo) Create(ctx context.Context, f domain.TokenFamily) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO token_families (id, subject, role, generation, revoked, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?, ?)`,
		f.ID, f.Subject, string(f.Role), f.Generation, f.ExpiresAt, f.CreatedAt, f.UpdatedAt,
	)
	return err
}

func (r *familiesRepo) Get(ctx context.Context, id string) (domain.TokenFamily, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, subject, role, generation, revoked, expires_at, created_at, updated_at
		FROM token_families WHERE id = ?`, id)
	return scanFamily(row)
}

// Rotate performs a compare-and-increment on the family's generation.
// The conditional UPDATE is the whole race: exactly one concurrent
// caller per generation can match the WHERE clause. Losers get their
// failure classified inside the same transaction.
func (r *familiesRepo) Rotate(ctx context.Context, id string, expectedGen int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		UPDATE token_families
		SET generation = generation + 1, updated_at = ?
		WHERE id = ? AND generation = ? AND revoked = 0`,
		now, id, expectedGen,
	)
	if err != nil {
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if affected == 1 {
		return expectedGen + 1, tx.Commit()
	}

	// Classify the miss: revoked, stale generation, or gone entirely.
	var gen int64
	var revoked bool
	err = tx.QueryRowContext(ctx,
		`SELECT generation, revoked FROM token_families WHERE id = ?`, id,
	).Scan(&gen, &revoked)
	if err != nil {
		return 0, mapNotFound(err)
	}

	if revoked {
		return 0, store.ErrRevoked
	}
	return 0, store.ErrConflict
}

func (r *familiesRepo) Revoke(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE token_families SET revoked = 1, updated_at = ?
		WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *familiesRepo) RevokeAllForSubject(ctx context.Context, subject string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE token_families SET revoked = 1, updated_at = ?
		WHERE subject = ? AND revoked = 0`,
		time.Now().UTC(), subject,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *familiesRepo) DeleteExpired(ctx context.Context, grace time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-grace)
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM token_families WHERE expires_at < ?`, cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFamily(row rowScanner) (domain.TokenFamily, error) {
	var f domain.TokenFamily
	var role string
	err := row.Scan(&f.ID, &f.Subject, &role, &f.Generation, &f.Revoked,
		&f.ExpiresAt, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return domain.TokenFamily{}, mapNotFound(err)
	}
	f.Role = domain.Role(role)
	return f, nil
}
