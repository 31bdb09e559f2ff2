package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/talentgate/authcore/internal/auth/domain"
	"github.com/talentgate/authcore/internal/auth/identity"
	"github.com/talentgate/authcore/internal/auth/store"
	"github.com/talentgate/authcore/pkg/idx"
	"github.com/talentgate/authcore/pkg/jwtx"
	"github.com/talentgate/authcore/pkg/slogx"
)

// DefaultStoreTimeout bounds every store round-trip so a slow backend
// cannot hold a token request open indefinitely.
const DefaultStoreTimeout = 3 * time.Second

// TokenService drives the session lifecycle: it mints generation-0
// pairs at login, rotates refresh tokens with reuse detection, and
// revokes families at logout.
type TokenService struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Identity identity.Provider
	Store    store.Store

	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// StoreTimeout bounds each store call. Zero means DefaultStoreTimeout.
	StoreTimeout time.Duration
}

// Login verifies credentials, opens a fresh token family at generation
// 0 and returns the first pair. Role and permissions are captured here
// and never change for the life of the family.
func (s *TokenService) Login(ctx context.Context, creds identity.Credentials) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	id, err := s.Identity.Verify(ctx, creds)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrMFARequired):
			return nil, ErrMFARequired
		case errors.Is(err, identity.ErrInvalidCredentials):
			l.Info("login rejected", slog.String("email", creds.Email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now().UTC()
	family := domain.TokenFamily{
		ID:        idx.New().String(),
		Subject:   id.Subject,
		Role:      id.Role,
		ExpiresAt: now.Add(s.RefreshTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.Store.Families().Create(storeCtx, family); err != nil {
		return nil, err
	}

	l.Info("session opened",
		slog.String("subject", id.Subject),
		slog.String("role", id.Role.String()),
		slog.String("family_id", family.ID),
	)

	return s.mintPair(id.Subject, id.Role.String(), id.Role.Permissions(),
		family.ID, 0, s.RefreshTTL, now)
}

// Refresh rotates a refresh token. The presented token's generation
// must be the family's current one; under concurrent refreshes exactly
// one caller wins. A stale generation is treated as reuse and revokes
// the entire family.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Verifier.Verify(refreshToken)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if err := claims.ValidateUse(jwtx.UseRefresh); err != nil {
		return nil, ErrTokenInvalid
	}
	if claims.FamilyID == "" {
		return nil, ErrTokenInvalid
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	newGen, err := s.Store.Families().Rotate(storeCtx, claims.FamilyID, claims.Generation)
	switch {
	case err == nil:
		// carry on below
	case errors.Is(err, store.ErrConflict):
		// Someone already rotated past this generation. Either the
		// token leaked or a client replayed it; both end the family.
		s.revokeFamily(ctx, claims.FamilyID)
		l.Warn("refresh token reuse detected",
			slog.String("subject", claims.Subject),
			slog.String("family_id", claims.FamilyID),
			slog.Int64("presented_gen", claims.Generation),
		)
		return nil, ErrReuseDetected
	case errors.Is(err, store.ErrRevoked):
		return nil, ErrTokenRevoked
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrTokenInvalid
	default:
		return nil, err
	}

	l.Info("session rotated",
		slog.String("subject", claims.Subject),
		slog.String("family_id", claims.FamilyID),
		slog.Int64("generation", newGen),
	)

	// The family's expiry is absolute: the new refresh token inherits
	// the presented token's deadline instead of sliding it forward.
	remaining := time.Until(claims.ExpiresAt.Time)

	return s.mintPair(claims.Subject, claims.Role, claims.Permissions,
		claims.FamilyID, newGen, remaining, time.Now().UTC())
}

// Logout revokes the presented token's family. It is idempotent: an
// already-revoked, expired or garbage token is not an error, since the
// caller's goal (no live session) already holds.
func (s *TokenService) Logout(ctx context.Context, refreshToken string) error {
	l := slogx.FromContext(ctx)

	claims, err := s.Verifier.Verify(refreshToken)
	if err != nil || claims.Use != jwtx.UseRefresh || claims.FamilyID == "" {
		return nil
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	err = s.Store.Families().Revoke(storeCtx, claims.FamilyID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	l.Info("session closed",
		slog.String("subject", claims.Subject),
		slog.String("family_id", claims.FamilyID),
	)
	return nil
}

// RevokeSubjectSessions revokes every live family for a subject and
// reports how many were closed. Outstanding access tokens stay valid
// until they expire; refreshing them will fail.
func (s *TokenService) RevokeSubjectSessions(ctx context.Context, subject string) (int64, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	n, err := s.Store.Families().RevokeAllForSubject(storeCtx, subject)
	if err != nil {
		return 0, err
	}

	slogx.FromContext(ctx).Info("subject sessions revoked",
		slog.String("subject", subject),
		slog.Int64("families", n),
	)
	return n, nil
}

func (s *TokenService) mintPair(
	subject, role string,
	permissions []string,
	familyID string,
	generation int64,
	refreshTTL time.Duration,
	now time.Time,
) (*domain.TokenPair, error) {
	access, err := s.Signer.Sign(jwtx.NewAccessClaims(
		subject, role, permissions, s.AccessTTL, s.Issuer, now))
	if err != nil {
		return nil, err
	}

	refresh, err := s.Signer.Sign(jwtx.NewRefreshClaims(
		subject, role, permissions, familyID, generation, refreshTTL, s.Issuer, now))
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// revokeFamily is the reuse-detection response. Best effort: if the
// revoke itself fails the rotation conflict already blocked the caller.
func (s *TokenService) revokeFamily(ctx context.Context, familyID string) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	if err := s.Store.Families().Revoke(storeCtx, familyID); err != nil &&
		!errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Error("revoke after reuse failed",
			slog.String("family_id", familyID),
			slog.Any("err", err),
		)
	}
}

func (s *TokenService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.StoreTimeout
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
