package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Access tokens stay short because authorization is
// purely claim-based: revocation only takes effect at the next refresh.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour

	// DefaultLeeway is the clock-skew tolerance applied to exp/nbf when
	// verifying. It is never applied to iat-based reasoning.
	DefaultLeeway = 30 * time.Second
)

// Token use values carried in the "use" claim. Access tokens presented to
// the refresh endpoint (and vice versa) are rejected by this claim.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// Claims is the signed claim-set for both token kinds. Refresh tokens
// additionally carry the family id and generation counter that drive
// rotation and reuse detection.
type Claims struct {
	jwt.RegisteredClaims

	// Use distinguishes access tokens from refresh tokens.
	Use string `json:"use,omitempty"`

	// Role is the subject's assigned role, fixed for the session.
	Role string `json:"role,omitempty"`

	// Permissions is the permission set derived from Role at issuance.
	// The authorization gate never recomputes it.
	Permissions []string `json:"permissions,omitempty"`

	// FamilyID identifies the refresh-token lineage (refresh tokens only).
	FamilyID string `json:"fid,omitempty"`

	// Generation is the rotation counter within the family (refresh
	// tokens only). Generation 0 omits the claim entirely.
	Generation int64 `json:"gen,omitempty"`
}

// NewAccessClaims builds the claim-set for a short-lived access token.
func NewAccessClaims(
	subject, role string,
	permissions []string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: registered(subject, issuer, ttl, now),
		Use:              UseAccess,
		Role:             role,
		Permissions:      permissions,
	}
}

// NewRefreshClaims builds the claim-set for a refresh token at the given
// generation within a family. Role and permissions ride along so rotation
// can re-issue an access token without consulting the identity store.
func NewRefreshClaims(
	subject, role string,
	permissions []string,
	familyID string,
	generation int64,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: registered(subject, issuer, ttl, now),
		Use:              UseRefresh,
		Role:             role,
		Permissions:      permissions,
		FamilyID:         familyID,
		Generation:       generation,
	}
}

func registered(subject, issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer against an expected value. An empty
// expected value enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateUse ensures the token was minted for the expected purpose.
func (c *Claims) ValidateUse(expected string) error {
	if c.Use != expected {
		return ErrInvalidClaim
	}
	return nil
}

// ValidateExpiryWithLeeway checks exp and nbf with a grace period for
// clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
