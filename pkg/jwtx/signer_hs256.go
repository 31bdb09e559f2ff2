package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// minHS256SecretBytes rejects secrets shorter than the HMAC output size.
const minHS256SecretBytes = 32

// HS256Signer implements the Signer interface using HMAC-SHA256 with a
// server-held shared secret. This matches deployments where the signing
// secret arrives via environment configuration.
type HS256Signer struct {
	kid    string
	secret []byte
	alg    string
}

func newHS256Signer(kid string, secret []byte) (*HS256Signer, error) {
	if len(secret) < minHS256SecretBytes {
		return nil, errors.New("jwtx: HS256 secret must be at least 32 bytes")
	}
	return &HS256Signer{
		kid:    kid,
		secret: secret,
		alg:    jwt.SigningMethodHS256.Alg(),
	}, nil
}

func (s *HS256Signer) Alg() string { return s.alg }
func (s *HS256Signer) KID() string { return s.kid }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if s.kid != "" {
		t.Header["kid"] = s.kid
	}
	return t.SignedString(s.secret)
}

// Validate does a quick sanity check on the configured secret.
func (s *HS256Signer) Validate() error {
	if len(s.secret) < minHS256SecretBytes {
		return errors.New("jwtx: HS256 secret too short")
	}
	return nil
}
