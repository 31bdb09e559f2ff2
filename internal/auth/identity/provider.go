// Package identity abstracts credential verification. The auth service
// never stores passwords; it hands credentials to a Provider and gets
// back a verified identity to mint a session for.
package identity

import (
	"context"
	"errors"

	"github.com/talentgate/authcore/internal/auth/domain"
)

var (
	ErrInvalidCredentials = errors.New("identity: invalid credentials")

	// ErrMFARequired means the credentials were correct but the account
	// requires a one-time code that was missing or wrong.
	ErrMFARequired = errors.New("identity: mfa required")
)

// Credentials is what a subject presents at login.
type Credentials struct {
	Email    string
	Password string
	MFACode  string
}

// Provider verifies credentials against an identity backend.
type Provider interface {
	Verify(ctx context.Context, creds Credentials) (domain.Identity, error)
}
