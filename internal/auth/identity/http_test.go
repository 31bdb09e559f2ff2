package identity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/talentgate/authcore/internal/auth/domain"
	"github.com/talentgate/authcore/internal/auth/identity"
)

func TestHTTPProviderVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/identities/verify", r.URL.Path)

		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			MFACode  string `json:"mfa_code"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		switch {
		case req.Email == "alice@example.com" && req.Password == "hunter2":
			_ = json.NewEncoder(w).Encode(map[string]string{
				"subject": "user-alice",
				"email":   req.Email,
				"name":    "Alice",
				"role":    "recruiter",
			})
		case req.Email == "bob@example.com" && req.Password == "hunter2" && req.MFACode == "":
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "mfa_required"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_credentials"})
		}
	}))
	defer srv.Close()

	p := identity.NewHTTPProvider(srv.URL)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		id, err := p.Verify(ctx, identity.Credentials{
			Email:    "alice@example.com",
			Password: "hunter2",
		})
		require.NoError(t, err)
		require.Equal(t, "user-alice", id.Subject)
		require.Equal(t, domain.RoleRecruiter, id.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := p.Verify(ctx, identity.Credentials{
			Email:    "alice@example.com",
			Password: "wrong",
		})
		require.ErrorIs(t, err, identity.ErrInvalidCredentials)
	})

	t.Run("mfa required", func(t *testing.T) {
		_, err := p.Verify(ctx, identity.Credentials{
			Email:    "bob@example.com",
			Password: "hunter2",
		})
		require.ErrorIs(t, err, identity.ErrMFARequired)
	})
}

func TestHTTPProviderRejectsUnknownRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"subject": "user-x",
			"email":   "x@example.com",
			"role":    "superuser",
		})
	}))
	defer srv.Close()

	_, err := identity.NewHTTPProvider(srv.URL).Verify(context.Background(), identity.Credentials{
		Email:    "x@example.com",
		Password: "pw",
	})
	require.Error(t, err)
}

func TestStaticProvider(t *testing.T) {
	p := identity.NewStaticProvider()
	p.Add(domain.Identity{
		Subject: "user-1",
		Email:   "carol@example.com",
		Role:    domain.RoleAdmin,
	}, "pw", "123456")

	ctx := context.Background()

	_, err := p.Verify(ctx, identity.Credentials{Email: "carol@example.com", Password: "pw"})
	require.ErrorIs(t, err, identity.ErrMFARequired)

	id, err := p.Verify(ctx, identity.Credentials{
		Email: "carol@example.com", Password: "pw", MFACode: "123456",
	})
	require.NoError(t, err)
	require.Equal(t, "user-1", id.Subject)

	_, err = p.Verify(ctx, identity.Credentials{Email: "nobody@example.com", Password: "pw"})
	require.ErrorIs(t, err, identity.ErrInvalidCredentials)
}
