package http_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/talentgate/authcore/internal/auth/domain"
	authhttp "github.com/talentgate/authcore/internal/auth/http"
	"github.com/talentgate/authcore/internal/auth/identity"
	"github.com/talentgate/authcore/internal/auth/service"
	"github.com/talentgate/authcore/internal/auth/store/drivers/sqlite"
	"github.com/talentgate/authcore/pkg/jwtx"
)

const (
	testIssuer   = "talentgate-auth"
	testPassword = "hunter2"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestRouter(t *testing.T) *authhttp.Router {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "authcore.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	signer, err := jwtx.NewSignerHS256("hs-test", testSecret)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256(testSecret, testIssuer)

	provider := identity.NewStaticProvider()
	provider.Add(domain.Identity{
		Subject: "user-alice",
		Email:   "alice@example.com",
		Role:    domain.RoleRecruiter,
	}, testPassword, "")
	provider.Add(domain.Identity{
		Subject: "user-admin",
		Email:   "admin@example.com",
		Role:    domain.RoleAdmin,
	}, testPassword, "")

	router := authhttp.NewRouter(jwtx.NewKeySet(), verifier, "test", st, slog.Default())
	router.TokenService = &service.TokenService{
		Signer:     signer,
		Verifier:   verifier,
		Identity:   provider,
		Store:      st,
		Issuer:     testIssuer,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
	router.ApplyRoutes()
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginPair(t *testing.T, router http.Handler, email string) (access, refresh string) {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    email,
		"password": testPassword,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.AccessToken, resp.RefreshToken
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func TestLoginEndpoint(t *testing.T) {
	router := newTestRouter(t)

	t.Run("valid credentials return a pair", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": testPassword,
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

		var resp struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			TokenType    string `json:"token_type"`
			ExpiresIn    int    `json:"expires_in"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.NotEmpty(t, resp.AccessToken)
		require.NotEmpty(t, resp.RefreshToken)
		require.Equal(t, "Bearer", resp.TokenType)
		require.Equal(t, int((15 * time.Minute).Seconds()), resp.ExpiresIn)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "AUTH_INVALID_CREDENTIALS", errorCode(t, rec))
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRefreshEndpoint(t *testing.T) {
	router := newTestRouter(t)

	_, refresh := loginPair(t, router, "alice@example.com")

	t.Run("rotation succeeds", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/auth/refresh-token", map[string]string{
			"refresh_token": refresh,
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("replay reports reuse", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/auth/refresh-token", map[string]string{
			"refresh_token": refresh,
		}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "AUTH_TOKEN_REUSE", errorCode(t, rec))
	})

	t.Run("garbage token is invalid", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/auth/refresh-token", map[string]string{
			"refresh_token": "not-a-token",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "AUTH_TOKEN_INVALID", errorCode(t, rec))
	})
}

func TestLogoutEndpoint(t *testing.T) {
	router := newTestRouter(t)

	_, refresh := loginPair(t, router, "alice@example.com")

	rec := doJSON(t, router, http.MethodPost, "/v1/auth/logout", map[string]string{
		"refresh_token": refresh,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Second logout with the same token still succeeds.
	rec = doJSON(t, router, http.MethodPost, "/v1/auth/logout", map[string]string{
		"refresh_token": refresh,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The family is gone: refreshing reports revoked.
	rec = doJSON(t, router, http.MethodPost, "/v1/auth/refresh-token", map[string]string{
		"refresh_token": refresh,
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "AUTH_TOKEN_REVOKED", errorCode(t, rec))
}

func TestAdminRevokeEndpoint(t *testing.T) {
	router := newTestRouter(t)

	adminAccess, _ := loginPair(t, router, "admin@example.com")
	_, aliceRefresh := loginPair(t, router, "alice@example.com")

	t.Run("requires authentication", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/admin/sessions/revoke", map[string]string{
			"subject": "user-alice",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("recruiter is forbidden", func(t *testing.T) {
		aliceAccess, _ := loginPair(t, router, "alice@example.com")
		rec := doJSON(t, router, http.MethodPost, "/v1/admin/sessions/revoke", map[string]string{
			"subject": "user-alice",
		}, map[string]string{"Authorization": "Bearer " + aliceAccess})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin revokes a subject's sessions", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/admin/sessions/revoke", map[string]string{
			"subject": "user-alice",
		}, map[string]string{"Authorization": "Bearer " + adminAccess})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Revoked int64 `json:"revoked"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.GreaterOrEqual(t, resp.Revoked, int64(1))

		// Alice's refresh token is dead now.
		rec = doJSON(t, router, http.MethodPost, "/v1/auth/refresh-token", map[string]string{
			"refresh_token": aliceRefresh,
		}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "AUTH_TOKEN_REVOKED", errorCode(t, rec))
	})
}

func TestSystemEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("livez", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/livez", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/readyz", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("jwks", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/.well-known/jwks.json", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var jwks jwtx.JWKS
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&jwks))
		// HS256 mode publishes nothing.
		require.Empty(t, jwks.Keys)
	})
}
