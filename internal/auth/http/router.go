package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/talentgate/authcore/internal/auth/domain"
	"github.com/talentgate/authcore/internal/auth/service"
	"github.com/talentgate/authcore/internal/auth/store"
	"github.com/talentgate/authcore/pkg/httpx"
	"github.com/talentgate/authcore/pkg/jwtx"
	"github.com/talentgate/authcore/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	TokenService *service.TokenService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /login - strict limit, keyed by client IP. The counter store
	// makes the budget hold across instances sharing a backend.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(&LoginHandler{TokenService: r.TokenService},
			httpx.RateLimitWithStore(r.store.Counters(), httpx.StrictLimit, httpx.IPKeyExtractor),
		),
	)

	// POST /refresh-token - moderate limit by IP. Refreshing is routine
	// but a replay storm should still hit a wall.
	r.Mux.Handle("POST /v1/auth/refresh-token",
		httpx.Chain(&RefreshHandler{TokenService: r.TokenService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /logout - moderate limit by IP.
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(&LogoutHandler{TokenService: r.TokenService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /jwks.json - public endpoint with high limit
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	// POST /sessions/revoke - authenticated, admin permission required,
	// lenient limit keyed by the acting subject.
	secured := httpx.Chain(&RevokeSessionsHandler{TokenService: r.TokenService},
		httpx.Authn(r.verifier),
		httpx.RequireAllPermissions(domain.PermRevokeSessions),
		httpx.RateLimitBySubject(httpx.LenientLimit),
	)

	r.Mux.Handle("POST /v1/admin/sessions/revoke", secured)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, func() bool {
		return r.TokenService != nil && r.TokenService.Signer != nil &&
			r.TokenService.Signer.Validate() == nil
	}))
}
