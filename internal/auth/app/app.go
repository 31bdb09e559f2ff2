package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/talentgate/authcore/internal/auth/domain"
	httpapi "github.com/talentgate/authcore/internal/auth/http"
	"github.com/talentgate/authcore/internal/auth/identity"
	"github.com/talentgate/authcore/internal/auth/service"
	"github.com/talentgate/authcore/internal/auth/store"
	redisdriver "github.com/talentgate/authcore/internal/auth/store/drivers/redis"
	"github.com/talentgate/authcore/internal/auth/store/drivers/sqlite"
	"github.com/talentgate/authcore/pkg/jwtx"
	"github.com/talentgate/authcore/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db   store.Store
	keys *jwtx.KeySet

	tokenService        *service.TokenService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "authcore",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	signer, verifier, keys, err := initSigning(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.keys = keys

	app.initServices(signer, verifier)
	app.initHTTP(verifier)

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("authcore starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down authcore...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("authcore stopped")
	return nil
}

// initStore initializes the configured token store backend.
func (app *Application) initStore() error {
	switch app.cfg.StoreBackend {
	case "redis":
		rdb := goredis.NewClient(&goredis.Options{Addr: app.cfg.RedisAddr})
		app.db = redisdriver.NewStore(rdb)

	case "sqlite":
		db, err := sqlite.NewStore(app.cfg.DatabaseFile)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		app.db = db

	default:
		return fmt.Errorf("unsupported store backend %q", app.cfg.StoreBackend)
	}

	if err := app.db.ApplyMigrations(); err != nil {
		_ = app.db.Close()
		return fmt.Errorf("failed to apply store migrations: %w", err)
	}

	app.logger.Info("token store ready", "backend", app.cfg.StoreBackend)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices(signer jwtx.Signer, verifier jwtx.Verifier) {
	app.tokenService = &service.TokenService{
		Signer:       signer,
		Verifier:     verifier,
		Identity:     app.identityProvider(),
		Store:        app.db,
		Issuer:       app.cfg.Issuer,
		AccessTTL:    app.cfg.AccessTokenTTL,
		RefreshTTL:   app.cfg.RefreshTokenTTL,
		StoreTimeout: app.cfg.StoreTimeout,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.RetentionGrace,
	)
}

// identityProvider picks the credential backend. Without a configured
// identity service this falls back to a static dev account, which is
// only acceptable outside prod.
func (app *Application) identityProvider() identity.Provider {
	if app.cfg.IdentityProviderURL != "" {
		return identity.NewHTTPProvider(app.cfg.IdentityProviderURL)
	}

	if app.cfg.Env == "prod" {
		app.logger.Warn("no identity provider configured in prod; all logins will fail")
		return identity.NewStaticProvider()
	}

	app.logger.Warn("using built-in dev identity provider",
		"email", "dev@localhost", "role", domain.RoleAdmin.String())

	dev := identity.NewStaticProvider()
	dev.Add(domain.Identity{
		Subject: "dev-admin",
		Email:   "dev@localhost",
		Name:    "Dev Admin",
		Role:    domain.RoleAdmin,
	}, "devpassword", "")
	return dev
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP(verifier jwtx.Verifier) {
	router := httpapi.NewRouter(
		app.keys,
		verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.TokenService = app.tokenService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
