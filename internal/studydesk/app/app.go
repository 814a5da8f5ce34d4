package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/activity"
	httpapi "github.com/aussiebroadwan/studydesk/internal/studydesk/http"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/identity"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/service"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store/drivers/sqldb"
	"github.com/aussiebroadwan/studydesk/pkg/httpx"
	"github.com/aussiebroadwan/studydesk/pkg/slogx"
	"github.com/aussiebroadwan/studydesk/pkg/upstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion is overridden at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the studydesk service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	identity identity.Provider
	tracker  activity.Tracker
	redis    *redis.Client
	registry *prometheus.Registry

	authorizer          *service.Authorizer
	adminService        *service.AdminService
	profileService      *service.ProfileService
	gatewayService      *service.GatewayService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "studydesk",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	idp, err := InitIdentity(ctx, cfg)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize identity provider: %w", err)
	}
	app.identity = idp

	if err := app.initTracker(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		app.closeBackends()
		return nil, err
	}
	if err := app.initHTTP(); err != nil {
		app.closeBackends()
		return nil, err
	}

	return app, nil
}

// Handler exposes the routed handler, e.g. for in-process tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("studydesk starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"auth_mode", app.cfg.AuthMode,
		"upstream", app.cfg.UpstreamURL != "",
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown drains in-flight requests, stops housekeeping and closes backends.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down studydesk...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.closeBackends(); err != nil {
		return err
	}

	app.logger.Info("studydesk stopped")
	return nil
}

// Close releases backends without touching the HTTP server; for callers
// that never called Run.
func (app *Application) Close() error { return app.closeBackends() }

func (app *Application) closeBackends() error {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

func (app *Application) initDatabase() error {
	db, err := sqldb.Open(app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "dialect", db.Dialect())
	return nil
}

func (app *Application) initTracker() error {
	opts := activity.Options{
		IdleTimeout: app.cfg.IdleTimeout,
		Retention:   app.cfg.IdleRetention,
	}

	if app.cfg.RedisURL == "" {
		app.tracker = activity.NewMemory(opts)
		app.logger.Info("idle tracking in memory", "idle_timeout", app.cfg.IdleTimeout)
		return nil
	}

	ropts, err := redis.ParseURL(app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid STUDYDESK_REDIS_URL: %w", err)
	}
	app.redis = redis.NewClient(ropts)
	app.tracker = activity.NewRedis(app.redis, opts)
	app.logger.Info("idle tracking in redis", "addr", ropts.Addr, "idle_timeout", app.cfg.IdleTimeout)
	return nil
}

func (app *Application) initServices() error {
	metrics := service.NewMetrics(app.registry)

	var up *upstream.Client
	if app.cfg.UpstreamURL != "" {
		up = upstream.NewClient(app.cfg.UpstreamURL, app.cfg.UpstreamKey, app.cfg.UpstreamTimeout)
	} else {
		app.logger.Warn("no upstream configured: mark-paid writes locally, redeem and chat are unavailable")
	}

	policy := service.DefaultRegistrationPolicy()
	if app.cfg.PolicyFile != "" {
		p, err := service.LoadRegistrationPolicy(app.cfg.PolicyFile)
		if err != nil {
			return err
		}
		policy = p
	}

	app.authorizer = &service.Authorizer{Identity: app.identity, Store: app.db}
	app.adminService = &service.AdminService{
		Store:    app.db,
		Audit:    &service.AuditRecorder{Store: app.db, Metrics: metrics},
		Upstream: up,
		Metrics:  metrics,
	}
	app.profileService = &service.ProfileService{Store: app.db, Policy: policy}
	app.gatewayService = &service.GatewayService{Store: app.db, Upstream: up}

	ctx := context.Background()
	for _, u := range ParseBootstrapAdmins(app.cfg.BootstrapAdmins) {
		if err := app.profileService.PromoteAdmin(slogx.WithContext(ctx, app.logger), u); err != nil {
			return fmt.Errorf("failed to bootstrap admin %s: %w", u.ID, err)
		}
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.adminService,
		app.tracker,
		metrics,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

func (app *Application) initHTTP() error {
	proxies, err := httpx.ParseProxies(app.cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("invalid STUDYDESK_TRUSTED_PROXIES: %w", err)
	}

	rl := httpapi.RateLimits{
		Mutation: httpx.ParseRateLimitFromEnv("MUTATION", httpx.MutationLimit),
		Read:     httpx.ParseRateLimitFromEnv("READ", httpx.ReadLimit),
		Export:   httpx.ParseRateLimitFromEnv("EXPORT", httpx.ExportLimit),
	}

	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.logger,
		app.cfg.CORSOrigins,
		httpx.NewHTTPMetrics(app.registry, "studydesk"),
	)

	router.Authorizer = app.authorizer
	router.Admin = app.adminService
	router.Profiles = app.profileService
	router.Gateway = app.gatewayService
	router.Tracker = app.tracker
	router.Gatherer = app.registry
	router.RateLimits = rl
	router.Proxies = proxies
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
