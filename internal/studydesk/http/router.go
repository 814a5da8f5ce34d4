package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/activity"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/service"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store"
	"github.com/aussiebroadwan/studydesk/pkg/httpx"
	"github.com/aussiebroadwan/studydesk/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/studydesk/api/studydesk" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// RateLimits are the per-route limiter profiles.
type RateLimits struct {
	Mutation httpx.RateLimitConfig
	Read     httpx.RateLimitConfig
	Export   httpx.RateLimitConfig
}

func DefaultRateLimits() RateLimits {
	return RateLimits{
		Mutation: httpx.MutationLimit,
		Read:     httpx.ReadLimit,
		Export:   httpx.ExportLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Authorizer *service.Authorizer
	Admin      *service.AdminService
	Profiles   *service.ProfileService
	Gateway    *service.GatewayService

	// Tracker enforces idle logout on student routes. Nil disables it.
	Tracker activity.Tracker

	// Proxies decides whose forwarding headers name the client IP used for
	// rate limiting and device ban checks. The zero value trusts nobody.
	Proxies httpx.Proxies

	Gatherer   prometheus.Gatherer
	RateLimits RateLimits
	Now        func() time.Time
}

// NewRouter builds the router with the global chain: panic recovery, request
// logging, CORS and (when httpMetrics is non-nil) request metrics around the
// mux.
func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	corsOrigins []string,
	httpMetrics *httpx.HTTPMetrics,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		RateLimits:   DefaultRateLimits(),
	}

	r.middlewares = []httpx.Middleware{
		httpx.Recover(),
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(corsOrigins),
	}
	if httpMetrics != nil {
		r.middlewares = append(r.middlewares, httpMetrics.Middleware())
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAdmin()
	r.registerStudent()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			StudyDesk API
//	@version		0.1.0
//	@description	Admin back office and student gateway for the StudyDesk tutoring service.
//	@description
//	@description				Every route except the health probes expects the session credential issued by the auth provider.
//	@description				Admin routes additionally require the caller's profile to carry the admin role.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/studydesk
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{Admin: r.Admin}

	admin := func(fn http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(fn,
			r.requireAdmin(),
			httpx.RateLimit(limit, r.Proxies.UserOrIP),
		)
	}

	rl := r.RateLimits
	r.Mux.Handle("GET /admin/overview", admin(h.HandleOverview, rl.Read))
	r.Mux.Handle("GET /admin/trial-codes", admin(h.HandleTrialCodes, rl.Read))
	r.Mux.Handle("POST /admin/generate-trial-code", admin(h.HandleGenerateTrialCode, rl.Mutation))
	r.Mux.Handle("GET /admin/users", admin(h.HandleUsers, rl.Read))
	r.Mux.Handle("POST /admin/mark-paid", admin(h.HandleMarkPaid, rl.Mutation))
	r.Mux.Handle("GET /admin/devices", admin(h.HandleDevices, rl.Read))
	r.Mux.Handle("POST /admin/reset-devices", admin(h.HandleResetDevices, rl.Mutation))
	r.Mux.Handle("POST /admin/ban-user", admin(h.HandleBanUser, rl.Mutation))
	r.Mux.Handle("POST /admin/ban-device", admin(h.HandleBanDevice, rl.Mutation))
	r.Mux.Handle("GET /admin/logs", admin(h.HandleLogs, rl.Read))
	r.Mux.Handle("GET /admin/export-users", admin(h.HandleExportUsers, rl.Export))
	r.Mux.Handle("GET /admin/export-codes", admin(h.HandleExportCodes, rl.Export))
}

func (r *Router) registerStudent() {
	h := &StudentHandler{Profiles: r.Profiles, Gateway: r.Gateway, ClientIP: r.Proxies.ClientIP}

	student := func(fn http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(fn,
			r.requireSession(),
			httpx.RateLimit(limit, r.Proxies.UserOrIP),
		)
	}

	rl := r.RateLimits
	r.Mux.Handle("GET /me", student(h.HandleMe, rl.Read))
	r.Mux.Handle("POST /me/profile", student(h.HandleCompleteProfile, rl.Mutation))
	r.Mux.Handle("POST /redeem-trial-code", student(h.HandleRedeemTrialCode, rl.Mutation))
	r.Mux.Handle("POST /chat", student(h.HandleChat, rl.Mutation))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Tracker))

	if r.Gatherer != nil {
		r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{}))
	}
}
