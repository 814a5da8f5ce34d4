package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Auth modes select how session credentials are resolved.
const (
	AuthModeJWT    = "jwt"    // HS256 with the provider's shared secret
	AuthModeJWKS   = "jwks"   // asymmetric keys from the provider's JWKS endpoint
	AuthModeRemote = "remote" // ask the provider's user endpoint
	AuthModeStatic = "static" // fixed token table, local development only
)

type Config struct {
	DatabaseURL string // Optional: SQLite DSN or postgres:// URL (default: file:studydesk.db)

	AuthMode     string        // Optional: jwt, jwks, remote or static (default: jwt)
	JWTSecret    string        // Required in jwt mode
	JWKSURL      string        // Required in jwks mode
	JWTIssuer    string        // Optional: expected iss claim
	JWTAudience  string        // Optional: expected aud claim (default: authenticated)
	JWTLeeway    time.Duration // Optional: clock skew tolerance (default: 30s)
	AuthURL      string        // Required in remote mode: provider base URL
	AuthAPIKey   string        // Optional: provider apikey header in remote mode
	StaticTokens string        // Static mode: "token=user_id[:email],..."

	BootstrapAdmins string // Optional: "user_id[:email],..." promoted to admin at startup

	UpstreamURL     string        // Optional: chat/billing API base URL; mark-paid falls back to local writes without it
	UpstreamKey     string        // Optional: x-admin-key for privileged upstream calls
	UpstreamTimeout time.Duration // Optional: per-call timeout (default: 30s)

	IdleTimeout   time.Duration // Optional: student idle logout (default: 10m)
	IdleRetention time.Duration // Optional: how long idle sessions stay rejected (default: 24h)
	RedisURL      string        // Optional: share idle tracking across replicas

	CORSOrigins    []string // Optional: browser origins allowed to call the API
	TrustedProxies []string // Optional: proxy IPs/CIDRs whose X-Forwarded-For is believed (default: none)
	PolicyFile     string   // Optional: YAML registration policy

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1m)
}

// LoadConfig reads STUDYDESK_* variables, after loading .env when present.
func LoadConfig() Config {
	_ = godotenv.Load() // ok if missing in prod

	return Config{
		DatabaseURL: getEnvOrDefault("STUDYDESK_DATABASE_URL", "file:studydesk.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"),

		AuthMode:     strings.ToLower(getEnvOrDefault("STUDYDESK_AUTH_MODE", AuthModeJWT)),
		JWTSecret:    os.Getenv("STUDYDESK_JWT_SECRET"),
		JWKSURL:      os.Getenv("STUDYDESK_JWKS_URL"),
		JWTIssuer:    os.Getenv("STUDYDESK_JWT_ISSUER"),
		JWTAudience:  getEnvOrDefault("STUDYDESK_JWT_AUDIENCE", "authenticated"),
		JWTLeeway:    getEnvDurationOrDefault("STUDYDESK_JWT_LEEWAY", 30*time.Second),
		AuthURL:      os.Getenv("STUDYDESK_AUTH_URL"),
		AuthAPIKey:   os.Getenv("STUDYDESK_AUTH_APIKEY"),
		StaticTokens: os.Getenv("STUDYDESK_STATIC_TOKENS"),

		BootstrapAdmins: os.Getenv("STUDYDESK_BOOTSTRAP_ADMINS"),

		UpstreamURL:     os.Getenv("STUDYDESK_UPSTREAM_URL"),
		UpstreamKey:     os.Getenv("STUDYDESK_ADMIN_KEY"),
		UpstreamTimeout: getEnvDurationOrDefault("STUDYDESK_UPSTREAM_TIMEOUT", 30*time.Second),

		IdleTimeout:   getEnvDurationOrDefault("STUDYDESK_IDLE_TIMEOUT", 10*time.Minute),
		IdleRetention: getEnvDurationOrDefault("STUDYDESK_IDLE_RETENTION", 24*time.Hour),
		RedisURL:      os.Getenv("STUDYDESK_REDIS_URL"),

		CORSOrigins:    splitList(os.Getenv("STUDYDESK_CORS_ORIGINS")),
		TrustedProxies: splitList(os.Getenv("STUDYDESK_TRUSTED_PROXIES")),
		PolicyFile:     os.Getenv("STUDYDESK_POLICY_FILE"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// "1h", "30m", "90s"
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
