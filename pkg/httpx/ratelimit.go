package httpx

import (
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// Default profiles. Overridable through ParseRateLimitFromEnv.
var (
	// MutationLimit guards admin writes and upstream-forwarding routes.
	MutationLimit = RateLimitConfig{RequestsPerWindow: 30, Window: time.Minute, Burst: 10}

	// ReadLimit guards admin listings and student reads.
	ReadLimit = RateLimitConfig{RequestsPerWindow: 120, Window: time.Minute, Burst: 40}

	// ExportLimit guards the bulk CSV/XLSX exports.
	ExportLimit = RateLimitConfig{RequestsPerWindow: 6, Window: time.Minute, Burst: 2}
)

// ParseRateLimitFromEnv overrides def from STUDYDESK_RATELIMIT_{name}_REQUESTS,
// _WINDOW_SEC and _BURST. Unparseable or non-positive values are ignored.
func ParseRateLimitFromEnv(name string, def RateLimitConfig) RateLimitConfig {
	cfg := def
	prefix := "STUDYDESK_RATELIMIT_" + name

	if n, ok := positiveEnv(prefix + "_REQUESTS"); ok {
		cfg.RequestsPerWindow = n
	}
	if n, ok := positiveEnv(prefix + "_WINDOW_SEC"); ok {
		cfg.Window = time.Duration(n) * time.Second
	}
	if n, ok := positiveEnv(prefix + "_BURST"); ok {
		cfg.Burst = n
	}
	return cfg
}

func positiveEnv(key string) (int, bool) {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// KeyExtractor picks the bucket a request is charged to.
type KeyExtractor func(*http.Request) string

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per key.
type rateLimiter struct {
	mu          sync.Mutex
	entries     map[string]*limiterEntry
	rate        rate.Limit
	burst       int
	idleTTL     time.Duration
	lastCleanup time.Time
}

func (rl *rateLimiter) get(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastCleanup) >= rl.idleTTL {
		for k, e := range rl.entries {
			if now.Sub(e.lastSeen) >= rl.idleTTL {
				delete(rl.entries, k)
			}
		}
		rl.lastCleanup = now
	}

	e, ok := rl.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

// RateLimit rejects requests over cfg with 429 and a Retry-After header.
func RateLimit(cfg RateLimitConfig, key KeyExtractor) Middleware {
	rl := &rateLimiter{
		entries:     make(map[string]*limiterEntry),
		rate:        rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:       cfg.Burst,
		idleTTL:     max(cfg.Window, time.Minute) * 5,
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			now := time.Now()
			limiter := rl.get(k, now)

			res := limiter.ReserveN(now, 1)
			if delay := res.DelayFrom(now); delay > 0 {
				res.CancelAt(now)
				retryAfter := max(int(delay.Seconds()+0.5), 1)

				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
				w.Header().Set("X-RateLimit-Window", cfg.Window.String())

				logFromRequest(r).Warn("rate limit exceeded", "key", k, "retry_after", retryAfter)
				WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
