package httpx

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS lets the browser front end call the API from the listed origins.
// With no origins configured the middleware is a no-op.
func CORS(origins []string) Middleware {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type",
			"X-Device-Id", "X-Device-Fingerprint", "X-Request-ID",
		},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
