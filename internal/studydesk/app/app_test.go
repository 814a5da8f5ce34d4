package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		DatabaseURL:          ":memory:",
		AuthMode:             AuthModeStatic,
		StaticTokens:         "tok-admin=u-admin:ops@example.com,tok-student=u-student",
		BootstrapAdmins:      "u-admin:ops@example.com",
		IdleTimeout:          10 * time.Minute,
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		Port:                 0,
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Minute,
	}
}

func TestNewWiresRoutes(t *testing.T) {
	t.Parallel()

	app, err := New(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	get := func(path, token string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		app.Handler().ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, get("/readyz", ""))
	require.Equal(t, http.StatusOK, get("/admin/overview", "tok-admin"))
	require.Equal(t, http.StatusForbidden, get("/admin/overview", "tok-student"))
	require.Equal(t, http.StatusUnauthorized, get("/admin/overview", "tok-unknown"))
	require.Equal(t, http.StatusOK, get("/me", "tok-student"))
	require.Equal(t, http.StatusOK, get("/metrics", ""))
}

func TestNewRejectsBadConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.AuthMode = AuthModeJWT
	_, err := New(cfg)
	require.Error(t, err)

	cfg = testConfig()
	cfg.RedisURL = "not a url"
	_, err = New(cfg)
	require.Error(t, err)

	cfg = testConfig()
	cfg.TrustedProxies = []string{"lb.internal"}
	_, err = New(cfg)
	require.Error(t, err)

	cfg = testConfig()
	cfg.PolicyFile = "/does/not/exist.yaml"
	_, err = New(cfg)
	require.Error(t, err)
}
