package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"STUDYDESK_DATABASE_URL", "STUDYDESK_AUTH_MODE", "STUDYDESK_IDLE_TIMEOUT",
		"STUDYDESK_CORS_ORIGINS", "STUDYDESK_TRUSTED_PROXIES", "PORT", "HOUSEKEEPING_INTERVAL",
	} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	require.Equal(t, AuthModeJWT, cfg.AuthMode)
	require.Equal(t, "authenticated", cfg.JWTAudience)
	require.Equal(t, 10*time.Minute, cfg.IdleTimeout)
	require.Equal(t, time.Minute, cfg.HousekeepingInterval)
	require.Equal(t, 8080, cfg.Port)
	require.Contains(t, cfg.DatabaseURL, "studydesk.db")
	require.Empty(t, cfg.CORSOrigins)
	require.Empty(t, cfg.TrustedProxies)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STUDYDESK_AUTH_MODE", "STATIC")
	t.Setenv("STUDYDESK_IDLE_TIMEOUT", "15")
	t.Setenv("STUDYDESK_UPSTREAM_TIMEOUT", "5s")
	t.Setenv("STUDYDESK_CORS_ORIGINS", " https://a.example.com , ,https://b.example.com")
	t.Setenv("STUDYDESK_TRUSTED_PROXIES", "10.0.0.0/8,192.168.1.1")
	t.Setenv("PORT", "not-a-number")
	t.Setenv("HOUSEKEEPING_INTERVAL", "garbage")

	cfg := LoadConfig()
	require.Equal(t, AuthModeStatic, cfg.AuthMode)
	require.Equal(t, 15*time.Minute, cfg.IdleTimeout, "bare integers are minutes")
	require.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	require.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.TrustedProxies)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, time.Minute, cfg.HousekeepingInterval)
}

func TestParseStaticTokens(t *testing.T) {
	t.Parallel()

	users, err := ParseStaticTokens("tok-a=u-a:a@example.com, tok-b=u-b")
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "u-a", users["tok-a"].ID)
	require.Equal(t, "a@example.com", users["tok-a"].Email)
	require.Empty(t, users["tok-b"].Email)

	for _, bad := range []string{"tok-a", "=u-a", "tok-a="} {
		_, err := ParseStaticTokens(bad)
		require.Error(t, err, bad)
	}
}

func TestParseBootstrapAdmins(t *testing.T) {
	t.Parallel()

	users := ParseBootstrapAdmins("u-1:ops@example.com, u-2 ,:nobody@example.com")
	require.Len(t, users, 2)
	require.Equal(t, "u-1", users[0].ID)
	require.Equal(t, "ops@example.com", users[0].Email)
	require.Equal(t, "u-2", users[1].ID)
}

func TestInitIdentityRequiresSettings(t *testing.T) {
	t.Parallel()

	for _, mode := range []string{AuthModeJWT, AuthModeJWKS, AuthModeRemote, "ldap"} {
		_, err := InitIdentity(t.Context(), Config{AuthMode: mode})
		require.Error(t, err, mode)
	}

	idp, err := InitIdentity(t.Context(), Config{AuthMode: AuthModeStatic, StaticTokens: "t=u"})
	require.NoError(t, err)
	u, err := idp.ResolveUser(t.Context(), "t")
	require.NoError(t, err)
	require.Equal(t, "u", u.ID)
}
