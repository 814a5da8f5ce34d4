package studydesk_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/app"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store/drivers/sqldb"
	"github.com/aussiebroadwan/studydesk/pkg/desksdk"
	"github.com/stretchr/testify/require"
)

/*
 * The service runs in process behind httptest with static tokens. A fake
 * upstream shares the SQLite file, so redemption and billing land in the
 * same tables the back office reads, like the hosted API does.
 */

const (
	adminToken  = "e2e-admin-token"
	aliceToken  = "e2e-alice-token"
	bobToken    = "e2e-bob-token"
	upstreamKey = "e2e-admin-key"
	aliceID     = "u-alice"
	bobID       = "u-bob"
	adminID     = "u-ops"
	adminEmail  = "ops@example.com"
)

type env struct {
	baseURL  string
	upstream *fakeUpstream
}

func (e *env) client(token string) *desksdk.Client {
	return desksdk.NewClient(e.baseURL, token)
}

func setup(t *testing.T) *env {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "e2e.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	up := newFakeUpstream(t, dsn)
	upSrv := httptest.NewServer(up)
	t.Cleanup(upSrv.Close)

	application, err := app.New(app.Config{
		DatabaseURL: dsn,
		AuthMode:    app.AuthModeStatic,
		StaticTokens: strings.Join([]string{
			adminToken + "=" + adminID + ":" + adminEmail,
			aliceToken + "=" + aliceID + ":alice@example.com",
			bobToken + "=" + bobID + ":bob@mailinator.com",
		}, ","),
		BootstrapAdmins:      adminID + ":" + adminEmail,
		UpstreamURL:          upSrv.URL,
		UpstreamKey:          upstreamKey,
		UpstreamTimeout:      5 * time.Second,
		IdleTimeout:          10 * time.Minute,
		IdleRetention:        time.Hour,
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "json",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)

	return &env{baseURL: srv.URL, upstream: up}
}

// fakeUpstream stands in for the chat and billing API.
type fakeUpstream struct {
	t  *testing.T
	db *sqldb.Store

	mu    sync.Mutex
	calls []upstreamCall
}

type upstreamCall struct {
	Path        string
	AdminKey    string
	Bearer      string
	Fingerprint string
	Body        map[string]any
}

func newFakeUpstream(t *testing.T, dsn string) *fakeUpstream {
	db, err := sqldb.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &fakeUpstream{t: t, db: db}
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.calls = append(f.calls, upstreamCall{
		Path:        r.URL.Path,
		AdminKey:    r.Header.Get("x-admin-key"),
		Bearer:      r.Header.Get("Authorization"),
		Fingerprint: r.Header.Get("x-device-fingerprint"),
		Body:        body,
	})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/admin/mark-paid":
		if r.Header.Get("x-admin-key") != upstreamKey {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"forbidden"}`))
			return
		}
		userID, _ := body["user_id"].(string)
		days, _ := body["days"].(float64)
		f.subscribe(r, userID, domain.PlanPaid, int(days))
		_, _ = w.Write([]byte(`{"success":true}`))

	case "/redeem-trial-code":
		if body["code"] == "TRIAL-BOGUS" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Invalid code"}`))
			return
		}
		// The real API resolves the caller from the bearer; the test maps it.
		userID := aliceID
		if r.Header.Get("Authorization") == "Bearer "+bobToken {
			userID = bobID
		}
		f.subscribe(r, userID, domain.PlanTrial, 7)
		_, _ = w.Write([]byte(`{"success":true,"plan":"trial"}`))

	case "/chat":
		_, _ = w.Write([]byte(`{"reply":"hello from the tutor"}`))

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeUpstream) subscribe(r *http.Request, userID string, plan domain.Plan, days int) {
	end := time.Now().UTC().Add(time.Duration(days) * 24 * time.Hour)
	err := f.db.Subscriptions().Upsert(r.Context(), domain.Subscription{
		UserID: userID,
		Plan:   plan,
		Active: true,
		EndAt:  &end,
	})
	require.NoError(f.t, err)
}

func (f *fakeUpstream) last() upstreamCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(f.t, f.calls)
	return f.calls[len(f.calls)-1]
}

func (f *fakeUpstream) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func requireAPIError(t *testing.T, err error, status int, msg string) {
	t.Helper()
	var apiErr *desksdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	if msg != "" {
		require.Equal(t, msg, apiErr.Message)
	}
}
