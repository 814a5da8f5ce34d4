package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store"
	"github.com/aussiebroadwan/studydesk/pkg/upstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var trialCodeRe = regexp.MustCompile(`^TRIAL-[0-9A-F]{16}$`)

func TestNewTrialCode(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for range 200 {
		c := NewTrialCode()
		require.Regexp(t, trialCodeRe, c)
		require.False(t, seen[c])
		seen[c] = true
	}
}

func TestGenerateTrialCode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	svc := newAdminService(t, s)

	t.Run("rejects negative input", func(t *testing.T) {
		_, err := svc.GenerateTrialCode(ctx, testAdmin, -1, 0)
		require.ErrorIs(t, err, ErrValidation)
		_, err = svc.GenerateTrialCode(ctx, testAdmin, 1, -1)
		require.ErrorIs(t, err, ErrValidation)
		require.Empty(t, auditEntries(t, s))
	})

	t.Run("without expiry", func(t *testing.T) {
		tc, err := svc.GenerateTrialCode(ctx, testAdmin, 7, 0)
		require.NoError(t, err)
		require.Regexp(t, trialCodeRe, tc.Code)
		require.Nil(t, tc.ExpiresAt)
		require.False(t, tc.Used)

		codes, err := svc.TrialCodes(ctx)
		require.NoError(t, err)
		require.Len(t, codes, 1)
		require.Equal(t, tc.Code, codes[0].Code)
		require.Equal(t, 7, codes[0].DurationDays)

		entries := auditEntries(t, s)
		require.Len(t, entries, 1)
		require.Equal(t, domain.ActionGenerateTrialCode, entries[0].Action)
		require.Equal(t, tc.Code, entries[0].Target)
		require.Equal(t, "root@example.com", entries[0].ActorEmail)
		require.EqualValues(t, 7, entries[0].Meta["days"])
	})

	t.Run("with expiry", func(t *testing.T) {
		tc, err := svc.GenerateTrialCode(ctx, testAdmin, 0, 3)
		require.NoError(t, err)
		require.NotNil(t, tc.ExpiresAt)
		require.True(t, tc.ExpiresAt.Equal(testNow.Add(72*time.Hour)))
	})
}

func TestBanUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	svc := newAdminService(t, s)
	createProfile(t, s, "u-1", "one@example.com", domain.RoleStudent)

	err := svc.BanUser(ctx, testAdmin, "  ", true, "")
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, "user_id required", err.Error())

	require.NoError(t, svc.BanUser(ctx, testAdmin, "u-1", true, ""))

	users, err := svc.Users(ctx, UserQuery{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.NotNil(t, users[0].Ban)
	require.Equal(t, "banned", users[0].Ban.Reason)
	require.Equal(t, "u-admin", users[0].Ban.BannedBy)

	// Banning again replaces the reason without a second row.
	require.NoError(t, svc.BanUser(ctx, testAdmin, "u-1", true, " spam "))
	n, err := s.UserBans().Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, svc.BanUser(ctx, testAdmin, "u-1", false, ""))
	users, err = svc.Users(ctx, UserQuery{})
	require.NoError(t, err)
	require.Nil(t, users[0].Ban)

	entries := auditEntries(t, s)
	require.Len(t, entries, 3)
	require.Equal(t, domain.ActionUnbanUser, entries[0].Action)
	require.Equal(t, domain.ActionBanUser, entries[1].Action)
	require.Equal(t, "spam", entries[1].Meta["reason"])
	require.Equal(t, "u-1", entries[1].TargetUserID)
}

func TestUsersFilter(t *testing.T) {
	t.Parallel()

	q := UserQuery{Q: " Bob ", Plan: "paid", Active: "false"}.filter(UsersLimit)
	require.Equal(t, "Bob", q.Query)
	require.Equal(t, "paid", q.Plan)
	require.NotNil(t, q.Active)
	require.False(t, *q.Active)
	require.Equal(t, UsersLimit, q.Limit)

	require.Nil(t, UserQuery{Active: "yes"}.filter(1).Active)
}

func TestDevicesAndBans(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	svc := newAdminService(t, s)

	touch := func(id, userID string, ident domain.DeviceIdentity, at time.Time) {
		require.NoError(t, s.Devices().Touch(ctx, domain.Device{
			ID: id, UserID: userID, Identity: ident, LastSeen: at, CreatedAt: at,
		}))
	}
	touch("d-1", "u-1", domain.DeviceIdentity{DeviceID: "dev-a", IP: "1.2.3.4"}, testNow)
	touch("d-2", "u-1", domain.DeviceIdentity{Fingerprint: "fp-b"}, testNow.Add(time.Minute))
	touch("d-3", "u-2", domain.DeviceIdentity{IP: "5.6.7.8"}, testNow.Add(2*time.Minute))

	t.Run("validation", func(t *testing.T) {
		err := svc.BanDevice(ctx, testAdmin, domain.DeviceIdentity{IP: "  "}, true, "")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("ban by ip flags matching devices", func(t *testing.T) {
		require.NoError(t, svc.BanDevice(ctx, testAdmin, domain.DeviceIdentity{IP: "1.2.3.4"}, true, "abuse"))

		devs, err := svc.Devices(ctx, "")
		require.NoError(t, err)
		require.Len(t, devs, 3)
		require.Equal(t, "d-3", devs[0].Device.ID)
		require.False(t, devs[0].Banned)
		require.False(t, devs[1].Banned)
		require.True(t, devs[2].Banned)

		devs, err = svc.Devices(ctx, "u-2")
		require.NoError(t, err)
		require.Len(t, devs, 1)

		e := auditEntries(t, s)[0]
		require.Equal(t, domain.ActionBanDevice, e.Action)
		require.JSONEq(t, `{"device_id":null,"fingerprint":null,"ip":"1.2.3.4"}`, e.Target)
		require.Equal(t, "abuse", e.Meta["reason"])
	})

	t.Run("unban deletes bans sharing any field", func(t *testing.T) {
		require.NoError(t, svc.BanDevice(ctx, testAdmin, domain.DeviceIdentity{Fingerprint: "fp-b"}, true, ""))
		require.NoError(t, svc.BanDevice(ctx, testAdmin, domain.DeviceIdentity{DeviceID: "other"}, true, ""))

		require.NoError(t, svc.BanDevice(ctx, testAdmin,
			domain.DeviceIdentity{IP: "1.2.3.4", Fingerprint: "fp-b"}, false, ""))

		bans, err := s.DeviceBans().ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, bans, 1)
		require.Equal(t, "other", bans[0].Identity.DeviceID)

		e := auditEntries(t, s)[0]
		require.Equal(t, domain.ActionUnbanDevice, e.Action)
		require.EqualValues(t, 2, e.Meta["deleted"])
	})

	t.Run("reset devices", func(t *testing.T) {
		err := svc.ResetDevices(ctx, testAdmin, "")
		require.ErrorIs(t, err, ErrValidation)

		require.NoError(t, svc.ResetDevices(ctx, testAdmin, "u-1"))
		devs, err := svc.Devices(ctx, "")
		require.NoError(t, err)
		require.Len(t, devs, 1)

		e := auditEntries(t, s)[0]
		require.Equal(t, domain.ActionResetDevices, e.Action)
		require.Equal(t, "u-1", e.Target)
	})
}

func TestMarkPaid(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("relays upstream reply", func(t *testing.T) {
		var got upstream.MarkPaidRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/admin/mark-paid", r.URL.Path)
			require.Equal(t, "secret", r.Header.Get(upstream.AdminKeyHeader))
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &got))
			if got.Days == 0 {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"days required"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		t.Cleanup(srv.Close)

		s := newTestStore(t)
		svc := newAdminService(t, s)
		svc.Upstream = upstream.NewClient(srv.URL, "secret", time.Second)

		resp, err := svc.MarkPaid(ctx, testAdmin, "u-1", 30)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"ok":true}`, string(resp.Body))
		require.Equal(t, upstream.MarkPaidRequest{UserID: "u-1", Days: 30}, got)
		require.Len(t, auditEntries(t, s), 1)

		resp, err = svc.MarkPaid(ctx, testAdmin, "u-1", 0)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Len(t, auditEntries(t, s), 1)
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		s := newTestStore(t)
		svc := newAdminService(t, s)
		svc.Upstream = upstream.NewClient(srv.URL, "k", time.Second)

		_, err := svc.MarkPaid(ctx, testAdmin, "u-1", 30)
		var ue *upstream.Error
		require.ErrorAs(t, err, &ue)
		require.Empty(t, auditEntries(t, s))
	})

	t.Run("local fallback", func(t *testing.T) {
		s := newTestStore(t)
		svc := newAdminService(t, s)
		createProfile(t, s, "u-1", "one@example.com", domain.RoleStudent)

		_, err := svc.MarkPaid(ctx, testAdmin, "", 30)
		require.ErrorIs(t, err, ErrValidation)
		_, err = svc.MarkPaid(ctx, testAdmin, "u-1", 0)
		require.ErrorIs(t, err, ErrValidation)

		resp, err := svc.MarkPaid(ctx, testAdmin, "u-1", 30)
		require.NoError(t, err)
		require.True(t, resp.OK())

		sub, err := s.Subscriptions().GetByUserID(ctx, "u-1")
		require.NoError(t, err)
		require.Equal(t, domain.PlanPaid, sub.Plan)
		require.True(t, sub.Active)
		require.True(t, sub.EndAt.Equal(testNow.Add(30*24*time.Hour)))

		e := auditEntries(t, s)
		require.Len(t, e, 1)
		require.Equal(t, domain.ActionMarkPaid, e[0].Action)
	})
}

func TestOverview(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	reg := prometheus.NewRegistry()
	svc := newAdminService(t, s)
	svc.Metrics = NewMetrics(reg)

	createProfile(t, s, "u-1", "a@example.com", domain.RoleStudent)
	createProfile(t, s, "u-2", "b@example.com", domain.RoleStudent)
	require.NoError(t, s.Subscriptions().Upsert(ctx, domain.Subscription{UserID: "u-1", Plan: domain.PlanTrial, Active: true}))
	require.NoError(t, s.Subscriptions().Upsert(ctx, domain.Subscription{UserID: "u-2", Plan: domain.PlanPaid, Active: false}))
	_, err := svc.GenerateTrialCode(ctx, testAdmin, 3, 0)
	require.NoError(t, err)
	require.NoError(t, svc.BanUser(ctx, testAdmin, "u-2", true, ""))
	require.NoError(t, svc.BanDevice(ctx, testAdmin, domain.DeviceIdentity{IP: "9.9.9.9"}, true, ""))

	o, err := svc.Overview(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.Overview{
		TotalUsers:    2,
		ActiveTrials:  1,
		ActivePaid:    0,
		UnusedCodes:   1,
		BannedUsers:   1,
		BannedDevices: 1,
	}, o)

	require.Equal(t, 2.0, testutil.ToFloat64(svc.Metrics.overview.WithLabelValues("total_users")))
	require.Equal(t, 1.0, testutil.ToFloat64(svc.Metrics.actions.WithLabelValues(string(domain.ActionBanUser))))
}

func TestAuditFailureIsNotSurfaced(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	svc := newAdminService(t, s)
	svc.Audit = &AuditRecorder{Store: failingAudit{s}, Metrics: m, Now: fixedNow}

	require.NoError(t, svc.BanUser(ctx, testAdmin, "u-1", true, "x"))

	_, err := s.UserBans().Get(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, 1.0, testutil.ToFloat64(m.auditFailures))
}

type failingAudit struct{ store.Store }

func (f failingAudit) AuditLogs() store.AuditLogs { return failingAuditLogs{} }

type failingAuditLogs struct{ store.AuditLogs }

func (failingAuditLogs) Append(context.Context, domain.AuditEntry) error {
	return io.ErrUnexpectedEOF
}
