package sqldb

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

// runStoreSuite exercises a migrated store; it is shared by the SQLite tests
// and the Postgres container test.
func runStoreSuite(t *testing.T, s store.Store) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("profiles", func(t *testing.T) {
		p := domain.Profile{ID: "u-alice", Email: "alice@example.com", Role: domain.RoleAdmin, CreatedAt: base}
		require.NoError(t, s.Profiles().CreateProfile(ctx, p))
		require.ErrorIs(t, s.Profiles().CreateProfile(ctx, p), store.ErrAlreadyExists)

		got, err := s.Profiles().GetProfileByID(ctx, "u-alice")
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, got.Role)
		require.Equal(t, "alice@example.com", got.Email)
		require.Empty(t, got.Username)
		require.True(t, got.CreatedAt.Equal(base))

		_, err = s.Profiles().GetProfileByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)

		require.NoError(t, s.Profiles().CreateProfile(ctx, domain.Profile{ID: "u-bob", CreatedAt: base.Add(time.Minute)}))
		require.NoError(t, s.Profiles().UpdateUsername(ctx, "u-bob", "bob"))
		require.ErrorIs(t, s.Profiles().UpdateUsername(ctx, "u-alice", "bob"), store.ErrAlreadyExists)
		require.ErrorIs(t, s.Profiles().UpdateUsername(ctx, "nobody", "ghost"), store.ErrNotFound)

		require.NoError(t, s.Profiles().UpdateEmail(ctx, "u-bob", "Bob@Example.com"))
		bob, err := s.Profiles().GetProfileByID(ctx, "u-bob")
		require.NoError(t, err)
		require.Equal(t, domain.RoleStudent, bob.Role)
		require.Equal(t, "bob", bob.Username)

		require.NoError(t, s.Profiles().UpdateRole(ctx, "u-bob", domain.RoleAdmin))
		bob, err = s.Profiles().GetProfileByID(ctx, "u-bob")
		require.NoError(t, err)
		require.True(t, bob.IsAdmin())
		require.ErrorIs(t, s.Profiles().UpdateRole(ctx, "nobody", domain.RoleAdmin), store.ErrNotFound)

		n, err := s.Profiles().Count(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, n)
	})

	t.Run("list users joins subscriptions and bans", func(t *testing.T) {
		require.NoError(t, s.Profiles().CreateProfile(ctx, domain.Profile{
			ID: "u-carol", Email: "carol@uni.edu", Username: "carol_c", CreatedAt: base.Add(2 * time.Minute),
		}))
		end := base.Add(7 * 24 * time.Hour)
		limit := 1
		require.NoError(t, s.Subscriptions().Upsert(ctx, domain.Subscription{
			UserID: "u-bob", Plan: domain.PlanTrial, Active: true, EndAt: &end, DeviceLimit: &limit, IPLimit: &limit,
		}))
		require.NoError(t, s.Subscriptions().Upsert(ctx, domain.Subscription{
			UserID: "u-carol", Plan: domain.PlanPaid, Active: false,
		}))
		require.NoError(t, s.UserBans().Upsert(ctx, domain.UserBan{
			UserID: "u-bob", Reason: "fraud", BannedBy: "u-alice", BannedAt: base,
		}))

		all, err := s.Profiles().ListUsers(ctx, store.UserFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		require.Equal(t, "u-carol", all[0].Profile.ID)
		require.Equal(t, "u-alice", all[2].Profile.ID)

		bob := all[1]
		require.NotNil(t, bob.Sub)
		require.Equal(t, domain.PlanTrial, bob.Sub.Plan)
		require.True(t, bob.Sub.Active)
		require.NotNil(t, bob.Sub.EndAt)
		require.True(t, bob.Sub.EndAt.Equal(end))
		require.NotNil(t, bob.Ban)
		require.Equal(t, "fraud", bob.Ban.Reason)
		require.Nil(t, all[2].Sub)
		require.Nil(t, all[2].Ban)

		byQuery, err := s.Profiles().ListUsers(ctx, store.UserFilter{Query: "EXAMPLE"})
		require.NoError(t, err)
		require.Len(t, byQuery, 2)

		byUsername, err := s.Profiles().ListUsers(ctx, store.UserFilter{Query: "carol_"})
		require.NoError(t, err)
		require.Len(t, byUsername, 1)

		trials, err := s.Profiles().ListUsers(ctx, store.UserFilter{Plan: "trial"})
		require.NoError(t, err)
		require.Len(t, trials, 1)
		require.Equal(t, "u-bob", trials[0].Profile.ID)

		inactive := false
		paidInactive, err := s.Profiles().ListUsers(ctx, store.UserFilter{Plan: "paid", Active: &inactive})
		require.NoError(t, err)
		require.Len(t, paidInactive, 1)
		require.Equal(t, "u-carol", paidInactive[0].Profile.ID)

		none, err := s.Profiles().ListUsers(ctx, store.UserFilter{Plan: "none"})
		require.NoError(t, err)
		require.Len(t, none, 1)
		require.Equal(t, "u-alice", none[0].Profile.ID)

		limited, err := s.Profiles().ListUsers(ctx, store.UserFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, limited, 1)

		active, err := s.Subscriptions().CountActive(ctx, domain.PlanTrial)
		require.NoError(t, err)
		require.Equal(t, 1, active)
	})

	t.Run("user bans upsert once", func(t *testing.T) {
		ban := domain.UserBan{UserID: "u-carol", Reason: "spam", BannedBy: "u-alice", BannedAt: base}
		require.NoError(t, s.UserBans().Upsert(ctx, ban))
		ban.Reason = "spam again"
		require.NoError(t, s.UserBans().Upsert(ctx, ban))

		got, err := s.UserBans().Get(ctx, "u-carol")
		require.NoError(t, err)
		require.Equal(t, "spam again", got.Reason)

		n, err := s.UserBans().Count(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, n)

		require.NoError(t, s.UserBans().Delete(ctx, "u-carol"))
		require.NoError(t, s.UserBans().Delete(ctx, "u-carol"))
		_, err = s.UserBans().Get(ctx, "u-carol")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("device bans delete on any field", func(t *testing.T) {
		bans := []domain.DeviceBan{
			{ID: "db-1", Identity: domain.DeviceIdentity{DeviceID: "dev-1"}},
			{ID: "db-2", Identity: domain.DeviceIdentity{IP: "1.2.3.4"}},
			{ID: "db-3", Identity: domain.DeviceIdentity{Fingerprint: "fp-1", IP: "1.2.3.4"}},
			{ID: "db-4", Identity: domain.DeviceIdentity{Fingerprint: "fp-9"}},
		}
		for i, b := range bans {
			b.Reason = "banned"
			b.BannedBy = "u-alice"
			b.BannedAt = base.Add(time.Duration(i) * time.Second)
			require.NoError(t, s.DeviceBans().Create(ctx, b))
		}

		listed, err := s.DeviceBans().ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 4)
		require.Equal(t, "db-4", listed[0].ID)
		require.Empty(t, listed[0].Identity.IP)

		n, err := s.DeviceBans().DeleteMatching(ctx, domain.DeviceIdentity{DeviceID: "dev-1", IP: "1.2.3.4"})
		require.NoError(t, err)
		require.EqualValues(t, 3, n)

		n, err = s.DeviceBans().DeleteMatching(ctx, domain.DeviceIdentity{})
		require.NoError(t, err)
		require.Zero(t, n)

		count, err := s.DeviceBans().Count(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	t.Run("devices touch and reset", func(t *testing.T) {
		d := domain.Device{
			ID:        "dv-1",
			UserID:    "u-bob",
			Identity:  domain.DeviceIdentity{Fingerprint: "fp-bob", IP: "10.0.0.1"},
			LastSeen:  base,
			CreatedAt: base,
		}
		require.NoError(t, s.Devices().Touch(ctx, d))

		d.ID = "dv-ignored"
		d.LastSeen = base.Add(time.Hour)
		require.NoError(t, s.Devices().Touch(ctx, d))

		require.NoError(t, s.Devices().Touch(ctx, domain.Device{
			ID: "dv-2", UserID: "u-carol", Identity: domain.DeviceIdentity{IP: "10.0.0.2"},
			LastSeen: base.Add(30 * time.Minute), CreatedAt: base,
		}))

		all, err := s.Devices().List(ctx, "", 0)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, "dv-1", all[0].ID)
		require.True(t, all[0].LastSeen.Equal(base.Add(time.Hour)))
		require.Empty(t, all[0].Identity.DeviceID)

		bobs, err := s.Devices().List(ctx, "u-bob", 10)
		require.NoError(t, err)
		require.Len(t, bobs, 1)

		n, err := s.Devices().DeleteByUser(ctx, "u-bob")
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		bobs, err = s.Devices().List(ctx, "u-bob", 10)
		require.NoError(t, err)
		require.Empty(t, bobs)
	})

	t.Run("trial codes", func(t *testing.T) {
		exp := base.Add(30 * 24 * time.Hour)
		require.NoError(t, s.TrialCodes().Create(ctx, domain.TrialCode{
			Code: "TRIAL-AAA", DurationDays: 7, CreatedAt: base, ExpiresAt: &exp,
		}))
		require.NoError(t, s.TrialCodes().Create(ctx, domain.TrialCode{
			Code: "TRIAL-BBB", DurationDays: 3, CreatedAt: base.Add(time.Minute),
		}))
		err := s.TrialCodes().Create(ctx, domain.TrialCode{Code: "TRIAL-AAA", CreatedAt: base})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		codes, err := s.TrialCodes().ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, codes, 2)
		require.Equal(t, "TRIAL-BBB", codes[0].Code)
		require.Nil(t, codes[0].ExpiresAt)
		require.Equal(t, 7, codes[1].DurationDays)
		require.NotNil(t, codes[1].ExpiresAt)
		require.True(t, codes[1].ExpiresAt.Equal(exp))
		require.False(t, codes[1].Used)

		unused, err := s.TrialCodes().CountUnused(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, unused)
	})

	t.Run("audit logs", func(t *testing.T) {
		entries := []domain.AuditEntry{
			{ID: "a-1", ActorID: "u-alice", ActorEmail: "alice@example.com", Action: domain.ActionBanUser,
				TargetUserID: "u-bob", Target: "u-bob", Meta: map[string]any{"reason": "fraud"}, CreatedAt: base},
			{ID: "a-2", ActorID: "u-alice", ActorEmail: "alice@example.com", Action: domain.ActionBanDevice,
				Target: `{"ip":"1.2.3.4"}`, CreatedAt: base.Add(time.Second)},
			{ID: "a-3", ActorID: "u-root", ActorEmail: "root@corp.io", Action: domain.ActionGenerateTrialCode,
				Target: "TRIAL-AAA", CreatedAt: base.Add(2 * time.Second)},
		}
		for _, e := range entries {
			require.NoError(t, s.AuditLogs().Append(ctx, e))
		}

		all, err := s.AuditLogs().Search(ctx, "", 0)
		require.NoError(t, err)
		require.Len(t, all, 3)
		require.Equal(t, "a-3", all[0].ID)
		require.Equal(t, "fraud", all[2].Meta["reason"])
		require.NotNil(t, all[1].Meta)

		bans, err := s.AuditLogs().Search(ctx, "ban_", 0)
		require.NoError(t, err)
		require.Len(t, bans, 2)

		byEmail, err := s.AuditLogs().Search(ctx, "ROOT@", 0)
		require.NoError(t, err)
		require.Len(t, byEmail, 1)

		byTarget, err := s.AuditLogs().Search(ctx, "1.2.3.4", 0)
		require.NoError(t, err)
		require.Len(t, byTarget, 1)
		require.Equal(t, domain.ActionBanDevice, byTarget[0].Action)
	})

}

func TestSQLiteStore(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
	runStoreSuite(t, s)
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
}

func TestRebind(t *testing.T) {
	t.Parallel()

	q := `SELECT * FROM t WHERE a = ? AND b = ? LIMIT ?`
	require.Equal(t, q, DialectSQLite.Rebind(q))
	require.Equal(t, `SELECT * FROM t WHERE a = $1 AND b = $2 LIMIT $3`, DialectPostgres.Rebind(q))
}

func TestDialectFromURL(t *testing.T) {
	t.Parallel()

	require.Equal(t, DialectPostgres, DialectFromURL("postgres://u:p@localhost/db"))
	require.Equal(t, DialectPostgres, DialectFromURL("postgresql://localhost/db"))
	require.Equal(t, DialectSQLite, DialectFromURL("file:studydesk.db"))
	require.Equal(t, DialectSQLite, DialectFromURL(":memory:"))
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	t.Parallel()

	require.Equal(t, `%abc%`, likePattern("ABC"))
	require.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
}
