package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store/drivers/sqldb"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 5, 10, 9, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqldb.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func createProfile(t *testing.T, s store.Store, id, email string, role domain.Role) {
	t.Helper()
	require.NoError(t, s.Profiles().CreateProfile(context.Background(), domain.Profile{
		ID:        id,
		Email:     email,
		Role:      role,
		CreatedAt: testNow,
	}))
}

func newAdminService(t *testing.T, s store.Store) *AdminService {
	t.Helper()
	return &AdminService{
		Store: s,
		Audit: &AuditRecorder{Store: s, Now: fixedNow},
		Now:   fixedNow,
	}
}

func auditEntries(t *testing.T, s store.Store) []domain.AuditEntry {
	t.Helper()
	entries, err := s.AuditLogs().Search(context.Background(), "", 100)
	require.NoError(t, err)
	return entries
}

var testAdmin = Principal{SubjectID: "u-admin", Email: "root@example.com"}
