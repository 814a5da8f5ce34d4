package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store"
	"github.com/aussiebroadwan/studydesk/pkg/upstream"
)

// Listing limits.
const (
	TrialCodesLimit   = 100
	UsersLimit        = 100
	DevicesLimit      = 200
	LogsLimit         = 200
	ExportUsersLimit  = 500
	ExportCodesLimit  = 1000
	TrialCodeHexChars = 16
)

// AdminService implements the back-office operations. Callers must have
// passed Authorizer.Authorize; the Principal they got is the actor here.
type AdminService struct {
	Store    store.Store
	Audit    *AuditRecorder
	Upstream *upstream.Client
	Metrics  *Metrics
	Now      func() time.Time
}

func (s *AdminService) now() time.Time { return nowOr(s.Now) }

// Overview returns the headline counters.
func (s *AdminService) Overview(ctx context.Context) (domain.Overview, error) {
	var (
		o   domain.Overview
		err error
	)

	if o.TotalUsers, err = s.Store.Profiles().Count(ctx); err != nil {
		return o, err
	}
	if o.ActiveTrials, err = s.Store.Subscriptions().CountActive(ctx, domain.PlanTrial); err != nil {
		return o, err
	}
	if o.ActivePaid, err = s.Store.Subscriptions().CountActive(ctx, domain.PlanPaid); err != nil {
		return o, err
	}
	if o.UnusedCodes, err = s.Store.TrialCodes().CountUnused(ctx); err != nil {
		return o, err
	}
	if o.BannedUsers, err = s.Store.UserBans().Count(ctx); err != nil {
		return o, err
	}
	if o.BannedDevices, err = s.Store.DeviceBans().Count(ctx); err != nil {
		return o, err
	}

	s.Metrics.setOverview(o)
	return o, nil
}

// Logs searches the audit log, newest first.
func (s *AdminService) Logs(ctx context.Context, q string) ([]domain.AuditEntry, error) {
	return s.Store.AuditLogs().Search(ctx, q, LogsLimit)
}
