package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store"
	"github.com/aussiebroadwan/studydesk/pkg/upstream"
)

const defaultBanReason = "banned"

// UserQuery is the raw listing filter from the query string.
type UserQuery struct {
	Q      string
	Plan   string // "trial", "paid", "none" or empty
	Active string // "true", "false" or empty; anything else is ignored
}

func (q UserQuery) filter(limit int) store.UserFilter {
	f := store.UserFilter{
		Query: strings.TrimSpace(q.Q),
		Plan:  strings.TrimSpace(q.Plan),
		Limit: limit,
	}
	switch strings.TrimSpace(q.Active) {
	case "true":
		v := true
		f.Active = &v
	case "false":
		v := false
		f.Active = &v
	}
	return f
}

func (s *AdminService) Users(ctx context.Context, q UserQuery) ([]domain.UserView, error) {
	return s.Store.Profiles().ListUsers(ctx, q.filter(UsersLimit))
}

// ExportUsers returns the newest users, unfiltered.
func (s *AdminService) ExportUsers(ctx context.Context) ([]domain.UserView, error) {
	return s.Store.Profiles().ListUsers(ctx, store.UserFilter{Limit: ExportUsersLimit})
}

// BanUser bans (upsert) or unbans the user.
func (s *AdminService) BanUser(ctx context.Context, actor Principal, userID string, ban bool, reason string) error {
	userID = strings.TrimSpace(userID)
	reason = strings.TrimSpace(reason)
	if userID == "" {
		return invalid("user_id required")
	}

	if !ban {
		if err := s.Store.UserBans().Delete(ctx, userID); err != nil {
			return err
		}
		s.Audit.Record(ctx, actor, domain.ActionUnbanUser, userID, userID, nil)
		return nil
	}

	b := domain.UserBan{
		UserID:   userID,
		Reason:   reason,
		BannedBy: actor.SubjectID,
		BannedAt: s.now(),
	}
	if b.Reason == "" {
		b.Reason = defaultBanReason
	}
	if err := s.Store.UserBans().Upsert(ctx, b); err != nil {
		return err
	}

	s.Audit.Record(ctx, actor, domain.ActionBanUser, userID, userID, map[string]any{"reason": reason})
	return nil
}

// MarkPaid activates a paid plan. With an upstream configured the call is
// relayed and its reply returned as-is; otherwise the subscription is
// written locally. Only 2xx outcomes are audited.
func (s *AdminService) MarkPaid(ctx context.Context, actor Principal, userID string, days int) (upstream.Response, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return upstream.Response{}, invalid("user_id required")
	}

	var (
		resp upstream.Response
		err  error
	)
	if s.Upstream.Configured() {
		resp, err = s.Upstream.MarkPaid(ctx, upstream.MarkPaidRequest{UserID: userID, Days: days})
	} else {
		resp, err = s.markPaidLocally(ctx, userID, days)
	}
	if err != nil {
		return upstream.Response{}, err
	}

	if resp.OK() {
		s.Audit.Record(ctx, actor, domain.ActionMarkPaid, userID, userID, map[string]any{"days": days})
	}
	return resp, nil
}

func (s *AdminService) markPaidLocally(ctx context.Context, userID string, days int) (upstream.Response, error) {
	if days <= 0 {
		return upstream.Response{}, invalid("days must be > 0")
	}

	sub, err := s.Store.Subscriptions().GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return upstream.Response{}, err
	}

	end := s.now().Add(time.Duration(days) * 24 * time.Hour)
	sub.UserID = userID
	sub.Plan = domain.PlanPaid
	sub.Active = true
	sub.EndAt = &end

	if err := s.Store.Subscriptions().Upsert(ctx, sub); err != nil {
		return upstream.Response{}, err
	}

	body, _ := json.Marshal(map[string]any{"success": true, "user_id": userID, "end_at": end})
	return upstream.Response{StatusCode: 200, ContentType: "application/json", Body: body}, nil
}
