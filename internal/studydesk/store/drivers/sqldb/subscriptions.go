package sqldb

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
)

type subscriptionsRepo struct {
	c conn
}

func (r *subscriptionsRepo) CountActive(ctx context.Context, plan domain.Plan) (int, error) {
	return r.c.count(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE active = ? AND plan = ?`, true, string(plan))
}

func (r *subscriptionsRepo) GetByUserID(ctx context.Context, userID string) (domain.Subscription, error) {
	var (
		s                  domain.Subscription
		plan               string
		endAt              sql.NullTime
		deviceLim, ipLimit sql.NullInt64
	)
	err := r.c.queryRow(ctx,
		`SELECT user_id, plan, active, end_at, device_limit, ip_limit FROM subscriptions WHERE user_id = ?`,
		userID,
	).Scan(&s.UserID, &plan, &s.Active, &endAt, &deviceLim, &ipLimit)
	if err != nil {
		return domain.Subscription{}, mapNotFound(err)
	}

	s.Plan = domain.Plan(plan)
	s.EndAt = mapNullTimePtr(endAt)
	s.DeviceLimit = mapNullIntPtr(deviceLim)
	s.IPLimit = mapNullIntPtr(ipLimit)
	return s, nil
}

func (r *subscriptionsRepo) Upsert(ctx context.Context, s domain.Subscription) error {
	_, err := r.c.exec(ctx, `
INSERT INTO subscriptions (user_id, plan, active, end_at, device_limit, ip_limit)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    plan = excluded.plan,
    active = excluded.active,
    end_at = excluded.end_at,
    device_limit = excluded.device_limit,
    ip_limit = excluded.ip_limit`,
		s.UserID, string(s.Plan), s.Active, mapOptionalTime(s.EndAt),
		mapOptionalInt(s.DeviceLimit), mapOptionalInt(s.IPLimit),
	)
	return err
}
