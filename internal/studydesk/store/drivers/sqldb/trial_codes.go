package sqldb

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
)

type trialCodesRepo struct {
	c conn
}

func (r *trialCodesRepo) Create(ctx context.Context, tc domain.TrialCode) error {
	_, err := r.c.exec(ctx, `
INSERT INTO trial_codes (code, used, duration_days, created_at, used_at, expires_at, used_by)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tc.Code, tc.Used, tc.DurationDays, utc(tc.CreatedAt),
		mapOptionalTime(tc.UsedAt), mapOptionalTime(tc.ExpiresAt), mapStringNull(tc.UsedBy),
	)
	return mapConflict(err)
}

func (r *trialCodesRepo) ListRecent(ctx context.Context, limit int) ([]domain.TrialCode, error) {
	rows, err := r.c.query(ctx, `
SELECT code, used, duration_days, created_at, used_at, expires_at, used_by
FROM trial_codes
ORDER BY created_at DESC, code DESC
LIMIT ?`, limitOr(limit, 100))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TrialCode
	for rows.Next() {
		var (
			tc              domain.TrialCode
			days            int64
			usedAt, expires sql.NullTime
			usedBy          sql.NullString
		)
		if err := rows.Scan(&tc.Code, &tc.Used, &days, &tc.CreatedAt, &usedAt, &expires, &usedBy); err != nil {
			return nil, err
		}
		tc.DurationDays = int(days)
		tc.CreatedAt = tc.CreatedAt.UTC()
		tc.UsedAt = mapNullTimePtr(usedAt)
		tc.ExpiresAt = mapNullTimePtr(expires)
		tc.UsedBy = mapNullString(usedBy)
		out = append(out, tc)
	}
	return out, rows.Err()
}

func (r *trialCodesRepo) CountUnused(ctx context.Context) (int, error) {
	return r.c.count(ctx, `SELECT COUNT(*) FROM trial_codes WHERE used = ?`, false)
}
