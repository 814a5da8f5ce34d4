package sqldb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
)

type userBansRepo struct {
	c conn
}

func (r *userBansRepo) Upsert(ctx context.Context, b domain.UserBan) error {
	_, err := r.c.exec(ctx, `
INSERT INTO user_bans (user_id, reason, banned_by, banned_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    reason = excluded.reason,
    banned_by = excluded.banned_by,
    banned_at = excluded.banned_at`,
		b.UserID, b.Reason, b.BannedBy, utc(b.BannedAt),
	)
	return err
}

func (r *userBansRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.c.exec(ctx, `DELETE FROM user_bans WHERE user_id = ?`, userID)
	return err
}

func (r *userBansRepo) Get(ctx context.Context, userID string) (domain.UserBan, error) {
	var b domain.UserBan
	err := r.c.queryRow(ctx,
		`SELECT user_id, reason, banned_by, banned_at FROM user_bans WHERE user_id = ?`, userID,
	).Scan(&b.UserID, &b.Reason, &b.BannedBy, &b.BannedAt)
	if err != nil {
		return domain.UserBan{}, mapNotFound(err)
	}
	b.BannedAt = b.BannedAt.UTC()
	return b, nil
}

func (r *userBansRepo) Count(ctx context.Context) (int, error) {
	return r.c.count(ctx, `SELECT COUNT(*) FROM user_bans`)
}

type deviceBansRepo struct {
	c conn
}

func (r *deviceBansRepo) Create(ctx context.Context, b domain.DeviceBan) error {
	_, err := r.c.exec(ctx, `
INSERT INTO device_bans (id, device_id, fingerprint, ip, reason, banned_by, banned_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		mapStringNull(b.Identity.DeviceID),
		mapStringNull(b.Identity.Fingerprint),
		mapStringNull(b.Identity.IP),
		b.Reason, b.BannedBy, utc(b.BannedAt),
	)
	return mapConflict(err)
}

func (r *deviceBansRepo) DeleteMatching(ctx context.Context, id domain.DeviceIdentity) (int64, error) {
	var (
		or   []string
		args []any
	)
	if id.DeviceID != "" {
		or = append(or, `device_id = ?`)
		args = append(args, id.DeviceID)
	}
	if id.Fingerprint != "" {
		or = append(or, `fingerprint = ?`)
		args = append(args, id.Fingerprint)
	}
	if id.IP != "" {
		or = append(or, `ip = ?`)
		args = append(args, id.IP)
	}
	if len(or) == 0 {
		return 0, nil
	}

	res, err := r.c.exec(ctx, `DELETE FROM device_bans WHERE `+strings.Join(or, " OR "), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *deviceBansRepo) ListAll(ctx context.Context) ([]domain.DeviceBan, error) {
	rows, err := r.c.query(ctx, `
SELECT id, device_id, fingerprint, ip, reason, banned_by, banned_at
FROM device_bans
ORDER BY banned_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DeviceBan
	for rows.Next() {
		var (
			b                    domain.DeviceBan
			deviceID, fp, ipAddr sql.NullString
		)
		if err := rows.Scan(&b.ID, &deviceID, &fp, &ipAddr, &b.Reason, &b.BannedBy, &b.BannedAt); err != nil {
			return nil, err
		}
		b.Identity = domain.DeviceIdentity{
			DeviceID:    mapNullString(deviceID),
			Fingerprint: mapNullString(fp),
			IP:          mapNullString(ipAddr),
		}
		b.BannedAt = b.BannedAt.UTC()
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *deviceBansRepo) Count(ctx context.Context) (int, error) {
	return r.c.count(ctx, `SELECT COUNT(*) FROM device_bans`)
}
