package sqldb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
)

type devicesRepo struct {
	c conn
}

func (r *devicesRepo) List(ctx context.Context, userID string, limit int) ([]domain.Device, error) {
	query := `SELECT id, user_id, device_id, fingerprint, ip, last_seen, created_at FROM user_devices`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY last_seen DESC, id DESC LIMIT ?`
	args = append(args, limitOr(limit, 200))

	rows, err := r.c.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Device
	for rows.Next() {
		var (
			d                    domain.Device
			deviceID, fp, ipAddr sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.UserID, &deviceID, &fp, &ipAddr, &d.LastSeen, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Identity = domain.DeviceIdentity{
			DeviceID:    mapNullString(deviceID),
			Fingerprint: mapNullString(fp),
			IP:          mapNullString(ipAddr),
		}
		d.LastSeen = d.LastSeen.UTC()
		d.CreatedAt = d.CreatedAt.UTC()
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *devicesRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.c.exec(ctx, `DELETE FROM user_devices WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *devicesRepo) Touch(ctx context.Context, d domain.Device) error {
	// NULL never compares equal, so match on the empty-string form.
	var id string
	err := r.c.queryRow(ctx, `
SELECT id FROM user_devices
WHERE user_id = ?
  AND COALESCE(device_id, '') = ?
  AND COALESCE(fingerprint, '') = ?
  AND COALESCE(ip, '') = ?
LIMIT 1`,
		d.UserID, d.Identity.DeviceID, d.Identity.Fingerprint, d.Identity.IP,
	).Scan(&id)

	switch {
	case err == nil:
		_, err = r.c.exec(ctx, `UPDATE user_devices SET last_seen = ? WHERE id = ?`, utc(d.LastSeen), id)
		return err
	case errors.Is(err, sql.ErrNoRows):
		_, err = r.c.exec(ctx, `
INSERT INTO user_devices (id, user_id, device_id, fingerprint, ip, last_seen, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.UserID,
			mapStringNull(d.Identity.DeviceID),
			mapStringNull(d.Identity.Fingerprint),
			mapStringNull(d.Identity.IP),
			utc(d.LastSeen), utc(d.CreatedAt),
		)
		return mapConflict(err)
	default:
		return err
	}
}
