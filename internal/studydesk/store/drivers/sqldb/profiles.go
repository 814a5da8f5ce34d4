package sqldb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store"
)

type profilesRepo struct {
	c conn
}

func (r *profilesRepo) GetProfileByID(ctx context.Context, id string) (domain.Profile, error) {
	var (
		p               domain.Profile
		email, username sql.NullString
		role            string
	)
	err := r.c.queryRow(ctx,
		`SELECT id, email, username, role, created_at FROM profiles WHERE id = ?`, id,
	).Scan(&p.ID, &email, &username, &role, &p.CreatedAt)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}

	p.Email = mapNullString(email)
	p.Username = mapNullString(username)
	p.Role = domain.ParseRole(role)
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	role := p.Role
	if role == "" {
		role = domain.RoleStudent
	}
	_, err := r.c.exec(ctx,
		`INSERT INTO profiles (id, email, username, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, mapStringNull(p.Email), mapStringNull(p.Username), string(role), utc(p.CreatedAt),
	)
	return mapConflict(err)
}

func (r *profilesRepo) UpdateEmail(ctx context.Context, id, email string) error {
	_, err := r.c.exec(ctx, `UPDATE profiles SET email = ? WHERE id = ?`, mapStringNull(email), id)
	return err
}

func (r *profilesRepo) UpdateUsername(ctx context.Context, id, username string) error {
	res, err := r.c.exec(ctx, `UPDATE profiles SET username = ? WHERE id = ?`, mapStringNull(username), id)
	if err != nil {
		return mapConflict(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *profilesRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	res, err := r.c.exec(ctx, `UPDATE profiles SET role = ? WHERE id = ?`, string(role), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *profilesRepo) Count(ctx context.Context) (int, error) {
	return r.c.count(ctx, `SELECT COUNT(*) FROM profiles`)
}

const listUsersSelect = `
SELECT p.id, p.email, p.username, p.role, p.created_at,
       s.user_id, s.plan, s.active, s.end_at, s.device_limit, s.ip_limit,
       b.user_id, b.reason, b.banned_by, b.banned_at
FROM profiles p
LEFT JOIN subscriptions s ON s.user_id = p.id
LEFT JOIN user_bans b ON b.user_id = p.id`

func (r *profilesRepo) ListUsers(ctx context.Context, f store.UserFilter) ([]domain.UserView, error) {
	var (
		where []string
		args  []any
	)

	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := likePattern(q)
		where = append(where,
			`(LOWER(COALESCE(p.email, '')) LIKE ? ESCAPE '\' OR LOWER(COALESCE(p.username, '')) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	switch f.Plan {
	case "":
	case "none":
		where = append(where, `s.user_id IS NULL`)
	default:
		where = append(where, `s.plan = ?`)
		args = append(args, f.Plan)
	}

	if f.Active != nil {
		where = append(where, `s.active = ?`)
		args = append(args, *f.Active)
	}

	query := listUsersSelect
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	query += "\nORDER BY p.created_at DESC, p.id DESC\nLIMIT ?"
	args = append(args, limitOr(f.Limit, 100))

	rows, err := r.c.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserView
	for rows.Next() {
		var (
			v               domain.UserView
			email, username sql.NullString
			role            string

			subUser, plan      sql.NullString
			active             sql.NullBool
			endAt              sql.NullTime
			deviceLim, ipLimit sql.NullInt64

			banUser, reason, bannedBy sql.NullString
			bannedAt                  sql.NullTime
		)
		if err := rows.Scan(
			&v.Profile.ID, &email, &username, &role, &v.Profile.CreatedAt,
			&subUser, &plan, &active, &endAt, &deviceLim, &ipLimit,
			&banUser, &reason, &bannedBy, &bannedAt,
		); err != nil {
			return nil, err
		}

		v.Profile.Email = mapNullString(email)
		v.Profile.Username = mapNullString(username)
		v.Profile.Role = domain.ParseRole(role)
		v.Profile.CreatedAt = v.Profile.CreatedAt.UTC()

		if subUser.Valid {
			v.Sub = &domain.Subscription{
				UserID:      subUser.String,
				Plan:        domain.Plan(plan.String),
				Active:      active.Valid && active.Bool,
				EndAt:       mapNullTimePtr(endAt),
				DeviceLimit: mapNullIntPtr(deviceLim),
				IPLimit:     mapNullIntPtr(ipLimit),
			}
		}
		if banUser.Valid {
			v.Ban = &domain.UserBan{
				UserID:   banUser.String,
				Reason:   reason.String,
				BannedBy: bannedBy.String,
			}
			if bannedAt.Valid {
				v.Ban.BannedAt = bannedAt.Time.UTC()
			}
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func limitOr(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}
