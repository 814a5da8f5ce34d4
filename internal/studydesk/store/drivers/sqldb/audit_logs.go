package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
)

type auditLogsRepo struct {
	c conn
}

func (r *auditLogsRepo) Append(ctx context.Context, e domain.AuditEntry) error {
	meta := e.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode audit meta: %w", err)
	}

	_, err = r.c.exec(ctx, `
INSERT INTO audit_logs (id, actor_id, actor_email, action, target_user_id, target, meta, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ActorID, e.ActorEmail, string(e.Action),
		mapStringNull(e.TargetUserID), mapStringNull(e.Target), string(raw), utc(e.CreatedAt),
	)
	return mapConflict(err)
}

func (r *auditLogsRepo) Search(ctx context.Context, q string, limit int) ([]domain.AuditEntry, error) {
	query := `SELECT id, actor_id, actor_email, action, target_user_id, target, meta, created_at FROM audit_logs`
	var args []any
	if q = strings.TrimSpace(q); q != "" {
		pattern := likePattern(q)
		query += ` WHERE LOWER(action) LIKE ? ESCAPE '\'` +
			` OR LOWER(actor_email) LIKE ? ESCAPE '\'` +
			` OR LOWER(COALESCE(target, '')) LIKE ? ESCAPE '\'`
		args = append(args, pattern, pattern, pattern)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limitOr(limit, 200))

	rows, err := r.c.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var (
			e              domain.AuditEntry
			action, meta   string
			targetUser, tg sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorEmail, &action, &targetUser, &tg, &meta, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Action = domain.AuditAction(action)
		e.TargetUserID = mapNullString(targetUser)
		e.Target = mapNullString(tg)
		e.CreatedAt = e.CreatedAt.UTC()
		if err := json.Unmarshal([]byte(meta), &e.Meta); err != nil {
			e.Meta = map[string]any{"raw": meta}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
