package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store"
	"github.com/aussiebroadwan/studydesk/pkg/idx"
	"github.com/aussiebroadwan/studydesk/pkg/slogx"
)

// AuditRecorder appends audit entries after a mutation has succeeded.
// Failures are logged and counted, never returned: the primary write has
// already happened and stays.
type AuditRecorder struct {
	Store   store.Store
	Metrics *Metrics
	Now     func() time.Time
}

func (r *AuditRecorder) Record(
	ctx context.Context,
	actor Principal,
	action domain.AuditAction,
	targetUserID, target string,
	meta map[string]any,
) {
	if meta == nil {
		meta = map[string]any{}
	}

	now := nowOr(r.Now)
	e := domain.AuditEntry{
		ID:           idx.NewAt(now).String(),
		ActorID:      actor.SubjectID,
		ActorEmail:   actor.Email,
		Action:       action,
		TargetUserID: targetUserID,
		Target:       target,
		Meta:         meta,
		CreatedAt:    now,
	}

	l := slogx.FromContext(ctx)
	if err := r.Store.AuditLogs().Append(ctx, e); err != nil {
		r.Metrics.auditFailed()
		l.Error("audit write failed", "action", action, "target", target, "error", err)
		return
	}

	r.Metrics.action(action)
	l.Info("admin action", "action", action, "actor_id", actor.SubjectID, "target", target)
}
