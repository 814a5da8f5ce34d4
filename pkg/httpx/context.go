package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/studydesk/pkg/slogx"
)

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyEmail  ctxKey = "email"
)

// WithUser records the authenticated subject for downstream handlers and
// per-user rate limiting.
func WithUser(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, userID)
	return context.WithValue(ctx, CtxKeyEmail, email)
}

func UserIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyUserID).(string)
	return v
}

func EmailFromContext(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyEmail).(string)
	return v
}

func logFromRequest(r *http.Request) *slog.Logger {
	return slogx.FromContext(r.Context())
}
