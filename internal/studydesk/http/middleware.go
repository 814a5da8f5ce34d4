package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/activity"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/identity"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/service"
	"github.com/aussiebroadwan/studydesk/pkg/httpx"
	"github.com/aussiebroadwan/studydesk/pkg/slogx"
)

type sessionKey struct{}

type session struct {
	user  identity.User
	token string
}

func sessionFrom(ctx context.Context) session {
	s, _ := ctx.Value(sessionKey{}).(session)
	return s
}

// principalFrom rebuilds the admin admitted by requireAdmin.
func principalFrom(ctx context.Context) service.Principal {
	return service.Principal{
		SubjectID: httpx.UserIDFromContext(ctx),
		Email:     httpx.EmailFromContext(ctx),
	}
}

// requireAdmin runs the authorizer; nothing behind it executes for a
// rejected request.
func (r *Router) requireAdmin() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()

			p, err := r.Authorizer.Authorize(ctx, req.Header.Get("Authorization"))
			if err != nil {
				writeError(w, req, err)
				return
			}

			ctx = httpx.WithUser(ctx, p.SubjectID, p.Email)
			ctx = slogx.With(ctx, "user_id", p.SubjectID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// requireSession authenticates any role and enforces idle logout.
func (r *Router) requireSession() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()

			u, token, err := r.Authorizer.Authenticate(ctx, req.Header.Get("Authorization"))
			if err != nil {
				writeError(w, req, err)
				return
			}

			if r.Tracker != nil {
				err := r.Tracker.Touch(ctx, u.SessionKey(token), r.now())
				switch {
				case errors.Is(err, activity.ErrIdle):
					slogx.FromContext(ctx).Info("session idle", "user_id", u.ID)
					writeError(w, req, &service.AuthError{
						Status: http.StatusUnauthorized,
						Reason: service.ReasonSessionIdle,
					})
					return
				case err != nil:
					// Tracker outage: keep serving rather than logging everyone out.
					slogx.FromContext(ctx).Error("activity touch failed", "error", err)
				}
			}

			ctx = httpx.WithUser(ctx, u.ID, u.Email)
			ctx = slogx.With(ctx, "user_id", u.ID)
			ctx = context.WithValue(ctx, sessionKey{}, session{user: u, token: token})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}
