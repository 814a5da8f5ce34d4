package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/identity"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store"
	"github.com/aussiebroadwan/studydesk/pkg/slogx"
)

const (
	ReasonMissingCredential     = "missing credential"
	ReasonInvalidSession        = "invalid session"
	ReasonInsufficientPrivilege = "insufficient privilege"
	ReasonSessionIdle           = "session idle"
)

// AuthError is a rejected request. Status is 401 or 403.
type AuthError struct {
	Status int
	Reason string
}

func (e *AuthError) Error() string { return e.Reason }

func unauthorized(reason string) *AuthError {
	return &AuthError{Status: http.StatusUnauthorized, Reason: reason}
}

func forbidden(reason string) *AuthError {
	return &AuthError{Status: http.StatusForbidden, Reason: reason}
}

// Principal is an admitted admin.
type Principal struct {
	SubjectID string
	Email     string
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// Authorizer gates requests on the session credential and the caller's
// profile. It never writes.
type Authorizer struct {
	Identity identity.Provider
	Store    store.Store
}

// Authenticate resolves the caller without checking the role. It returns
// the raw token too, which keys the idle tracker and is relayed upstream.
func (a *Authorizer) Authenticate(ctx context.Context, header string) (identity.User, string, error) {
	token, ok := BearerToken(header)
	if !ok {
		return identity.User{}, "", unauthorized(ReasonMissingCredential)
	}

	u, err := a.Identity.ResolveUser(ctx, token)
	if err != nil || u.ID == "" {
		if err != nil && !errors.Is(err, identity.ErrInvalidToken) {
			slogx.FromContext(ctx).Warn("identity provider error", "error", err)
		}
		return identity.User{}, "", unauthorized(ReasonInvalidSession)
	}
	return u, token, nil
}

// Authorize admits admins only.
func (a *Authorizer) Authorize(ctx context.Context, header string) (Principal, error) {
	u, _, err := a.Authenticate(ctx, header)
	if err != nil {
		return Principal{}, err
	}

	prof, err := a.Store.Profiles().GetProfileByID(ctx, u.ID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Error("profile lookup failed", "user_id", u.ID, "error", err)
		}
		return Principal{}, forbidden(ReasonInsufficientPrivilege)
	}
	if !prof.IsAdmin() {
		return Principal{}, forbidden(ReasonInsufficientPrivilege)
	}

	email := prof.Email
	if email == "" {
		email = u.Email
	}
	return Principal{SubjectID: u.ID, Email: email}, nil
}
