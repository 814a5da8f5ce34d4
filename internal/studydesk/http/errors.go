package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/service"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store"
	"github.com/aussiebroadwan/studydesk/pkg/httpx"
	"github.com/aussiebroadwan/studydesk/pkg/slogx"
	"github.com/aussiebroadwan/studydesk/pkg/upstream"
)

// writeError maps a service error to its status and {"error": msg} body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var (
		authErr *service.AuthError
		valErr  *service.ValidationError
		upErr   *upstream.Error
	)
	switch {
	case errors.As(err, &authErr):
		httpx.WriteError(w, authErr.Status, authErr.Reason)
	case errors.As(err, &valErr):
		httpx.WriteError(w, http.StatusBadRequest, valErr.Msg)
	case errors.Is(err, httpx.ErrBadJSON):
		httpx.WriteError(w, http.StatusBadRequest, "invalid json body")
	case errors.Is(err, service.ErrAccountBanned), errors.Is(err, service.ErrDeviceBanned):
		httpx.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, "already exists")
	case errors.Is(err, upstream.ErrNotConfigured):
		log.Error("upstream call without upstream configured", "error", err)
		httpx.WriteError(w, http.StatusServiceUnavailable, "upstream not configured")
	case errors.As(err, &upErr):
		log.Error("upstream call failed", "op", upErr.Op, "error", upErr.Err)
		httpx.WriteError(w, http.StatusBadGateway, err.Error())
	default:
		// Storage failures surface their message as a 400.
		log.Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	}
}

// relay writes an upstream reply through unchanged.
func relay(w http.ResponseWriter, resp upstream.Response) {
	httpx.NoCache(w)
	ct := resp.ContentType
	if ct == "" {
		ct = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}
