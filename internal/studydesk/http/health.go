package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/activity"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store"
	"github.com/aussiebroadwan/studydesk/pkg/desksdk"
	"github.com/aussiebroadwan/studydesk/pkg/httpx"
)

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always 200 while the process is serving.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	desksdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get]
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, desksdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the database and, when it is remote, the activity tracker.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	desksdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	desksdk.HealthResponse	"a dependency is down"
//	@Router			/readyz [get]
func ReadyzHandler(startTime time.Time, version string, st store.Store, tracker activity.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &desksdk.HealthChecks{Database: "ok"}
		status, code := "ok", http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}

		if p, ok := tracker.(pinger); ok {
			checks.Activity = "ok"
			if err := p.Ping(r.Context()); err != nil {
				checks.Activity = "error: " + err.Error()
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}

		httpx.WriteJSON(w, code, desksdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
