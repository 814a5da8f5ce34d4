package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/export"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/service"
	"github.com/aussiebroadwan/studydesk/pkg/desksdk"
	"github.com/aussiebroadwan/studydesk/pkg/httpx"
	"github.com/aussiebroadwan/studydesk/pkg/slogx"
)

// AdminHandler serves the back office. Every route sits behind requireAdmin.
type AdminHandler struct {
	Admin *service.AdminService
}

// HandleOverview godoc
//
//	@Summary		Headline counters
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	desksdk.OverviewResponse
//	@Failure		401	{object}	desksdk.ErrorResponse
//	@Failure		403	{object}	desksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/overview [get]
func (h *AdminHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	o, err := h.Admin.Overview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, desksdk.OverviewResponse{
		TotalUsers:    o.TotalUsers,
		ActiveTrials:  o.ActiveTrials,
		ActivePaid:    o.ActivePaid,
		UnusedCodes:   o.UnusedCodes,
		BannedUsers:   o.BannedUsers,
		BannedDevices: o.BannedDevices,
	})
}

// HandleTrialCodes godoc
//
//	@Summary		Recent trial codes
//	@Description	Newest first, at most 100.
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{array}		desksdk.TrialCode
//	@Failure		401	{object}	desksdk.ErrorResponse
//	@Failure		403	{object}	desksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/trial-codes [get]
func (h *AdminHandler) HandleTrialCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.Admin.TrialCodes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapSlice(codes, toTrialCode))
}

// HandleGenerateTrialCode godoc
//
//	@Summary		Generate a trial code
//	@Description	Creates an unused TRIAL- code. expires_in_days of 0 means the code never expires.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		desksdk.GenerateTrialCodeRequest	true	"Duration and expiry in days"
//	@Success		200		{object}	desksdk.TrialCode
//	@Failure		400		{object}	desksdk.ErrorResponse
//	@Failure		401		{object}	desksdk.ErrorResponse
//	@Failure		403		{object}	desksdk.ErrorResponse
//	@Failure		409		{object}	desksdk.ErrorResponse	"Code collision"
//	@Security		BearerAuth
//	@Router			/admin/generate-trial-code [post]
func (h *AdminHandler) HandleGenerateTrialCode(w http.ResponseWriter, r *http.Request) {
	var req desksdk.GenerateTrialCodeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	tc, err := h.Admin.GenerateTrialCode(r.Context(), principalFrom(r.Context()), req.Days, req.ExpiresInDays)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTrialCode(tc))
}

// HandleUsers godoc
//
//	@Summary		List users
//	@Description	Profiles joined with subscription and ban, newest first, at most 100.
//	@Tags			Admin
//	@Produce		json
//	@Param			q		query		string	false	"Substring of email or username, case-insensitive"
//	@Param			plan	query		string	false	"trial, paid or none"
//	@Param			active	query		string	false	"true or false"
//	@Success		200		{array}		desksdk.User
//	@Failure		401		{object}	desksdk.ErrorResponse
//	@Failure		403		{object}	desksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/users [get]
func (h *AdminHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, err := h.Admin.Users(r.Context(), service.UserQuery{
		Q:      q.Get("q"),
		Plan:   q.Get("plan"),
		Active: q.Get("active"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapSlice(users, toUser))
}

// HandleMarkPaid godoc
//
//	@Summary		Activate a paid plan
//	@Description	Relayed to the billing API; its status and body are returned unchanged.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		desksdk.MarkPaidRequest	true	"User and number of days"
//	@Success		200		{object}	object
//	@Failure		400		{object}	desksdk.ErrorResponse
//	@Failure		401		{object}	desksdk.ErrorResponse
//	@Failure		403		{object}	desksdk.ErrorResponse
//	@Failure		502		{object}	desksdk.ErrorResponse	"Billing API unreachable"
//	@Security		BearerAuth
//	@Router			/admin/mark-paid [post]
func (h *AdminHandler) HandleMarkPaid(w http.ResponseWriter, r *http.Request) {
	var req desksdk.MarkPaidRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.Admin.MarkPaid(r.Context(), principalFrom(r.Context()), req.UserID, req.Days)
	if err != nil {
		writeError(w, r, err)
		return
	}
	relay(w, resp)
}

// HandleDevices godoc
//
//	@Summary		List devices
//	@Description	Newest last_seen first, at most 200, each flagged against the device bans.
//	@Tags			Admin
//	@Produce		json
//	@Param			user_id	query		string	false	"Only this user's devices"
//	@Success		200		{array}		desksdk.Device
//	@Failure		401		{object}	desksdk.ErrorResponse
//	@Failure		403		{object}	desksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/devices [get]
func (h *AdminHandler) HandleDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.Admin.Devices(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapSlice(devices, toDevice))
}

// HandleResetDevices godoc
//
//	@Summary	Forget all devices of a user
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		request	body		desksdk.ResetDevicesRequest	true	"User"
//	@Success	200		{object}	desksdk.SuccessResponse
//	@Failure	400		{object}	desksdk.ErrorResponse
//	@Failure	401		{object}	desksdk.ErrorResponse
//	@Failure	403		{object}	desksdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/admin/reset-devices [post]
func (h *AdminHandler) HandleResetDevices(w http.ResponseWriter, r *http.Request) {
	var req desksdk.ResetDevicesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Admin.ResetDevices(r.Context(), principalFrom(r.Context()), req.UserID); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, desksdk.SuccessResponse{Success: true})
}

// HandleBanUser godoc
//
//	@Summary	Ban or unban a user
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		request	body		desksdk.BanUserRequest	true	"User, direction and reason"
//	@Success	200		{object}	desksdk.BanResponse
//	@Failure	400		{object}	desksdk.ErrorResponse
//	@Failure	401		{object}	desksdk.ErrorResponse
//	@Failure	403		{object}	desksdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/admin/ban-user [post]
func (h *AdminHandler) HandleBanUser(w http.ResponseWriter, r *http.Request) {
	var req desksdk.BanUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	err := h.Admin.BanUser(r.Context(), principalFrom(r.Context()), req.UserID, req.Ban, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, desksdk.BanResponse{Success: true, Banned: req.Ban})
}

// HandleBanDevice godoc
//
//	@Summary		Ban or unban a device
//	@Description	Ban inserts a new ban row. Unban deletes every ban sharing any one of the given fields.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		desksdk.BanDeviceRequest	true	"At least one of device_id, fingerprint and ip"
//	@Success		200		{object}	desksdk.BanResponse
//	@Failure		400		{object}	desksdk.ErrorResponse
//	@Failure		401		{object}	desksdk.ErrorResponse
//	@Failure		403		{object}	desksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/ban-device [post]
func (h *AdminHandler) HandleBanDevice(w http.ResponseWriter, r *http.Request) {
	var req desksdk.BanDeviceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	id := domain.DeviceIdentity{DeviceID: req.DeviceID, Fingerprint: req.Fingerprint, IP: req.IP}
	if err := h.Admin.BanDevice(r.Context(), principalFrom(r.Context()), id, req.Ban, req.Reason); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, desksdk.BanResponse{Success: true, Banned: req.Ban})
}

// HandleLogs godoc
//
//	@Summary		Search the audit log
//	@Description	Newest first, at most 200. q matches action, actor email or target, case-insensitive.
//	@Tags			Admin
//	@Produce		json
//	@Param			q	query		string	false	"Search text"
//	@Success		200	{array}		desksdk.AuditEntry
//	@Failure		401	{object}	desksdk.ErrorResponse
//	@Failure		403	{object}	desksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/logs [get]
func (h *AdminHandler) HandleLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Admin.Logs(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapSlice(entries, toAuditEntry))
}

// HandleExportUsers godoc
//
//	@Summary		Export users
//	@Description	CSV with every data field quoted, newest 500 users. format=xlsx returns a workbook instead.
//	@Tags			Admin
//	@Produce		text/csv
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Param			format	query		string	false	"csv (default) or xlsx"
//	@Success		200		{string}	string
//	@Failure		401		{object}	desksdk.ErrorResponse
//	@Failure		403		{object}	desksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/export-users [get]
func (h *AdminHandler) HandleExportUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Admin.ExportUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeExport(w, r, export.UsersTable(users))
}

// HandleExportCodes godoc
//
//	@Summary		Export trial codes
//	@Description	CSV with every data field quoted, newest 1000 codes. format=xlsx returns a workbook instead.
//	@Tags			Admin
//	@Produce		text/csv
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Param			format	query		string	false	"csv (default) or xlsx"
//	@Success		200		{string}	string
//	@Failure		401		{object}	desksdk.ErrorResponse
//	@Failure		403		{object}	desksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/export-codes [get]
func (h *AdminHandler) HandleExportCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.Admin.ExportCodes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeExport(w, r, export.CodesTable(codes))
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// writeExport renders into a buffer first so a failure can still become a
// JSON error instead of a truncated file.
func writeExport(w http.ResponseWriter, r *http.Request, t export.Table) {
	var (
		buf         bytes.Buffer
		err         error
		contentType = "text/csv; charset=utf-8"
		ext         = "csv"
	)
	if r.URL.Query().Get("format") == "xlsx" {
		contentType, ext = xlsxContentType, "xlsx"
		err = export.WriteXLSX(&buf, t)
	} else {
		err = export.WriteCSV(&buf, t)
	}
	if err != nil {
		slogx.FromContext(r.Context()).Error("export failed", "table", t.Name, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "export failed")
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, t.Name, ext))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
