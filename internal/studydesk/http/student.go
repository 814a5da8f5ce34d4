package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/service"
	"github.com/aussiebroadwan/studydesk/pkg/desksdk"
	"github.com/aussiebroadwan/studydesk/pkg/httpx"
)

// StudentHandler serves the signed-in student. Every route sits behind
// requireSession.
type StudentHandler struct {
	Profiles *service.ProfileService
	Gateway  *service.GatewayService

	// ClientIP resolves the address checked against device bans.
	ClientIP func(*http.Request) string
}

// HandleMe godoc
//
//	@Summary		Current profile
//	@Description	Creates the student profile on first call.
//	@Tags			Student
//	@Produce		json
//	@Success		200	{object}	desksdk.MeResponse
//	@Failure		401	{object}	desksdk.ErrorResponse	"Missing, invalid or idle session"
//	@Security		BearerAuth
//	@Router			/me [get]
func (h *StudentHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())

	me, err := h.Profiles.Me(r.Context(), s.user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMe(me))
}

// HandleCompleteProfile godoc
//
//	@Summary		Complete registration
//	@Description	Sets the username. Usernames are 3-20 letters, digits or underscores; disposable email domains are refused.
//	@Tags			Student
//	@Accept			json
//	@Produce		json
//	@Param			request	body		desksdk.CompleteProfileRequest	true	"Username"
//	@Success		200		{object}	desksdk.MeResponse
//	@Failure		400		{object}	desksdk.ErrorResponse
//	@Failure		401		{object}	desksdk.ErrorResponse
//	@Failure		409		{object}	desksdk.ErrorResponse	"Username taken"
//	@Security		BearerAuth
//	@Router			/me/profile [post]
func (h *StudentHandler) HandleCompleteProfile(w http.ResponseWriter, r *http.Request) {
	var req desksdk.CompleteProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	s := sessionFrom(r.Context())
	p, err := h.Profiles.CompleteRegistration(r.Context(), s.user, req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	me, err := h.Profiles.Me(r.Context(), s.user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	me.Profile = p
	httpx.WriteJSON(w, http.StatusOK, toMe(me))
}

// HandleRedeemTrialCode godoc
//
//	@Summary		Redeem a trial code
//	@Description	Relayed to the upstream API after ban checks; the reply is returned unchanged.
//	@Tags			Student
//	@Accept			json
//	@Produce		json
//	@Param			x-device-id				header		string							false	"Device id"
//	@Param			x-device-fingerprint	header		string							false	"Browser fingerprint"
//	@Param			request					body		desksdk.RedeemTrialCodeRequest	true	"Code"
//	@Success		200						{object}	object
//	@Failure		401						{object}	desksdk.ErrorResponse
//	@Failure		403						{object}	desksdk.ErrorResponse	"Account or device banned"
//	@Failure		502						{object}	desksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/redeem-trial-code [post]
func (h *StudentHandler) HandleRedeemTrialCode(w http.ResponseWriter, r *http.Request) {
	var req desksdk.RedeemTrialCodeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		httpx.WriteError(w, http.StatusBadRequest, "code required")
		return
	}

	h.forward(w, r, service.PathRedeemTrialCode, req)
}

// HandleChat godoc
//
//	@Summary		Chat
//	@Description	Relayed to the upstream API after ban checks; the reply is returned unchanged.
//	@Tags			Student
//	@Accept			json
//	@Produce		json
//	@Param			x-device-id				header		string				false	"Device id"
//	@Param			x-device-fingerprint	header		string				false	"Browser fingerprint"
//	@Param			request					body		desksdk.ChatRequest	true	"Prompt"
//	@Success		200						{object}	object
//	@Failure		401						{object}	desksdk.ErrorResponse
//	@Failure		403						{object}	desksdk.ErrorResponse	"Account or device banned"
//	@Failure		502						{object}	desksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/chat [post]
func (h *StudentHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req desksdk.ChatRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "prompt required")
		return
	}

	h.forward(w, r, service.PathChat, req)
}

func (h *StudentHandler) clientIP(r *http.Request) string {
	if h.ClientIP != nil {
		return h.ClientIP(r)
	}
	return httpx.ClientIP(r)
}

func (h *StudentHandler) forward(w http.ResponseWriter, r *http.Request, path string, body any) {
	ctx := r.Context()
	s := sessionFrom(ctx)

	if _, err := h.Profiles.Ensure(ctx, s.user); err != nil {
		writeError(w, r, err)
		return
	}

	raw, err := json.Marshal(body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.Gateway.Forward(ctx, service.GatewayCall{
		User:  s.user,
		Token: s.token,
		Device: domain.DeviceIdentity{
			DeviceID:    strings.TrimSpace(r.Header.Get(service.HeaderDeviceID)),
			Fingerprint: strings.TrimSpace(r.Header.Get(service.HeaderDeviceFingerprint)),
			IP:          h.clientIP(r),
		},
		Path: path,
		Body: raw,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	relay(w, resp)
}
