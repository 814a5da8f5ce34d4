package http

import (
	"encoding/json"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/service"
	"github.com/aussiebroadwan/studydesk/pkg/desksdk"
)

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toTrialCode(c domain.TrialCode) desksdk.TrialCode {
	return desksdk.TrialCode{
		Code:         c.Code,
		Used:         c.Used,
		DurationDays: c.DurationDays,
		CreatedAt:    c.CreatedAt,
		UsedAt:       c.UsedAt,
		ExpiresAt:    c.ExpiresAt,
		UsedBy:       optString(c.UsedBy),
	}
}

func toUser(v domain.UserView) desksdk.User {
	u := desksdk.User{
		ID:        v.Profile.ID,
		Email:     optString(v.Profile.Email),
		Username:  optString(v.Profile.Username),
		Role:      string(v.Profile.Role),
		CreatedAt: v.Profile.CreatedAt,
	}
	if s := v.Sub; s != nil {
		u.Plan = optString(string(s.Plan))
		u.Active = s.Active
		u.EndAt = s.EndAt
		u.DeviceLimit = s.DeviceLimit
		u.IPLimit = s.IPLimit
	}
	if b := v.Ban; b != nil {
		u.Banned = true
		u.BanReason = optString(b.Reason)
		at := b.BannedAt
		u.BannedAt = &at
	}
	return u
}

func toDevice(v domain.DeviceView) desksdk.Device {
	d := v.Device
	return desksdk.Device{
		ID:          d.ID,
		UserID:      d.UserID,
		DeviceID:    optString(d.Identity.DeviceID),
		Fingerprint: optString(d.Identity.Fingerprint),
		IP:          optString(d.Identity.IP),
		LastSeen:    d.LastSeen,
		CreatedAt:   d.CreatedAt,
		Banned:      v.Banned,
	}
}

func toAuditEntry(e domain.AuditEntry) desksdk.AuditEntry {
	meta, err := json.Marshal(e.Meta)
	if err != nil || e.Meta == nil {
		meta = json.RawMessage(`{}`)
	}
	return desksdk.AuditEntry{
		ID:           e.ID,
		ActorID:      e.ActorID,
		ActorEmail:   e.ActorEmail,
		Action:       string(e.Action),
		TargetUserID: optString(e.TargetUserID),
		Target:       optString(e.Target),
		Meta:         meta,
		CreatedAt:    e.CreatedAt,
	}
}

func toMe(v service.ProfileView) desksdk.MeResponse {
	return desksdk.MeResponse{
		ID:       v.Profile.ID,
		Email:    optString(v.Profile.Email),
		Username: optString(v.Profile.Username),
		Role:     string(v.Profile.Role),
		Banned:   v.Banned,
	}
}

func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}
