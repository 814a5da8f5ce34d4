package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/aussiebroadwan/studydesk/pkg/idx"
)

// Devices lists device sightings, newest first, each flagged against the
// current ban table. The two reads are not a snapshot.
func (s *AdminService) Devices(ctx context.Context, userID string) ([]domain.DeviceView, error) {
	devices, err := s.Store.Devices().List(ctx, strings.TrimSpace(userID), DevicesLimit)
	if err != nil {
		return nil, err
	}
	bans, err := s.Store.DeviceBans().ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.DeviceView, len(devices))
	for i, d := range devices {
		out[i] = domain.DeviceView{Device: d, Banned: domain.IsBanned(d.Identity, bans)}
	}
	return out, nil
}

// ResetDevices forgets every device of the user.
func (s *AdminService) ResetDevices(ctx context.Context, actor Principal, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return invalid("user_id required")
	}

	n, err := s.Store.Devices().DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}

	s.Audit.Record(ctx, actor, domain.ActionResetDevices, userID, userID, map[string]any{"deleted": n})
	return nil
}

// BanDevice inserts a ban row for the identity, or on unban deletes every
// ban sharing any one of its fields.
func (s *AdminService) BanDevice(ctx context.Context, actor Principal, id domain.DeviceIdentity, ban bool, reason string) error {
	id = domain.DeviceIdentity{
		DeviceID:    strings.TrimSpace(id.DeviceID),
		Fingerprint: strings.TrimSpace(id.Fingerprint),
		IP:          strings.TrimSpace(id.IP),
	}
	reason = strings.TrimSpace(reason)
	if id.IsZero() {
		return invalid("Provide device_id or fingerprint or ip")
	}

	target := deviceTarget(id)

	if !ban {
		n, err := s.Store.DeviceBans().DeleteMatching(ctx, id)
		if err != nil {
			return err
		}
		s.Audit.Record(ctx, actor, domain.ActionUnbanDevice, "", target, map[string]any{"deleted": n})
		return nil
	}

	now := s.now()
	b := domain.DeviceBan{
		ID:       idx.NewAt(now).String(),
		Identity: id,
		Reason:   reason,
		BannedBy: actor.SubjectID,
		BannedAt: now,
	}
	if b.Reason == "" {
		b.Reason = defaultBanReason
	}
	if err := s.Store.DeviceBans().Create(ctx, b); err != nil {
		return err
	}

	s.Audit.Record(ctx, actor, domain.ActionBanDevice, "", target, map[string]any{"reason": reason})
	return nil
}

// deviceTarget renders the identity as the audit target, with null for
// absent fields so log searches can match on any of them.
func deviceTarget(id domain.DeviceIdentity) string {
	opt := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	b, _ := json.Marshal(struct {
		DeviceID    *string `json:"device_id"`
		Fingerprint *string `json:"fingerprint"`
		IP          *string `json:"ip"`
	}{opt(id.DeviceID), opt(id.Fingerprint), opt(id.IP)})
	return string(b)
}
