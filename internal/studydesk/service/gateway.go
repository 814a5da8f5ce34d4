package service

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/identity"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store"
	"github.com/aussiebroadwan/studydesk/pkg/idx"
	"github.com/aussiebroadwan/studydesk/pkg/upstream"
)

// Student headers relayed upstream.
const (
	HeaderDeviceID          = "x-device-id"
	HeaderDeviceFingerprint = "x-device-fingerprint"
)

// Upstream paths of the student calls.
const (
	PathRedeemTrialCode = "/redeem-trial-code"
	PathChat            = "/chat"
)

// GatewayCall is one proxied student request.
type GatewayCall struct {
	User   identity.User
	Token  string
	Device domain.DeviceIdentity
	Path   string
	Body   []byte
}

// GatewayService screens student calls against bans, records the device
// sighting and relays the call upstream.
type GatewayService struct {
	Store    store.Store
	Upstream *upstream.Client
	Now      func() time.Time
}

func (s *GatewayService) Forward(ctx context.Context, c GatewayCall) (upstream.Response, error) {
	banned, err := userBanned(ctx, s.Store, c.User.ID)
	if err != nil {
		return upstream.Response{}, err
	}
	if banned {
		return upstream.Response{}, ErrAccountBanned
	}

	bans, err := s.Store.DeviceBans().ListAll(ctx)
	if err != nil {
		return upstream.Response{}, err
	}
	if domain.IsBanned(c.Device, bans) {
		return upstream.Response{}, ErrDeviceBanned
	}

	if !c.Device.IsZero() {
		now := nowOr(s.Now)
		err := s.Store.Devices().Touch(ctx, domain.Device{
			ID:        idx.NewAt(now).String(),
			UserID:    c.User.ID,
			Identity:  c.Device,
			LastSeen:  now,
			CreatedAt: now,
		})
		if err != nil {
			return upstream.Response{}, err
		}
	}

	h := http.Header{}
	h.Set("Authorization", "Bearer "+c.Token)
	if c.Device.DeviceID != "" {
		h.Set(HeaderDeviceID, c.Device.DeviceID)
	}
	if c.Device.Fingerprint != "" {
		h.Set(HeaderDeviceFingerprint, c.Device.Fingerprint)
	}
	if c.Device.IP != "" {
		h.Set("X-Forwarded-For", c.Device.IP)
	}

	return s.Upstream.Forward(ctx, c.Path, c.Body, h)
}
