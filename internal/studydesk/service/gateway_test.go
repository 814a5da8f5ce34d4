package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/identity"
	"github.com/aussiebroadwan/studydesk/pkg/upstream"
	"github.com/stretchr/testify/require"
)

func TestGatewayForward(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	var lastReq *http.Request
	var lastBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		lastReq, lastBody = r, string(b)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"reply":"hi"}`))
	}))
	t.Cleanup(srv.Close)

	s := newTestStore(t)
	admin := newAdminService(t, s)
	gw := &GatewayService{Store: s, Upstream: upstream.NewClient(srv.URL, "", time.Second), Now: fixedNow}

	dev := domain.DeviceIdentity{DeviceID: "dev-1", Fingerprint: "fp-1", IP: "10.0.0.1"}
	call := GatewayCall{
		User:   identity.User{ID: "u-1"},
		Token:  "tok-1",
		Device: dev,
		Path:   PathChat,
		Body:   []byte(`{"prompt":"hello"}`),
	}

	t.Run("relays and records the device", func(t *testing.T) {
		resp, err := gw.Forward(ctx, call)
		require.NoError(t, err)
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		require.JSONEq(t, `{"reply":"hi"}`, string(resp.Body))

		require.Equal(t, PathChat, lastReq.URL.Path)
		require.Equal(t, "Bearer tok-1", lastReq.Header.Get("Authorization"))
		require.Equal(t, "fp-1", lastReq.Header.Get(HeaderDeviceFingerprint))
		require.Equal(t, "dev-1", lastReq.Header.Get(HeaderDeviceID))
		require.JSONEq(t, `{"prompt":"hello"}`, lastBody)

		// A second call bumps the same row.
		_, err = gw.Forward(ctx, call)
		require.NoError(t, err)
		devs, err := s.Devices().List(ctx, "u-1", 10)
		require.NoError(t, err)
		require.Len(t, devs, 1)
		require.Equal(t, dev, devs[0].Identity)
	})

	t.Run("banned device", func(t *testing.T) {
		require.NoError(t, admin.BanDevice(ctx, testAdmin, domain.DeviceIdentity{Fingerprint: "fp-1"}, true, ""))
		_, err := gw.Forward(ctx, call)
		require.ErrorIs(t, err, ErrDeviceBanned)

		require.NoError(t, admin.BanDevice(ctx, testAdmin, domain.DeviceIdentity{Fingerprint: "fp-1"}, false, ""))
	})

	t.Run("banned user", func(t *testing.T) {
		require.NoError(t, admin.BanUser(ctx, testAdmin, "u-1", true, ""))
		_, err := gw.Forward(ctx, call)
		require.ErrorIs(t, err, ErrAccountBanned)
	})

	t.Run("upstream not configured", func(t *testing.T) {
		gw := &GatewayService{Store: s, Now: fixedNow}
		_, err := gw.Forward(ctx, GatewayCall{User: identity.User{ID: "u-2"}, Path: PathRedeemTrialCode})
		require.ErrorIs(t, err, upstream.ErrNotConfigured)
	})
}
