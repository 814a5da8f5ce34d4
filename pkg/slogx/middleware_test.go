package slogx_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/studydesk/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddlewareAttachesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "studydesk", Env: "test", Level: "debug", Output: &buf})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/overview", func(w http.ResponseWriter, r *http.Request) {
		slogx.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	})
	h := slogx.HTTPMiddleware(logger)(mux)

	req := httptest.NewRequest(http.MethodGet, "/admin/overview", nil)
	req.Header.Set(slogx.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "req-123", rec.Header().Get(slogx.RequestIDHeader))

	dec := json.NewDecoder(&buf)
	var inside, access map[string]any
	require.NoError(t, dec.Decode(&inside))
	require.NoError(t, dec.Decode(&access))

	require.Equal(t, "inside", inside["msg"])
	require.Equal(t, "req-123", inside["req_id"])
	require.Equal(t, "studydesk", inside["service"])

	require.Equal(t, "http_request", access["msg"])
	require.Equal(t, "GET /admin/overview", access["route"])
	require.EqualValues(t, http.StatusTeapot, access["status"])
}

func TestHTTPMiddlewareGeneratesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Output: &buf})

	h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	require.Len(t, rec.Header().Get(slogx.RequestIDHeader), 26)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, "DEBUG", slogx.ParseLevel("Debug").String())
	require.Equal(t, "WARN", slogx.ParseLevel("warning").String())
	require.Equal(t, "INFO", slogx.ParseLevel("bogus").String())
}
