// Package upstream talks to the chat and billing API that owns
// subscriptions, redemptions and chat completions.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AdminKeyHeader authenticates privileged calls such as mark-paid.
const AdminKeyHeader = "x-admin-key"

// maxResponseBytes caps how much of an upstream reply is relayed.
const maxResponseBytes = 4 << 20

var ErrNotConfigured = errors.New("upstream: base url not configured")

// Error is a transport-level failure: the call never produced a response.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return "upstream: " + e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Response is an upstream reply, relayed to the caller as-is.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (r Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

type Client struct {
	BaseURL    string
	AdminKey   string
	HTTPClient *http.Client
}

func NewClient(baseURL, adminKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AdminKey:   adminKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether calls can be made at all.
func (c *Client) Configured() bool { return c != nil && c.BaseURL != "" }

type MarkPaidRequest struct {
	UserID string `json:"user_id"`
	Days   int    `json:"days"`
}

// MarkPaid asks the billing API to activate a paid plan for the user.
func (c *Client) MarkPaid(ctx context.Context, req MarkPaidRequest) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("upstream: encode mark-paid: %w", err)
	}

	h := http.Header{}
	h.Set(AdminKeyHeader, c.AdminKey)
	return c.do(ctx, "mark-paid", http.MethodPost, "/admin/mark-paid", body, h)
}

// Forward relays a student call (redeem, chat) with the caller's headers.
func (c *Client) Forward(ctx context.Context, path string, body []byte, headers http.Header) (Response, error) {
	return c.do(ctx, "forward "+path, http.MethodPost, path, body, headers)
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte, headers http.Header) (Response, error) {
	if !c.Configured() {
		return Response{}, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return Response{}, &Error{Op: op, Err: err}
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Response{}, &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Response{}, &Error{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	return Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}
