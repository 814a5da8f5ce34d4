package desksdk

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Overview(ctx context.Context) (*OverviewResponse, error) {
	var out OverviewResponse
	if err := c.do(ctx, http.MethodGet, "/admin/overview", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TrialCodes(ctx context.Context) ([]TrialCode, error) {
	var out []TrialCode
	err := c.do(ctx, http.MethodGet, "/admin/trial-codes", nil, nil, &out)
	return out, err
}

func (c *Client) GenerateTrialCode(ctx context.Context, req GenerateTrialCodeRequest) (*TrialCode, error) {
	var out TrialCode
	if err := c.do(ctx, http.MethodPost, "/admin/generate-trial-code", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Users(ctx context.Context, q UsersQuery) ([]User, error) {
	v := url.Values{}
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	if q.Plan != "" {
		v.Set("plan", q.Plan)
	}
	if q.Active != "" {
		v.Set("active", q.Active)
	}

	var out []User
	err := c.do(ctx, http.MethodGet, "/admin/users", v, nil, &out)
	return out, err
}

// MarkPaid returns the billing API's reply body verbatim.
func (c *Client) MarkPaid(ctx context.Context, req MarkPaidRequest) ([]byte, error) {
	return c.bytes(ctx, http.MethodPost, "/admin/mark-paid", nil, req)
}

// Devices lists devices; an empty userID lists everyone's.
func (c *Client) Devices(ctx context.Context, userID string) ([]Device, error) {
	v := url.Values{}
	if userID != "" {
		v.Set("user_id", userID)
	}

	var out []Device
	err := c.do(ctx, http.MethodGet, "/admin/devices", v, nil, &out)
	return out, err
}

func (c *Client) ResetDevices(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/admin/reset-devices", nil, ResetDevicesRequest{UserID: userID}, nil)
}

func (c *Client) BanUser(ctx context.Context, req BanUserRequest) error {
	return c.do(ctx, http.MethodPost, "/admin/ban-user", nil, req, nil)
}

func (c *Client) BanDevice(ctx context.Context, req BanDeviceRequest) error {
	return c.do(ctx, http.MethodPost, "/admin/ban-device", nil, req, nil)
}

func (c *Client) Logs(ctx context.Context, q string) ([]AuditEntry, error) {
	v := url.Values{}
	if q != "" {
		v.Set("q", q)
	}

	var out []AuditEntry
	err := c.do(ctx, http.MethodGet, "/admin/logs", v, nil, &out)
	return out, err
}

// ExportUsers downloads users.csv, or the XLSX workbook when xlsx is set.
func (c *Client) ExportUsers(ctx context.Context, xlsx bool) ([]byte, error) {
	return c.bytes(ctx, http.MethodGet, "/admin/export-users", exportQuery(xlsx), nil)
}

// ExportCodes downloads trial_codes.csv, or the XLSX workbook when xlsx is set.
func (c *Client) ExportCodes(ctx context.Context, xlsx bool) ([]byte, error) {
	return c.bytes(ctx, http.MethodGet, "/admin/export-codes", exportQuery(xlsx), nil)
}

func exportQuery(xlsx bool) url.Values {
	if !xlsx {
		return nil
	}
	return url.Values{"format": {"xlsx"}}
}
