package desksdk

import (
	"encoding/json"
	"time"
)

// ErrorResponse is the body of every rejected request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse acknowledges a mutation.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// BanResponse acknowledges a ban or unban.
type BanResponse struct {
	Success bool `json:"success"`
	Banned  bool `json:"banned"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports each dependency on /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Activity string `json:"activity,omitempty"`
}

type OverviewResponse struct {
	TotalUsers    int `json:"total_users"`
	ActiveTrials  int `json:"active_trials"`
	ActivePaid    int `json:"active_paid"`
	UnusedCodes   int `json:"unused_codes"`
	BannedUsers   int `json:"banned_users"`
	BannedDevices int `json:"banned_devices"`
}

type TrialCode struct {
	Code         string     `json:"code"`
	Used         bool       `json:"used"`
	DurationDays int        `json:"duration_days"`
	CreatedAt    time.Time  `json:"created_at"`
	UsedAt       *time.Time `json:"used_at"`
	ExpiresAt    *time.Time `json:"expires_at"`
	UsedBy       *string    `json:"used_by"`
}

type GenerateTrialCodeRequest struct {
	Days          int `json:"days"`
	ExpiresInDays int `json:"expires_in_days"`
}

// User is one row of the admin user listing: the profile flattened with
// its subscription and ban.
type User struct {
	ID        string    `json:"id"`
	Email     *string   `json:"email"`
	Username  *string   `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`

	Plan        *string    `json:"plan"`
	Active      bool       `json:"active"`
	EndAt       *time.Time `json:"end_at"`
	DeviceLimit *int       `json:"device_limit"`
	IPLimit     *int       `json:"ip_limit"`

	Banned    bool       `json:"banned"`
	BanReason *string    `json:"ban_reason"`
	BannedAt  *time.Time `json:"banned_at"`
}

// UsersQuery filters the user listing. Plan is "trial", "paid" or "none";
// Active is "true" or "false".
type UsersQuery struct {
	Q      string
	Plan   string
	Active string
}

type MarkPaidRequest struct {
	UserID string `json:"user_id"`
	Days   int    `json:"days"`
}

type Device struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DeviceID    *string   `json:"device_id"`
	Fingerprint *string   `json:"fingerprint"`
	IP          *string   `json:"ip"`
	LastSeen    time.Time `json:"last_seen"`
	CreatedAt   time.Time `json:"created_at"`
	Banned      bool      `json:"banned"`
}

type ResetDevicesRequest struct {
	UserID string `json:"user_id"`
}

type BanUserRequest struct {
	UserID string `json:"user_id"`
	Ban    bool   `json:"ban"`
	Reason string `json:"reason,omitempty"`
}

// BanDeviceRequest needs at least one of DeviceID, Fingerprint and IP.
type BanDeviceRequest struct {
	Ban         bool   `json:"ban"`
	Reason      string `json:"reason,omitempty"`
	DeviceID    string `json:"device_id,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	IP          string `json:"ip,omitempty"`
}

type AuditEntry struct {
	ID           string          `json:"id"`
	ActorID      string          `json:"actor_id"`
	ActorEmail   string          `json:"actor_email"`
	Action       string          `json:"action"`
	TargetUserID *string         `json:"target_user_id"`
	Target       *string         `json:"target"`
	Meta         json.RawMessage `json:"meta" swaggertype:"object"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MeResponse is the signed-in user's own profile.
type MeResponse struct {
	ID       string  `json:"id"`
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Role     string  `json:"role"`
	Banned   bool    `json:"banned"`
}

type CompleteProfileRequest struct {
	Username string `json:"username"`
}

type RedeemTrialCodeRequest struct {
	Code string `json:"code"`
}

type ChatRequest struct {
	Prompt string `json:"prompt"`
}
