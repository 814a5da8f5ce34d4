package domain

import "time"

type AuditAction string

const (
	ActionGenerateTrialCode AuditAction = "GENERATE_TRIAL_CODE"
	ActionMarkPaid          AuditAction = "MARK_PAID"
	ActionResetDevices      AuditAction = "RESET_DEVICES"
	ActionBanUser           AuditAction = "BAN_USER"
	ActionUnbanUser         AuditAction = "UNBAN_USER"
	ActionBanDevice         AuditAction = "BAN_DEVICE"
	ActionUnbanDevice       AuditAction = "UNBAN_DEVICE"
)

// AuditEntry is append-only.
type AuditEntry struct {
	ID           string
	ActorID      string
	ActorEmail   string
	Action       AuditAction
	TargetUserID string
	Target       string
	Meta         map[string]any
	CreatedAt    time.Time
}
