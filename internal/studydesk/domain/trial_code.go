package domain

import "time"

const TrialCodePrefix = "TRIAL-"

// TrialCode is a single-use code granting DurationDays of trial access.
type TrialCode struct {
	Code         string
	Used         bool
	DurationDays int
	CreatedAt    time.Time
	UsedAt       *time.Time
	ExpiresAt    *time.Time // nil means the code never expires
	UsedBy       string
}
