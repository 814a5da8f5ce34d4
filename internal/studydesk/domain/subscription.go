package domain

import "time"

type Plan string

const (
	PlanTrial Plan = "trial"
	PlanPaid  Plan = "paid"
)

// Subscription is owned by the upstream billing API. It is only written here
// by the local mark-paid fallback when no upstream is configured.
type Subscription struct {
	UserID      string
	Plan        Plan
	Active      bool
	EndAt       *time.Time
	DeviceLimit *int
	IPLimit     *int
}
