package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// one sub-repository per table so call sites stay explicit about what they
// touch.
type Store interface {
	Profiles() Profiles
	Subscriptions() Subscriptions
	UserBans() UserBans
	DeviceBans() DeviceBans
	Devices() Devices
	TrialCodes() TrialCodes
	AuditLogs() AuditLogs

	ApplyMigrations() error

	Close() error
	Ping(ctx context.Context) error
}

// UserFilter narrows a user listing. Empty fields are not applied.
type UserFilter struct {
	// Query is a case-insensitive substring matched against email and username.
	Query string
	// Plan is "trial", "paid" or "none" (no subscription at all).
	Plan string
	// Active filters on the subscription active flag when set.
	Active *bool
	Limit  int
}

type Profiles interface {
	// GetProfileByID returns ErrNotFound when the subject has no profile yet.
	GetProfileByID(ctx context.Context, id string) (domain.Profile, error)

	// CreateProfile inserts a profile, ErrAlreadyExists if the id is taken.
	CreateProfile(ctx context.Context, p domain.Profile) error

	UpdateEmail(ctx context.Context, id, email string) error

	// UpdateUsername returns ErrAlreadyExists when another profile owns the name.
	UpdateUsername(ctx context.Context, id, username string) error

	// UpdateRole returns ErrNotFound when the profile does not exist.
	UpdateRole(ctx context.Context, id string, role domain.Role) error

	// ListUsers returns profiles newest first, joined with subscription and ban.
	ListUsers(ctx context.Context, f UserFilter) ([]domain.UserView, error)

	Count(ctx context.Context) (int, error)
}

type Subscriptions interface {
	// CountActive counts active subscriptions on the given plan.
	CountActive(ctx context.Context, plan domain.Plan) (int, error)

	GetByUserID(ctx context.Context, userID string) (domain.Subscription, error)

	// Upsert creates or replaces the user's subscription. The upstream billing
	// API normally owns this table; it is only written here when no upstream
	// is configured.
	Upsert(ctx context.Context, s domain.Subscription) error
}

type UserBans interface {
	// Upsert creates the ban or replaces reason/banned_by/banned_at.
	Upsert(ctx context.Context, b domain.UserBan) error

	// Delete removes the ban. Deleting a missing ban is not an error.
	Delete(ctx context.Context, userID string) error

	Get(ctx context.Context, userID string) (domain.UserBan, error)
	Count(ctx context.Context) (int, error)
}

type DeviceBans interface {
	Create(ctx context.Context, b domain.DeviceBan) error

	// DeleteMatching deletes every ban sharing at least one non-empty field
	// with id and returns how many rows went away.
	DeleteMatching(ctx context.Context, id domain.DeviceIdentity) (int64, error)

	ListAll(ctx context.Context) ([]domain.DeviceBan, error)
	Count(ctx context.Context) (int, error)
}

type Devices interface {
	// List returns devices by last_seen desc. An empty userID lists everyone.
	List(ctx context.Context, userID string, limit int) ([]domain.Device, error)

	// DeleteByUser removes every device row of the user.
	DeleteByUser(ctx context.Context, userID string) (int64, error)

	// Touch records a sighting, bumping last_seen of the row with the same
	// user and identity or inserting a new one.
	Touch(ctx context.Context, d domain.Device) error
}

type TrialCodes interface {
	// Create returns ErrAlreadyExists when the code is taken.
	Create(ctx context.Context, c domain.TrialCode) error

	// ListRecent returns codes newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.TrialCode, error)

	CountUnused(ctx context.Context) (int, error)
}

type AuditLogs interface {
	Append(ctx context.Context, e domain.AuditEntry) error

	// Search returns entries newest first; q is matched case-insensitively
	// against action, actor email and target. Empty q lists everything.
	Search(ctx context.Context, q string, limit int) ([]domain.AuditEntry, error)
}
