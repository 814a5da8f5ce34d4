package domain

import "time"

// Profile is the application-level user record, keyed by the subject id the
// auth provider puts in the session token.
type Profile struct {
	ID        string
	Email     string // may be empty
	Username  string // may be empty until registration completes
	Role      Role
	CreatedAt time.Time
}

func (p Profile) IsAdmin() bool { return p.Role == RoleAdmin }
