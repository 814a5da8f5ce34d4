package domain

import "time"

// UserBan exists for as long as the user is banned.
type UserBan struct {
	UserID   string
	Reason   string
	BannedBy string
	BannedAt time.Time
}

// DeviceIdentity is the set of identifiers a device can be recognised by.
// Empty strings mean the identifier is absent.
type DeviceIdentity struct {
	DeviceID    string
	Fingerprint string
	IP          string
}

// IsZero reports whether no identifier is present.
func (d DeviceIdentity) IsZero() bool {
	return d.DeviceID == "" && d.Fingerprint == "" && d.IP == ""
}

type DeviceBan struct {
	ID       string
	Identity DeviceIdentity
	Reason   string
	BannedBy string
	BannedAt time.Time
}

// Matches reports whether the ban covers the candidate. Fields are only
// compared against the same field on the other side and both must be set.
func (b DeviceBan) Matches(candidate DeviceIdentity) bool {
	return sameNonEmpty(b.Identity.DeviceID, candidate.DeviceID) ||
		sameNonEmpty(b.Identity.Fingerprint, candidate.Fingerprint) ||
		sameNonEmpty(b.Identity.IP, candidate.IP)
}

// IsBanned reports whether any ban in the list matches the candidate.
func IsBanned(candidate DeviceIdentity, bans []DeviceBan) bool {
	if candidate.IsZero() {
		return false
	}
	for _, b := range bans {
		if b.Matches(candidate) {
			return true
		}
	}
	return false
}

func sameNonEmpty(a, b string) bool {
	return a != "" && b != "" && a == b
}
