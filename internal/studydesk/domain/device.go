package domain

import "time"

// Device is a sighting of a (device id, fingerprint, ip) tuple for a user.
type Device struct {
	ID        string
	UserID    string
	Identity  DeviceIdentity
	LastSeen  time.Time
	CreatedAt time.Time
}
