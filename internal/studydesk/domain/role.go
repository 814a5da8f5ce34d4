package domain

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a stored role string onto a known role. Anything unknown is
// treated as a student so it can never grant admin access.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleStudent
}
