// Package export renders back-office listings as downloadable files.
package export

import (
	"strconv"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
)

// Table is a sheet of string cells with a header row.
type Table struct {
	// Name is the file stem and the XLSX sheet name.
	Name   string
	Header []string
	Rows   [][]string
}

var (
	usersHeader = []string{"id", "email", "username", "role", "created_at", "plan", "active", "end_at"}
	codesHeader = []string{"code", "used", "duration_days", "created_at", "used_at", "expires_at", "used_by"}
)

// UsersTable flattens profiles with their subscription. Users without a
// subscription have empty plan, active and end_at cells.
func UsersTable(users []domain.UserView) Table {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		var plan, active, endAt string
		if u.Sub != nil {
			plan = string(u.Sub.Plan)
			active = strconv.FormatBool(u.Sub.Active)
			endAt = formatTimePtr(u.Sub.EndAt)
		}
		rows = append(rows, []string{
			u.Profile.ID,
			u.Profile.Email,
			u.Profile.Username,
			string(u.Profile.Role),
			formatTime(u.Profile.CreatedAt),
			plan,
			active,
			endAt,
		})
	}
	return Table{Name: "users", Header: usersHeader, Rows: rows}
}

func CodesTable(codes []domain.TrialCode) Table {
	rows := make([][]string, 0, len(codes))
	for _, c := range codes {
		rows = append(rows, []string{
			c.Code,
			strconv.FormatBool(c.Used),
			strconv.Itoa(c.DurationDays),
			formatTime(c.CreatedAt),
			formatTimePtr(c.UsedAt),
			formatTimePtr(c.ExpiresAt),
			c.UsedBy,
		})
	}
	return Table{Name: "trial_codes", Header: codesHeader, Rows: rows}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
