package model

import "time"

// UserProfile stores per-user settings. One record per user, mutated only
// through an explicit save.
type UserProfile struct {
	UserID              string     `json:"-"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	WorkHoursStart      string     `json:"workHoursStart"`
	WorkHoursEnd        string     `json:"workHoursEnd"`
	CalendarSyncEnabled bool       `json:"calendarSyncEnabled"`
	LastSyncDate        *time.Time `json:"lastSyncDate,omitempty"`
}

// DefaultProfile is what a user gets before their first explicit save.
func DefaultProfile(userID string) UserProfile {
	return UserProfile{
		UserID:         userID,
		Name:           "User",
		Email:          "user@example.com",
		WorkHoursStart: "09:00",
		WorkHoursEnd:   "17:00",
	}
}
