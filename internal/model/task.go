package model

import "time"

// DateLayout and ClockLayout are the wire formats for calendar dates and
// clock times.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Task represents a single unit of work, with optional scheduling and
// time-tracking fields. Scheduled timestamps are the canonical
// representation; the HH:MM clock strings used by some surfaces are
// derived from them.
type Task struct {
	ID               string     `json:"id"`
	UserID           string     `json:"-"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Category         string     `json:"category,omitempty"`
	EstimatedMinutes int        `json:"estimatedMinutes,omitempty"`
	ScheduledStart   *time.Time `json:"scheduledStart,omitempty"`
	ScheduledEnd     *time.Time `json:"scheduledEnd,omitempty"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	InProgress       bool       `json:"inProgress,omitempty"`
	TimerStartedAt   *time.Time `json:"timerStartedAt,omitempty"`
	TimeSpent        int        `json:"timeSpent"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"-"`
}

// Scheduled reports whether the task has a full time window assigned.
// A task with only one endpoint set counts as unscheduled.
func (t Task) Scheduled() bool {
	return t.ScheduledStart != nil && t.ScheduledEnd != nil
}

// EffectiveDate is the calendar date the task belongs to: the scheduled
// start's date when set, otherwise the creation date.
func (t Task) EffectiveDate() string {
	if t.ScheduledStart != nil {
		return t.ScheduledStart.Format(DateLayout)
	}
	return t.CreatedAt.Format(DateLayout)
}

// StartClock returns the scheduled start as an HH:MM string, or "" when
// unscheduled. The empty string sorts before any clock string under
// lexical compare, which is the ordering Upcoming relies on.
func (t Task) StartClock() string {
	if t.ScheduledStart == nil {
		return ""
	}
	return t.ScheduledStart.Format(ClockLayout)
}

// EndClock returns the scheduled end as an HH:MM string, or "".
func (t Task) EndClock() string {
	if t.ScheduledEnd == nil {
		return ""
	}
	return t.ScheduledEnd.Format(ClockLayout)
}
