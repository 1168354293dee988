package stats

import (
	"time"

	"taskflow/internal/model"
)

// Usage counts activity inside a window: tasks that entered the window
// (created or scheduled there) against tasks completed there.
type Usage struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Rate      int `json:"rate"`
}

// UsageForRange aggregates over [from, to).
func UsageForRange(tasks []model.Task, from, to time.Time) Usage {
	var u Usage
	for _, t := range tasks {
		if inRange(&t.CreatedAt, from, to) || inRange(t.ScheduledStart, from, to) {
			u.Total++
		}
		if t.Completed && inRange(t.CompletedAt, from, to) {
			u.Completed++
		}
	}
	if u.Total > 0 {
		u.Rate = roundPct(u.Completed, u.Total)
	}
	return u
}

// DailyUsage covers the calendar day containing the given instant.
func DailyUsage(tasks []model.Task, date time.Time) Usage {
	start := midnight(date)
	return UsageForRange(tasks, start, start.AddDate(0, 0, 1))
}

// MonthlyUsage covers one calendar month.
func MonthlyUsage(tasks []model.Task, year int, month time.Month, loc *time.Location) Usage {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return UsageForRange(tasks, start, start.AddDate(0, 1, 0))
}

// YearlyUsage covers one calendar year.
func YearlyUsage(tasks []model.Task, year int, loc *time.Location) Usage {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return UsageForRange(tasks, start, start.AddDate(1, 0, 0))
}

func inRange(t *time.Time, from, to time.Time) bool {
	if t == nil {
		return false
	}
	return !t.Before(from) && t.Before(to)
}
