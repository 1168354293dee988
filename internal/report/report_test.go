package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskflow/internal/model"
	"taskflow/internal/report"
)

func TestDailyEmptySnapshot(t *testing.T) {
	now := time.Date(2030, 5, 12, 18, 0, 0, 0, time.Local)
	text := report.Daily(nil, now)

	assert.Contains(t, text, "Daily Report")
	assert.Contains(t, text, "12.05.2030")
	assert.Contains(t, text, "nothing completed yet")
	assert.Contains(t, text, "no open tasks")
}

func TestDailyListsCompletedAndPending(t *testing.T) {
	now := time.Date(2030, 5, 12, 18, 0, 0, 0, time.Local)
	start := time.Date(2030, 5, 12, 9, 0, 0, 0, time.Local)
	end := start.Add(time.Hour)
	doneAt := start.Add(25 * time.Minute)

	tasks := []model.Task{
		{
			Title:            "Write report",
			Category:         "work",
			EstimatedMinutes: 60,
			CreatedAt:        start,
			ScheduledStart:   &start,
			ScheduledEnd:     &end,
			Completed:        true,
			CompletedAt:      &doneAt,
			TimeSpent:        25,
		},
		{
			Title:            "Review <PR>",
			EstimatedMinutes: 30,
			CreatedAt:        start,
		},
	}

	text := report.Daily(tasks, now)
	assert.Contains(t, text, "Write report")
	assert.Contains(t, text, "(work)")
	assert.Contains(t, text, "60 min estimated")
	assert.Contains(t, text, "25 min actual")
	assert.Contains(t, text, "over estimate")
	// HTML in titles is escaped for the HTML parse mode.
	assert.Contains(t, text, "Review &lt;PR&gt;")
	assert.Contains(t, text, "30 min, unscheduled")
	assert.False(t, strings.Contains(text, "Review <PR>"))
}

func TestDailyFlagsMissedWindow(t *testing.T) {
	now := time.Date(2030, 5, 12, 18, 0, 0, 0, time.Local)
	start := time.Date(2030, 5, 12, 9, 0, 0, 0, time.Local)
	end := start.Add(time.Hour)

	tasks := []model.Task{{
		Title:          "Morning standup notes",
		CreatedAt:      start,
		ScheduledStart: &start,
		ScheduledEnd:   &end,
	}}

	text := report.Daily(tasks, now)
	assert.Contains(t, text, "missed")
	assert.Contains(t, text, "09:00–10:00")
}
