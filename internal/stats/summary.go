package stats

import (
	"math"
	"time"

	"taskflow/internal/model"
)

// DaySummary is the end-of-day view for one date, recomputed from scratch
// on every call. TotalTasks counts the whole collection, not just the
// day's tasks, so the completion rate relates the day's output to
// everything on the books.
type DaySummary struct {
	Date                  time.Time    `json:"date"`
	TotalTasks            int          `json:"totalTasks"`
	CompletedTasks        int          `json:"completedTasks"`
	TotalEstimatedMinutes int          `json:"totalEstimatedMinutes"`
	ActualMinutes         int          `json:"actualMinutes"`
	Tasks                 []model.Task `json:"tasks"`
	IncompleteTasks       []model.Task `json:"incompleteTasks,omitempty"`
}

// SummarizeDay builds the summary for the given date. Completed tasks are
// matched by completion date; incomplete tasks count when scheduled on the
// date or not scheduled at all (unscheduled work is always actionable
// today). Actual minutes per completed task span scheduled start to
// completion, clamped at zero, with the estimate standing in for
// unscheduled tasks.
func SummarizeDay(tasks []model.Task, date time.Time) DaySummary {
	day := midnight(date)
	summary := DaySummary{Date: day, TotalTasks: len(tasks)}

	var actual float64
	for _, t := range tasks {
		if t.Completed && t.CompletedAt != nil && sameDay(*t.CompletedAt, day) {
			summary.Tasks = append(summary.Tasks, t)
			summary.CompletedTasks++
			summary.TotalEstimatedMinutes += t.EstimatedMinutes
			if t.ScheduledStart != nil {
				diff := t.CompletedAt.Sub(*t.ScheduledStart).Minutes()
				if diff > 0 {
					actual += diff
				}
			} else {
				actual += float64(t.EstimatedMinutes)
			}
			continue
		}
		if !t.Completed {
			if t.ScheduledStart == nil || sameDay(*t.ScheduledStart, day) {
				summary.IncompleteTasks = append(summary.IncompleteTasks, t)
			}
		}
	}
	summary.ActualMinutes = int(math.Round(actual))
	return summary
}

// CompletionRate relates the day's completions to the full collection.
func (s DaySummary) CompletionRate() int {
	if s.TotalTasks == 0 {
		return 0
	}
	return roundPct(s.CompletedTasks, s.TotalTasks)
}

// TimeAccuracy compares the day's estimates against actual minutes.
func (s DaySummary) TimeAccuracy() int {
	if s.TotalEstimatedMinutes == 0 {
		return 100
	}
	return TimeAccuracy(s.TotalEstimatedMinutes, s.ActualMinutes)
}

// ProductivityScore is the blended day score.
func (s DaySummary) ProductivityScore() int {
	return ProductivityScore(s.CompletionRate(), s.TimeAccuracy())
}

func sameDay(t, day time.Time) bool {
	return midnight(t.In(day.Location())).Equal(day)
}
