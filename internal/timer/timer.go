// Package timer derives elapsed time for tasks with a running timer.
// All functions are pure: "now" is always supplied by the caller, so the
// arithmetic is reproducible under test with an injected clock.
package timer

import (
	"time"

	"taskflow/internal/model"
)

// Elapsed returns the task's total minutes at the given instant: accumulated
// TimeSpent plus, when the timer is running, whole minutes since it started.
// Nothing is mutated.
func Elapsed(t model.Task, now time.Time) int {
	total := t.TimeSpent
	if t.InProgress && t.TimerStartedAt != nil {
		total += minutesBetween(*t.TimerStartedAt, now)
	}
	return total
}

// Start marks the task's timer running at the given instant. The caller is
// responsible for the single-timer invariant across the collection.
func Start(t *model.Task, now time.Time) {
	started := now
	t.InProgress = true
	t.TimerStartedAt = &started
}

// Stop folds the running interval into TimeSpent and clears the timer.
// Silent no-op when the timer is not running, so stop is idempotent.
func Stop(t *model.Task, now time.Time) {
	if !t.InProgress {
		return
	}
	if t.TimerStartedAt != nil {
		t.TimeSpent += minutesBetween(*t.TimerStartedAt, now)
	}
	t.InProgress = false
	t.TimerStartedAt = nil
}

// minutesBetween counts whole minutes from start to end, clamped at zero so
// clock skew never produces a negative increment.
func minutesBetween(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}
