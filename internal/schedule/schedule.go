// Package schedule places tasks into concrete time windows and answers
// occupancy queries over them. Placement never rejects double-booking
// unless overlap rejection is switched on: the grid tolerates stacked
// tasks and the policy is explicit rather than implied.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/store"
)

// ConflictError reports a placement that would overlap another scheduled
// task while overlap rejection is enabled.
type ConflictError struct {
	TaskID  string
	OtherID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("task %s overlaps scheduled task %s", e.TaskID, e.OtherID)
}

// Options controls placement policy.
type Options struct {
	// RejectOverlap refuses windows that intersect another task's window.
	// Off by default: the grid tolerates double-booking, matching the
	// drag-and-drop behavior.
	RejectOverlap bool
}

// Scheduler assigns time windows to tasks through the store.
type Scheduler struct {
	store *store.Store
	opts  Options

	// mu serializes the conflict scan against the write, so two concurrent
	// placements cannot both pass the scan and double-book a window.
	mu sync.Mutex
}

func New(st *store.Store, opts Options) *Scheduler {
	return &Scheduler{store: st, opts: opts}
}

// Schedule assigns the [start, end) window to the task, overwriting any
// prior window. The range must be non-empty; on failure the task's
// schedule fields are untouched.
func (s *Scheduler) Schedule(ctx context.Context, id string, start, end time.Time) (model.Task, error) {
	if !end.After(start) {
		return model.Task{}, &store.ValidationError{Field: "schedule", Reason: "end must be after start"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.store.Get(id); err != nil {
		return model.Task{}, err
	}
	if s.opts.RejectOverlap {
		for _, other := range s.store.Scheduled() {
			if other.ID == id {
				continue
			}
			if start.Before(*other.ScheduledEnd) && other.ScheduledStart.Before(end) {
				return model.Task{}, &ConflictError{TaskID: id, OtherID: other.ID}
			}
		}
	}
	return s.store.SetSchedule(ctx, id, &start, &end)
}

// Unschedule clears the task's window. Unscheduling an unscheduled task is
// a no-op, so a schedule/unschedule round trip is indistinguishable from
// never having scheduled at all.
func (s *Scheduler) Unschedule(ctx context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SetSchedule(ctx, id, nil, nil)
}

// ScheduleByDuration places the task at start and derives the end from its
// estimate at minute precision.
func (s *Scheduler) ScheduleByDuration(ctx context.Context, id string, start time.Time) (model.Task, error) {
	task, err := s.store.Get(id)
	if err != nil {
		return model.Task{}, err
	}
	if task.EstimatedMinutes <= 0 {
		return model.Task{}, &store.ValidationError{Field: "estimatedMinutes", Reason: "required to derive an end time"}
	}
	end := start.Add(time.Duration(task.EstimatedMinutes) * time.Minute)
	return s.Schedule(ctx, id, start, end)
}

// ScheduleAtHour places the task into an hour slot on the given day, the
// way a drop onto the hour grid does: start on the hour, end after
// max(1, ceil(estimate/60)) whole hours.
func (s *Scheduler) ScheduleAtHour(ctx context.Context, id string, day time.Time, hour int) (model.Task, error) {
	if hour < 0 || hour > 23 {
		return model.Task{}, &store.ValidationError{Field: "hour", Reason: "must be between 0 and 23"}
	}
	task, err := s.store.Get(id)
	if err != nil {
		return model.Task{}, err
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
	hours := (task.EstimatedMinutes + 59) / 60
	if hours < 1 {
		hours = 1
	}
	end := start.Add(time.Duration(hours) * time.Hour)
	return s.Schedule(ctx, id, start, end)
}

// OccupancyByHour buckets the day's scheduled tasks by the hours their
// windows intersect. A multi-hour task appears in every hour it covers.
func (s *Scheduler) OccupancyByHour(day time.Time) map[int][]model.Task {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	occupancy := make(map[int][]model.Task)
	for _, task := range s.store.Scheduled() {
		for hour := 0; hour < 24; hour++ {
			slotStart := midnight.Add(time.Duration(hour) * time.Hour)
			slotEnd := slotStart.Add(time.Hour)
			if task.ScheduledStart.Before(slotEnd) && task.ScheduledEnd.After(slotStart) {
				occupancy[hour] = append(occupancy[hour], task)
			}
		}
	}
	return occupancy
}

// RestrictToWorkHours drops occupancy buckets outside the [startClock,
// endClock) work window. A slot survives when any part of it falls inside
// the window, so "08:30" still keeps the 8 o'clock slot.
func RestrictToWorkHours(occupancy map[int][]model.Task, startClock, endClock string) (map[int][]model.Task, error) {
	startMin, err := clockMinutes(startClock)
	if err != nil {
		return nil, &store.ValidationError{Field: "workHoursStart", Reason: "must be HH:MM"}
	}
	endMin, err := clockMinutes(endClock)
	if err != nil {
		return nil, &store.ValidationError{Field: "workHoursEnd", Reason: "must be HH:MM"}
	}
	kept := make(map[int][]model.Task)
	for hour, tasks := range occupancy {
		if (hour+1)*60 > startMin && hour*60 < endMin {
			kept[hour] = tasks
		}
	}
	return kept, nil
}

func clockMinutes(clock string) (int, error) {
	at, err := time.Parse(model.ClockLayout, clock)
	if err != nil {
		return 0, err
	}
	return at.Hour()*60 + at.Minute(), nil
}
