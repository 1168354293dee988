// Package store holds the authoritative in-memory task collection for one
// user's session. Every mutation validates, writes through the persistence
// adapter, and only then commits to the snapshot, so a failed call leaves
// the previous state intact. External changes are absorbed by reloading the
// whole snapshot rather than merging.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/model"
	"taskflow/internal/timer"
)

// Options bound task validation.
type Options struct {
	MinEstimateMinutes int
	MaxEstimateMinutes int
}

// DefaultOptions matches the estimate bounds the task form enforces.
func DefaultOptions() Options {
	return Options{MinEstimateMinutes: 5, MaxEstimateMinutes: 480}
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	Category         *string `json:"category"`
	EstimatedMinutes *int    `json:"estimatedMinutes"`
	TimeSpent        *int    `json:"timeSpent"`
}

// Store is the in-memory task collection, mirrored to an Adapter.
// Access is guarded for concurrent HTTP handlers; cross-process writes
// remain last-write-wins at the persistence layer.
type Store struct {
	mu      sync.RWMutex
	adapter Adapter
	userID  string
	opts    Options
	tasks   map[string]model.Task
}

func New(adapter Adapter, userID string, opts Options) *Store {
	if opts.MinEstimateMinutes <= 0 {
		opts.MinEstimateMinutes = DefaultOptions().MinEstimateMinutes
	}
	if opts.MaxEstimateMinutes <= 0 {
		opts.MaxEstimateMinutes = DefaultOptions().MaxEstimateMinutes
	}
	return &Store{
		adapter: adapter,
		userID:  userID,
		opts:    opts,
		tasks:   make(map[string]model.Task),
	}
}

// Load replaces the snapshot with the adapter's current contents. It is
// both the initial load and the external-change notification hook: on any
// remote change the whole collection is re-fetched and swapped in.
func (s *Store) Load(ctx context.Context) error {
	tasks, err := s.adapter.LoadAll(ctx, s.userID)
	if err != nil {
		return &PersistenceError{Op: "load", Err: err}
	}
	snapshot := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		snapshot[t.ID] = t
	}
	s.mu.Lock()
	s.tasks = snapshot
	s.mu.Unlock()
	return nil
}

// Reload is Load under its change-notification name.
func (s *Store) Reload(ctx context.Context) error { return s.Load(ctx) }

// Add creates a task with a fresh id. Title must be non-blank and the
// estimate must fall within the configured bounds.
func (s *Store) Add(ctx context.Context, title string, estimatedMinutes int, category, description string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if err := s.checkEstimate(estimatedMinutes); err != nil {
		return model.Task{}, err
	}

	now := time.Now()
	task := model.Task{
		ID:               uuid.NewString(),
		UserID:           s.userID,
		Title:            title,
		Description:      description,
		Category:         category,
		EstimatedMinutes: estimatedMinutes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.adapter.Insert(ctx, &task); err != nil {
		return model.Task{}, &PersistenceError{Op: "insert", Err: err}
	}

	s.mu.Lock()
	s.tasks[task.ID] = task
	s.mu.Unlock()
	return task, nil
}

// Update merges the patch into the task. The whole patch applies or none
// of it does.
func (s *Store) Update(ctx context.Context, id string, p Patch) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return model.Task{}, &NotFoundError{ID: id}
	}

	fields := make(map[string]any)
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return model.Task{}, &ValidationError{Field: "title", Reason: "must not be empty"}
		}
		task.Title = title
		fields[FieldTitle] = title
	}
	if p.Description != nil {
		task.Description = *p.Description
		fields[FieldDescription] = *p.Description
	}
	if p.Category != nil {
		task.Category = *p.Category
		fields[FieldCategory] = *p.Category
	}
	if p.EstimatedMinutes != nil {
		if err := s.checkEstimate(*p.EstimatedMinutes); err != nil {
			return model.Task{}, err
		}
		task.EstimatedMinutes = *p.EstimatedMinutes
		fields[FieldEstimatedMinutes] = *p.EstimatedMinutes
	}
	if p.TimeSpent != nil {
		if *p.TimeSpent < 0 {
			return model.Task{}, &ValidationError{Field: "timeSpent", Reason: "must not be negative"}
		}
		task.TimeSpent = *p.TimeSpent
		fields[FieldTimeSpent] = *p.TimeSpent
	}
	if len(fields) == 0 {
		return task, nil
	}

	if err := s.adapter.Update(ctx, s.userID, id, fields); err != nil {
		return model.Task{}, &PersistenceError{Op: "update", Err: err}
	}
	task.UpdatedAt = time.Now()
	s.tasks[id] = task
	return task, nil
}

// Remove deletes the task. Removing an absent id is a silent no-op, so the
// call is idempotent under concurrent deletion.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return nil
	}
	if err := s.adapter.Delete(ctx, s.userID, id); err != nil {
		return &PersistenceError{Op: "delete", Err: err}
	}
	delete(s.tasks, id)
	return nil
}

// Complete toggles completion. Completing a task with a running timer stops
// the timer first, folding the elapsed interval into TimeSpent. Reverting
// clears CompletedAt but keeps accumulated time.
func (s *Store) Complete(ctx context.Context, id string, now time.Time) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return model.Task{}, &NotFoundError{ID: id}
	}

	fields := make(map[string]any)
	if !task.Completed {
		if task.InProgress {
			timer.Stop(&task, now)
			fields[FieldInProgress] = false
			fields[FieldTimerStartedAt] = (*time.Time)(nil)
			fields[FieldTimeSpent] = task.TimeSpent
		}
		completedAt := now
		task.Completed = true
		task.CompletedAt = &completedAt
		fields[FieldCompleted] = true
		fields[FieldCompletedAt] = &completedAt
	} else {
		task.Completed = false
		task.CompletedAt = nil
		fields[FieldCompleted] = false
		fields[FieldCompletedAt] = (*time.Time)(nil)
	}

	if err := s.adapter.Update(ctx, s.userID, id, fields); err != nil {
		return model.Task{}, &PersistenceError{Op: "complete", Err: err}
	}
	task.UpdatedAt = time.Now()
	s.tasks[id] = task
	return task, nil
}

// StartTimer begins tracking time on the task. At most one task runs a
// timer at a time: any other running task is stopped first and its elapsed
// interval folded in. Starting an already-running task is a no-op.
func (s *Store) StartTimer(ctx context.Context, id string, now time.Time) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return model.Task{}, &NotFoundError{ID: id}
	}
	if task.InProgress {
		return task, nil
	}

	for otherID, other := range s.tasks {
		if otherID == id || !other.InProgress {
			continue
		}
		timer.Stop(&other, now)
		fields := map[string]any{
			FieldInProgress:     false,
			FieldTimerStartedAt: (*time.Time)(nil),
			FieldTimeSpent:      other.TimeSpent,
		}
		if err := s.adapter.Update(ctx, s.userID, otherID, fields); err != nil {
			return model.Task{}, &PersistenceError{Op: "stop timer", Err: err}
		}
		other.UpdatedAt = time.Now()
		s.tasks[otherID] = other
	}

	timer.Start(&task, now)
	fields := map[string]any{
		FieldInProgress:     true,
		FieldTimerStartedAt: task.TimerStartedAt,
	}
	if err := s.adapter.Update(ctx, s.userID, id, fields); err != nil {
		return model.Task{}, &PersistenceError{Op: "start timer", Err: err}
	}
	task.UpdatedAt = time.Now()
	s.tasks[id] = task
	return task, nil
}

// StopTimer stops the task's timer and folds elapsed minutes into
// TimeSpent. Stopping a task that is not running is a silent no-op.
func (s *Store) StopTimer(ctx context.Context, id string, now time.Time) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return model.Task{}, &NotFoundError{ID: id}
	}
	if !task.InProgress {
		return task, nil
	}

	timer.Stop(&task, now)
	fields := map[string]any{
		FieldInProgress:     false,
		FieldTimerStartedAt: (*time.Time)(nil),
		FieldTimeSpent:      task.TimeSpent,
	}
	if err := s.adapter.Update(ctx, s.userID, id, fields); err != nil {
		return model.Task{}, &PersistenceError{Op: "stop timer", Err: err}
	}
	task.UpdatedAt = time.Now()
	s.tasks[id] = task
	return task, nil
}

// SetSchedule assigns or clears the task's time window. Range validation
// belongs to the scheduler; this is the storage primitive it drives.
func (s *Store) SetSchedule(ctx context.Context, id string, start, end *time.Time) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return model.Task{}, &NotFoundError{ID: id}
	}

	task.ScheduledStart = start
	task.ScheduledEnd = end
	fields := map[string]any{
		FieldScheduledStart: start,
		FieldScheduledEnd:   end,
	}
	if err := s.adapter.Update(ctx, s.userID, id, fields); err != nil {
		return model.Task{}, &PersistenceError{Op: "schedule", Err: err}
	}
	task.UpdatedAt = time.Now()
	s.tasks[id] = task
	return task, nil
}

// Get returns a single task by id.
func (s *Store) Get(id string) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return model.Task{}, &NotFoundError{ID: id}
	}
	return task, nil
}

// All returns the snapshot ordered by creation time, newest first.
func (s *Store) All() []model.Task {
	tasks := s.collect(func(model.Task) bool { return true })
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks
}

// ByDate returns tasks belonging to the given calendar date (YYYY-MM-DD).
func (s *Store) ByDate(date string) []model.Task {
	return s.collect(func(t model.Task) bool { return t.EffectiveDate() == date })
}

// Unscheduled returns tasks without a full time window.
func (s *Store) Unscheduled() []model.Task {
	return s.collect(func(t model.Task) bool { return !t.Scheduled() })
}

// Scheduled returns tasks with a full time window.
func (s *Store) Scheduled() []model.Task {
	return s.collect(func(t model.Task) bool { return t.Scheduled() })
}

// Completed returns tasks marked done.
func (s *Store) Completed() []model.Task {
	return s.collect(func(t model.Task) bool { return t.Completed })
}

// ByCategory returns tasks in the given category.
func (s *Store) ByCategory(category string) []model.Task {
	return s.collect(func(t model.Task) bool { return t.Category == category })
}

// Upcoming returns open tasks on or after the given date, ordered by
// (date, start clock) ascending. Unscheduled tasks carry an empty clock
// string, which sorts before any HH:MM, so they lead their date group.
// limit <= 0 means no limit.
func (s *Store) Upcoming(afterDate string, limit int) []model.Task {
	tasks := s.collect(func(t model.Task) bool {
		return !t.Completed && t.EffectiveDate() >= afterDate
	})
	sort.Slice(tasks, func(i, j int) bool {
		di, dj := tasks[i].EffectiveDate(), tasks[j].EffectiveDate()
		if di != dj {
			return di < dj
		}
		return tasks[i].StartClock() < tasks[j].StartClock()
	})
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks
}

func (s *Store) collect(keep func(model.Task) bool) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var tasks []model.Task
	for _, t := range s.tasks {
		if keep(t) {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

func (s *Store) checkEstimate(minutes int) error {
	if minutes < s.opts.MinEstimateMinutes || minutes > s.opts.MaxEstimateMinutes {
		return &ValidationError{
			Field:  "estimatedMinutes",
			Reason: fmt.Sprintf("must be between %d and %d", s.opts.MinEstimateMinutes, s.opts.MaxEstimateMinutes),
		}
	}
	return nil
}
