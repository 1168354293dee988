package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/model"
	"taskflow/internal/store"
)

// memAdapter keeps inserted tasks and records update calls. Setting fail
// makes every write return an error.
type memAdapter struct {
	tasks   map[string]model.Task
	updates []map[string]any
	fail    bool
}

func newMemAdapter() *memAdapter {
	return &memAdapter{tasks: make(map[string]model.Task)}
}

var errBoom = errors.New("boom")

func (m *memAdapter) LoadAll(_ context.Context, userID string) ([]model.Task, error) {
	if m.fail {
		return nil, errBoom
	}
	var tasks []model.Task
	for _, t := range m.tasks {
		if t.UserID == userID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (m *memAdapter) Insert(_ context.Context, task *model.Task) error {
	if m.fail {
		return errBoom
	}
	m.tasks[task.ID] = *task
	return nil
}

func (m *memAdapter) Update(_ context.Context, _, id string, fields map[string]any) error {
	if m.fail {
		return errBoom
	}
	m.updates = append(m.updates, fields)
	return nil
}

func (m *memAdapter) Delete(_ context.Context, _, id string) error {
	if m.fail {
		return errBoom
	}
	delete(m.tasks, id)
	return nil
}

func newStore(t *testing.T) (*store.Store, *memAdapter) {
	t.Helper()
	adapter := newMemAdapter()
	return store.New(adapter, "local", store.DefaultOptions()), adapter
}

func TestAddValidation(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		title    string
		estimate int
	}{
		{"empty title", "", 30},
		{"blank title", "   ", 30},
		{"estimate too small", "Write report", 1},
		{"estimate too large", "Write report", 481},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Add(ctx, tc.title, tc.estimate, "", "")
			var vErr *store.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Empty(t, s.All())
		})
	}
}

func TestAddDefaults(t *testing.T) {
	s, adapter := newStore(t)

	task, err := s.Add(context.Background(), "  Write report  ", 60, "work", "quarterly numbers")
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Write report", task.Title)
	assert.False(t, task.Completed)
	assert.Equal(t, 0, task.TimeSpent)
	assert.False(t, task.Scheduled())
	assert.Contains(t, adapter.tasks, task.ID)
}

func TestUpdateMergesFields(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	task, err := s.Add(ctx, "Write report", 60, "work", "")
	require.NoError(t, err)

	title := "Write Q3 report"
	estimate := 90
	updated, err := s.Update(ctx, task.ID, store.Patch{Title: &title, EstimatedMinutes: &estimate})
	require.NoError(t, err)
	assert.Equal(t, "Write Q3 report", updated.Title)
	assert.Equal(t, 90, updated.EstimatedMinutes)
	assert.Equal(t, "work", updated.Category)
}

func TestUpdateUnknownID(t *testing.T) {
	s, _ := newStore(t)
	title := "x"
	_, err := s.Update(context.Background(), "nope", store.Patch{Title: &title})
	var nfErr *store.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestUpdateFailureKeepsState(t *testing.T) {
	s, adapter := newStore(t)
	ctx := context.Background()
	task, err := s.Add(ctx, "Write report", 60, "", "")
	require.NoError(t, err)

	adapter.fail = true
	title := "changed"
	_, err = s.Update(ctx, task.ID, store.Patch{Title: &title})
	var pErr *store.PersistenceError
	require.ErrorAs(t, err, &pErr)

	kept, err := s.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", kept.Title)
}

func TestRemoveIdempotent(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	task, err := s.Add(ctx, "Write report", 60, "", "")
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, task.ID))
	require.NoError(t, s.Remove(ctx, task.ID))
	assert.Empty(t, s.All())
}

func TestCompleteRoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	task, err := s.Add(ctx, "Write report", 60, "", "")
	require.NoError(t, err)

	now := time.Now()
	done, err := s.Complete(ctx, task.ID, now)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(now))

	undone, err := s.Complete(ctx, task.ID, now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, undone.Completed)
	assert.Nil(t, undone.CompletedAt)
}

func TestCompleteStopsRunningTimer(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	task, err := s.Add(ctx, "Write report", 60, "", "")
	require.NoError(t, err)

	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)
	_, err = s.StartTimer(ctx, task.ID, start)
	require.NoError(t, err)

	done, err := s.Complete(ctx, task.ID, start.Add(25*time.Minute))
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.False(t, done.InProgress)
	assert.Equal(t, 25, done.TimeSpent)

	// Reverting completion keeps the accumulated time.
	undone, err := s.Complete(ctx, task.ID, start.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 25, undone.TimeSpent)
}

func TestStartTimerStopsOtherTask(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	a, err := s.Add(ctx, "Task A", 30, "", "")
	require.NoError(t, err)
	b, err := s.Add(ctx, "Task B", 30, "", "")
	require.NoError(t, err)

	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)
	_, err = s.StartTimer(ctx, a.ID, start)
	require.NoError(t, err)

	_, err = s.StartTimer(ctx, b.ID, start.Add(10*time.Minute))
	require.NoError(t, err)

	gotA, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.False(t, gotA.InProgress)
	assert.Equal(t, 10, gotA.TimeSpent)

	running := 0
	for _, task := range s.All() {
		if task.InProgress {
			running++
		}
	}
	assert.Equal(t, 1, running)
}

func TestStopTimerNoOpWhenIdle(t *testing.T) {
	s, adapter := newStore(t)
	ctx := context.Background()
	task, err := s.Add(ctx, "Write report", 60, "", "")
	require.NoError(t, err)

	before := len(adapter.updates)
	got, err := s.StopTimer(ctx, task.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, got.InProgress)
	assert.Len(t, adapter.updates, before)
}

func TestStartStopSameInstant(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	task, err := s.Add(ctx, "Write report", 60, "", "")
	require.NoError(t, err)

	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)
	_, err = s.StartTimer(ctx, task.ID, now)
	require.NoError(t, err)
	got, err := s.StopTimer(ctx, task.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TimeSpent)
}

func TestQueries(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	a, err := s.Add(ctx, "Scheduled", 60, "", "")
	require.NoError(t, err)
	start := time.Date(2030, 5, 12, 9, 0, 0, 0, time.Local)
	end := start.Add(time.Hour)
	_, err = s.SetSchedule(ctx, a.ID, &start, &end)
	require.NoError(t, err)

	_, err = s.Add(ctx, "Open", 30, "", "")
	require.NoError(t, err)
	done, err := s.Add(ctx, "Done", 30, "", "")
	require.NoError(t, err)
	_, err = s.Complete(ctx, done.ID, time.Now())
	require.NoError(t, err)

	assert.Len(t, s.Scheduled(), 1)
	assert.Len(t, s.Unscheduled(), 2)
	assert.Len(t, s.Completed(), 1)
	assert.Len(t, s.ByDate("2030-05-12"), 1)
}

func TestUpcomingOrdering(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	early, err := s.Add(ctx, "Early", 30, "", "")
	require.NoError(t, err)
	late, err := s.Add(ctx, "Late", 30, "", "")
	require.NoError(t, err)
	unscheduled, err := s.Add(ctx, "Unscheduled", 30, "", "")
	require.NoError(t, err)

	day := time.Now().AddDate(0, 0, 1)
	nine := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, day.Location())
	ten := nine.Add(time.Hour)
	fourteen := nine.Add(5 * time.Hour)
	fifteen := fourteen.Add(time.Hour)
	_, err = s.SetSchedule(ctx, early.ID, &nine, &ten)
	require.NoError(t, err)
	_, err = s.SetSchedule(ctx, late.ID, &fourteen, &fifteen)
	require.NoError(t, err)

	today := time.Now().Format(model.DateLayout)
	got := s.Upcoming(today, 10)
	require.Len(t, got, 3)
	// Unscheduled tasks belong to their creation date, which sorts before
	// tomorrow's scheduled windows; scheduled tasks order by start clock.
	assert.Equal(t, unscheduled.ID, got[0].ID)
	assert.Equal(t, early.ID, got[1].ID)
	assert.Equal(t, late.ID, got[2].ID)

	limited := s.Upcoming(today, 2)
	assert.Len(t, limited, 2)
}

func TestReloadReplacesSnapshot(t *testing.T) {
	s, adapter := newStore(t)
	ctx := context.Background()
	task, err := s.Add(ctx, "Write report", 60, "", "")
	require.NoError(t, err)

	// A remote change lands in the adapter behind the store's back.
	remote := adapter.tasks[task.ID]
	remote.Title = "Renamed remotely"
	adapter.tasks[task.ID] = remote

	require.NoError(t, s.Reload(ctx))
	got, err := s.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed remotely", got.Title)
}
