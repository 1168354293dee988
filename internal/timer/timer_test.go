package timer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskflow/internal/model"
	"taskflow/internal/timer"
)

func TestElapsedNotRunning(t *testing.T) {
	task := model.Task{TimeSpent: 42}
	assert.Equal(t, 42, timer.Elapsed(task, time.Now()))
}

func TestElapsedRunning(t *testing.T) {
	started := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	task := model.Task{TimeSpent: 10, InProgress: true, TimerStartedAt: &started}

	cases := []struct {
		name string
		now  time.Time
		want int
	}{
		{"same instant", started, 10},
		{"under a minute", started.Add(59 * time.Second), 10},
		{"partial minutes floor", started.Add(25*time.Minute + 30*time.Second), 35},
		{"clock went backwards", started.Add(-5 * time.Minute), 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, timer.Elapsed(task, tc.now))
		})
	}
}

func TestStartStopImmediately(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	var task model.Task

	timer.Start(&task, now)
	assert.True(t, task.InProgress)
	assert.NotNil(t, task.TimerStartedAt)

	timer.Stop(&task, now)
	assert.False(t, task.InProgress)
	assert.Nil(t, task.TimerStartedAt)
	assert.Equal(t, 0, task.TimeSpent)
}

func TestStopAccumulates(t *testing.T) {
	started := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	task := model.Task{TimeSpent: 5, InProgress: true, TimerStartedAt: &started}

	timer.Stop(&task, started.Add(25*time.Minute))
	assert.Equal(t, 30, task.TimeSpent)
	assert.False(t, task.InProgress)
}

func TestStopIdempotent(t *testing.T) {
	task := model.Task{TimeSpent: 15}
	timer.Stop(&task, time.Now())
	assert.Equal(t, 15, task.TimeSpent)
	assert.False(t, task.InProgress)
}

func TestStopClampsNegative(t *testing.T) {
	started := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	task := model.Task{InProgress: true, TimerStartedAt: &started}

	timer.Stop(&task, started.Add(-time.Hour))
	assert.Equal(t, 0, task.TimeSpent)
}
