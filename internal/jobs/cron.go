// Package jobs wraps cron-based background work: the daily report and the
// periodic snapshot reload that stands in for a push change channel.
package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Runner owns the cron instance behind the background jobs.
type Runner struct {
	cron *cron.Cron
}

func NewRunner(loc *time.Location) *Runner {
	return &Runner{cron: cron.New(cron.WithLocation(loc), cron.WithSeconds())}
}

// ScheduleDaily registers a job that fires once a day at the given HH:MM
// wall clock time.
func (r *Runner) ScheduleDaily(clock string, job func()) (cron.EntryID, error) {
	spec, err := dailySpec(clock)
	if err != nil {
		return 0, err
	}
	return r.cron.AddFunc(spec, job)
}

// ScheduleInterval registers a job that fires every interval. cron ticks at
// second granularity, so anything shorter is rejected rather than silently
// rounded up.
func (r *Runner) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval < time.Second {
		return 0, fmt.Errorf("interval %s is shorter than a second", interval)
	}
	return r.cron.Schedule(cron.Every(interval), cron.FuncJob(job)), nil
}

func (r *Runner) Start() {
	r.cron.Start()
}

// Stop halts scheduling and waits for any running job to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
}

// dailySpec converts an HH:MM clock into a six-field cron spec.
func dailySpec(clock string) (string, error) {
	at, err := time.Parse("15:04", clock)
	if err != nil {
		return "", fmt.Errorf("parse daily clock %q: %w", clock, err)
	}
	return fmt.Sprintf("0 %d %d * * *", at.Minute(), at.Hour()), nil
}
