// Package stats computes read-only aggregates over a task snapshot. Every
// function is pure: given the same tasks and reference instant it returns
// the same result, and nothing here mutates a task.
package stats

import (
	"fmt"
	"math"
	"time"

	"taskflow/internal/model"
)

// CompletionRate is the percentage of tasks marked completed, 0 for an
// empty set.
func CompletionRate(tasks []model.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return roundPct(completed, len(tasks))
}

// TimeProgress is spent over scheduled as a percentage, 0 when nothing is
// scheduled. The raw value may exceed 100; clamping for progress bars is a
// display concern, the overshoot itself feeds the over/under insight.
func TimeProgress(spentMinutes, scheduledMinutes int) int {
	if scheduledMinutes <= 0 {
		return 0
	}
	return roundPct(spentMinutes, scheduledMinutes)
}

// TimeAccuracy is estimated over actual as a percentage. With nothing
// logged yet it reports a perfect 100. Note the direction: finishing
// faster than estimated pushes the value above 100.
func TimeAccuracy(estimatedMinutes, actualMinutes int) int {
	if actualMinutes <= 0 {
		return 100
	}
	return roundPct(estimatedMinutes, actualMinutes)
}

// ClassifyAccuracy renders the accuracy value as the insight label shown
// next to it.
func ClassifyAccuracy(accuracy int) string {
	switch {
	case accuracy > 100:
		return fmt.Sprintf("%d%% over estimate", accuracy-100)
	case accuracy < 90:
		return fmt.Sprintf("%d%% under estimate", 100-accuracy)
	default:
		return "on track"
	}
}

// ProductivityScore blends completion rate (60%) and capped time accuracy
// (40%).
func ProductivityScore(completionRate, timeAccuracy int) int {
	capped := timeAccuracy
	if capped > 100 {
		capped = 100
	}
	return int(math.Round(float64(completionRate)*0.6 + float64(capped)*0.4))
}

// Period selects the bucketing granularity for trend charts.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// Bucket is one bar of the trend chart.
type Bucket struct {
	Label     string `json:"label"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
	Total     int    `json:"total"`
	Rate      int    `json:"rate"`
}

// PeriodBuckets splits tasks into trend buckets ending at the reference
// date: the last 7 days, the last 4 weeks (Sunday-anchored), or the last
// 6 months.
func PeriodBuckets(tasks []model.Task, period Period, ref time.Time) []Bucket {
	day := midnight(ref)
	var buckets []Bucket
	switch period {
	case Weekly:
		weekStart := day.AddDate(0, 0, -int(day.Weekday()))
		for i := 0; i < 4; i++ {
			start := weekStart.AddDate(0, 0, -(3-i)*7)
			end := start.AddDate(0, 0, 7)
			label := "Week " + start.Format("Jan 2")
			buckets = append(buckets, bucketFor(tasks, start, end, label))
		}
	case Monthly:
		monthStart := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		for i := 0; i < 6; i++ {
			start := monthStart.AddDate(0, -(5 - i), 0)
			end := start.AddDate(0, 1, 0)
			buckets = append(buckets, bucketFor(tasks, start, end, start.Format("Jan")))
		}
	default:
		for i := 0; i < 7; i++ {
			start := day.AddDate(0, 0, -6+i)
			end := start.AddDate(0, 0, 1)
			buckets = append(buckets, bucketFor(tasks, start, end, start.Format("Mon")))
		}
	}
	return buckets
}

func bucketFor(tasks []model.Task, start, end time.Time, label string) Bucket {
	b := Bucket{Label: label}
	for _, t := range tasks {
		taskDay, err := time.ParseInLocation(model.DateLayout, t.EffectiveDate(), start.Location())
		if err != nil {
			continue
		}
		if taskDay.Before(start) || !taskDay.Before(end) {
			continue
		}
		b.Total++
		if t.Completed {
			b.Completed++
		}
	}
	b.Pending = b.Total - b.Completed
	if b.Total > 0 {
		b.Rate = roundPct(b.Completed, b.Total)
	}
	return b
}

func roundPct(part, whole int) int {
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
