package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/model"
	"taskflow/internal/stats"
)

func taskOn(day time.Time, completed bool) model.Task {
	return model.Task{Title: "t", CreatedAt: day, Completed: completed}
}

func TestCompletionRate(t *testing.T) {
	day := time.Date(2030, 5, 12, 10, 0, 0, 0, time.Local)
	cases := []struct {
		name  string
		tasks []model.Task
		want  int
	}{
		{"empty set", nil, 0},
		{"three of five", []model.Task{
			taskOn(day, true), taskOn(day, true), taskOn(day, true),
			taskOn(day, false), taskOn(day, false),
		}, 60},
		{"all completed", []model.Task{taskOn(day, true)}, 100},
		{"rounds to nearest", []model.Task{
			taskOn(day, true), taskOn(day, false), taskOn(day, false),
		}, 33},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := stats.CompletionRate(tc.tasks)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestTimeProgress(t *testing.T) {
	assert.Equal(t, 0, stats.TimeProgress(30, 0))
	assert.Equal(t, 50, stats.TimeProgress(30, 60))
	// Raw overshoot is preserved, not clamped.
	assert.Equal(t, 150, stats.TimeProgress(90, 60))
}

func TestTimeAccuracy(t *testing.T) {
	cases := []struct {
		name      string
		estimated int
		actual    int
		want      int
	}{
		{"nothing logged is perfect", 60, 0, 100},
		{"exact", 60, 60, 100},
		{"finished faster than estimated", 60, 25, 240},
		{"took longer than estimated", 30, 60, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stats.TimeAccuracy(tc.estimated, tc.actual))
		})
	}
}

func TestClassifyAccuracy(t *testing.T) {
	assert.Equal(t, "140% over estimate", stats.ClassifyAccuracy(240))
	assert.Equal(t, "15% under estimate", stats.ClassifyAccuracy(85))
	assert.Equal(t, "on track", stats.ClassifyAccuracy(95))
	assert.Equal(t, "on track", stats.ClassifyAccuracy(100))
	assert.Equal(t, "on track", stats.ClassifyAccuracy(90))
}

func TestProductivityScore(t *testing.T) {
	// Accuracy above 100 is capped before blending.
	assert.Equal(t, 76, stats.ProductivityScore(60, 240))
	assert.Equal(t, 0, stats.ProductivityScore(0, 0))
	assert.Equal(t, 100, stats.ProductivityScore(100, 100))
}

func TestPeriodBucketsDaily(t *testing.T) {
	ref := time.Date(2030, 5, 12, 15, 0, 0, 0, time.Local)
	var tasks []model.Task
	// Five tasks today, three completed.
	for i := 0; i < 3; i++ {
		tasks = append(tasks, taskOn(ref, true))
	}
	for i := 0; i < 2; i++ {
		tasks = append(tasks, taskOn(ref, false))
	}
	// One task well outside the window.
	tasks = append(tasks, taskOn(ref.AddDate(0, 0, -10), true))

	buckets := stats.PeriodBuckets(tasks, stats.Daily, ref)
	require.Len(t, buckets, 7)

	today := buckets[6]
	assert.Equal(t, 3, today.Completed)
	assert.Equal(t, 2, today.Pending)
	assert.Equal(t, 5, today.Total)
	assert.Equal(t, 60, today.Rate)

	for _, b := range buckets[:6] {
		assert.Zero(t, b.Total)
		assert.Zero(t, b.Rate)
	}
}

func TestPeriodBucketsWeekly(t *testing.T) {
	// 2030-05-12 is a Sunday, so it anchors its own week.
	ref := time.Date(2030, 5, 12, 12, 0, 0, 0, time.Local)
	tasks := []model.Task{
		taskOn(ref.AddDate(0, 0, 3), true),   // this week
		taskOn(ref.AddDate(0, 0, -7), false), // previous week
		taskOn(ref.AddDate(0, 0, -28), true), // before the 4-week window
	}

	buckets := stats.PeriodBuckets(tasks, stats.Weekly, ref)
	require.Len(t, buckets, 4)
	assert.Equal(t, 1, buckets[3].Total)
	assert.Equal(t, 1, buckets[3].Completed)
	assert.Equal(t, 1, buckets[2].Total)
	assert.Equal(t, 0, buckets[2].Completed)
	assert.Zero(t, buckets[0].Total)
	assert.Zero(t, buckets[1].Total)
}

func TestPeriodBucketsMonthly(t *testing.T) {
	ref := time.Date(2030, 5, 12, 12, 0, 0, 0, time.Local)
	tasks := []model.Task{
		taskOn(time.Date(2030, 5, 1, 9, 0, 0, 0, time.Local), true),
		taskOn(time.Date(2030, 3, 20, 9, 0, 0, 0, time.Local), false),
		taskOn(time.Date(2029, 10, 1, 9, 0, 0, 0, time.Local), true), // outside
	}

	buckets := stats.PeriodBuckets(tasks, stats.Monthly, ref)
	require.Len(t, buckets, 6)
	assert.Equal(t, "May", buckets[5].Label)
	assert.Equal(t, 1, buckets[5].Completed)
	assert.Equal(t, 1, buckets[3].Total) // March
	total := 0
	for _, b := range buckets {
		total += b.Total
	}
	assert.Equal(t, 2, total)
}

func TestBucketsMatchScheduledDate(t *testing.T) {
	ref := time.Date(2030, 5, 12, 12, 0, 0, 0, time.Local)
	start := time.Date(2030, 5, 11, 9, 0, 0, 0, time.Local)
	end := start.Add(time.Hour)
	task := model.Task{
		Title:          "scheduled yesterday",
		CreatedAt:      ref.AddDate(0, -2, 0),
		ScheduledStart: &start,
		ScheduledEnd:   &end,
	}

	buckets := stats.PeriodBuckets([]model.Task{task}, stats.Daily, ref)
	require.Len(t, buckets, 7)
	assert.Equal(t, 1, buckets[5].Total) // yesterday's bucket
	assert.Zero(t, buckets[6].Total)
}
