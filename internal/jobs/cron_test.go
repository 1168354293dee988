package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailySpec(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"18:00", "0 0 18 * * *"},
		{"09:30", "0 30 9 * * *"},
		{"00:00", "0 0 0 * * *"},
		{"23:59", "0 59 23 * * *"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := dailySpec(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDailySpecRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "18", "24:00", "12:60", "aa:bb", "1:2:3"} {
		t.Run(in, func(t *testing.T) {
			_, err := dailySpec(in)
			assert.Error(t, err)
		})
	}
}

func TestScheduleIntervalRejectsSubSecond(t *testing.T) {
	r := NewRunner(time.UTC)
	_, err := r.ScheduleInterval(0, func() {})
	assert.Error(t, err)
	_, err = r.ScheduleInterval(500*time.Millisecond, func() {})
	assert.Error(t, err)
	_, err = r.ScheduleInterval(time.Minute, func() {})
	assert.NoError(t, err)
}
