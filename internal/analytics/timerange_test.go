package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/studywatch/internal/records"
)

func TestParseTimeRange(t *testing.T) {
	for _, s := range []string{"week", "month", "all"} {
		got, err := ParseTimeRange(s)
		require.NoError(t, err)
		assert.Equal(t, TimeRange(s), got)
	}
	got, err := ParseTimeRange("")
	require.NoError(t, err)
	assert.Equal(t, RangeWeek, got)

	_, err = ParseTimeRange("year")
	assert.Error(t, err)
}

func TestToMondayIndex(t *testing.T) {
	tests := []struct {
		day  time.Weekday
		want MondayIndex
	}{
		{time.Sunday, 6},
		{time.Monday, 0},
		{time.Tuesday, 1},
		{time.Saturday, 5},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ToMondayIndex(SundayIndex(tc.day)), tc.day.String())
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"wednesday", jan(14, 12), jan(12, 0)},
		{"monday midnight", jan(12, 0), jan(12, 0)},
		{"sunday night", time.Date(2026, 1, 18, 23, 59, 0, 0, time.UTC), jan(12, 0)},
		{"across month", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.want.Equal(WeekStart(tc.in)), "got %s", WeekStart(tc.in))
		})
	}
}

func TestResolveWindow(t *testing.T) {
	week := ResolveWindow(testNow, RangeWeek, "")
	assert.Equal(t, jan(12, 0), week.Start)
	assert.Equal(t, jan(19, 0), week.End)
	assert.Equal(t, 7, week.TotalDays(3))

	month := ResolveWindow(testNow, RangeMonth, "")
	assert.Equal(t, "2026-01", month.Month)
	assert.Equal(t, jan(1, 0), month.Start)
	assert.Equal(t, at(time.February, 1, 0), month.End)
	assert.Equal(t, 30, month.TotalDays(3))

	selected := ResolveWindow(testNow, RangeMonth, "2025-11")
	assert.Equal(t, "2025-11", selected.Month)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), selected.End)

	invalid := ResolveWindow(testNow, RangeMonth, "November")
	assert.Equal(t, "2026-01", invalid.Month, "invalid month falls back to current")

	all := ResolveWindow(testNow, RangeAll, "2025-11")
	assert.False(t, all.Bounded())
	assert.Equal(t, 4, all.TotalDays(4))
}

func TestWindowContains(t *testing.T) {
	week := ResolveWindow(testNow, RangeWeek, "")
	assert.True(t, week.Contains(jan(12, 0)))
	assert.True(t, week.Contains(jan(18, 23)))
	assert.False(t, week.Contains(jan(19, 0)))
	assert.False(t, week.Contains(jan(11, 23)))
	assert.False(t, week.Contains(time.Time{}))

	all := ResolveWindow(testNow, RangeAll, "")
	assert.True(t, all.Contains(time.Time{}))
}

func TestBucket_DenseGroups(t *testing.T) {
	sessions := []records.Session{
		session(jan(12, 9), 30, "Math"),
		session(jan(14, 20), 45, "Physics"),
		session(jan(5, 9), 60, "Math"), // previous week
		{DurationMinutes: 15, Subject: "Math"},
	}

	b := Bucket(sessions, ResolveWindow(testNow, RangeWeek, ""), time.UTC)
	require.Len(t, b.Sessions, 2)
	assert.Equal(t, []int{0}, b.ByWeekday[0])
	assert.Equal(t, []int{1}, b.ByWeekday[2])
	assert.Empty(t, b.ByWeekday[6])
	assert.Equal(t, []int{0}, b.ByHour[9])
	assert.Equal(t, []int{1}, b.ByHour[20])
	assert.NotNil(t, b.ByDayOfMonth)
	assert.Empty(t, b.ByDayOfMonth)

	all := Bucket(sessions, ResolveWindow(testNow, RangeAll, ""), time.UTC)
	assert.Len(t, all.Sessions, 4, "untimestamped sessions still count for all")
	var grouped int
	for _, g := range all.ByWeekday {
		grouped += len(g)
	}
	assert.Equal(t, 3, grouped, "untimestamped sessions are not grouped")
}

func TestBucket_DayOfMonth(t *testing.T) {
	feb := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	sessions := []records.Session{
		session(at(time.February, 1, 8), 20, "Math"),
		session(at(time.February, 28, 8), 40, "Math"),
	}
	b := Bucket(sessions, ResolveWindow(feb, RangeMonth, ""), time.UTC)
	require.Len(t, b.ByDayOfMonth, 28)
	assert.Equal(t, []int{0}, b.ByDayOfMonth[0])
	assert.Equal(t, []int{1}, b.ByDayOfMonth[27])
}
