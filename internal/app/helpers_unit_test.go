package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/studywatch/internal/analytics"
	"github.com/blackwell-systems/studywatch/internal/config"
	"github.com/blackwell-systems/studywatch/internal/records"
	"github.com/blackwell-systems/studywatch/internal/store"
	"github.com/blackwell-systems/studywatch/internal/suggest"
)

func TestParseDurationMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"45", 45, false},
		{"45m", 45, false},
		{"1.5h", 90, false},
		{"90s", 1.5, false},
		{" 30 ", 30, false},
		{"", 0, true},
		{"h", 0, true},
		{"-10", 0, true},
		{"0m", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"ten", 0, true},
	}
	for _, tc := range tests {
		got, err := parseDurationMinutes(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, "input %q", tc.in)
	}
}

func TestResolveOptions(t *testing.T) {
	cfg := &config.Config{DefaultRange: "week"}

	opts, err := resolveOptions(cfg, "", "", false)
	require.NoError(t, err)
	assert.Equal(t, analytics.RangeWeek, opts.Range)
	assert.False(t, opts.Premium)

	opts, err = resolveOptions(cfg, "", "2025-11", false)
	require.NoError(t, err)
	assert.Equal(t, analytics.RangeMonth, opts.Range)
	assert.Equal(t, "2025-11", opts.Month)

	_, err = resolveOptions(cfg, "all", "2025-11", false)
	assert.Error(t, err)

	_, err = resolveOptions(cfg, "", "Nov 2025", false)
	assert.Error(t, err)

	_, err = resolveOptions(cfg, "quarter", "", false)
	assert.Error(t, err)

	cfg.Premium = true
	opts, err = resolveOptions(cfg, "all", "", false)
	require.NoError(t, err)
	assert.Equal(t, analytics.RangeAll, opts.Range)
	assert.True(t, opts.Premium, "config premium applies without the flag")
}

func TestResolveInterval(t *testing.T) {
	d, err := resolveInterval("", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, d)

	d, err = resolveInterval("90s", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	_, err = resolveInterval("10s", 5*time.Minute)
	assert.Error(t, err)

	_, err = resolveInterval("soon", 5*time.Minute)
	assert.Error(t, err)
}

func TestComputeDeltas(t *testing.T) {
	prev := []store.AggregateMetric{
		{MetricName: "total_minutes", MetricValue: 120},
		{MetricName: "current_streak", MetricValue: 4},
		{MetricName: "consistency", MetricValue: 50},
	}
	curr := []store.AggregateMetric{
		{MetricName: "total_minutes", MetricValue: 180},
		{MetricName: "current_streak", MetricValue: 0},
		{MetricName: "consistency", MetricValue: 50},
		{MetricName: "average_velocity", MetricValue: 3.5},
	}

	deltas := computeDeltas(prev, curr)
	require.Len(t, deltas, 4)

	byName := make(map[string]store.MetricDelta)
	for _, d := range deltas {
		byName[d.Name] = d
	}
	assert.Equal(t, "improved", byName["total_minutes"].Direction)
	assert.Equal(t, 60.0, byName["total_minutes"].Delta)
	assert.Equal(t, "regressed", byName["current_streak"].Direction)
	assert.Equal(t, "unchanged", byName["consistency"].Direction)
	assert.Equal(t, "improved", byName["average_velocity"].Direction, "a new metric compares against zero")
}

func TestTrackMetrics(t *testing.T) {
	r := &analytics.Report{
		Overview: analytics.Overview{TotalStudyTime: 300, TotalSessions: 6, ConsistencyScore: 57.1},
		Streaks:  analytics.StreakData{Current: 2, Longest: 5},
		Tasks:    analytics.TaskStats{CompletionRate: 75},
	}
	m := trackMetrics(r)
	assert.Len(t, m, len(metricDisplayOrder))
	for _, name := range metricDisplayOrder {
		assert.Contains(t, m, name)
	}
	assert.Equal(t, 300.0, m["total_minutes"])
	assert.Equal(t, 6.0, m["total_sessions"])
	assert.Equal(t, 5.0, m["longest_streak"])
	assert.Equal(t, 75.0, m["task_completion_rate"])
}

func TestRankSuggestions(t *testing.T) {
	r := &analytics.Report{
		Suggestions: []suggest.Suggestion{
			{Title: "basic low", Priority: suggest.PriorityLow},
			{Title: "basic high", Priority: suggest.PriorityHigh},
		},
		Recommendations: []suggest.Suggestion{
			{Title: "insight medium", Priority: suggest.PriorityMedium},
			{Title: "insight high", Priority: suggest.PriorityHigh},
		},
	}

	got := rankSuggestions(r)
	require.Len(t, got, 4)
	titles := make([]string, len(got))
	for i, s := range got {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"insight high", "basic high", "insight medium", "basic low"}, titles)
}

func TestFilterSessions(t *testing.T) {
	now := testNow
	sessions := []records.Session{
		{ID: "a", Subject: "Math", Timestamp: now.AddDate(0, 0, -2)},
		{ID: "b", Subject: "math", Timestamp: now.AddDate(0, 0, -40)},
		{ID: "c", Subject: "Physics", Timestamp: now.AddDate(0, 0, -1)},
	}

	ids := func(ss []records.Session) []string {
		var out []string
		for _, s := range ss {
			out = append(out, s.ID)
		}
		return out
	}

	assert.Equal(t, []string{"a", "c"}, ids(filterSessions(sessions, "", 30, now)))
	assert.Equal(t, []string{"a", "b"}, ids(filterSessions(sessions, "MATH", 0, now)))
	assert.Equal(t, []string{"a"}, ids(filterSessions(sessions, "Math", 7, now)))
}

func TestSortSessionRows(t *testing.T) {
	rows := []sessionRow{
		{Session: records.Session{ID: "short", DurationMinutes: 20, Timestamp: testNow.Add(-time.Hour)}, Focus: 70},
		{Session: records.Session{ID: "long", DurationMinutes: 90, Timestamp: testNow.Add(-48 * time.Hour)}, Focus: 40},
	}

	require.NoError(t, sortSessionRows(rows, "duration"))
	assert.Equal(t, "long", rows[0].Session.ID)

	require.NoError(t, sortSessionRows(rows, "focus"))
	assert.Equal(t, "short", rows[0].Session.ID)

	require.NoError(t, sortSessionRows(rows, "worst"))
	assert.Equal(t, "long", rows[0].Session.ID)

	require.NoError(t, sortSessionRows(rows, "recent"))
	assert.Equal(t, "short", rows[0].Session.ID)

	assert.Error(t, sortSessionRows(rows, "alphabetical"))
}

func TestGoalsCheck(t *testing.T) {
	c := goalsCheck(nil)
	assert.False(t, c.Passed)

	c = goalsCheck([]records.Subject{{Name: "Math", GoalHours: 3}, {Name: "Art"}})
	assert.True(t, c.Passed)
	assert.Equal(t, "1/2 subjects have a goal", c.Message)
}

func TestTaskStatus(t *testing.T) {
	past := time.Date(2026, 1, 10, 0, 0, 0, 0, time.Local)
	future := time.Date(2026, 1, 20, 0, 0, 0, 0, time.Local)

	assert.Contains(t, taskStatus(records.Task{ScheduledDate: &past}, "2026-01-14"), "overdue")
	assert.Contains(t, taskStatus(records.Task{ScheduledDate: &future}, "2026-01-14"), "open")
	assert.Contains(t, taskStatus(records.Task{Done: true, ScheduledDate: &past}, "2026-01-14"), "done")
}

func TestHeatmapRowLabels(t *testing.T) {
	labels := heatmapRowLabels()
	assert.Equal(t, "Sun", labels[0])
	assert.Equal(t, "Mon", labels[1])
	assert.Equal(t, "Sat", labels[6])
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "3f2a9c1e", truncateID("3f2a9c1e-7b4d-4e21-9a0c-5d6e7f809a1b"))
	assert.Equal(t, "abc", truncateID("abc"))
}
