package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/studywatch/internal/records"
)

func weekAggregate(sessions []records.Session) Aggregates {
	b := Bucket(sessions, ResolveWindow(testNow, RangeWeek, ""), time.UTC)
	return Aggregate(b, DefaultDisplayCeilingMinutes)
}

func TestAggregate_WeekBucketSumInvariant(t *testing.T) {
	agg := weekAggregate([]records.Session{
		session(jan(12, 9), 30, "Math"),
		session(jan(14, 9), 45, "Math"),
		session(jan(16, 9), 20, "Physics"),
	})

	assert.Equal(t, 95.0, agg.TotalMinutes)

	var sum float64
	var nonZero int
	for _, bar := range agg.Weekday {
		sum += bar.Minutes
		if bar.Minutes > 0 {
			nonZero++
		}
	}
	assert.Equal(t, 95.0, sum)
	assert.Equal(t, 3, nonZero)
	assert.Equal(t, 30.0, agg.Weekday[0].Minutes)
	assert.Equal(t, 45.0, agg.Weekday[2].Minutes)
	assert.Equal(t, 20.0, agg.Weekday[4].Minutes)
	assert.Equal(t, "Mon", agg.Weekday[0].Label)
}

func TestAggregate_Scenario(t *testing.T) {
	agg := weekAggregate([]records.Session{
		session(jan(12, 9), 30, "Math"),
		session(jan(13, 9), 45, "Math"),
		session(jan(14, 9), 60, "Physics"),
	})

	assert.Equal(t, 135.0, agg.TotalMinutes)
	assert.Equal(t, 3, agg.SessionCount)
	assert.Equal(t, map[string]float64{"Math": 75, "Physics": 60}, agg.SubjectMinutes)
	assert.InDelta(t, 45.0, agg.AverageSessionLength, 1e-9)
	require.NotNil(t, agg.LongestSession)
	assert.Equal(t, "Physics", agg.LongestSession.Subject)
	assert.Equal(t, 1350.0, agg.TotalXP)

	assert.Equal(t, 75.0, agg.Weekday[0].BySubject["Math"]+agg.Weekday[1].BySubject["Math"])
	assert.Equal(t, 60.0, agg.MaxBucketMinutes)
	assert.Equal(t, DefaultDisplayCeilingMinutes, agg.AxisCeilingMinutes)
}

func TestAggregate_ZeroMinuteSession(t *testing.T) {
	agg := weekAggregate([]records.Session{session(jan(13, 9), 0, "Math")})

	assert.Equal(t, 0.0, agg.AverageSessionLength)
	require.NotNil(t, agg.LongestSession)
	assert.Equal(t, "Math", agg.LongestSession.Subject)
	assert.Equal(t, 1.0, agg.MaxBucketMinutes, "axis floor avoids division by zero")
}

func TestAggregate_LongestTieFirstOccurrence(t *testing.T) {
	agg := weekAggregate([]records.Session{
		session(jan(12, 9), 50, "First"),
		session(jan(13, 9), 50, "Second"),
	})
	require.NotNil(t, agg.LongestSession)
	assert.Equal(t, "First", agg.LongestSession.Subject)
}

func TestAggregate_Empty(t *testing.T) {
	agg := weekAggregate(nil)
	assert.Equal(t, 0.0, agg.TotalMinutes)
	assert.Equal(t, 0, agg.SessionCount)
	assert.Nil(t, agg.LongestSession)
	assert.Len(t, agg.Weekday, 7)
	assert.Len(t, agg.Hourly, 24)
	assert.Empty(t, agg.SubjectMinutes)
}

func TestAggregate_InvalidDurationContributesZero(t *testing.T) {
	agg := weekAggregate([]records.Session{
		session(jan(12, 9), -30, "Math"),
		session(jan(12, 10), 20, "Math"),
	})
	assert.Equal(t, 20.0, agg.TotalMinutes)
	assert.Equal(t, 2, agg.SessionCount)
}

func TestAggregate_LargeBucketRaisesCeiling(t *testing.T) {
	agg := weekAggregate([]records.Session{session(jan(12, 1), 1000, "Math")})
	assert.Equal(t, 1000.0, agg.AxisCeilingMinutes)
}

func TestLeaderboard(t *testing.T) {
	board := Leaderboard([]records.Session{
		session(jan(12, 9), 30, "Math"),
		session(jan(13, 9), 90, "Physics"),
		session(jan(14, 9), 30, "Math"),
		session(jan(14, 10), 60, "Biology"),
	}, []records.Subject{{Name: "Physics", Color: "#00f"}})

	require.Len(t, board, 3)
	assert.Equal(t, "Physics", board[0].Subject)
	assert.Equal(t, "#00f", board[0].Color)
	assert.InDelta(t, 42.857, board[0].Share, 0.001)
	// Biology and Math tie at 60 minutes; name breaks the tie.
	assert.Equal(t, "Biology", board[1].Subject)
	assert.Equal(t, "Math", board[2].Subject)
	assert.Equal(t, 2, board[2].Sessions)
}

func TestMonthlyBars(t *testing.T) {
	bars := MonthlyBars([]records.Session{
		session(jan(12, 9), 30, "Math"),
		session(time.Date(2025, 12, 3, 9, 0, 0, 0, time.UTC), 45, "Math"),
		session(time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC), 99, "Math"),
	}, testNow, 6)

	require.Len(t, bars, 6)
	assert.Equal(t, "2025-08", bars[0].Label)
	assert.Equal(t, "2026-01", bars[5].Label)
	assert.Equal(t, 30.0, bars[5].Minutes)
	assert.Equal(t, 45.0, bars[4].Minutes)
}

func TestBuildHeatmap_SundayFirstRows(t *testing.T) {
	h := BuildHeatmap([]records.Session{
		session(jan(18, 21), 40, "Math"), // Sunday
		session(jan(12, 7), 25, "Math"),  // Monday
	}, time.UTC)

	assert.Equal(t, 40.0, h[0][21])
	assert.Equal(t, 25.0, h[1][7])
	assert.Equal(t, 40.0, h.Max())
}
