package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/studywatch/internal/records"
)

func TestAnalyzeVelocity_Accelerating(t *testing.T) {
	v := AnalyzeVelocity([]records.Session{
		session(jan(5, 9), 30, "Math"),
		session(jan(6, 9), 30, "Math"),
		session(jan(12, 9), 45, "Math"),
		session(jan(13, 9), 45, "Math"),
	}, time.UTC)

	require.Len(t, v.Weeks, 2)
	assert.Equal(t, "2026-01-05", v.Weeks[0].WeekStart)
	require.Len(t, v.Points, 1)
	assert.InDelta(t, 50.0, v.Points[0].TimeDelta, 1e-9)
	assert.InDelta(t, 50.0, v.Points[0].XPDelta, 1e-9)
	assert.InDelta(t, 0.0, v.Points[0].SessionDelta, 1e-9)
	assert.InDelta(t, 40.0, v.AverageVelocity, 1e-9)
	assert.Equal(t, TrendAccelerating, v.Trend)
}

func TestAnalyzeVelocity_Declining(t *testing.T) {
	v := AnalyzeVelocity([]records.Session{
		session(jan(5, 9), 50, "Math"),
		session(jan(6, 9), 50, "Math"),
		session(jan(12, 9), 50, "Math"),
	}, time.UTC)

	assert.InDelta(t, -50.0, v.AverageVelocity, 1e-9)
	assert.Equal(t, TrendDeclining, v.Trend)
}

func TestAnalyzeVelocity_InsufficientData(t *testing.T) {
	tests := []struct {
		name     string
		sessions []records.Session
	}{
		{"empty", nil},
		{"two sessions", []records.Session{
			session(jan(5, 9), 30, "Math"),
			session(jan(12, 9), 30, "Math"),
		}},
		{"untimestamped sessions do not count", []records.Session{
			session(jan(5, 9), 30, "Math"),
			session(jan(12, 9), 30, "Math"),
			{DurationMinutes: 45, Subject: "Math"},
			{DurationMinutes: 20, Subject: "Physics"},
		}},
		{"single week", []records.Session{
			session(jan(12, 9), 30, "Math"),
			session(jan(13, 9), 30, "Math"),
			session(jan(14, 9), 30, "Math"),
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := AnalyzeVelocity(tc.sessions, time.UTC)
			assert.Equal(t, TrendInsufficientData, v.Trend)
			assert.NotNil(t, v.Points)
			assert.Empty(t, v.Points)
		})
	}
}

func TestAnalyzeVelocity_SkipsEmptyWeeks(t *testing.T) {
	// Weeks without sessions are not buckets, so a gap compares the two
	// surrounding active weeks.
	v := AnalyzeVelocity([]records.Session{
		session(time.Date(2025, 12, 15, 9, 0, 0, 0, time.UTC), 60, "Math"),
		session(jan(12, 9), 60, "Math"),
		session(jan(13, 9), 60, "Math"),
	}, time.UTC)
	require.Len(t, v.Weeks, 2)
	assert.Equal(t, "2025-12-15", v.Weeks[0].WeekStart)
}

func TestClassifyVelocity(t *testing.T) {
	tests := []struct {
		v    float64
		want Trend
	}{
		{10, TrendAccelerating},
		{5, TrendImproving},
		{0.1, TrendImproving},
		{0, TrendStable},
		{-4.9, TrendStable},
		{-5, TrendDeclining},
		{-80, TrendDeclining},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ClassifyVelocity(tc.v), "velocity %v", tc.v)
	}
}

func TestPercentChange_ZeroPrior(t *testing.T) {
	assert.Equal(t, 0.0, percentChange(0, 50))
	assert.InDelta(t, -25.0, percentChange(80, 60), 1e-9)
}
