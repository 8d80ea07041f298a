package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/studywatch/internal/records"
)

func TestSpacingScore(t *testing.T) {
	tests := []struct {
		gap  float64
		want float64
	}{
		{0, 60},
		{0.5, 60},
		{1, 100},
		{3, 100},
		{3.5, 75},
		{7, 75},
		{7.5, 50},
		{14, 50},
		{20, 30},
		{-1, 30},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SpacingScore(tc.gap), "gap %v", tc.gap)
	}
}

func TestEstimateRetention(t *testing.T) {
	result := EstimateRetention([]records.Session{
		session(jan(1, 9), 30, "Math"),
		session(jan(3, 9), 30, "Math"),
		session(jan(5, 9), 30, "Math"),
		session(jan(2, 9), 30, "Biology"),
		session(jan(1, 9), 30, "Chemistry"),
		session(at(2, 10, 9), 30, "Chemistry"),
	})

	require.Len(t, result, 3)

	assert.Equal(t, "Math", result[0].Subject)
	assert.InDelta(t, 2.0, result[0].AverageGapDays, 1e-9)
	assert.Equal(t, 100.0, result[0].SpacingScore)
	assert.InDelta(t, 72.0, result[0].Retention, 1e-9)

	assert.Equal(t, "Biology", result[1].Subject)
	assert.Equal(t, retentionSingleSession, result[1].SpacingScore)
	assert.InDelta(t, 28.0, result[1].Retention, 1e-9)

	// The only gap is an outlier.
	assert.Equal(t, "Chemistry", result[2].Subject)
	assert.Equal(t, retentionOutlierGapDays, result[2].AverageGapDays)
	assert.InDelta(t, 26.0, result[2].Retention, 1e-9)
}

func TestEstimateRetention_FrequencyCaps(t *testing.T) {
	var sessions []records.Session
	for day := 1; day <= 24; day += 2 {
		sessions = append(sessions, session(jan(day, 9), 30, "Math"))
	}
	result := EstimateRetention(sessions)
	require.Len(t, result, 1)
	assert.Equal(t, 100.0, result[0].FrequencyScore)
	assert.InDelta(t, 100.0, result[0].Retention, 1e-9)
}

func TestEstimateRetention_Empty(t *testing.T) {
	assert.Empty(t, EstimateRetention(nil))
}
