package analytics

// Scoring weights, caps and thresholds for the heuristic scorers. They were
// tuned by inspection; change them here rather than inside the algorithms.

// Minimum data requirements.
const (
	MinSessionsForInsights = 3
	MinWeeksForTrend       = 2
	MinSessionsForFocus    = 1
)

// Velocity weights and trend thresholds.
const (
	velocityTimeWeight    = 0.4
	velocityXPWeight      = 0.4
	velocitySessionWeight = 0.2
	velocityTrendWindow   = 6

	accelerationThreshold = 5.0
	improvementThreshold  = 0.0
	stabilityThreshold    = -5.0
)

// Optimal hour scoring.
const (
	hourDurationWeight    = 0.4
	hourXPWeight          = 0.3
	hourConsistencyWeight = 30.0
	hourMoodWeight        = 20.0
	optimalHourCount      = 3
)

// Performance prediction.
const (
	predictionBaseline        = 50.0
	predictionLengthPoints    = 15.0
	predictionLengthCapMin    = 60.0
	predictionXPPoints        = 10.0
	predictionXPCap           = 600.0
	predictionConsistencyPts  = 15.0
	predictionWindowDays      = 14
	predictionStreakPoints    = 5.0
	predictionStreakCapDays   = 30.0
	predictionDiversityPoints = 5.0
	predictionDiversityCap    = 5.0

	highConfidenceSessions      = 10
	highConfidenceConsistency   = 70.0
	mediumConfidenceSessions    = 5
	mediumConfidenceConsistency = 50.0
)

// Retention estimation.
const (
	retentionOutlierGapDays    = 30.0
	retentionSingleSession     = 40.0
	retentionSpacingWeight     = 0.6
	retentionFrequencyWeight   = 0.4
	retentionFrequencySessions = 10.0
)

// Focus scoring.
const (
	focusDurationPoints     = 30.0
	focusDurationCapMin     = 120.0
	focusEfficiencyPoints   = 20.0
	focusEfficiencyPerXPMin = 2.0
	focusDifficultyPerStep  = 7.5
	focusDifficultyPoints   = 15.0
	focusHighConsistency    = 70.0
	focusHighBonus          = 10.0
	focusMidConsistency     = 50.0
	focusMidBonus           = 5.0
	focusExamPoints         = 10.0
	focusNoExamPoints       = 5.0
	focusTrendThreshold     = 0.10

	focusExcellent = 80.0
	focusGood      = 60.0
	focusFair      = 40.0
)

var moodFocusPoints = map[string]float64{
	"great":     15,
	"good":      12,
	"okay":      8,
	"struggled": 5,
}

const moodNeutralPoints = 10.0

// Pattern detection.
const (
	sessionTrendSample    = 3
	sessionTrendThreshold = 0.15
	peakHourCount         = 3
)

// DefaultDisplayCeilingMinutes is the minimum axis ceiling for bar scaling
// (16 hours).
const DefaultDisplayCeilingMinutes = 16 * 60.0
