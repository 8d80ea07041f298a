package suggest

import "fmt"

// Thresholds for the insight rules.
const (
	balanceThreshold        = 50.0
	insightSessionMinutes   = 30.0
	insightConsistency      = 60.0
	morningHourCutoff       = 8
	basicConsistency        = 50.0
	basicSessionMinutes     = 25.0
	taskCompletionThreshold = 70.0
	streakTarget            = 3
)

// UnbalancedSubjects fires when study time is concentrated in a few of
// several subjects.
func UnbalancedSubjects(ctx *Context) []Suggestion {
	if ctx.SubjectCount <= 1 || ctx.SubjectBalance >= balanceThreshold {
		return nil
	}
	return []Suggestion{{
		Category: "balance",
		Priority: PriorityMedium,
		Title:    "Balance your subjects",
		Description: fmt.Sprintf(
			"Your subject balance score is %.0f/100. Spread time more evenly across your %d subjects.",
			ctx.SubjectBalance, ctx.SubjectCount,
		),
	}}
}

// ShortSessions fires when the average session is under half an hour.
func ShortSessions(ctx *Context) []Suggestion {
	if ctx.AverageSessionMinutes >= insightSessionMinutes {
		return nil
	}
	return []Suggestion{{
		Category: "duration",
		Priority: PriorityMedium,
		Title:    "Try longer sessions",
		Description: fmt.Sprintf(
			"Your sessions average %.0f minutes. Aim for at least %.0f minutes to reach deep focus.",
			ctx.AverageSessionMinutes, insightSessionMinutes,
		),
	}}
}

// LowConsistency fires when fewer than 60% of days in the window had study.
func LowConsistency(ctx *Context) []Suggestion {
	if ctx.Consistency >= insightConsistency {
		return nil
	}
	return []Suggestion{{
		Category: "consistency",
		Priority: PriorityHigh,
		Title:    "Study more regularly",
		Description: fmt.Sprintf(
			"You studied on %.0f%% of days. Short daily sessions beat occasional marathons.",
			ctx.Consistency,
		),
	}}
}

// MorningStudier fires when the peak study hour is before 8am.
func MorningStudier(ctx *Context) []Suggestion {
	if ctx.PeakHour < 0 || ctx.PeakHour >= morningHourCutoff {
		return nil
	}
	return []Suggestion{{
		Category: "timing",
		Priority: PriorityLow,
		Title:    "You're a morning studier",
		Description: fmt.Sprintf(
			"Your peak hour is %02d:00. Schedule your hardest subjects early in the day.",
			ctx.PeakHour,
		),
	}}
}

// ShrinkingSessions fires when recent sessions are getting shorter.
func ShrinkingSessions(ctx *Context) []Suggestion {
	if ctx.SessionLengthTrend != "decreasing" {
		return nil
	}
	return []Suggestion{{
		Category:    "duration",
		Priority:    PriorityMedium,
		Title:       "Sessions are getting shorter",
		Description: "Your recent sessions are shorter than before. Check for fatigue and plan proper breaks.",
	}}
}

// BasicConsistency fires when fewer than half the days in the window had
// study.
func BasicConsistency(ctx *Context) []Suggestion {
	if ctx.Consistency >= basicConsistency {
		return nil
	}
	return []Suggestion{{
		Category:    "consistency",
		Priority:    PriorityHigh,
		Title:       "Build a routine",
		Description: "Try to study a little every day to build consistency.",
	}}
}

// BasicSessionLength fires when sessions average under 25 minutes.
func BasicSessionLength(ctx *Context) []Suggestion {
	if ctx.AverageSessionMinutes >= basicSessionMinutes {
		return nil
	}
	return []Suggestion{{
		Category:    "duration",
		Priority:    PriorityMedium,
		Title:       "Lengthen your sessions",
		Description: "Try a full 25-minute focus block per session.",
	}}
}

// TaskCompletion fires when less than 70% of tasks are done. It needs at
// least one task.
func TaskCompletion(ctx *Context) []Suggestion {
	if ctx.TaskCount == 0 || ctx.TaskCompletionRate >= taskCompletionThreshold {
		return nil
	}
	return []Suggestion{{
		Category: "tasks",
		Priority: PriorityMedium,
		Title:    "Finish more tasks",
		Description: fmt.Sprintf(
			"You've completed %.0f%% of your tasks. Break big tasks into smaller steps.",
			ctx.TaskCompletionRate,
		),
	}}
}

// BuildStreak fires while the current streak is under three days.
func BuildStreak(ctx *Context) []Suggestion {
	if ctx.CurrentStreak >= streakTarget {
		return nil
	}
	return []Suggestion{{
		Category:    "streak",
		Priority:    PriorityLow,
		Title:       "Start a streak",
		Description: fmt.Sprintf("Study %d days in a row to build momentum.", streakTarget),
	}}
}
