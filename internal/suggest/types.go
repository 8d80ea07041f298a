// Package suggest provides the recommendation engine and its threshold rules.
package suggest

// Priority levels for suggestions.
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// Suggestion is one natural-language recommendation.
type Suggestion struct {
	Category    string `json:"category"`
	Priority    int    `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Context carries the derived statistics the rules read. It is filled in by
// the report assembler.
type Context struct {
	// Consistency is the window consistency percentage.
	Consistency float64 `json:"consistency"`

	// AverageSessionMinutes is the mean session length in the window.
	AverageSessionMinutes float64 `json:"average_session_minutes"`

	// SessionCount is the number of sessions in the window.
	SessionCount int `json:"session_count"`

	// CurrentStreak is the current run of study days.
	CurrentStreak int `json:"current_streak"`

	// TaskCount and TaskCompletionRate (0-100) describe the task list.
	TaskCount          int     `json:"task_count"`
	TaskCompletionRate float64 `json:"task_completion_rate"`

	// SubjectCount and SubjectBalance (0-100) come from pattern detection.
	SubjectCount   int     `json:"subject_count"`
	SubjectBalance float64 `json:"subject_balance"`

	// PeakHour is the busiest hour of day, or -1 when unknown.
	PeakHour int `json:"peak_hour"`

	// SessionLengthTrend is "increasing", "decreasing", or "stable".
	SessionLengthTrend string `json:"session_length_trend"`
}

// Rule examines the context and produces zero or more suggestions.
type Rule func(ctx *Context) []Suggestion
