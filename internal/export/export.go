// Package export flattens a report into the versioned summary handed to
// external consumers.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/blackwell-systems/studywatch/internal/analytics"
)

// SchemaVersion is bumped whenever a Summary field is renamed or removed.
const SchemaVersion = 1

// Summary is the stable export shape. Field names are part of the contract.
type Summary struct {
	SchemaVersion int       `json:"schema_version"`
	GeneratedAt   time.Time `json:"generated_at"`
	Range         string    `json:"range"`
	Month         string    `json:"month,omitempty"`
	WindowStart   string    `json:"window_start,omitempty"`
	WindowEnd     string    `json:"window_end,omitempty"`

	TotalMinutes         float64            `json:"total_minutes"`
	TotalSessions        int                `json:"total_sessions"`
	AverageSessionLength float64            `json:"average_session_length"`
	TotalXP              float64            `json:"total_xp"`
	ConsistencyScore     float64            `json:"consistency_score"`
	StudyDays            int                `json:"study_days"`
	SubjectMinutes       map[string]float64 `json:"subject_minutes"`

	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	LastStudy     string `json:"last_study,omitempty"`
	Trend         string `json:"trend"`

	TasksTotal         int      `json:"tasks_total"`
	TasksCompleted     int      `json:"tasks_completed"`
	TaskCompletionRate float64  `json:"task_completion_rate"`
	TasksOverdue       int      `json:"tasks_overdue"`
	Goals              []Goal   `json:"goals"`
	PredictedExamScore *float64 `json:"predicted_exam_score"`
	AverageFocusScore  *float64 `json:"average_focus_score"`
}

// Goal is one subject's weekly goal progress.
type Goal struct {
	Subject     string  `json:"subject"`
	GoalHours   float64 `json:"goal_hours"`
	ActualHours float64 `json:"actual_hours"`
	Percent     float64 `json:"percent"`
}

// Summarize flattens r. Premium-only figures are nil when r has none.
func Summarize(r *analytics.Report) Summary {
	s := Summary{
		SchemaVersion:        SchemaVersion,
		GeneratedAt:          r.GeneratedAt,
		Range:                string(r.Window.Range),
		Month:                r.Window.Month,
		TotalMinutes:         r.Overview.TotalStudyTime,
		TotalSessions:        r.Overview.TotalSessions,
		AverageSessionLength: r.Overview.AverageSessionLength,
		TotalXP:              r.Overview.TotalXP,
		ConsistencyScore:     r.Overview.ConsistencyScore,
		StudyDays:            r.Overview.StudyDays,
		SubjectMinutes:       r.Overview.SubjectTimeDistribution,
		CurrentStreak:        r.Streaks.Current,
		LongestStreak:        r.Streaks.Longest,
		LastStudy:            r.Streaks.LastStudy,
		Trend:                string(r.Velocity.Trend),
		TasksTotal:           r.Tasks.Total,
		TasksCompleted:       r.Tasks.Completed,
		TaskCompletionRate:   r.Tasks.CompletionRate,
		TasksOverdue:         r.Tasks.Overdue,
		Goals:                make([]Goal, 0, len(r.Goals)),
	}
	if r.Window.Bounded() {
		s.WindowStart = r.Window.Start.Format(time.DateOnly)
		s.WindowEnd = r.Window.End.AddDate(0, 0, -1).Format(time.DateOnly)
	}
	if s.SubjectMinutes == nil {
		s.SubjectMinutes = map[string]float64{}
	}
	for _, g := range r.Goals {
		s.Goals = append(s.Goals, Goal{
			Subject:     g.Subject,
			GoalHours:   g.GoalHours,
			ActualHours: g.ActualHours,
			Percent:     g.Percent,
		})
	}
	if r.Predictions != nil {
		score := r.Predictions.Performance.PredictedScore
		s.PredictedExamScore = &score
	}
	if r.Focus != nil {
		avg := r.Focus.Average
		s.AverageFocusScore = &avg
	}
	return s
}

// Write encodes s as indented JSON.
func Write(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding export summary: %w", err)
	}
	return nil
}
