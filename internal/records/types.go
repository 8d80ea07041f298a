// Package records provides the study record types consumed by the analytics
// engine and the parsers that load them from JSON documents.
package records

import (
	"math"
	"time"
)

// Mood is the self-reported mood attached to a study session.
type Mood string

const (
	MoodGreat     Mood = "great"
	MoodGood      Mood = "good"
	MoodOkay      Mood = "okay"
	MoodStruggled Mood = "struggled"
)

// Valid reports whether m is one of the known moods. The empty mood is
// treated as absent, not invalid.
func (m Mood) Valid() bool {
	switch m {
	case MoodGreat, MoodGood, MoodOkay, MoodStruggled, "":
		return true
	}
	return false
}

// Positive reports whether the mood counts as a good session.
func (m Mood) Positive() bool {
	return m == MoodGreat || m == MoodGood
}

// XPPerMinute is the XP earned per study minute when a session carries no
// explicit XP value.
const XPPerMinute = 10.0

// Session is one logged study event. Sessions are immutable once stored.
type Session struct {
	ID              string    `json:"id,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	DurationMinutes float64   `json:"duration_minutes"`
	Subject         string    `json:"subject"`
	Mood            Mood      `json:"mood,omitempty"`
	XPEarned        *float64  `json:"xp_earned,omitempty"`
	Difficulty      *float64  `json:"difficulty,omitempty"`
	MockExamScore   *float64  `json:"mock_exam_score,omitempty"`
	Reflection      string    `json:"reflection,omitempty"`
	Task            string    `json:"task,omitempty"`
}

// MaxValue bounds every per-session number so that sums over any realistic
// history stay finite.
const MaxValue = 1e12

// finite reports whether v is a usable number.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Minutes returns the session duration, with negative or non-finite values
// treated as zero.
func (s Session) Minutes() float64 {
	d := s.DurationMinutes
	if !finite(d) || d < 0 {
		return 0
	}
	return min(d, MaxValue)
}

// XP returns the recorded XP, or Minutes()*XPPerMinute when none was recorded
// or the recorded value is negative or not finite.
func (s Session) XP() float64 {
	if s.XPEarned != nil && finite(*s.XPEarned) && *s.XPEarned >= 0 {
		return min(*s.XPEarned, MaxValue)
	}
	return s.Minutes() * XPPerMinute
}

// DifficultyOrDefault returns the recorded difficulty or 1.0.
func (s Session) DifficultyOrDefault() float64 {
	if s.Difficulty == nil || !finite(*s.Difficulty) {
		return 1.0
	}
	return min(*s.Difficulty, MaxValue)
}

// ExamScore returns the mock exam score clamped to [0, 100]. ok is false when
// the session has no score or the score is not a finite number.
func (s Session) ExamScore() (score float64, ok bool) {
	if s.MockExamScore == nil || !finite(*s.MockExamScore) {
		return 0, false
	}
	return min(max(*s.MockExamScore, 0), 100), true
}

// Sanitized returns a copy of s whose numbers are all finite and bounded.
// Unusable optional values are dropped, so they read as absent.
func (s Session) Sanitized() Session {
	s.DurationMinutes = s.Minutes()
	if s.XPEarned != nil {
		if v := *s.XPEarned; finite(v) && v >= 0 {
			s.XPEarned = Float(min(v, MaxValue))
		} else {
			s.XPEarned = nil
		}
	}
	if s.Difficulty != nil {
		if finite(*s.Difficulty) {
			s.Difficulty = Float(min(*s.Difficulty, MaxValue))
		} else {
			s.Difficulty = nil
		}
	}
	if exam, ok := s.ExamScore(); ok {
		s.MockExamScore = Float(exam)
	} else {
		s.MockExamScore = nil
	}
	return s
}

// HasTimestamp reports whether the session can take part in date grouping.
func (s Session) HasTimestamp() bool {
	return !s.Timestamp.IsZero()
}

// Task is a to-do item tracked alongside study sessions.
type Task struct {
	ID            string     `json:"id,omitempty"`
	Name          string     `json:"name"`
	Subject       string     `json:"subject,omitempty"`
	Done          bool       `json:"done"`
	DoneAt        *time.Time `json:"done_at,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
}

// Subject is a studied subject with its weekly goal.
type Subject struct {
	Name      string  `json:"name"`
	Color     string  `json:"color,omitempty"`
	GoalHours float64 `json:"goal_hours"`
}

// Goal returns the weekly goal in hours, zero when unset, negative or not
// finite.
func (s Subject) Goal() float64 {
	if !finite(s.GoalHours) || s.GoalHours < 0 {
		return 0
	}
	return min(s.GoalHours, MaxValue)
}

// Set is the full record set for one user.
type Set struct {
	Sessions []Session `json:"sessions"`
	Tasks    []Task    `json:"tasks"`
	Subjects []Subject `json:"subjects"`
}

// Float returns a pointer to v, for populating optional fields.
func Float(v float64) *float64 {
	return &v
}
