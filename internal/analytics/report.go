// Package analytics derives study statistics from a raw session, task, and
// subject history. Build recomputes everything from scratch on every call and
// never mutates its inputs, so concurrent calls are safe.
package analytics

import (
	"math"
	"time"

	"github.com/blackwell-systems/studywatch/internal/records"
	"github.com/blackwell-systems/studywatch/internal/suggest"
)

const monthlyBarCount = 6

// Input is everything one report is computed from.
type Input struct {
	Sessions      []records.Session
	Tasks         []records.Task
	Subjects      []records.Subject
	Range         TimeRange
	SelectedMonth string
	Premium       bool

	// Now anchors all relative windows; zero means time.Now(). Its location
	// decides what a local calendar day is.
	Now time.Time

	// DisplayCeilingMinutes overrides DefaultDisplayCeilingMinutes when > 0.
	DisplayCeilingMinutes float64
}

// Overview holds the headline numbers for the selected window.
type Overview struct {
	TotalStudyTime          float64            `json:"total_study_time"`
	TotalSessions           int                `json:"total_sessions"`
	AverageSessionLength    float64            `json:"average_session_length"`
	LongestSession          *records.Session   `json:"longest_session"`
	TotalXP                 float64            `json:"total_xp"`
	ConsistencyScore        float64            `json:"consistency_score"`
	StudyDays               int                `json:"study_days"`
	SubjectTimeDistribution map[string]float64 `json:"subject_time_distribution"`
}

// Bars groups the chart series of a report.
type Bars struct {
	Weekday            []Bar   `json:"weekday"`
	Hourly             []Bar   `json:"hourly"`
	Daily              []Bar   `json:"daily"`
	Monthly            []Bar   `json:"monthly"`
	MaxBucketMinutes   float64 `json:"max_bucket_minutes"`
	AxisCeilingMinutes float64 `json:"axis_ceiling_minutes"`
}

// Predictions groups the premium predictive scorers.
type Predictions struct {
	OptimalHours []HourScore           `json:"optimal_hours"`
	Performance  PerformancePrediction `json:"performance"`
	Retention    []SubjectRetention    `json:"retention"`
}

// Report is the full derived view. Premium sections are nil, and encode as
// null, when the caller is not premium or there is too little data.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Window      Window    `json:"window"`
	Premium     bool      `json:"premium"`

	Overview    Overview             `json:"overview"`
	Bars        Bars                 `json:"bars"`
	Leaderboard []SubjectStanding    `json:"leaderboard"`
	Heatmap     Heatmap              `json:"heatmap"`
	Streaks     StreakData           `json:"streaks"`
	Velocity    VelocityAnalysis     `json:"velocity"`
	Tasks       TaskStats            `json:"tasks"`
	Goals       []GoalProgress       `json:"goals"`
	Suggestions []suggest.Suggestion `json:"suggestions"`

	Predictions     *Predictions         `json:"predictions"`
	Focus           *FocusAnalysis       `json:"focus"`
	Patterns        *PatternAnalysis     `json:"patterns"`
	Recommendations []suggest.Suggestion `json:"recommendations"`
}

// Build runs the whole pipeline. It never fails: sections without enough
// data come back zeroed, empty, or nil.
func Build(in Input) *Report {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	loc := now.Location()
	ceiling := in.DisplayCeilingMinutes
	if ceiling <= 0 || math.IsNaN(ceiling) || math.IsInf(ceiling, 0) {
		ceiling = DefaultDisplayCeilingMinutes
	}

	sessions := make([]records.Session, len(in.Sessions))
	for i, s := range in.Sessions {
		sessions[i] = s.Sanitized()
	}
	in.Sessions = sessions

	window := ResolveWindow(now, in.Range, in.SelectedMonth)
	buckets := Bucket(in.Sessions, window, loc)
	agg := Aggregate(buckets, ceiling)
	rangeDays := len(StudyDates(buckets.Sessions, loc))
	consistency := RangeConsistency(buckets, loc)
	streaks := Streaks(in.Sessions, now)
	tasks := AnalyzeTasks(in.Tasks, window, now)

	r := &Report{
		GeneratedAt: now,
		Window:      window,
		Premium:     in.Premium,
		Overview: Overview{
			TotalStudyTime:          agg.TotalMinutes,
			TotalSessions:           agg.SessionCount,
			AverageSessionLength:    agg.AverageSessionLength,
			LongestSession:          agg.LongestSession,
			TotalXP:                 agg.TotalXP,
			ConsistencyScore:        consistency,
			StudyDays:               rangeDays,
			SubjectTimeDistribution: agg.SubjectMinutes,
		},
		Bars: Bars{
			Weekday:            agg.Weekday,
			Hourly:             agg.Hourly,
			Daily:              agg.Daily,
			Monthly:            MonthlyBars(in.Sessions, now, monthlyBarCount),
			MaxBucketMinutes:   agg.MaxBucketMinutes,
			AxisCeilingMinutes: agg.AxisCeilingMinutes,
		},
		Leaderboard: Leaderboard(buckets.Sessions, in.Subjects),
		Heatmap:     BuildHeatmap(in.Sessions, loc),
		Streaks:     streaks,
		Velocity:    AnalyzeVelocity(in.Sessions, loc),
		Tasks:       tasks,
		Goals:       WeeklyGoalProgress(in.Sessions, in.Subjects, now),
	}

	r.Suggestions = suggest.NewBasicEngine().Run(&suggest.Context{
		Consistency:           consistency,
		AverageSessionMinutes: agg.AverageSessionLength,
		SessionCount:          agg.SessionCount,
		CurrentStreak:         streaks.Current,
		TaskCount:             tasks.Total,
		TaskCompletionRate:    tasks.CompletionRate,
		PeakHour:              -1,
	})

	if !in.Premium {
		return r
	}

	r.Focus = AnalyzeFocus(buckets.Sessions, consistency)

	if len(in.Sessions) < MinSessionsForInsights {
		return r
	}

	r.Predictions = &Predictions{
		OptimalHours: OptimalHours(in.Sessions, loc),
		Performance:  PredictPerformance(in.Sessions, now, streaks.Current),
		Retention:    EstimateRetention(in.Sessions),
	}

	patterns := DetectPatterns(in.Sessions, loc)
	r.Patterns = &patterns
	r.Recommendations = suggest.NewInsightEngine().Run(&suggest.Context{
		Consistency:           consistency,
		AverageSessionMinutes: agg.AverageSessionLength,
		SessionCount:          agg.SessionCount,
		CurrentStreak:         streaks.Current,
		TaskCount:             tasks.Total,
		TaskCompletionRate:    tasks.CompletionRate,
		SubjectCount:          patterns.SubjectCount,
		SubjectBalance:        patterns.SubjectBalance,
		PeakHour:              patterns.PeakHour(),
		SessionLengthTrend:    patterns.SessionLengthTrend,
	})

	return r
}
