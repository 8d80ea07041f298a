package analytics

import (
	"sort"
	"time"

	"github.com/blackwell-systems/studywatch/internal/records"
)

// Trend classifies the direction of weekly study velocity.
type Trend string

const (
	TrendAccelerating     Trend = "accelerating"
	TrendImproving        Trend = "improving"
	TrendStable           Trend = "stable"
	TrendDeclining        Trend = "declining"
	TrendInsufficientData Trend = "insufficient_data"
)

// WeekBucket aggregates one Monday-start week of sessions.
type WeekBucket struct {
	WeekStart string  `json:"week_start"`
	Minutes   float64 `json:"minutes"`
	Sessions  int     `json:"sessions"`
	XP        float64 `json:"xp"`
}

// VelocityPoint compares a week with the previous week that had data.
type VelocityPoint struct {
	WeekStart    string  `json:"week_start"`
	TimeDelta    float64 `json:"time_delta"`
	XPDelta      float64 `json:"xp_delta"`
	SessionDelta float64 `json:"session_delta"`
	Velocity     float64 `json:"velocity"`
}

// VelocityAnalysis is the week-over-week trend over the full history.
type VelocityAnalysis struct {
	Weeks           []WeekBucket    `json:"weeks"`
	Points          []VelocityPoint `json:"points"`
	AverageVelocity float64         `json:"average_velocity"`
	Trend           Trend           `json:"trend"`
}

// WeeklyBuckets groups sessions into Monday-start weeks, oldest first. Weeks
// without sessions are not included.
func WeeklyBuckets(sessions []records.Session, loc *time.Location) []WeekBucket {
	byWeek := make(map[time.Time]*WeekBucket)
	for _, s := range sessions {
		if !s.HasTimestamp() {
			continue
		}
		start := civilDate(WeekStart(s.Timestamp.In(loc)), loc)
		wb, ok := byWeek[start]
		if !ok {
			wb = &WeekBucket{WeekStart: start.Format(time.DateOnly)}
			byWeek[start] = wb
		}
		wb.Minutes += s.Minutes()
		wb.Sessions++
		wb.XP += s.XP()
	}

	weeks := make([]WeekBucket, 0, len(byWeek))
	for _, wb := range byWeek {
		weeks = append(weeks, *wb)
	}
	// ISO dates sort lexically.
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].WeekStart < weeks[j].WeekStart })
	return weeks
}

// AnalyzeVelocity computes weekly velocity points and the headline trend.
// With fewer than MinSessionsForInsights timestamped sessions or
// MinWeeksForTrend weeks the trend is TrendInsufficientData.
func AnalyzeVelocity(sessions []records.Session, loc *time.Location) VelocityAnalysis {
	result := VelocityAnalysis{
		Weeks:  WeeklyBuckets(sessions, loc),
		Points: []VelocityPoint{},
		Trend:  TrendInsufficientData,
	}
	bucketed := 0
	for _, w := range result.Weeks {
		bucketed += w.Sessions
	}
	if bucketed < MinSessionsForInsights || len(result.Weeks) < MinWeeksForTrend {
		return result
	}

	for i := 1; i < len(result.Weeks); i++ {
		prev, curr := result.Weeks[i-1], result.Weeks[i]
		p := VelocityPoint{
			WeekStart:    curr.WeekStart,
			TimeDelta:    percentChange(prev.Minutes, curr.Minutes),
			XPDelta:      percentChange(prev.XP, curr.XP),
			SessionDelta: percentChange(float64(prev.Sessions), float64(curr.Sessions)),
		}
		p.Velocity = velocityTimeWeight*p.TimeDelta +
			velocityXPWeight*p.XPDelta +
			velocitySessionWeight*p.SessionDelta
		result.Points = append(result.Points, p)
	}

	recent := result.Points
	if len(recent) > velocityTrendWindow {
		recent = recent[len(recent)-velocityTrendWindow:]
	}
	var sum float64
	for _, p := range recent {
		sum += p.Velocity
	}
	result.AverageVelocity = sum / float64(len(recent))
	result.Trend = ClassifyVelocity(result.AverageVelocity)
	return result
}

// ClassifyVelocity maps an average velocity to a trend.
func ClassifyVelocity(v float64) Trend {
	switch {
	case v > accelerationThreshold:
		return TrendAccelerating
	case v > improvementThreshold:
		return TrendImproving
	case v > stabilityThreshold:
		return TrendStable
	default:
		return TrendDeclining
	}
}

// percentChange returns (curr-prev)/prev*100, or 0 when prev is 0.
func percentChange(prev, curr float64) float64 {
	if prev == 0 {
		return 0
	}
	return (curr - prev) / prev * 100
}
