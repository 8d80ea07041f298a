package analytics

import (
	"sort"
	"time"

	"github.com/blackwell-systems/studywatch/internal/records"
)

// HourScore ranks one hour of the day as a study slot.
type HourScore struct {
	Hour             int     `json:"hour"`
	Score            float64 `json:"score"`
	Sessions         int     `json:"sessions"`
	AverageMinutes   float64 `json:"average_minutes"`
	AverageXP        float64 `json:"average_xp"`
	PositiveMoodRate float64 `json:"positive_mood_rate"`
}

// OptimalHours scores every hour of the day from the sessions started in it
// and returns the best three with a positive score.
func OptimalHours(sessions []records.Session, loc *time.Location) []HourScore {
	var hours [24]HourScore
	var timestamped int
	var positive [24]int
	for h := range hours {
		hours[h].Hour = h
	}
	for _, s := range sessions {
		if !s.HasTimestamp() {
			continue
		}
		timestamped++
		h := s.Timestamp.In(loc).Hour()
		hours[h].Sessions++
		hours[h].AverageMinutes += s.Minutes()
		hours[h].AverageXP += s.XP()
		if s.Mood.Positive() {
			positive[h]++
		}
	}

	expected := float64(timestamped) / 24
	ranked := make([]HourScore, 0, 24)
	for h := range hours {
		hs := hours[h]
		if hs.Sessions == 0 {
			continue
		}
		n := float64(hs.Sessions)
		hs.AverageMinutes /= n
		hs.AverageXP /= n
		hs.PositiveMoodRate = float64(positive[h]) / n

		var consistency float64
		if expected > 0 {
			consistency = n / expected
		}
		hs.Score = hourDurationWeight*hs.AverageMinutes +
			hourXPWeight*hs.AverageXP +
			hourConsistencyWeight*consistency +
			hourMoodWeight*hs.PositiveMoodRate
		if hs.Score > 0 {
			ranked = append(ranked, hs)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > optimalHourCount {
		ranked = ranked[:optimalHourCount]
	}
	return ranked
}

// Confidence grades how much data backs a prediction.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// PredictionFactors is the point contribution of each input.
type PredictionFactors struct {
	Baseline      float64 `json:"baseline"`
	SessionLength float64 `json:"session_length"`
	XP            float64 `json:"xp"`
	Consistency   float64 `json:"consistency"`
	Streak        float64 `json:"streak"`
	Diversity     float64 `json:"diversity"`
}

// PerformancePrediction is the heuristic exam-score estimate.
type PerformancePrediction struct {
	PredictedScore float64           `json:"predicted_score"`
	Confidence     Confidence        `json:"confidence"`
	Factors        PredictionFactors `json:"factors"`
	RecentSessions int               `json:"recent_sessions"`
	Consistency14  float64           `json:"consistency_14d"`
}

// PredictPerformance estimates an exam score from the last 14 days of
// sessions plus the current streak. The size of the full history drives the
// confidence grade.
func PredictPerformance(sessions []records.Session, now time.Time, currentStreak int) PerformancePrediction {
	loc := now.Location()
	today := civilDate(now, loc)
	cutoff := today.AddDate(0, 0, -(predictionWindowDays - 1))

	var recent []records.Session
	for _, s := range sessions {
		if !s.HasTimestamp() {
			continue
		}
		d := civilDate(s.Timestamp, loc)
		if !d.Before(cutoff) && !d.After(today) {
			recent = append(recent, s)
		}
	}

	var minutes, xp float64
	subjects := make(map[string]bool)
	for _, s := range recent {
		minutes += s.Minutes()
		xp += s.XP()
		subjects[s.Subject] = true
	}
	var avgLen, avgXP float64
	if len(recent) > 0 {
		avgLen = minutes / float64(len(recent))
		avgXP = xp / float64(len(recent))
	}
	consistency := Consistency(len(StudyDates(recent, loc)), predictionWindowDays)

	f := PredictionFactors{
		Baseline:      predictionBaseline,
		SessionLength: min(avgLen/predictionLengthCapMin, 1) * predictionLengthPoints,
		XP:            min(avgXP/predictionXPCap, 1) * predictionXPPoints,
		Consistency:   consistency / 100 * predictionConsistencyPts,
		Streak:        min(float64(currentStreak)/predictionStreakCapDays, 1) * predictionStreakPoints,
		Diversity:     min(float64(len(subjects))/predictionDiversityCap, 1) * predictionDiversityPoints,
	}
	score := f.Baseline + f.SessionLength + f.XP + f.Consistency + f.Streak + f.Diversity

	return PerformancePrediction{
		PredictedScore: clampPercent(score),
		Confidence:     gradeConfidence(len(sessions), consistency),
		Factors:        f,
		RecentSessions: len(recent),
		Consistency14:  consistency,
	}
}

func gradeConfidence(sessions int, consistency float64) Confidence {
	switch {
	case sessions >= highConfidenceSessions && consistency > highConfidenceConsistency:
		return ConfidenceHigh
	case sessions >= mediumConfidenceSessions && consistency > mediumConfidenceConsistency:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
