package analytics

import (
	"sort"

	"github.com/blackwell-systems/studywatch/internal/records"
)

// FocusDistribution counts sessions per focus band.
type FocusDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

// FocusAnalysis aggregates per-session focus scores for a window.
type FocusAnalysis struct {
	Average      float64           `json:"average"`
	Trend        Trend             `json:"trend"`
	Distribution FocusDistribution `json:"distribution"`
	Scores       []float64         `json:"scores"`
}

// FocusScore rates a single session from 0 to 100. rangeConsistency is the
// consistency percentage of the window the session belongs to.
func FocusScore(s records.Session, rangeConsistency float64) float64 {
	minutes := s.Minutes()
	score := min(minutes/focusDurationCapMin, 1) * focusDurationPoints

	if minutes > 0 {
		score += min(s.XP()/minutes*focusEfficiencyPerXPMin, focusEfficiencyPoints)
	}

	score += min(max((s.DifficultyOrDefault()-1)*focusDifficultyPerStep, 0), focusDifficultyPoints)

	if pts, ok := moodFocusPoints[string(s.Mood)]; ok {
		score += pts
	} else {
		score += moodNeutralPoints
	}

	switch {
	case rangeConsistency > focusHighConsistency:
		score += focusHighBonus
	case rangeConsistency > focusMidConsistency:
		score += focusMidBonus
	}

	if exam, ok := s.ExamScore(); ok {
		score += exam / 100 * focusExamPoints
	} else {
		score += focusNoExamPoints
	}

	return clampPercent(score)
}

// AnalyzeFocus scores the sessions of a window in chronological order.
// Returns nil when there are fewer than MinSessionsForFocus sessions.
func AnalyzeFocus(sessions []records.Session, rangeConsistency float64) *FocusAnalysis {
	if len(sessions) < MinSessionsForFocus {
		return nil
	}

	ordered := make([]records.Session, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	fa := &FocusAnalysis{Scores: make([]float64, len(ordered))}
	var sum float64
	for i, s := range ordered {
		v := FocusScore(s, rangeConsistency)
		fa.Scores[i] = v
		sum += v
		switch {
		case v >= focusExcellent:
			fa.Distribution.Excellent++
		case v >= focusGood:
			fa.Distribution.Good++
		case v >= focusFair:
			fa.Distribution.Fair++
		default:
			fa.Distribution.Poor++
		}
	}
	fa.Average = sum / float64(len(ordered))
	fa.Trend = halvesTrend(fa.Scores)
	return fa
}

// halvesTrend compares the mean of the second half of values with the first
// half using the focus trend threshold.
func halvesTrend(values []float64) Trend {
	if len(values) < 2 {
		return TrendStable
	}
	mid := len(values) / 2
	first, second := mean(values[:mid]), mean(values[mid:])
	switch {
	case second > first*(1+focusTrendThreshold):
		return TrendImproving
	case second < first*(1-focusTrendThreshold):
		return TrendDeclining
	default:
		return TrendStable
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
