package analytics

import (
	"sort"
	"time"

	"github.com/blackwell-systems/studywatch/internal/records"
)

// SubjectRetention estimates how well a subject is retained from the
// spacing and frequency of its sessions.
type SubjectRetention struct {
	Subject        string  `json:"subject"`
	Sessions       int     `json:"sessions"`
	AverageGapDays float64 `json:"average_gap_days"`
	SpacingScore   float64 `json:"spacing_score"`
	FrequencyScore float64 `json:"frequency_score"`
	Retention      float64 `json:"retention"`
}

// EstimateRetention scores every subject, best retained first.
func EstimateRetention(sessions []records.Session) []SubjectRetention {
	bySubject := make(map[string][]time.Time)
	counts := make(map[string]int)
	for _, s := range sessions {
		counts[s.Subject]++
		if s.HasTimestamp() {
			bySubject[s.Subject] = append(bySubject[s.Subject], s.Timestamp)
		}
	}

	result := make([]SubjectRetention, 0, len(counts))
	for subject, n := range counts {
		times := bySubject[subject]
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

		r := SubjectRetention{Subject: subject, Sessions: n}
		if len(times) < 2 {
			r.SpacingScore = retentionSingleSession
		} else {
			var sum float64
			var gaps int
			for i := 1; i < len(times); i++ {
				gap := times[i].Sub(times[i-1]).Hours() / 24
				if gap >= retentionOutlierGapDays {
					continue
				}
				sum += gap
				gaps++
			}
			if gaps > 0 {
				r.AverageGapDays = sum / float64(gaps)
				r.SpacingScore = SpacingScore(r.AverageGapDays)
			} else {
				// Every gap was an outlier.
				r.AverageGapDays = retentionOutlierGapDays
				r.SpacingScore = SpacingScore(retentionOutlierGapDays)
			}
		}
		r.FrequencyScore = min(float64(n)/retentionFrequencySessions*100, 100)
		r.Retention = clampPercent(retentionSpacingWeight*r.SpacingScore + retentionFrequencyWeight*r.FrequencyScore)
		result = append(result, r)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Retention != result[j].Retention {
			return result[i].Retention > result[j].Retention
		}
		return result[i].Subject < result[j].Subject
	})
	return result
}

// SpacingScore maps an average gap in days to a spacing score. One to three
// days scores best; same-day cramming scores below a weekly rhythm.
func SpacingScore(gapDays float64) float64 {
	switch {
	case gapDays >= 1 && gapDays <= 3:
		return 100
	case gapDays > 3 && gapDays <= 7:
		return 75
	case gapDays >= 0 && gapDays < 1:
		return 60
	case gapDays > 7 && gapDays <= 14:
		return 50
	default:
		return 30
	}
}
