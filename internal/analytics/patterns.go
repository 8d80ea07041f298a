package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/blackwell-systems/studywatch/internal/records"
)

// Session length trend directions.
const (
	LengthIncreasing = "increasing"
	LengthDecreasing = "decreasing"
	LengthStable     = "stable"
)

// PatternAnalysis describes when and how evenly the user studies.
type PatternAnalysis struct {
	// PeakDay is the weekday name with the most minutes, empty without
	// timestamped sessions.
	PeakDay string `json:"peak_day"`
	// PeakDayIndex is the MondayIndex of PeakDay, or -1.
	PeakDayIndex       MondayIndex `json:"peak_day_index"`
	PeakHours          []int       `json:"peak_hours"`
	SubjectCount       int         `json:"subject_count"`
	SubjectBalance     float64     `json:"subject_balance"`
	SessionLengthTrend string      `json:"session_length_trend"`
	RecentAverage      float64     `json:"recent_average"`
	PriorAverage       float64     `json:"prior_average"`
}

// PeakHour returns the busiest hour, or -1 when none is known.
func (p PatternAnalysis) PeakHour() int {
	if len(p.PeakHours) == 0 {
		return -1
	}
	return p.PeakHours[0]
}

// DetectPatterns analyzes the full history.
func DetectPatterns(sessions []records.Session, loc *time.Location) PatternAnalysis {
	var byDay [7]float64
	var byHour [24]float64
	subjects := make(map[string]float64)
	for _, s := range sessions {
		subjects[s.Subject] += s.Minutes()
		if !s.HasTimestamp() {
			continue
		}
		local := s.Timestamp.In(loc)
		byDay[ToMondayIndex(SundayIndex(local.Weekday()))] += s.Minutes()
		byHour[local.Hour()] += s.Minutes()
	}

	p := PatternAnalysis{PeakDayIndex: -1, PeakHours: []int{}}
	var best float64
	for d, m := range byDay {
		if m > best {
			best = m
			p.PeakDayIndex = MondayIndex(d)
		}
	}
	if p.PeakDayIndex >= 0 {
		p.PeakDay = WeekdayNames[p.PeakDayIndex]
	}

	hours := make([]int, 0, 24)
	for h, m := range byHour {
		if m > 0 {
			hours = append(hours, h)
		}
	}
	sort.SliceStable(hours, func(i, j int) bool { return byHour[hours[i]] > byHour[hours[j]] })
	if len(hours) > peakHourCount {
		hours = hours[:peakHourCount]
	}
	p.PeakHours = hours

	totals := make([]float64, 0, len(subjects))
	for _, m := range subjects {
		totals = append(totals, m)
	}
	sort.Float64s(totals)
	p.SubjectCount = len(totals)
	p.SubjectBalance = SubjectBalance(totals)

	p.SessionLengthTrend, p.RecentAverage, p.PriorAverage = sessionLengthTrend(sessions)
	return p
}

// SubjectBalance scores how evenly minutes spread across subjects: 100 for
// no subjects, 0 for a single subject, otherwise 100 minus the coefficient
// of variation as a percentage.
func SubjectBalance(totals []float64) float64 {
	switch len(totals) {
	case 0:
		return 100
	case 1:
		return 0
	}
	m := mean(totals)
	if m == 0 {
		return 100
	}
	var sq float64
	for _, v := range totals {
		sq += (v - m) * (v - m)
	}
	sd := math.Sqrt(sq / float64(len(totals)))
	return 100 - min(100, sd/m*100)
}

// sessionLengthTrend compares the mean of the latest three sessions against
// the three before them.
func sessionLengthTrend(sessions []records.Session) (trend string, recent, prior float64) {
	var ordered []records.Session
	for _, s := range sessions {
		if s.HasTimestamp() {
			ordered = append(ordered, s)
		}
	}
	if len(ordered) < 2*sessionTrendSample {
		return LengthStable, 0, 0
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Timestamp.Before(ordered[j].Timestamp) })

	n := len(ordered)
	recent = meanMinutes(ordered[n-sessionTrendSample:])
	prior = meanMinutes(ordered[n-2*sessionTrendSample : n-sessionTrendSample])
	switch {
	case prior == 0 && recent > 0:
		trend = LengthIncreasing
	case recent > prior*(1+sessionTrendThreshold):
		trend = LengthIncreasing
	case recent < prior*(1-sessionTrendThreshold):
		trend = LengthDecreasing
	default:
		trend = LengthStable
	}
	return trend, recent, prior
}

func meanMinutes(sessions []records.Session) float64 {
	if len(sessions) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sessions {
		sum += s.Minutes()
	}
	return sum / float64(len(sessions))
}
