package analytics

import (
	"sort"
	"time"

	"github.com/blackwell-systems/studywatch/internal/records"
)

// DateSet is a set of local calendar dates, keyed by civil date at midnight
// UTC.
type DateSet map[time.Time]struct{}

// StudyDates reduces sessions to the distinct local dates they fall on.
// Sessions without a timestamp are ignored.
func StudyDates(sessions []records.Session, loc *time.Location) DateSet {
	set := make(DateSet)
	for _, s := range sessions {
		if !s.HasTimestamp() {
			continue
		}
		set[civilDate(s.Timestamp, loc)] = struct{}{}
	}
	return set
}

// Has reports whether d (a civil date) is in the set.
func (ds DateSet) Has(d time.Time) bool {
	_, ok := ds[d]
	return ok
}

// Sorted returns the dates in ascending order.
func (ds DateSet) Sorted() []time.Time {
	dates := make([]time.Time, 0, len(ds))
	for d := range ds {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// StreakData summarises streaks over the whole history.
type StreakData struct {
	Current   int    `json:"current"`
	Longest   int    `json:"longest"`
	StudyDays int    `json:"study_days"`
	LastStudy string `json:"last_study,omitempty"`
}

// CurrentStreak counts consecutive study days ending today. Scanning starts
// at today, so a day without a session today yields 0.
func CurrentStreak(dates DateSet, now time.Time) int {
	day := civilDate(now, now.Location())
	streak := 0
	for dates.Has(day) {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak returns the longest run of consecutive study days.
func LongestStreak(dates DateSet) int {
	sorted := dates.Sorted()
	if len(sorted) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if daysBetween(sorted[i-1], sorted[i]) == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// Streaks computes StreakData from the full, unfiltered history.
func Streaks(sessions []records.Session, now time.Time) StreakData {
	dates := StudyDates(sessions, now.Location())
	data := StreakData{
		Current:   CurrentStreak(dates, now),
		Longest:   LongestStreak(dates),
		StudyDays: len(dates),
	}
	if sorted := dates.Sorted(); len(sorted) > 0 {
		data.LastStudy = sorted[len(sorted)-1].Format(time.DateOnly)
	}
	return data
}

// Consistency returns studyDays/totalDays as a percentage in [0, 100].
func Consistency(studyDays, totalDays int) float64 {
	if totalDays <= 0 {
		return 0
	}
	return clampPercent(float64(studyDays) / float64(totalDays) * 100)
}

// RangeConsistency is the consistency score for the sessions of a window.
func RangeConsistency(b Buckets, loc *time.Location) float64 {
	days := len(StudyDates(b.Sessions, loc))
	return Consistency(days, b.Window.TotalDays(days))
}
