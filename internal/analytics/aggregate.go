package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/blackwell-systems/studywatch/internal/records"
)

// Bar is one bucket of a bar chart with its per-subject breakdown for
// stacked rendering.
type Bar struct {
	Label     string             `json:"label"`
	Minutes   float64            `json:"minutes"`
	Sessions  int                `json:"sessions"`
	BySubject map[string]float64 `json:"by_subject"`
}

// Aggregates holds the totals derived from one bucketed session set.
type Aggregates struct {
	TotalMinutes         float64            `json:"total_minutes"`
	SessionCount         int                `json:"session_count"`
	AverageSessionLength float64            `json:"average_session_length"`
	LongestSession       *records.Session   `json:"longest_session"`
	TotalXP              float64            `json:"total_xp"`
	SubjectMinutes       map[string]float64 `json:"subject_minutes"`

	// Weekday bars are ordered by MondayIndex.
	Weekday []Bar `json:"weekday"`
	Hourly  []Bar `json:"hourly"`
	// Daily bars cover each day of the selected month; empty otherwise.
	Daily []Bar `json:"daily"`

	// MaxBucketMinutes is the largest weekday or daily bar, floored at 1.
	MaxBucketMinutes float64 `json:"max_bucket_minutes"`
	// AxisCeilingMinutes is MaxBucketMinutes raised to the display ceiling.
	AxisCeilingMinutes float64 `json:"axis_ceiling_minutes"`
}

// Aggregate computes totals and per-bucket sums for b.
func Aggregate(b Buckets, displayCeiling float64) Aggregates {
	agg := Aggregates{
		SubjectMinutes: make(map[string]float64),
		Weekday:        make([]Bar, 7),
		Hourly:         make([]Bar, 24),
		Daily:          make([]Bar, len(b.ByDayOfMonth)),
	}

	longest := -1
	for i, s := range b.Sessions {
		m := s.Minutes()
		agg.TotalMinutes += m
		agg.TotalXP += s.XP()
		agg.SubjectMinutes[s.Subject] += m
		if longest < 0 || m > b.Sessions[longest].Minutes() {
			longest = i
		}
	}
	agg.SessionCount = len(b.Sessions)
	if agg.SessionCount > 0 {
		agg.AverageSessionLength = agg.TotalMinutes / float64(agg.SessionCount)
		ls := b.Sessions[longest]
		agg.LongestSession = &ls
	}

	for i, idx := range b.ByWeekday {
		agg.Weekday[i] = sumBar(WeekdayNames[i][:3], b.Sessions, idx)
	}
	for h, idx := range b.ByHour {
		agg.Hourly[h] = sumBar(fmt.Sprintf("%02d", h), b.Sessions, idx)
	}
	for d, idx := range b.ByDayOfMonth {
		agg.Daily[d] = sumBar(fmt.Sprintf("%d", d+1), b.Sessions, idx)
	}

	agg.MaxBucketMinutes = 1
	for _, bars := range [][]Bar{agg.Weekday, agg.Daily} {
		for _, bar := range bars {
			if bar.Minutes > agg.MaxBucketMinutes {
				agg.MaxBucketMinutes = bar.Minutes
			}
		}
	}
	agg.AxisCeilingMinutes = max(agg.MaxBucketMinutes, displayCeiling)

	return agg
}

func sumBar(label string, sessions []records.Session, idx []int) Bar {
	bar := Bar{Label: label, BySubject: make(map[string]float64), Sessions: len(idx)}
	for _, i := range idx {
		m := sessions[i].Minutes()
		bar.Minutes += m
		bar.BySubject[sessions[i].Subject] += m
	}
	return bar
}

// SubjectStanding is one row of the subject leaderboard.
type SubjectStanding struct {
	Subject  string  `json:"subject"`
	Color    string  `json:"color"`
	Minutes  float64 `json:"minutes"`
	Sessions int     `json:"sessions"`
	Share    float64 `json:"share"`
}

// Leaderboard ranks subjects by minutes studied, highest first. Colors are
// passed through from the subject records.
func Leaderboard(sessions []records.Session, subjects []records.Subject) []SubjectStanding {
	colors := make(map[string]string, len(subjects))
	for _, s := range subjects {
		colors[s.Name] = s.Color
	}

	byName := make(map[string]*SubjectStanding)
	var total float64
	for _, s := range sessions {
		st, ok := byName[s.Subject]
		if !ok {
			st = &SubjectStanding{Subject: s.Subject, Color: colors[s.Subject]}
			byName[s.Subject] = st
		}
		st.Minutes += s.Minutes()
		st.Sessions++
		total += s.Minutes()
	}

	board := make([]SubjectStanding, 0, len(byName))
	for _, st := range byName {
		st.Share = percentOf(st.Minutes, total)
		board = append(board, *st)
	}
	sort.Slice(board, func(i, j int) bool {
		if board[i].Minutes != board[j].Minutes {
			return board[i].Minutes > board[j].Minutes
		}
		return board[i].Subject < board[j].Subject
	})
	return board
}

// MonthlyBars returns n bars, oldest first, for the calendar months ending
// with now's month.
func MonthlyBars(sessions []records.Session, now time.Time, n int) []Bar {
	loc := now.Location()
	first := MonthStart(now).AddDate(0, -(n - 1), 0)
	bars := make([]Bar, n)
	index := make(map[string]int, n)
	for i := range bars {
		label := first.AddDate(0, i, 0).Format("2006-01")
		bars[i] = Bar{Label: label, BySubject: make(map[string]float64)}
		index[label] = i
	}

	for _, s := range sessions {
		if !s.HasTimestamp() {
			continue
		}
		i, ok := index[s.Timestamp.In(loc).Format("2006-01")]
		if !ok {
			continue
		}
		bars[i].Minutes += s.Minutes()
		bars[i].Sessions++
		bars[i].BySubject[s.Subject] += s.Minutes()
	}
	return bars
}

// Heatmap holds study minutes indexed by [SundayIndex][hour]. Its rows use
// the Sunday-first convention, unlike the Monday-first bars.
type Heatmap [7][24]float64

// BuildHeatmap sums minutes per weekday and hour over sessions.
func BuildHeatmap(sessions []records.Session, loc *time.Location) Heatmap {
	var h Heatmap
	for _, s := range sessions {
		if !s.HasTimestamp() {
			continue
		}
		local := s.Timestamp.In(loc)
		day := SundayIndex(local.Weekday())
		h[day][local.Hour()] += s.Minutes()
	}
	return h
}

// Max returns the largest cell, or 0 for an empty heatmap.
func (h Heatmap) Max() float64 {
	var m float64
	for _, row := range h {
		for _, v := range row {
			m = max(m, v)
		}
	}
	return m
}

// percentOf returns part/whole*100, 0 when whole is 0.
func percentOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// clampPercent bounds v to [0, 100]. NaN maps to 0.
func clampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, 0), 100)
}
