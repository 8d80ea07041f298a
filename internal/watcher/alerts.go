package watcher

import (
	"fmt"
	"sort"

	"github.com/blackwell-systems/studywatch/internal/analytics"
	"github.com/blackwell-systems/studywatch/internal/output"
)

// streakMilestones are the streak lengths that earn an alert.
var streakMilestones = []int{3, 7, 14, 30, 60, 100}

// Compare detects notable changes between two watch states and returns alerts,
// warnings first.
func Compare(prev, curr *State) []Alert {
	var alerts []Alert

	alerts = append(alerts, compareWarning(prev, curr)...)
	alerts = append(alerts, compareInfo(prev, curr)...)

	return alerts
}

// compareWarning detects warning-level changes.
func compareWarning(prev, curr *State) []Alert {
	var alerts []Alert
	now := curr.Timestamp

	if curr.StreakAtRisk {
		alerts = append(alerts, Alert{
			Level:   "warning",
			Title:   "Streak at risk",
			Message: "No study session logged today yet. Log one before midnight to keep your streak.",
			Time:    now,
		})
	}

	if curr.Trend == analytics.TrendDeclining && prev.Trend != analytics.TrendDeclining {
		alerts = append(alerts, Alert{
			Level:   "warning",
			Title:   "Study velocity declining",
			Message: "Weekly study time is trending down compared with previous weeks",
			Time:    now,
		})
	}

	return alerts
}

// compareInfo detects informational changes.
func compareInfo(prev, curr *State) []Alert {
	var alerts []Alert
	now := curr.Timestamp

	for _, s := range newSessions(prev, curr) {
		msg := output.Duration(s.Minutes())
		if s.Mood != "" {
			msg += fmt.Sprintf(", feeling %s", s.Mood)
		}
		msg += fmt.Sprintf(", %s today", output.Duration(curr.TodayMinutes))
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   fmt.Sprintf("Session logged: %s", s.Subject),
			Message: msg,
			Time:    now,
		})
	}

	for _, m := range streakMilestones {
		if prev.CurrentStreak < m && curr.CurrentStreak >= m {
			alerts = append(alerts, Alert{
				Level:   "info",
				Title:   fmt.Sprintf("%d-day streak", m),
				Message: fmt.Sprintf("You have studied %d days in a row", curr.CurrentStreak),
				Time:    now,
			})
		}
	}

	if curr.LongestStreak > prev.LongestStreak && prev.LongestStreak > 0 {
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   "New longest streak",
			Message: fmt.Sprintf("%d days, beating your previous best of %d", curr.LongestStreak, prev.LongestStreak),
			Time:    now,
		})
	}

	var reached []string
	for subject := range curr.GoalsMet {
		if !prev.GoalsMet[subject] {
			reached = append(reached, subject)
		}
	}
	sort.Strings(reached)
	for _, subject := range reached {
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   fmt.Sprintf("Weekly goal reached: %s", subject),
			Message: "You hit this week's study goal",
			Time:    now,
		})
	}

	return alerts
}
