package analytics

import (
	"time"

	"github.com/blackwell-systems/studywatch/internal/records"
)

const upcomingTaskDays = 7

// TaskStats summarises the task list.
type TaskStats struct {
	Total            int            `json:"total"`
	Completed        int            `json:"completed"`
	CompletionRate   float64        `json:"completion_rate"`
	CompletedInRange int            `json:"completed_in_range"`
	Overdue          int            `json:"overdue"`
	Upcoming         int            `json:"upcoming"`
	OpenBySubject    map[string]int `json:"open_by_subject"`
}

// AnalyzeTasks computes completion and deadline counts. Overdue tasks are
// open tasks scheduled before today; upcoming ones are scheduled within the
// next seven days.
func AnalyzeTasks(tasks []records.Task, w Window, now time.Time) TaskStats {
	loc := now.Location()
	today := civilDate(now, loc)
	horizon := today.AddDate(0, 0, upcomingTaskDays)

	stats := TaskStats{Total: len(tasks), OpenBySubject: make(map[string]int)}
	for _, t := range tasks {
		if t.Done {
			stats.Completed++
			if t.DoneAt != nil && w.Contains(*t.DoneAt) {
				stats.CompletedInRange++
			}
			continue
		}
		stats.OpenBySubject[t.Subject]++
		if t.ScheduledDate == nil {
			continue
		}
		due := civilDate(*t.ScheduledDate, loc)
		switch {
		case due.Before(today):
			stats.Overdue++
		case due.Before(horizon):
			stats.Upcoming++
		}
	}
	stats.CompletionRate = percentOf(float64(stats.Completed), float64(stats.Total))
	return stats
}

// GoalProgress compares this week's hours for a subject with its weekly
// goal.
type GoalProgress struct {
	Subject     string  `json:"subject"`
	Color       string  `json:"color"`
	GoalHours   float64 `json:"goal_hours"`
	ActualHours float64 `json:"actual_hours"`
	Percent     float64 `json:"percent"`
}

// WeeklyGoalProgress reports progress for every subject record, in input
// order. Goals are always measured against the current week.
func WeeklyGoalProgress(sessions []records.Session, subjects []records.Subject, now time.Time) []GoalProgress {
	week := ResolveWindow(now, RangeWeek, "")
	minutes := make(map[string]float64)
	for _, s := range sessions {
		if week.Contains(s.Timestamp) {
			minutes[s.Subject] += s.Minutes()
		}
	}

	progress := make([]GoalProgress, 0, len(subjects))
	for _, sub := range subjects {
		gp := GoalProgress{
			Subject:     sub.Name,
			Color:       sub.Color,
			GoalHours:   sub.Goal(),
			ActualHours: minutes[sub.Name] / 60,
		}
		if gp.GoalHours > 0 {
			gp.Percent = clampPercent(gp.ActualHours / gp.GoalHours * 100)
		}
		progress = append(progress, gp)
	}
	return progress
}
