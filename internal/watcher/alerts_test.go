package watcher

import (
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/studywatch/internal/analytics"
	"github.com/blackwell-systems/studywatch/internal/records"
)

var now = time.Date(2026, time.January, 14, 12, 0, 0, 0, time.UTC)

func makeState(sessions ...records.Session) *State {
	s := &State{
		Timestamp: now,
		Trend:     analytics.TrendStable,
		GoalsMet:  make(map[string]bool),
		sessions:  make(map[string]records.Session),
	}
	for _, sess := range sessions {
		s.sessions[sess.ID] = sess
	}
	s.SessionCount = len(sessions)
	return s
}

func findAlert(alerts []Alert, titlePrefix string) *Alert {
	for i := range alerts {
		if strings.HasPrefix(alerts[i].Title, titlePrefix) {
			return &alerts[i]
		}
	}
	return nil
}

func TestCompare_NoChanges(t *testing.T) {
	s1 := records.Session{ID: "s1", Timestamp: now, DurationMinutes: 30, Subject: "Math"}
	prev := makeState(s1)
	prev.CurrentStreak = 2
	curr := makeState(s1)
	curr.CurrentStreak = 2

	alerts := Compare(prev, curr)
	if len(alerts) != 0 {
		t.Errorf("expected 0 alerts for identical states, got %d", len(alerts))
		for _, a := range alerts {
			t.Logf("  [%s] %s: %s", a.Level, a.Title, a.Message)
		}
	}
}

func TestCompare_NewSession(t *testing.T) {
	s1 := records.Session{ID: "s1", Timestamp: now.Add(-time.Hour), DurationMinutes: 30, Subject: "Math"}
	s2 := records.Session{ID: "s2", Timestamp: now, DurationMinutes: 45, Subject: "Physics", Mood: records.MoodGood}

	prev := makeState(s1)
	curr := makeState(s1, s2)
	curr.TodayMinutes = 75

	alerts := Compare(prev, curr)
	a := findAlert(alerts, "Session logged")
	if a == nil {
		t.Fatal("expected a session alert")
	}
	if a.Level != "info" {
		t.Errorf("expected info level, got %q", a.Level)
	}
	if a.Title != "Session logged: Physics" {
		t.Errorf("unexpected title %q", a.Title)
	}
	if a.Message != "45m, feeling good, 1h 15m today" {
		t.Errorf("unexpected message %q", a.Message)
	}
}

func TestCompare_StreakMilestones(t *testing.T) {
	tests := []struct {
		name      string
		prev      int
		curr      int
		wantTitle string
	}{
		{"reaches three", 2, 3, "3-day streak"},
		{"reaches a week", 6, 7, "7-day streak"},
		{"reaches a hundred", 99, 100, "100-day streak"},
		{"between milestones", 4, 5, ""},
		{"broken streak", 7, 0, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prev, curr := makeState(), makeState()
			prev.CurrentStreak, curr.CurrentStreak = tc.prev, tc.curr
			a := findAlert(Compare(prev, curr), "")
			if tc.wantTitle == "" {
				if a != nil {
					t.Errorf("expected no alert, got %q", a.Title)
				}
				return
			}
			if a == nil || a.Title != tc.wantTitle {
				t.Errorf("expected %q alert, got %+v", tc.wantTitle, a)
			}
		})
	}
}

func TestCompare_NewLongestStreak(t *testing.T) {
	prev, curr := makeState(), makeState()
	prev.LongestStreak, curr.LongestStreak = 4, 5
	if findAlert(Compare(prev, curr), "New longest streak") == nil {
		t.Error("expected new longest streak alert")
	}

	// The very first streak is not a record worth announcing.
	prev.LongestStreak, curr.LongestStreak = 0, 1
	if findAlert(Compare(prev, curr), "New longest streak") != nil {
		t.Error("expected no alert for a first streak")
	}
}

func TestCompare_WeeklyGoalReached(t *testing.T) {
	prev, curr := makeState(), makeState()
	prev.GoalsMet["Math"] = true
	curr.GoalsMet["Math"] = true
	curr.GoalsMet["Physics"] = true

	alerts := Compare(prev, curr)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Title != "Weekly goal reached: Physics" {
		t.Errorf("unexpected title %q", alerts[0].Title)
	}
}

func TestCompare_TrendTurnedDeclining(t *testing.T) {
	prev, curr := makeState(), makeState()
	curr.Trend = analytics.TrendDeclining

	a := findAlert(Compare(prev, curr), "Study velocity declining")
	if a == nil || a.Level != "warning" {
		t.Fatalf("expected declining warning, got %+v", a)
	}

	// Staying declining does not re-alert.
	prev.Trend = analytics.TrendDeclining
	if findAlert(Compare(prev, curr), "Study velocity declining") != nil {
		t.Error("expected no alert when trend was already declining")
	}
}

func TestCompare_WarningsFirst(t *testing.T) {
	prev := makeState()
	curr := makeState(records.Session{ID: "s1", Timestamp: now, DurationMinutes: 10, Subject: "Math"})
	curr.StreakAtRisk = true

	alerts := Compare(prev, curr)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].Level != "warning" || alerts[1].Level != "info" {
		t.Errorf("expected warning before info, got %s then %s", alerts[0].Level, alerts[1].Level)
	}
}
