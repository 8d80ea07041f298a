package suggest

import (
	"strings"
	"testing"
)

func TestUnbalancedSubjects(t *testing.T) {
	tests := []struct {
		name     string
		ctx      Context
		expected int
	}{
		{"unbalanced", Context{SubjectCount: 3, SubjectBalance: 20}, 1},
		{"balanced", Context{SubjectCount: 3, SubjectBalance: 50}, 0},
		{"single subject", Context{SubjectCount: 1, SubjectBalance: 0}, 0},
		{"no subjects", Context{SubjectCount: 0, SubjectBalance: 100}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := UnbalancedSubjects(&tc.ctx)
			if len(got) != tc.expected {
				t.Fatalf("expected %d suggestions, got %d", tc.expected, len(got))
			}
		})
	}
}

func TestShortSessions(t *testing.T) {
	got := ShortSessions(&Context{AverageSessionMinutes: 20})
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got))
	}
	if !strings.Contains(got[0].Description, "20 minutes") {
		t.Errorf("expected description to mention the average, got %q", got[0].Description)
	}
	if len(ShortSessions(&Context{AverageSessionMinutes: 30})) != 0 {
		t.Error("30 minutes should not fire")
	}
}

func TestLowConsistency(t *testing.T) {
	if len(LowConsistency(&Context{Consistency: 59.9})) != 1 {
		t.Error("expected suggestion below 60%")
	}
	if len(LowConsistency(&Context{Consistency: 60})) != 0 {
		t.Error("expected no suggestion at 60%")
	}
}

func TestMorningStudier(t *testing.T) {
	tests := []struct {
		hour     int
		expected int
	}{
		{-1, 0},
		{0, 1},
		{7, 1},
		{8, 0},
		{22, 0},
	}
	for _, tc := range tests {
		got := MorningStudier(&Context{PeakHour: tc.hour})
		if len(got) != tc.expected {
			t.Errorf("hour %d: expected %d suggestions, got %d", tc.hour, tc.expected, len(got))
		}
	}
}

func TestShrinkingSessions(t *testing.T) {
	if len(ShrinkingSessions(&Context{SessionLengthTrend: "decreasing"})) != 1 {
		t.Error("expected suggestion for decreasing trend")
	}
	for _, trend := range []string{"increasing", "stable", ""} {
		if len(ShrinkingSessions(&Context{SessionLengthTrend: trend})) != 0 {
			t.Errorf("trend %q should not fire", trend)
		}
	}
}

func TestTaskCompletion(t *testing.T) {
	tests := []struct {
		name     string
		ctx      Context
		expected int
	}{
		{"no tasks", Context{TaskCount: 0, TaskCompletionRate: 0}, 0},
		{"low completion", Context{TaskCount: 10, TaskCompletionRate: 40}, 1},
		{"threshold", Context{TaskCount: 10, TaskCompletionRate: 70}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TaskCompletion(&tc.ctx); len(got) != tc.expected {
				t.Errorf("expected %d suggestions, got %d", tc.expected, len(got))
			}
		})
	}
}

func TestBuildStreak(t *testing.T) {
	if len(BuildStreak(&Context{CurrentStreak: 2})) != 1 {
		t.Error("expected suggestion for streak of 2")
	}
	if len(BuildStreak(&Context{CurrentStreak: 3})) != 0 {
		t.Error("expected no suggestion for streak of 3")
	}
}

func TestBasicThresholds(t *testing.T) {
	if len(BasicConsistency(&Context{Consistency: 49})) != 1 {
		t.Error("expected consistency suggestion below 50%")
	}
	if len(BasicConsistency(&Context{Consistency: 50})) != 0 {
		t.Error("expected no consistency suggestion at 50%")
	}
	if len(BasicSessionLength(&Context{AverageSessionMinutes: 24})) != 1 {
		t.Error("expected session suggestion below 25 minutes")
	}
	if len(BasicSessionLength(&Context{AverageSessionMinutes: 25})) != 0 {
		t.Error("expected no session suggestion at 25 minutes")
	}
}
