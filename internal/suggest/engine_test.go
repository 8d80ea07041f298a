package suggest

import (
	"testing"
)

// --- Engine.Run ---

func TestInsightEngine_FallbackWhenNothingFires(t *testing.T) {
	engine := NewInsightEngine()
	ctx := &Context{
		Consistency:           90,
		AverageSessionMinutes: 45,
		SubjectCount:          3,
		SubjectBalance:        80,
		PeakHour:              14,
		SessionLengthTrend:    "stable",
	}
	suggestions := engine.Run(ctx)
	if len(suggestions) != 1 {
		t.Fatalf("expected exactly the fallback suggestion, got %d", len(suggestions))
	}
	if suggestions[0].Category != "encouragement" {
		t.Errorf("expected encouragement fallback, got %q", suggestions[0].Category)
	}
}

func TestInsightEngine_RulesAreAdditiveAndOrdered(t *testing.T) {
	engine := NewInsightEngine()
	ctx := &Context{
		Consistency:           20,
		AverageSessionMinutes: 10,
		SubjectCount:          2,
		SubjectBalance:        10,
		PeakHour:              6,
		SessionLengthTrend:    "decreasing",
	}
	suggestions := engine.Run(ctx)

	want := []string{"balance", "duration", "consistency", "timing", "duration"}
	if len(suggestions) != len(want) {
		t.Fatalf("expected %d suggestions, got %d", len(want), len(suggestions))
	}
	for i, cat := range want {
		if suggestions[i].Category != cat {
			t.Errorf("suggestion %d: expected category %q, got %q", i, cat, suggestions[i].Category)
		}
	}
}

func TestBasicEngine_EmptyContext(t *testing.T) {
	engine := NewBasicEngine()
	suggestions := engine.Run(&Context{PeakHour: -1})
	// Zero consistency, zero length, and zero streak all fire; the task
	// rule needs at least one task.
	if len(suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(suggestions))
	}
	for _, s := range suggestions {
		if s.Title == "" || s.Description == "" {
			t.Error("got suggestion with empty title or description")
		}
		if s.Category == "tasks" {
			t.Error("task rule should not fire without tasks")
		}
	}
}

func TestBasicEngine_Fallback(t *testing.T) {
	engine := NewBasicEngine()
	suggestions := engine.Run(&Context{
		Consistency:           80,
		AverageSessionMinutes: 40,
		TaskCount:             4,
		TaskCompletionRate:    75,
		CurrentStreak:         5,
	})
	if len(suggestions) != 1 || suggestions[0].Title != "Keep it up" {
		t.Fatalf("expected fallback suggestion, got %+v", suggestions)
	}
}

func TestEngineRun_NoRulesNoFallback(t *testing.T) {
	engine := &Engine{}
	if got := engine.Run(&Context{}); len(got) != 0 {
		t.Fatalf("expected 0 suggestions, got %d", len(got))
	}
}

func TestEngineRun_CustomRule(t *testing.T) {
	customRule := func(ctx *Context) []Suggestion {
		return []Suggestion{{Category: "custom", Priority: PriorityHigh, Title: "Custom", Description: "custom rule"}}
	}
	engine := &Engine{rules: []Rule{customRule}, fallback: Suggestion{Title: "unused"}}
	suggestions := engine.Run(&Context{})
	if len(suggestions) != 1 || suggestions[0].Category != "custom" {
		t.Fatalf("expected the custom suggestion only, got %+v", suggestions)
	}
}
