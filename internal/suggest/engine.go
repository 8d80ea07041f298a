package suggest

// Engine runs its rules in registration order. When no rule fires it emits
// the fallback suggestion instead.
type Engine struct {
	rules    []Rule
	fallback Suggestion
}

// NewInsightEngine returns the engine behind premium pattern
// recommendations.
func NewInsightEngine() *Engine {
	return &Engine{
		rules: []Rule{
			UnbalancedSubjects,
			ShortSessions,
			LowConsistency,
			MorningStudier,
			ShrinkingSessions,
		},
		fallback: Suggestion{
			Category:    "encouragement",
			Priority:    PriorityLow,
			Title:       "Great study habits",
			Description: "Your study patterns look healthy. Keep up the balanced, consistent work!",
		},
	}
}

// NewBasicEngine returns the engine available to every user.
func NewBasicEngine() *Engine {
	return &Engine{
		rules: []Rule{
			BasicConsistency,
			BasicSessionLength,
			TaskCompletion,
			BuildStreak,
		},
		fallback: Suggestion{
			Category:    "encouragement",
			Priority:    PriorityLow,
			Title:       "Keep it up",
			Description: "You're on track. Keep studying at this pace!",
		},
	}
}

// Run executes every rule and concatenates their results in order.
func (e *Engine) Run(ctx *Context) []Suggestion {
	var all []Suggestion
	for _, rule := range e.rules {
		all = append(all, rule(ctx)...)
	}
	if len(all) == 0 && e.fallback.Title != "" {
		all = append(all, e.fallback)
	}
	return all
}
