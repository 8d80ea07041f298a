package app

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/studywatch/internal/analytics"
	"github.com/blackwell-systems/studywatch/internal/output"
	"github.com/blackwell-systems/studywatch/internal/suggest"
)

var (
	suggestLimit    int
	suggestCategory string
	suggestRange    string
	suggestPremium  bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show ranked study suggestions",
	Long: `Analyze stored sessions and tasks and print the suggestions from the
report, most urgent first. Premium mode adds personalized recommendations
based on subject balance, peak hours, and session length trends.`,
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 10, "Maximum number of suggestions to show")
	suggestCmd.Flags().StringVar(&suggestCategory, "category", "", "Filter by category (balance, consistency, duration, streak, tasks, timing)")
	suggestCmd.Flags().StringVar(&suggestRange, "range", "", "Time range: week, month, or all (default from config)")
	suggestCmd.Flags().BoolVar(&suggestPremium, "premium", false, "Include premium recommendations")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	opts, err := resolveOptions(cfg, suggestRange, "", suggestPremium)
	if err != nil {
		return err
	}

	set, err := loadRecords(cmd.Context(), db)
	if err != nil {
		return err
	}

	report := analytics.Build(buildInput(cfg, set, opts))
	suggestions := rankSuggestions(report)

	if suggestCategory != "" {
		suggestions = filterByCategory(suggestions, suggestCategory)
	}
	if suggestLimit > 0 && len(suggestions) > suggestLimit {
		suggestions = suggestions[:suggestLimit]
	}

	if flagJSON {
		return writeJSON(os.Stdout, suggestions)
	}

	if len(suggestions) == 0 {
		fmt.Println(output.Section("Suggestions"))
		fmt.Println()
		fmt.Println(" No suggestions. Your study routine looks good!")
		return nil
	}

	fmt.Println(output.Section("Study Suggestions"))
	fmt.Println()
	renderSuggestions(suggestions)
	return nil
}

// rankSuggestions merges basic suggestions with premium recommendations and
// orders them by priority. Rule order breaks ties.
func rankSuggestions(r *analytics.Report) []suggest.Suggestion {
	all := make([]suggest.Suggestion, 0, len(r.Suggestions)+len(r.Recommendations))
	all = append(all, r.Recommendations...)
	all = append(all, r.Suggestions...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Priority < all[j].Priority
	})
	return all
}

func filterByCategory(suggestions []suggest.Suggestion, category string) []suggest.Suggestion {
	var filtered []suggest.Suggestion
	for _, s := range suggestions {
		if s.Category == category {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func renderSuggestions(suggestions []suggest.Suggestion) {
	for i, s := range suggestions {
		priorityLabel := priorityToLabel(s.Priority)
		priorityStyled := stylePriority(s.Priority, priorityLabel)

		fmt.Printf(" #%d %s %s\n", i+1, priorityStyled, output.StyleBold.Render(s.Title))
		fmt.Printf("    %s\n", output.StyleMuted.Render(s.Category))
		fmt.Printf("    %s\n", s.Description)
		fmt.Println()
	}
}

func priorityToLabel(priority int) string {
	switch priority {
	case suggest.PriorityHigh:
		return "[HIGH]"
	case suggest.PriorityMedium:
		return "[MEDIUM]"
	case suggest.PriorityLow:
		return "[LOW]"
	default:
		return "[UNKNOWN]"
	}
}

func stylePriority(priority int, label string) string {
	switch priority {
	case suggest.PriorityHigh:
		return output.StyleError.Render(label)
	case suggest.PriorityMedium:
		return output.StyleWarning.Render(label)
	default:
		return output.StyleMuted.Render(label)
	}
}
