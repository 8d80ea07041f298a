// Package app contains the Cobra command tree for studywatch.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/studywatch/internal/logger"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "studywatch",
	Short: "Local-first study tracking and insights",
	Long: `studywatch records study sessions, tasks, and subject goals in a local
database and turns them into insights: totals and streaks, weekly velocity,
charts, task progress, and ranked suggestions. Premium mode adds exam score
predictions, retention estimates, focus scoring, and pattern detection.

Run 'studywatch' with no arguments to list the available commands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(flagVerbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("studywatch", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  log       Record a study session")
		fmt.Println("  report    Show insights for a week, month, or all time")
		fmt.Println("  ranges    Compare week, month, and all-time totals")
		fmt.Println("  suggest   Show ranked study suggestions")
		fmt.Println("  sessions  List, filter, and inspect sessions")
		fmt.Println("  task      Add, complete, and list tasks")
		fmt.Println("  subject   Set weekly goals and colors per subject")
		fmt.Println("  import    Load sessions, tasks, and subjects from JSON")
		fmt.Println("  export    Write a versioned JSON summary")
		fmt.Println("  track     Snapshot headline metrics and compare over time")
		fmt.Println("  watch     Watch for new sessions and alert on streaks and goals")
		fmt.Println("  doctor    Check whether the setup is healthy")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/studywatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}
