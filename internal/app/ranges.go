package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/studywatch/internal/analytics"
	"github.com/blackwell-systems/studywatch/internal/config"
	"github.com/blackwell-systems/studywatch/internal/output"
	"github.com/blackwell-systems/studywatch/internal/records"
)

var rangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "Compare week, month, and all-time totals",
	Long: `Build the week, month, and all-time reports side by side and show
their headline numbers in one table.`,
	RunE: runRanges,
}

func init() {
	rootCmd.AddCommand(rangesCmd)
}

var allRanges = []analytics.TimeRange{analytics.RangeWeek, analytics.RangeMonth, analytics.RangeAll}

func runRanges(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	set, err := loadRecords(cmd.Context(), db)
	if err != nil {
		return err
	}

	reports, err := buildRanges(cmd.Context(), cfg, set)
	if err != nil {
		return err
	}

	if flagJSON {
		byRange := make(map[string]analytics.Overview, len(reports))
		for _, r := range reports {
			byRange[string(r.Window.Range)] = r.Overview
		}
		return writeJSON(os.Stdout, byRange)
	}

	fmt.Println(output.Section("Ranges"))
	fmt.Println()
	tbl := output.NewTable("Range", "Time", "Sessions", "Avg Session", "XP", "Study Days", "Consistency").
		AlignRight(1, 2, 3, 4, 5, 6)
	for _, r := range reports {
		o := r.Overview
		tbl.AddRow(
			windowLabel(r.Window),
			output.Duration(o.TotalStudyTime),
			fmt.Sprintf("%d", o.TotalSessions),
			output.Duration(o.AverageSessionLength),
			fmt.Sprintf("%.0f", o.TotalXP),
			fmt.Sprintf("%d", o.StudyDays),
			fmt.Sprintf("%.0f%%", o.ConsistencyScore),
		)
	}
	tbl.Print()
	return nil
}

// buildRanges computes one report per range concurrently. Build never
// mutates its input, so the goroutines share the record set.
func buildRanges(ctx context.Context, cfg *config.Config, set *records.Set) ([]*analytics.Report, error) {
	reports := make([]*analytics.Report, len(allRanges))
	g, ctx := errgroup.WithContext(ctx)
	for i, rng := range allRanges {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = analytics.Build(buildInput(cfg, set, reportOptions{Range: rng, Premium: false}))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
