package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/studywatch/internal/analytics"
	"github.com/blackwell-systems/studywatch/internal/output"
	"github.com/blackwell-systems/studywatch/internal/store"
)

var (
	trackCompare int
	trackHistory int
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Snapshot headline metrics and compare over time",
	Long: `Build the report for the configured range, store its headline numbers
as a new snapshot, and compare against a previous snapshot to show deltas
with trend arrows. Only the headline numbers are stored; reports themselves
are always recomputed from the session history.`,
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().IntVar(&trackCompare, "compare", 1, "Compare against Nth previous snapshot (1 = most recent)")
	trackCmd.Flags().IntVar(&trackHistory, "history", 0, "Show metric trends across N most recent snapshots")
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if trackCompare < 1 {
		return fmt.Errorf("--compare must be at least 1, got %d", trackCompare)
	}

	// --history only reads; it does not add a snapshot.
	if trackHistory > 0 {
		if flagJSON {
			return outputHistoryJSON(db, trackHistory)
		}
		return renderHistory(db, trackHistory)
	}

	opts, err := resolveOptions(cfg, "", "", false)
	if err != nil {
		return err
	}
	set, err := loadRecords(cmd.Context(), db)
	if err != nil {
		return err
	}
	report := analytics.Build(buildInput(cfg, set, opts))

	baseline, err := db.GetLatestSnapshot()
	if err != nil {
		return fmt.Errorf("loading latest snapshot: %w", err)
	}

	current, err := db.SaveSnapshot("track", appVersion, string(report.Window.Range), trackMetrics(report))
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	// The latest snapshot before this run is the baseline for --compare 1.
	if trackCompare > 1 {
		if baseline, err = db.GetSnapshotN(trackCompare + 1); err != nil {
			return fmt.Errorf("loading previous snapshot: %w", err)
		}
	}

	diff, err := compareSnapshots(db, baseline, current)
	if err != nil {
		return err
	}

	if flagJSON {
		result := map[string]any{"snapshot": current}
		if diff != nil {
			result["diff"] = diff
		}
		return writeJSON(os.Stdout, result)
	}

	renderTrackOutput(current, diff)
	return nil
}

// trackMetrics extracts the headline numbers stored with each snapshot.
func trackMetrics(r *analytics.Report) map[string]float64 {
	return map[string]float64{
		"total_minutes":        r.Overview.TotalStudyTime,
		"total_sessions":       float64(r.Overview.TotalSessions),
		"consistency":          r.Overview.ConsistencyScore,
		"current_streak":       float64(r.Streaks.Current),
		"longest_streak":       float64(r.Streaks.Longest),
		"average_velocity":     r.Velocity.AverageVelocity,
		"task_completion_rate": r.Tasks.CompletionRate,
	}
}

// compareSnapshots diffs current against prev. It returns nil when there is
// no earlier snapshot yet.
func compareSnapshots(db *store.DB, prev, current *store.Snapshot) (*store.SnapshotDiff, error) {
	if prev == nil {
		return nil, nil
	}

	prevMetrics, err := db.GetAggregateMetrics(prev.ID)
	if err != nil {
		return nil, fmt.Errorf("loading previous metrics: %w", err)
	}
	currMetrics, err := db.GetAggregateMetrics(current.ID)
	if err != nil {
		return nil, fmt.Errorf("loading current metrics: %w", err)
	}

	return &store.SnapshotDiff{
		Previous: prev,
		Current:  current,
		Deltas:   computeDeltas(prevMetrics, currMetrics),
	}, nil
}

// metricDirection maps metric names to whether higher values are better.
var metricDirection = map[string]bool{
	"total_minutes":        true,
	"total_sessions":       true,
	"consistency":          true,
	"current_streak":       true,
	"longest_streak":       true,
	"average_velocity":     true,
	"task_completion_rate": true,
}

// computeDeltas compares two sets of aggregate metrics and returns MetricDelta entries.
func computeDeltas(prev, curr []store.AggregateMetric) []store.MetricDelta {
	prevMap := make(map[string]float64)
	for _, m := range prev {
		prevMap[m.MetricName] = m.MetricValue
	}

	var deltas []store.MetricDelta
	for _, m := range curr {
		prevVal := prevMap[m.MetricName]
		delta := m.MetricValue - prevVal

		direction := "unchanged"
		if delta != 0 {
			higherIsBetter, known := metricDirection[m.MetricName]
			if !known {
				higherIsBetter = true
			}
			isPositive := delta > 0
			if isPositive == higherIsBetter {
				direction = "improved"
			} else {
				direction = "regressed"
			}
		}

		deltas = append(deltas, store.MetricDelta{
			Name:      m.MetricName,
			Previous:  prevVal,
			Current:   m.MetricValue,
			Delta:     delta,
			Direction: direction,
		})
	}

	return deltas
}

func renderTrackOutput(current *store.Snapshot, diff *store.SnapshotDiff) {
	fmt.Println(output.Section("Track: Snapshot Comparison"))
	fmt.Println()
	fmt.Printf(" Snapshot #%d taken at %s\n\n", current.ID, current.TakenAt.Local().Format("2006-01-02 15:04:05"))

	if diff == nil {
		fmt.Println(" First snapshot recorded. Run 'studywatch track' again later to see trends.")
		return
	}

	fmt.Printf(" Comparing against snapshot #%d (%s)\n\n",
		diff.Previous.ID, diff.Previous.TakenAt.Local().Format("2006-01-02 15:04:05"))

	tbl := output.NewTable("Metric", "Previous", "Current", "Delta", "Trend").AlignRight(1, 2, 3)
	for _, d := range diff.Deltas {
		higherIsBetter, known := metricDirection[d.Name]
		if !known {
			higherIsBetter = true
		}
		tbl.AddRow(
			metricShortName(d.Name),
			fmt.Sprintf("%.1f", d.Previous),
			fmt.Sprintf("%.1f", d.Current),
			fmt.Sprintf("%+.1f", d.Delta),
			output.TrendArrow(d.Delta, higherIsBetter),
		)
	}
	tbl.Print()
}

// metricDisplayOrder defines the order metrics appear in history output.
var metricDisplayOrder = []string{
	"total_minutes",
	"total_sessions",
	"consistency",
	"current_streak",
	"longest_streak",
	"average_velocity",
	"task_completion_rate",
}

// metricShortName returns a compact label for display.
func metricShortName(name string) string {
	short := map[string]string{
		"total_minutes":        "Study Minutes",
		"total_sessions":       "Sessions",
		"consistency":          "Consistency %",
		"current_streak":       "Current Streak",
		"longest_streak":       "Longest Streak",
		"average_velocity":     "Avg Velocity %",
		"task_completion_rate": "Tasks Done %",
	}
	if s, ok := short[name]; ok {
		return s
	}
	return name
}

type snapshotMetrics struct {
	Snapshot store.Snapshot          `json:"snapshot"`
	Metrics  []store.AggregateMetric `json:"metrics"`
}

// loadHistory returns the n most recent snapshots with their metrics,
// oldest first.
func loadHistory(db *store.DB, n int) ([]snapshotMetrics, error) {
	snapshots, err := db.GetRecentSnapshots(n)
	if err != nil {
		return nil, fmt.Errorf("loading snapshots: %w", err)
	}

	timeline := make([]snapshotMetrics, 0, len(snapshots))
	for i := len(snapshots) - 1; i >= 0; i-- {
		s := snapshots[i]
		metrics, err := db.GetAggregateMetrics(s.ID)
		if err != nil {
			return nil, fmt.Errorf("loading metrics for snapshot #%d: %w", s.ID, err)
		}
		timeline = append(timeline, snapshotMetrics{Snapshot: s, Metrics: metrics})
	}
	return timeline, nil
}

// renderHistory shows a multi-snapshot timeline table.
func renderHistory(db *store.DB, n int) error {
	timeline, err := loadHistory(db, n)
	if err != nil {
		return err
	}
	if len(timeline) == 0 {
		fmt.Println(" No snapshots found. Run 'studywatch track' to create one.")
		return nil
	}

	fmt.Println(output.Section("Track: Metric History"))
	fmt.Println()
	fmt.Printf(" Showing %d most recent snapshots\n\n", len(timeline))

	headers := []string{"Metric"}
	values := make([]map[string]float64, len(timeline))
	for i, sm := range timeline {
		headers = append(headers, fmt.Sprintf("#%d %s", sm.Snapshot.ID, sm.Snapshot.TakenAt.Local().Format("Jan 02")))
		values[i] = make(map[string]float64, len(sm.Metrics))
		for _, m := range sm.Metrics {
			values[i][m.MetricName] = m.MetricValue
		}
	}
	headers = append(headers, "Trend")
	tbl := output.NewTable(headers...)

	for _, name := range metricDisplayOrder {
		row := []string{metricShortName(name)}
		for _, v := range values {
			row = append(row, fmt.Sprintf("%.1f", v[name]))
		}

		trend := ""
		if len(values) >= 2 {
			delta := values[len(values)-1][name] - values[0][name]
			trend = output.TrendArrow(delta, metricDirection[name])
		}
		row = append(row, trend)
		tbl.AddRow(row...)
	}

	tbl.Print()
	return nil
}

// outputHistoryJSON writes the history data as JSON.
func outputHistoryJSON(db *store.DB, n int) error {
	timeline, err := loadHistory(db, n)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, map[string]any{"history": timeline})
}
