package app

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/studywatch/internal/analytics"
	"github.com/blackwell-systems/studywatch/internal/config"
	"github.com/blackwell-systems/studywatch/internal/output"
)

var (
	reportRange   string
	reportMonth   string
	reportPremium bool
	reportHourly  bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show insights for a week, month, or all time",
	Long: `Compute the full insights view from every stored session, task, and
subject: overview totals, weekday and daily charts, a six-month trend, the
subject leaderboard, a weekday-by-hour heatmap, streaks, weekly velocity,
task and goal progress, and suggestions.

With --premium (or premium: true in config) the report adds predictions,
focus scoring, pattern detection, and personalized recommendations.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportRange, "range", "", "Time range: week, month, or all (default from config)")
	reportCmd.Flags().StringVar(&reportMonth, "month", "", "Month to report on, as YYYY-MM (implies --range month)")
	reportCmd.Flags().BoolVar(&reportPremium, "premium", false, "Include premium insights")
	reportCmd.Flags().BoolVar(&reportHourly, "hourly", false, "Include the hour-of-day chart")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	opts, err := resolveOptions(cfg, reportRange, reportMonth, reportPremium)
	if err != nil {
		return err
	}

	set, err := loadRecords(cmd.Context(), db)
	if err != nil {
		return err
	}

	report := analytics.Build(buildInput(cfg, set, opts))

	if flagJSON {
		return writeJSON(os.Stdout, report)
	}

	renderReport(report, cfg)
	return nil
}

func renderReport(r *analytics.Report, cfg *config.Config) {
	fmt.Printf(" %s  %s\n", output.StyleHeader.Render("studywatch"), output.StyleMuted.Render(windowLabel(r.Window)))

	renderOverview(r)
	renderCharts(r, cfg)
	renderLeaderboard(r)
	renderStreaks(r)
	renderVelocity(r, cfg)
	renderTasks(r)
	renderGoals(r, cfg)

	if len(r.Suggestions) > 0 {
		fmt.Println(output.Section("Suggestions"))
		fmt.Println()
		renderSuggestions(r.Suggestions)
	}

	if !r.Premium {
		return
	}
	renderFocus(r)
	renderPredictions(r)
	renderPatterns(r)
	if len(r.Recommendations) > 0 {
		fmt.Println(output.Section("Recommendations"))
		fmt.Println()
		renderSuggestions(r.Recommendations)
	}
}

// windowLabel describes a window for headers, with an inclusive end date.
func windowLabel(w analytics.Window) string {
	switch w.Range {
	case analytics.RangeAll:
		return "all time"
	case analytics.RangeMonth:
		return "month of " + w.Start.Format("January 2006")
	}
	return fmt.Sprintf("week of %s to %s", w.Start.Format("Jan 02"), w.End.AddDate(0, 0, -1).Format("Jan 02"))
}

func renderOverview(r *analytics.Report) {
	o := r.Overview
	fmt.Println(output.Section("Overview"))
	fmt.Println()

	if o.TotalSessions == 0 {
		fmt.Println(" " + output.StyleMuted.Render("No sessions in this window. Use 'studywatch log' to record one."))
		return
	}

	fmt.Printf(" %s %s\n", output.StyleLabel.Render("Total study time"), output.StyleValue.Render(output.Duration(o.TotalStudyTime)))
	fmt.Printf(" %s %s\n", output.StyleLabel.Render("Sessions"), output.StyleValue.Render(fmt.Sprintf("%d", o.TotalSessions)))
	fmt.Printf(" %s %s\n", output.StyleLabel.Render("Average session"), output.StyleValue.Render(output.Duration(o.AverageSessionLength)))
	if o.LongestSession != nil {
		fmt.Printf(" %s %s %s\n", output.StyleLabel.Render("Longest session"),
			output.StyleValue.Render(output.Duration(o.LongestSession.Minutes())),
			output.StyleMuted.Render(o.LongestSession.Subject))
	}
	fmt.Printf(" %s %s\n", output.StyleLabel.Render("XP earned"), output.StyleValue.Render(fmt.Sprintf("%.0f", o.TotalXP)))
	fmt.Printf(" %s %s\n", output.StyleLabel.Render("Study days"), output.StyleValue.Render(fmt.Sprintf("%d", o.StudyDays)))
	fmt.Printf(" %s %s\n", output.StyleLabel.Render("Consistency"), output.ScoreBar(o.ConsistencyScore, 20))
}

func renderCharts(r *analytics.Report, cfg *config.Config) {
	width := chartWidth(cfg)
	ceiling := r.Bars.AxisCeilingMinutes

	if r.Overview.TotalSessions > 0 {
		fmt.Println(output.Section("By Weekday"))
		fmt.Println()
		fmt.Print(output.BarChart(barItems(r.Bars.Weekday, 3), ceiling, width, output.Duration))

		if reportHourly {
			fmt.Println(output.Section("By Hour"))
			fmt.Println()
			fmt.Print(output.BarChart(barItems(r.Bars.Hourly, 0), ceiling, width, output.Duration))
		}

		if len(r.Bars.Daily) > 0 {
			fmt.Println(output.Section("By Day of Month"))
			fmt.Println()
			fmt.Print(output.BarChart(barItems(r.Bars.Daily, 0), ceiling, width, output.Duration))
		}
	}

	monthly := make([]float64, len(r.Bars.Monthly))
	labels := make([]string, len(r.Bars.Monthly))
	var hasData bool
	for i, b := range r.Bars.Monthly {
		monthly[i] = b.Minutes / 60
		labels[i] = b.Label
		hasData = hasData || b.Minutes > 0
	}
	if hasData {
		fmt.Println(output.Section("Last Six Months (hours)"))
		fmt.Println()
		fmt.Println(output.LineChart(monthly, width, 8, strings.Join(labels, "  ")))
	}

	if peak := r.Heatmap.Max(); peak > 0 {
		fmt.Println(output.Section("When You Study"))
		fmt.Println()
		fmt.Print(output.Heatmap(r.Heatmap, peak, heatmapRowLabels()))
	}
}

// barItems converts report bars into chart items. A positive abbrev
// shortens labels to that many characters.
func barItems(bars []analytics.Bar, abbrev int) []output.BarItem {
	items := make([]output.BarItem, len(bars))
	for i, b := range bars {
		label := b.Label
		if abbrev > 0 && len(label) > abbrev {
			label = label[:abbrev]
		}
		items[i] = output.BarItem{Label: label, Value: b.Minutes}
	}
	return items
}

// heatmapRowLabels names heatmap rows, which start on Sunday.
func heatmapRowLabels() [7]string {
	var labels [7]string
	for d := range labels {
		name := analytics.WeekdayNames[analytics.ToMondayIndex(analytics.SundayIndex(d))]
		labels[d] = name[:3]
	}
	return labels
}

func renderLeaderboard(r *analytics.Report) {
	if len(r.Leaderboard) == 0 {
		return
	}
	fmt.Println(output.Section("Subjects"))
	fmt.Println()

	tbl := output.NewTable("#", "Subject", "Time", "Sessions", "Share").AlignRight(0, 2, 3, 4)
	for i, s := range r.Leaderboard {
		tbl.AddRow(
			fmt.Sprintf("%d", i+1),
			output.SubjectStyle(s.Color).Render(s.Subject),
			output.Duration(s.Minutes),
			fmt.Sprintf("%d", s.Sessions),
			fmt.Sprintf("%.1f%%", s.Share),
		)
	}
	tbl.Print()
}

func renderStreaks(r *analytics.Report) {
	s := r.Streaks
	fmt.Println(output.Section("Streaks"))
	fmt.Println()

	current := fmt.Sprintf("%d days", s.Current)
	if s.Current > 0 {
		current = output.StyleStreak.Render(current)
	}
	fmt.Printf(" %s %s\n", output.StyleLabel.Render("Current streak"), current)
	fmt.Printf(" %s %s\n", output.StyleLabel.Render("Longest streak"), fmt.Sprintf("%d days", s.Longest))
	fmt.Printf(" %s %s\n", output.StyleLabel.Render("Days studied"), fmt.Sprintf("%d", s.StudyDays))
	if s.LastStudy != "" {
		fmt.Printf(" %s %s\n", output.StyleLabel.Render("Last studied"), s.LastStudy)
	}
}

func renderVelocity(r *analytics.Report, cfg *config.Config) {
	v := r.Velocity
	fmt.Println(output.Section("Weekly Velocity"))
	fmt.Println()

	if v.Trend == analytics.TrendInsufficientData {
		fmt.Println(" " + output.StyleMuted.Render("Not enough history yet. Velocity needs two weeks with sessions."))
		return
	}

	fmt.Printf(" %s %s %s\n", output.StyleLabel.Render("Trend"),
		trendStyle(v.Trend).Render(string(v.Trend)),
		output.TrendArrowPercent(v.AverageVelocity, true))

	minutes := make([]float64, len(v.Weeks))
	for i, w := range v.Weeks {
		minutes[i] = w.Minutes / 60
	}
	if len(minutes) >= 2 {
		fmt.Println()
		fmt.Println(output.LineChart(minutes, chartWidth(cfg), 6, "hours per week"))
	}
}

func trendStyle(t analytics.Trend) lipgloss.Style {
	switch t {
	case analytics.TrendAccelerating, analytics.TrendImproving:
		return output.StyleSuccess
	case analytics.TrendDeclining:
		return output.StyleError
	}
	return output.StyleMuted
}

func renderTasks(r *analytics.Report) {
	t := r.Tasks
	if t.Total == 0 {
		return
	}
	fmt.Println(output.Section("Tasks"))
	fmt.Println()
	fmt.Printf(" %s %d of %d  %s\n", output.StyleLabel.Render("Completed"), t.Completed, t.Total, output.ScoreBar(t.CompletionRate, 20))
	fmt.Printf(" %s %d\n", output.StyleLabel.Render("Completed this window"), t.CompletedInRange)
	if t.Overdue > 0 {
		fmt.Printf(" %s %s\n", output.StyleLabel.Render("Overdue"), output.StyleError.Render(fmt.Sprintf("%d", t.Overdue)))
	}
	fmt.Printf(" %s %d\n", output.StyleLabel.Render("Due in the next week"), t.Upcoming)

	if len(t.OpenBySubject) > 0 {
		subjects := make([]string, 0, len(t.OpenBySubject))
		for s := range t.OpenBySubject {
			subjects = append(subjects, s)
		}
		sort.Strings(subjects)
		parts := make([]string, len(subjects))
		for i, s := range subjects {
			name := s
			if name == "" {
				name = "unassigned"
			}
			parts[i] = fmt.Sprintf("%s %d", name, t.OpenBySubject[s])
		}
		fmt.Printf(" %s %s\n", output.StyleLabel.Render("Open by subject"), output.StyleMuted.Render(strings.Join(parts, ", ")))
	}
}

func renderGoals(r *analytics.Report, cfg *config.Config) {
	if len(r.Goals) == 0 {
		return
	}
	fmt.Println(output.Section("Weekly Goals"))
	fmt.Println()

	width := max(chartWidth(cfg)-10, 10)
	for _, g := range r.Goals {
		if g.GoalHours <= 0 {
			continue
		}
		fmt.Printf(" %s %s %s\n",
			output.SubjectStyle(g.Color).Render(fmt.Sprintf("%-14s", g.Subject)),
			output.ScoreBar(min(g.Percent, 100), width),
			output.StyleMuted.Render(fmt.Sprintf("%.1fh / %.1fh", g.ActualHours, g.GoalHours)))
	}
}

func renderFocus(r *analytics.Report) {
	f := r.Focus
	if f == nil || len(f.Scores) == 0 {
		return
	}
	fmt.Println(output.Section("Focus"))
	fmt.Println()
	fmt.Printf(" %s %s\n", output.StyleLabel.Render("Average focus"), output.ScoreBar(f.Average, 20))
	fmt.Printf(" %s %s\n", output.StyleLabel.Render("Trend"), trendStyle(f.Trend).Render(string(f.Trend)))
	fmt.Printf(" %s %s\n", output.StyleLabel.Render("Sessions by band"), output.StyleMuted.Render(fmt.Sprintf(
		"excellent %d, good %d, fair %d, poor %d",
		f.Distribution.Excellent, f.Distribution.Good, f.Distribution.Fair, f.Distribution.Poor)))
}

func renderPredictions(r *analytics.Report) {
	p := r.Predictions
	if p == nil {
		fmt.Println(output.Section("Predictions"))
		fmt.Println()
		fmt.Printf(" %s\n", output.StyleMuted.Render(fmt.Sprintf(
			"Log at least %d sessions to unlock predictions and patterns.", analytics.MinSessionsForInsights)))
		return
	}

	fmt.Println(output.Section("Predictions"))
	fmt.Println()
	perf := p.Performance
	fmt.Printf(" %s %s %s\n", output.StyleLabel.Render("Predicted exam score"),
		output.StyleValue.Render(fmt.Sprintf("%.0f", perf.PredictedScore)),
		output.StyleMuted.Render(string(perf.Confidence)+" confidence"))

	if len(p.OptimalHours) > 0 {
		hours := make([]string, len(p.OptimalHours))
		for i, h := range p.OptimalHours {
			hours[i] = fmt.Sprintf("%02d:00", h.Hour)
		}
		fmt.Printf(" %s %s\n", output.StyleLabel.Render("Best hours"), strings.Join(hours, ", "))
	}

	if len(p.Retention) > 0 {
		fmt.Println()
		tbl := output.NewTable("Subject", "Sessions", "Avg Gap", "Retention")
		for _, s := range p.Retention {
			tbl.AddRow(s.Subject, fmt.Sprintf("%d", s.Sessions), fmt.Sprintf("%.1fd", s.AverageGapDays), output.ScoreBar(s.Retention, 10))
		}
		tbl.Print()
	}
}

func renderPatterns(r *analytics.Report) {
	p := r.Patterns
	if p == nil {
		return
	}
	fmt.Println(output.Section("Patterns"))
	fmt.Println()
	if p.PeakDay != "" {
		fmt.Printf(" %s %s\n", output.StyleLabel.Render("Peak day"), p.PeakDay)
	}
	if len(p.PeakHours) > 0 {
		hours := make([]string, len(p.PeakHours))
		for i, h := range p.PeakHours {
			hours[i] = fmt.Sprintf("%02d:00", h)
		}
		fmt.Printf(" %s %s\n", output.StyleLabel.Render("Peak hours"), strings.Join(hours, ", "))
	}
	fmt.Printf(" %s %s\n", output.StyleLabel.Render("Subject balance"), output.ScoreBar(p.SubjectBalance, 20))
	fmt.Printf(" %s %s\n", output.StyleLabel.Render("Session length"), p.SessionLengthTrend)
}
