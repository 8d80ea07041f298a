package app

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/studywatch/internal/analytics"
	"github.com/blackwell-systems/studywatch/internal/output"
	"github.com/blackwell-systems/studywatch/internal/records"
)

var (
	sessionsFlagSort    string
	sessionsFlagSubject string
	sessionsFlagDays    int
	sessionsFlagLimit   int
	sessionsFlagWorst   bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [session-id]",
	Short: "List, filter, and inspect individual sessions",
	Long: `Browse logged study sessions sorted by various criteria. Each session
carries a focus score built from its length, XP rate, mood, difficulty, and
mock exam result, scaled by the consistency of the last 30 days.

Examples:
  studywatch sessions                        # recent sessions
  studywatch sessions --sort focus           # best focus first
  studywatch sessions --worst                # lowest focus first
  studywatch sessions --subject Math         # filter by subject
  studywatch sessions --days 7 --limit 5     # last 7 days, top 5
  studywatch sessions 3f2a9c1e               # inspect a single session by ID prefix`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().StringVar(&sessionsFlagSort, "sort", "recent", "Sort by: recent, duration, xp, focus")
	sessionsCmd.Flags().StringVar(&sessionsFlagSubject, "subject", "", "Filter to sessions of this subject")
	sessionsCmd.Flags().IntVar(&sessionsFlagDays, "days", 30, "Number of days to look back (0 for all)")
	sessionsCmd.Flags().IntVar(&sessionsFlagLimit, "limit", 15, "Maximum sessions to display")
	sessionsCmd.Flags().BoolVar(&sessionsFlagWorst, "worst", false, "Lowest focus first")
	rootCmd.AddCommand(sessionsCmd)
}

// sessionRow pairs a session with its focus score.
type sessionRow struct {
	Session records.Session `json:"session"`
	Focus   float64         `json:"focus_score"`
}

func runSessions(cmd *cobra.Command, args []string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	sessions, err := db.ListSessions()
	if err != nil {
		return err
	}

	now := nowFunc()
	consistency := recentConsistency(sessions, now)

	if len(args) == 1 {
		return runInspect(args[0], sessions, consistency)
	}

	filtered := filterSessions(sessions, sessionsFlagSubject, sessionsFlagDays, now)
	if len(filtered) == 0 {
		fmt.Println(" No sessions found matching filters.")
		return nil
	}

	rows := make([]sessionRow, len(filtered))
	for i, s := range filtered {
		rows[i] = sessionRow{Session: s, Focus: analytics.FocusScore(s, consistency)}
	}

	sortKey := sessionsFlagSort
	if sessionsFlagWorst {
		sortKey = "worst"
	}
	if err := sortSessionRows(rows, sortKey); err != nil {
		return err
	}

	if sessionsFlagLimit > 0 && len(rows) > sessionsFlagLimit {
		rows = rows[:sessionsFlagLimit]
	}

	if flagJSON {
		return writeJSON(os.Stdout, rows)
	}

	renderSessions(rows, sortKey)
	return nil
}

// recentConsistency is the share of the last 30 days with a session, the
// scale focus scores are computed against here.
func recentConsistency(sessions []records.Session, now time.Time) float64 {
	cutoff := now.AddDate(0, 0, -30)
	var recent []records.Session
	for _, s := range sessions {
		if s.HasTimestamp() && s.Timestamp.After(cutoff) && !s.Timestamp.After(now) {
			recent = append(recent, s)
		}
	}
	return analytics.Consistency(len(analytics.StudyDates(recent, now.Location())), 30)
}

// filterSessions keeps sessions for subject (any when empty) started within
// the last days days (any when zero).
func filterSessions(sessions []records.Session, subject string, days int, now time.Time) []records.Session {
	var cutoff time.Time
	if days > 0 {
		cutoff = now.AddDate(0, 0, -days)
	}
	var out []records.Session
	for _, s := range sessions {
		if subject != "" && !strings.EqualFold(s.Subject, subject) {
			continue
		}
		if !cutoff.IsZero() && s.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func sortSessionRows(rows []sessionRow, key string) error {
	var less func(a, b sessionRow) bool
	switch key {
	case "recent":
		less = func(a, b sessionRow) bool { return a.Session.Timestamp.After(b.Session.Timestamp) }
	case "duration":
		less = func(a, b sessionRow) bool { return a.Session.Minutes() > b.Session.Minutes() }
	case "xp":
		less = func(a, b sessionRow) bool { return a.Session.XP() > b.Session.XP() }
	case "focus":
		less = func(a, b sessionRow) bool { return a.Focus > b.Focus }
	case "worst":
		less = func(a, b sessionRow) bool { return a.Focus < b.Focus }
	default:
		return fmt.Errorf("unknown sort %q (want recent, duration, xp, or focus)", key)
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	return nil
}

// runInspect finds a session by full ID or prefix and renders a detailed view.
func runInspect(prefix string, sessions []records.Session, consistency float64) error {
	var matched *records.Session
	for i := range sessions {
		s := &sessions[i]
		if s.ID == prefix || strings.HasPrefix(s.ID, prefix) {
			if matched != nil {
				return fmt.Errorf("ambiguous session prefix %q matches multiple sessions; use more characters", prefix)
			}
			matched = s
		}
	}
	if matched == nil {
		return fmt.Errorf("no session found matching %q", prefix)
	}

	row := sessionRow{Session: *matched, Focus: analytics.FocusScore(*matched, consistency)}

	if flagJSON {
		return writeJSON(os.Stdout, row)
	}

	renderInspect(row)
	return nil
}

// renderInspect prints a detailed single-session view.
func renderInspect(r sessionRow) {
	s := r.Session
	fmt.Println(output.Section("Session Inspect"))
	fmt.Println()

	label := func(l, v string) {
		fmt.Printf(" %s  %s\n", output.StyleLabel.Render(l), output.StyleBold.Render(v))
	}
	muted := func(l, v string) {
		fmt.Printf(" %s  %s\n", output.StyleLabel.Render(l), output.StyleMuted.Render(v))
	}

	label("Session ID", s.ID)
	label("Subject", s.Subject)
	date := "(no timestamp)"
	if s.HasTimestamp() {
		date = s.Timestamp.Local().Format("2006-01-02 15:04")
	}
	label("Date", date)
	label("Duration", output.Duration(s.Minutes()))

	fmt.Println()
	fmt.Println(output.Section("Effort"))
	fmt.Println()
	mood := string(s.Mood)
	if mood == "" {
		mood = "-"
	}
	muted("Mood", mood)
	muted("XP", fmt.Sprintf("%.0f", s.XP()))
	muted("Difficulty", fmt.Sprintf("%.2f", s.DifficultyOrDefault()))
	if exam, ok := s.ExamScore(); ok {
		muted("Mock exam", fmt.Sprintf("%.0f", exam))
	}
	if s.Task != "" {
		muted("Task", s.Task)
	}
	fmt.Printf(" %s  %s\n", output.StyleLabel.Render("Focus"), output.ScoreBar(r.Focus, 20))

	if s.Reflection != "" {
		fmt.Println()
		fmt.Println(output.Section("Reflection"))
		fmt.Println()
		fmt.Printf(" %s\n", output.StyleMuted.Render(s.Reflection))
	}
	fmt.Println()
}

func renderSessions(rows []sessionRow, sortKey string) {
	fmt.Println(output.Section("Sessions"))
	fmt.Println()
	fmt.Printf(" %s  sorted by %s\n\n",
		output.StyleMuted.Render(fmt.Sprintf("%d sessions", len(rows))),
		output.StyleBold.Render(sortKey))

	tbl := output.NewTable("ID", "Date", "Subject", "Duration", "Mood", "XP", "Focus").AlignRight(3, 5, 6)

	var totalMinutes, totalFocus float64
	for _, r := range rows {
		s := r.Session
		date := ""
		if s.HasTimestamp() {
			date = s.Timestamp.Local().Format("Jan 02 15:04")
		}

		focus := fmt.Sprintf("%.0f", r.Focus)
		switch {
		case r.Focus >= 80:
			focus = output.StyleSuccess.Render(focus)
		case r.Focus < 40:
			focus = output.StyleWarning.Render(focus)
		}

		tbl.AddRow(
			truncateID(s.ID),
			date,
			s.Subject,
			output.Duration(s.Minutes()),
			string(s.Mood),
			fmt.Sprintf("%.0f", s.XP()),
			focus,
		)
		totalMinutes += s.Minutes()
		totalFocus += r.Focus
	}

	tbl.Print()

	n := float64(len(rows))
	fmt.Println()
	fmt.Printf(" %s\n", output.StyleBold.Render(fmt.Sprintf(
		"Totals: %s studied · %.0fm avg duration · %.0f avg focus",
		output.Duration(totalMinutes), totalMinutes/n, totalFocus/n,
	)))
	fmt.Println()
	fmt.Printf(" %s\n", output.StyleMuted.Render("Use --sort duration|xp|focus to reorder"))
	fmt.Printf(" %s\n", output.StyleMuted.Render("Use --subject <name> to filter, --json for machine output"))
	fmt.Printf(" %s\n", output.StyleMuted.Render("Use studywatch sessions <session-id> to inspect a session"))
}
