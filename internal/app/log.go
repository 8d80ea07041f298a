package app

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/studywatch/internal/output"
	"github.com/blackwell-systems/studywatch/internal/records"
)

var (
	logMood       string
	logXP         float64
	logDifficulty float64
	logExam       float64
	logReflection string
	logTask       string
	logAt         string
)

var logCmd = &cobra.Command{
	Use:   "log <subject> <duration>",
	Short: "Record a study session",
	Long: `Record a study session in the studywatch database. The duration is in
minutes unless it carries an h, m, or s suffix.

Examples:
  studywatch log Math 45
  studywatch log Physics 1.5h --mood good --difficulty 1.2
  studywatch log Chemistry 30m --exam 82 --reflection "stoichiometry clicked"
  studywatch log Biology 50 --at 2026-01-12T19:30

Use 'studywatch sessions' to list logged sessions.`,
	Args: cobra.ExactArgs(2),
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVar(&logMood, "mood", "", "Mood: great, good, okay, or struggled")
	logCmd.Flags().Float64Var(&logXP, "xp", -1, "XP earned (default: 10 per minute)")
	logCmd.Flags().Float64Var(&logDifficulty, "difficulty", 0, "Difficulty multiplier (default: 1.0)")
	logCmd.Flags().Float64Var(&logExam, "exam", -1, "Mock exam score, 0-100")
	logCmd.Flags().StringVar(&logReflection, "reflection", "", "Optional reflection note")
	logCmd.Flags().StringVar(&logTask, "task", "", "Task worked on")
	logCmd.Flags().StringVar(&logAt, "at", "", "Session start time (default: now)")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	session, err := buildSession(args[0], args[1], cmd)
	if err != nil {
		return err
	}

	id, err := db.InsertSession(session)
	if err != nil {
		return err
	}

	if flagJSON {
		session.ID = id
		return writeJSON(os.Stdout, session)
	}

	fmt.Printf("Logged %s of %s", output.Duration(session.DurationMinutes), session.Subject)
	if session.Mood != "" {
		fmt.Printf(" (%s)", session.Mood)
	}
	fmt.Printf(" [%s]\n", truncateID(id))
	return nil
}

// buildSession turns the positional arguments and the flags that were set
// into a session record.
func buildSession(subject, rawDuration string, cmd *cobra.Command) (records.Session, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return records.Session{}, fmt.Errorf("subject must not be empty")
	}

	minutes, err := parseDurationMinutes(rawDuration)
	if err != nil {
		return records.Session{}, fmt.Errorf("parsing duration %q: %w", rawDuration, err)
	}

	mood := records.Mood(strings.ToLower(logMood))
	if !mood.Valid() {
		return records.Session{}, fmt.Errorf("unknown mood %q (want great, good, okay, or struggled)", logMood)
	}

	at := nowFunc()
	if logAt != "" {
		at = records.ParseTimestamp(logAt)
		if at.IsZero() {
			return records.Session{}, fmt.Errorf("invalid --at %q (want RFC3339, 2006-01-02T15:04, or 2006-01-02)", logAt)
		}
	}

	s := records.Session{
		Timestamp:       at,
		DurationMinutes: minutes,
		Subject:         subject,
		Mood:            mood,
		Reflection:      logReflection,
		Task:            logTask,
	}
	if cmd.Flags().Changed("xp") {
		if !isFinite(logXP) || logXP < 0 {
			return records.Session{}, fmt.Errorf("--xp must be a non-negative number")
		}
		s.XPEarned = records.Float(logXP)
	}
	if cmd.Flags().Changed("difficulty") {
		if !isFinite(logDifficulty) || logDifficulty <= 0 {
			return records.Session{}, fmt.Errorf("--difficulty must be a positive number")
		}
		s.Difficulty = records.Float(logDifficulty)
	}
	if cmd.Flags().Changed("exam") {
		if !isFinite(logExam) || logExam < 0 || logExam > 100 {
			return records.Session{}, fmt.Errorf("--exam %.1f is outside range [0, 100]", logExam)
		}
		s.MockExamScore = records.Float(logExam)
	}
	return s, nil
}

// parseDurationMinutes converts "45", "45m", "1.5h", or "90s" to minutes.
func parseDurationMinutes(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty duration")
	}

	scale := 1.0
	numStr := raw
	switch raw[len(raw)-1] {
	case 's', 'S':
		scale, numStr = 1.0/60, raw[:len(raw)-1]
	case 'm', 'M':
		numStr = raw[:len(raw)-1]
	case 'h', 'H':
		scale, numStr = 60, raw[:len(raw)-1]
	}

	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, fmt.Errorf("expected a number with an optional h, m, or s suffix")
	}
	if !isFinite(num) || num <= 0 {
		return 0, fmt.Errorf("duration must be a positive number")
	}
	return num * scale, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// truncateID shortens a UUID for display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
