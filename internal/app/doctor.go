package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/studywatch/internal/config"
	"github.com/blackwell-systems/studywatch/internal/output"
	"github.com/blackwell-systems/studywatch/internal/records"
	"github.com/blackwell-systems/studywatch/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check whether the studywatch setup is healthy",
	Long: `Run a series of health checks against your studywatch configuration
and database. Prints a pass/fail line for each check and a summary of how
many checks passed.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorCheck holds the result of a single health check.
type doctorCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// doctorOutput is the JSON-serializable result of the doctor command.
type doctorOutput struct {
	Checks      []doctorCheck `json:"checks"`
	PassedCount int           `json:"passed"`
	TotalCount  int           `json:"total"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	output.ConfigureColor(flagNoColor, cfg.Output.Color)

	checks := []doctorCheck{checkConfigFile(flagConfig)}

	db, dbCheck := checkDatabase(cfg.DBPath)
	checks = append(checks, dbCheck)
	if db != nil {
		defer func() { _ = db.Close() }()
		checks = append(checks, checkSchema(db), checkSessionData(db), checkGoals(db))
	}
	checks = append(checks, checkWatchDir(cfg.DBPath))

	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}

	if flagJSON {
		return writeJSON(os.Stdout, doctorOutput{
			Checks:      checks,
			PassedCount: passed,
			TotalCount:  len(checks),
		})
	}

	fmt.Println(output.Section("Doctor"))
	fmt.Println()

	for _, c := range checks {
		renderDoctorCheck(c)
	}

	fmt.Println()
	summary := fmt.Sprintf("%d/%d checks passed", passed, len(checks))
	if passed == len(checks) {
		fmt.Printf(" %s\n\n", output.StyleSuccess.Render(summary))
	} else {
		fmt.Printf(" %s\n\n", output.StyleWarning.Render(summary))
	}
	return nil
}

// renderDoctorCheck prints a single check result line.
func renderDoctorCheck(c doctorCheck) {
	var indicator string
	if c.Passed {
		indicator = output.StyleSuccess.Render("✓")
	} else {
		indicator = output.StyleWarning.Render("✗")
	}
	label := output.StyleBold.Render(c.Name)
	detail := output.StyleMuted.Render(c.Message)
	fmt.Printf("  %s  %-30s %s\n", indicator, label, detail)
}

// checkConfigFile reports which config file is in effect. A missing default
// file passes because every key has a default.
func checkConfigFile(explicit string) doctorCheck {
	path := explicit
	if path == "" {
		path = filepath.Join(config.ConfigDir(), config.DefaultConfigFile)
	}
	if _, err := os.Stat(path); err != nil {
		if explicit != "" {
			return doctorCheck{Name: "Config file", Passed: false, Message: fmt.Sprintf("not found: %s", path)}
		}
		return doctorCheck{Name: "Config file", Passed: true, Message: "using defaults (no config.yaml)"}
	}
	return doctorCheck{Name: "Config file", Passed: true, Message: path}
}

// checkDatabase opens the database, creating it when missing. The returned
// DB is nil when the check fails.
func checkDatabase(path string) (*store.DB, doctorCheck) {
	db, err := store.Open(path)
	if err != nil {
		return nil, doctorCheck{Name: "SQLite database", Passed: false, Message: err.Error()}
	}
	return db, doctorCheck{Name: "SQLite database", Passed: true, Message: path}
}

func checkSchema(db *store.DB) doctorCheck {
	v, err := db.SchemaVersion()
	if err != nil {
		return doctorCheck{Name: "Schema", Passed: false, Message: fmt.Sprintf("reading version: %v", err)}
	}
	return doctorCheck{Name: "Schema", Passed: true, Message: fmt.Sprintf("version %d", v)}
}

// checkSessionData verifies that at least one session is stored.
func checkSessionData(db *store.DB) doctorCheck {
	n, err := db.CountSessions()
	if err != nil {
		return doctorCheck{Name: "Session data", Passed: false, Message: fmt.Sprintf("error reading sessions: %v", err)}
	}
	if n == 0 {
		return doctorCheck{Name: "Session data", Passed: false, Message: "no sessions yet (run 'studywatch log' or 'studywatch import')"}
	}
	return doctorCheck{Name: "Session data", Passed: true, Message: fmt.Sprintf("%d sessions found", n)}
}

// checkGoals counts subjects with a weekly goal set.
func checkGoals(db *store.DB) doctorCheck {
	subjects, err := db.ListSubjects()
	if err != nil {
		return doctorCheck{Name: "Weekly goals", Passed: false, Message: fmt.Sprintf("error reading subjects: %v", err)}
	}
	return goalsCheck(subjects)
}

func goalsCheck(subjects []records.Subject) doctorCheck {
	withGoal := 0
	for _, s := range subjects {
		if s.Goal() > 0 {
			withGoal++
		}
	}
	if withGoal == 0 {
		return doctorCheck{Name: "Weekly goals", Passed: false, Message: "no goals set (run 'studywatch subject set <name> --goal <hours>')"}
	}
	return doctorCheck{Name: "Weekly goals", Passed: true, Message: fmt.Sprintf("%d/%d subjects have a goal", withGoal, len(subjects))}
}

// checkWatchDir verifies that the database directory can be watched for
// changes.
func checkWatchDir(dbPath string) doctorCheck {
	dir := filepath.Dir(dbPath)
	info, err := os.Stat(dir)
	if err != nil {
		return doctorCheck{Name: "Watch directory", Passed: false, Message: fmt.Sprintf("not found: %s", dir)}
	}
	if !info.IsDir() {
		return doctorCheck{Name: "Watch directory", Passed: false, Message: fmt.Sprintf("not a directory: %s", dir)}
	}
	return doctorCheck{Name: "Watch directory", Passed: true, Message: dir}
}
