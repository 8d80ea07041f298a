package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/studywatch/internal/analytics"
	"github.com/blackwell-systems/studywatch/internal/config"
	"github.com/blackwell-systems/studywatch/internal/logger"
	"github.com/blackwell-systems/studywatch/internal/output"
	"github.com/blackwell-systems/studywatch/internal/store"
	"github.com/blackwell-systems/studywatch/internal/watcher"
)

const minWatchInterval = 30 * time.Second

var (
	watchInterval string
	watchNotify   bool
	watchQuiet    bool
	watchLogFile  string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for new sessions and alert on streaks and goals",
	Long: `Run a monitor that re-analyzes the study history whenever the database
changes, and at a regular interval. Notable events are printed and, with
--notify, sent as desktop notifications: new sessions, streak milestones,
a new longest streak, weekly goals reached, a declining trend, and a streak
at risk in the evening.

Examples:
  studywatch watch                     # run in foreground (ctrl-c to stop)
  studywatch watch --notify            # also send desktop notifications
  studywatch watch --interval 15m      # re-check every 15 minutes
  studywatch watch --quiet --log-file ~/.config/studywatch/watch.log`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchInterval, "interval", "", "Check interval as duration string (default from config, 5m)")
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "Send desktop notifications")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress terminal output, only notify and log")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "Append alerts and diagnostics to this file")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	interval, err := resolveInterval(watchInterval, cfg.Watch.Interval)
	if err != nil {
		return err
	}
	notify := watchNotify || cfg.Watch.Notify

	if watchLogFile != "" {
		logFile, err := os.OpenFile(watchLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer func() { _ = logFile.Close() }()
		logger.SetOutput(logFile)
		defer logger.SetOutput(os.Stderr)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	alertFn := func(a watcher.Alert) {
		if watchLogFile != "" {
			logger.Info("alert", "level", a.Level, "title", a.Title, "message", a.Message)
		}
		if notify {
			if err := watcher.Notify(a); err != nil {
				logger.Warn("notification failed", "error", err)
			}
		}
		if !watchQuiet {
			printAlert(a)
		}
	}

	w := watcher.New(storeLoader(db, cfg), filepath.Dir(db.Path()), interval, alertFn)

	initial, err := w.Prime(ctx)
	if err != nil {
		return err
	}
	if !watchQuiet {
		fmt.Printf("studywatch watching %s (checking every %s)\n", db.Path(), interval)
		fmt.Printf("[%s] %s %d sessions, %s streak, %s today\n",
			nowFunc().Format("15:04:05"),
			checkMark(),
			initial.SessionCount,
			output.StyleStreak.Render(fmt.Sprintf("%d-day", initial.CurrentStreak)),
			output.Duration(initial.TodayMinutes))
	}
	logger.Debug("watch started", "db", db.Path(), "interval", interval, "notify", notify)

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Debug("watch stopped")
		if !watchQuiet {
			fmt.Println("\nStopped.")
		}
		return nil
	}
	return err
}

// storeLoader reads the full record set from db for each watcher check.
func storeLoader(db *store.DB, cfg *config.Config) watcher.Loader {
	return func(ctx context.Context) (analytics.Input, error) {
		set, err := loadRecords(ctx, db)
		if err != nil {
			return analytics.Input{}, err
		}
		return buildInput(cfg, set, reportOptions{Range: analytics.RangeWeek}), nil
	}
}

// resolveInterval parses the --interval flag, falling back to the configured
// interval when the flag is empty.
func resolveInterval(flag string, configured time.Duration) (time.Duration, error) {
	interval := configured
	if flag != "" {
		d, err := time.ParseDuration(flag)
		if err != nil {
			return 0, fmt.Errorf("invalid interval %q: %w", flag, err)
		}
		interval = d
	}
	if interval < minWatchInterval {
		return 0, fmt.Errorf("interval must be at least %s, got %s", minWatchInterval, interval)
	}
	return interval, nil
}

// printAlert formats and prints an alert to the terminal.
func printAlert(a watcher.Alert) {
	timestamp := a.Time.Format("15:04:05")
	icon := alertIcon(a.Level)
	fmt.Printf("[%s] %s %s\n", timestamp, icon, output.StyleBold.Render(a.Title))
	if a.Message != "" {
		fmt.Printf("         %s\n", a.Message)
	}
}

// alertIcon returns the terminal indicator for an alert level.
func alertIcon(level string) string {
	switch level {
	case "warning":
		return output.StyleWarning.Render("\xe2\x9a\xa0\xef\xb8\x8f") // warning sign
	case "info":
		return output.StyleSuccess.Render(checkMark())
	default:
		return " "
	}
}

// checkMark returns a terminal check mark indicator.
func checkMark() string {
	return "\xe2\x9c\x93"
}
