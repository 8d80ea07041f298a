package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/studywatch/internal/analytics"
	"github.com/blackwell-systems/studywatch/internal/config"
	"github.com/blackwell-systems/studywatch/internal/output"
	"github.com/blackwell-systems/studywatch/internal/records"
	"github.com/blackwell-systems/studywatch/internal/store"
)

// nowFunc is the clock every command reports against.
var nowFunc = time.Now

// setup loads configuration, applies color preferences, and opens the store.
// Callers must close the returned DB.
func setup() (*config.Config, *store.DB, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	output.ConfigureColor(flagNoColor, cfg.Output.Color)

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return cfg, db, nil
}

// loadRecords reads sessions, tasks, and subjects from the store in parallel.
func loadRecords(ctx context.Context, db *store.DB) (*records.Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var set records.Set
	var g errgroup.Group
	g.Go(func() error {
		sessions, err := db.ListSessions()
		set.Sessions = sessions
		return err
	})
	g.Go(func() error {
		tasks, err := db.ListTasks()
		set.Tasks = tasks
		return err
	})
	g.Go(func() error {
		subjects, err := db.ListSubjects()
		set.Subjects = subjects
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	return &set, nil
}

// reportOptions selects which report to build from a record set.
type reportOptions struct {
	Range   analytics.TimeRange
	Month   string
	Premium bool
}

// resolveOptions merges command flags with configured defaults. An explicit
// --month implies the month range.
func resolveOptions(cfg *config.Config, rangeFlag, monthFlag string, premiumFlag bool) (reportOptions, error) {
	opts := reportOptions{Month: monthFlag, Premium: premiumFlag || cfg.Premium}

	name := rangeFlag
	if monthFlag != "" {
		if _, err := time.Parse("2006-01", monthFlag); err != nil {
			return opts, fmt.Errorf("invalid month %q (want YYYY-MM)", monthFlag)
		}
		if name == "" {
			name = string(analytics.RangeMonth)
		}
		if name != string(analytics.RangeMonth) {
			return opts, fmt.Errorf("--month only applies to the month range, got %q", name)
		}
	}
	if name == "" {
		name = cfg.DefaultRange
	}

	rng, err := analytics.ParseTimeRange(name)
	if err != nil {
		return opts, err
	}
	opts.Range = rng
	return opts, nil
}

// buildInput assembles the analytics input for one report.
func buildInput(cfg *config.Config, set *records.Set, opts reportOptions) analytics.Input {
	return analytics.Input{
		Sessions:              set.Sessions,
		Tasks:                 set.Tasks,
		Subjects:              set.Subjects,
		Range:                 opts.Range,
		SelectedMonth:         opts.Month,
		Premium:               opts.Premium,
		Now:                   nowFunc(),
		DisplayCeilingMinutes: cfg.DisplayCeilingMinutes,
	}
}

// writeJSON encodes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// chartWidth is the bar width left after labels and values for the
// configured terminal width.
func chartWidth(cfg *config.Config) int {
	return max(cfg.Output.Width-30, 20)
}
