// Package watcher provides background monitoring of the study record store,
// detecting new sessions, streak changes, and goals and emitting alerts.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/studywatch/internal/analytics"
	"github.com/blackwell-systems/studywatch/internal/logger"
	"github.com/blackwell-systems/studywatch/internal/records"
)

// debounceInterval coalesces the burst of writes one logged session causes
// (database file, WAL, shared memory).
const debounceInterval = 250 * time.Millisecond

// riskHour is the local hour after which an unextended streak is at risk.
const riskHour = 18

// State captures a point-in-time summary of the study history.
type State struct {
	Timestamp     time.Time
	SessionCount  int
	CurrentStreak int
	LongestStreak int
	// StreakAtRisk is set after riskHour when yesterday extended a streak
	// and today has no session yet.
	StreakAtRisk bool
	TodayMinutes float64
	Trend        analytics.Trend
	// GoalsMet lists subjects whose weekly goal is reached.
	GoalsMet map[string]bool

	sessions map[string]records.Session
}

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level   string // "info", "warning"
	Title   string
	Message string
	Time    time.Time
}

// Loader returns the current record set to analyze.
type Loader func(ctx context.Context) (analytics.Input, error)

// Watcher re-analyzes the study history whenever the store changes, or at a
// regular interval, and emits alerts when notable changes are detected.
type Watcher struct {
	load          Loader
	dir           string
	interval      time.Duration
	previous      *State
	alertFn       func(Alert)     // callback for emitting alerts
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts
	now           func() time.Time
}

// New creates a Watcher. dir is watched for file changes; an empty dir
// leaves only the interval tick.
func New(load Loader, dir string, interval time.Duration, alertFn func(Alert)) *Watcher {
	return &Watcher{
		load:          load,
		dir:           dir,
		interval:      interval,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
		now:           time.Now,
	}
}

// Prime takes the baseline snapshot later checks compare against and returns
// it.
func (w *Watcher) Prime(ctx context.Context) (*State, error) {
	initial, err := w.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("initial snapshot: %w", err)
	}
	w.previous = initial
	return initial, nil
}

// Run starts the watch loop, priming the baseline first unless Prime was
// already called. It then checks on every debounced change to dir and at
// every interval. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w.previous == nil {
		if _, err := w.Prime(ctx); err != nil {
			return err
		}
	}

	var events <-chan fsnotify.Event
	var errs <-chan error
	if w.dir != "" {
		fw, err := fsnotify.NewWatcher()
		if err != nil {
			logger.Warn("file watching unavailable, polling only", "error", err)
		} else {
			defer func() {
				if err := fw.Close(); err != nil {
					logger.Error("failed to close file watcher", "error", err)
				}
			}()
			if err := fw.Add(w.dir); err != nil {
				logger.Warn("cannot watch directory, polling only", "dir", w.dir, "error", err)
			} else {
				events, errs = fw.Events, fw.Errors
			}
		}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	debounce := time.NewTimer(debounceInterval)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("store changed", "file", filepath.Base(ev.Name), "op", ev.Op.String())
			debounce.Reset(debounceInterval)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("file watcher error", "error", err)
		case <-debounce.C:
			w.emit(w.Check(ctx))
		case <-ticker.C:
			w.emit(w.Check(ctx))
		}
	}
}

func (w *Watcher) emit(alerts []Alert) {
	if w.alertFn == nil {
		return
	}
	for _, a := range alerts {
		w.alertFn(a)
	}
}

// Check performs a single check cycle: takes a new snapshot, compares against
// the previous state, updates the previous state, and returns any alerts.
// Identical alerts are suppressed until the underlying data changes.
func (w *Watcher) Check(ctx context.Context) []Alert {
	curr, err := w.Snapshot(ctx)
	if err != nil {
		return []Alert{{
			Level:   "warning",
			Title:   "Snapshot failed",
			Message: fmt.Sprintf("Could not read study records: %v", err),
			Time:    w.now(),
		}}
	}

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr)
	}

	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys

	w.previous = curr
	return alerts
}

// Snapshot loads the records and summarizes them as a State.
func (w *Watcher) Snapshot(ctx context.Context) (*State, error) {
	in, err := w.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	in.Now = w.now()
	in.Range = analytics.RangeWeek
	in.Premium = false
	return NewState(analytics.Build(in), in.Sessions), nil
}

// NewState derives the watched figures from a weekly report and the full
// session history it was built from.
func NewState(r *analytics.Report, sessions []records.Session) *State {
	now := r.GeneratedAt
	s := &State{
		Timestamp:     now,
		SessionCount:  len(sessions),
		CurrentStreak: r.Streaks.Current,
		LongestStreak: r.Streaks.Longest,
		Trend:         r.Velocity.Trend,
		GoalsMet:      make(map[string]bool),
		sessions:      make(map[string]records.Session, len(sessions)),
	}
	for i, sess := range sessions {
		id := sess.ID
		if id == "" {
			id = fmt.Sprintf("#%d", i)
		}
		s.sessions[id] = sess
	}

	loc := now.Location()
	dates := analytics.StudyDates(sessions, loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, sess := range sessions {
		if sess.HasTimestamp() {
			local := sess.Timestamp.In(loc)
			if local.Year() == now.Year() && local.YearDay() == now.YearDay() {
				s.TodayMinutes += sess.Minutes()
			}
		}
	}
	if !dates.Has(today) && now.Hour() >= riskHour {
		s.StreakAtRisk = analytics.CurrentStreak(dates, now.AddDate(0, 0, -1)) > 0
	}

	for _, g := range r.Goals {
		if g.GoalHours > 0 && g.ActualHours >= g.GoalHours {
			s.GoalsMet[g.Subject] = true
		}
	}
	return s
}

// newSessions returns sessions present in curr but not in prev, oldest first.
func newSessions(prev, curr *State) []records.Session {
	var out []records.Session
	for id, s := range curr.sessions {
		if _, ok := prev.sessions[id]; !ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
