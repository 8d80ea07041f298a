package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/studywatch/internal/records"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("not found")

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func formatOptionalTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func parseOptionalTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := parseTime(ns.String)
	if t.IsZero() {
		return nil
	}
	return &t
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

// InsertSession stores s, assigning a new ID when s.ID is empty, and returns
// the ID used.
func (db *DB) InsertSession(s records.Session) (string, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if _, err := insertSession(db.conn, "INSERT", s); err != nil {
		return "", fmt.Errorf("inserting session: %w", err)
	}
	return s.ID, nil
}

func insertSession(e execer, verb string, s records.Session) (sql.Result, error) {
	s = s.Sanitized()
	return e.Exec(
		verb+` INTO sessions
		(id, started_at, duration_minutes, subject, mood, xp_earned, difficulty,
		 mock_exam_score, reflection, task)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, formatTime(s.Timestamp), s.DurationMinutes, s.Subject, string(s.Mood),
		nullFloat(s.XPEarned), nullFloat(s.Difficulty), nullFloat(s.MockExamScore),
		s.Reflection, s.Task,
	)
}

// ListSessions returns every session, oldest first. Sessions without a
// timestamp sort before the rest.
func (db *DB) ListSessions() ([]records.Session, error) {
	rows, err := db.conn.Query(
		`SELECT id, started_at, duration_minutes, subject, mood, xp_earned, difficulty,
		 mock_exam_score, reflection, task
		 FROM sessions ORDER BY started_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []records.Session
	for rows.Next() {
		var s records.Session
		var startedAt, mood string
		var xp, difficulty, exam sql.NullFloat64
		if err := rows.Scan(&s.ID, &startedAt, &s.DurationMinutes, &s.Subject, &mood,
			&xp, &difficulty, &exam, &s.Reflection, &s.Task); err != nil {
			return nil, err
		}
		s.Timestamp = parseTime(startedAt)
		s.Mood = records.Mood(mood)
		s.XPEarned = floatPtr(xp)
		s.Difficulty = floatPtr(difficulty)
		s.MockExamScore = floatPtr(exam)
		sessions = append(sessions, s.Sanitized())
	}
	return sessions, rows.Err()
}

// CountSessions returns the number of stored sessions.
func (db *DB) CountSessions() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n)
	return n, err
}

// InsertTask stores t, assigning a new ID when t.ID is empty, and returns
// the ID used.
func (db *DB) InsertTask(t records.Task) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if _, err := insertTask(db.conn, "INSERT", t); err != nil {
		return "", fmt.Errorf("inserting task: %w", err)
	}
	return t.ID, nil
}

func insertTask(e execer, verb string, t records.Task) (sql.Result, error) {
	return e.Exec(
		verb+` INTO tasks (id, name, subject, done, done_at, scheduled_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Subject, t.Done, formatOptionalTime(t.DoneAt), formatOptionalTime(t.ScheduledDate),
	)
}

// CompleteTask marks the task with the given ID, or unique ID prefix, as
// done at the given time.
func (db *DB) CompleteTask(idOrPrefix string, at time.Time) (string, error) {
	rows, err := db.conn.Query("SELECT id FROM tasks WHERE id = ? OR id LIKE ? || '%'", idOrPrefix, idOrPrefix)
	if err != nil {
		return "", err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return "", err
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("task %q: %w", idOrPrefix, ErrNotFound)
	case 1:
	default:
		return "", fmt.Errorf("task prefix %q is ambiguous (%d matches)", idOrPrefix, len(ids))
	}

	if _, err := db.conn.Exec("UPDATE tasks SET done = true, done_at = ? WHERE id = ?", formatTime(at), ids[0]); err != nil {
		return "", fmt.Errorf("completing task: %w", err)
	}
	return ids[0], nil
}

// ListTasks returns every task, open tasks first and then by schedule.
func (db *DB) ListTasks() ([]records.Task, error) {
	rows, err := db.conn.Query(
		`SELECT id, name, subject, done, done_at, scheduled_date FROM tasks
		 ORDER BY done, scheduled_date IS NULL, scheduled_date, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []records.Task
	for rows.Next() {
		var t records.Task
		var doneAt, scheduled sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.Done, &doneAt, &scheduled); err != nil {
			return nil, err
		}
		t.DoneAt = parseOptionalTime(doneAt)
		t.ScheduledDate = parseOptionalTime(scheduled)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpsertSubject creates or replaces the subject with s.Name.
func (db *DB) UpsertSubject(s records.Subject) error {
	if s.Name == "" {
		return errors.New("subject name is required")
	}
	if _, err := upsertSubject(db.conn, s); err != nil {
		return fmt.Errorf("saving subject: %w", err)
	}
	return nil
}

func upsertSubject(e execer, s records.Subject) (sql.Result, error) {
	return e.Exec(
		`INSERT INTO subjects (name, color, goal_hours) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET color = excluded.color, goal_hours = excluded.goal_hours`,
		s.Name, s.Color, s.GoalHours,
	)
}

// ListSubjects returns every subject ordered by name.
func (db *DB) ListSubjects() ([]records.Subject, error) {
	rows, err := db.conn.Query("SELECT name, color, goal_hours FROM subjects ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying subjects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var subjects []records.Subject
	for rows.Next() {
		var s records.Subject
		if err := rows.Scan(&s.Name, &s.Color, &s.GoalHours); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// Import stores every record of set in a single transaction. Sessions and
// tasks without an ID get a fresh one; those whose ID already exists are
// skipped. Subjects are upserted.
func (db *DB) Import(set *records.Set) (ImportResult, error) {
	var res ImportResult
	tx, err := db.conn.Begin()
	if err != nil {
		return res, err
	}
	defer tx.Rollback()

	for _, s := range set.Sessions {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		r, err := insertSession(tx, "INSERT OR IGNORE", s)
		if err != nil {
			return res, fmt.Errorf("importing session %s: %w", s.ID, err)
		}
		if n, _ := r.RowsAffected(); n > 0 {
			res.Sessions++
		} else {
			res.Skipped++
		}
	}
	for _, t := range set.Tasks {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		r, err := insertTask(tx, "INSERT OR IGNORE", t)
		if err != nil {
			return res, fmt.Errorf("importing task %s: %w", t.ID, err)
		}
		if n, _ := r.RowsAffected(); n > 0 {
			res.Tasks++
		} else {
			res.Skipped++
		}
	}
	for _, s := range set.Subjects {
		if s.Name == "" {
			res.Skipped++
			continue
		}
		if _, err := upsertSubject(tx, s); err != nil {
			return res, fmt.Errorf("importing subject %s: %w", s.Name, err)
		}
		res.Subjects++
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, err
	}
	return res, nil
}
