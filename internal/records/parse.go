package records

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// rawSet mirrors Set with string timestamps so imports can use any of the
// formats accepted by ParseTimestamp.
type rawSet struct {
	Sessions []rawSession `json:"sessions"`
	Tasks    []rawTask    `json:"tasks"`
	Subjects []Subject    `json:"subjects"`
}

type rawSession struct {
	ID              string   `json:"id"`
	Timestamp       string   `json:"timestamp"`
	DurationMinutes float64  `json:"duration_minutes"`
	Subject         string   `json:"subject"`
	Mood            Mood     `json:"mood"`
	XPEarned        *float64 `json:"xp_earned"`
	Difficulty      *float64 `json:"difficulty"`
	MockExamScore   *float64 `json:"mock_exam_score"`
	Reflection      string   `json:"reflection"`
	Task            string   `json:"task"`
}

type rawTask struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Subject       string `json:"subject"`
	Done          bool   `json:"done"`
	DoneAt        string `json:"done_at"`
	ScheduledDate string `json:"scheduled_date"`
}

// ParseSet decodes a JSON record document. Unknown moods are dropped rather
// than rejected.
func ParseSet(data []byte) (*Set, error) {
	var raw rawSet
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	set := &Set{Subjects: raw.Subjects}
	for _, rs := range raw.Sessions {
		mood := rs.Mood
		if !mood.Valid() {
			mood = ""
		}
		set.Sessions = append(set.Sessions, Session{
			ID:              rs.ID,
			Timestamp:       ParseTimestamp(rs.Timestamp),
			DurationMinutes: rs.DurationMinutes,
			Subject:         rs.Subject,
			Mood:            mood,
			XPEarned:        rs.XPEarned,
			Difficulty:      rs.Difficulty,
			MockExamScore:   rs.MockExamScore,
			Reflection:      rs.Reflection,
			Task:            rs.Task,
		}.Sanitized())
	}
	for _, rt := range raw.Tasks {
		set.Tasks = append(set.Tasks, Task{
			ID:            rt.ID,
			Name:          rt.Name,
			Subject:       rt.Subject,
			Done:          rt.Done,
			DoneAt:        optionalTime(rt.DoneAt),
			ScheduledDate: optionalTime(rt.ScheduledDate),
		})
	}
	return set, nil
}

// ParseFile reads a single record document.
func ParseFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	set, err := ParseSet(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return set, nil
}

// ParseDir reads all .json files from a directory and merges them into one
// Set. Files that fail to read or parse are skipped and reported in skipped.
// A missing directory yields an empty set.
func ParseDir(dir string) (set *Set, skipped []string, err error) {
	set = &Set{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return set, nil, nil
		}
		return nil, nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		part, err := ParseFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			skipped = append(skipped, entry.Name())
			continue
		}
		set.Sessions = append(set.Sessions, part.Sessions...)
		set.Tasks = append(set.Tasks, part.Tasks...)
		set.Subjects = append(set.Subjects, part.Subjects...)
	}
	return set, skipped, nil
}

// ParseTimestamp parses a timestamp string. It tries RFC3339Nano, RFC3339,
// a plain local datetime with or without seconds, and a plain local date.
// Returns the zero time if the string is empty or matches none of them.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	// Strings without a zone are local wall-clock values.
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", s, time.Local); err == nil {
		return t
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

func optionalTime(s string) *time.Time {
	t := ParseTimestamp(s)
	if t.IsZero() {
		return nil
	}
	return &t
}
