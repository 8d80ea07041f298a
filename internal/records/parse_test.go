package records

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{"rfc3339", "2026-01-10T10:00:00Z", false},
		{"rfc3339 nano", "2026-01-10T10:00:00.123456789+02:00", false},
		{"no zone", "2026-01-10T10:00:00", false},
		{"no seconds", "2026-01-10T10:00", false},
		{"date only", "2026-01-10", false},
		{"empty", "", true},
		{"garbage", "yesterday", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseTimestamp(tc.input)
			assert.Equal(t, tc.zero, got.IsZero())
		})
	}
}

func TestParseTimestamp_LocalWithoutZone(t *testing.T) {
	got := ParseTimestamp("2026-03-02T08:30:00")
	assert.Equal(t, time.Local, got.Location())
	assert.Equal(t, 8, got.Hour())
}

func TestParseSet(t *testing.T) {
	doc := `{
		"sessions": [
			{"timestamp": "2026-01-12T09:00:00Z", "duration_minutes": 30, "subject": "Math", "mood": "great"},
			{"timestamp": "bad", "duration_minutes": 15, "subject": "Physics", "mood": "ecstatic", "xp_earned": 99}
		],
		"tasks": [
			{"id": "t1", "name": "Problem set", "done": true, "done_at": "2026-01-12T10:00:00Z"},
			{"id": "t2", "name": "Read ch. 4", "scheduled_date": "2026-01-20"}
		],
		"subjects": [{"name": "Math", "color": "#ff0000", "goal_hours": 5}]
	}`

	set, err := ParseSet([]byte(doc))
	require.NoError(t, err)
	require.Len(t, set.Sessions, 2)
	require.Len(t, set.Tasks, 2)
	require.Len(t, set.Subjects, 1)

	assert.Equal(t, MoodGreat, set.Sessions[0].Mood)
	assert.True(t, set.Sessions[0].HasTimestamp())
	assert.False(t, set.Sessions[1].HasTimestamp())
	assert.Equal(t, Mood(""), set.Sessions[1].Mood, "unknown moods are dropped")
	assert.Equal(t, 99.0, set.Sessions[1].XP())

	require.NotNil(t, set.Tasks[0].DoneAt)
	assert.Nil(t, set.Tasks[0].ScheduledDate)
	require.NotNil(t, set.Tasks[1].ScheduledDate)
	assert.Equal(t, "#ff0000", set.Subjects[0].Color)
}

func TestParseSet_Invalid(t *testing.T) {
	_, err := ParseSet([]byte("{not json"))
	assert.Error(t, err)
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("a.json", `{"sessions":[{"timestamp":"2026-01-12T09:00:00Z","duration_minutes":30,"subject":"Math"}]}`)
	write("b.json", `{"subjects":[{"name":"Math","goal_hours":3}]}`)
	write("broken.json", `{`)
	write("notes.txt", `ignored`)

	set, skipped, err := ParseDir(dir)
	require.NoError(t, err)
	assert.Len(t, set.Sessions, 1)
	assert.Len(t, set.Subjects, 1)
	assert.Equal(t, []string{"broken.json"}, skipped)
}

func TestParseDir_Missing(t *testing.T) {
	set, skipped, err := ParseDir(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, set.Sessions)
	assert.Empty(t, skipped)
}

func TestSessionDerivedValues(t *testing.T) {
	tests := []struct {
		name       string
		session    Session
		minutes    float64
		xp         float64
		difficulty float64
	}{
		{"plain", Session{DurationMinutes: 30}, 30, 300, 1},
		{"negative duration", Session{DurationMinutes: -5}, 0, 0, 1},
		{"explicit xp", Session{DurationMinutes: 30, XPEarned: Float(50)}, 30, 50, 1},
		{"difficulty", Session{DurationMinutes: 10, Difficulty: Float(2.5)}, 10, 100, 2.5},
		{"infinite xp", Session{DurationMinutes: 10, XPEarned: Float(math.Inf(1))}, 10, 100, 1},
		{"nan xp", Session{DurationMinutes: 10, XPEarned: Float(math.NaN())}, 10, 100, 1},
		{"huge xp", Session{DurationMinutes: 10, XPEarned: Float(1e308)}, 10, MaxValue, 1},
		{"nan difficulty", Session{DurationMinutes: 10, Difficulty: Float(math.NaN())}, 10, 100, 1},
		{"infinite duration", Session{DurationMinutes: math.Inf(1)}, 0, 0, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.minutes, tc.session.Minutes())
			assert.Equal(t, tc.xp, tc.session.XP())
			assert.Equal(t, tc.difficulty, tc.session.DifficultyOrDefault())
		})
	}
}

func TestMood(t *testing.T) {
	assert.True(t, MoodGreat.Positive())
	assert.True(t, MoodGood.Positive())
	assert.False(t, MoodOkay.Positive())
	assert.False(t, Mood("").Positive())
	assert.True(t, Mood("").Valid())
	assert.False(t, Mood("meh").Valid())
}

func TestSessionExamScore(t *testing.T) {
	_, ok := Session{}.ExamScore()
	assert.False(t, ok)

	_, ok = Session{MockExamScore: Float(math.NaN())}.ExamScore()
	assert.False(t, ok)

	score, ok := Session{MockExamScore: Float(130)}.ExamScore()
	assert.True(t, ok)
	assert.Equal(t, 100.0, score)

	score, ok = Session{MockExamScore: Float(72)}.ExamScore()
	assert.True(t, ok)
	assert.Equal(t, 72.0, score)
}

func TestSessionSanitized(t *testing.T) {
	s := Session{
		DurationMinutes: math.NaN(),
		XPEarned:        Float(math.Inf(1)),
		Difficulty:      Float(math.Inf(-1)),
		MockExamScore:   Float(math.NaN()),
	}.Sanitized()

	assert.Equal(t, 0.0, s.DurationMinutes)
	assert.Nil(t, s.XPEarned)
	assert.Nil(t, s.Difficulty)
	assert.Nil(t, s.MockExamScore)

	_, err := json.Marshal(s)
	assert.NoError(t, err)

	kept := Session{DurationMinutes: 30, XPEarned: Float(120), MockExamScore: Float(88)}.Sanitized()
	assert.Equal(t, 120.0, *kept.XPEarned)
	assert.Equal(t, 88.0, *kept.MockExamScore)
}

func TestSubjectGoal(t *testing.T) {
	assert.Equal(t, 3.0, Subject{GoalHours: 3}.Goal())
	assert.Equal(t, 0.0, Subject{GoalHours: -2}.Goal())
	assert.Equal(t, 0.0, Subject{GoalHours: math.NaN()}.Goal())
	assert.Equal(t, 0.0, Subject{GoalHours: math.Inf(1)}.Goal())
}
