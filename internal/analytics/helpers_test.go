package analytics

import (
	"time"

	"github.com/blackwell-systems/studywatch/internal/records"
)

// testNow is Wednesday 14 January 2026, noon UTC. Monday of that week is the
// 12th.
var testNow = time.Date(2026, time.January, 14, 12, 0, 0, 0, time.UTC)

func at(month time.Month, day, hour int) time.Time {
	return time.Date(2026, month, day, hour, 0, 0, 0, time.UTC)
}

func jan(day, hour int) time.Time {
	return at(time.January, day, hour)
}

func session(ts time.Time, minutes float64, subject string) records.Session {
	return records.Session{Timestamp: ts, DurationMinutes: minutes, Subject: subject}
}
