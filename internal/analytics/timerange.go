package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/blackwell-systems/studywatch/internal/records"
)

// TimeRange selects the window a report is scoped to.
type TimeRange string

const (
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeAll   TimeRange = "all"
)

// ParseTimeRange validates a user-supplied range name.
func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case RangeWeek, RangeMonth, RangeAll:
		return TimeRange(s), nil
	case "":
		return RangeWeek, nil
	}
	return "", fmt.Errorf("unknown time range %q (want week, month, or all)", s)
}

// MondayIndex is a weekday index with Monday=0 through Sunday=6. Bar charts
// and peak-day detection use this space.
type MondayIndex int

// SundayIndex is time.Weekday's convention, Sunday=0 through Saturday=6. The
// heatmap rows use this space.
type SundayIndex int

// ToMondayIndex is the only conversion between the two weekday spaces.
func ToMondayIndex(d SundayIndex) MondayIndex {
	return MondayIndex((int(d) + 6) % 7)
}

// WeekdayNames is indexed by MondayIndex.
var WeekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Window is a resolved reporting window. Start and End are zero for RangeAll.
type Window struct {
	Range TimeRange `json:"range"`
	Month string    `json:"month,omitempty"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Bounded reports whether the window filters anything.
func (w Window) Bounded() bool {
	return w.Range != RangeAll
}

// Contains reports whether t falls in [Start, End). Sessions without a
// timestamp only belong to unbounded windows.
func (w Window) Contains(t time.Time) bool {
	if !w.Bounded() {
		return true
	}
	if t.IsZero() {
		return false
	}
	return !t.Before(w.Start) && t.Before(w.End)
}

// TotalDays is the consistency denominator: 7 for a week, 30 for a month,
// and for RangeAll the number of distinct study dates itself. The RangeAll
// rule makes all-time consistency saturate near 100 and is kept as is.
func (w Window) TotalDays(distinctStudyDates int) int {
	switch w.Range {
	case RangeWeek:
		return 7
	case RangeMonth:
		return 30
	}
	return distinctStudyDates
}

// WeekStart returns the most recent Monday at local midnight not after t.
func WeekStart(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := int(ToMondayIndex(SundayIndex(t.Weekday())))
	return midnight.AddDate(0, 0, -offset)
}

// MonthStart returns the first day of t's month at local midnight.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// ResolveWindow computes the window for rng relative to now. selectedMonth
// ("YYYY-MM") replaces the current month for RangeMonth; an unparseable value
// falls back to the current month.
func ResolveWindow(now time.Time, rng TimeRange, selectedMonth string) Window {
	switch rng {
	case RangeMonth:
		start := MonthStart(now)
		if selectedMonth != "" {
			if m, err := time.ParseInLocation("2006-01", selectedMonth, now.Location()); err == nil {
				start = m
			}
		}
		return Window{
			Range: RangeMonth,
			Month: start.Format("2006-01"),
			Start: start,
			End:   start.AddDate(0, 1, 0),
		}
	case RangeAll:
		return Window{Range: RangeAll}
	default:
		start := WeekStart(now)
		return Window{Range: RangeWeek, Start: start, End: start.AddDate(0, 0, 7)}
	}
}

// Buckets is a window-filtered session set with dense grouping indices. Each
// group holds indices into Sessions; empty groups are present, never absent.
type Buckets struct {
	Window   Window
	Sessions []records.Session

	// ByWeekday is indexed by MondayIndex.
	ByWeekday [7][]int
	// ByHour is indexed by local hour of day.
	ByHour [24][]int
	// ByDayOfMonth is indexed by day-1 and only populated for RangeMonth.
	ByDayOfMonth [][]int
}

// Bucket filters sessions to the window and groups them. Sessions without a
// timestamp stay in the filtered set for RangeAll but are left out of every
// date-based group.
func Bucket(sessions []records.Session, w Window, loc *time.Location) Buckets {
	b := Buckets{Window: w}
	if w.Range == RangeMonth {
		b.ByDayOfMonth = make([][]int, daysInMonth(w.Start))
	} else {
		b.ByDayOfMonth = [][]int{}
	}

	for _, s := range sessions {
		if !w.Contains(s.Timestamp) {
			continue
		}
		idx := len(b.Sessions)
		b.Sessions = append(b.Sessions, s)
		if !s.HasTimestamp() {
			continue
		}
		local := s.Timestamp.In(loc)
		wd := ToMondayIndex(SundayIndex(local.Weekday()))
		b.ByWeekday[wd] = append(b.ByWeekday[wd], idx)
		b.ByHour[local.Hour()] = append(b.ByHour[local.Hour()], idx)
		if len(b.ByDayOfMonth) > 0 {
			b.ByDayOfMonth[local.Day()-1] = append(b.ByDayOfMonth[local.Day()-1], idx)
		}
	}
	return b
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// civilDate maps t to its local calendar date, expressed as midnight UTC so
// date arithmetic is free of DST shifts.
func civilDate(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns whole days from a to b for civil dates.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
