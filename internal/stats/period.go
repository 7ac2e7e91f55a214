package stats

import (
	"fmt"
	"time"
)

// Period selects the calendar span of a stats query window.
type Period int

const (
	// PeriodDay spans one local calendar day.
	PeriodDay Period = iota + 1
	// PeriodWeek spans the Monday-aligned ISO week containing the day.
	PeriodWeek
	// PeriodMonth spans one calendar month.
	PeriodMonth
	// PeriodYear spans one calendar year.
	PeriodYear
)

// ValidPeriods lists the accepted textual period names.
var ValidPeriods = []string{"day", "week", "month", "year"}

// ParsePeriod converts a textual period name into a Period.
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "day":
		return PeriodDay, nil
	case "week":
		return PeriodWeek, nil
	case "month":
		return PeriodMonth, nil
	case "year":
		return PeriodYear, nil
	default:
		return 0, fmt.Errorf("invalid period %q: must be one of %v", s, ValidPeriods)
	}
}

// String returns the textual period name.
func (p Period) String() string {
	switch p {
	case PeriodDay:
		return "day"
	case PeriodWeek:
		return "week"
	case PeriodMonth:
		return "month"
	case PeriodYear:
		return "year"
	default:
		return fmt.Sprintf("Period(%d)", int(p))
	}
}

// Window computes the half-open query window [start, end) in loc for the
// given query parameters:
//
//   - PeriodDay: [midnight(day), midnight(day+1))
//   - PeriodWeek: the Monday-aligned 7-day window containing day
//     (ISO weekday numbering, Monday first)
//   - PeriodMonth: [1st of month, 1st of next month)
//   - PeriodYear: [Jan 1, Jan 1 of next year)
//
// day is ignored for month and year windows. The same location must be used
// for the window and for bucketing the fetched events; mixing zones is a
// correctness bug.
func Window(year int, month time.Month, day int, period Period, loc *time.Location) (start, end time.Time) {
	switch period {
	case PeriodDay:
		start = time.Date(year, month, day, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 1)
	case PeriodWeek:
		d := time.Date(year, month, day, 0, 0, 0, 0, loc)
		// time.Weekday numbers Sunday as 0; shift so Monday is 0.
		offset := (int(d.Weekday()) + 6) % 7
		start = d.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case PeriodMonth:
		start = time.Date(year, month, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0)
	case PeriodYear:
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0)
	default:
		return time.Time{}, time.Time{}
	}
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
