package stats

import (
	"fmt"
	"time"

	"github.com/roach88/smokelog/internal/smoke"
)

// Stats is the derived, read-only aggregate for one query.
//
// Every histogram is fully enumerated up front: a bucket with zero events is
// present with count 0, so consumers must not treat a missing key as an
// error (there are none).
type Stats struct {
	// Daily counts events per day of month, for every day 1..daysInMonth.
	Daily map[int]int `json:"daily"`
	// Weekly counts events per weekday name across the whole input slice.
	Weekly map[string]int `json:"weekly"`
	// Monthly counts events per week-of-month bucket "W1".."W5", where an
	// event on day d falls in bucket ceil(d/7) and W5 captures days 29-31.
	Monthly map[string]int `json:"monthly"`
	// Yearly counts events per month abbreviation, for all 12 months.
	Yearly map[string]int `json:"yearly"`
	// Hourly counts events per "HH:00" key, for all 24 hours.
	Hourly map[string]int `json:"hourly"`

	// TotalMonth is the total count of the supplied slice. Named for the
	// common case where the slice covers one month.
	TotalMonth int `json:"totalMonth"`
	// TotalWeek is the rolling count of events in the trailing 7-day window
	// [localMidnight(now)-6d, localMidnight(now)+1d). Intentionally distinct
	// from Weekly.
	TotalWeek int `json:"totalWeek"`
	// TotalDay is the count of events on the queried day, 0 when no day was
	// supplied.
	TotalDay int `json:"totalDay"`
	// DailyAverage is TotalMonth divided by the number of days in the
	// queried month.
	DailyAverage float64 `json:"dailyAverage"`
}

// Compute aggregates the supplied events into histograms and totals.
//
// The caller is expected to fetch only events inside the Window for
// (year, month, day, period) and pass that slice together with the current
// instant. day == 0 means no day was supplied (month/year scoped queries).
//
// Hourly is computed over whatever slice was supplied even when day is 0;
// callers must pass a day-scoped slice to get a meaningful hourly breakdown.
//
// Compute is deterministic: the same inputs yield an identical Stats value.
func Compute(events []smoke.Smoke, year int, month time.Month, day int, period Period, now time.Time, loc *time.Location) Stats {
	s := Stats{
		Daily:   make(map[int]int, 31),
		Weekly:  make(map[string]int, 7),
		Monthly: make(map[string]int, 5),
		Yearly:  make(map[string]int, 12),
		Hourly:  make(map[string]int, 24),
	}

	// Enumerate every bucket so zero-count keys are always present.
	days := daysInMonth(year, month)
	for d := 1; d <= days; d++ {
		s.Daily[d] = 0
	}
	for wd := time.Weekday(0); wd < 7; wd++ {
		s.Weekly[wd.String()[:3]] = 0
	}
	for w := 1; w <= 5; w++ {
		s.Monthly[fmt.Sprintf("W%d", w)] = 0
	}
	for m := time.January; m <= time.December; m++ {
		s.Yearly[m.String()[:3]] = 0
	}
	for h := 0; h < 24; h++ {
		s.Hourly[hourKey(h)] = 0
	}

	// Rolling trailing-7-day window anchored to now, not to the query.
	nowLocal := now.In(loc)
	todayStart := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, loc)
	rollingStart := todayStart.AddDate(0, 0, -6)
	rollingEnd := todayStart.AddDate(0, 0, 1)

	for _, ev := range events {
		local := ev.OccurredAt.In(loc)

		if local.Year() == year && local.Month() == month {
			s.Daily[local.Day()]++
		}
		s.Weekly[local.Weekday().String()[:3]]++
		s.Monthly[weekOfMonthKey(local.Day())]++
		s.Yearly[local.Month().String()[:3]]++
		s.Hourly[hourKey(local.Hour())]++

		if !local.Before(rollingStart) && local.Before(rollingEnd) {
			s.TotalWeek++
		}
		if day != 0 && local.Year() == year && local.Month() == month && local.Day() == day {
			s.TotalDay++
		}
	}

	s.TotalMonth = len(events)
	s.DailyAverage = float64(s.TotalMonth) / float64(days)

	return s
}

// weekOfMonthKey maps a day of month to its "W1".."W5" bucket, ceil(day/7).
func weekOfMonthKey(day int) string {
	w := (day + 6) / 7
	if w > 5 {
		w = 5
	}
	return fmt.Sprintf("W%d", w)
}

func hourKey(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
