// Package calendar computes the ISO week windows used to seed weekly sprints.
package calendar

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Window is one weekly sprint: Saturday 00:00:00 through the following
// Friday 23:59:59.
type Window struct {
	Year  int       `json:"year"`
	Week  int       `json:"week"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WeeksInYear returns the number of ISO weeks in year. 28 December always
// falls in the last ISO week, so its week number is the count.
func WeeksInYear(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// WeekMonday returns Monday 00:00 of the given ISO week in loc.
func WeekMonday(year, week int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	// 4 January is always in ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	offset := (int(jan4.Weekday()) + 6) % 7
	return time.Date(year, time.January, 4-offset+7*(week-1), 0, 0, 0, 0, loc)
}

// WeekSaturday returns Saturday 00:00 of the given ISO week in loc.
func WeekSaturday(year, week int, loc *time.Location) time.Time {
	monday := WeekMonday(year, week, loc)
	return time.Date(monday.Year(), monday.Month(), monday.Day()+5, 0, 0, 0, 0, monday.Location())
}

// WindowFor returns the sprint window starting on the Saturday of the ISO week.
func WindowFor(year, week int, loc *time.Location) Window {
	start := WeekSaturday(year, week, loc)
	end := time.Date(start.Year(), start.Month(), start.Day()+6, 23, 59, 59, 0, start.Location())
	return Window{Year: year, Week: week, Start: start, End: end}
}

// WeeklySprints returns the windows for ISO weeks firstWeek onwards. numWeeks
// of 0 runs through the last ISO week of year. Weeks whose Saturday falls in
// another calendar year are left out.
func WeeklySprints(year, firstWeek, numWeeks int, loc *time.Location) ([]Window, error) {
	total := WeeksInYear(year)
	if firstWeek < 1 || firstWeek > total {
		return nil, errors.Newf("first week %d out of range 1..%d for %d", firstWeek, total, year)
	}
	if numWeeks < 0 {
		return nil, errors.Newf("negative number of weeks: %d", numWeeks)
	}

	last := total
	if numWeeks > 0 && firstWeek+numWeeks-1 < total {
		last = firstWeek + numWeeks - 1
	}

	windows := make([]Window, 0, last-firstWeek+1)
	for week := firstWeek; week <= last; week++ {
		w := WindowFor(year, week, loc)
		if w.Start.Year() != year {
			continue
		}
		windows = append(windows, w)
	}
	return windows, nil
}
