// Package calendar holds the day-boundary helpers used by attendance bookkeeping.
// Every function works in the location carried by its time argument, so callers
// convert instants into the configured business timezone first.
package calendar

import "time"

// DateLayout is the calendar date format used at the API boundary.
const DateLayout = "2006-01-02"

// StartOfDay returns midnight of t's calendar date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's calendar date in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// IsWorkingDay reports whether t falls on Monday through Friday.
func IsWorkingDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// CountWorkingDays counts working dates in [start, end], both inclusive.
// Only the calendar dates matter; an end before start yields zero.
func CountWorkingDays(start, end time.Time) int {
	day := StartOfDay(start)
	last := StartOfDay(end.In(start.Location()))

	count := 0
	for !day.After(last) {
		if IsWorkingDay(day) {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}

// MonthRange returns the first and last instant of a 1-indexed month in loc.
func MonthRange(year, month int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := EndOfDay(start.AddDate(0, 1, -1))
	return start, end
}

// MinTime returns the earlier of a and b.
func MinTime(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, loc)
}

// FormatDate renders t's calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// LastNDays returns the n calendar days ending with today, oldest first.
func LastNDays(today time.Time, n int) []time.Time {
	base := StartOfDay(today)
	days := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, base.AddDate(0, 0, -i))
	}
	return days
}
