package service

import "time"

// dayUTC truncates t to its calendar day at midnight UTC.
// All series in this package are keyed on days produced by this function.
func dayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// calendarDays returns every calendar day in [start, end), end-exclusive.
// Returns nil when the range is empty or inverted.
func calendarDays(start, end time.Time) []time.Time {
	start = dayUTC(start)
	end = dayUTC(end)
	if !start.Before(end) {
		return nil
	}

	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24))
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
