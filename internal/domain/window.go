package domain

import "time"

// DayBounds returns the start of start's day and the last instant of end's
// day, each in the location its date carries.
func DayBounds(start, end time.Time) (time.Time, time.Time) {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	to := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, end.Location())
	return from, to
}
