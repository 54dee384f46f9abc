package models

import "time"

// DateLayout is the wire format of every calendar date in the API.
const DateLayout = "2006-01-02"

// ParseDate parses a yyyy-mm-dd calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders the calendar date of t, ignoring time of day.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysInclusive counts calendar days from start to end with both endpoints
// included. It is zero or negative when end precedes start.
func DaysInclusive(start, end time.Time) int {
	return int((Day(end).Unix()-Day(start).Unix())/secondsPerDay) + 1
}

const secondsPerDay = 24 * 60 * 60
