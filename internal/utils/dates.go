package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/cactolog/internal/constants"
)

// Day is a single cell of a month grid.
type Day struct {
	Date    string
	InMonth bool
}

// ToISODate returns the calendar date of t in its own location (YYYY-MM-DD).
func ToISODate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// Today returns the local calendar date of now.
func Today(now time.Time) string {
	return ToISODate(now.Local())
}

// ParseISODate parses a YYYY-MM-DD date, or an RFC3339 timestamp whose own calendar date is used.
// The result is midnight UTC so that day arithmetic never crosses a DST boundary.
func ParseISODate(s string) (time.Time, error) {
	if t, err := time.Parse(constants.DateFormat, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// NormalizeISODate reformats any date accepted by ParseISODate as YYYY-MM-DD.
func NormalizeISODate(s string) (string, error) {
	t, err := ParseISODate(s)
	if err != nil {
		return "", err
	}
	return ToISODate(t), nil
}

// AddDays adds a number of calendar days to an ISO date.
func AddDays(iso string, days int) (string, error) {
	t, err := ParseISODate(iso)
	if err != nil {
		return "", err
	}
	return ToISODate(t.AddDate(0, 0, days)), nil
}

// AddMonths adds calendar months to an ISO date, clamping the day to the end of the target month.
func AddMonths(iso string, months int) (string, error) {
	t, err := ParseISODate(iso)
	if err != nil {
		return "", err
	}
	year, month, day := t.Date()
	target := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := DaysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return ToISODate(time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC)), nil
}

// DiffDays returns a - b in whole calendar days.
func DiffDays(a, b string) (int, error) {
	ta, err := ParseISODate(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseISODate(b)
	if err != nil {
		return 0, err
	}
	return int(ta.Sub(tb).Hours() / 24), nil
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// InMonth reports whether an ISO date falls in the given year and month.
// Unparseable dates are never in any month.
func InMonth(iso string, year int, month time.Month) bool {
	t, err := ParseISODate(iso)
	if err != nil {
		return false
	}
	return t.Year() == year && t.Month() == month
}

// MonthMatrix returns a six week grid, Monday first, covering the given month.
func MonthMatrix(year int, month time.Month) [][]Day {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -offset)

	weeks := make([][]Day, 0, 6)
	for w := 0; w < 6; w++ {
		row := make([]Day, 0, 7)
		for d := 0; d < 7; d++ {
			cur := start.AddDate(0, 0, w*7+d)
			row = append(row, Day{Date: ToISODate(cur), InMonth: cur.Month() == month})
		}
		weeks = append(weeks, row)
	}
	return weeks
}

// ValidateTimeFormat checks if the string matches the HH:MM format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := time.Parse(constants.TimeFormat, timeStr)
	return err == nil
}
