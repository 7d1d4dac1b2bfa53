// Package timezone provides tenant-local calendar helpers.
//
// Work dates are plain "YYYY-MM-DD" strings in the tenant's timezone; this
// package converts between them and wall-clock instants.
package timezone

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date layout used for work dates.
const DateLayout = "2006-01-02"

// TimezoneUTC is the UTC timezone identifier.
const TimezoneUTC = "UTC"

// UTC is the coordinated universal time timezone.
var UTC = time.UTC

// ParseTimezone parses an IANA timezone identifier (e.g., "Australia/Sydney").
// If the timezone is invalid, returns UTC and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	if tz == "" || tz == TimezoneUTC {
		return UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return UTC, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	return loc, nil
}

// IsValidTimezone checks if a timezone identifier is valid.
func IsValidTimezone(tz string) bool {
	_, err := ParseTimezone(tz)
	return err == nil
}

// StartOfDay returns the start of the day (00:00:00) in the given timezone.
func StartOfDay(t time.Time, tz *time.Location) time.Time {
	if tz == nil {
		tz = UTC
	}
	local := t.In(tz)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)
}

// DateIn returns the calendar date of t in the given timezone.
func DateIn(t time.Time, tz *time.Location) string {
	if tz == nil {
		tz = UTC
	}
	return t.In(tz).Format(DateLayout)
}

// ParseDate parses a strict "YYYY-MM-DD" work date.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return t, nil
}

// AddDays shifts a "YYYY-MM-DD" date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// DaysBetween returns the number of calendar days from one date to another.
// The result is negative when to is before from.
func DaysBetween(from, to string) (int, error) {
	f, err := ParseDate(from)
	if err != nil {
		return 0, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return 0, err
	}
	// Both are UTC midnights, so the difference is a whole number of days.
	return int(t.Sub(f).Hours() / 24), nil
}

// DayLabel names a work date relative to today: "today", "yesterday", otherwise the weekday.
func DayLabel(date, today string) string {
	d, err := ParseDate(date)
	if err != nil {
		return date
	}
	diff, err := DaysBetween(date, today)
	if err != nil {
		return date
	}

	switch diff {
	case 0:
		return "today"
	case 1:
		return "yesterday"
	default:
		return d.Weekday().String()
	}
}
