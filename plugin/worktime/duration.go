package worktime

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
)

// MinutesPerDay is the length of a calendar day in minutes.
const MinutesPerDay = 24 * 60

var canonicalPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ParseClock parses a canonical "HH:MM" value into minutes after midnight.
func ParseClock(hhmm string) (int, error) {
	m := canonicalPattern.FindStringSubmatch(hhmm)
	if m == nil {
		return 0, &ParseError{Input: hhmm, Reason: "expected HH:MM"}
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return hour*60 + minute, nil
}

// ElapsedMinutes returns the minutes worked between two canonical clock times.
// An end at or before the start is an overnight shift ending the next day.
func ElapsedMinutes(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, fmt.Errorf("start time: %w", err)
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, fmt.Errorf("end time: %w", err)
	}

	diff := e - s
	if diff <= 0 {
		diff += MinutesPerDay
	}
	return diff, nil
}

// Hours returns the elapsed hours between two canonical clock times, rounded to 2 decimals.
func Hours(start, end string) (float64, error) {
	minutes, err := ElapsedMinutes(start, end)
	if err != nil {
		return 0, err
	}
	return RoundHours(float64(minutes) / 60), nil
}

// ComputeDuration is the best-effort form of Hours: malformed input yields 0
// instead of an error so a spoken confirmation can always be produced.
func ComputeDuration(start, end string) float64 {
	hours, err := Hours(start, end)
	if err != nil {
		slog.Debug("duration fell back to zero", "start", start, "end", end, "error", err)
		return 0
	}
	return hours
}

// RoundHours rounds an hour value to 2 decimal places.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
