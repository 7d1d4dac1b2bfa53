package timesheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hrygo/sitevoice/plugin/worktime"
	apperrors "github.com/hrygo/sitevoice/server/internal/errors"
	"github.com/hrygo/sitevoice/server/timezone"
	"github.com/hrygo/sitevoice/store"
)

// dateWindow bounds how far back a work date may be.
type dateWindow struct {
	days int
}

// check validates workDate against the session's current date.
func (w dateWindow) check(workDate, currentDate string) error {
	if _, err := timezone.ParseDate(workDate); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation,
			"I need the date as a day, month and year. Which day was this for?")
	}
	diff, err := timezone.DaysBetween(workDate, currentDate)
	if err != nil {
		return apperrors.Internal(err)
	}
	if diff < 0 {
		return apperrors.Validation("That date is in the future. Which day did you do the work?")
	}
	if diff > w.days {
		return apperrors.OutOfWindow(workDate, w.days)
	}
	return nil
}

// normalizeClock accepts canonical HH:MM or a spoken time and returns HH:MM.
func normalizeClock(label, value string) (string, error) {
	value = strings.TrimSpace(value)
	if _, err := worktime.ParseClock(value); err == nil {
		return value, nil
	}
	canonical, err := worktime.ParseColloquialTime(value)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeValidation,
			fmt.Sprintf("I didn't catch the %s time. Could you say it again, like seven thirty?", label))
	}
	return canonical, nil
}

// workedHours validates both clocks and returns the canonical pair with its duration.
func workedHours(start, end string) (string, string, float64, error) {
	start, err := normalizeClock("start", start)
	if err != nil {
		return "", "", 0, err
	}
	end, err = normalizeClock("finish", end)
	if err != nil {
		return "", "", 0, err
	}
	hours, err := worktime.Hours(start, end)
	if err != nil {
		return "", "", 0, apperrors.Internal(err)
	}
	return start, end, hours, nil
}

// withRetry runs a store call, retrying once. Failures that survive the retry
// become storage errors; version conflicts are returned untouched for the caller.
func withRetry[T any](ctx context.Context, op string, fn func() (T, error)) (T, error) {
	var zero T
	var err error
	for attempt := 1; attempt <= storageAttempts; attempt++ {
		var result T
		result, err = fn()
		if err == nil {
			return result, nil
		}
		if errors.Is(err, store.ErrVersionConflict) {
			return zero, err
		}
		slog.Warn("store call failed",
			"op", op,
			"attempt", attempt,
			"error", err)
		if ctx.Err() != nil {
			break
		}
	}
	return zero, apperrors.Storage(err)
}
