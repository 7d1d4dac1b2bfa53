package timesheet

// Package-level constants for timesheet logging.

const (
	// DefaultBackdateWindowDays is how far back a work date may be logged.
	DefaultBackdateWindowDays = 14

	// DefaultHistoryDays is the recent-history lookback when the caller gives none.
	DefaultHistoryDays = 14

	// MaxHistoryDays caps the recent-history lookback.
	MaxHistoryDays = 90

	// MaxSummaryDays is how many logged days the spoken summary names before counting the rest.
	MaxSummaryDays = 3

	// storageAttempts is the number of tries a store call gets before it is reported.
	storageAttempts = 2
)
