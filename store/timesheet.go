package store

import (
	"context"

	"github.com/google/uuid"
)

// Timesheet is one logged block of work at one site on one date.
// HoursWorked is always derived from StartTime and EndTime.
type Timesheet struct {
	ID               string
	TenantID         string
	UserID           string
	SiteID           string
	CallID           string
	WorkDate         string // YYYY-MM-DD
	StartTime        string // HH:MM
	EndTime          string // HH:MM
	HoursWorked      float64
	WorkDescription  string
	PlansForTomorrow string
	Version          int32
	RowStatus        RowStatus
	CreatedTs        int64
	UpdatedTs        int64
}

// FindTimesheet is the find condition for timesheet.
type FindTimesheet struct {
	ID       *string
	TenantID *string
	UserID   *string
	SiteID   *string
	CallID   *string
	WorkDate *string

	// Inclusive work date range
	WorkDateFrom *string
	WorkDateTo   *string

	RowStatus *RowStatus

	Limit *int
}

// UpdateTimesheet is the conditional update request for timesheet.
// WorkDate, SiteID and ownership are immutable.
type UpdateTimesheet struct {
	ID              string
	ExpectedVersion int32

	StartTime        *string
	EndTime          *string
	HoursWorked      *float64
	WorkDescription  *string
	PlansForTomorrow *string
	UpdatedTs        *int64
}

// CreateTimesheet creates a new timesheet entry, assigning a UUID when ID is empty.
func (s *Store) CreateTimesheet(ctx context.Context, create *Timesheet) (*Timesheet, error) {
	if create.ID == "" {
		create.ID = uuid.NewString()
	}
	return s.driver.CreateTimesheet(ctx, create)
}

// ListTimesheets lists timesheets ordered by work date descending, then start time.
func (s *Store) ListTimesheets(ctx context.Context, find *FindTimesheet) ([]*Timesheet, error) {
	return s.driver.ListTimesheets(ctx, find)
}

// GetTimesheet returns the first matching timesheet, or nil if none matches.
func (s *Store) GetTimesheet(ctx context.Context, find *FindTimesheet) (*Timesheet, error) {
	list, err := s.driver.ListTimesheets(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateTimesheet updates a timesheet if its version still matches.
func (s *Store) UpdateTimesheet(ctx context.Context, update *UpdateTimesheet) (*Timesheet, error) {
	return s.driver.UpdateTimesheet(ctx, update)
}
