package timesheet

import (
	"context"
	"strings"

	"github.com/hrygo/sitevoice/store"
)

// ExistingEntry is a previously logged entry the caller may choose to update.
type ExistingEntry struct {
	ID              string
	SiteID          string
	SiteName        string
	WorkDate        string
	StartTime       string
	EndTime         string
	HoursWorked     float64
	WorkDescription string
}

// DateCheck is the result of CheckDate.
type DateCheck struct {
	WorkDate     string
	HasConflicts bool
	Entries      []ExistingEntry
}

// ConflictResolver finds entries already logged for a work date.
type ConflictResolver struct {
	store     Store
	directory *SiteDirectory
	window    dateWindow
}

// NeedsCheck reports whether workDate is a backdated entry. Same-day entries skip the check.
func (r *ConflictResolver) NeedsCheck(session *SessionContext, workDate string) bool {
	workDate = strings.TrimSpace(workDate)
	return workDate != "" && workDate != session.CurrentDate
}

// CheckDate lists the caller's entries for workDate, narrowed to siteID when given.
// It never writes.
func (r *ConflictResolver) CheckDate(ctx context.Context, session *SessionContext, workDate, siteID string) (*DateCheck, error) {
	workDate = strings.TrimSpace(workDate)
	if err := r.window.check(workDate, session.CurrentDate); err != nil {
		return nil, err
	}

	normal := store.Normal
	find := &store.FindTimesheet{
		TenantID:  &session.TenantID,
		UserID:    &session.UserID,
		WorkDate:  &workDate,
		RowStatus: &normal,
	}
	if siteID = strings.TrimSpace(siteID); siteID != "" {
		find.SiteID = &siteID
	}

	list, err := withRetry(ctx, "list_timesheets", func() ([]*store.Timesheet, error) {
		return r.store.ListTimesheets(ctx, find)
	})
	if err != nil {
		return nil, err
	}

	check := &DateCheck{
		WorkDate:     workDate,
		HasConflicts: len(list) > 0,
		Entries:      make([]ExistingEntry, 0, len(list)),
	}
	if len(list) == 0 {
		return check, nil
	}

	siteIDs := make([]string, 0, len(list))
	for _, entry := range list {
		siteIDs = append(siteIDs, entry.SiteID)
	}
	names := r.directory.SiteNames(ctx, session.TenantID, siteIDs)

	for _, entry := range list {
		check.Entries = append(check.Entries, ExistingEntry{
			ID:              entry.ID,
			SiteID:          entry.SiteID,
			SiteName:        names[entry.SiteID],
			WorkDate:        entry.WorkDate,
			StartTime:       entry.StartTime,
			EndTime:         entry.EndTime,
			HoursWorked:     entry.HoursWorked,
			WorkDescription: entry.WorkDescription,
		})
	}
	return check, nil
}
