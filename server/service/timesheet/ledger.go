package timesheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hrygo/sitevoice/plugin/worktime"
	apperrors "github.com/hrygo/sitevoice/server/internal/errors"
	"github.com/hrygo/sitevoice/store"
)

// Ledger creates, revises and totals timesheet entries.
//
// A call moves through collecting (one Save per site and date), confirmation
// and finalization. Nothing about that progress is held in memory: the batch
// of a call is the set of entries stored under its call id.
type Ledger struct {
	store     Store
	directory *SiteDirectory
	window    dateWindow
	now       func() time.Time
}

// Save creates one entry for one site. WorkDate defaults to the session's current date.
func (l *Ledger) Save(ctx context.Context, session *SessionContext, req *SaveRequest) (*store.Timesheet, error) {
	siteID := strings.TrimSpace(req.SiteID)
	if siteID == "" {
		return nil, apperrors.Validation("Which site were you working at?")
	}
	description := strings.TrimSpace(req.WorkDescription)
	if description == "" {
		return nil, apperrors.Validation("What work did you do there?")
	}
	start, end, hours, err := workedHours(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	workDate := strings.TrimSpace(req.WorkDate)
	if workDate == "" {
		workDate = session.CurrentDate
	}
	if err := l.window.check(workDate, session.CurrentDate); err != nil {
		return nil, err
	}

	site, err := l.directory.Lookup(ctx, session.TenantID, siteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, apperrors.Validation("I couldn't find that site. Which site were you working at?")
	}

	ts := l.now().Unix()
	create := &store.Timesheet{
		TenantID:         session.TenantID,
		UserID:           session.UserID,
		SiteID:           site.ID,
		CallID:           session.CallID,
		WorkDate:         workDate,
		StartTime:        start,
		EndTime:          end,
		HoursWorked:      hours,
		WorkDescription:  description,
		PlansForTomorrow: strings.TrimSpace(req.PlansForTomorrow),
		Version:          1,
		RowStatus:        store.Normal,
		CreatedTs:        ts,
		UpdatedTs:        ts,
	}
	entry, err := withRetry(ctx, "create_timesheet", func() (*store.Timesheet, error) {
		return l.store.CreateTimesheet(ctx, create)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("timesheet entry saved",
		"call_id", session.CallID,
		"entry_id", entry.ID,
		"site_id", entry.SiteID,
		"work_date", entry.WorkDate,
		"hours", entry.HoursWorked)
	return entry, nil
}

// Update overwrites start, end, description and plans of an entry owned by the caller
// and recomputes its hours. The write is conditional on the version read; a lost race
// is retried once against a fresh read.
func (l *Ledger) Update(ctx context.Context, session *SessionContext, req *UpdateRequest) (*store.Timesheet, error) {
	entryID := strings.TrimSpace(req.EntryID)
	if entryID == "" {
		return nil, apperrors.Validation("Which entry should I change?")
	}
	description := strings.TrimSpace(req.WorkDescription)
	if description == "" {
		return nil, apperrors.Validation("What work did you do there?")
	}
	start, end, hours, err := workedHours(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	plans := strings.TrimSpace(req.PlansForTomorrow)

	var lastErr error
	for attempt := 1; attempt <= storageAttempts; attempt++ {
		current, err := l.ownedEntry(ctx, session, entryID)
		if err != nil {
			return nil, err
		}

		updatedTs := l.now().Unix()
		update := &store.UpdateTimesheet{
			ID:               current.ID,
			ExpectedVersion:  current.Version,
			StartTime:        &start,
			EndTime:          &end,
			HoursWorked:      &hours,
			WorkDescription:  &description,
			PlansForTomorrow: &plans,
			UpdatedTs:        &updatedTs,
		}
		entry, err := withRetry(ctx, "update_timesheet", func() (*store.Timesheet, error) {
			return l.store.UpdateTimesheet(ctx, update)
		})
		if err == nil {
			slog.Info("timesheet entry updated",
				"call_id", session.CallID,
				"entry_id", entry.ID,
				"version", entry.Version,
				"hours", entry.HoursWorked)
			return entry, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return nil, err
		}
		slog.Warn("timesheet entry changed concurrently",
			"entry_id", entryID,
			"expected_version", current.Version,
			"attempt", attempt)
		lastErr = err
	}
	return nil, apperrors.Storage(lastErr)
}

func (l *Ledger) ownedEntry(ctx context.Context, session *SessionContext, entryID string) (*store.Timesheet, error) {
	normal := store.Normal
	entry, err := withRetry(ctx, "get_timesheet", func() (*store.Timesheet, error) {
		return l.store.GetTimesheet(ctx, &store.FindTimesheet{
			ID:        &entryID,
			TenantID:  &session.TenantID,
			UserID:    &session.UserID,
			RowStatus: &normal,
		})
	})
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperrors.Wrap(fmt.Errorf("timesheet %s not found for user %s", entryID, session.UserID),
			apperrors.ErrCodeValidation, "I couldn't find that entry. Let's check which day and site it was.")
	}
	return entry, nil
}

// Finalize totals the entries saved under callID. An unconfirmed finalize reads and
// writes nothing. Repeated confirmed calls re-total the same rows.
func (l *Ledger) Finalize(ctx context.Context, callID string, confirmed bool) (*Finalization, error) {
	if !confirmed {
		return &Finalization{Confirmed: false}, nil
	}
	callID = strings.TrimSpace(callID)
	if callID == "" {
		return nil, apperrors.SessionNotFound(callID)
	}

	normal := store.Normal
	list, err := withRetry(ctx, "list_timesheets", func() ([]*store.Timesheet, error) {
		return l.store.ListTimesheets(ctx, &store.FindTimesheet{CallID: &callID, RowStatus: &normal})
	})
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, entry := range list {
		total += entry.HoursWorked
	}
	result := &Finalization{
		Confirmed:    true,
		TotalEntries: len(list),
		TotalHours:   worktime.RoundHours(total),
	}

	slog.Info("timesheet call finalized",
		"call_id", callID,
		"entries", result.TotalEntries,
		"hours", result.TotalHours)
	return result, nil
}
