package timesheet

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hrygo/sitevoice/plugin/worktime"
	apperrors "github.com/hrygo/sitevoice/server/internal/errors"
	"github.com/hrygo/sitevoice/server/timezone"
	"github.com/hrygo/sitevoice/store"
)

// DaySummary aggregates one logged work date.
type DaySummary struct {
	WorkDate   string
	DayLabel   string
	SiteCount  int
	EntryCount int
	TotalHours float64
}

// History is the caller's recent logging, newest day first.
type History struct {
	HasTimesheets bool
	Days          []DaySummary
	Summary       string
}

// HistoryReporter summarizes recently logged days.
type HistoryReporter struct {
	store Store
}

// Recent groups the caller's entries from the last daysBack days by work date.
func (h *HistoryReporter) Recent(ctx context.Context, session *SessionContext, daysBack int) (*History, error) {
	daysBack = clampDays(daysBack)
	from, err := timezone.AddDays(session.CurrentDate, -daysBack)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	to := session.CurrentDate

	normal := store.Normal
	list, err := withRetry(ctx, "list_timesheets", func() ([]*store.Timesheet, error) {
		return h.store.ListTimesheets(ctx, &store.FindTimesheet{
			TenantID:     &session.TenantID,
			UserID:       &session.UserID,
			WorkDateFrom: &from,
			WorkDateTo:   &to,
			RowStatus:    &normal,
		})
	})
	if err != nil {
		return nil, err
	}

	days := groupByDate(list, session.CurrentDate)
	return &History{
		HasTimesheets: len(days) > 0,
		Days:          days,
		Summary:       summarize(days, daysBack),
	}, nil
}

func clampDays(daysBack int) int {
	switch {
	case daysBack <= 0:
		return DefaultHistoryDays
	case daysBack > MaxHistoryDays:
		return MaxHistoryDays
	default:
		return daysBack
	}
}

func groupByDate(list []*store.Timesheet, today string) []DaySummary {
	byDate := make(map[string]*DaySummary)
	sites := make(map[string]map[string]bool)
	for _, entry := range list {
		day, ok := byDate[entry.WorkDate]
		if !ok {
			day = &DaySummary{WorkDate: entry.WorkDate, DayLabel: timezone.DayLabel(entry.WorkDate, today)}
			byDate[entry.WorkDate] = day
			sites[entry.WorkDate] = make(map[string]bool)
		}
		day.EntryCount++
		day.TotalHours += entry.HoursWorked
		sites[entry.WorkDate][entry.SiteID] = true
	}

	days := make([]DaySummary, 0, len(byDate))
	for date, day := range byDate {
		day.SiteCount = len(sites[date])
		day.TotalHours = worktime.RoundHours(day.TotalHours)
		days = append(days, *day)
	}
	// ISO dates sort chronologically as strings.
	sort.Slice(days, func(i, j int) bool {
		return days[i].WorkDate > days[j].WorkDate
	})
	return days
}

// summarize renders e.g. "You've logged time for today, yesterday, Monday and 2 more days."
func summarize(days []DaySummary, daysBack int) string {
	if len(days) == 0 {
		return fmt.Sprintf("You haven't logged any time in the last %s.", plural(daysBack, "day"))
	}

	shown := len(days)
	if shown > MaxSummaryDays {
		shown = MaxSummaryDays
	}
	parts := make([]string, 0, shown+1)
	for _, day := range days[:shown] {
		parts = append(parts, day.DayLabel)
	}
	if rest := len(days) - shown; rest > 0 {
		parts = append(parts, plural(rest, "more day"))
	}
	return "You've logged time for " + joinSpoken(parts) + "."
}

func joinSpoken(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
