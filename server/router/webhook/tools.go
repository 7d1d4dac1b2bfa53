package webhook

import (
	"context"
	"fmt"

	"github.com/hrygo/sitevoice/server/service/timesheet"
	"github.com/hrygo/sitevoice/server/timezone"
)

func (h *Handler) identifySite(ctx context.Context, req *ToolRequest) (any, error) {
	session, err := h.service.Session(ctx, req.CallID)
	if err != nil {
		return nil, err
	}
	ident, err := h.service.IdentifySite(ctx, session, req.String("site_description"))
	if err != nil {
		return nil, err
	}
	h.metrics.RecordSiteIdentification(string(ident.Outcome))

	if ident.Outcome == timesheet.OutcomeFound {
		return &identifySiteResult{
			SiteIdentified: true,
			SiteID:         ident.Site.ID,
			SiteName:       ident.Site.Name,
			Confidence:     ident.Confidence,
			IsOverhead:     ident.IsOverhead,
			Message:        fmt.Sprintf("Great! I've got %s. What time did you start there?", ident.Site.Name),
		}, nil
	}

	options := make([]siteOption, 0, len(ident.Candidates))
	names := make([]string, 0, len(ident.Candidates))
	for _, site := range ident.Candidates {
		options = append(options, siteOption{SiteID: site.ID, SiteName: site.Name})
		names = append(names, site.Name)
	}

	message := fmt.Sprintf("You have %s: %s. Which one were you at?",
		countPhrase(len(names), "site", "sites"), listNames(names))
	if ident.Outcome == timesheet.OutcomeNotFound {
		message = fmt.Sprintf("I couldn't find that site. Your sites are %s. Which one did you mean?", listNames(names))
	}
	return &identifySiteResult{
		SiteIdentified: false,
		AvailableSites: options,
		Message:        message,
	}, nil
}

func (h *Handler) saveEntry(ctx context.Context, req *ToolRequest) (any, error) {
	session, err := h.service.Session(ctx, req.CallID)
	if err != nil {
		return nil, err
	}
	entry, err := h.service.Save(ctx, session, &timesheet.SaveRequest{
		SiteID:           req.String("site_id"),
		StartTime:        req.String("start_time"),
		EndTime:          req.String("end_time"),
		WorkDescription:  req.String("work_description"),
		PlansForTomorrow: req.String("plans_for_tomorrow"),
		WorkDate:         req.String("work_date"),
	})
	if err != nil {
		return nil, err
	}
	h.metrics.RecordHoursLogged(entry.HoursWorked)

	return &saveEntryResult{
		Success:     true,
		EntryID:     entry.ID,
		HoursWorked: entry.HoursWorked,
		WorkDate:    entry.WorkDate,
		Message: fmt.Sprintf("Got it! I've logged %s for %s.",
			hoursPhrase(entry.HoursWorked), timezone.DayLabel(entry.WorkDate, session.CurrentDate)),
	}, nil
}

func (h *Handler) checkConflicts(ctx context.Context, req *ToolRequest) (any, error) {
	session, err := h.service.Session(ctx, req.CallID)
	if err != nil {
		return nil, err
	}
	check, err := h.service.CheckDate(ctx, session, req.String("work_date"), req.String("site_id"))
	if err != nil {
		return nil, err
	}

	label := timezone.DayLabel(check.WorkDate, session.CurrentDate)
	result := &checkConflictsResult{
		HasConflicts:    check.HasConflicts,
		WorkDate:        check.WorkDate,
		ExistingEntries: make([]existingEntry, 0, len(check.Entries)),
		Message:         fmt.Sprintf("There's nothing logged for %s yet.", label),
	}
	if !check.HasConflicts {
		return result, nil
	}

	parts := make([]string, 0, len(check.Entries))
	for _, entry := range check.Entries {
		result.ExistingEntries = append(result.ExistingEntries, existingEntry{
			TimesheetID:     entry.ID,
			SiteID:          entry.SiteID,
			SiteName:        entry.SiteName,
			StartTime:       entry.StartTime,
			EndTime:         entry.EndTime,
			HoursWorked:     entry.HoursWorked,
			WorkDescription: entry.WorkDescription,
		})
		parts = append(parts, fmt.Sprintf("%s at %s", hoursPhrase(entry.HoursWorked), entry.SiteName))
	}
	result.Message = fmt.Sprintf("You already have %s for %s: %s. Do you want to update one of those, or add a different site?",
		countPhrase(len(parts), "entry", "entries"), label, listNames(parts))
	return result, nil
}

func (h *Handler) updateEntry(ctx context.Context, req *ToolRequest) (any, error) {
	session, err := h.service.Session(ctx, req.CallID)
	if err != nil {
		return nil, err
	}
	entryID := req.String("timesheet_id")
	if entryID == "" {
		entryID = req.String("entry_id")
	}
	entry, err := h.service.Update(ctx, session, &timesheet.UpdateRequest{
		EntryID:          entryID,
		StartTime:        req.String("start_time"),
		EndTime:          req.String("end_time"),
		WorkDescription:  req.String("work_description"),
		PlansForTomorrow: req.String("plans_for_tomorrow"),
	})
	if err != nil {
		return nil, err
	}
	return &updateEntryResult{
		Success:     true,
		TimesheetID: entry.ID,
		HoursWorked: entry.HoursWorked,
		Message:     fmt.Sprintf("Done, I've updated that entry to %s.", hoursPhrase(entry.HoursWorked)),
	}, nil
}

func (h *Handler) confirmAll(ctx context.Context, req *ToolRequest) (any, error) {
	if !req.Bool("user_confirmed") {
		return &confirmResult{
			Success: false,
			Message: "No problem, let's make corrections. What needs to be changed?",
		}, nil
	}

	session, err := h.service.Session(ctx, req.CallID)
	if err != nil {
		return nil, err
	}
	final, err := h.service.Finalize(ctx, session.CallID, true)
	if err != nil {
		return nil, err
	}

	message := "There's nothing logged on this call yet. Which site were you working at?"
	if final.TotalEntries > 0 {
		message = fmt.Sprintf("Perfect! I've saved your timesheet for %s, totaling %s. Have a great day!",
			countPhrase(final.TotalEntries, "site", "sites"), hoursPhrase(final.TotalHours))
	}
	return &confirmResult{
		Success:      true,
		TotalEntries: final.TotalEntries,
		TotalHours:   final.TotalHours,
		Message:      message,
	}, nil
}

func (h *Handler) recentHistory(ctx context.Context, req *ToolRequest) (any, error) {
	session, err := h.service.Session(ctx, req.CallID)
	if err != nil {
		return nil, err
	}
	history, err := h.service.Recent(ctx, session, req.Int("days_back"))
	if err != nil {
		return nil, err
	}

	days := make([]loggedDay, 0, len(history.Days))
	for _, day := range history.Days {
		days = append(days, loggedDay{
			Date:       day.WorkDate,
			DayLabel:   day.DayLabel,
			SiteCount:  day.SiteCount,
			EntryCount: day.EntryCount,
			TotalHours: day.TotalHours,
		})
	}
	return &recentHistoryResult{
		HasTimesheets: history.HasTimesheets,
		LoggedDays:    days,
		Summary:       history.Summary,
		Message:       history.Summary,
	}, nil
}
