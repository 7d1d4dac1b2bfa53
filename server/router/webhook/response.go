package webhook

import (
	"fmt"
	"strconv"
	"strings"
)

// ToolResponse is the body the voice platform expects from every tool webhook.
type ToolResponse struct {
	Results []ToolResult `json:"results"`
}

// ToolResult carries the result of one tool call.
type ToolResult struct {
	ToolCallID string `json:"toolCallId"`
	Result     any    `json:"result"`
}

type siteOption struct {
	SiteID   string `json:"site_id"`
	SiteName string `json:"site_name"`
}

type identifySiteResult struct {
	SiteIdentified bool         `json:"site_identified"`
	SiteID         string       `json:"site_id,omitempty"`
	SiteName       string       `json:"site_name,omitempty"`
	Confidence     string       `json:"confidence,omitempty"`
	IsOverhead     bool         `json:"is_overhead,omitempty"`
	AvailableSites []siteOption `json:"available_sites,omitempty"`
	Message        string       `json:"message"`
}

type saveEntryResult struct {
	Success     bool    `json:"success"`
	EntryID     string  `json:"entry_id"`
	HoursWorked float64 `json:"hours_worked"`
	WorkDate    string  `json:"work_date"`
	Message     string  `json:"message"`
}

type existingEntry struct {
	TimesheetID     string  `json:"timesheet_id"`
	SiteID          string  `json:"site_id"`
	SiteName        string  `json:"site_name"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	HoursWorked     float64 `json:"hours_worked"`
	WorkDescription string  `json:"work_description"`
}

type checkConflictsResult struct {
	HasConflicts    bool            `json:"has_conflicts"`
	WorkDate        string          `json:"work_date"`
	ExistingEntries []existingEntry `json:"existing_entries"`
	Message         string          `json:"message"`
}

type updateEntryResult struct {
	Success     bool    `json:"success"`
	TimesheetID string  `json:"timesheet_id"`
	HoursWorked float64 `json:"hours_worked"`
	Message     string  `json:"message"`
}

type confirmResult struct {
	Success      bool    `json:"success"`
	TotalEntries int     `json:"total_entries"`
	TotalHours   float64 `json:"total_hours"`
	Message      string  `json:"message"`
}

type loggedDay struct {
	Date       string  `json:"date"`
	DayLabel   string  `json:"day_label"`
	SiteCount  int     `json:"site_count"`
	EntryCount int     `json:"entry_count"`
	TotalHours float64 `json:"total_hours"`
}

type recentHistoryResult struct {
	HasTimesheets bool        `json:"has_timesheets"`
	LoggedDays    []loggedDay `json:"logged_days"`
	Summary       string      `json:"summary"`
	Message       string      `json:"message"`
}

// failureResult is returned for every failed tool call. The flag named by the
// tool's success field is always false.
func failureResult(flag, code, message string) map[string]any {
	return map[string]any{
		flag:      false,
		"error":   code,
		"message": message,
	}
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func hoursPhrase(h float64) string {
	if h == 1 {
		return "1 hour"
	}
	return formatHours(h) + " hours"
}

func countPhrase(n int, singular, pluralForm string) string {
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}

// listNames renders names for speech: "A", "A and B", "A, B and C".
func listNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
