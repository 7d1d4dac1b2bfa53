package timesheet

import (
	"context"
	"time"

	"github.com/hrygo/sitevoice/store"
)

// Service defines the timesheet operations the voice tools call.
// Every operation except Finalize is scoped to a SessionContext resolved by Session.
type Service interface {
	// Session resolves the authenticated caller bound to a call id.
	Session(ctx context.Context, callID string) (*SessionContext, error)

	// IdentifySite resolves a spoken site description against the tenant's active sites.
	IdentifySite(ctx context.Context, session *SessionContext, description string) (*Identification, error)

	// NeedsCheck reports whether CheckDate must run before collecting times for workDate.
	NeedsCheck(session *SessionContext, workDate string) bool

	// CheckDate lists the caller's existing entries for a work date, optionally for one site.
	CheckDate(ctx context.Context, session *SessionContext, workDate, siteID string) (*DateCheck, error)

	// Save creates exactly one entry for one site on one date.
	Save(ctx context.Context, session *SessionContext, req *SaveRequest) (*store.Timesheet, error)

	// Update overwrites the times, description and plans of an existing entry.
	Update(ctx context.Context, session *SessionContext, req *UpdateRequest) (*store.Timesheet, error)

	// Finalize totals the entries recorded under a call once the caller confirms them.
	Finalize(ctx context.Context, callID string, confirmed bool) (*Finalization, error)

	// Recent summarizes the caller's logged days within daysBack of today.
	Recent(ctx context.Context, session *SessionContext, daysBack int) (*History, error)

	// Close releases background resources.
	Close() error
}

// SessionContext is the caller identity for one call. It is immutable for the call.
type SessionContext struct {
	CallID         string
	TenantID       string
	UserID         string
	CallerPhone    string
	UserName       string
	TenantName     string
	TenantTimezone string
	// CurrentDate is "today" in the tenant's timezone (YYYY-MM-DD).
	CurrentDate string
	Location    *time.Location
}

// SaveRequest is the request to log one block of work.
type SaveRequest struct {
	SiteID           string
	StartTime        string
	EndTime          string
	WorkDescription  string
	PlansForTomorrow string
	// WorkDate defaults to the session's current date when empty.
	WorkDate string
}

// UpdateRequest is a full overwrite of an entry's revisable fields.
type UpdateRequest struct {
	EntryID          string
	StartTime        string
	EndTime          string
	WorkDescription  string
	PlansForTomorrow string
}

// Finalization is the outcome of Finalize.
type Finalization struct {
	Confirmed    bool
	TotalEntries int
	TotalHours   float64
}
