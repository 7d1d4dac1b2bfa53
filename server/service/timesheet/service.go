// Package timesheet implements the timesheet skill behind the voice tools:
// site identification, date conflict checks, the per-call entry ledger and
// recent-history summaries.
//
// The service is stateless between requests. A call's batch of entries is
// whatever the store holds under its call id, so any instance can serve any
// request of a call.
package timesheet

import (
	"context"
	"time"

	"github.com/hrygo/sitevoice/plugin/ai/sitematch"
	"github.com/hrygo/sitevoice/store"
)

// Store is the interface for store operations needed by the timesheet service.
type Store interface {
	GetCallSession(ctx context.Context, find *store.FindCallSession) (*store.CallSession, error)
	ListActiveSites(ctx context.Context, tenantID string) ([]*store.Site, error)
	GetSite(ctx context.Context, find *store.FindSite) (*store.Site, error)
	CreateTimesheet(ctx context.Context, create *store.Timesheet) (*store.Timesheet, error)
	ListTimesheets(ctx context.Context, find *store.FindTimesheet) ([]*store.Timesheet, error)
	GetTimesheet(ctx context.Context, find *store.FindTimesheet) (*store.Timesheet, error)
	UpdateTimesheet(ctx context.Context, update *store.UpdateTimesheet) (*store.Timesheet, error)
}

// Options configures the service. Zero values select defaults.
type Options struct {
	BackdateWindowDays int
	SiteCacheTTL       time.Duration
	MatcherTimeout     time.Duration
	// Matcher is optional; without it only the deterministic site rules apply.
	Matcher sitematch.Matcher
	// Now overrides the clock in tests.
	Now func() time.Time
}

type service struct {
	sessions   *SessionProvider
	directory  *SiteDirectory
	identifier *SiteIdentifier
	conflicts  *ConflictResolver
	ledger     *Ledger
	history    *HistoryReporter
}

// NewService creates a new timesheet service.
func NewService(st Store, opts Options) Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	window := dateWindow{days: opts.BackdateWindowDays}
	if window.days <= 0 {
		window.days = DefaultBackdateWindowDays
	}

	directory := NewSiteDirectory(st, opts.SiteCacheTTL)
	return &service{
		sessions:   &SessionProvider{store: st, now: now},
		directory:  directory,
		identifier: NewSiteIdentifier(opts.Matcher, opts.MatcherTimeout),
		conflicts:  &ConflictResolver{store: st, directory: directory, window: window},
		ledger:     &Ledger{store: st, directory: directory, window: window, now: now},
		history:    &HistoryReporter{store: st},
	}
}

func (s *service) Session(ctx context.Context, callID string) (*SessionContext, error) {
	return s.sessions.Lookup(ctx, callID)
}

func (s *service) IdentifySite(ctx context.Context, session *SessionContext, description string) (*Identification, error) {
	sites, err := s.directory.ActiveSites(ctx, session.TenantID)
	if err != nil {
		return nil, err
	}
	return s.identifier.Identify(ctx, sites, description)
}

func (s *service) NeedsCheck(session *SessionContext, workDate string) bool {
	return s.conflicts.NeedsCheck(session, workDate)
}

func (s *service) CheckDate(ctx context.Context, session *SessionContext, workDate, siteID string) (*DateCheck, error) {
	return s.conflicts.CheckDate(ctx, session, workDate, siteID)
}

func (s *service) Save(ctx context.Context, session *SessionContext, req *SaveRequest) (*store.Timesheet, error) {
	return s.ledger.Save(ctx, session, req)
}

func (s *service) Update(ctx context.Context, session *SessionContext, req *UpdateRequest) (*store.Timesheet, error) {
	return s.ledger.Update(ctx, session, req)
}

func (s *service) Finalize(ctx context.Context, callID string, confirmed bool) (*Finalization, error) {
	return s.ledger.Finalize(ctx, callID, confirmed)
}

func (s *service) Recent(ctx context.Context, session *SessionContext, daysBack int) (*History, error) {
	return s.history.Recent(ctx, session, daysBack)
}

func (s *service) Close() error {
	return s.directory.Close()
}
