package store

import (
	"context"
)

// CallSession binds a voice call to the caller authenticated at the start of the call.
// Rows are written by the authentication step and are read-only to the timesheet flow.
type CallSession struct {
	CallID         string
	TenantID       string
	UserID         string
	CallerPhone    string
	UserName       string
	TenantName     string
	TenantTimezone string
	// CurrentDate pins the call's "today" (YYYY-MM-DD). Empty means derive it from TenantTimezone.
	CurrentDate string
	CreatedTs   int64
	ExpiresTs   int64
}

// FindCallSession is the find condition for call session.
type FindCallSession struct {
	CallID *string
	// ActiveAt excludes sessions that expired at or before this unix time.
	ActiveAt *int64
}

// DeleteCallSession is the delete request for call sessions.
type DeleteCallSession struct {
	CallID *string
	// ExpiredBefore deletes sessions whose expiry is at or before this unix time.
	ExpiredBefore *int64
}

// UpsertCallSession creates or replaces the session for a call.
func (s *Store) UpsertCallSession(ctx context.Context, upsert *CallSession) (*CallSession, error) {
	return s.driver.UpsertCallSession(ctx, upsert)
}

// GetCallSession returns the matching session, or nil if none matches.
func (s *Store) GetCallSession(ctx context.Context, find *FindCallSession) (*CallSession, error) {
	list, err := s.driver.ListCallSessions(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// DeleteCallSessions deletes matching sessions and returns the number removed.
func (s *Store) DeleteCallSessions(ctx context.Context, delete *DeleteCallSession) (int64, error) {
	return s.driver.DeleteCallSessions(ctx, delete)
}
