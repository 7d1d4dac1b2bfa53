package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Site model related methods.
	CreateSite(ctx context.Context, create *Site) (*Site, error)
	ListSites(ctx context.Context, find *FindSite) ([]*Site, error)

	// Timesheet model related methods.
	CreateTimesheet(ctx context.Context, create *Timesheet) (*Timesheet, error)
	ListTimesheets(ctx context.Context, find *FindTimesheet) ([]*Timesheet, error)
	// UpdateTimesheet applies the update only if the stored version equals
	// update.ExpectedVersion, otherwise it returns ErrVersionConflict.
	UpdateTimesheet(ctx context.Context, update *UpdateTimesheet) (*Timesheet, error)

	// CallSession model related methods.
	UpsertCallSession(ctx context.Context, upsert *CallSession) (*CallSession, error)
	ListCallSessions(ctx context.Context, find *FindCallSession) ([]*CallSession, error)
	DeleteCallSessions(ctx context.Context, delete *DeleteCallSession) (int64, error)
}
