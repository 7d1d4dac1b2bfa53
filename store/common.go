package store

import "github.com/pkg/errors"

// RowStatus is the status for a row.
type RowStatus string

const (
	// Normal is the status for a normal row.
	Normal RowStatus = "NORMAL"
	// Archived is the status for an archived row.
	Archived RowStatus = "ARCHIVED"
)

func (r RowStatus) String() string {
	return string(r)
}

// ErrVersionConflict is returned by conditional updates when the row changed since it was read.
var ErrVersionConflict = errors.New("row version conflict")
