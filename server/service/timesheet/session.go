package timesheet

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/hrygo/sitevoice/server/internal/errors"
	"github.com/hrygo/sitevoice/server/timezone"
	"github.com/hrygo/sitevoice/store"
)

// SessionProvider resolves call ids to the session written when the caller authenticated.
type SessionProvider struct {
	store Store
	now   func() time.Time
}

// Lookup returns the active session for a call. Expired or unknown calls are SessionNotFound.
func (p *SessionProvider) Lookup(ctx context.Context, callID string) (*SessionContext, error) {
	callID = strings.TrimSpace(callID)
	if callID == "" {
		return nil, apperrors.SessionNotFound(callID)
	}

	now := p.now()
	activeAt := now.Unix()
	row, err := withRetry(ctx, "get_call_session", func() (*store.CallSession, error) {
		return p.store.GetCallSession(ctx, &store.FindCallSession{CallID: &callID, ActiveAt: &activeAt})
	})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperrors.SessionNotFound(callID)
	}

	loc, err := timezone.ParseTimezone(row.TenantTimezone)
	if err != nil {
		slog.Warn("tenant timezone is invalid, using UTC",
			"call_id", callID,
			"tenant_id", row.TenantID,
			"timezone", row.TenantTimezone)
	}

	current := row.CurrentDate
	if current != "" {
		if _, err := timezone.ParseDate(current); err != nil {
			slog.Warn("ignoring malformed pinned date", "call_id", callID, "date", current)
			current = ""
		}
	}
	if current == "" {
		current = timezone.DateIn(now, loc)
	}

	return &SessionContext{
		CallID:         row.CallID,
		TenantID:       row.TenantID,
		UserID:         row.UserID,
		CallerPhone:    row.CallerPhone,
		UserName:       row.UserName,
		TenantName:     row.TenantName,
		TenantTimezone: loc.String(),
		CurrentDate:    current,
		Location:       loc,
	}, nil
}
