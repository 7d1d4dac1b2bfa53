package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/sitevoice/store"
)

func (d *DB) UpsertCallSession(ctx context.Context, upsert *store.CallSession) (*store.CallSession, error) {
	stmt := `INSERT INTO call_session (
			call_id, tenant_id, user_id, caller_phone, user_name, tenant_name,
			tenant_timezone, pinned_date, expires_ts
		)
		VALUES (` + placeholders(9) + `)
		ON CONFLICT (call_id) DO UPDATE SET
			tenant_id = EXCLUDED.tenant_id,
			user_id = EXCLUDED.user_id,
			caller_phone = EXCLUDED.caller_phone,
			user_name = EXCLUDED.user_name,
			tenant_name = EXCLUDED.tenant_name,
			tenant_timezone = EXCLUDED.tenant_timezone,
			pinned_date = EXCLUDED.pinned_date,
			expires_ts = EXCLUDED.expires_ts
		RETURNING created_ts`

	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.CallID, upsert.TenantID, upsert.UserID, upsert.CallerPhone, upsert.UserName,
		upsert.TenantName, upsert.TenantTimezone, upsert.CurrentDate, upsert.ExpiresTs,
	).Scan(&upsert.CreatedTs); err != nil {
		return nil, fmt.Errorf("failed to upsert call_session: %w", err)
	}
	return upsert, nil
}

func (d *DB) ListCallSessions(ctx context.Context, find *store.FindCallSession) ([]*store.CallSession, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.CallID; v != nil {
		where, args = append(where, "call_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ActiveAt; v != nil {
		where, args = append(where, "expires_ts > "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT call_id, tenant_id, user_id, caller_phone, user_name, tenant_name,
			tenant_timezone, pinned_date, created_ts, expires_ts
		FROM call_session
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query call_session: %w", err)
	}
	defer rows.Close()

	list := make([]*store.CallSession, 0)
	for rows.Next() {
		var session store.CallSession
		if err := rows.Scan(
			&session.CallID,
			&session.TenantID,
			&session.UserID,
			&session.CallerPhone,
			&session.UserName,
			&session.TenantName,
			&session.TenantTimezone,
			&session.CurrentDate,
			&session.CreatedTs,
			&session.ExpiresTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan call_session: %w", err)
		}
		list = append(list, &session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate call_session: %w", err)
	}
	return list, nil
}

func (d *DB) DeleteCallSessions(ctx context.Context, delete *store.DeleteCallSession) (int64, error) {
	where, args := []string{}, []any{}

	if v := delete.CallID; v != nil {
		where, args = append(where, "call_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := delete.ExpiredBefore; v != nil {
		where, args = append(where, "expires_ts <= "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(where) == 0 {
		return 0, fmt.Errorf("refusing to delete call_session without a condition")
	}

	result, err := d.db.ExecContext(ctx, `DELETE FROM call_session WHERE `+strings.Join(where, " AND "), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete call_session: %w", err)
	}
	return result.RowsAffected()
}
