package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/sitevoice/store"
)

const timesheetColumns = `id, tenant_id, user_id, site_id, call_id, work_date, start_time, end_time,
	hours_worked, work_description, plans_for_tomorrow, version, row_status, created_ts, updated_ts`

func (d *DB) CreateTimesheet(ctx context.Context, create *store.Timesheet) (*store.Timesheet, error) {
	fields := []string{
		"id", "tenant_id", "user_id", "site_id", "call_id", "work_date",
		"start_time", "end_time", "hours_worked", "work_description", "plans_for_tomorrow",
	}
	args := []any{
		create.ID, create.TenantID, create.UserID, create.SiteID, create.CallID, create.WorkDate,
		create.StartTime, create.EndTime, create.HoursWorked, create.WorkDescription, create.PlansForTomorrow,
	}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		args = append(args, create.CreatedTs)
	}
	if create.UpdatedTs != 0 {
		fields = append(fields, "updated_ts")
		args = append(args, create.UpdatedTs)
	}

	stmt := `INSERT INTO timesheet (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING version, row_status, created_ts, updated_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.Version,
		&create.RowStatus,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create timesheet: %w", err)
	}
	return create, nil
}

func (d *DB) ListTimesheets(ctx context.Context, find *store.FindTimesheet) ([]*store.Timesheet, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "timesheet.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.TenantID; v != nil {
		where, args = append(where, "timesheet.tenant_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "timesheet.user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.SiteID; v != nil {
		where, args = append(where, "timesheet.site_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CallID; v != nil {
		where, args = append(where, "timesheet.call_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.WorkDate; v != nil {
		where, args = append(where, "timesheet.work_date = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.WorkDateFrom; v != nil {
		where, args = append(where, "timesheet.work_date >= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.WorkDateTo; v != nil {
		where, args = append(where, "timesheet.work_date <= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.RowStatus; v != nil {
		where, args = append(where, "timesheet.row_status = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT ` + timesheetColumns + `
		FROM timesheet
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY timesheet.work_date DESC, timesheet.start_time ASC, timesheet.created_ts ASC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheets: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Timesheet, 0)
	for rows.Next() {
		timesheet, err := scanTimesheet(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, timesheet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timesheets: %w", err)
	}
	return list, nil
}

func (d *DB) UpdateTimesheet(ctx context.Context, update *store.UpdateTimesheet) (*store.Timesheet, error) {
	set, args := []string{"version = version + 1"}, []any{}

	if v := update.StartTime; v != nil {
		set, args = append(set, "start_time = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.EndTime; v != nil {
		set, args = append(set, "end_time = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.HoursWorked; v != nil {
		set, args = append(set, "hours_worked = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.WorkDescription; v != nil {
		set, args = append(set, "work_description = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.PlansForTomorrow; v != nil {
		set, args = append(set, "plans_for_tomorrow = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *v)
	} else {
		set = append(set, "updated_ts = strftime('%s', 'now')")
	}

	args = append(args, update.ID, update.ExpectedVersion)
	stmt := `UPDATE timesheet SET ` + strings.Join(set, ", ") + `
		WHERE id = ` + placeholder(len(args)-1) + ` AND version = ` + placeholder(len(args)) + `
		RETURNING ` + timesheetColumns

	timesheet, err := scanTimesheet(d.db.QueryRowContext(ctx, stmt, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrVersionConflict
	}
	if err != nil {
		return nil, err
	}
	return timesheet, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTimesheet(row rowScanner) (*store.Timesheet, error) {
	var timesheet store.Timesheet
	if err := row.Scan(
		&timesheet.ID,
		&timesheet.TenantID,
		&timesheet.UserID,
		&timesheet.SiteID,
		&timesheet.CallID,
		&timesheet.WorkDate,
		&timesheet.StartTime,
		&timesheet.EndTime,
		&timesheet.HoursWorked,
		&timesheet.WorkDescription,
		&timesheet.PlansForTomorrow,
		&timesheet.Version,
		&timesheet.RowStatus,
		&timesheet.CreatedTs,
		&timesheet.UpdatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan timesheet: %w", err)
	}
	return &timesheet, nil
}
