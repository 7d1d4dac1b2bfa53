package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/sitevoice/store"
)

func (d *DB) CreateSite(ctx context.Context, create *store.Site) (*store.Site, error) {
	fields := []string{"id", "tenant_id", "name", "identifier", "address", "is_overhead", "active"}
	args := []any{
		create.ID, create.TenantID, create.Name, create.Identifier, create.Address,
		boolToInt(create.IsOverhead), boolToInt(create.Active),
	}

	stmt := `INSERT INTO site (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING created_ts, updated_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, fmt.Errorf("failed to create site: %w", err)
	}
	return create, nil
}

func (d *DB) ListSites(ctx context.Context, find *store.FindSite) ([]*store.Site, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "site.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.TenantID; v != nil {
		where, args = append(where, "site.tenant_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Active; v != nil {
		where, args = append(where, "site.active = "+placeholder(len(args)+1)), append(args, boolToInt(*v))
	}
	if v := find.IsOverhead; v != nil {
		where, args = append(where, "site.is_overhead = "+placeholder(len(args)+1)), append(args, boolToInt(*v))
	}

	query := `
		SELECT id, tenant_id, name, identifier, address, is_overhead, active, created_ts, updated_ts
		FROM site
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY site.name COLLATE NOCASE ASC, site.id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Site, 0)
	for rows.Next() {
		var site store.Site
		if err := rows.Scan(
			&site.ID,
			&site.TenantID,
			&site.Name,
			&site.Identifier,
			&site.Address,
			&site.IsOverhead,
			&site.Active,
			&site.CreatedTs,
			&site.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		list = append(list, &site)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sites: %w", err)
	}
	return list, nil
}
