package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/sitevoice/store"
)

func TestSiteStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	tenantID := newTenantID()
	otherTenant := newTenantID()

	createTestingSite(ctx, t, ts, tenantID, "riverside school", false, true)
	createTestingSite(ctx, t, ts, tenantID, "Harbour View", false, true)
	createTestingSite(ctx, t, ts, tenantID, "Closed Depot", false, false)
	overhead := createTestingSite(ctx, t, ts, tenantID, "Acme - Overheads", true, true)
	createTestingSite(ctx, t, ts, otherTenant, "Elsewhere", false, true)

	active, err := ts.ListActiveSites(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, active, 3)
	require.Equal(t, "Acme - Overheads", active[0].Name)
	require.Equal(t, "Harbour View", active[1].Name)
	require.Equal(t, "riverside school", active[2].Name, "ordering ignores case")

	isOverhead := true
	got, err := ts.GetSite(ctx, &store.FindSite{TenantID: &tenantID, IsOverhead: &isOverhead})
	require.NoError(t, err)
	require.Equal(t, overhead.ID, got.ID)
	require.True(t, got.IsOverhead)
	require.Empty(t, got.Address)
}

func TestSiteStore_OneOverheadPerTenant(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	tenantID := newTenantID()

	createTestingSite(ctx, t, ts, tenantID, "Acme - Overheads", true, true)
	_, err := ts.CreateSite(ctx, &store.Site{TenantID: tenantID, Name: "Second Overheads", IsOverhead: true, Active: true})
	require.Error(t, err)

	// Overhead sites never carry an address.
	_, err = ts.CreateSite(ctx, &store.Site{TenantID: newTenantID(), Name: "Office", Address: "1 Main St", IsOverhead: true, Active: true})
	require.Error(t, err)
}
