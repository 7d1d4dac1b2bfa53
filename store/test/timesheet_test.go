package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/sitevoice/store"
)

func TestTimesheetStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	tenantID := newTenantID()
	site := createTestingSite(ctx, t, ts, tenantID, "Harbour View", false, true)

	created, err := ts.CreateTimesheet(ctx, &store.Timesheet{
		TenantID:         tenantID,
		UserID:           "user-1",
		SiteID:           site.ID,
		CallID:           "call-1",
		WorkDate:         "2025-11-11",
		StartTime:        "07:00",
		EndTime:          "15:30",
		HoursWorked:      8.5,
		WorkDescription:  "framing second floor",
		PlansForTomorrow: "roof trusses",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, int32(1), created.Version)
	require.Equal(t, store.Normal, created.RowStatus)
	require.NotZero(t, created.CreatedTs)

	got, err := ts.GetTimesheet(ctx, &store.FindTimesheet{ID: &created.ID})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "2025-11-11", got.WorkDate)
	require.Equal(t, "07:00", got.StartTime)
	require.Equal(t, 8.5, got.HoursWorked)
	require.Equal(t, "roof trusses", got.PlansForTomorrow)

	missing := "does-not-exist"
	none, err := ts.GetTimesheet(ctx, &store.FindTimesheet{ID: &missing})
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestTimesheetStore_ListFilters(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	tenantID := newTenantID()
	siteA := createTestingSite(ctx, t, ts, tenantID, "Alpha", false, true)
	siteB := createTestingSite(ctx, t, ts, tenantID, "Bravo", false, true)

	entries := []struct {
		user, site, call, date, start string
	}{
		{"user-1", siteA.ID, "call-1", "2025-11-12", "12:00"},
		{"user-1", siteB.ID, "call-1", "2025-11-12", "07:00"},
		{"user-1", siteA.ID, "call-2", "2025-11-10", "07:00"},
		{"user-1", siteA.ID, "call-3", "2025-10-01", "07:00"},
		{"user-2", siteA.ID, "call-4", "2025-11-12", "07:00"},
	}
	for _, e := range entries {
		_, err := ts.CreateTimesheet(ctx, &store.Timesheet{
			TenantID: tenantID, UserID: e.user, SiteID: e.site, CallID: e.call,
			WorkDate: e.date, StartTime: e.start, EndTime: "15:00", HoursWorked: 1,
			WorkDescription: "work",
		})
		require.NoError(t, err)
	}

	userID := "user-1"
	date := "2025-11-12"
	list, err := ts.ListTimesheets(ctx, &store.FindTimesheet{TenantID: &tenantID, UserID: &userID, WorkDate: &date})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "07:00", list[0].StartTime, "same-day entries are ordered by start time")

	list, err = ts.ListTimesheets(ctx, &store.FindTimesheet{TenantID: &tenantID, UserID: &userID, WorkDate: &date, SiteID: &siteA.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)

	from, to := "2025-10-29", "2025-11-12"
	list, err = ts.ListTimesheets(ctx, &store.FindTimesheet{TenantID: &tenantID, UserID: &userID, WorkDateFrom: &from, WorkDateTo: &to})
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "2025-11-12", list[0].WorkDate)
	require.Equal(t, "2025-11-10", list[2].WorkDate)

	callID := "call-1"
	list, err = ts.ListTimesheets(ctx, &store.FindTimesheet{CallID: &callID, TenantID: &tenantID})
	require.NoError(t, err)
	require.Len(t, list, 2)

	limit := 1
	list, err = ts.ListTimesheets(ctx, &store.FindTimesheet{TenantID: &tenantID, Limit: &limit})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestTimesheetStore_ConditionalUpdate(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	tenantID := newTenantID()
	site := createTestingSite(ctx, t, ts, tenantID, "Harbour View", false, true)

	created, err := ts.CreateTimesheet(ctx, &store.Timesheet{
		TenantID: tenantID, UserID: "user-1", SiteID: site.ID, CallID: "call-1",
		WorkDate: "2025-11-11", StartTime: "07:00", EndTime: "15:30", HoursWorked: 8.5,
		WorkDescription: "framing",
	})
	require.NoError(t, err)

	start, end, hours, desc := "06:30", "15:30", 9.0, "framing and cleanup"
	updated, err := ts.UpdateTimesheet(ctx, &store.UpdateTimesheet{
		ID:              created.ID,
		ExpectedVersion: created.Version,
		StartTime:       &start,
		EndTime:         &end,
		HoursWorked:     &hours,
		WorkDescription: &desc,
	})
	require.NoError(t, err)
	require.Equal(t, created.Version+1, updated.Version)
	require.Equal(t, "06:30", updated.StartTime)
	require.Equal(t, 9.0, updated.HoursWorked)
	require.Equal(t, "2025-11-11", updated.WorkDate)
	require.Equal(t, site.ID, updated.SiteID)

	// A writer holding the old version loses.
	_, err = ts.UpdateTimesheet(ctx, &store.UpdateTimesheet{
		ID:              created.ID,
		ExpectedVersion: created.Version,
		StartTime:       &start,
	})
	require.ErrorIs(t, err, store.ErrVersionConflict)

	// So does an unknown id.
	_, err = ts.UpdateTimesheet(ctx, &store.UpdateTimesheet{ID: "missing", ExpectedVersion: 1, StartTime: &start})
	require.ErrorIs(t, err, store.ErrVersionConflict)
}

func TestTimesheetStore_RejectsUnknownSite(t *testing.T) {
	if getDriverFromEnv() != "sqlite" {
		t.Skip("foreign key behaviour checked on sqlite only")
	}
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	_, err := ts.CreateTimesheet(ctx, &store.Timesheet{
		TenantID: newTenantID(), UserID: "user-1", SiteID: "no-such-site",
		WorkDate: "2025-11-11", StartTime: "07:00", EndTime: "08:00", HoursWorked: 1,
		WorkDescription: "x",
	})
	require.Error(t, err)
}
