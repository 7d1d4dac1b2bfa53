package timesheet

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hrygo/sitevoice/store"
)

// MockStoreForTimesheet is an in-memory implementation of the Store interface for testing.
type MockStoreForTimesheet struct {
	mu         sync.Mutex
	sessions   []*store.CallSession
	sites      []*store.Site
	timesheets []*store.Timesheet

	// Injected failures, consumed one per call.
	createFailures   int
	listFailures     int
	versionConflicts int

	listSiteCalls  int
	listEntryCalls int
}

var errStoreDown = errors.New("store unavailable")

func (m *MockStoreForTimesheet) GetCallSession(ctx context.Context, find *store.FindCallSession) (*store.CallSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if find.CallID != nil && s.CallID != *find.CallID {
			continue
		}
		if find.ActiveAt != nil && s.ExpiresTs <= *find.ActiveAt {
			continue
		}
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (m *MockStoreForTimesheet) ListActiveSites(ctx context.Context, tenantID string) ([]*store.Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listSiteCalls++
	result := make([]*store.Site, 0)
	for _, s := range m.sites {
		if s.TenantID == tenantID && s.Active {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockStoreForTimesheet) GetSite(ctx context.Context, find *store.FindSite) (*store.Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sites {
		if find.ID != nil && s.ID != *find.ID {
			continue
		}
		if find.TenantID != nil && s.TenantID != *find.TenantID {
			continue
		}
		return s, nil
	}
	return nil, nil
}

func (m *MockStoreForTimesheet) CreateTimesheet(ctx context.Context, create *store.Timesheet) (*store.Timesheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createFailures > 0 {
		m.createFailures--
		return nil, errStoreDown
	}
	if create.ID == "" {
		create.ID = uuid.NewString()
	}
	copied := *create
	m.timesheets = append(m.timesheets, &copied)
	result := copied
	return &result, nil
}

func (m *MockStoreForTimesheet) ListTimesheets(ctx context.Context, find *store.FindTimesheet) ([]*store.Timesheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listEntryCalls++
	if m.listFailures > 0 {
		m.listFailures--
		return nil, errStoreDown
	}

	result := make([]*store.Timesheet, 0)
	for _, t := range m.timesheets {
		if find.ID != nil && t.ID != *find.ID {
			continue
		}
		if find.TenantID != nil && t.TenantID != *find.TenantID {
			continue
		}
		if find.UserID != nil && t.UserID != *find.UserID {
			continue
		}
		if find.SiteID != nil && t.SiteID != *find.SiteID {
			continue
		}
		if find.CallID != nil && t.CallID != *find.CallID {
			continue
		}
		if find.WorkDate != nil && t.WorkDate != *find.WorkDate {
			continue
		}
		if find.WorkDateFrom != nil && t.WorkDate < *find.WorkDateFrom {
			continue
		}
		if find.WorkDateTo != nil && t.WorkDate > *find.WorkDateTo {
			continue
		}
		if find.RowStatus != nil && t.RowStatus != *find.RowStatus {
			continue
		}
		copied := *t
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockStoreForTimesheet) GetTimesheet(ctx context.Context, find *store.FindTimesheet) (*store.Timesheet, error) {
	list, err := m.ListTimesheets(ctx, find)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

func (m *MockStoreForTimesheet) UpdateTimesheet(ctx context.Context, update *store.UpdateTimesheet) (*store.Timesheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.timesheets {
		if t.ID != update.ID {
			continue
		}
		if m.versionConflicts > 0 {
			// Simulate another call winning the race.
			m.versionConflicts--
			t.Version++
			return nil, store.ErrVersionConflict
		}
		if t.Version != update.ExpectedVersion {
			return nil, store.ErrVersionConflict
		}
		if update.StartTime != nil {
			t.StartTime = *update.StartTime
		}
		if update.EndTime != nil {
			t.EndTime = *update.EndTime
		}
		if update.HoursWorked != nil {
			t.HoursWorked = *update.HoursWorked
		}
		if update.WorkDescription != nil {
			t.WorkDescription = *update.WorkDescription
		}
		if update.PlansForTomorrow != nil {
			t.PlansForTomorrow = *update.PlansForTomorrow
		}
		if update.UpdatedTs != nil {
			t.UpdatedTs = *update.UpdatedTs
		}
		t.Version++
		copied := *t
		return &copied, nil
	}
	return nil, store.ErrVersionConflict
}
