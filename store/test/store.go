package test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/hrygo/sitevoice/internal/profile"
	"github.com/hrygo/sitevoice/store"
	"github.com/hrygo/sitevoice/store/db"
)

// NewTestingStore opens a migrated store for the driver selected by the DRIVER
// environment variable (sqlite by default, in a per-test temp directory).
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()
	p := getTestingProfile(t)
	driver, err := db.NewDBDriver(p)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	s := store.New(driver, p)
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func getTestingProfile(t *testing.T) *profile.Profile {
	t.Helper()
	dir := t.TempDir()
	driver := getDriverFromEnv()
	p := &profile.Profile{
		Mode:   "dev",
		Data:   dir,
		Driver: driver,
	}
	switch driver {
	case "postgres":
		p.DSN = GetPostgresDSN(t)
	default:
		p.DSN = filepath.Join(dir, "sitevoice_test.db")
	}
	return p
}

func getDriverFromEnv() string {
	if driver := os.Getenv("DRIVER"); driver != "" {
		return driver
	}
	return "sqlite"
}

// newTenantID returns a fresh tenant id so tests can share a PostgreSQL database.
func newTenantID() string {
	return "tenant-" + uuid.NewString()
}

func createTestingSite(ctx context.Context, t *testing.T, ts *store.Store, tenantID, name string, overhead, active bool) *store.Site {
	t.Helper()
	site, err := ts.CreateSite(ctx, &store.Site{
		TenantID:   tenantID,
		Name:       name,
		IsOverhead: overhead,
		Active:     active,
	})
	if err != nil {
		t.Fatalf("failed to create site %q: %v", name, err)
	}
	return site
}
