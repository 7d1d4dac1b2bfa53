package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/sitevoice/internal/profile"
	"github.com/hrygo/sitevoice/store"
	"github.com/hrygo/sitevoice/store/db"
)

func TestMigrate_DemoSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	p := &profile.Profile{Mode: "demo", Driver: "sqlite", Data: dir, DSN: filepath.Join(dir, "demo.db")}

	driver, err := db.NewDBDriver(p)
	require.NoError(t, err)
	s := store.New(driver, p)
	defer s.Close()

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx))

	sites, err := s.ListActiveSites(ctx, "tenant-demo")
	require.NoError(t, err)
	require.Len(t, sites, 4)

	callID := "demo-call"
	session, err := s.GetCallSession(ctx, &store.FindCallSession{CallID: &callID})
	require.NoError(t, err)
	require.NotNil(t, session)
	require.Equal(t, "Demo Builders", session.TenantName)
}

func TestNewDBDriver_UnknownDriver(t *testing.T) {
	_, err := db.NewDBDriver(&profile.Profile{Driver: "mysql"})
	require.Error(t, err)
}
