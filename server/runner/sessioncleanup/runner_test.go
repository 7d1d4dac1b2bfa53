package sessioncleanup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/sitevoice/store"
	teststore "github.com/hrygo/sitevoice/store/test"
)

type countingStore struct {
	calls atomic.Int32
}

func (s *countingStore) DeleteCallSessions(_ context.Context, _ *store.DeleteCallSession) (int64, error) {
	s.calls.Add(1)
	return 0, nil
}

func TestRunOnce_DeletesOnlyExpired(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	now := time.Date(2025, 11, 12, 9, 0, 0, 0, time.UTC)

	for callID, expires := range map[string]time.Time{
		"call-old":      now.Add(-time.Hour),
		"call-boundary": now,
		"call-live":     now.Add(time.Hour),
	} {
		_, err := ts.UpsertCallSession(ctx, &store.CallSession{
			CallID: callID, TenantID: "tenant-a", UserID: "user-1", TenantTimezone: "UTC",
			CreatedTs: now.Add(-2 * time.Hour).Unix(), ExpiresTs: expires.Unix(),
		})
		require.NoError(t, err)
	}

	runner := NewRunner(ts, Config{Now: func() time.Time { return now }})
	deleted, err := runner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	callID := "call-live"
	live, err := ts.GetCallSession(ctx, &store.FindCallSession{CallID: &callID})
	require.NoError(t, err)
	assert.NotNil(t, live)
}

func TestRunner_StartStop(t *testing.T) {
	st := &countingStore{}
	runner := NewRunner(st, Config{Interval: 10 * time.Millisecond})

	runner.Start(context.Background())
	runner.Start(context.Background())
	assert.True(t, runner.IsRunning())

	assert.Eventually(t, func() bool { return st.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	runner.Stop()
	assert.False(t, runner.IsRunning())
	stopped := st.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, st.calls.Load())

	runner.Stop()
}

func TestRunner_StopsWithContext(t *testing.T) {
	st := &countingStore{}
	runner := NewRunner(st, Config{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	runner.Start(ctx)
	assert.Eventually(t, func() bool { return st.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	runner.Stop()
}
