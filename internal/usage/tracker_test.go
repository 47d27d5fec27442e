package usage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-intel/internal/domain"
	"github.com/spec-kit/ticket-intel/internal/kvstore"
)

func newTestTracker(at time.Time) *Tracker {
	t := NewTracker(kvstore.NewMemoryStore(), zap.NewNop())
	t.now = func() time.Time { return at }
	return t
}

func TestTrackerRecordAccumulates(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	require.NoError(t, tracker.Record(ctx, "101", domain.TokenUsage{PromptTokens: 100, CompletionTokens: 40, TotalTokens: 140}))
	require.NoError(t, tracker.Record(ctx, "102", domain.TokenUsage{PromptTokens: 50, CompletionTokens: 10, TotalTokens: 60}))

	record, err := tracker.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 200, record.TotalTokens)
	assert.Equal(t, 150, record.PromptTokens)
	assert.Equal(t, 50, record.CompletionTokens)
	assert.Equal(t, 2, record.RequestCount)
	assert.Equal(t, "2025-06-01T10:00:00Z", record.LastRequest)
	assert.Equal(t, map[string]int{"2025-06-01": 200}, record.DailyUsage)

	require.Len(t, record.History, 2)
	assert.Equal(t, "102", record.History[0].TicketID, "most recent entry first")
	assert.Equal(t, "101", record.History[1].TicketID)
}

func TestTrackerDailyTotalsMatchGrandTotal(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(time.Time{})

	days := []time.Time{
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
	}
	for i, day := range days {
		tracker.now = func() time.Time { return day }
		usage := domain.TokenUsage{TotalTokens: (i + 1) * 10}
		require.NoError(t, tracker.Record(ctx, fmt.Sprintf("%d", i), usage))
	}

	record, err := tracker.Snapshot(ctx)
	require.NoError(t, err)
	sum := 0
	for _, n := range record.DailyUsage {
		sum += n
	}
	assert.Equal(t, record.TotalTokens, sum)
	assert.Equal(t, map[string]int{"2025-06-01": 30, "2025-06-02": 30}, record.DailyUsage)
}

func TestTrackerHistoryIsCapped(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	for i := 0; i < domain.UsageHistoryLimit+5; i++ {
		require.NoError(t, tracker.Record(ctx, fmt.Sprintf("%d", i), domain.TokenUsage{TotalTokens: 1}))
	}

	record, err := tracker.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, record.History, domain.UsageHistoryLimit)
	assert.Equal(t, fmt.Sprintf("%d", domain.UsageHistoryLimit+4), record.History[0].TicketID)
	// Totals keep growing past the history horizon.
	assert.Equal(t, domain.UsageHistoryLimit+5, record.RequestCount)
	assert.Equal(t, domain.UsageHistoryLimit+5, record.TotalTokens)
}

func TestTrackerReset(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, tracker.Record(ctx, "1", domain.TokenUsage{TotalTokens: 99}))
	require.NoError(t, tracker.Reset(ctx))

	record, err := tracker.Snapshot(ctx)
	require.NoError(t, err)
	assert.Zero(t, record.TotalTokens)
	assert.Zero(t, record.RequestCount)
	assert.Empty(t, record.History)
	assert.Empty(t, record.DailyUsage)
	assert.Empty(t, record.LastRequest)
}
