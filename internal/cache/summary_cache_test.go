package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-intel/internal/domain"
	"github.com/spec-kit/ticket-intel/internal/kvstore"
)

func TestSummaryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSummaryCache(kvstore.NewMemoryStore(), zap.NewNop())
	c.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	require.Nil(t, c.Get(ctx, "42"))

	fields := domain.ExtractedFields{OrderNumber: "ORD-1234", Product: "Model 5"}
	require.NoError(t, c.Put(ctx, "42", "first summary", fields))

	entry := c.Get(ctx, "42")
	require.NotNil(t, entry)
	assert.Equal(t, "42", entry.TicketID)
	assert.Equal(t, "first summary", entry.Summary)
	assert.Equal(t, fields, entry.ExtractedFields)
	assert.Equal(t, "2025-06-01T12:00:00Z", entry.Timestamp)
}

func TestSummaryCacheLastWriteWins(t *testing.T) {
	ctx := context.Background()
	c := NewSummaryCache(kvstore.NewMemoryStore(), zap.NewNop())

	require.NoError(t, c.Put(ctx, "7", "first", domain.ExtractedFields{}))
	require.NoError(t, c.Put(ctx, "7", "second", domain.ExtractedFields{Product: "Model 3"}))

	entry := c.Get(ctx, "7")
	require.NotNil(t, entry)
	assert.Equal(t, "second", entry.Summary)
	assert.Equal(t, "Model 3", entry.ExtractedFields.Product)
}

func TestSummaryCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewSummaryCache(kvstore.NewMemoryStore(), zap.NewNop())

	require.NoError(t, c.Put(ctx, "1", "summary", domain.ExtractedFields{}))
	require.NoError(t, c.Invalidate(ctx, "1"))
	assert.Nil(t, c.Get(ctx, "1"))

	// Invalidating an absent entry is a no-op.
	require.NoError(t, c.Invalidate(ctx, "999"))
}

func TestSummaryCacheClear(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	c := NewSummaryCache(store, zap.NewNop())

	require.NoError(t, c.Put(ctx, "1", "one", domain.ExtractedFields{}))
	require.NoError(t, c.Put(ctx, "2", "two", domain.ExtractedFields{}))
	require.NoError(t, store.Set(ctx, "unrelated:key", []byte("keep me")))

	removed, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Nil(t, c.Get(ctx, "1"))
	assert.Nil(t, c.Get(ctx, "2"))

	_, ok, err := store.Get(ctx, "unrelated:key")
	require.NoError(t, err)
	assert.True(t, ok, "clear must only touch summary keys")
}

func TestSummaryCacheCorruptEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	c := NewSummaryCache(store, zap.NewNop())

	require.NoError(t, store.Set(ctx, "ticket_summary:5", []byte("{not json")))
	assert.Nil(t, c.Get(ctx, "5"))
}
