package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-intel/internal/domain"
	"github.com/spec-kit/ticket-intel/internal/kvstore"
)

const keyPrefix = "ticket_summary:"

// SummaryCache holds the last generated summary per ticket. Entries have no
// expiry; they are replaced on regeneration and removed on invalidation.
// Concurrent writers for the same ticket race benignly, the last write wins.
type SummaryCache struct {
	store  kvstore.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewSummaryCache(store kvstore.Store, logger *zap.Logger) *SummaryCache {
	return &SummaryCache{store: store, logger: logger, now: time.Now}
}

func cacheKey(ticketID string) string {
	return keyPrefix + ticketID
}

// Get returns the cached entry for a ticket, or nil on a miss. Storage read
// failures and undecodable payloads degrade to a miss so a broken cache never
// blocks summary generation.
func (c *SummaryCache) Get(ctx context.Context, ticketID string) *domain.CacheEntry {
	raw, ok, err := c.store.Get(ctx, cacheKey(ticketID))
	if err != nil {
		c.logger.Warn("summary cache read failed", zap.String("ticket_id", ticketID), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Warn("summary cache entry undecodable", zap.String("ticket_id", ticketID), zap.Error(err))
		return nil
	}
	return &entry
}

// Put stores a freshly generated summary. Write failures are reported to the
// caller but must not fail the generation that produced the entry.
func (c *SummaryCache) Put(ctx context.Context, ticketID string, summary string, fields domain.ExtractedFields) error {
	entry := domain.CacheEntry{
		TicketID:        ticketID,
		Summary:         summary,
		ExtractedFields: fields,
		Timestamp:       c.now().UTC().Format(time.RFC3339),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.store.Set(ctx, cacheKey(ticketID), raw); err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

// Invalidate removes the entry for one ticket.
func (c *SummaryCache) Invalidate(ctx context.Context, ticketID string) error {
	return c.store.Remove(ctx, cacheKey(ticketID))
}

// Clear removes every cached summary and returns how many were dropped.
func (c *SummaryCache) Clear(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx, keyPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("list cache keys: %w", err)
	}
	removed := 0
	for _, key := range keys {
		if err := c.store.Remove(ctx, key); err != nil {
			return removed, fmt.Errorf("remove cache key %s: %w", key, err)
		}
		removed++
	}
	return removed, nil
}
