package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-intel/internal/cache"
	"github.com/spec-kit/ticket-intel/internal/domain"
	"github.com/spec-kit/ticket-intel/internal/events"
	"github.com/spec-kit/ticket-intel/internal/usage"
)

// MaintenanceService covers the operational surface: usage reporting and
// reset, and cache invalidation.
type MaintenanceService struct {
	cache      *cache.SummaryCache
	usage      *usage.Tracker
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewMaintenanceService constructs the service.
func NewMaintenanceService(summaryCache *cache.SummaryCache, tracker *usage.Tracker, dispatcher events.Dispatcher, logger *zap.Logger) *MaintenanceService {
	return &MaintenanceService{cache: summaryCache, usage: tracker, dispatcher: dispatcher, logger: logger}
}

// UsageSnapshot returns accumulated token usage.
func (s *MaintenanceService) UsageSnapshot(ctx context.Context) (*domain.UsageRecord, error) {
	return s.usage.Snapshot(ctx)
}

// ResetUsage discards accumulated token usage.
func (s *MaintenanceService) ResetUsage(ctx context.Context) error {
	if err := s.usage.Reset(ctx); err != nil {
		return err
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUsageReset,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// InvalidateTicket removes one ticket's cached summary.
func (s *MaintenanceService) InvalidateTicket(ctx context.Context, ticketID string) error {
	return s.cache.Invalidate(ctx, ticketID)
}

// ClearCache removes every cached summary and returns how many were dropped.
func (s *MaintenanceService) ClearCache(ctx context.Context) (int, error) {
	removed, err := s.cache.Clear(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("summary cache cleared", zap.Int("entries", removed))
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventCacheCleared,
		Timestamp: time.Now().UTC(),
		Payload:   events.CacheClearedPayload{EntriesRemoved: removed},
	})
	return removed, nil
}
