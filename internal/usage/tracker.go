package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-intel/internal/domain"
	"github.com/spec-kit/ticket-intel/internal/kvstore"
)

const usageKey = "token_usage"

// Tracker accumulates token consumption in a single stored record. The
// read-modify-write cycle is serialized by a mutex so concurrent recorders
// cannot lose each other's increments.
type Tracker struct {
	mu     sync.Mutex
	store  kvstore.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewTracker(store kvstore.Store, logger *zap.Logger) *Tracker {
	return &Tracker{store: store, logger: logger, now: time.Now}
}

// Record folds one model call into the running totals, the per-day counters,
// and the bounded history (most recent first).
func (t *Tracker) Record(ctx context.Context, ticketID string, tokens domain.TokenUsage) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, err := t.load(ctx)
	if err != nil {
		return err
	}

	now := t.now().UTC()
	record.TotalTokens += tokens.TotalTokens
	record.PromptTokens += tokens.PromptTokens
	record.CompletionTokens += tokens.CompletionTokens
	record.RequestCount++
	record.LastRequest = now.Format(time.RFC3339)

	day := now.Format("2006-01-02")
	record.DailyUsage[day] += tokens.TotalTokens

	event := domain.UsageEvent{
		Timestamp:  record.LastRequest,
		TicketID:   ticketID,
		Tokens:     tokens.TotalTokens,
		Prompt:     tokens.PromptTokens,
		Completion: tokens.CompletionTokens,
	}
	record.History = append([]domain.UsageEvent{event}, record.History...)
	if len(record.History) > domain.UsageHistoryLimit {
		record.History = record.History[:domain.UsageHistoryLimit]
	}

	return t.save(ctx, record)
}

// Snapshot returns the current record. An empty store yields a zero record
// with initialized maps, never an error.
func (t *Tracker) Snapshot(ctx context.Context) (*domain.UsageRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(ctx)
}

// Reset discards all accumulated usage.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.store.Remove(ctx, usageKey); err != nil {
		return fmt.Errorf("reset usage record: %w", err)
	}
	t.logger.Info("token usage reset")
	return nil
}

func (t *Tracker) load(ctx context.Context) (*domain.UsageRecord, error) {
	record := &domain.UsageRecord{
		DailyUsage: map[string]int{},
		History:    []domain.UsageEvent{},
	}
	raw, ok, err := t.store.Get(ctx, usageKey)
	if err != nil {
		return nil, fmt.Errorf("load usage record: %w", err)
	}
	if !ok {
		return record, nil
	}
	if err := json.Unmarshal(raw, record); err != nil {
		// A corrupt record restarts accumulation rather than wedging it.
		t.logger.Warn("usage record undecodable, starting fresh", zap.Error(err))
		return &domain.UsageRecord{
			DailyUsage: map[string]int{},
			History:    []domain.UsageEvent{},
		}, nil
	}
	if record.DailyUsage == nil {
		record.DailyUsage = map[string]int{}
	}
	if record.History == nil {
		record.History = []domain.UsageEvent{}
	}
	return record, nil
}

func (t *Tracker) save(ctx context.Context, record *domain.UsageRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode usage record: %w", err)
	}
	if err := t.store.Set(ctx, usageKey, raw); err != nil {
		return fmt.Errorf("store usage record: %w", err)
	}
	return nil
}
