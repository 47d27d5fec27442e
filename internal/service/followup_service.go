package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-intel/internal/cache"
	"github.com/spec-kit/ticket-intel/internal/domain"
	"github.com/spec-kit/ticket-intel/internal/events"
	"github.com/spec-kit/ticket-intel/internal/llm"
	"github.com/spec-kit/ticket-intel/internal/observability"
	"github.com/spec-kit/ticket-intel/internal/prompt"
	"github.com/spec-kit/ticket-intel/internal/repository"
	"github.com/spec-kit/ticket-intel/internal/usage"
	apperrors "github.com/spec-kit/ticket-intel/pkg/util/errorutil"
)

// FollowupResult is the outcome of a follow-up question.
type FollowupResult struct {
	TicketID        string            `json:"ticket_id"`
	Question        string            `json:"question"`
	Answer          string            `json:"answer"`
	Tokens          domain.TokenUsage `json:"tokens"`
	TokensEstimated bool              `json:"tokens_estimated"`
	Backend         string            `json:"backend"`
}

// FollowupDependencies bundles collaborators for FollowupService.
type FollowupDependencies struct {
	Client     llm.Client
	Backend    string
	Cache      *cache.SummaryCache
	Usage      *usage.Tracker
	AuditRepo  *repository.ExtractionRepository
	Metrics    *observability.Metrics
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// FollowupService answers questions about a ticket using only its cached
// summary as context. The raw ticket thread is never re-fetched.
type FollowupService struct {
	client     llm.Client
	backend    string
	composer   *prompt.Composer
	cache      *cache.SummaryCache
	usage      *usage.Tracker
	auditRepo  *repository.ExtractionRepository
	metrics    *observability.Metrics
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewFollowupService constructs the service.
func NewFollowupService(deps FollowupDependencies) *FollowupService {
	return &FollowupService{
		client:     deps.Client,
		backend:    deps.Backend,
		composer:   prompt.NewComposer(),
		cache:      deps.Cache,
		usage:      deps.Usage,
		auditRepo:  deps.AuditRepo,
		metrics:    deps.Metrics,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Answer resolves a follow-up question against the cached summary. A ticket
// without a cached summary is rejected; the caller must generate one first.
func (s *FollowupService) Answer(ctx context.Context, ticketID, question string) (*FollowupResult, error) {
	if question == "" {
		return nil, apperrors.NewValidationError("question must not be empty", nil)
	}

	entry := s.cache.Get(ctx, ticketID)
	if entry == nil {
		return nil, apperrors.NewNotFound("cached summary",
			map[string]any{"ticket_id": ticketID, "hint": "generate a summary first"})
	}

	composed := s.composer.Compose(prompt.FollowupTemplate, map[string]string{
		"ticketContent": entry.Summary,
		"question":      question,
	})

	completion, err := s.client.Complete(ctx, composed)
	if err != nil {
		return nil, err
	}

	if err := s.usage.Record(ctx, ticketID, completion.Usage); err != nil {
		s.logger.Warn("usage accounting failed", zap.String("ticket_id", ticketID), zap.Error(err))
	}
	if _, err := s.auditRepo.Insert(ctx, ticketID, "followup", s.backend, completion.Usage, completion.Estimated); err != nil {
		s.logger.Warn("extraction audit insert failed", zap.String("ticket_id", ticketID), zap.Error(err))
	}
	s.metrics.RecordModelCall(s.backend, completion.Usage.TotalTokens)

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventFollowupAnswered,
		TicketID:  ticketID,
		Timestamp: time.Now().UTC(),
		Payload: events.FollowupAnsweredPayload{
			Backend:  s.backend,
			Question: question,
			Tokens:   completion.Usage,
		},
	})

	return &FollowupResult{
		TicketID:        ticketID,
		Question:        question,
		Answer:          completion.Text,
		Tokens:          completion.Usage,
		TokensEstimated: completion.Estimated,
		Backend:         s.backend,
	}, nil
}
