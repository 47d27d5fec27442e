package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-intel/internal/cache"
	"github.com/spec-kit/ticket-intel/internal/classify"
	"github.com/spec-kit/ticket-intel/internal/domain"
	"github.com/spec-kit/ticket-intel/internal/events"
	"github.com/spec-kit/ticket-intel/internal/extract"
	"github.com/spec-kit/ticket-intel/internal/llm"
	"github.com/spec-kit/ticket-intel/internal/observability"
	"github.com/spec-kit/ticket-intel/internal/prompt"
	"github.com/spec-kit/ticket-intel/internal/repository"
	"github.com/spec-kit/ticket-intel/internal/ticketsource"
	"github.com/spec-kit/ticket-intel/internal/usage"
)

// TicketFetcher loads tickets from the upstream system.
type TicketFetcher interface {
	FetchSnapshot(ctx context.Context, ticketID string) (*domain.TicketSnapshot, error)
}

// SummaryResult is the outcome of one summary request.
type SummaryResult struct {
	TicketID        string                 `json:"ticket_id"`
	Summary         string                 `json:"summary"`
	ExtractedFields domain.ExtractedFields `json:"extracted_fields"`
	Urgency         domain.UrgencyInfo     `json:"urgency"`
	Product         domain.ProductContext  `json:"product"`
	Patterns        domain.PatternMatches  `json:"patterns"`
	Tokens          domain.TokenUsage      `json:"tokens"`
	TokensEstimated bool                   `json:"tokens_estimated"`
	Backend         string                 `json:"backend"`
	Cached          bool                   `json:"cached"`
	Timestamp       string                 `json:"timestamp"`
}

// ExtractionDependencies bundles collaborators for ExtractionService.
type ExtractionDependencies struct {
	Fetcher    TicketFetcher
	Client     llm.Client
	Backend    string
	Template   string
	Cache      *cache.SummaryCache
	Usage      *usage.Tracker
	AuditRepo  *repository.ExtractionRepository
	Metrics    *observability.Metrics
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// ExtractionService runs the full summary pipeline: fetch, classify, extract,
// compose, call the model, re-extract fields, then cache and account.
type ExtractionService struct {
	fetcher    TicketFetcher
	client     llm.Client
	backend    string
	template   string
	classifier *classify.TagClassifier
	urgency    *classify.UrgencyCalculator
	patterns   *extract.PatternExtractor
	fields     *extract.FieldExtractor
	composer   *prompt.Composer
	cache      *cache.SummaryCache
	usage      *usage.Tracker
	auditRepo  *repository.ExtractionRepository
	metrics    *observability.Metrics
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewExtractionService constructs the pipeline.
func NewExtractionService(deps ExtractionDependencies) *ExtractionService {
	template := deps.Template
	if template == "" {
		template = prompt.DefaultTemplate
	}
	return &ExtractionService{
		fetcher:    deps.Fetcher,
		client:     deps.Client,
		backend:    deps.Backend,
		template:   template,
		classifier: classify.NewTagClassifier(),
		urgency:    classify.NewUrgencyCalculator(),
		patterns:   extract.NewPatternExtractor(),
		fields:     extract.NewFieldExtractor(),
		composer:   prompt.NewComposer(),
		cache:      deps.Cache,
		usage:      deps.Usage,
		auditRepo:  deps.AuditRepo,
		metrics:    deps.Metrics,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Summarize produces a summary for the ticket, serving from cache unless
// refresh is set. Cache writes, usage accounting and audit inserts never fail
// the request once the model has answered.
func (s *ExtractionService) Summarize(ctx context.Context, ticketID string, refresh bool) (*SummaryResult, error) {
	if !refresh {
		if entry := s.cache.Get(ctx, ticketID); entry != nil {
			return &SummaryResult{
				TicketID:        ticketID,
				Summary:         entry.Summary,
				ExtractedFields: entry.ExtractedFields,
				Backend:         s.backend,
				Cached:          true,
				Timestamp:       entry.Timestamp,
			}, nil
		}
	}

	snapshot, err := s.fetcher.FetchSnapshot(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	ticket := ticketsource.Context(snapshot)

	product := s.classifier.Classify(ticket.Tags)
	urgencyInfo := s.urgency.Calculate(ticket.CreatedAt, ticket.Priority)
	patterns := s.patterns.Extract(ticket.RawContent)

	vars := s.composer.Variables(ticket, product, urgencyInfo, patterns)
	composed := s.composer.Compose(s.template, vars)

	completion, err := s.client.Complete(ctx, composed)
	if err != nil {
		return nil, err
	}

	fields := s.fields.ExtractFields(completion.Text)

	result := &SummaryResult{
		TicketID:        ticketID,
		Summary:         completion.Text,
		ExtractedFields: fields,
		Urgency:         urgencyInfo,
		Product:         product,
		Patterns:        patterns,
		Tokens:          completion.Usage,
		TokensEstimated: completion.Estimated,
		Backend:         s.backend,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.cache.Put(ctx, ticketID, completion.Text, fields); err != nil {
		s.logger.Warn("summary cache write failed", zap.String("ticket_id", ticketID), zap.Error(err))
	}
	if err := s.usage.Record(ctx, ticketID, completion.Usage); err != nil {
		s.logger.Warn("usage accounting failed", zap.String("ticket_id", ticketID), zap.Error(err))
	}
	if _, err := s.auditRepo.Insert(ctx, ticketID, "summary", s.backend, completion.Usage, completion.Estimated); err != nil {
		s.logger.Warn("extraction audit insert failed", zap.String("ticket_id", ticketID), zap.Error(err))
	}
	s.metrics.RecordModelCall(s.backend, completion.Usage.TotalTokens)

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSummaryGenerated,
		TicketID:  ticketID,
		Timestamp: time.Now().UTC(),
		Payload: events.SummaryGeneratedPayload{
			Backend: s.backend,
			Cached:  false,
			Urgency: urgencyInfo.Level,
			Fields:  fields,
			Tokens:  completion.Usage,
		},
	})

	return result, nil
}
