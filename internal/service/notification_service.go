package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-intel/internal/config"
	"github.com/spec-kit/ticket-intel/internal/domain"
	"github.com/spec-kit/ticket-intel/internal/events"
)

// NotificationService reacts to pipeline events with outbound notifications.
// Email and webhook delivery are stubbed to structured log lines; the wiring
// and payloads are real.
type NotificationService struct {
	cfg        config.NotificationConfig
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(cfg config.NotificationConfig, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{cfg: cfg, dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to the events that warrant a notification.
func (s *NotificationService) RegisterHandlers() {
	s.dispatcher.Subscribe(events.EventSummaryGenerated, s.onSummaryGenerated)
	s.dispatcher.Subscribe(events.EventCacheCleared, s.onCacheCleared)
	s.dispatcher.Subscribe(events.EventUsageReset, s.onUsageReset)
}

func (s *NotificationService) onSummaryGenerated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SummaryGeneratedPayload)
	if !ok {
		return nil
	}
	// Only urgent tickets trigger an email; routine summaries just go to the
	// webhook when one is configured.
	if payload.Urgency == domain.UrgencyHigh {
		s.sendEmail("urgent ticket summarized", event.TicketID)
	}
	s.sendWebhook(string(event.Type), event.TicketID)
	return nil
}

func (s *NotificationService) onCacheCleared(_ context.Context, event events.Event) error {
	s.sendWebhook(string(event.Type), "")
	return nil
}

func (s *NotificationService) onUsageReset(_ context.Context, event events.Event) error {
	s.sendWebhook(string(event.Type), "")
	return nil
}

func (s *NotificationService) sendEmail(subject, ticketID string) {
	s.logger.Info("notification email (stub)",
		zap.String("from", s.cfg.EmailFrom),
		zap.String("subject", subject),
		zap.String("ticket_id", ticketID),
	)
}

func (s *NotificationService) sendWebhook(eventType, ticketID string) {
	if s.cfg.WebhookURL == "" {
		return
	}
	s.logger.Info("notification webhook (stub)",
		zap.String("url", s.cfg.WebhookURL),
		zap.String("event_type", eventType),
		zap.String("ticket_id", ticketID),
	)
}
