package events

import (
	"time"

	"github.com/spec-kit/ticket-intel/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSummaryGenerated EventType = "summary_generated"
	EventFollowupAnswered EventType = "followup_answered"
	EventCacheCleared     EventType = "cache_cleared"
	EventUsageReset       EventType = "usage_reset"
)

// Event represents a pipeline event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SummaryGeneratedPayload payload.
type SummaryGeneratedPayload struct {
	Backend string                 `json:"backend"`
	Cached  bool                   `json:"cached"`
	Urgency domain.UrgencyLevel    `json:"urgency"`
	Fields  domain.ExtractedFields `json:"fields"`
	Tokens  domain.TokenUsage      `json:"tokens"`
}

// FollowupAnsweredPayload payload.
type FollowupAnsweredPayload struct {
	Backend  string            `json:"backend"`
	Question string            `json:"question"`
	Tokens   domain.TokenUsage `json:"tokens"`
}

// CacheClearedPayload payload.
type CacheClearedPayload struct {
	EntriesRemoved int `json:"entries_removed"`
}
