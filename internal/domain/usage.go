package domain

// UsageHistoryLimit caps the bounded request history; older entries are
// discarded permanently.
const UsageHistoryLimit = 20

// TokenUsage counts tokens consumed by a single model call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// UsageEvent is one entry in the bounded request history, most recent first.
type UsageEvent struct {
	Timestamp  string `json:"timestamp"`
	TicketID   string `json:"ticket_id"`
	Tokens     int    `json:"tokens"`
	Prompt     int    `json:"prompt"`
	Completion int    `json:"completion"`
}

// UsageRecord accumulates token consumption across model calls. Totals and
// RequestCount grow monotonically until a reset.
type UsageRecord struct {
	TotalTokens      int            `json:"total_tokens"`
	PromptTokens     int            `json:"prompt_tokens"`
	CompletionTokens int            `json:"completion_tokens"`
	RequestCount     int            `json:"request_count"`
	LastRequest      string         `json:"last_request,omitempty"`
	DailyUsage       map[string]int `json:"daily_usage"`
	History          []UsageEvent   `json:"history"`
}
