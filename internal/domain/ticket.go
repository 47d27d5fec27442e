package domain

import "time"

// TicketComment is a single comment on a support ticket as returned by the
// ticket source.
type TicketComment struct {
	ID        int64
	Body      string
	Public    bool
	Automated bool
	CreatedAt time.Time
}

// TicketSnapshot carries everything fetched from the ticket source for one
// ticket: the comment thread plus the metadata needed by the pipeline.
type TicketSnapshot struct {
	TicketID     string
	Subject      string
	Tags         []string
	Priority     string
	CreatedAt    *time.Time
	Comments     []TicketComment
	CustomFields map[int64]string
}

// TicketContext is the assembled, immutable input for one extraction request.
// RawContent concatenates the subject, the initial comment and all subsequent
// public non-automated comments.
type TicketContext struct {
	TicketID   string
	Subject    string
	RawContent string
	Tags       []string
	Priority   string
	CreatedAt  *time.Time
}
