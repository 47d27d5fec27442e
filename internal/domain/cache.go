package domain

// CacheEntry is the cached outcome of a successful extraction for one ticket.
// A put fully overwrites the previous entry; there is no merge and no
// automatic expiry.
type CacheEntry struct {
	TicketID        string          `json:"ticket_id"`
	Summary         string          `json:"summary"`
	ExtractedFields ExtractedFields `json:"extracted_fields"`
	Timestamp       string          `json:"timestamp"`
}
