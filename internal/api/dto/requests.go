package dto

// SummaryRequest carries optional flags for summary generation.
type SummaryRequest struct {
	Refresh bool `json:"refresh"`
}

// FollowupRequest asks a question about an already summarized ticket.
type FollowupRequest struct {
	Question string `json:"question"`
}
