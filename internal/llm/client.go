package llm

import (
	"context"

	"github.com/spec-kit/ticket-intel/internal/domain"
)

// Completion is the result of one model call. Estimated marks usage counts
// that were derived from text length rather than reported by the backend.
type Completion struct {
	Text      string
	Usage     domain.TokenUsage
	Estimated bool
}

// Client abstracts "ask a language model" over the hosted and local backends.
type Client interface {
	Complete(ctx context.Context, prompt string) (*Completion, error)
}

// ModelInfo describes one model available on the local server.
type ModelInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// EstimateTokens approximates token count as ceil(len/4). Fallback only, used
// when the backend does not report usage.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

func estimatedUsage(prompt, completion string) domain.TokenUsage {
	p := EstimateTokens(prompt)
	c := EstimateTokens(completion)
	return domain.TokenUsage{
		PromptTokens:     p,
		CompletionTokens: c,
		TotalTokens:      p + c,
	}
}
