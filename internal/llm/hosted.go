package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/spec-kit/ticket-intel/pkg/util/errorutil"
)

// DefaultHostedEndpoint is the fixed completion endpoint of the hosted API.
const DefaultHostedEndpoint = "https://api.openai.com/v1/chat/completions"

const hostedTemperature = 0.2

// HostedClient calls the remote, authenticated completion API.
type HostedClient struct {
	endpoint   string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
	logger     *zap.Logger
}

// HostedOptions configures the hosted backend.
type HostedOptions struct {
	Endpoint       string
	APIKey         string
	Model          string
	MaxTokens      int
	RequestTimeout time.Duration
}

// NewHostedClient constructs a hosted backend client.
func NewHostedClient(opts HostedOptions, logger *zap.Logger) *HostedClient {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultHostedEndpoint
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 300
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HostedClient{
		endpoint:   endpoint,
		apiKey:     opts.APIKey,
		model:      opts.Model,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type hostedRequest struct {
	Model       string          `json:"model"`
	Messages    []hostedMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type hostedMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type hostedResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete performs a single POST to the hosted endpoint. Usage counts come
// verbatim from the response when present, else they are estimated.
func (c *HostedClient) Complete(ctx context.Context, prompt string) (*Completion, error) {
	payload := hostedRequest{
		Model:       c.model,
		Messages:    []hostedMessage{{Role: "user", Content: prompt}},
		Temperature: hostedTemperature,
		MaxTokens:   c.maxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal hosted request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create hosted request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hosted model request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read hosted response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("hosted model call failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, apperrors.NewUpstreamAuthFailed("hosted model API", fmt.Errorf("status %d: %s", resp.StatusCode, respBody))
		case resp.StatusCode == http.StatusNotFound:
			return nil, apperrors.NewUpstreamNotFound("model resource", map[string]any{"body": string(respBody)})
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return nil, apperrors.NewUpstreamUnavailable("hosted model API", resp.StatusCode, string(respBody))
		default:
			return nil, fmt.Errorf("hosted model API error (%d): %s", resp.StatusCode, respBody)
		}
	}

	var parsed hostedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, apperrors.NewMalformedUpstreamResponse("hosted model API", "JSON completion payload")
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, apperrors.NewMalformedUpstreamResponse("hosted model API", "choices[0].message.content")
	}

	text := parsed.Choices[0].Message.Content
	completion := &Completion{Text: text}
	if parsed.Usage != nil {
		completion.Usage.PromptTokens = parsed.Usage.PromptTokens
		completion.Usage.CompletionTokens = parsed.Usage.CompletionTokens
		completion.Usage.TotalTokens = parsed.Usage.TotalTokens
	} else {
		completion.Usage = estimatedUsage(prompt, text)
		completion.Estimated = true
	}
	return completion, nil
}
