package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/spec-kit/ticket-intel/pkg/util/errorutil"
)

// DefaultLocalPort is the conventional local model server port.
const DefaultLocalPort = "11434"

var urlPortPattern = regexp.MustCompile(`:(\d+)`)

// ladderState enumerates the per-candidate endpoint ladder. The local server
// has several historically-evolved endpoint shapes; each candidate URL walks
// them in a fixed order and the first success wins.
type ladderState int

const (
	stateProbe ladderState = iota
	stateGenerate
	stateChat
	stateLegacy
	stateExhausted
)

// ladderNext is the transition table. Kept explicit so retry order and
// short-circuit conditions stay testable in isolation.
var ladderNext = map[ladderState]ladderState{
	stateProbe:    stateGenerate,
	stateGenerate: stateChat,
	stateChat:     stateLegacy,
	stateLegacy:   stateExhausted,
}

// LocalClient is a resilience wrapper around an unreliable, possibly
// multi-instance local model server. Candidate URLs and endpoint shapes are
// tried strictly sequentially; the request fails only when every candidate
// has exhausted every shape.
type LocalClient struct {
	configuredURL string
	model         string
	httpClient    *http.Client
	logger        *zap.Logger
}

// LocalOptions configures the local backend.
type LocalOptions struct {
	ServerURL      string
	Model          string
	RequestTimeout time.Duration
}

// NewLocalClient constructs a local backend client.
func NewLocalClient(opts LocalOptions, logger *zap.Logger) *LocalClient {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	model := opts.Model
	if model == "" {
		model = "llama3"
	}
	return &LocalClient{
		configuredURL: opts.ServerURL,
		model:         model,
		httpClient:    &http.Client{Timeout: timeout},
		logger:        logger,
	}
}

// CandidateURLs derives the base URLs to try: the configured URL (scheme
// defaulted, trailing slash stripped), then localhost and 127.0.0.1 on the
// same port, deduplicated in order.
func CandidateURLs(configured string) []string {
	url := strings.TrimSpace(configured)
	if url == "" {
		url = "http://localhost:" + DefaultLocalPort
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	url = strings.TrimSuffix(url, "/")

	port := DefaultLocalPort
	if m := urlPortPattern.FindStringSubmatch(url); m != nil {
		port = m[1]
	}

	return dedupeURLs([]string{
		url,
		"http://localhost:" + port,
		"http://127.0.0.1:" + port,
	})
}

func dedupeURLs(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

var localFailureSuggestions = []string{
	"Ensure the local model server is running",
	"Check the server URL in configuration (default: http://localhost:11434)",
	"Make sure the model is downloaded on the server",
	"If requests are rejected with 403, restart the server with cross-origin requests allowed (OLLAMA_ORIGINS=*)",
}

// Complete walks every candidate URL in order, running the endpoint ladder on
// each. Usage is never reported by the local server and is always estimated.
func (c *LocalClient) Complete(ctx context.Context, prompt string) (*Completion, error) {
	candidates := CandidateURLs(c.configuredURL)
	attempted := make([]string, 0, len(candidates))
	var lastErr error

	for _, base := range candidates {
		attempted = append(attempted, base)
		text, err := c.runLadder(ctx, base, prompt)
		if err == nil {
			return &Completion{
				Text:      text,
				Usage:     estimatedUsage(prompt, text),
				Estimated: true,
			}, nil
		}
		c.logger.Warn("local model candidate failed", zap.String("url", base), zap.Error(err))
		lastErr = err
	}

	return nil, apperrors.NewAllEndpointsFailed(attempted, lastErr, localFailureSuggestions)
}

// runLadder executes the endpoint state machine against one candidate URL.
func (c *LocalClient) runLadder(ctx context.Context, base, prompt string) (string, error) {
	// Remembered so exhaustion can report the 403 policy restriction
	// distinctly from generic connectivity failures.
	var generateStatus int
	var generateBody string

	for state := stateProbe; state != stateExhausted; state = ladderNext[state] {
		switch state {
		case stateProbe:
			// Informational only; probe failure never aborts the ladder.
			c.probeVersion(ctx, base)

		case stateGenerate:
			text, status, body, err := c.postGenerate(ctx, base, prompt)
			if err == nil {
				return text, nil
			}
			generateStatus = status
			generateBody = body
			if status == 0 {
				generateBody = err.Error()
			}

		case stateChat:
			if text, err := c.postChat(ctx, base, prompt); err == nil {
				return text, nil
			}

		case stateLegacy:
			if text, err := c.postLegacyCompletions(ctx, base, prompt); err == nil {
				return text, nil
			}
		}
	}

	if generateStatus == http.StatusForbidden {
		return "", fmt.Errorf("local model server error (403 Forbidden): cross-origin policy restriction; restart the server with OLLAMA_ORIGINS=* to allow requests")
	}
	if generateStatus == 0 {
		return "", fmt.Errorf("local model server unreachable: %s", generateBody)
	}
	return "", fmt.Errorf("local model server error (%d): %s", generateStatus, generateBody)
}

func (c *LocalClient) probeVersion(ctx context.Context, base string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/api/version", nil)
	if err != nil {
		return
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("version probe failed", zap.String("url", base), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	var payload struct {
		Version string `json:"version"`
	}
	if resp.StatusCode == http.StatusOK && json.NewDecoder(resp.Body).Decode(&payload) == nil {
		c.logger.Debug("local model server version", zap.String("url", base), zap.String("version", payload.Version))
	}
}

type localOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

func defaultLocalOptions() localOptions {
	return localOptions{Temperature: 0.2, NumPredict: 2048}
}

// postGenerate calls the primary endpoint. Returns the HTTP status and body on
// application-level failure; status 0 means the request never completed.
func (c *LocalClient) postGenerate(ctx context.Context, base, prompt string) (string, int, string, error) {
	payload := map[string]any{
		"model":   c.model,
		"prompt":  prompt,
		"stream":  false,
		"options": defaultLocalOptions(),
	}
	status, body, err := c.post(ctx, base+"/api/generate", payload)
	if err != nil {
		return "", 0, "", err
	}
	if status != http.StatusOK {
		return "", status, body, fmt.Errorf("generate endpoint returned %d", status)
	}

	var parsed struct {
		Response string `json:"response"`
	}
	if jsonErr := json.Unmarshal([]byte(body), &parsed); jsonErr != nil || parsed.Response == "" {
		return "", status, body, apperrors.NewMalformedUpstreamResponse("local model server", "response")
	}
	return parsed.Response, status, body, nil
}

func (c *LocalClient) postChat(ctx context.Context, base, prompt string) (string, error) {
	payload := map[string]any{
		"model":    c.model,
		"messages": []map[string]string{{"role": "user", "content": prompt}},
		"stream":   false,
		"options":  defaultLocalOptions(),
	}
	status, body, err := c.post(ctx, base+"/api/chat", payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("chat endpoint returned %d", status)
	}

	var parsed struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if jsonErr := json.Unmarshal([]byte(body), &parsed); jsonErr != nil || parsed.Message.Content == "" {
		return "", apperrors.NewMalformedUpstreamResponse("local model server", "message.content")
	}
	return parsed.Message.Content, nil
}

func (c *LocalClient) postLegacyCompletions(ctx context.Context, base, prompt string) (string, error) {
	payload := map[string]any{
		"model":   c.model,
		"prompt":  prompt,
		"options": defaultLocalOptions(),
	}
	status, body, err := c.post(ctx, base+"/api/completions", payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("completions endpoint returned %d", status)
	}

	var parsed struct {
		Choices []struct {
			Text string `json:"text"`
		} `json:"choices"`
		Completion string `json:"completion"`
	}
	if jsonErr := json.Unmarshal([]byte(body), &parsed); jsonErr == nil {
		if len(parsed.Choices) > 0 && parsed.Choices[0].Text != "" {
			return parsed.Choices[0].Text, nil
		}
		if parsed.Completion != "" {
			return parsed.Completion, nil
		}
	}
	return "", apperrors.NewMalformedUpstreamResponse("local model server", "choices[0].text or completion")
}

func (c *LocalClient) post(ctx context.Context, url string, payload any) (int, string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, "", fmt.Errorf("marshal local request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, "", fmt.Errorf("create local request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("local model request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", fmt.Errorf("read local response: %w", err)
	}
	return resp.StatusCode, string(respBody), nil
}

// ListModels queries the local server for available models, walking the same
// candidate URLs with its own probe ladder: tags, then the older models
// endpoint, then an embeddings reachability check that yields a placeholder.
func (c *LocalClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	candidates := CandidateURLs(c.configuredURL)
	attempted := make([]string, 0, len(candidates))
	var lastErr error

	for _, base := range candidates {
		attempted = append(attempted, base)
		c.probeVersion(ctx, base)

		models, err := c.fetchModels(ctx, base+"/api/tags")
		if err == nil {
			return models, nil
		}
		lastErr = err

		models, err = c.fetchModels(ctx, base+"/api/models")
		if err == nil {
			return models, nil
		}
		lastErr = err

		if c.reachable(ctx, base+"/api/embeddings") {
			// Server is up but its model listing is not working.
			return []ModelInfo{{Name: "default"}}, nil
		}
	}

	return nil, apperrors.NewAllEndpointsFailed(attempted, lastErr, localFailureSuggestions)
}

func (c *LocalClient) fetchModels(ctx context.Context, url string) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model listing returned %d", resp.StatusCode)
	}

	var parsed struct {
		Models []ModelInfo `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewMalformedUpstreamResponse("local model server", "models")
	}
	return parsed.Models, nil
}

func (c *LocalClient) reachable(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
