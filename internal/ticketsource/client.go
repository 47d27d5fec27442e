package ticketsource

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-intel/internal/domain"
	apperrors "github.com/spec-kit/ticket-intel/pkg/util/errorutil"
)

// Client fetches tickets and their comment threads from the support platform
// REST API using API-token basic auth.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	logger     *zap.Logger
}

// Options configures the upstream ticket system connection.
type Options struct {
	Domain         string
	Email          string
	APIToken       string
	RequestTimeout time.Duration
}

func NewClient(opts Options, logger *zap.Logger) *Client {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	credentials := fmt.Sprintf("%s/token:%s", opts.Email, opts.APIToken)
	return &Client{
		baseURL:    fmt.Sprintf("https://%s/api/v2", opts.Domain),
		authHeader: "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials)),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type apiTicket struct {
	ID           int64    `json:"id"`
	Subject      string   `json:"subject"`
	Priority     string   `json:"priority"`
	Tags         []string `json:"tags"`
	CreatedAt    string   `json:"created_at"`
	CustomFields []struct {
		ID    int64 `json:"id"`
		Value any   `json:"value"`
	} `json:"custom_fields"`
}

type apiComment struct {
	ID        int64  `json:"id"`
	Body      string `json:"body"`
	Public    bool   `json:"public"`
	CreatedAt string `json:"created_at"`
	Via       struct {
		Channel string `json:"channel"`
	} `json:"via"`
}

// FetchSnapshot loads the ticket and its full comment thread. The comment
// thread is fetched first, matching the order a human agent reads the ticket.
func (c *Client) FetchSnapshot(ctx context.Context, ticketID string) (*domain.TicketSnapshot, error) {
	var commentsPayload struct {
		Comments []apiComment `json:"comments"`
	}
	if err := c.get(ctx, fmt.Sprintf("/tickets/%s/comments.json", ticketID), ticketID, &commentsPayload); err != nil {
		return nil, err
	}

	var ticketPayload struct {
		Ticket apiTicket `json:"ticket"`
	}
	if err := c.get(ctx, fmt.Sprintf("/tickets/%s.json", ticketID), ticketID, &ticketPayload); err != nil {
		return nil, err
	}

	return buildSnapshot(ticketPayload.Ticket, commentsPayload.Comments), nil
}

func buildSnapshot(ticket apiTicket, comments []apiComment) *domain.TicketSnapshot {
	snapshot := &domain.TicketSnapshot{
		TicketID:     strconv.FormatInt(ticket.ID, 10),
		Subject:      ticket.Subject,
		Priority:     ticket.Priority,
		Tags:         ticket.Tags,
		CustomFields: make(map[int64]string, len(ticket.CustomFields)),
	}
	if t, err := time.Parse(time.RFC3339, ticket.CreatedAt); err == nil {
		snapshot.CreatedAt = &t
	}
	for _, field := range ticket.CustomFields {
		if s, ok := field.Value.(string); ok && s != "" {
			snapshot.CustomFields[field.ID] = s
		}
	}
	for _, comment := range comments {
		created, _ := time.Parse(time.RFC3339, comment.CreatedAt)
		snapshot.Comments = append(snapshot.Comments, domain.TicketComment{
			ID:        comment.ID,
			Body:      comment.Body,
			Public:    comment.Public,
			Automated: comment.Via.Channel == "rule",
			CreatedAt: created,
		})
	}
	return snapshot
}

func (c *Client) get(ctx context.Context, path string, ticketID string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create ticket request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ticket system request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return apperrors.NewUpstreamAuthFailed("ticket system", fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NewUpstreamNotFound(fmt.Sprintf("Ticket #%s", ticketID), nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return apperrors.NewUpstreamUnavailable("ticket system", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewMalformedUpstreamResponse("ticket system", "json body")
	}
	return nil
}
