package ticketsource

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-intel/internal/domain"
	apperrors "github.com/spec-kit/ticket-intel/pkg/util/errorutil"
)

const commentsBody = `{
	"comments": [
		{"id": 1, "body": "My phone stopped charging.", "public": true, "created_at": "2025-05-01T09:00:00Z", "via": {"channel": "web"}},
		{"id": 2, "body": "Internal note", "public": false, "created_at": "2025-05-01T10:00:00Z", "via": {"channel": "web"}},
		{"id": 3, "body": "Auto-reply: we received your request", "public": true, "created_at": "2025-05-01T10:01:00Z", "via": {"channel": "rule"}},
		{"id": 4, "body": "Any update? Serial number is AB12-CD34-EF56.", "public": true, "created_at": "2025-05-02T08:00:00Z", "via": {"channel": "web"}}
	]
}`

const ticketBody = `{
	"ticket": {
		"id": 3001,
		"subject": "Phone not charging",
		"priority": "high",
		"tags": ["model-5", "battery", "in-warranty"],
		"created_at": "2025-05-01T09:00:00Z",
		"custom_fields": [
			{"id": 42, "value": "ORD-7788"},
			{"id": 43, "value": null}
		]
	}
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(Options{
		Domain:         "example.zendesk.com",
		Email:          "agent@example.com",
		APIToken:       "secret-token",
		RequestTimeout: 5 * time.Second,
	}, zap.NewNop())
	client.baseURL = srv.URL + "/api/v2"
	return client, srv
}

func TestFetchSnapshot(t *testing.T) {
	var paths []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)

		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("agent@example.com/token:secret-token"))
		assert.Equal(t, wantAuth, r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/api/v2/tickets/3001/comments.json":
			w.Write([]byte(commentsBody))
		case "/api/v2/tickets/3001.json":
			w.Write([]byte(ticketBody))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	snapshot, err := client.FetchSnapshot(context.Background(), "3001")
	require.NoError(t, err)

	assert.Equal(t, "3001", snapshot.TicketID)
	assert.Equal(t, "Phone not charging", snapshot.Subject)
	assert.Equal(t, "high", snapshot.Priority)
	assert.Equal(t, []string{"model-5", "battery", "in-warranty"}, snapshot.Tags)
	require.NotNil(t, snapshot.CreatedAt)
	assert.Equal(t, 2025, snapshot.CreatedAt.Year())
	assert.Equal(t, map[int64]string{42: "ORD-7788"}, snapshot.CustomFields, "null custom field values are dropped")
	require.Len(t, snapshot.Comments, 4)
	assert.True(t, snapshot.Comments[2].Automated)
	assert.False(t, snapshot.Comments[1].Public)

	// Comment thread is loaded before the ticket itself.
	assert.Equal(t, []string{"/api/v2/tickets/3001/comments.json", "/api/v2/tickets/3001.json"}, paths)
}

func TestFetchSnapshotErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		wantCode string
	}{
		{"unauthorized", http.StatusUnauthorized, "UPSTREAM_AUTH_FAILED"},
		{"missing ticket", http.StatusNotFound, "UPSTREAM_NOT_FOUND"},
		{"server error", http.StatusInternalServerError, "UPSTREAM_RATE_LIMITED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))

			_, err := client.FetchSnapshot(context.Background(), "55")
			require.Error(t, err)

			var domainErr *apperrors.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tc.wantCode, domainErr.Code)
			if tc.status == http.StatusNotFound {
				assert.Contains(t, domainErr.Message, "Ticket #55")
			}
		})
	}
}

func TestAssembleContent(t *testing.T) {
	created := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	snapshot := &domain.TicketSnapshot{
		TicketID:  "3001",
		Subject:   "Phone not charging",
		CreatedAt: &created,
		Comments: []domain.TicketComment{
			{ID: 1, Body: "My phone stopped charging.", Public: true},
			{ID: 2, Body: "Internal note", Public: false},
			{ID: 3, Body: "Auto-reply: we received your request", Public: true, Automated: true},
			{ID: 4, Body: "Any update?", Public: true},
			{ID: 5, Body: "Still broken.", Public: true},
		},
	}

	got := AssembleContent(snapshot)
	want := "Subject: Phone not charging\n\n" +
		"My phone stopped charging.\n\n" +
		"---\n\n" +
		"Additional Customer Comments:\n\n" +
		"Any update?\n\n" +
		"---\n\n" +
		"Still broken."
	assert.Equal(t, want, got)
}

func TestAssembleContentNoFollowups(t *testing.T) {
	snapshot := &domain.TicketSnapshot{
		Subject: "Short ticket",
		Comments: []domain.TicketComment{
			{ID: 1, Body: "Only one message.", Public: true},
		},
	}
	assert.Equal(t, "Subject: Short ticket\n\nOnly one message.", AssembleContent(snapshot))
}

func TestAssembleContentEmptyThread(t *testing.T) {
	snapshot := &domain.TicketSnapshot{Subject: "No comments yet"}
	assert.Equal(t, "Subject: No comments yet\n\n", AssembleContent(snapshot))
}
