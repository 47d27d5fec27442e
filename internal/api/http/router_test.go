package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-intel/internal/api/http/handlers"
	"github.com/spec-kit/ticket-intel/internal/cache"
	"github.com/spec-kit/ticket-intel/internal/domain"
	"github.com/spec-kit/ticket-intel/internal/events"
	"github.com/spec-kit/ticket-intel/internal/kvstore"
	"github.com/spec-kit/ticket-intel/internal/llm"
	"github.com/spec-kit/ticket-intel/internal/observability"
	"github.com/spec-kit/ticket-intel/internal/repository"
	"github.com/spec-kit/ticket-intel/internal/service"
	"github.com/spec-kit/ticket-intel/internal/usage"
)

type stubFetcher struct{}

func (stubFetcher) FetchSnapshot(_ context.Context, ticketID string) (*domain.TicketSnapshot, error) {
	created := time.Now().Add(-24 * time.Hour)
	return &domain.TicketSnapshot{
		TicketID:  ticketID,
		Subject:   "Phone not charging",
		Tags:      []string{"model-5", "battery"},
		Priority:  "normal",
		CreatedAt: &created,
		Comments: []domain.TicketComment{
			{ID: 1, Body: "My phone stopped charging.", Public: true},
		},
	}, nil
}

type stubClient struct{}

func (stubClient) Complete(_ context.Context, prompt string) (*llm.Completion, error) {
	text := "Customer reports a charging problem."
	return &llm.Completion{
		Text:      text,
		Usage:     domain.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		Estimated: true,
	}, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	store := kvstore.NewMemoryStore()
	summaryCache := cache.NewSummaryCache(store, logger)
	tracker := usage.NewTracker(store, logger)
	auditRepo := repository.NewExtractionRepository(nil)

	extraction := service.NewExtractionService(service.ExtractionDependencies{
		Fetcher:    stubFetcher{},
		Client:     stubClient{},
		Backend:    "local",
		Cache:      summaryCache,
		Usage:      tracker,
		AuditRepo:  auditRepo,
		Metrics:    metrics,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	followup := service.NewFollowupService(service.FollowupDependencies{
		Client:     stubClient{},
		Backend:    "local",
		Cache:      summaryCache,
		Usage:      tracker,
		AuditRepo:  auditRepo,
		Metrics:    metrics,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	maintenance := service.NewMaintenanceService(summaryCache, tracker, dispatcher, logger)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:      handlers.NewHealthHandler(nil, nil),
		Extraction:  handlers.NewExtractionHandler(extraction, followup),
		Maintenance: handlers.NewMaintenanceHandler(maintenance),
		Models:      handlers.NewModelsHandler("hosted", nil, "gpt-4o-mini"),
		Template:    handlers.NewTemplateHandler(""),
		Audit:       handlers.NewAuditHandler(auditRepo),
	})
	return app
}

func TestHealthLive(t *testing.T) {
	app := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/health/live", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestSummarizeEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/tickets/3001/summary", nil), 10000)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var result service.SummaryResult
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, "3001", result.TicketID)
	assert.Equal(t, "Customer reports a charging problem.", result.Summary)
	assert.False(t, result.Cached)

	// Second call hits the cache.
	resp, err = app.Test(httptest.NewRequest("POST", "/tickets/3001/summary", nil), 10000)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &result))
	assert.True(t, result.Cached)
}

func TestQuestionWithoutSummaryReturnsErrorEnvelope(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/tickets/999/questions", bytes.NewBufferString(`{"question":"anything?"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestUsageRoundTrip(t *testing.T) {
	app := newTestApp(t)

	_, err := app.Test(httptest.NewRequest("POST", "/tickets/3001/summary", nil), 10000)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/usage", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var record domain.UsageRecord
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &record))
	assert.Equal(t, 15, record.TotalTokens)
	assert.Equal(t, 1, record.RequestCount)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/usage", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/usage", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &record))
	assert.Zero(t, record.TotalTokens)
}

func TestCacheManagementEndpoints(t *testing.T) {
	app := newTestApp(t)

	_, err := app.Test(httptest.NewRequest("POST", "/tickets/3001/summary", nil), 10000)
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("POST", "/tickets/3002/summary", nil), 10000)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/cache/3001", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/cache", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var cleared struct {
		EntriesRemoved int `json:"entries_removed"`
	}
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &cleared))
	assert.Equal(t, 1, cleared.EntriesRemoved)
}

func TestModelsEndpointHostedBackend(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/models", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var models struct {
		Backend string `json:"backend"`
		Models  []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &models))
	assert.Equal(t, "hosted", models.Backend)
	require.Len(t, models.Models, 1)
	assert.Equal(t, "gpt-4o-mini", models.Models[0].Name)
}

func TestDefaultTemplateEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/prompt-template/default", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var template struct {
		Template string `json:"template"`
	}
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &template))
	assert.Contains(t, template.Template, "SUGGESTED NEXT STEPS")
}
