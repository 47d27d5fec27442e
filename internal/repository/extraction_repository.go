package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-intel/internal/domain"
)

// ExtractionRecord is one row of the extraction audit log.
type ExtractionRecord struct {
	ExternalID      string            `json:"external_id"`
	TicketID        string            `json:"ticket_id"`
	Kind            string            `json:"kind"`
	Backend         string            `json:"backend"`
	Tokens          domain.TokenUsage `json:"tokens"`
	TokensEstimated bool              `json:"tokens_estimated"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ExtractionRepository persists an audit trail of model calls. The repository
// tolerates running without a database; inserts become no-ops.
type ExtractionRepository struct {
	pool *pgxpool.Pool
}

// NewExtractionRepository wires the repository to a pool, which may be nil.
func NewExtractionRepository(pool *pgxpool.Pool) *ExtractionRepository {
	return &ExtractionRepository{pool: pool}
}

// Insert appends one audit row and returns its external id.
func (r *ExtractionRepository) Insert(ctx context.Context, ticketID, kind, backend string, tokens domain.TokenUsage, estimated bool) (string, error) {
	externalID := uuid.NewString()
	if r.pool == nil {
		return externalID, nil
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO extractions (external_id, ticket_id, kind, backend, prompt_tokens, completion_tokens, total_tokens, tokens_estimated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		externalID, ticketID, kind, backend,
		tokens.PromptTokens, tokens.CompletionTokens, tokens.TotalTokens, estimated,
	)
	if err != nil {
		return "", err
	}
	return externalID, nil
}

// ListRecent returns the newest audit rows, newest first.
func (r *ExtractionRepository) ListRecent(ctx context.Context, limit int) ([]ExtractionRecord, error) {
	if r.pool == nil {
		return []ExtractionRecord{}, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT external_id, ticket_id, kind, backend, prompt_tokens, completion_tokens, total_tokens, tokens_estimated, created_at
		FROM extractions
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []ExtractionRecord{}
	for rows.Next() {
		var rec ExtractionRecord
		if err := rows.Scan(
			&rec.ExternalID, &rec.TicketID, &rec.Kind, &rec.Backend,
			&rec.Tokens.PromptTokens, &rec.Tokens.CompletionTokens, &rec.Tokens.TotalTokens,
			&rec.TokensEstimated, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
