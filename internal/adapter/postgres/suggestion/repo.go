// Package suggestion implements the suggestion store using PostgreSQL.
// Suggestions are recompute-only: the service deletes a block-set's rows and
// inserts fresh ones inside one transaction; nothing is updated in place.
package suggestion

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/tracklight/tracklight-backend/internal/adapter/postgres"
	"github.com/tracklight/tracklight-backend/internal/domain"
)

// Repo provides suggestion persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new suggestion repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const deleteByBlocksSQL = `DELETE FROM suggestions WHERE block_id = ANY($1::uuid[])`

// DeleteByBlockIDs removes all suggestions belonging to the given blocks.
func (r *Repo) DeleteByBlockIDs(ctx context.Context, blockIDs []uuid.UUID) error {
	if len(blockIDs) == 0 {
		return nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, deleteByBlocksSQL, blockIDs); err != nil {
		return fmt.Errorf("delete suggestions: %w", err)
	}

	return nil
}

const insertSuggestionSQL = `
INSERT INTO suggestions (id, block_id, label_type, value_text, confidence, source, position)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// InsertBatch inserts suggestions preserving their slice order via the
// position column. Suggestions without an ID are assigned one.
func (r *Repo) InsertBatch(ctx context.Context, suggestions []domain.Suggestion) (int, error) {
	if len(suggestions) == 0 {
		return 0, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	batch := &pgx.Batch{}
	for i := range suggestions {
		s := &suggestions[i]
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		batch.Queue(insertSuggestionSQL,
			s.ID, s.BlockID, string(s.Field), s.ValueText, s.Confidence, string(s.Source), i,
		)
	}

	results := querier.SendBatch(ctx, batch)
	defer results.Close()

	for i := range suggestions {
		if _, err := results.Exec(); err != nil {
			return 0, postgres.MapError(err, "suggestion", suggestions[i].BlockID)
		}
	}

	return len(suggestions), nil
}

const listByBlocksSQL = `
SELECT id, block_id, label_type, value_text, confidence, source, created_at
FROM suggestions
WHERE block_id = ANY($1::uuid[])
ORDER BY block_id, position`

// ListByBlockIDs returns suggestions for the given blocks in stored
// (rule-match) order. Returns an empty slice (not nil) when none exist.
func (r *Repo) ListByBlockIDs(ctx context.Context, blockIDs []uuid.UUID) ([]domain.Suggestion, error) {
	if len(blockIDs) == 0 {
		return []domain.Suggestion{}, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByBlocksSQL, blockIDs)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var result []domain.Suggestion
	for rows.Next() {
		var (
			s      domain.Suggestion
			field  string
			source string
		)
		if err := rows.Scan(&s.ID, &s.BlockID, &field, &s.ValueText, &s.Confidence, &source, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("list suggestions: %w", err)
		}
		s.Field = domain.LabelField(field)
		s.Source = domain.SuggestionSource(source)
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}

	if result == nil {
		result = []domain.Suggestion{}
	}

	return result, nil
}
