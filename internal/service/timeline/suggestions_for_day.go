package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tracklight/tracklight-backend/internal/domain"
	"github.com/tracklight/tracklight-backend/internal/timeline"
)

// ---------------------------------------------------------------------------
// 2. SuggestionsForDay
// ---------------------------------------------------------------------------

// SuggestionsForDay rebuilds the scope's day, recomputes rule-based
// suggestions for every block of the day and returns them in stored order.
// At most MaxSuggestionsPerBlock per block; rerunning yields the same rows,
// never accumulated duplicates.
func (s *Service) SuggestionsForDay(ctx context.Context, scope domain.Scope, day time.Time) ([]domain.Suggestion, error) {
	scope.OrgID = s.orgID

	from, to := timeline.DayWindow(day, s.loc)

	rules, err := s.rules.ListActive(ctx, s.orgID)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}

	blocks, err := s.rebuildDay(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return []domain.Suggestion{}, nil
	}

	blockIDs := make([]uuid.UUID, 0, len(blocks))
	var suggestions []domain.Suggestion
	for i := range blocks {
		blockIDs = append(blockIDs, blocks[i].ID)

		matches := s.engine.Apply(blocks[i], rules)
		if len(matches) > domain.MaxSuggestionsPerBlock {
			matches = matches[:domain.MaxSuggestionsPerBlock]
		}
		for _, m := range matches {
			suggestions = append(suggestions, domain.Suggestion{
				BlockID:    blocks[i].ID,
				Field:      m.Field,
				ValueText:  m.ValueText,
				Confidence: m.Confidence,
				Source:     m.Source,
			})
		}
	}

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.suggestions.DeleteByBlockIDs(txCtx, blockIDs); err != nil {
			return err
		}
		if _, err := s.suggestions.InsertBatch(txCtx, suggestions); err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}

	s.log.DebugContext(ctx, "recomputed suggestions",
		"user", scope.User, "host", scope.Hostname, "blocks", len(blocks), "suggestions", len(suggestions))

	return suggestions, nil
}
