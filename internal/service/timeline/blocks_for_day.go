package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/tracklight/tracklight-backend/internal/domain"
	"github.com/tracklight/tracklight-backend/internal/timeline"
)

// ---------------------------------------------------------------------------
// 1. BlocksForDay
// ---------------------------------------------------------------------------

// BlocksForDay rebuilds the scope's blocks for the day containing `day` and
// returns the resulting timeline (locked blocks included), sorted by start.
//
// The rebuild is destructive: unlocked blocks and their labels are replaced
// with freshly compacted ones. Labeled blocks survive because labeling locks
// them.
func (s *Service) BlocksForDay(ctx context.Context, scope domain.Scope, day time.Time) ([]domain.Block, error) {
	scope.OrgID = s.orgID

	from, to := timeline.DayWindow(day, s.loc)

	blocks, err := s.rebuildDay(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "rebuilt day",
		"user", scope.User, "host", scope.Hostname, "from", from, "blocks", len(blocks))

	return blocks, nil
}

// rebuildDay compacts the day's events and replaces the scope's unlocked
// blocks inside one transaction. Events covered by a locked block are
// excluded from compaction so rebuilt blocks never overlap locked ones.
// Returns the full day including locked blocks.
func (s *Service) rebuildDay(ctx context.Context, scope domain.Scope, from, to time.Time) ([]domain.Block, error) {
	events, err := s.events.ListRange(ctx, from, to, scope)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	locked, err := s.blocks.ListLockedDay(ctx, scope, from, to)
	if err != nil {
		return nil, fmt.Errorf("list locked blocks: %w", err)
	}

	compacted := timeline.Compact(dropCovered(events, locked), s.params)
	for i := range compacted {
		compacted[i].OrgID = s.orgID
	}

	var result []domain.Block
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.blocks.ReplaceDay(txCtx, scope, from, to, compacted); err != nil {
			return fmt.Errorf("replace day: %w", err)
		}

		result, err = s.blocks.ListDay(txCtx, scope, from, to)
		if err != nil {
			return fmt.Errorf("list day: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return result, nil
}

// dropCovered removes events whose timestamp falls inside any locked block.
func dropCovered(events []domain.RawEvent, locked []domain.Block) []domain.RawEvent {
	if len(locked) == 0 {
		return events
	}

	kept := make([]domain.RawEvent, 0, len(events))
	for _, ev := range events {
		covered := false
		for i := range locked {
			if locked[i].Covers(ev.TsUTC) {
				covered = true
				break
			}
		}
		if !covered {
			kept = append(kept, ev)
		}
	}
	return kept
}
