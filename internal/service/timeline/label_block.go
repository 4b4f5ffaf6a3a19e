package timeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/tracklight/tracklight-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// 3. LabelBlock
// ---------------------------------------------------------------------------

// LabelBlock assigns master-data labels and notes to a block and locks it so
// the classification survives later rebuilds. Names are resolved within the
// block's org scope; an unknown name fails the whole call with ErrLookup and
// nothing is written. When input.CreateRule is set, a matching rule is
// created in the same transaction so future suggestions pick it up.
func (s *Service) LabelBlock(ctx context.Context, input LabelBlockInput) (*domain.Block, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	blk, err := s.blocks.GetByID(ctx, input.BlockID)
	if err != nil {
		return nil, err
	}

	update, err := s.resolveLabels(ctx, blk, input)
	if err != nil {
		return nil, err
	}

	var rule *domain.Rule
	if input.CreateRule != nil {
		rule, err = deriveRule(blk, *input.CreateRule)
		if err != nil {
			return nil, err
		}
	}

	var labeled *domain.Block
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.blocks.UpdateLabels(txCtx, blk.ID, update); err != nil {
			return fmt.Errorf("update labels: %w", err)
		}
		if err := s.blocks.SetLocked(txCtx, blk.ID, true); err != nil {
			return fmt.Errorf("lock block: %w", err)
		}

		if rule != nil {
			if _, err := s.rules.Create(txCtx, rule); err != nil {
				return fmt.Errorf("create rule: %w", err)
			}
		}

		var getErr error
		labeled, getErr = s.blocks.GetByID(txCtx, blk.ID)
		return getErr
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "labeled block", "block_id", blk.ID, "rule_created", rule != nil)

	return labeled, nil
}

// resolveLabels turns the input's names into id references. Lookup misses
// are reported as ErrLookup naming the offending field.
func (s *Service) resolveLabels(ctx context.Context, blk *domain.Block, input LabelBlockInput) (domain.BlockUpdate, error) {
	var update domain.BlockUpdate

	if input.Client != nil {
		c, err := s.master.ClientByName(ctx, blk.OrgID, *input.Client)
		if err != nil {
			return update, lookupErr(err, "client", *input.Client)
		}
		update.ClientID = &c.ID
	}
	if input.Project != nil {
		p, err := s.master.ProjectByName(ctx, blk.OrgID, *input.Project)
		if err != nil {
			return update, lookupErr(err, "project", *input.Project)
		}
		update.ProjectID = &p.ID
	}
	if input.Task != nil {
		t, err := s.master.TaskByName(ctx, blk.OrgID, *input.Task)
		if err != nil {
			return update, lookupErr(err, "task", *input.Task)
		}
		update.TaskID = &t.ID
	}
	update.Notes = input.Notes

	return update, nil
}

func lookupErr(err error, field, name string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewLookupError(field, name)
	}
	return fmt.Errorf("resolve %s: %w", field, err)
}

// deriveRule builds the rule recorded alongside a labeling action. An empty
// pattern falls back to the block's url, then file path, then title; the
// result is truncated to domain.MaxRulePatternLen runes.
func deriveRule(blk *domain.Block, input CreateRuleInput) (*domain.Rule, error) {
	pattern := input.Pattern
	if pattern == "" {
		switch {
		case blk.URL != "":
			pattern = blk.URL
		case blk.FilePath != "":
			pattern = blk.FilePath
		default:
			pattern = blk.Title
		}
	}
	pattern = truncateRunes(pattern, domain.MaxRulePatternLen)
	if pattern == "" {
		return nil, domain.NewValidationError("create_rule.pattern", "required (block has no url, file path or title)")
	}

	kind := input.Kind
	if kind == "" {
		kind = domain.MatchKindContains
	}

	return &domain.Rule{
		OrgID:     blk.OrgID,
		Pattern:   pattern,
		Kind:      kind,
		Field:     input.Field,
		ValueText: input.ValueText,
		Active:    true,
	}, nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
