package rulebook

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tracklight/tracklight-backend/internal/domain"
)

// CreateRule stores a new rule. Kind defaults to contains, Active to true.
func (s *Service) CreateRule(ctx context.Context, input CreateRuleInput) (*domain.Rule, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	kind := input.Kind
	if kind == "" {
		kind = domain.MatchKindContains
	}
	active := true
	if input.Active != nil {
		active = *input.Active
	}

	created, err := s.rules.Create(ctx, &domain.Rule{
		OrgID:     s.orgID,
		Pattern:   input.Pattern,
		Kind:      kind,
		Field:     input.Field,
		ValueText: input.ValueText,
		Active:    active,
	})
	if err != nil {
		return nil, fmt.Errorf("create rule: %w", err)
	}

	s.log.InfoContext(ctx, "created rule",
		"rule_id", created.ID, "kind", created.Kind, "field", created.Field)

	return created, nil
}

// ListRules returns every rule (active or not) in creation order.
func (s *Service) ListRules(ctx context.Context) ([]domain.Rule, error) {
	rules, err := s.rules.List(ctx, s.orgID)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return rules, nil
}

// SetRuleActive activates or retires a rule. Rules are never deleted so the
// provenance of old suggestions stays reconstructible.
func (s *Service) SetRuleActive(ctx context.Context, id uuid.UUID, active bool) error {
	if id == uuid.Nil {
		return domain.NewValidationError("rule_id", "required")
	}

	if err := s.rules.SetActive(ctx, id, active); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "toggled rule", "rule_id", id, "active", active)

	return nil
}
