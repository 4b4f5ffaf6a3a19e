// Package rulebook manages classification rules: the admin-authored patterns
// the suggestion engine evaluates against blocks.
package rulebook

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tracklight/tracklight-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type ruleRepo interface {
	Create(ctx context.Context, rule *domain.Rule) (*domain.Rule, error)
	List(ctx context.Context, orgID *uuid.UUID) ([]domain.Rule, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the rulebook business logic. orgID is the resolved
// default org when org scoping is enabled, nil otherwise.
type Service struct {
	log   *slog.Logger
	rules ruleRepo
	orgID *uuid.UUID
}

// NewService creates a new Rulebook service.
func NewService(logger *slog.Logger, rules ruleRepo, orgID *uuid.UUID) *Service {
	return &Service{
		log:   logger.With("service", "rulebook"),
		rules: rules,
		orgID: orgID,
	}
}
