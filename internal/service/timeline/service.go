// Package timeline implements the block timeline business logic: destructive
// compact-on-read rebuilds, rule-based suggestion recomputation, manual
// labeling with optional rule derivation, and CSV export.
package timeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tracklight/tracklight-backend/internal/config"
	"github.com/tracklight/tracklight-backend/internal/domain"
	"github.com/tracklight/tracklight-backend/internal/ruleengine"
	"github.com/tracklight/tracklight-backend/internal/timeline"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type eventRepo interface {
	ListRange(ctx context.Context, from, to time.Time, scope domain.Scope) ([]domain.RawEvent, error)
}

type blockRepo interface {
	ReplaceDay(ctx context.Context, scope domain.Scope, from, to time.Time, blocks []domain.Block) (int, error)
	ListDay(ctx context.Context, scope domain.Scope, from, to time.Time) ([]domain.Block, error)
	ListLockedDay(ctx context.Context, scope domain.Scope, from, to time.Time) ([]domain.Block, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Block, error)
	UpdateLabels(ctx context.Context, id uuid.UUID, update domain.BlockUpdate) error
	SetLocked(ctx context.Context, id uuid.UUID, locked bool) error
}

type suggestionRepo interface {
	DeleteByBlockIDs(ctx context.Context, blockIDs []uuid.UUID) error
	InsertBatch(ctx context.Context, suggestions []domain.Suggestion) (int, error)
	ListByBlockIDs(ctx context.Context, blockIDs []uuid.UUID) ([]domain.Suggestion, error)
}

type ruleRepo interface {
	ListActive(ctx context.Context, orgID *uuid.UUID) ([]domain.Rule, error)
	Create(ctx context.Context, rule *domain.Rule) (*domain.Rule, error)
}

type masterDataRepo interface {
	ClientByName(ctx context.Context, orgID *uuid.UUID, name string) (*domain.Client, error)
	ProjectByName(ctx context.Context, orgID *uuid.UUID, name string) (*domain.Project, error)
	TaskByName(ctx context.Context, orgID *uuid.UUID, name string) (*domain.Task, error)
	ClientNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	ProjectNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	TaskNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type ruleMatcher interface {
	Apply(block domain.Block, rules []domain.Rule) []ruleengine.Match
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the timeline business logic.
type Service struct {
	log         *slog.Logger
	events      eventRepo
	blocks      blockRepo
	suggestions suggestionRepo
	rules       ruleRepo
	master      masterDataRepo
	engine      ruleMatcher
	tx          txManager
	params      timeline.Params
	loc         *time.Location
	orgID       *uuid.UUID
}

// NewService creates a new Timeline service. orgID is the resolved default
// org when org scoping is enabled, nil otherwise.
func NewService(
	logger *slog.Logger,
	events eventRepo,
	blocks blockRepo,
	suggestions suggestionRepo,
	rules ruleRepo,
	master masterDataRepo,
	engine ruleMatcher,
	tx txManager,
	cfg config.CompactionConfig,
	orgID *uuid.UUID,
) *Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		log:         logger.With("service", "timeline"),
		events:      events,
		blocks:      blocks,
		suggestions: suggestions,
		rules:       rules,
		master:      master,
		engine:      engine,
		tx:          tx,
		params: timeline.Params{
			GapThreshold:       time.Duration(cfg.GapMinutes) * time.Minute,
			MinMinutes:         cfg.MinBlockMinutes,
			GranularityMinutes: cfg.GranularityMinutes,
		},
		loc:   loc,
		orgID: orgID,
	}
}
