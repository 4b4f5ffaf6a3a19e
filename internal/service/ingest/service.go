// Package ingest receives raw activity events from desktop agents and stores
// them. Events are append-only; nothing here reads them back.
package ingest

import (
	"context"
	"log/slog"

	"github.com/tracklight/tracklight-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type eventRepo interface {
	Insert(ctx context.Context, events []domain.RawEvent) (int, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the agent ingestion business logic.
type Service struct {
	log    *slog.Logger
	events eventRepo
}

// NewService creates a new Ingest service.
func NewService(logger *slog.Logger, events eventRepo) *Service {
	return &Service{
		log:    logger.With("service", "ingest"),
		events: events,
	}
}
