package ingest

import (
	"context"
	"fmt"
)

// Ingest validates and stores a batch of raw events. Returns the number of
// events created.
func (s *Service) Ingest(ctx context.Context, input IngestInput) (int, error) {
	if err := input.Validate(); err != nil {
		return 0, err
	}

	created, err := s.events.Insert(ctx, input.toDomain())
	if err != nil {
		return 0, fmt.Errorf("insert events: %w", err)
	}

	s.log.DebugContext(ctx, "stored raw events", "count", created)

	return created, nil
}
