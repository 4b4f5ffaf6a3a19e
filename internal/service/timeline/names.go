package timeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tracklight/tracklight-backend/internal/domain"
)

// LabelNames maps the master-data ids referenced by a set of blocks to their
// display names. Ids whose row no longer exists are absent from the maps.
type LabelNames struct {
	Clients  map[uuid.UUID]string
	Projects map[uuid.UUID]string
	Tasks    map[uuid.UUID]string
}

// ClientName returns the client name for id, or "" when id is nil or unknown.
func (n LabelNames) ClientName(id *uuid.UUID) string { return nameOf(n.Clients, id) }

// ProjectName returns the project name for id, or "" when id is nil or unknown.
func (n LabelNames) ProjectName(id *uuid.UUID) string { return nameOf(n.Projects, id) }

// TaskName returns the task name for id, or "" when id is nil or unknown.
func (n LabelNames) TaskName(id *uuid.UUID) string { return nameOf(n.Tasks, id) }

// BlockLabelNames batch-resolves every master-data reference held by blocks,
// one query per referenced table.
func (s *Service) BlockLabelNames(ctx context.Context, blocks []domain.Block) (LabelNames, error) {
	var clientIDs, projectIDs, taskIDs []uuid.UUID
	for i := range blocks {
		if id := blocks[i].ClientID; id != nil {
			clientIDs = append(clientIDs, *id)
		}
		if id := blocks[i].ProjectID; id != nil {
			projectIDs = append(projectIDs, *id)
		}
		if id := blocks[i].TaskID; id != nil {
			taskIDs = append(taskIDs, *id)
		}
	}

	var names LabelNames
	var err error
	if names.Clients, err = s.master.ClientNames(ctx, clientIDs); err != nil {
		return LabelNames{}, fmt.Errorf("resolve client names: %w", err)
	}
	if names.Projects, err = s.master.ProjectNames(ctx, projectIDs); err != nil {
		return LabelNames{}, fmt.Errorf("resolve project names: %w", err)
	}
	if names.Tasks, err = s.master.TaskNames(ctx, taskIDs); err != nil {
		return LabelNames{}, fmt.Errorf("resolve task names: %w", err)
	}

	return names, nil
}

func nameOf(names map[uuid.UUID]string, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return names[*id]
}
