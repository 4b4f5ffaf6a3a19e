// Package masterdata implements name lookups for clients, projects and tasks
// using PostgreSQL. Lookups are by exact name within an org scope; labeling
// never auto-creates master data, so misses map to domain.ErrNotFound and
// the service layer translates them into lookup errors.
package masterdata

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/tracklight/tracklight-backend/internal/adapter/postgres"
	"github.com/tracklight/tracklight-backend/internal/domain"
)

// Repo provides master-data lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new master-data repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ClientByName returns the client with the given name in the org scope.
// Returns domain.ErrNotFound if absent.
func (r *Repo) ClientByName(ctx context.Context, orgID *uuid.UUID, name string) (*domain.Client, error) {
	sql, args, err := byNameQuery("clients", []string{"id", "org_id", "name", "is_active"}, orgID, name)
	if err != nil {
		return nil, err
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var c domain.Client
	if err := querier.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.OrgID, &c.Name, &c.IsActive); err != nil {
		return nil, postgres.MapError(err, "client", name)
	}

	return &c, nil
}

// ProjectByName returns the project with the given name in the org scope.
// Returns domain.ErrNotFound if absent.
func (r *Repo) ProjectByName(ctx context.Context, orgID *uuid.UUID, name string) (*domain.Project, error) {
	sql, args, err := byNameQuery("projects", []string{"id", "org_id", "client_id", "name", "is_active"}, orgID, name)
	if err != nil {
		return nil, err
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var p domain.Project
	if err := querier.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.OrgID, &p.ClientID, &p.Name, &p.IsActive); err != nil {
		return nil, postgres.MapError(err, "project", name)
	}

	return &p, nil
}

// TaskByName returns the task with the given name in the org scope.
// Returns domain.ErrNotFound if absent.
func (r *Repo) TaskByName(ctx context.Context, orgID *uuid.UUID, name string) (*domain.Task, error) {
	sql, args, err := byNameQuery("tasks", []string{"id", "org_id", "project_id", "name", "billable"}, orgID, name)
	if err != nil {
		return nil, err
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var t domain.Task
	if err := querier.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.OrgID, &t.ProjectID, &t.Name, &t.Billable); err != nil {
		return nil, postgres.MapError(err, "task", name)
	}

	return &t, nil
}

const getOrCreateOrgSQL = `
INSERT INTO orgs (name) VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id`

// GetOrCreateOrg resolves an org name to its id, creating the org on first
// use. Called once at startup when org scoping is enabled.
func (r *Repo) GetOrCreateOrg(ctx context.Context, name string) (uuid.UUID, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var id uuid.UUID
	if err := querier.QueryRow(ctx, getOrCreateOrgSQL, name).Scan(&id); err != nil {
		return uuid.Nil, postgres.MapError(err, "org", name)
	}

	return id, nil
}

// CreateClient inserts a client (admin/seed path).
func (r *Repo) CreateClient(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx,
		`INSERT INTO clients (org_id, name, is_active) VALUES ($1, $2, $3) RETURNING id`,
		c.OrgID, c.Name, c.IsActive,
	)
	out := *c
	if err := row.Scan(&out.ID); err != nil {
		return nil, postgres.MapError(err, "client", c.Name)
	}

	return &out, nil
}

// CreateProject inserts a project (admin/seed path).
func (r *Repo) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx,
		`INSERT INTO projects (org_id, client_id, name, is_active) VALUES ($1, $2, $3, $4) RETURNING id`,
		p.OrgID, p.ClientID, p.Name, p.IsActive,
	)
	out := *p
	if err := row.Scan(&out.ID); err != nil {
		return nil, postgres.MapError(err, "project", p.Name)
	}

	return &out, nil
}

// CreateTask inserts a task (admin/seed path).
func (r *Repo) CreateTask(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx,
		`INSERT INTO tasks (org_id, project_id, name, billable) VALUES ($1, $2, $3, $4) RETURNING id`,
		t.OrgID, t.ProjectID, t.Name, t.Billable,
	)
	out := *t
	if err := row.Scan(&out.ID); err != nil {
		return nil, postgres.MapError(err, "task", t.Name)
	}

	return &out, nil
}

// ClientNames resolves client ids to names. Missing ids are simply absent
// from the result map.
func (r *Repo) ClientNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return r.namesByIDs(ctx, "clients", ids)
}

// ProjectNames resolves project ids to names.
func (r *Repo) ProjectNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return r.namesByIDs(ctx, "projects", ids)
}

// TaskNames resolves task ids to names.
func (r *Repo) TaskNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return r.namesByIDs(ctx, "tasks", ids)
}

func (r *Repo) namesByIDs(ctx context.Context, table string, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	result := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, `SELECT id, name FROM `+table+` WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("list %s names: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("list %s names: %w", table, err)
		}
		result[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s names: %w", table, err)
	}

	return result, nil
}

// byNameQuery builds a name lookup with an optional org filter. When orgID
// is nil the lookup is global (org scoping disabled).
func byNameQuery(table string, columns []string, orgID *uuid.UUID, name string) (string, []any, error) {
	q := squirrel.Select(columns...).
		From(table).
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	if orgID != nil {
		q = q.Where(squirrel.Eq{"org_id": *orgID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build %s lookup: %w", table, err)
	}

	return sql, args, nil
}
