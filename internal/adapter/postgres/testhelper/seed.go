package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tracklight/tracklight-backend/internal/domain"
)

// SeedOrg inserts an organization and returns its id.
func SeedOrg(t *testing.T, pool *pgxpool.Pool, name string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO orgs (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		t.Fatalf("seed org: %v", err)
	}
	return id
}

// SeedClient inserts a client and returns its id.
func SeedClient(t *testing.T, pool *pgxpool.Pool, orgID *uuid.UUID, name string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO clients (org_id, name) VALUES ($1, $2) RETURNING id`, orgID, name).Scan(&id)
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return id
}

// SeedProject inserts a project and returns its id.
func SeedProject(t *testing.T, pool *pgxpool.Pool, orgID *uuid.UUID, name string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO projects (org_id, name) VALUES ($1, $2) RETURNING id`, orgID, name).Scan(&id)
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return id
}

// SeedTask inserts a task and returns its id.
func SeedTask(t *testing.T, pool *pgxpool.Pool, orgID *uuid.UUID, name string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO tasks (org_id, name) VALUES ($1, $2) RETURNING id`, orgID, name).Scan(&id)
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return id
}

// SeedEvent inserts a raw event and returns its id.
func SeedEvent(t *testing.T, pool *pgxpool.Pool, ev domain.RawEvent) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO raw_events (ts_utc, app_name, bundle_id, window_title, url, file_path, username, hostname)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		ev.TsUTC, ev.AppName, ev.BundleID, ev.WindowTitle, ev.URL, ev.FilePath, ev.User, ev.Hostname).Scan(&id)
	if err != nil {
		t.Fatalf("seed raw event: %v", err)
	}
	return id
}

// SeedBlock inserts a block and returns its id.
func SeedBlock(t *testing.T, pool *pgxpool.Pool, b domain.Block) uuid.UUID {
	t.Helper()

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO blocks (id, org_id, username, hostname, start_at, end_at, minutes, title, url, file_path, client_id, project_id, task_id, notes, locked)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		b.ID, b.OrgID, b.User, b.Hostname, b.Start, b.End, b.Minutes,
		b.Title, b.URL, b.FilePath, b.ClientID, b.ProjectID, b.TaskID, b.Notes, b.Locked)
	if err != nil {
		t.Fatalf("seed block: %v", err)
	}
	return b.ID
}

// SeedRule inserts a rule and returns its id.
func SeedRule(t *testing.T, pool *pgxpool.Pool, r domain.Rule) uuid.UUID {
	t.Helper()

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO rules (id, org_id, pattern, kind, field, value_text, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.OrgID, r.Pattern, r.Kind, r.Field, r.ValueText, r.Active, r.CreatedAt)
	if err != nil {
		t.Fatalf("seed rule: %v", err)
	}
	return r.ID
}
