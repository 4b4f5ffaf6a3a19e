// Package block implements the block store using PostgreSQL.
// Blocks for a (user, host, day) scope are rebuilt destructively: ReplaceDay
// deletes the scope's unlocked blocks and inserts the recomputed set in one
// call, relying on the caller's transaction for atomicity.
package block

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/tracklight/tracklight-backend/internal/adapter/postgres"
	"github.com/tracklight/tracklight-backend/internal/domain"
)

// Repo provides block persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new block repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const blockColumns = "id, org_id, username, hostname, start_at, end_at, minutes, title, url, file_path, client_id, project_id, task_id, notes, locked"

const insertBlockSQL = `
INSERT INTO blocks (id, org_id, username, hostname, start_at, end_at, minutes, title, url, file_path, notes, locked)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, '', false)`

// ReplaceDay deletes the scope's unlocked blocks within [from, to) and
// inserts the given blocks. Locked blocks are never deleted. Blocks without
// an ID are assigned one. Returns the number of blocks created.
//
// Must be called inside a transaction: a failure between delete and insert
// would otherwise lose the day.
func (r *Repo) ReplaceDay(ctx context.Context, scope domain.Scope, from, to time.Time, blocks []domain.Block) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	del := squirrel.Delete("blocks").
		Where(squirrel.GtOrEq{"start_at": from}).
		Where(squirrel.Lt{"start_at": to}).
		Where(squirrel.Eq{"locked": false}).
		PlaceholderFormat(squirrel.Dollar)
	del = scopeDelete(del, scope)

	sql, args, err := del.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete query: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return 0, postgres.MapError(err, "block", "day")
	}

	batch := &pgx.Batch{}
	for i := range blocks {
		b := &blocks[i]
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		batch.Queue(insertBlockSQL,
			b.ID, b.OrgID, b.User, b.Hostname, b.Start, b.End,
			b.Minutes, b.Title, b.URL, b.FilePath,
		)
	}

	results := querier.SendBatch(ctx, batch)
	defer results.Close()

	for i := range blocks {
		if _, err := results.Exec(); err != nil {
			return 0, postgres.MapError(err, "block", blocks[i].ID)
		}
	}

	return len(blocks), nil
}

// ListDay returns all blocks (locked included) in [from, to) for the scope,
// ordered by start. Returns an empty slice (not nil) when the day is empty.
func (r *Repo) ListDay(ctx context.Context, scope domain.Scope, from, to time.Time) ([]domain.Block, error) {
	return r.listDay(ctx, scope, from, to, false)
}

// ListLockedDay returns only locked blocks in [from, to) for the scope.
// Rebuilds use this to exclude events already covered by confirmed blocks.
func (r *Repo) ListLockedDay(ctx context.Context, scope domain.Scope, from, to time.Time) ([]domain.Block, error) {
	return r.listDay(ctx, scope, from, to, true)
}

func (r *Repo) listDay(ctx context.Context, scope domain.Scope, from, to time.Time, lockedOnly bool) ([]domain.Block, error) {
	q := squirrel.Select("id", "org_id", "username", "hostname", "start_at", "end_at", "minutes",
		"title", "url", "file_path", "client_id", "project_id", "task_id", "notes", "locked").
		From("blocks").
		Where(squirrel.GtOrEq{"start_at": from}).
		Where(squirrel.Lt{"start_at": to}).
		OrderBy("start_at", "id").
		PlaceholderFormat(squirrel.Dollar)

	if lockedOnly {
		q = q.Where(squirrel.Eq{"locked": true})
	}
	if scope.User != "" {
		q = q.Where(squirrel.Eq{"username": scope.User})
	}
	if scope.Hostname != "" {
		q = q.Where(squirrel.Eq{"hostname": scope.Hostname})
	}
	if scope.OrgID != nil {
		q = q.Where(squirrel.Eq{"org_id": *scope.OrgID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	blocks, err := scanBlocks(rows)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}

	return blocks, nil
}

const getBlockSQL = `
SELECT ` + blockColumns + `
FROM blocks
WHERE id = $1`

// GetByID returns a block by primary key.
// Returns domain.ErrNotFound if the block does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Block, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getBlockSQL, id)

	b, err := scanBlock(row)
	if err != nil {
		return nil, postgres.MapError(err, "block", id)
	}

	return b, nil
}

// UpdateLabels applies a partial classification update. Nil pointer fields
// are left unchanged; an update with no fields is a no-op.
// Returns domain.ErrNotFound if the block does not exist.
func (r *Repo) UpdateLabels(ctx context.Context, id uuid.UUID, update domain.BlockUpdate) error {
	q := squirrel.Update("blocks").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	changed := false
	if update.ClientID != nil {
		q = q.Set("client_id", *update.ClientID)
		changed = true
	}
	if update.ProjectID != nil {
		q = q.Set("project_id", *update.ProjectID)
		changed = true
	}
	if update.TaskID != nil {
		q = q.Set("task_id", *update.TaskID)
		changed = true
	}
	if update.Notes != nil {
		q = q.Set("notes", *update.Notes)
		changed = true
	}

	if !changed {
		return nil
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "block", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("block %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

const setLockedSQL = `UPDATE blocks SET locked = $2 WHERE id = $1`

// SetLocked marks a block as locked (or unlocks it). Locked blocks survive
// destructive rebuilds.
func (r *Repo) SetLocked(ctx context.Context, id uuid.UUID, locked bool) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, setLockedSQL, id, locked)
	if err != nil {
		return postgres.MapError(err, "block", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("block %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanBlocks(rows pgx.Rows) ([]domain.Block, error) {
	var result []domain.Block
	for rows.Next() {
		var b domain.Block
		if err := rows.Scan(
			&b.ID, &b.OrgID, &b.User, &b.Hostname, &b.Start, &b.End, &b.Minutes,
			&b.Title, &b.URL, &b.FilePath, &b.ClientID, &b.ProjectID, &b.TaskID,
			&b.Notes, &b.Locked,
		); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.Block{}
	}

	return result, nil
}

func scanBlock(row pgx.Row) (*domain.Block, error) {
	var b domain.Block
	if err := row.Scan(
		&b.ID, &b.OrgID, &b.User, &b.Hostname, &b.Start, &b.End, &b.Minutes,
		&b.Title, &b.URL, &b.FilePath, &b.ClientID, &b.ProjectID, &b.TaskID,
		&b.Notes, &b.Locked,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func scopeDelete(del squirrel.DeleteBuilder, scope domain.Scope) squirrel.DeleteBuilder {
	if scope.User != "" {
		del = del.Where(squirrel.Eq{"username": scope.User})
	}
	if scope.Hostname != "" {
		del = del.Where(squirrel.Eq{"hostname": scope.Hostname})
	}
	if scope.OrgID != nil {
		del = del.Where(squirrel.Eq{"org_id": *scope.OrgID})
	}
	return del
}
