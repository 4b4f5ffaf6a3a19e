// Package event implements the raw-event store using PostgreSQL.
// Events are append-only from the agent's perspective; the repo exposes batch
// insert and range reads ordered by (ts_utc, id) so insertion order breaks
// timestamp ties.
package event

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/tracklight/tracklight-backend/internal/adapter/postgres"
	"github.com/tracklight/tracklight-backend/internal/domain"
)

// Repo provides raw-event persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new raw-event repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertEventSQL = `
INSERT INTO raw_events (ts_utc, app_name, bundle_id, window_title, url, file_path, username, hostname)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Insert appends a batch of events. Returns the number of rows created.
func (r *Repo) Insert(ctx context.Context, events []domain.RawEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	batch := &pgx.Batch{}
	for _, ev := range events {
		batch.Queue(insertEventSQL,
			ev.TsUTC, ev.AppName, ev.BundleID, ev.WindowTitle,
			ev.URL, ev.FilePath, ev.User, ev.Hostname,
		)
	}

	results := querier.SendBatch(ctx, batch)
	defer results.Close()

	for i := range events {
		if _, err := results.Exec(); err != nil {
			return 0, postgres.MapError(err, "raw_event", i)
		}
	}

	return len(events), nil
}

// ListRange returns events with from <= ts_utc < to, optionally filtered by
// the scope's user and hostname, ordered by (ts_utc, id). Returns an empty
// slice (not nil) when nothing matches.
func (r *Repo) ListRange(ctx context.Context, from, to time.Time, scope domain.Scope) ([]domain.RawEvent, error) {
	q := squirrel.Select("id", "ts_utc", "app_name", "bundle_id", "window_title", "url", "file_path", "username", "hostname").
		From("raw_events").
		Where(squirrel.GtOrEq{"ts_utc": from}).
		Where(squirrel.Lt{"ts_utc": to}).
		OrderBy("ts_utc", "id").
		PlaceholderFormat(squirrel.Dollar)

	if scope.User != "" {
		q = q.Where(squirrel.Eq{"username": scope.User})
	}
	if scope.Hostname != "" {
		q = q.Where(squirrel.Eq{"hostname": scope.Hostname})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list raw_events: %w", err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("list raw_events: %w", err)
	}

	return events, nil
}

func scanEvents(rows pgx.Rows) ([]domain.RawEvent, error) {
	var result []domain.RawEvent
	for rows.Next() {
		var ev domain.RawEvent
		if err := rows.Scan(
			&ev.ID, &ev.TsUTC, &ev.AppName, &ev.BundleID, &ev.WindowTitle,
			&ev.URL, &ev.FilePath, &ev.User, &ev.Hostname,
		); err != nil {
			return nil, err
		}
		result = append(result, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.RawEvent{}
	}

	return result, nil
}
