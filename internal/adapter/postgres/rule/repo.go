// Package rule implements the rule store using PostgreSQL.
// Rules are returned in creation order, which is the order the engine
// evaluates them in.
package rule

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/tracklight/tracklight-backend/internal/adapter/postgres"
	"github.com/tracklight/tracklight-backend/internal/domain"
)

// Repo provides rule persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new rule repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertRuleSQL = `
INSERT INTO rules (org_id, pattern, kind, field, value_text, active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, org_id, pattern, kind, field, value_text, active, created_at`

// Create inserts a new rule and returns the persisted domain.Rule.
func (r *Repo) Create(ctx context.Context, rule *domain.Rule) (*domain.Rule, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, insertRuleSQL,
		rule.OrgID, rule.Pattern, string(rule.Kind), string(rule.Field),
		rule.ValueText, rule.Active,
	)

	created, err := scanRule(row)
	if err != nil {
		return nil, postgres.MapError(err, "rule", uuid.Nil)
	}

	return created, nil
}

// ListActive returns active rules in creation order, scoped to orgID when
// non-nil. Returns an empty slice (not nil) when no rules exist.
func (r *Repo) ListActive(ctx context.Context, orgID *uuid.UUID) ([]domain.Rule, error) {
	return r.list(ctx, orgID, true)
}

// List returns all rules (active or not) in creation order.
func (r *Repo) List(ctx context.Context, orgID *uuid.UUID) ([]domain.Rule, error) {
	return r.list(ctx, orgID, false)
}

func (r *Repo) list(ctx context.Context, orgID *uuid.UUID, activeOnly bool) ([]domain.Rule, error) {
	q := squirrel.Select("id", "org_id", "pattern", "kind", "field", "value_text", "active", "created_at").
		From("rules").
		OrderBy("created_at", "id").
		PlaceholderFormat(squirrel.Dollar)

	if activeOnly {
		q = q.Where(squirrel.Eq{"active": true})
	}
	if orgID != nil {
		q = q.Where(squirrel.Eq{"org_id": *orgID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	rules, err := scanRules(rows)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}

	return rules, nil
}

const setActiveSQL = `UPDATE rules SET active = $2 WHERE id = $1`

// SetActive toggles a rule's active flag. Rules are never deleted; retiring
// one means deactivating it here.
// Returns domain.ErrNotFound if the rule does not exist.
func (r *Repo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, setActiveSQL, id, active)
	if err != nil {
		return postgres.MapError(err, "rule", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rule %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanRules(rows pgx.Rows) ([]domain.Rule, error) {
	var result []domain.Rule
	for rows.Next() {
		var (
			rl    domain.Rule
			kind  string
			field string
		)
		if err := rows.Scan(&rl.ID, &rl.OrgID, &rl.Pattern, &kind, &field, &rl.ValueText, &rl.Active, &rl.CreatedAt); err != nil {
			return nil, err
		}
		rl.Kind = domain.MatchKind(kind)
		rl.Field = domain.LabelField(field)
		result = append(result, rl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.Rule{}
	}

	return result, nil
}

func scanRule(row pgx.Row) (*domain.Rule, error) {
	var (
		rl    domain.Rule
		kind  string
		field string
	)
	if err := row.Scan(&rl.ID, &rl.OrgID, &rl.Pattern, &kind, &field, &rl.ValueText, &rl.Active, &rl.CreatedAt); err != nil {
		return nil, err
	}
	rl.Kind = domain.MatchKind(kind)
	rl.Field = domain.LabelField(field)
	return &rl, nil
}
