package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/port"
	"github.com/bibbank/collections/internal/domain/valueobject"
	pgpkg "github.com/bibbank/collections/pkg/postgres"
)

// Compile-time interface check
var _ port.TransitionRuleRepository = (*RuleRepo)(nil)

const upsertRuleQuery = `
	INSERT INTO state_transition_configs (id, from_state, to_state, days_to_transition, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (from_state) DO UPDATE SET
		to_state           = EXCLUDED.to_state,
		days_to_transition = EXCLUDED.days_to_transition,
		updated_at         = EXCLUDED.updated_at
`

// RuleRepo implements port.TransitionRuleRepository.
type RuleRepo struct {
	pool *pgxpool.Pool
}

// NewRuleRepo creates a new PostgreSQL-backed transition rule repository.
func NewRuleRepo(pool *pgxpool.Pool) *RuleRepo {
	return &RuleRepo{pool: pool}
}

func (r *RuleRepo) FindAll(ctx context.Context) ([]model.TransitionRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, from_state, to_state, days_to_transition, created_at, updated_at
		FROM state_transition_configs
	`)
	if err != nil {
		return nil, fmt.Errorf("query transition rules: %w", err)
	}
	defer rows.Close()

	var rules []model.TransitionRule
	for rows.Next() {
		rule, err := scanRuleRow(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *RuleRepo) FindByState(ctx context.Context, from valueobject.CaseState) (model.TransitionRule, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, from_state, to_state, days_to_transition, created_at, updated_at
		FROM state_transition_configs
		WHERE from_state = $1
	`, from.String())
	rule, err := scanRuleRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.TransitionRule{}, model.ErrRuleNotFound
	}
	return rule, err
}

func (r *RuleRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM state_transition_configs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transition rules: %w", err)
	}
	return n, nil
}

// Save upserts a rule keyed by its originating state.
func (r *RuleRepo) Save(ctx context.Context, rule model.TransitionRule) error {
	if _, err := r.pool.Exec(ctx, upsertRuleQuery, ruleArgs(rule)...); err != nil {
		return fmt.Errorf("save transition rule %s: %w", rule.FromState(), err)
	}
	return nil
}

// SaveAll upserts every rule or none.
func (r *RuleRepo) SaveAll(ctx context.Context, rules []model.TransitionRule) error {
	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for _, rule := range rules {
			if _, err := tx.Exec(ctx, upsertRuleQuery, ruleArgs(rule)...); err != nil {
				return fmt.Errorf("save transition rule %s: %w", rule.FromState(), err)
			}
		}
		return nil
	})
}

func ruleArgs(rule model.TransitionRule) []any {
	return []any{
		rule.ID(), rule.FromState().String(), rule.ToState().String(),
		rule.Days(), rule.CreatedAt(), rule.UpdatedAt(),
	}
}

func scanRuleRow(s pgx.Row) (model.TransitionRule, error) {
	var (
		id, fromStr, toStr   string
		days                 int
		createdAt, updatedAt time.Time
	)
	if err := s.Scan(&id, &fromStr, &toStr, &days, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TransitionRule{}, err
		}
		return model.TransitionRule{}, fmt.Errorf("scan transition rule: %w", err)
	}
	from, err := valueobject.NewCaseState(fromStr)
	if err != nil {
		return model.TransitionRule{}, fmt.Errorf("parse from state: %w", err)
	}
	to, err := valueobject.NewCaseState(toStr)
	if err != nil {
		return model.TransitionRule{}, fmt.Errorf("parse to state: %w", err)
	}
	return model.ReconstructTransitionRule(id, from, to, days, createdAt.UTC(), updatedAt.UTC()), nil
}
