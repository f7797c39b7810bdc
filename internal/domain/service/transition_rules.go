package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/port"
	"github.com/bibbank/collections/internal/domain/valueobject"
)

// DefaultTransitionDays is the rule chain installed by SeedDefaults. Each
// state moves to its lifecycle successor.
var DefaultTransitionDays = []struct {
	From valueobject.CaseState
	Days int
}{
	{valueobject.CaseStateNoticeDue, 5},
	{valueobject.CaseStateNoticeSent, 30},
	{valueobject.CaseStatePetitionFiled, 20},
	{valueobject.CaseStateInjunctionToServe, 15},
	{valueobject.CaseStateInjunctionServed, 30},
	{valueobject.CaseStateObjectionPending, 45},
	{valueobject.CaseStateSeizure, 60},
	{valueobject.CaseStateWritOfExecution, 30},
}

// ruleSnapshot is never mutated once published.
type ruleSnapshot struct {
	byState map[string]model.TransitionRule
}

// ---------------------------------------------------------------------------
// TransitionRuleCache – deadline projection over configured rules
// ---------------------------------------------------------------------------

// TransitionRuleCache keeps the transition rules in memory and projects
// case deadlines from them. Refresh swaps the whole rule set at once, so
// concurrent readers observe either the previous or the new set.
type TransitionRuleCache struct {
	repo     port.TransitionRuleRepository
	notifier port.RuleChangeNotifier
	metrics  port.LedgerMetrics
	logger   *slog.Logger
	now      func() time.Time
	snapshot atomic.Pointer[ruleSnapshot]
}

// NewTransitionRuleCache creates an empty cache. notifier may be nil when
// the service runs as a single replica.
func NewTransitionRuleCache(
	repo port.TransitionRuleRepository,
	notifier port.RuleChangeNotifier,
	metrics port.LedgerMetrics,
	logger *slog.Logger,
) *TransitionRuleCache {
	c := &TransitionRuleCache{
		repo:     repo,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
	c.snapshot.Store(&ruleSnapshot{byState: map[string]model.TransitionRule{}})
	return c
}

// Refresh reloads every rule from the store.
func (c *TransitionRuleCache) Refresh(ctx context.Context) error {
	rules, err := c.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load transition rules: %w", err)
	}
	byState := make(map[string]model.TransitionRule, len(rules))
	for _, r := range rules {
		byState[r.FromState().String()] = r
	}
	c.snapshot.Store(&ruleSnapshot{byState: byState})
	c.logger.DebugContext(ctx, "transition rules refreshed", "count", len(byState))
	return nil
}

// Size returns the number of cached rules.
func (c *TransitionRuleCache) Size() int {
	return len(c.snapshot.Load().byState)
}

// Deadline projects the deadline of a case that entered from at entered.
// The terminal state yields model.MaxDate. A state without a rule falls
// back to FallbackTransitionDays and is logged, never reported as an error.
func (c *TransitionRuleCache) Deadline(ctx context.Context, from valueobject.CaseState, entered time.Time) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	if from.IsTerminal() {
		return model.MaxDate, nil
	}

	c.ensureFresh(ctx)

	if rule, ok := c.snapshot.Load().byState[from.String()]; ok {
		return rule.Deadline(entered), nil
	}

	c.logger.WarnContext(ctx, "no transition rule configured, using fallback",
		"state", from.String(),
		"fallback_days", model.FallbackTransitionDays,
	)
	c.metrics.DeadlineFallback(ctx, from.String())
	return model.StartOfDay(entered).AddDate(0, 0, model.FallbackTransitionDays), nil
}

// NextDeadline is Deadline for case fields: nil for the terminal state.
func (c *TransitionRuleCache) NextDeadline(ctx context.Context, state valueobject.CaseState, entered time.Time) (*time.Time, error) {
	if state.IsTerminal() {
		return nil, nil
	}
	d, err := c.Deadline(ctx, state, entered)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ensureFresh refreshes when the store holds a different number of rules
// than the cache. Store failures leave the cached rules in use.
func (c *TransitionRuleCache) ensureFresh(ctx context.Context) {
	count, err := c.repo.Count(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "count transition rules failed, using cached rules", "error", err)
		return
	}
	if count == 0 || count == c.Size() {
		return
	}
	if err := c.Refresh(ctx); err != nil {
		c.logger.WarnContext(ctx, "refresh transition rules failed, using cached rules", "error", err)
	}
}

// Rules lists the stored rules in lifecycle order of their originating state.
func (c *TransitionRuleCache) Rules(ctx context.Context) ([]model.TransitionRule, error) {
	rules, err := c.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transition rules: %w", err)
	}
	sortRules(rules)
	return rules, nil
}

// UpdateDays changes the offset of existing rules in bulk and returns every
// configured rule. Every state must already have a rule and every offset
// must be positive; nothing is saved otherwise. An empty update saves
// nothing. Peers are notified after the local cache is refreshed.
func (c *TransitionRuleCache) UpdateDays(ctx context.Context, days map[valueobject.CaseState]int) ([]model.TransitionRule, error) {
	if len(days) == 0 {
		return c.Rules(ctx)
	}

	now := c.now().UTC()
	updated := make([]model.TransitionRule, 0, len(days))
	for state, d := range days {
		if d <= 0 {
			return nil, model.IllegalRequestf("days to transition for %s must be positive, got %d", state, d)
		}
		rule, err := c.repo.FindByState(ctx, state)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, model.NotFoundf("no transition rule configured for %s", state)
			}
			return nil, fmt.Errorf("find transition rule %s: %w", state, err)
		}
		rule, err = rule.WithDays(d, now)
		if err != nil {
			return nil, err
		}
		updated = append(updated, rule)
	}

	if err := c.repo.SaveAll(ctx, updated); err != nil {
		return nil, fmt.Errorf("save transition rules: %w", err)
	}
	if err := c.Refresh(ctx); err != nil {
		c.logger.WarnContext(ctx, "refresh after rule update failed", "error", err)
	}
	if c.notifier != nil {
		if err := c.notifier.NotifyRulesChanged(ctx); err != nil {
			c.logger.WarnContext(ctx, "notify rule change failed", "error", err)
		}
	}

	return c.Rules(ctx)
}

// SeedDefaults installs DefaultTransitionDays when the store holds no rules.
func (c *TransitionRuleCache) SeedDefaults(ctx context.Context) error {
	count, err := c.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count transition rules: %w", err)
	}
	if count > 0 {
		return c.Refresh(ctx)
	}

	now := c.now().UTC()
	rules := make([]model.TransitionRule, 0, len(DefaultTransitionDays))
	for _, d := range DefaultTransitionDays {
		to, ok := d.From.Next()
		if !ok {
			continue
		}
		rule, err := model.NewTransitionRule(uuid.NewString(), d.From, to, d.Days, now)
		if err != nil {
			return err
		}
		rules = append(rules, rule)
	}
	if err := c.repo.SaveAll(ctx, rules); err != nil {
		return fmt.Errorf("seed transition rules: %w", err)
	}
	c.logger.InfoContext(ctx, "seeded default transition rules", "count", len(rules))
	return c.Refresh(ctx)
}

func sortRules(rules []model.TransitionRule) {
	slices.SortFunc(rules, func(a, b model.TransitionRule) int {
		return a.FromState().Ordinal() - b.FromState().Ordinal()
	})
}
