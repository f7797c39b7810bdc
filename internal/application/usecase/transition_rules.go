package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/event"
	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/service"
	"github.com/bibbank/collections/internal/domain/valueobject"
	"github.com/bibbank/collections/pkg/auth"
)

// ListTransitionRulesUseCase lists the configured deadline rules.
type ListTransitionRulesUseCase struct {
	rules *service.TransitionRuleCache
}

// NewListTransitionRulesUseCase wires dependencies.
func NewListTransitionRulesUseCase(rules *service.TransitionRuleCache) *ListTransitionRulesUseCase {
	return &ListTransitionRulesUseCase{rules: rules}
}

// Execute returns the rules in lifecycle order.
func (uc *ListTransitionRulesUseCase) Execute(ctx context.Context) ([]dto.TransitionRuleResponse, error) {
	rules, err := uc.rules.Rules(ctx)
	if err != nil {
		return nil, err
	}
	return toTransitionRuleResponses(rules), nil
}

// UpdateTransitionRulesUseCase changes deadline offsets in bulk.
type UpdateTransitionRulesUseCase struct {
	ledger *Ledger
	rules  *service.TransitionRuleCache
}

// NewUpdateTransitionRulesUseCase wires dependencies.
func NewUpdateTransitionRulesUseCase(ledger *Ledger, rules *service.TransitionRuleCache) *UpdateTransitionRulesUseCase {
	return &UpdateTransitionRulesUseCase{ledger: ledger, rules: rules}
}

// Execute updates every listed rule or none and returns the full rule set.
// An empty request changes nothing. Existing case deadlines are not
// recomputed; new offsets apply to the next projection.
func (uc *UpdateTransitionRulesUseCase) Execute(ctx context.Context, req dto.UpdateTransitionRulesRequest) ([]dto.TransitionRuleResponse, error) {
	days := make(map[valueobject.CaseState]int, len(req.Rules))
	for _, in := range req.Rules {
		state, err := parseState(in.FromState)
		if err != nil {
			return nil, err
		}
		if _, dup := days[state]; dup {
			return nil, model.IllegalRequestf("transition rule for %s listed more than once", state)
		}
		days[state] = in.DaysToTransition
	}

	rules, err := uc.rules.UpdateDays(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("update transition rules: %w", err)
	}
	if len(days) == 0 {
		return toTransitionRuleResponses(rules), nil
	}

	changed := make(map[string]int, len(days))
	for state, d := range days {
		changed[state.String()] = d
	}
	uc.ledger.publish(ctx, event.NewTransitionRulesUpdated(changed, uc.ledger.clock()))
	uc.ledger.logger.InfoContext(ctx, "transition rules updated",
		"count", len(changed),
		"actor", auth.ActorFromContext(ctx),
	)
	return toTransitionRuleResponses(rules), nil
}
