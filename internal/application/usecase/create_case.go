package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/service"
	"github.com/bibbank/collections/internal/domain/valueobject"
	"github.com/bibbank/collections/pkg/auth"
)

// CreateCaseUseCase opens a debt case and projects its first deadline.
type CreateCaseUseCase struct {
	ledger *Ledger
	rules  *service.TransitionRuleCache
}

// NewCreateCaseUseCase wires dependencies.
func NewCreateCaseUseCase(ledger *Ledger, rules *service.TransitionRuleCache) *CreateCaseUseCase {
	return &CreateCaseUseCase{ledger: ledger, rules: rules}
}

// Execute creates the case with every flag cleared. The deadline follows
// the transition rule of the initial state.
func (uc *CreateCaseUseCase) Execute(ctx context.Context, req dto.CreateCaseRequest) (dto.DebtCaseResponse, error) {
	state, err := parseState(req.State)
	if err != nil {
		return dto.DebtCaseResponse{}, err
	}

	now := uc.ledger.clock()
	entered := now
	if req.StateDate != nil && !req.StateDate.IsZero() {
		entered = req.StateDate.UTC()
	}

	deadline, err := uc.rules.NextDeadline(ctx, state, entered)
	if err != nil {
		return dto.DebtCaseResponse{}, fmt.Errorf("project deadline: %w", err)
	}

	c, err := model.NewDebtCase(req.DebtorName, state, entered, req.OwedAmount, deadline, auth.ActorFromContext(ctx), now)
	if err != nil {
		return dto.DebtCaseResponse{}, fmt.Errorf("create case: %w", err)
	}

	saved, err := uc.ledger.commit(ctx, c)
	if err != nil {
		return dto.DebtCaseResponse{}, err
	}

	uc.ledger.logger.InfoContext(ctx, "debt case created",
		"case_id", saved.ID(),
		"state", state.String(),
	)
	return toDebtCaseResponse(saved), nil
}

// parseState maps an unknown state name to an illegal request.
func parseState(s string) (valueobject.CaseState, error) {
	state, err := valueobject.NewCaseState(s)
	if err != nil {
		return valueobject.CaseState{}, model.IllegalRequestf("%v", err)
	}
	return state, nil
}
