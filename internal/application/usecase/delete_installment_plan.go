package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/service"
)

// DeleteInstallmentPlanUseCase drops an unpaid plan.
type DeleteInstallmentPlanUseCase struct {
	ledger *Ledger
	rules  *service.TransitionRuleCache
}

// NewDeleteInstallmentPlanUseCase wires dependencies.
func NewDeleteInstallmentPlanUseCase(ledger *Ledger, rules *service.TransitionRuleCache) *DeleteInstallmentPlanUseCase {
	return &DeleteInstallmentPlanUseCase{ledger: ledger, rules: rules}
}

// Execute removes the plan and restores the rule-based deadline of the
// current state.
func (uc *DeleteInstallmentPlanUseCase) Execute(ctx context.Context, req dto.DeleteInstallmentPlanRequest) (dto.DebtCaseResponse, error) {
	saved, err := uc.ledger.update(ctx, req.CaseID, func(c model.DebtCase, actor string, now time.Time) (model.DebtCase, error) {
		deadline, err := uc.rules.NextDeadline(ctx, c.CurrentState(), c.CurrentStateDate())
		if err != nil {
			return c, fmt.Errorf("project deadline: %w", err)
		}
		return c.DeleteInstallmentPlan(deadline, actor, now)
	})
	if err != nil {
		return dto.DebtCaseResponse{}, err
	}

	uc.ledger.logger.InfoContext(ctx, "installment plan deleted", "case_id", saved.ID())
	return toDebtCaseResponse(saved), nil
}
