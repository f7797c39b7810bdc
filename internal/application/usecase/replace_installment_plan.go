package usecase

import (
	"context"
	"time"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/model"
)

// ReplaceInstallmentPlanUseCase swaps the whole plan of a case.
type ReplaceInstallmentPlanUseCase struct {
	ledger *Ledger
}

// NewReplaceInstallmentPlanUseCase wires dependencies.
func NewReplaceInstallmentPlanUseCase(ledger *Ledger) *ReplaceInstallmentPlanUseCase {
	return &ReplaceInstallmentPlanUseCase{ledger: ledger}
}

// Execute replaces the plan. A plan with a paid installment is locked.
func (uc *ReplaceInstallmentPlanUseCase) Execute(ctx context.Context, req dto.ReplaceInstallmentPlanRequest) ([]dto.InstallmentResponse, error) {
	if len(req.Installments) == 0 {
		return nil, model.ErrEmptyInstallmentList
	}
	items := make([]model.InstallmentInput, len(req.Installments))
	for i, in := range req.Installments {
		items[i] = model.InstallmentInput{Amount: in.Amount, DueDate: in.DueDate.UTC()}
	}

	saved, err := uc.ledger.update(ctx, req.CaseID, func(c model.DebtCase, actor string, now time.Time) (model.DebtCase, error) {
		return c.ReplaceInstallmentPlan(items, actor, now)
	})
	if err != nil {
		return nil, err
	}

	uc.ledger.logger.InfoContext(ctx, "installment plan replaced",
		"case_id", saved.ID(),
		"installments", len(items),
	)
	return toInstallmentResponses(saved.ID(), saved.Installments()), nil
}
