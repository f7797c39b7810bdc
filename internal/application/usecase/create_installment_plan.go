package usecase

import (
	"context"
	"time"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/model"
)

// CreateInstallmentPlanUseCase schedules a repayment plan for a case.
type CreateInstallmentPlanUseCase struct {
	ledger *Ledger
}

// NewCreateInstallmentPlanUseCase wires dependencies.
func NewCreateInstallmentPlanUseCase(ledger *Ledger) *CreateInstallmentPlanUseCase {
	return &CreateInstallmentPlanUseCase{ledger: ledger}
}

// Execute generates equal installments spaced FrequencyDays apart. The
// case deadline moves to the first due date.
func (uc *CreateInstallmentPlanUseCase) Execute(ctx context.Context, req dto.CreateInstallmentPlanRequest) (dto.InstallmentPlanResponse, error) {
	frequency := req.FrequencyDays
	if frequency == 0 {
		frequency = dto.DefaultFrequencyDays
	}

	var createdAt time.Time
	saved, err := uc.ledger.update(ctx, req.CaseID, func(c model.DebtCase, actor string, now time.Time) (model.DebtCase, error) {
		createdAt = now
		return c.CreateInstallmentPlan(
			req.NumberOfInstallments, req.FirstInstallmentDueDate.UTC(), req.InstallmentAmount, frequency, actor, now,
		)
	})
	if err != nil {
		return dto.InstallmentPlanResponse{}, err
	}

	uc.ledger.logger.InfoContext(ctx, "installment plan created",
		"case_id", saved.ID(),
		"installments", req.NumberOfInstallments,
		"frequency_days", frequency,
	)
	return toInstallmentPlanResponse(saved, createdAt), nil
}
