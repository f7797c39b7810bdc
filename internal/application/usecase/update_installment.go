package usecase

import (
	"context"
	"time"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/model"
)

// UpdateInstallmentUseCase edits one unpaid installment.
type UpdateInstallmentUseCase struct {
	ledger *Ledger
}

// NewUpdateInstallmentUseCase wires dependencies.
func NewUpdateInstallmentUseCase(ledger *Ledger) *UpdateInstallmentUseCase {
	return &UpdateInstallmentUseCase{ledger: ledger}
}

// Execute applies the supplied amount and due date. Installments are
// renumbered by due date and the case deadline follows the first unpaid one.
func (uc *UpdateInstallmentUseCase) Execute(ctx context.Context, req dto.UpdateInstallmentRequest) (dto.InstallmentResponse, error) {
	if req.Amount == nil && req.DueDate == nil {
		return dto.InstallmentResponse{}, model.ErrNothingToUpdate
	}
	var dueDate *time.Time
	if req.DueDate != nil {
		d := req.DueDate.UTC()
		dueDate = &d
	}

	var updated model.Installment
	saved, err := uc.ledger.update(ctx, req.CaseID, func(c model.DebtCase, actor string, now time.Time) (model.DebtCase, error) {
		next, inst, err := c.UpdateSingleInstallment(req.InstallmentID, req.Amount, dueDate, actor, now)
		if err != nil {
			return c, err
		}
		updated = inst
		return next, nil
	})
	if err != nil {
		return dto.InstallmentResponse{}, err
	}
	return toInstallmentResponse(saved.ID(), updated), nil
}
