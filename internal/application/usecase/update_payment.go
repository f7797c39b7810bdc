package usecase

import (
	"context"
	"time"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/model"
)

// UpdatePaymentUseCase corrects the amount or date of a payment.
type UpdatePaymentUseCase struct {
	ledger *Ledger
}

// NewUpdatePaymentUseCase wires dependencies.
func NewUpdatePaymentUseCase(ledger *Ledger) *UpdatePaymentUseCase {
	return &UpdatePaymentUseCase{ledger: ledger}
}

// Execute applies the correction, mirrors it onto the settled installment
// and re-runs the completion step.
func (uc *UpdatePaymentUseCase) Execute(ctx context.Context, req dto.UpdatePaymentRequest) (dto.PaymentResponse, error) {
	if req.Amount == nil && req.PaymentDate == nil {
		return dto.PaymentResponse{}, model.ErrNothingToUpdate
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		return dto.PaymentResponse{}, model.ErrAmountNotPositive
	}

	var payment model.Payment
	saved, err := uc.ledger.update(ctx, req.CaseID, func(c model.DebtCase, actor string, now time.Time) (model.DebtCase, error) {
		next, p, err := c.UpdatePayment(req.PaymentID, req.Amount, req.PaymentDate, actor, now)
		if err != nil {
			return c, err
		}
		payment = p
		return settle(next, model.NoteCompletedByPaymentUpdate, actor, now), nil
	})
	if err != nil {
		return dto.PaymentResponse{}, err
	}
	return toPaymentResponse(saved.ID(), payment), nil
}
