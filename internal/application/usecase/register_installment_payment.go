package usecase

import (
	"context"
	"time"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/model"
)

// RegisterInstallmentPaymentUseCase settles one installment of a plan.
type RegisterInstallmentPaymentUseCase struct {
	ledger *Ledger
}

// NewRegisterInstallmentPaymentUseCase wires dependencies.
func NewRegisterInstallmentPaymentUseCase(ledger *Ledger) *RegisterInstallmentPaymentUseCase {
	return &RegisterInstallmentPaymentUseCase{ledger: ledger}
}

// Execute marks the installment paid and returns the linked payment it
// recorded. The case completes once every installment is paid and payments
// cover the owed amount.
func (uc *RegisterInstallmentPaymentUseCase) Execute(ctx context.Context, req dto.RegisterInstallmentPaymentRequest) (dto.PaymentResponse, error) {
	if !req.Amount.IsPositive() {
		return dto.PaymentResponse{}, model.ErrAmountNotPositive
	}

	var payment model.Payment
	saved, err := uc.ledger.update(ctx, req.CaseID, func(c model.DebtCase, actor string, now time.Time) (model.DebtCase, error) {
		paidAt := now
		if req.PaymentDate != nil && !req.PaymentDate.IsZero() {
			paidAt = req.PaymentDate.UTC()
		}
		next, p, err := c.RegisterInstallmentPayment(req.InstallmentID, req.Amount, paidAt, actor, now)
		if err != nil {
			return c, err
		}
		payment = p
		if !next.PlanSettled() {
			return next, nil
		}
		return settle(next, model.NoteCompletedByInstallments, actor, now), nil
	})
	if err != nil {
		return dto.PaymentResponse{}, err
	}

	inst, _ := saved.Installment(req.InstallmentID)
	uc.ledger.logger.InfoContext(ctx, "installment paid",
		"case_id", saved.ID(),
		"installment_id", inst.ID,
		"installment_number", inst.Number,
		"payment_id", payment.ID,
	)
	return toPaymentResponse(saved.ID(), payment), nil
}
