package usecase

import (
	"context"
	"time"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/model"
)

// RegisterPaymentUseCase records a case-level payment and completes the
// case once payments cover the owed amount.
type RegisterPaymentUseCase struct {
	ledger *Ledger
}

// NewRegisterPaymentUseCase wires dependencies.
func NewRegisterPaymentUseCase(ledger *Ledger) *RegisterPaymentUseCase {
	return &RegisterPaymentUseCase{ledger: ledger}
}

// Execute appends the payment. The amount is checked before the case is
// loaded so a rejected request never reaches the store.
func (uc *RegisterPaymentUseCase) Execute(ctx context.Context, req dto.RegisterPaymentRequest) (dto.PaymentResponse, error) {
	if !req.Amount.IsPositive() {
		return dto.PaymentResponse{}, model.ErrAmountNotPositive
	}

	var payment model.Payment
	saved, err := uc.ledger.update(ctx, req.CaseID, func(c model.DebtCase, actor string, now time.Time) (model.DebtCase, error) {
		paymentDate := now
		if req.PaymentDate != nil && !req.PaymentDate.IsZero() {
			paymentDate = req.PaymentDate.UTC()
		}
		next, p, err := c.RegisterPayment(req.Amount, paymentDate, actor, now)
		if err != nil {
			return c, err
		}
		payment = p
		return settle(next, model.NoteCompletedByPayment, actor, now), nil
	})
	if err != nil {
		return dto.PaymentResponse{}, err
	}

	uc.ledger.logger.InfoContext(ctx, "payment registered",
		"case_id", saved.ID(),
		"payment_id", payment.ID,
		"amount", payment.Amount.String(),
		"state", saved.CurrentState().String(),
	)
	return toPaymentResponse(saved.ID(), payment), nil
}
