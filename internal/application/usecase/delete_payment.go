package usecase

import (
	"context"
	"time"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/model"
)

// DeletePaymentUseCase removes a payment from a case.
type DeletePaymentUseCase struct {
	ledger *Ledger
}

// NewDeletePaymentUseCase wires dependencies.
func NewDeletePaymentUseCase(ledger *Ledger) *DeletePaymentUseCase {
	return &DeletePaymentUseCase{ledger: ledger}
}

// Execute deletes the payment. An installment it alone settled becomes
// unpaid again and the paid flag is recomputed.
func (uc *DeletePaymentUseCase) Execute(ctx context.Context, req dto.DeletePaymentRequest) error {
	saved, err := uc.ledger.update(ctx, req.CaseID, func(c model.DebtCase, actor string, now time.Time) (model.DebtCase, error) {
		next, _, err := c.DeletePayment(req.PaymentID, actor, now)
		return next, err
	})
	if err != nil {
		return err
	}

	uc.ledger.logger.InfoContext(ctx, "payment deleted",
		"case_id", saved.ID(),
		"payment_id", req.PaymentID,
		"paid", saved.Paid(),
	)
	return nil
}
