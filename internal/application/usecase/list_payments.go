package usecase

import (
	"context"

	"github.com/bibbank/collections/internal/application/dto"
)

// ListPaymentsUseCase lists the payments of a case.
type ListPaymentsUseCase struct {
	ledger *Ledger
}

// NewListPaymentsUseCase wires dependencies.
func NewListPaymentsUseCase(ledger *Ledger) *ListPaymentsUseCase {
	return &ListPaymentsUseCase{ledger: ledger}
}

// Execute returns the payments ordered by payment date, then creation time.
func (uc *ListPaymentsUseCase) Execute(ctx context.Context, req dto.ListPaymentsRequest) ([]dto.PaymentResponse, error) {
	c, err := uc.ledger.load(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}
	return toPaymentResponses(c.ID(), c.SortedPayments()), nil
}
