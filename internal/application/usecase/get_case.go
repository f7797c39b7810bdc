package usecase

import (
	"context"

	"github.com/bibbank/collections/internal/application/dto"
)

// GetCaseUseCase retrieves a single case.
type GetCaseUseCase struct {
	ledger *Ledger
}

// NewGetCaseUseCase wires dependencies.
func NewGetCaseUseCase(ledger *Ledger) *GetCaseUseCase {
	return &GetCaseUseCase{ledger: ledger}
}

// Execute returns the case with its installments and payments.
func (uc *GetCaseUseCase) Execute(ctx context.Context, req dto.GetCaseRequest) (dto.DebtCaseResponse, error) {
	c, err := uc.ledger.load(ctx, req.CaseID)
	if err != nil {
		return dto.DebtCaseResponse{}, err
	}
	return toDebtCaseResponse(c), nil
}
