package usecase

import (
	"context"
	"time"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/model"
)

// UpdateNextDeadlineUseCase overrides the projected deadline of a case.
type UpdateNextDeadlineUseCase struct {
	ledger *Ledger
}

// NewUpdateNextDeadlineUseCase wires dependencies.
func NewUpdateNextDeadlineUseCase(ledger *Ledger) *UpdateNextDeadlineUseCase {
	return &UpdateNextDeadlineUseCase{ledger: ledger}
}

// Execute sets the deadline. It must not be in the past for an active case
// nor fall after the first unpaid installment of a plan.
func (uc *UpdateNextDeadlineUseCase) Execute(ctx context.Context, req dto.UpdateNextDeadlineRequest) (dto.DebtCaseResponse, error) {
	if req.NextDeadlineDate == nil {
		return dto.DebtCaseResponse{}, model.ErrDeadlineRequired
	}
	deadline := req.NextDeadlineDate.UTC()

	saved, err := uc.ledger.update(ctx, req.CaseID, func(c model.DebtCase, actor string, now time.Time) (model.DebtCase, error) {
		next, err := c.UpdateNextDeadline(&deadline, actor, now)
		if err != nil {
			return c, err
		}
		return next.RecordUpdate([]string{"nextDeadlineDate"}, actor, now), nil
	})
	if err != nil {
		return dto.DebtCaseResponse{}, err
	}
	return toDebtCaseResponse(saved), nil
}
