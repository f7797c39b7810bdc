package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/service"
	"github.com/bibbank/collections/internal/domain/valueobject"
)

// UpdateCaseUseCase applies a sparse patch to a case.
type UpdateCaseUseCase struct {
	ledger *Ledger
	rules  *service.TransitionRuleCache
}

// NewUpdateCaseUseCase wires dependencies.
func NewUpdateCaseUseCase(ledger *Ledger, rules *service.TransitionRuleCache) *UpdateCaseUseCase {
	return &UpdateCaseUseCase{ledger: ledger, rules: rules}
}

// Execute applies the supplied fields only. A state change stamps now as
// the entry time and projects a new deadline; an explicit deadline in the
// same request overrides the projection.
func (uc *UpdateCaseUseCase) Execute(ctx context.Context, req dto.UpdateCaseRequest) (dto.DebtCaseResponse, error) {
	var (
		state    valueobject.CaseState
		hasState bool
	)
	if s, ok := req.State.Get(); ok {
		parsed, err := parseState(s)
		if err != nil {
			return dto.DebtCaseResponse{}, err
		}
		state, hasState = parsed, true
	}

	saved, err := uc.ledger.update(ctx, req.CaseID, func(c model.DebtCase, actor string, now time.Time) (model.DebtCase, error) {
		var fields []string

		if v, ok := req.DebtorName.Get(); ok {
			c = c.Rename(v, actor, now)
			fields = append(fields, "debtorName")
		}
		if v, ok := req.OwedAmount.Get(); ok {
			c = c.ChangeOwedAmount(v, actor, now)
			fields = append(fields, "owedAmount")
		}
		if hasState && !state.Equal(c.CurrentState()) {
			deadline, err := uc.rules.NextDeadline(ctx, state, now)
			if err != nil {
				return c, fmt.Errorf("project deadline: %w", err)
			}
			c = c.ChangeState(state, deadline, actor, now)
			fields = append(fields, "state")
		}
		if v, ok := req.NextDeadlineDate.Get(); ok {
			c = c.SetNextDeadline(v, actor, now)
			fields = append(fields, "nextDeadlineDate")
		}
		if v, ok := req.OngoingNegotiations.Get(); ok {
			c = c.SetOngoingNegotiations(v, actor, now)
			fields = append(fields, "ongoingNegotiations")
		}
		if v, ok := req.HasInstallmentPlan.Get(); ok {
			c = c.SetInstallmentPlanFlag(v, actor, now)
			fields = append(fields, "hasInstallmentPlan")
		}
		if v, ok := req.Paid.Get(); ok {
			c = c.SetPaid(v, actor, now)
			fields = append(fields, "paid")
		}
		if req.ClearNotes {
			c = c.SetNotes(nil, actor, now)
			fields = append(fields, "notes")
		} else if v, ok := req.Notes.Get(); ok {
			c = c.SetNotes(v, actor, now)
			fields = append(fields, "notes")
		}

		if len(fields) == 0 {
			return c, nil
		}
		return c.RecordUpdate(fields, actor, now), nil
	})
	if err != nil {
		return dto.DebtCaseResponse{}, err
	}
	return toDebtCaseResponse(saved), nil
}
