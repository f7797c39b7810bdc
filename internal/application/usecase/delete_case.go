package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/event"
	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/pkg/auth"
)

// DeleteCaseUseCase removes a case together with its installments and
// payments.
type DeleteCaseUseCase struct {
	ledger *Ledger
}

// NewDeleteCaseUseCase wires dependencies.
func NewDeleteCaseUseCase(ledger *Ledger) *DeleteCaseUseCase {
	return &DeleteCaseUseCase{ledger: ledger}
}

// Execute deletes the case. The deletion cannot be undone.
func (uc *DeleteCaseUseCase) Execute(ctx context.Context, req dto.DeleteCaseRequest) error {
	exists, err := uc.ledger.cases.Exists(ctx, req.CaseID)
	if err != nil {
		return fmt.Errorf("check case: %w", err)
	}
	if !exists {
		return model.NotFoundf("debt case not found with id: %s", req.CaseID)
	}

	if err := uc.ledger.cases.Delete(ctx, req.CaseID); err != nil {
		return fmt.Errorf("delete case: %w", err)
	}

	actor := auth.ActorFromContext(ctx)
	uc.ledger.publish(ctx, event.NewDebtCaseDeleted(req.CaseID, actor, uc.ledger.clock()))
	uc.ledger.logger.InfoContext(ctx, "debt case deleted",
		"case_id", req.CaseID,
		"actor", actor,
	)
	return nil
}
