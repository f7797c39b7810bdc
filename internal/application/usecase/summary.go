package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/valueobject"
)

// summaryHorizonDays bounds the "due soon" window, today included.
const summaryHorizonDays = 7

// SummaryUseCase aggregates the open cases for the dashboard.
type SummaryUseCase struct {
	ledger *Ledger
}

// NewSummaryUseCase wires dependencies.
func NewSummaryUseCase(ledger *Ledger) *SummaryUseCase {
	return &SummaryUseCase{ledger: ledger}
}

// Execute counts the cases that are not completed by deadline bucket and
// by state. Every non-terminal state appears in the state map.
func (uc *SummaryUseCase) Execute(ctx context.Context) (dto.CasesSummaryResponse, error) {
	active, err := uc.ledger.cases.ListActive(ctx)
	if err != nil {
		return dto.CasesSummaryResponse{}, fmt.Errorf("list active cases: %w", err)
	}

	today := model.StartOfDay(uc.ledger.clock())
	horizon := today.AddDate(0, 0, summaryHorizonDays)

	resp := dto.CasesSummaryResponse{
		TotalActiveCases: len(active),
		States:           make(map[string]int),
	}
	for _, s := range valueobject.AllCaseStates() {
		if !s.IsTerminal() {
			resp.States[s.String()] = 0
		}
	}

	for _, c := range active {
		if _, ok := resp.States[c.CurrentState().String()]; ok {
			resp.States[c.CurrentState().String()]++
		}
		deadline := c.NextDeadlineDate()
		if deadline == nil {
			continue
		}
		day := model.StartOfDay(*deadline)
		switch {
		case day.Before(today):
			resp.Overdue++
		case day.Equal(today):
			resp.DueToday++
		}
		if !day.Before(today) && !day.After(horizon) {
			resp.DueNext7Days++
		}
	}
	return resp, nil
}
