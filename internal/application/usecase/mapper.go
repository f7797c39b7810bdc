package usecase

import (
	"time"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/model"
)

func toDebtCaseResponse(c model.DebtCase) dto.DebtCaseResponse {
	totalPaid := c.TotalPaid()
	return dto.DebtCaseResponse{
		ID:                  c.ID(),
		DebtorName:          c.DebtorName(),
		OwedAmount:          c.OwedAmount(),
		State:               c.CurrentState().String(),
		CurrentStateDate:    c.CurrentStateDate(),
		NextDeadlineDate:    c.NextDeadlineDate(),
		OngoingNegotiations: c.OngoingNegotiations(),
		HasInstallmentPlan:  c.HasInstallmentPlan(),
		Paid:                c.Paid(),
		Notes:               c.Notes(),
		TotalPaidAmount:     totalPaid,
		RemainingAmount:     c.OwedAmount().Sub(totalPaid),
		Installments:        toInstallmentResponses(c.ID(), c.Installments()),
		Payments:            toPaymentResponses(c.ID(), c.SortedPayments()),
		CreatedDate:         c.CreatedDate(),
		LastModifiedDate:    c.LastModifiedDate(),
		CreatedBy:           c.CreatedBy(),
		LastModifiedBy:      c.LastModifiedBy(),
		Version:             c.Version(),
	}
}

func toPaymentResponse(caseID string, p model.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:               p.ID,
		CaseID:           caseID,
		Amount:           p.Amount,
		PaymentDate:      p.PaymentDate,
		InstallmentID:    p.InstallmentID,
		CreatedDate:      p.CreatedDate,
		LastModifiedDate: p.LastModifiedDate,
	}
}

func toPaymentResponses(caseID string, payments []model.Payment) []dto.PaymentResponse {
	out := make([]dto.PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = toPaymentResponse(caseID, p)
	}
	return out
}

func toInstallmentResponse(caseID string, inst model.Installment) dto.InstallmentResponse {
	return dto.InstallmentResponse{
		ID:                inst.ID,
		CaseID:            caseID,
		InstallmentNumber: inst.Number,
		Amount:            inst.Amount,
		DueDate:           inst.DueDate,
		Paid:              inst.Paid,
		PaidDate:          inst.PaidDate,
		PaidAmount:        inst.PaidAmount,
		CreatedDate:       inst.CreatedDate,
		LastModifiedDate:  inst.LastModifiedDate,
	}
}

func toInstallmentResponses(caseID string, installments []model.Installment) []dto.InstallmentResponse {
	out := make([]dto.InstallmentResponse, len(installments))
	for i, inst := range installments {
		out[i] = toInstallmentResponse(caseID, inst)
	}
	return out
}

func toInstallmentPlanResponse(c model.DebtCase, now time.Time) dto.InstallmentPlanResponse {
	installments := c.Installments()
	return dto.InstallmentPlanResponse{
		CaseID:               c.ID(),
		NumberOfInstallments: len(installments),
		NextDeadlineDate:     c.NextDeadlineDate(),
		Installments:         toInstallmentResponses(c.ID(), installments),
		CreatedDate:          now,
	}
}

func toTransitionRuleResponses(rules []model.TransitionRule) []dto.TransitionRuleResponse {
	out := make([]dto.TransitionRuleResponse, len(rules))
	for i, r := range rules {
		out[i] = dto.TransitionRuleResponse{
			ID:               r.ID(),
			FromState:        r.FromState().String(),
			ToState:          r.ToState().String(),
			DaysToTransition: r.Days(),
			UpdatedAt:        r.UpdatedAt(),
		}
	}
	return out
}
