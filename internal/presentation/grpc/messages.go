package grpc

import (
	"github.com/bibbank/collections/internal/application/dto"
)

// Request and response envelopes for operations whose DTOs take the case
// or entry ids from the HTTP path. The outer id fields shadow the untagged
// ones of the embedded DTO.

// Empty is the message of operations without arguments or results.
type Empty struct{}

type UpdateCaseRequest struct {
	CaseID string `json:"caseId"`
	dto.UpdateCaseRequest
}

type UpdateNextDeadlineRequest struct {
	CaseID string `json:"caseId"`
	dto.UpdateNextDeadlineRequest
}

type RegisterPaymentRequest struct {
	CaseID string `json:"caseId"`
	dto.RegisterPaymentRequest
}

type UpdatePaymentRequest struct {
	CaseID    string `json:"caseId"`
	PaymentID string `json:"paymentId"`
	dto.UpdatePaymentRequest
}

type CreateInstallmentPlanRequest struct {
	CaseID string `json:"caseId"`
	dto.CreateInstallmentPlanRequest
}

type RegisterInstallmentPaymentRequest struct {
	CaseID        string `json:"caseId"`
	InstallmentID string `json:"installmentId"`
	dto.RegisterInstallmentPaymentRequest
}

type UpdateInstallmentRequest struct {
	CaseID        string `json:"caseId"`
	InstallmentID string `json:"installmentId"`
	dto.UpdateInstallmentRequest
}

type ReplaceInstallmentPlanRequest struct {
	CaseID string `json:"caseId"`
	dto.ReplaceInstallmentPlanRequest
}

type ListPaymentsResponse struct {
	Payments []dto.PaymentResponse `json:"payments"`
}

type InstallmentsResponse struct {
	Installments []dto.InstallmentResponse `json:"installments"`
}

type TransitionRulesResponse struct {
	Rules []dto.TransitionRuleResponse `json:"rules"`
}
