package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Case requests
// ---------------------------------------------------------------------------

// CreateCaseRequest opens a case. A nil StateDate means now.
type CreateCaseRequest struct {
	DebtorName string          `json:"debtorName"`
	State      string          `json:"state"`
	StateDate  *time.Time      `json:"lastStateDate,omitempty"`
	OwedAmount decimal.Decimal `json:"owedAmount"`
}

// GetCaseRequest identifies a case.
type GetCaseRequest struct {
	CaseID string `json:"caseId"`
}

// UpdateCaseRequest is a sparse patch: only supplied fields are applied.
// A supplied null clears NextDeadlineDate or Notes. ClearNotes wins over
// Notes.
type UpdateCaseRequest struct {
	CaseID              string                    `json:"-"`
	DebtorName          Optional[string]          `json:"debtorName"`
	OwedAmount          Optional[decimal.Decimal] `json:"owedAmount"`
	State               Optional[string]          `json:"state"`
	NextDeadlineDate    Optional[*time.Time]      `json:"nextDeadlineDate"`
	OngoingNegotiations Optional[bool]            `json:"ongoingNegotiations"`
	HasInstallmentPlan  Optional[bool]            `json:"hasInstallmentPlan"`
	Paid                Optional[bool]            `json:"paid"`
	Notes               Optional[*string]         `json:"notes"`
	ClearNotes          bool                      `json:"clearNotes"`
}

// DeleteCaseRequest identifies the case to remove.
type DeleteCaseRequest struct {
	CaseID string `json:"caseId"`
}

// UpdateNextDeadlineRequest overrides the projected deadline of a case.
type UpdateNextDeadlineRequest struct {
	CaseID           string     `json:"-"`
	NextDeadlineDate *time.Time `json:"nextDeadlineDate"`
}

// ---------------------------------------------------------------------------
// Payment requests
// ---------------------------------------------------------------------------

// RegisterPaymentRequest records a case-level payment. A nil PaymentDate
// means today.
type RegisterPaymentRequest struct {
	CaseID      string          `json:"-"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate *time.Time      `json:"paymentDate,omitempty"`
}

// ListPaymentsRequest identifies the case whose payments are listed.
type ListPaymentsRequest struct {
	CaseID string `json:"caseId"`
}

// UpdatePaymentRequest corrects a payment. Nil fields are left unchanged.
type UpdatePaymentRequest struct {
	CaseID      string           `json:"-"`
	PaymentID   string           `json:"-"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	PaymentDate *time.Time       `json:"paymentDate,omitempty"`
}

// DeletePaymentRequest identifies the payment to remove.
type DeletePaymentRequest struct {
	CaseID    string `json:"caseId"`
	PaymentID string `json:"paymentId"`
}

// ---------------------------------------------------------------------------
// Installment plan requests
// ---------------------------------------------------------------------------

// CreateInstallmentPlanRequest schedules equal installments. A zero
// FrequencyDays means DefaultFrequencyDays.
type CreateInstallmentPlanRequest struct {
	CaseID                  string          `json:"-"`
	NumberOfInstallments    int             `json:"numberOfInstallments"`
	FirstInstallmentDueDate time.Time       `json:"firstInstallmentDueDate"`
	InstallmentAmount       decimal.Decimal `json:"installmentAmount"`
	FrequencyDays           int             `json:"frequencyDays,omitempty"`
}

// DefaultFrequencyDays spaces installments when the caller does not.
const DefaultFrequencyDays = 30

// RegisterInstallmentPaymentRequest settles one installment. A nil
// PaymentDate means now.
type RegisterInstallmentPaymentRequest struct {
	CaseID        string          `json:"-"`
	InstallmentID string          `json:"-"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"`
}

// UpdateInstallmentRequest edits one unpaid installment.
type UpdateInstallmentRequest struct {
	CaseID        string           `json:"-"`
	InstallmentID string           `json:"-"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	DueDate       *time.Time       `json:"dueDate,omitempty"`
}

// InstallmentInput is one entry of a replacement plan.
type InstallmentInput struct {
	Amount  decimal.Decimal `json:"amount"`
	DueDate time.Time       `json:"dueDate"`
}

// ReplaceInstallmentPlanRequest swaps the whole plan of a case.
type ReplaceInstallmentPlanRequest struct {
	CaseID       string             `json:"-"`
	Installments []InstallmentInput `json:"installments"`
}

// DeleteInstallmentPlanRequest identifies the case whose plan is dropped.
type DeleteInstallmentPlanRequest struct {
	CaseID string `json:"caseId"`
}

// ---------------------------------------------------------------------------
// Transition rule requests
// ---------------------------------------------------------------------------

// TransitionRuleInput sets the offset of the rule leaving FromState.
type TransitionRuleInput struct {
	FromState        string `json:"fromState"`
	DaysToTransition int    `json:"daysToTransition"`
}

// UpdateTransitionRulesRequest changes several rule offsets at once.
type UpdateTransitionRulesRequest struct {
	Rules []TransitionRuleInput `json:"rules"`
}

// ---------------------------------------------------------------------------
// Search request
// ---------------------------------------------------------------------------

// SearchCasesRequest holds the optional search predicates. Date bounds are
// calendar days, inclusive at both ends. Sort entries read "field" or
// "field,asc|desc".
type SearchCasesRequest struct {
	DebtorName          string           `json:"debtorName,omitempty"`
	State               string           `json:"state,omitempty"`
	States              []string         `json:"states,omitempty"`
	MinAmount           *decimal.Decimal `json:"minAmount,omitempty"`
	MaxAmount           *decimal.Decimal `json:"maxAmount,omitempty"`
	HasInstallmentPlan  *bool            `json:"hasInstallmentPlan,omitempty"`
	Paid                *bool            `json:"paid,omitempty"`
	OngoingNegotiations *bool            `json:"ongoingNegotiations,omitempty"`
	Notes               string           `json:"notes,omitempty"`
	NextDeadlineFrom    *time.Time       `json:"nextDeadlineFrom,omitempty"`
	NextDeadlineTo      *time.Time       `json:"nextDeadlineTo,omitempty"`
	CurrentStateFrom    *time.Time       `json:"currentStateFrom,omitempty"`
	CurrentStateTo      *time.Time       `json:"currentStateTo,omitempty"`
	CreatedFrom         *time.Time       `json:"createdFrom,omitempty"`
	CreatedTo           *time.Time       `json:"createdTo,omitempty"`
	LastModifiedFrom    *time.Time       `json:"lastModifiedFrom,omitempty"`
	LastModifiedTo      *time.Time       `json:"lastModifiedTo,omitempty"`
	Page                int              `json:"page"`
	Size                int              `json:"size"`
	Sort                []string         `json:"sort,omitempty"`
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

// DebtCaseResponse is the external representation of a case.
type DebtCaseResponse struct {
	ID                  string                `json:"id"`
	DebtorName          string                `json:"debtorName"`
	OwedAmount          decimal.Decimal       `json:"owedAmount"`
	State               string                `json:"state"`
	CurrentStateDate    time.Time             `json:"lastStateDate"`
	NextDeadlineDate    *time.Time            `json:"nextDeadlineDate"`
	OngoingNegotiations bool                  `json:"ongoingNegotiations"`
	HasInstallmentPlan  bool                  `json:"hasInstallmentPlan"`
	Paid                bool                  `json:"paid"`
	Notes               *string               `json:"notes"`
	TotalPaidAmount     decimal.Decimal       `json:"totalPaidAmount"`
	RemainingAmount     decimal.Decimal       `json:"remainingAmount"`
	Installments        []InstallmentResponse `json:"installments"`
	Payments            []PaymentResponse     `json:"payments"`
	CreatedDate         time.Time             `json:"createdDate"`
	LastModifiedDate    time.Time             `json:"lastModifiedDate"`
	CreatedBy           string                `json:"createdBy"`
	LastModifiedBy      string                `json:"lastModifiedBy"`
	Version             int                   `json:"version"`
}

// PaymentResponse is a payment together with its owning case id.
type PaymentResponse struct {
	ID               string          `json:"id"`
	CaseID           string          `json:"debtCaseId"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentDate      time.Time       `json:"paymentDate"`
	InstallmentID    string          `json:"installmentId,omitempty"`
	CreatedDate      time.Time       `json:"createdDate"`
	LastModifiedDate time.Time       `json:"lastModifiedDate"`
}

// InstallmentResponse is an installment together with its owning case id.
type InstallmentResponse struct {
	ID                string           `json:"id"`
	CaseID            string           `json:"debtCaseId"`
	InstallmentNumber int              `json:"installmentNumber"`
	Amount            decimal.Decimal  `json:"amount"`
	DueDate           time.Time        `json:"dueDate"`
	Paid              bool             `json:"paid"`
	PaidDate          *time.Time       `json:"paidDate"`
	PaidAmount        *decimal.Decimal `json:"paidAmount"`
	CreatedDate       time.Time        `json:"createdDate"`
	LastModifiedDate  time.Time        `json:"lastModifiedDate"`
}

// InstallmentPlanResponse describes a freshly scheduled plan.
type InstallmentPlanResponse struct {
	CaseID               string                `json:"debtCaseId"`
	NumberOfInstallments int                   `json:"numberOfInstallments"`
	NextDeadlineDate     *time.Time            `json:"nextDeadlineDate"`
	Installments         []InstallmentResponse `json:"installments"`
	CreatedDate          time.Time             `json:"createdDate"`
}

// CasesSummaryResponse aggregates the cases that are not completed.
type CasesSummaryResponse struct {
	TotalActiveCases int            `json:"totalActiveCases"`
	Overdue          int            `json:"overdue"`
	DueToday         int            `json:"dueToday"`
	DueNext7Days     int            `json:"dueNext7Days"`
	States           map[string]int `json:"states"`
}

// TransitionRuleResponse is the external representation of a rule.
type TransitionRuleResponse struct {
	ID               string    `json:"id"`
	FromState        string    `json:"fromState"`
	ToState          string    `json:"toState"`
	DaysToTransition int       `json:"daysToTransition"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// PageMetadata describes the position of a page in the full result.
type PageMetadata struct {
	Size          int `json:"size"`
	Number        int `json:"number"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// CasePageResponse is one page of search results.
type CasePageResponse struct {
	Content []DebtCaseResponse `json:"content"`
	Page    PageMetadata       `json:"page"`
}
