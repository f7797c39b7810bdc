package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/collections/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	aggregateDebtCase       = "DebtCase"
	aggregateTransitionRule = "TransitionRule"
)

// ---------------------------------------------------------------------------
// Case lifecycle events
// ---------------------------------------------------------------------------

// DebtCaseCreated is raised when a case is opened.
type DebtCaseCreated struct {
	events.BaseEvent
	DebtorName       string          `json:"debtor_name"`
	OwedAmount       decimal.Decimal `json:"owed_amount"`
	State            string          `json:"state"`
	NextDeadlineDate *time.Time      `json:"next_deadline_date,omitempty"`
	CreatedBy        string          `json:"created_by"`
}

func NewDebtCaseCreated(caseID, debtorName string, owed decimal.Decimal, state string, deadline *time.Time, actor string, now time.Time) DebtCaseCreated {
	return DebtCaseCreated{
		BaseEvent:        events.NewBaseEvent("collections.debt_case.created", caseID, aggregateDebtCase, now),
		DebtorName:       debtorName,
		OwedAmount:       owed,
		State:            state,
		NextDeadlineDate: deadline,
		CreatedBy:        actor,
	}
}

// DebtCaseUpdated is raised by a sparse field update.
type DebtCaseUpdated struct {
	events.BaseEvent
	Fields     []string `json:"fields"`
	ModifiedBy string   `json:"modified_by"`
}

func NewDebtCaseUpdated(caseID string, fields []string, actor string, now time.Time) DebtCaseUpdated {
	return DebtCaseUpdated{
		BaseEvent:  events.NewBaseEvent("collections.debt_case.updated", caseID, aggregateDebtCase, now),
		Fields:     fields,
		ModifiedBy: actor,
	}
}

// DebtCaseStateChanged is raised whenever the lifecycle state moves.
type DebtCaseStateChanged struct {
	events.BaseEvent
	FromState        string     `json:"from_state"`
	ToState          string     `json:"to_state"`
	NextDeadlineDate *time.Time `json:"next_deadline_date,omitempty"`
}

func NewDebtCaseStateChanged(caseID, from, to string, deadline *time.Time, now time.Time) DebtCaseStateChanged {
	return DebtCaseStateChanged{
		BaseEvent:        events.NewBaseEvent("collections.debt_case.state_changed", caseID, aggregateDebtCase, now),
		FromState:        from,
		ToState:          to,
		NextDeadlineDate: deadline,
	}
}

// DebtCaseCompleted is raised when payments settle the owed amount.
type DebtCaseCompleted struct {
	events.BaseEvent
	OwedAmount decimal.Decimal `json:"owed_amount"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	Note       string          `json:"note"`
}

func NewDebtCaseCompleted(caseID string, owed, totalPaid decimal.Decimal, note string, now time.Time) DebtCaseCompleted {
	return DebtCaseCompleted{
		BaseEvent:  events.NewBaseEvent("collections.debt_case.completed", caseID, aggregateDebtCase, now),
		OwedAmount: owed,
		TotalPaid:  totalPaid,
		Note:       note,
	}
}

// DebtCaseDeleted is raised after a case and everything it owns is removed.
type DebtCaseDeleted struct {
	events.BaseEvent
	DeletedBy string `json:"deleted_by"`
}

func NewDebtCaseDeleted(caseID, actor string, now time.Time) DebtCaseDeleted {
	return DebtCaseDeleted{
		BaseEvent: events.NewBaseEvent("collections.debt_case.deleted", caseID, aggregateDebtCase, now),
		DeletedBy: actor,
	}
}

// ---------------------------------------------------------------------------
// Payment events
// ---------------------------------------------------------------------------

// PaymentRecorded covers registration, correction and removal of a payment;
// Action distinguishes them.
type PaymentRecorded struct {
	events.BaseEvent
	Action        string          `json:"action"`
	PaymentID     string          `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"payment_date"`
	InstallmentID string          `json:"installment_id,omitempty"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
}

const (
	PaymentActionRegistered = "registered"
	PaymentActionUpdated    = "updated"
	PaymentActionDeleted    = "deleted"
)

func NewPaymentRecorded(caseID, action, paymentID string, amount decimal.Decimal, paymentDate time.Time, installmentID string, totalPaid decimal.Decimal, now time.Time) PaymentRecorded {
	return PaymentRecorded{
		BaseEvent:     events.NewBaseEvent("collections.payment."+action, caseID, aggregateDebtCase, now),
		Action:        action,
		PaymentID:     paymentID,
		Amount:        amount,
		PaymentDate:   paymentDate,
		InstallmentID: installmentID,
		TotalPaid:     totalPaid,
	}
}

// ---------------------------------------------------------------------------
// Installment plan events
// ---------------------------------------------------------------------------

// InstallmentPlanChanged is raised when a plan is created, replaced, edited
// or deleted.
type InstallmentPlanChanged struct {
	events.BaseEvent
	Action               string          `json:"action"`
	NumberOfInstallments int             `json:"number_of_installments"`
	PlanTotal            decimal.Decimal `json:"plan_total"`
	NextDeadlineDate     *time.Time      `json:"next_deadline_date,omitempty"`
}

const (
	PlanActionCreated            = "created"
	PlanActionReplaced           = "replaced"
	PlanActionInstallmentUpdated = "installment_updated"
	PlanActionDeleted            = "deleted"
)

func NewInstallmentPlanChanged(caseID, action string, count int, total decimal.Decimal, deadline *time.Time, now time.Time) InstallmentPlanChanged {
	return InstallmentPlanChanged{
		BaseEvent:            events.NewBaseEvent("collections.installment_plan."+action, caseID, aggregateDebtCase, now),
		Action:               action,
		NumberOfInstallments: count,
		PlanTotal:            total,
		NextDeadlineDate:     deadline,
	}
}

// ---------------------------------------------------------------------------
// Configuration events
// ---------------------------------------------------------------------------

// TransitionRulesUpdated is raised after a bulk change of deadline offsets.
type TransitionRulesUpdated struct {
	events.BaseEvent
	Days map[string]int `json:"days"`
}

func NewTransitionRulesUpdated(days map[string]int, now time.Time) TransitionRulesUpdated {
	return TransitionRulesUpdated{
		BaseEvent: events.NewBaseEvent("collections.transition_rules.updated", "transition-rules", aggregateTransitionRule, now),
		Days:      days,
	}
}
