package model

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Error kinds
// ---------------------------------------------------------------------------

// Transports branch on these with errors.Is. Every error returned by the
// domain and application layers matches at most one of them.
var (
	ErrNotFound               = errors.New("not found")
	ErrIllegalRequest         = errors.New("illegal request")
	ErrValidation             = errors.New("validation failed")
	ErrConcurrentModification = errors.New("concurrent modification")
)

// kindError is a specific failure that belongs to one of the kinds above.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// NotFoundf returns an error matching ErrNotFound.
func NotFoundf(format string, args ...any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// IllegalRequestf returns an error matching ErrIllegalRequest.
func IllegalRequestf(format string, args ...any) error {
	return &kindError{kind: ErrIllegalRequest, msg: fmt.Sprintf(format, args...)}
}

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrCaseNotFound        = &kindError{kind: ErrNotFound, msg: "debt case not found"}
	ErrInstallmentNotFound = &kindError{kind: ErrNotFound, msg: "installment not found"}
	ErrPaymentNotFound     = &kindError{kind: ErrNotFound, msg: "payment not found"}
	ErrRuleNotFound        = &kindError{kind: ErrNotFound, msg: "transition rule not found"}

	ErrAmountNotPositive      = &kindError{kind: ErrIllegalRequest, msg: "amount must be greater than zero"}
	ErrAmountInvalidScale     = &kindError{kind: ErrIllegalRequest, msg: "amount must have at most two decimal places"}
	ErrStateRequired          = &kindError{kind: ErrIllegalRequest, msg: "case state is required"}
	ErrPlanAlreadyExists      = &kindError{kind: ErrIllegalRequest, msg: "debt case already has an installment plan"}
	ErrNoInstallmentPlan      = &kindError{kind: ErrIllegalRequest, msg: "debt case has no installment plan"}
	ErrCaseClosed             = &kindError{kind: ErrIllegalRequest, msg: "debt case is completed or already paid"}
	ErrInstallmentPaid        = &kindError{kind: ErrIllegalRequest, msg: "installment is already paid"}
	ErrPlanHasPaidInstallment = &kindError{kind: ErrIllegalRequest, msg: "installment plan has paid installments"}
	ErrEmptyInstallmentList   = &kindError{kind: ErrIllegalRequest, msg: "installment list is empty"}
	ErrDueDateInPast          = &kindError{kind: ErrIllegalRequest, msg: "due date cannot be in the past"}
	ErrDeadlineRequired       = &kindError{kind: ErrIllegalRequest, msg: "next deadline date is required"}
	ErrNothingToUpdate        = &kindError{kind: ErrIllegalRequest, msg: "at least one field must be provided"}
)

// ---------------------------------------------------------------------------
// ValidationError
// ---------------------------------------------------------------------------

// ValidationError reports the first broken case invariant.
type ValidationError struct {
	Code          string
	Message       string
	Field         string
	CurrentValue  any
	ExpectedValue any
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (field %s)", e.Code, e.Message, e.Field)
}

// Unwrap makes every ValidationError match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }
