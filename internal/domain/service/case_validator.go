package service

import (
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/pkg/money"
)

// Validation error codes reported in model.ValidationError.Code.
const (
	CodeDebtorNameTooShort            = "DEBTOR_NAME_TOO_SHORT"
	CodeDebtorNameTooLong             = "DEBTOR_NAME_TOO_LONG"
	CodeAmountNotPositive             = "AMOUNT_NOT_POSITIVE"
	CodeAmountInvalidScale            = "AMOUNT_INVALID_SCALE"
	CodeInstallmentPlanFlagMismatch   = "INSTALLMENT_PLAN_FLAG_MISMATCH"
	CodeInstallmentPaidWithoutPayment = "INSTALLMENT_PAID_WITHOUT_PAYMENT"
	CodeDebtCasePaidWithoutPayments   = "DEBT_CASE_PAID_WITHOUT_PAYMENTS"
	CodeDebtCasePaidInsufficient      = "DEBT_CASE_PAID_INSUFFICIENT_PAYMENTS"
	CodeInvalidDeadlineDate           = "INVALID_DEADLINE_DATE"
	CodeClosedCaseWithNegotiations    = "CLOSED_CASE_WITH_NEGOTIATIONS"
	CodeInstallmentsExceedOwedAmount  = "INSTALLMENTS_EXCEED_OWED_AMOUNT"
	CodeInstallmentAmountInvalid      = "INSTALLMENT_AMOUNT_INVALID"
)

const (
	minDebtorNameLength = 2
	maxDebtorNameLength = 255
)

// ---------------------------------------------------------------------------
// CaseValidator – domain service guarding every persisted write
// ---------------------------------------------------------------------------

// CaseValidator checks the business invariants of a DebtCase.
type CaseValidator struct {
	checks []func(model.DebtCase) *model.ValidationError
}

// NewCaseValidator returns a validator running the checks in their fixed order.
func NewCaseValidator() *CaseValidator {
	return &CaseValidator{checks: []func(model.DebtCase) *model.ValidationError{
		checkDebtorName,
		checkOwedAmount,
		checkPlanFlag,
		checkPaidInstallments,
		checkPaidCase,
		checkNegotiationDeadline,
		checkClosedNegotiations,
		checkInstallmentsTotal,
		checkInstallmentAmounts,
		checkEntryScale,
	}}
}

// Validate returns the first violated invariant as a *model.ValidationError,
// or nil.
func (v *CaseValidator) Validate(c model.DebtCase) error {
	for _, check := range v.checks {
		if verr := check(c); verr != nil {
			return verr
		}
	}
	return nil
}

func checkDebtorName(c model.DebtCase) *model.ValidationError {
	n := utf8.RuneCountInString(c.DebtorName())
	switch {
	case n < minDebtorNameLength:
		return &model.ValidationError{
			Code:          CodeDebtorNameTooShort,
			Message:       fmt.Sprintf("Debtor name must be at least %d characters long", minDebtorNameLength),
			Field:         "debtorName",
			CurrentValue:  n,
			ExpectedValue: minDebtorNameLength,
		}
	case n > maxDebtorNameLength:
		return &model.ValidationError{
			Code:          CodeDebtorNameTooLong,
			Message:       fmt.Sprintf("Debtor name cannot exceed %d characters", maxDebtorNameLength),
			Field:         "debtorName",
			CurrentValue:  n,
			ExpectedValue: maxDebtorNameLength,
		}
	}
	return nil
}

func checkOwedAmount(c model.DebtCase) *model.ValidationError {
	owed := c.OwedAmount()
	if !owed.IsPositive() {
		return &model.ValidationError{
			Code:          CodeAmountNotPositive,
			Message:       "Owed amount must be greater than zero",
			Field:         "owedAmount",
			CurrentValue:  owed.String(),
			ExpectedValue: "positive value",
		}
	}
	if !money.HasValidScale(owed) {
		return &model.ValidationError{
			Code:          CodeAmountInvalidScale,
			Message:       fmt.Sprintf("Owed amount must have at most %d decimal places", money.Scale),
			Field:         "owedAmount",
			CurrentValue:  owed.String(),
			ExpectedValue: money.Scale,
		}
	}
	return nil
}

func checkPlanFlag(c model.DebtCase) *model.ValidationError {
	has := len(c.Installments()) > 0
	switch {
	case c.HasInstallmentPlan() && !has:
		return &model.ValidationError{
			Code:    CodeInstallmentPlanFlagMismatch,
			Message: "Debt case marked as having installment plan but no installments found",
			Field:   "hasInstallmentPlan",
		}
	case !c.HasInstallmentPlan() && has:
		return &model.ValidationError{
			Code:    CodeInstallmentPlanFlagMismatch,
			Message: "Debt case marked as not having installment plan but installments found",
			Field:   "hasInstallmentPlan",
		}
	}
	return nil
}

func checkPaidInstallments(c model.DebtCase) *model.ValidationError {
	settled := make(map[string]struct{})
	for _, p := range c.Payments() {
		if !p.IsCaseLevel() {
			settled[p.InstallmentID] = struct{}{}
		}
	}
	for i, inst := range c.Installments() {
		if !inst.Paid {
			continue
		}
		if _, ok := settled[inst.ID]; !ok {
			return &model.ValidationError{
				Code:          CodeInstallmentPaidWithoutPayment,
				Message:       fmt.Sprintf("Installment #%d is marked as paid but has no payment", inst.Number),
				Field:         fmt.Sprintf("installments[%d].paid", i),
				CurrentValue:  true,
				ExpectedValue: "requires payment",
			}
		}
	}
	return nil
}

func checkPaidCase(c model.DebtCase) *model.ValidationError {
	if !c.Paid() {
		return nil
	}
	if len(c.Payments()) == 0 {
		return &model.ValidationError{
			Code:    CodeDebtCasePaidWithoutPayments,
			Message: "Debt case marked as paid but has no payments",
			Field:   "paid",
		}
	}
	total := c.TotalPaid()
	if !money.Covers(total, c.OwedAmount()) {
		msg := fmt.Sprintf("Debt case marked as paid but total payments (%s) is less than owed amount (%s)",
			money.Format(total), money.Format(c.OwedAmount()))
		return &model.ValidationError{
			Code:          CodeDebtCasePaidInsufficient,
			Message:       msg,
			Field:         "paid",
			CurrentValue:  money.Format(total),
			ExpectedValue: money.Format(c.OwedAmount()),
		}
	}
	return nil
}

func checkNegotiationDeadline(c model.DebtCase) *model.ValidationError {
	deadline := c.NextDeadlineDate()
	if !c.OngoingNegotiations() || deadline == nil || c.CurrentStateDate().IsZero() {
		return nil
	}
	if deadline.Before(c.CurrentStateDate()) {
		return &model.ValidationError{
			Code:          CodeInvalidDeadlineDate,
			Message:       "Next deadline date cannot be before current state date when ongoing negotiations are active",
			Field:         "nextDeadlineDate",
			CurrentValue:  *deadline,
			ExpectedValue: c.CurrentStateDate(),
		}
	}
	return nil
}

func checkClosedNegotiations(c model.DebtCase) *model.ValidationError {
	if c.CurrentState().IsTerminal() && c.OngoingNegotiations() {
		return &model.ValidationError{
			Code:    CodeClosedCaseWithNegotiations,
			Message: "Cannot have ongoing negotiations when case is completed",
			Field:   "ongoingNegotiations",
		}
	}
	return nil
}

func checkInstallmentsTotal(c model.DebtCase) *model.ValidationError {
	total := c.InstallmentsTotal()
	if total.GreaterThan(c.OwedAmount()) {
		msg := fmt.Sprintf("Total installments amount (%s) cannot exceed owed amount (%s)",
			money.Format(total), money.Format(c.OwedAmount()))
		return &model.ValidationError{
			Code:          CodeInstallmentsExceedOwedAmount,
			Message:       msg,
			Field:         "installments",
			CurrentValue:  money.Format(total),
			ExpectedValue: money.Format(c.OwedAmount()),
		}
	}
	return nil
}

func checkInstallmentAmounts(c model.DebtCase) *model.ValidationError {
	for i, inst := range c.Installments() {
		if inst.Amount.LessThanOrEqual(decimal.Zero) {
			return &model.ValidationError{
				Code:          CodeInstallmentAmountInvalid,
				Message:       fmt.Sprintf("Installment #%d must have a positive amount", i+1),
				Field:         fmt.Sprintf("installments[%d].amount", i),
				CurrentValue:  inst.Amount.String(),
				ExpectedValue: "positive value",
			}
		}
	}
	return nil
}

// checkEntryScale holds installment and payment amounts to currency scale.
func checkEntryScale(c model.DebtCase) *model.ValidationError {
	for i, inst := range c.Installments() {
		if !money.HasValidScale(inst.Amount) {
			return scaleError(fmt.Sprintf("installments[%d].amount", i), inst.Amount)
		}
	}
	for i, p := range c.Payments() {
		if !money.HasValidScale(p.Amount) {
			return scaleError(fmt.Sprintf("payments[%d].amount", i), p.Amount)
		}
	}
	return nil
}

func scaleError(field string, amount decimal.Decimal) *model.ValidationError {
	return &model.ValidationError{
		Code:          CodeAmountInvalidScale,
		Message:       fmt.Sprintf("Amount must have at most %d decimal places", money.Scale),
		Field:         field,
		CurrentValue:  amount.String(),
		ExpectedValue: money.Scale,
	}
}
