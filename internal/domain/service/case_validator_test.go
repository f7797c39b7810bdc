package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/service"
	"github.com/bibbank/collections/internal/domain/valueobject"
	"github.com/bibbank/collections/pkg/testutil"
)

func record(mut func(r *model.DebtCaseRecord)) model.DebtCase {
	deadline := testutil.Day(5)
	r := model.DebtCaseRecord{
		ID:               testutil.TestCaseID,
		DebtorName:       testutil.TestDebtor,
		OwedAmount:       testutil.Amount("1000.00"),
		CurrentState:     valueobject.CaseStateNoticeDue,
		CurrentStateDate: testutil.TestNow,
		NextDeadlineDate: &deadline,
	}
	if mut != nil {
		mut(&r)
	}
	return model.ReconstructDebtCase(r)
}

func installment(id string, amount string, paid bool) model.Installment {
	return model.Installment{ID: id, Number: 1, Amount: testutil.Amount(amount), DueDate: testutil.Day(10), Paid: paid}
}

func payment(amount, installmentID string) model.Payment {
	return model.Payment{ID: "p-" + amount, Amount: testutil.Amount(amount), PaymentDate: testutil.TestToday, InstallmentID: installmentID}
}

func TestCaseValidator_Valid(t *testing.T) {
	v := service.NewCaseValidator()
	require.NoError(t, v.Validate(record(nil)))
}

func TestCaseValidator_Violations(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(r *model.DebtCaseRecord)
		code  string
		field string
	}{
		{
			name:  "name too short",
			mut:   func(r *model.DebtCaseRecord) { r.DebtorName = "A" },
			code:  service.CodeDebtorNameTooShort,
			field: "debtorName",
		},
		{
			name:  "name too long",
			mut:   func(r *model.DebtCaseRecord) { r.DebtorName = strings.Repeat("è", 256) },
			code:  service.CodeDebtorNameTooLong,
			field: "debtorName",
		},
		{
			name:  "owed amount zero",
			mut:   func(r *model.DebtCaseRecord) { r.OwedAmount = testutil.Amount("0") },
			code:  service.CodeAmountNotPositive,
			field: "owedAmount",
		},
		{
			name:  "owed amount scale",
			mut:   func(r *model.DebtCaseRecord) { r.OwedAmount = testutil.Amount("10.005") },
			code:  service.CodeAmountInvalidScale,
			field: "owedAmount",
		},
		{
			name:  "plan flag without installments",
			mut:   func(r *model.DebtCaseRecord) { r.HasInstallmentPlan = true },
			code:  service.CodeInstallmentPlanFlagMismatch,
			field: "hasInstallmentPlan",
		},
		{
			name: "installments without plan flag",
			mut: func(r *model.DebtCaseRecord) {
				r.Installments = []model.Installment{installment("i1", "10", false)}
			},
			code:  service.CodeInstallmentPlanFlagMismatch,
			field: "hasInstallmentPlan",
		},
		{
			name: "paid installment without payment",
			mut: func(r *model.DebtCaseRecord) {
				r.HasInstallmentPlan = true
				r.Installments = []model.Installment{installment("i1", "10", false), installment("i2", "10", true)}
				r.Payments = []model.Payment{payment("10", "")}
			},
			code:  service.CodeInstallmentPaidWithoutPayment,
			field: "installments[1].paid",
		},
		{
			name:  "paid case without payments",
			mut:   func(r *model.DebtCaseRecord) { r.Paid = true },
			code:  service.CodeDebtCasePaidWithoutPayments,
			field: "paid",
		},
		{
			name: "paid case with insufficient payments",
			mut: func(r *model.DebtCaseRecord) {
				r.Paid = true
				r.Payments = []model.Payment{payment("999.99", "")}
			},
			code:  service.CodeDebtCasePaidInsufficient,
			field: "paid",
		},
		{
			name: "deadline before state date during negotiations",
			mut: func(r *model.DebtCaseRecord) {
				past := testutil.Day(-1)
				r.OngoingNegotiations = true
				r.NextDeadlineDate = &past
			},
			code:  service.CodeInvalidDeadlineDate,
			field: "nextDeadlineDate",
		},
		{
			name: "negotiations on completed case",
			mut: func(r *model.DebtCaseRecord) {
				r.CurrentState = valueobject.CaseStateCompleted
				r.NextDeadlineDate = nil
				r.OngoingNegotiations = true
			},
			code:  service.CodeClosedCaseWithNegotiations,
			field: "ongoingNegotiations",
		},
		{
			name: "installments exceed owed amount",
			mut: func(r *model.DebtCaseRecord) {
				r.HasInstallmentPlan = true
				r.Installments = []model.Installment{installment("i1", "600", false), installment("i2", "400.01", false)}
			},
			code:  service.CodeInstallmentsExceedOwedAmount,
			field: "installments",
		},
		{
			name: "non-positive installment",
			mut: func(r *model.DebtCaseRecord) {
				r.HasInstallmentPlan = true
				r.Installments = []model.Installment{installment("i1", "100", false), installment("i2", "0", false)}
			},
			code:  service.CodeInstallmentAmountInvalid,
			field: "installments[1].amount",
		},
		{
			name: "installment amount scale",
			mut: func(r *model.DebtCaseRecord) {
				r.HasInstallmentPlan = true
				r.Installments = []model.Installment{installment("i1", "100", false), installment("i2", "33.335", false)}
			},
			code:  service.CodeAmountInvalidScale,
			field: "installments[1].amount",
		},
		{
			name: "payment amount scale",
			mut: func(r *model.DebtCaseRecord) {
				r.Payments = []model.Payment{payment("10.00", ""), payment("3.334", "")}
			},
			code:  service.CodeAmountInvalidScale,
			field: "payments[1].amount",
		},
	}

	v := service.NewCaseValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(record(tt.mut))
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrValidation)

			var verr *model.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.code, verr.Code)
			assert.Equal(t, tt.field, verr.Field)
			assert.NotEmpty(t, verr.Message)
		})
	}
}

func TestCaseValidator_StopsAtFirstFailure(t *testing.T) {
	c := record(func(r *model.DebtCaseRecord) {
		r.DebtorName = "A"
		r.OwedAmount = testutil.Amount("-1")
		r.Paid = true
	})
	var verr *model.ValidationError
	require.ErrorAs(t, service.NewCaseValidator().Validate(c), &verr)
	assert.Equal(t, service.CodeDebtorNameTooShort, verr.Code)
	assert.Equal(t, 1, verr.CurrentValue)
	assert.Equal(t, 2, verr.ExpectedValue)
}

func TestCaseValidator_NameLengthCountsRunes(t *testing.T) {
	c := record(func(r *model.DebtCaseRecord) { r.DebtorName = strings.Repeat("è", 255) })
	assert.NoError(t, service.NewCaseValidator().Validate(c))
}

func TestCaseValidator_OverpaymentIsTolerated(t *testing.T) {
	c := record(func(r *model.DebtCaseRecord) {
		r.Paid = true
		r.Payments = []model.Payment{payment("1500", "")}
	})
	assert.NoError(t, service.NewCaseValidator().Validate(c))
}
