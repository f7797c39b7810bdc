package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/event"
	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/valueobject"
	"github.com/bibbank/collections/pkg/testutil"
)

func TestRegisterPayment_Execute(t *testing.T) {
	t.Run("full payment completes the case", func(t *testing.T) {
		f := newFixture(t)
		c := f.openCase(t, "1000.00")

		resp, err := f.svc.RegisterPayment.Execute(operatorCtx(), dto.RegisterPaymentRequest{
			CaseID: c.ID(),
			Amount: testutil.Amount("1000.00"),
		})
		require.NoError(t, err)
		assert.Equal(t, c.ID(), resp.CaseID)
		assert.Equal(t, testutil.TestToday, resp.PaymentDate)
		assert.Empty(t, resp.InstallmentID)

		stored := f.cases.get(t, c.ID())
		assert.Equal(t, valueobject.CaseStateCompleted, stored.CurrentState())
		assert.True(t, stored.Paid())
		assert.Nil(t, stored.NextDeadlineDate())
		require.NotNil(t, stored.Notes())
		assert.Equal(t, model.NoteCompletedByPayment, *stored.Notes())
		assert.Equal(t, 1, f.metrics.completions)
		require.Len(t, f.metrics.payments, 1)
		assert.Contains(t, f.publisher.types(), "collections.debt_case.completed")
	})

	t.Run("partial payment keeps the case open", func(t *testing.T) {
		f := newFixture(t)
		c := f.openCase(t, "1000.00")
		date := testutil.Day(-2)

		resp, err := f.svc.RegisterPayment.Execute(operatorCtx(), dto.RegisterPaymentRequest{
			CaseID:      c.ID(),
			Amount:      testutil.Amount("400.00"),
			PaymentDate: &date,
		})
		require.NoError(t, err)
		assert.Equal(t, date, resp.PaymentDate)

		stored := f.cases.get(t, c.ID())
		assert.Equal(t, valueobject.CaseStateNoticeDue, stored.CurrentState())
		assert.False(t, stored.Paid())
		assert.Zero(t, f.metrics.completions)
	})

	t.Run("overpayment is tolerated", func(t *testing.T) {
		f := newFixture(t)
		c := f.openCase(t, "1000.00")

		_, err := f.svc.RegisterPayment.Execute(operatorCtx(), dto.RegisterPaymentRequest{CaseID: c.ID(), Amount: testutil.Amount("1200.00")})
		require.NoError(t, err)

		stored := f.cases.get(t, c.ID())
		assert.True(t, stored.Paid())
		assert.Equal(t, valueobject.CaseStateCompleted, stored.CurrentState())
	})

	t.Run("completion happens once", func(t *testing.T) {
		f := newFixture(t)
		c := f.openCase(t, "1000.00")
		for _, amount := range []string{"1000.00", "50.00"} {
			_, err := f.svc.RegisterPayment.Execute(operatorCtx(), dto.RegisterPaymentRequest{CaseID: c.ID(), Amount: testutil.Amount(amount)})
			require.NoError(t, err)
		}

		stored := f.cases.get(t, c.ID())
		assert.Equal(t, valueobject.CaseStateCompleted, stored.CurrentState())
		assert.True(t, stored.Paid())
		assert.Len(t, stored.Payments(), 2)
		assert.Equal(t, 1, f.metrics.completions)
	})

	t.Run("non-positive amount fails before the store is touched", func(t *testing.T) {
		f := newFixture(t)
		c := f.openCase(t, "1000.00")

		_, err := f.svc.RegisterPayment.Execute(operatorCtx(), dto.RegisterPaymentRequest{CaseID: c.ID(), Amount: testutil.Amount("0")})

		assert.ErrorIs(t, err, model.ErrIllegalRequest)
		assert.Zero(t, f.cases.saveCalls)
		assert.Empty(t, f.cases.get(t, c.ID()).Payments())
	})

	t.Run("publish failure does not fail the payment", func(t *testing.T) {
		f := newFixture(t)
		c := f.openCase(t, "1000.00")
		f.publisher.publishFunc = func(context.Context, ...event.DomainEvent) error {
			return errors.New("broker unavailable")
		}

		_, err := f.svc.RegisterPayment.Execute(operatorCtx(), dto.RegisterPaymentRequest{CaseID: c.ID(), Amount: testutil.Amount("100.00")})

		require.NoError(t, err)
		assert.Len(t, f.cases.get(t, c.ID()).Payments(), 1)
	})
}

func TestListPayments_Execute(t *testing.T) {
	f := newFixture(t)
	c := f.openCase(t, "1000.00")
	late, early := testutil.Day(-1), testutil.Day(-5)
	for _, d := range []*time.Time{&late, &early} {
		_, err := f.svc.RegisterPayment.Execute(operatorCtx(), dto.RegisterPaymentRequest{
			CaseID: c.ID(), Amount: testutil.Amount("10.00"), PaymentDate: d,
		})
		require.NoError(t, err)
	}

	payments, err := f.svc.ListPayments.Execute(operatorCtx(), dto.ListPaymentsRequest{CaseID: c.ID()})

	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, early, payments[0].PaymentDate)
	assert.Equal(t, late, payments[1].PaymentDate)
}

func TestUpdatePayment_Execute(t *testing.T) {
	t.Run("raising the amount completes the case", func(t *testing.T) {
		f := newFixture(t)
		c := f.openCase(t, "1000.00")
		p, err := f.svc.RegisterPayment.Execute(operatorCtx(), dto.RegisterPaymentRequest{CaseID: c.ID(), Amount: testutil.Amount("600.00")})
		require.NoError(t, err)
		amount := testutil.Amount("1000.00")

		resp, err := f.svc.UpdatePayment.Execute(operatorCtx(), dto.UpdatePaymentRequest{
			CaseID: c.ID(), PaymentID: p.ID, Amount: &amount,
		})
		require.NoError(t, err)
		assert.True(t, amount.Equal(resp.Amount))

		stored := f.cases.get(t, c.ID())
		assert.Equal(t, valueobject.CaseStateCompleted, stored.CurrentState())
		require.NotNil(t, stored.Notes())
		assert.Equal(t, model.NoteCompletedByPaymentUpdate, *stored.Notes())
	})

	t.Run("propagates to the settled installment", func(t *testing.T) {
		f := newFixture(t)
		c := f.openCase(t, "1000.00")
		plan := createPlan(t, f, c.ID(), 2, "500.00")
		_, err := f.svc.RegisterInstallmentPayment.Execute(operatorCtx(), dto.RegisterInstallmentPaymentRequest{
			CaseID: c.ID(), InstallmentID: plan.Installments[0].ID, Amount: testutil.Amount("500.00"),
		})
		require.NoError(t, err)
		paymentID := f.cases.get(t, c.ID()).Payments()[0].ID
		amount := testutil.Amount("450.00")

		_, err = f.svc.UpdatePayment.Execute(operatorCtx(), dto.UpdatePaymentRequest{CaseID: c.ID(), PaymentID: paymentID, Amount: &amount})
		require.NoError(t, err)

		inst, ok := f.cases.get(t, c.ID()).Installment(plan.Installments[0].ID)
		require.True(t, ok)
		require.NotNil(t, inst.PaidAmount)
		assert.True(t, amount.Equal(*inst.PaidAmount))
	})

	t.Run("requires a field", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UpdatePayment.Execute(operatorCtx(), dto.UpdatePaymentRequest{CaseID: "c", PaymentID: "p"})
		assert.ErrorIs(t, err, model.ErrNothingToUpdate)
	})

	t.Run("unknown payment", func(t *testing.T) {
		f := newFixture(t)
		c := f.openCase(t, "1000.00")
		amount := testutil.Amount("1.00")
		_, err := f.svc.UpdatePayment.Execute(operatorCtx(), dto.UpdatePaymentRequest{CaseID: c.ID(), PaymentID: "missing", Amount: &amount})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestDeletePayment_Execute(t *testing.T) {
	t.Run("reverses the installment and its deadline", func(t *testing.T) {
		f := newFixture(t)
		c := f.openCase(t, "1000.00")
		plan := createPlan(t, f, c.ID(), 2, "500.00")
		first := plan.Installments[0]
		_, err := f.svc.RegisterInstallmentPayment.Execute(operatorCtx(), dto.RegisterInstallmentPaymentRequest{
			CaseID: c.ID(), InstallmentID: first.ID, Amount: testutil.Amount("500.00"),
		})
		require.NoError(t, err)
		paymentID := f.cases.get(t, c.ID()).Payments()[0].ID

		require.NoError(t, f.svc.DeletePayment.Execute(operatorCtx(), dto.DeletePaymentRequest{CaseID: c.ID(), PaymentID: paymentID}))

		stored := f.cases.get(t, c.ID())
		inst, _ := stored.Installment(first.ID)
		assert.False(t, inst.Paid)
		assert.Nil(t, inst.PaidAmount)
		assert.Empty(t, stored.Payments())
		require.NotNil(t, stored.NextDeadlineDate())
		assert.Equal(t, first.DueDate, *stored.NextDeadlineDate())
	})

	t.Run("recomputes the paid flag", func(t *testing.T) {
		f := newFixture(t)
		c := f.openCase(t, "1000.00")
		p, err := f.svc.RegisterPayment.Execute(operatorCtx(), dto.RegisterPaymentRequest{CaseID: c.ID(), Amount: testutil.Amount("1000.00")})
		require.NoError(t, err)
		require.True(t, f.cases.get(t, c.ID()).Paid())

		require.NoError(t, f.svc.DeletePayment.Execute(operatorCtx(), dto.DeletePaymentRequest{CaseID: c.ID(), PaymentID: p.ID}))

		stored := f.cases.get(t, c.ID())
		assert.False(t, stored.Paid())
		assert.Equal(t, valueobject.CaseStateCompleted, stored.CurrentState())
	})
}
