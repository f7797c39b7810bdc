//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/port"
	"github.com/bibbank/collections/internal/domain/valueobject"
	"github.com/bibbank/collections/internal/infrastructure/postgres"
	"github.com/bibbank/collections/pkg/testutil"
)

func TestCaseRepoIntegration(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Cleanup(t)
	pc.RunMigrations(t, "migrations")

	repo := postgres.NewCaseRepo(pc.Pool)

	newCase := func(t *testing.T, name string, state valueobject.CaseState) model.DebtCase {
		t.Helper()
		deadline := testutil.Day(10)
		c, err := model.NewDebtCase(name, state, testutil.TestNow, testutil.TestOwed1000, &deadline, testutil.TestActor, testutil.TestNow)
		require.NoError(t, err)
		return c
	}

	t.Run("round trips the aggregate", func(t *testing.T) {
		pc.Truncate(t, "debt_cases")

		c := newCase(t, testutil.TestDebtor, valueobject.CaseStateNoticeDue)
		c, err := c.CreateInstallmentPlan(2, testutil.Day(30), testutil.Amount("400.00"), 30, testutil.TestActor, testutil.TestNow)
		require.NoError(t, err)
		first, ok := c.FirstUnpaidInstallment()
		require.True(t, ok)
		c, _, err = c.RegisterInstallmentPayment(first.ID, testutil.Amount("400.00"), testutil.TestNow, testutil.TestActor, testutil.TestNow)
		require.NoError(t, err)

		saved, err := repo.Save(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, 1, saved.Version())
		assert.Empty(t, saved.DomainEvents())

		got, err := repo.FindByID(ctx, c.ID())
		require.NoError(t, err)
		assert.Equal(t, testutil.TestDebtor, got.DebtorName())
		assert.True(t, got.HasInstallmentPlan())
		require.Len(t, got.Installments(), 2)
		assert.True(t, got.Installments()[0].Paid)
		require.Len(t, got.Payments(), 1)
		assert.Equal(t, first.ID, got.Payments()[0].InstallmentID)
		testutil.AssertDecimalEqual(t, testutil.Amount("400.00"), got.TotalPaid())
	})

	t.Run("stale revision is rejected", func(t *testing.T) {
		pc.Truncate(t, "debt_cases")

		saved, err := repo.Save(ctx, newCase(t, testutil.TestDebtor, valueobject.CaseStateNoticeDue))
		require.NoError(t, err)

		_, err = repo.Save(ctx, saved.Rename("First", testutil.TestActor, testutil.TestNow))
		require.NoError(t, err)

		_, err = repo.Save(ctx, saved.Rename("Second", testutil.TestActor, testutil.TestNow))
		assert.ErrorIs(t, err, model.ErrConcurrentModification)
	})

	t.Run("missing case", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, uuid.NewString()), model.ErrNotFound)
	})

	t.Run("delete cascades", func(t *testing.T) {
		pc.Truncate(t, "debt_cases")

		c := newCase(t, testutil.TestDebtor, valueobject.CaseStateNoticeDue)
		c, _, err := c.RegisterPayment(testutil.Amount("10.00"), testutil.TestNow, testutil.TestActor, testutil.TestNow)
		require.NoError(t, err)
		_, err = repo.Save(ctx, c)
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, c.ID()))
		exists, err := repo.Exists(ctx, c.ID())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("search filters and pages", func(t *testing.T) {
		pc.Truncate(t, "debt_cases")

		for _, name := range []string{"Anna Bianchi", "Luca Rossi", "Maria Rossi"} {
			_, err := repo.Save(ctx, newCase(t, name, valueobject.CaseStateNoticeSent))
			require.NoError(t, err)
		}
		_, err := repo.Save(ctx, newCase(t, "Paolo Rossi", valueobject.CaseStateCompleted))
		require.NoError(t, err)

		page, total, err := repo.Search(ctx,
			port.CaseFilter{DebtorName: "ROSSI", States: []valueobject.CaseState{valueobject.CaseStateNoticeSent}},
			port.PageRequest{Page: 0, Size: 1, Sort: []port.Sort{{Field: port.SortDebtorName, Descending: true}}},
		)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, page, 1)
		assert.Equal(t, "Maria Rossi", page[0].DebtorName())

		active, err := repo.ListActive(ctx)
		require.NoError(t, err)
		assert.Len(t, active, 3)
	})
}

func TestRuleRepoIntegration(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Cleanup(t)
	pc.RunMigrations(t, "migrations")

	repo := postgres.NewRuleRepo(pc.Pool)

	rule, err := model.NewTransitionRule(uuid.NewString(), valueobject.CaseStateNoticeDue, valueobject.CaseStateNoticeSent, 7, testutil.TestNow)
	require.NoError(t, err)
	require.NoError(t, repo.SaveAll(ctx, []model.TransitionRule{rule}))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	updated, err := rule.WithDays(12, testutil.TestNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, updated))

	got, err := repo.FindByState(ctx, valueobject.CaseStateNoticeDue)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Days())

	_, err = repo.FindByState(ctx, valueobject.CaseStateSeizure)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
