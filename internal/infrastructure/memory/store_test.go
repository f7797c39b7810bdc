package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/port"
	"github.com/bibbank/collections/internal/domain/valueobject"
	"github.com/bibbank/collections/pkg/testutil"
)

func newCase(t *testing.T, name string, state valueobject.CaseState, owed string, deadlineDay *int) model.DebtCase {
	t.Helper()
	var deadline *time.Time
	if deadlineDay != nil {
		d := testutil.Day(*deadlineDay)
		deadline = &d
	}
	c, err := model.NewDebtCase(name, state, testutil.TestNow, testutil.Amount(owed), deadline, testutil.TestActor, testutil.TestNow)
	require.NoError(t, err)
	return c
}

func intPtr(n int) *int { return &n }

func TestCaseStoreSave(t *testing.T) {
	ctx := context.Background()
	store := NewCaseStore()

	c := newCase(t, testutil.TestDebtor, valueobject.CaseStateNoticeDue, "100.00", intPtr(5))
	saved, err := store.Save(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Version())
	assert.Empty(t, saved.DomainEvents())

	t.Run("inserting an existing id conflicts", func(t *testing.T) {
		_, err := store.Save(ctx, c)
		assert.ErrorIs(t, err, model.ErrConcurrentModification)
	})

	t.Run("stale revision conflicts", func(t *testing.T) {
		_, err := store.Save(ctx, saved.Rename("First", testutil.TestActor, testutil.TestNow))
		require.NoError(t, err)

		_, err = store.Save(ctx, saved.Rename("Second", testutil.TestActor, testutil.TestNow))
		assert.ErrorIs(t, err, model.ErrConcurrentModification)

		got, err := store.FindByID(ctx, c.ID())
		require.NoError(t, err)
		assert.Equal(t, "First", got.DebtorName())
		assert.Equal(t, 2, got.Version())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, c.ID()))
		ok, err := store.Exists(ctx, c.ID())
		require.NoError(t, err)
		assert.False(t, ok)
		assert.ErrorIs(t, store.Delete(ctx, c.ID()), model.ErrNotFound)
		_, err = store.FindByID(ctx, c.ID())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestCaseStoreSearch(t *testing.T) {
	ctx := context.Background()
	store := NewCaseStore()

	seed := []model.DebtCase{
		newCase(t, "Anna Bianchi", valueobject.CaseStateNoticeSent, "300.00", intPtr(3)),
		newCase(t, "Luca Rossi", valueobject.CaseStateNoticeSent, "500.00", nil),
		newCase(t, "Maria Rossi", valueobject.CaseStateSeizure, "100.00", intPtr(1)),
		newCase(t, "Paolo Rossi", valueobject.CaseStateCompleted, "900.00", nil),
	}
	for _, c := range seed {
		_, err := store.Save(ctx, c)
		require.NoError(t, err)
	}

	names := func(cases []model.DebtCase) []string {
		out := make([]string, len(cases))
		for i, c := range cases {
			out[i] = c.DebtorName()
		}
		return out
	}

	t.Run("debtor name ignores case", func(t *testing.T) {
		got, total, err := store.Search(ctx, port.CaseFilter{DebtorName: "rOSSi"}, port.PageRequest{Size: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, got, 3)
	})

	t.Run("amount bounds are inclusive", func(t *testing.T) {
		lo, hi := testutil.Amount("300.00"), testutil.Amount("500.00")
		got, _, err := store.Search(ctx, port.CaseFilter{MinAmount: &lo, MaxAmount: &hi},
			port.PageRequest{Size: 10, Sort: []port.Sort{{Field: port.SortOwedAmount}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Anna Bianchi", "Luca Rossi"}, names(got))
	})

	t.Run("missing deadlines sort last in both directions", func(t *testing.T) {
		asc, _, err := store.Search(ctx, port.CaseFilter{States: []valueobject.CaseState{valueobject.CaseStateNoticeSent, valueobject.CaseStateSeizure}},
			port.PageRequest{Size: 10, Sort: []port.Sort{{Field: port.SortNextDeadlineDate}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Maria Rossi", "Anna Bianchi", "Luca Rossi"}, names(asc))

		desc, _, err := store.Search(ctx, port.CaseFilter{States: []valueobject.CaseState{valueobject.CaseStateNoticeSent, valueobject.CaseStateSeizure}},
			port.PageRequest{Size: 10, Sort: []port.Sort{{Field: port.SortNextDeadlineDate, Descending: true}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Anna Bianchi", "Maria Rossi", "Luca Rossi"}, names(desc))
	})

	t.Run("deadline range excludes cases without one", func(t *testing.T) {
		from, to := testutil.Day(0), testutil.Day(2)
		got, total, err := store.Search(ctx, port.CaseFilter{NextDeadline: port.TimeRange{From: &from, To: &to}}, port.PageRequest{Size: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, []string{"Maria Rossi"}, names(got))
	})

	t.Run("pages past the end are empty", func(t *testing.T) {
		got, total, err := store.Search(ctx, port.CaseFilter{}, port.PageRequest{Page: 3, Size: 2})
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.Empty(t, got)
	})

	t.Run("overflowing offset is empty", func(t *testing.T) {
		got, total, err := store.Search(ctx, port.CaseFilter{}, port.PageRequest{Page: math.MaxInt, Size: 50})
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.Empty(t, got)
	})

	t.Run("list active skips completed", func(t *testing.T) {
		got, err := store.ListActive(ctx)
		require.NoError(t, err)
		assert.NotContains(t, names(got), "Paolo Rossi")
		assert.Len(t, got, 3)
	})
}

func TestRuleStore(t *testing.T) {
	ctx := context.Background()
	store := NewRuleStore()

	mk := func(from, to valueobject.CaseState, days int) model.TransitionRule {
		r, err := model.NewTransitionRule("rule-"+from.String(), from, to, days, testutil.TestNow)
		require.NoError(t, err)
		return r
	}
	require.NoError(t, store.SaveAll(ctx, []model.TransitionRule{
		mk(valueobject.CaseStateSeizure, valueobject.CaseStateCompleted, 30),
		mk(valueobject.CaseStateNoticeDue, valueobject.CaseStateNoticeSent, 7),
	}))

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, valueobject.CaseStateNoticeDue, all[0].FromState())

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, store.Save(ctx, mk(valueobject.CaseStateNoticeDue, valueobject.CaseStateNoticeSent, 12)))
	got, err := store.FindByState(ctx, valueobject.CaseStateNoticeDue)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Days())

	_, err = store.FindByState(ctx, valueobject.CaseStateNoticeSent)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
