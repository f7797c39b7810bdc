package memory

import (
	"cmp"
	"strings"
	"time"

	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/port"
)

// matches evaluates every set predicate of f against c.
func matches(c model.DebtCase, f port.CaseFilter) bool {
	if f.DebtorName != "" && !containsFold(c.DebtorName(), f.DebtorName) {
		return false
	}
	if len(f.States) > 0 {
		found := false
		for _, s := range f.States {
			if s == c.CurrentState() {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MinAmount != nil && c.OwedAmount().LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && c.OwedAmount().GreaterThan(*f.MaxAmount) {
		return false
	}
	if f.HasInstallmentPlan != nil && c.HasInstallmentPlan() != *f.HasInstallmentPlan {
		return false
	}
	if f.Paid != nil && c.Paid() != *f.Paid {
		return false
	}
	if f.OngoingNegotiations != nil && c.OngoingNegotiations() != *f.OngoingNegotiations {
		return false
	}
	if f.Notes != "" {
		notes := c.Notes()
		if notes == nil || !containsFold(*notes, f.Notes) {
			return false
		}
	}
	if !inRange(c.NextDeadlineDate(), f.NextDeadline) {
		return false
	}
	stateDate, created, modified := c.CurrentStateDate(), c.CreatedDate(), c.LastModifiedDate()
	return inRange(&stateDate, f.CurrentStateDate) &&
		inRange(&created, f.CreatedDate) &&
		inRange(&modified, f.LastModifiedDate)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// inRange reports whether t lies in the half-open range r. A missing value
// only matches an unconstrained range.
func inRange(t *time.Time, r port.TimeRange) bool {
	if r.IsZero() {
		return true
	}
	if t == nil {
		return false
	}
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && !t.Before(*r.To) {
		return false
	}
	return true
}

// compareBy orders cases by sorts with missing values last, then by id.
func compareBy(sorts []port.Sort) func(a, b model.DebtCase) int {
	return func(a, b model.DebtCase) int {
		for _, s := range sorts {
			n, decided := compareField(a, b, s.Field)
			if decided {
				return n
			}
			if n != 0 {
				if s.Descending {
					n = -n
				}
				return n
			}
		}
		return cmp.Compare(a.ID(), b.ID())
	}
}

// compareField compares one attribute. decided is true when exactly one side
// lacks the value; the result then puts that side last regardless of the
// sort direction.
func compareField(a, b model.DebtCase, field port.SortField) (n int, decided bool) {
	switch field {
	case port.SortNextDeadlineDate:
		x, y := a.NextDeadlineDate(), b.NextDeadlineDate()
		switch {
		case x == nil && y == nil:
			return 0, false
		case x == nil:
			return 1, true
		case y == nil:
			return -1, true
		}
		return x.Compare(*y), false
	case port.SortCurrentStateDate:
		return a.CurrentStateDate().Compare(b.CurrentStateDate()), false
	case port.SortCreatedDate:
		return a.CreatedDate().Compare(b.CreatedDate()), false
	case port.SortLastModifiedDate:
		return a.LastModifiedDate().Compare(b.LastModifiedDate()), false
	case port.SortOwedAmount:
		return a.OwedAmount().Cmp(b.OwedAmount()), false
	case port.SortDebtorName:
		return cmp.Compare(a.DebtorName(), b.DebtorName()), false
	case port.SortCurrentState:
		return cmp.Compare(a.CurrentState().String(), b.CurrentState().String()), false
	}
	return 0, false
}
