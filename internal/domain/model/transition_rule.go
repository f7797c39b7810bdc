package model

import (
	"time"

	"github.com/bibbank/collections/internal/domain/valueobject"
)

// FallbackTransitionDays is the deadline offset used for a state without a
// configured rule.
const FallbackTransitionDays = 10

// TransitionRule is the configured number of days a case is expected to
// spend in FromState before reaching ToState.
type TransitionRule struct {
	id        string
	fromState valueobject.CaseState
	toState   valueobject.CaseState
	days      int
	createdAt time.Time
	updatedAt time.Time
}

// NewTransitionRule creates a rule. days must be positive.
func NewTransitionRule(id string, from, to valueobject.CaseState, days int, now time.Time) (TransitionRule, error) {
	if from.IsZero() || to.IsZero() {
		return TransitionRule{}, ErrStateRequired
	}
	if days <= 0 {
		return TransitionRule{}, IllegalRequestf("days to transition for %s must be positive, got %d", from, days)
	}
	return TransitionRule{id: id, fromState: from, toState: to, days: days, createdAt: now, updatedAt: now}, nil
}

// ReconstructTransitionRule rebuilds a rule from persistence.
func ReconstructTransitionRule(id string, from, to valueobject.CaseState, days int, createdAt, updatedAt time.Time) TransitionRule {
	return TransitionRule{id: id, fromState: from, toState: to, days: days, createdAt: createdAt, updatedAt: updatedAt}
}

// WithDays returns a copy with a new offset.
func (r TransitionRule) WithDays(days int, now time.Time) (TransitionRule, error) {
	if days <= 0 {
		return r, IllegalRequestf("days to transition for %s must be positive, got %d", r.fromState, days)
	}
	next := r
	next.days = days
	next.updatedAt = now
	return next, nil
}

// Deadline projects the deadline for a case that entered FromState at entered.
func (r TransitionRule) Deadline(entered time.Time) time.Time {
	return StartOfDay(entered).AddDate(0, 0, r.days)
}

func (r TransitionRule) ID() string                       { return r.id }
func (r TransitionRule) FromState() valueobject.CaseState { return r.fromState }
func (r TransitionRule) ToState() valueobject.CaseState   { return r.toState }
func (r TransitionRule) Days() int                        { return r.days }
func (r TransitionRule) CreatedAt() time.Time             { return r.createdAt }
func (r TransitionRule) UpdatedAt() time.Time             { return r.updatedAt }
