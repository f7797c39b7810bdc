package valueobject

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// CaseState – immutable value object
// ---------------------------------------------------------------------------

// CaseState is the lifecycle stage of a debt-collection case. The stages
// follow the legal procedure from formal notice to enforcement; COMPLETED is
// the only terminal stage.
type CaseState struct {
	value string
}

const (
	caseStateNoticeDue         = "NOTICE_DUE"
	caseStateNoticeSent        = "NOTICE_SENT"
	caseStatePetitionFiled     = "PETITION_FILED"
	caseStateInjunctionToServe = "INJUNCTION_TO_SERVE"
	caseStateInjunctionServed  = "INJUNCTION_SERVED"
	caseStateObjectionPending  = "OBJECTION_PENDING"
	caseStateSeizure           = "SEIZURE"
	caseStateWritOfExecution   = "WRIT_OF_EXECUTION"
	caseStateCompleted         = "COMPLETED"
)

var (
	CaseStateNoticeDue         = CaseState{value: caseStateNoticeDue}
	CaseStateNoticeSent        = CaseState{value: caseStateNoticeSent}
	CaseStatePetitionFiled     = CaseState{value: caseStatePetitionFiled}
	CaseStateInjunctionToServe = CaseState{value: caseStateInjunctionToServe}
	CaseStateInjunctionServed  = CaseState{value: caseStateInjunctionServed}
	CaseStateObjectionPending  = CaseState{value: caseStateObjectionPending}
	CaseStateSeizure           = CaseState{value: caseStateSeizure}
	CaseStateWritOfExecution   = CaseState{value: caseStateWritOfExecution}
	CaseStateCompleted         = CaseState{value: caseStateCompleted}
)

// lifecycle lists every state in procedural order.
var lifecycle = []CaseState{
	CaseStateNoticeDue,
	CaseStateNoticeSent,
	CaseStatePetitionFiled,
	CaseStateInjunctionToServe,
	CaseStateInjunctionServed,
	CaseStateObjectionPending,
	CaseStateSeizure,
	CaseStateWritOfExecution,
	CaseStateCompleted,
}

var validCaseStates = func() map[string]CaseState {
	m := make(map[string]CaseState, len(lifecycle))
	for _, s := range lifecycle {
		m[s.value] = s
	}
	return m
}()

// NewCaseState parses a state name. Matching is case-insensitive.
func NewCaseState(s string) (CaseState, error) {
	v, ok := validCaseStates[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return CaseState{}, fmt.Errorf("invalid case state: %q", s)
	}
	return v, nil
}

// MustCaseState is NewCaseState for constants known to be valid.
func MustCaseState(s string) CaseState {
	v, err := NewCaseState(s)
	if err != nil {
		panic(err)
	}
	return v
}

// AllCaseStates returns every state in lifecycle order.
func AllCaseStates() []CaseState {
	out := make([]CaseState, len(lifecycle))
	copy(out, lifecycle)
	return out
}

// String returns the wire name of the state.
func (s CaseState) String() string { return s.value }

// IsZero returns true if the state has not been initialised.
func (s CaseState) IsZero() bool { return s.value == "" }

// Equal returns true when both states carry the same value.
func (s CaseState) Equal(other CaseState) bool { return s.value == other.value }

// IsTerminal reports whether no further deadline applies.
func (s CaseState) IsTerminal() bool { return s.value == caseStateCompleted }

// Ordinal is the position of the state in the lifecycle, or -1 when unset.
func (s CaseState) Ordinal() int {
	for i, v := range lifecycle {
		if v.value == s.value {
			return i
		}
	}
	return -1
}

// Next returns the state that follows s in the lifecycle. The terminal
// state has no successor.
func (s CaseState) Next() (CaseState, bool) {
	i := s.Ordinal()
	if i < 0 || i+1 >= len(lifecycle) {
		return CaseState{}, false
	}
	return lifecycle[i+1], true
}
