package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/port"
	"github.com/bibbank/collections/internal/domain/valueobject"
)

// Compile-time interface check
var _ port.TransitionRuleRepository = (*RuleStore)(nil)

// RuleStore is an in-process TransitionRuleRepository keyed by the
// originating state.
type RuleStore struct {
	mu    sync.RWMutex
	rules map[valueobject.CaseState]model.TransitionRule
}

// NewRuleStore creates an empty store.
func NewRuleStore() *RuleStore {
	return &RuleStore{rules: make(map[valueobject.CaseState]model.TransitionRule)}
}

func (s *RuleStore) FindAll(_ context.Context) ([]model.TransitionRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.TransitionRule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b model.TransitionRule) int {
		return a.FromState().Ordinal() - b.FromState().Ordinal()
	})
	return out, nil
}

func (s *RuleStore) FindByState(_ context.Context, from valueobject.CaseState) (model.TransitionRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rules[from]
	if !ok {
		return model.TransitionRule{}, model.ErrRuleNotFound
	}
	return r, nil
}

func (s *RuleStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules), nil
}

func (s *RuleStore) Save(_ context.Context, rule model.TransitionRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[rule.FromState()] = rule
	return nil
}

// SaveAll replaces the listed rules under one lock.
func (s *RuleStore) SaveAll(_ context.Context, rules []model.TransitionRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rules {
		s.rules[r.FromState()] = r
	}
	return nil
}
