package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/port"
)

// Compile-time interface check
var _ port.CaseRepository = (*CaseStore)(nil)

// CaseStore is an in-process CaseRepository for local runs and tests.
type CaseStore struct {
	mu    sync.RWMutex
	cases map[string]model.DebtCase
}

// NewCaseStore creates an empty store.
func NewCaseStore() *CaseStore {
	return &CaseStore{cases: make(map[string]model.DebtCase)}
}

func (s *CaseStore) FindByID(_ context.Context, id string) (model.DebtCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cases[id]
	if !ok {
		return model.DebtCase{}, model.ErrCaseNotFound
	}
	return c, nil
}

// Save applies the same revision check as the database adapters.
func (s *CaseStore) Save(_ context.Context, c model.DebtCase) (model.DebtCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.cases[c.ID()]
	switch {
	case c.Version() == 0 && exists:
		return model.DebtCase{}, model.ErrConcurrentModification
	case c.Version() > 0 && (!exists || stored.Version() != c.Version()):
		return model.DebtCase{}, model.ErrConcurrentModification
	}

	saved := c.ClearEvents().WithVersion(c.Version() + 1)
	s.cases[c.ID()] = saved
	return saved, nil
}

func (s *CaseStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cases[id]; !ok {
		return model.ErrCaseNotFound
	}
	delete(s.cases, id)
	return nil
}

func (s *CaseStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.cases[id]
	return ok, nil
}

func (s *CaseStore) Search(_ context.Context, filter port.CaseFilter, page port.PageRequest) ([]model.DebtCase, int, error) {
	s.mu.RLock()
	matched := make([]model.DebtCase, 0, len(s.cases))
	for _, c := range s.cases {
		if matches(c, filter) {
			matched = append(matched, c)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, compareBy(page.Sort))

	total := len(matched)
	start := page.Offset()
	if start < 0 || start > total {
		start = total
	}
	end := total
	if page.Size > 0 {
		end = min(start+page.Size, total)
	}
	return matched[start:end], total, nil
}

func (s *CaseStore) ListActive(_ context.Context) ([]model.DebtCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.DebtCase, 0, len(s.cases))
	for _, c := range s.cases {
		if !c.CurrentState().IsTerminal() {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, compareBy(nil))
	return out, nil
}
