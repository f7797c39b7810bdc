package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/collections/internal/application/usecase"
	"github.com/bibbank/collections/internal/domain/event"
	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/port"
	"github.com/bibbank/collections/internal/domain/service"
	"github.com/bibbank/collections/internal/domain/valueobject"
	"github.com/bibbank/collections/pkg/auth"
	"github.com/bibbank/collections/pkg/testutil"
)

// ---------------------------------------------------------------------------
// Case repository
// ---------------------------------------------------------------------------

type mockCaseRepository struct {
	mu         sync.Mutex
	cases      map[string]model.DebtCase
	saveFunc   func(ctx context.Context, c model.DebtCase) (model.DebtCase, error)
	searchFunc func(ctx context.Context, filter port.CaseFilter, page port.PageRequest) ([]model.DebtCase, int, error)

	saveCalls   int
	searchCalls int
	lastFilter  port.CaseFilter
	lastPage    port.PageRequest
	deleted     []string
}

func newMockCaseRepository() *mockCaseRepository {
	return &mockCaseRepository{cases: map[string]model.DebtCase{}}
}

func (m *mockCaseRepository) put(c model.DebtCase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cases[c.ID()] = c.ClearEvents()
}

func (m *mockCaseRepository) get(t *testing.T, id string) model.DebtCase {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cases[id]
	require.True(t, ok, "case %s not stored", id)
	return c
}

func (m *mockCaseRepository) FindByID(_ context.Context, id string) (model.DebtCase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cases[id]
	if !ok {
		return model.DebtCase{}, model.ErrCaseNotFound
	}
	return c, nil
}

func (m *mockCaseRepository) Save(ctx context.Context, c model.DebtCase) (model.DebtCase, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	saved := c.ClearEvents().WithVersion(c.Version() + 1)
	m.cases[c.ID()] = saved
	return saved, nil
}

func (m *mockCaseRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cases, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCaseRepository) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.cases[id]
	return ok, nil
}

func (m *mockCaseRepository) Search(ctx context.Context, filter port.CaseFilter, page port.PageRequest) ([]model.DebtCase, int, error) {
	m.searchCalls++
	m.lastFilter = filter
	m.lastPage = page
	if m.searchFunc != nil {
		return m.searchFunc(ctx, filter, page)
	}
	return nil, 0, nil
}

func (m *mockCaseRepository) ListActive(_ context.Context) ([]model.DebtCase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.DebtCase
	for _, c := range m.cases {
		if !c.CurrentState().IsTerminal() {
			out = append(out, c)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Transition rule repository
// ---------------------------------------------------------------------------

type mockRuleRepository struct {
	mu    sync.Mutex
	rules map[string]model.TransitionRule
}

func newMockRuleRepository() *mockRuleRepository {
	return &mockRuleRepository{rules: map[string]model.TransitionRule{}}
}

func (m *mockRuleRepository) FindAll(_ context.Context) ([]model.TransitionRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.TransitionRule, 0, len(m.rules))
	for _, r := range m.rules {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRuleRepository) FindByState(_ context.Context, from valueobject.CaseState) (model.TransitionRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rules[from.String()]
	if !ok {
		return model.TransitionRule{}, model.ErrRuleNotFound
	}
	return r, nil
}

func (m *mockRuleRepository) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rules), nil
}

func (m *mockRuleRepository) Save(_ context.Context, r model.TransitionRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[r.FromState().String()] = r
	return nil
}

func (m *mockRuleRepository) SaveAll(ctx context.Context, rules []model.TransitionRule) error {
	for _, r := range rules {
		if err := m.Save(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Publisher and metrics
// ---------------------------------------------------------------------------

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

func (m *mockEventPublisher) types() []string {
	out := make([]string, len(m.publishedEvents))
	for i, e := range m.publishedEvents {
		out[i] = e.EventType()
	}
	return out
}

type mockLedgerMetrics struct {
	payments    []decimal.Decimal
	completions int
	failures    []string
	fallbacks   []string
}

func (m *mockLedgerMetrics) PaymentRegistered(_ context.Context, amount decimal.Decimal) {
	m.payments = append(m.payments, amount)
}
func (m *mockLedgerMetrics) CaseCompleted(_ context.Context) { m.completions++ }
func (m *mockLedgerMetrics) ValidationFailed(_ context.Context, code string) {
	m.failures = append(m.failures, code)
}
func (m *mockLedgerMetrics) DeadlineFallback(_ context.Context, state string) {
	m.fallbacks = append(m.fallbacks, state)
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	cases     *mockCaseRepository
	rules     *mockRuleRepository
	publisher *mockEventPublisher
	metrics   *mockLedgerMetrics
	cache     *service.TransitionRuleCache
	ledger    *usecase.Ledger
	svc       *usecase.CaseLedgerService
}

// newFixture wires the ledger over in-memory doubles with the clock pinned
// to testutil.TestNow and the given rules installed.
func newFixture(t *testing.T, rules ...model.TransitionRule) *fixture {
	t.Helper()
	f := &fixture{
		cases:     newMockCaseRepository(),
		rules:     newMockRuleRepository(),
		publisher: &mockEventPublisher{},
		metrics:   &mockLedgerMetrics{},
	}
	for _, r := range rules {
		require.NoError(t, f.rules.Save(context.Background(), r))
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.cache = service.NewTransitionRuleCache(f.rules, nil, f.metrics, logger)
	require.NoError(t, f.cache.Refresh(context.Background()))
	f.ledger = usecase.NewLedger(f.cases, service.NewCaseValidator(), f.publisher, f.metrics, logger).
		WithClock(testutil.FixedClock(testutil.TestNow))
	f.svc = usecase.NewCaseLedgerService(f.ledger, f.cache)
	return f
}

func newRule(t *testing.T, from valueobject.CaseState, days int) model.TransitionRule {
	t.Helper()
	to, _ := from.Next()
	r, err := model.NewTransitionRule("rule-"+from.String(), from, to, days, testutil.TestNow)
	require.NoError(t, err)
	return r
}

// operatorCtx carries the authenticated test operator.
func operatorCtx() context.Context {
	return auth.ContextWithClaims(context.Background(), &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: testutil.TestActor},
		Roles:            []string{auth.RoleOperator},
	})
}

// openCase stores a fresh case owing owed in NOTICE_DUE.
func (f *fixture) openCase(t *testing.T, owed string) model.DebtCase {
	t.Helper()
	deadline := testutil.Day(10)
	c, err := model.NewDebtCase(testutil.TestDebtor, valueobject.CaseStateNoticeDue, testutil.TestNow,
		testutil.Amount(owed), &deadline, testutil.TestActor, testutil.TestNow)
	require.NoError(t, err)
	f.cases.put(c)
	return c
}

// newServiceFor rewires the use cases after the fixture's ledger changed.
func newServiceFor(f *fixture) *usecase.CaseLedgerService {
	return usecase.NewCaseLedgerService(f.ledger, f.cache)
}
