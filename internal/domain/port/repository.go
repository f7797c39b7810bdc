package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/collections/internal/domain/event"
	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// CaseRepository stores whole DebtCase aggregates.
type CaseRepository interface {
	FindByID(ctx context.Context, id string) (model.DebtCase, error)
	// Save upserts the aggregate. It fails with model.ErrConcurrentModification
	// when the stored revision is not c.Version(), and returns the case
	// carrying its new revision.
	Save(ctx context.Context, c model.DebtCase) (model.DebtCase, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, filter CaseFilter, page PageRequest) ([]model.DebtCase, int, error)
	// ListActive returns every case not in the terminal state.
	ListActive(ctx context.Context) ([]model.DebtCase, error)
}

// TransitionRuleRepository stores deadline rules, one per originating state.
type TransitionRuleRepository interface {
	FindAll(ctx context.Context) ([]model.TransitionRule, error)
	FindByState(ctx context.Context, from valueobject.CaseState) (model.TransitionRule, error)
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, rule model.TransitionRule) error
	SaveAll(ctx context.Context, rules []model.TransitionRule) error
}

// ---------------------------------------------------------------------------
// Search
// ---------------------------------------------------------------------------

// TimeRange is a half-open interval [From, To). Either bound may be nil.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// IsZero reports whether the range imposes no constraint.
func (r TimeRange) IsZero() bool { return r.From == nil && r.To == nil }

// CaseFilter holds the optional predicates of a case search. Zero values
// impose no constraint; all set predicates are combined with AND.
type CaseFilter struct {
	DebtorName          string
	States              []valueobject.CaseState
	MinAmount           *decimal.Decimal
	MaxAmount           *decimal.Decimal
	HasInstallmentPlan  *bool
	Paid                *bool
	OngoingNegotiations *bool
	Notes               string
	NextDeadline        TimeRange
	CurrentStateDate    TimeRange
	CreatedDate         TimeRange
	LastModifiedDate    TimeRange
}

// SortField names a sortable case attribute.
type SortField string

const (
	SortNextDeadlineDate SortField = "nextDeadlineDate"
	SortCurrentStateDate SortField = "currentStateDate"
	SortCreatedDate      SortField = "createdDate"
	SortLastModifiedDate SortField = "lastModifiedDate"
	SortOwedAmount       SortField = "owedAmount"
	SortDebtorName       SortField = "debtorName"
	SortCurrentState     SortField = "currentState"
)

// SortFields lists every accepted sort field.
var SortFields = []SortField{
	SortNextDeadlineDate, SortCurrentStateDate, SortCreatedDate,
	SortLastModifiedDate, SortOwedAmount, SortDebtorName, SortCurrentState,
}

// Sort is one ordering term.
type Sort struct {
	Field      SortField
	Descending bool
}

// PageRequest selects a zero-based page of Size items in Sort order.
type PageRequest struct {
	Page int
	Size int
	Sort []Sort
}

// Offset returns the number of items before the page.
func (p PageRequest) Offset() int { return p.Page * p.Size }

// ---------------------------------------------------------------------------
// Outbound notification ports
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// RuleChangeNotifier tells other replicas that transition rules changed.
type RuleChangeNotifier interface {
	NotifyRulesChanged(ctx context.Context) error
}

// LedgerMetrics records ledger activity.
type LedgerMetrics interface {
	PaymentRegistered(ctx context.Context, amount decimal.Decimal)
	CaseCompleted(ctx context.Context)
	ValidationFailed(ctx context.Context, code string)
	DeadlineFallback(ctx context.Context, state string)
}
