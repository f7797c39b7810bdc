package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/collections/internal/domain/event"
	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/port"
	"github.com/bibbank/collections/internal/domain/service"
	"github.com/bibbank/collections/pkg/auth"
)

// ---------------------------------------------------------------------------
// Ledger – shared write path of every case operation
// ---------------------------------------------------------------------------

// Ledger loads cases, gates every write on the invariant validator and
// persists the whole aggregate. Events are published only after the save
// succeeded; a publish failure is logged and does not fail the operation.
type Ledger struct {
	cases     port.CaseRepository
	validator *service.CaseValidator
	publisher port.EventPublisher
	metrics   port.LedgerMetrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewLedger wires the write path.
func NewLedger(
	cases port.CaseRepository,
	validator *service.CaseValidator,
	publisher port.EventPublisher,
	metrics port.LedgerMetrics,
	logger *slog.Logger,
) *Ledger {
	return &Ledger{
		cases:     cases,
		validator: validator,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock returns a copy of the ledger reading the time from now.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	cp := *l
	cp.now = now
	return &cp
}

// mutation derives the next version of a loaded case.
type mutation func(c model.DebtCase, actor string, now time.Time) (model.DebtCase, error)

func (l *Ledger) clock() time.Time { return l.now().UTC() }

func (l *Ledger) load(ctx context.Context, id string) (model.DebtCase, error) {
	c, err := l.cases.FindByID(ctx, id)
	if err != nil {
		return model.DebtCase{}, fmt.Errorf("find case: %w", err)
	}
	return c, nil
}

// update loads the case, applies fn and commits the result.
func (l *Ledger) update(ctx context.Context, id string, fn mutation) (model.DebtCase, error) {
	c, err := l.load(ctx, id)
	if err != nil {
		return model.DebtCase{}, err
	}
	next, err := fn(c, auth.ActorFromContext(ctx), l.clock())
	if err != nil {
		return model.DebtCase{}, err
	}
	return l.commit(ctx, next)
}

// commit validates and saves c, then publishes its pending events. The
// returned case carries the new revision and no pending events.
func (l *Ledger) commit(ctx context.Context, c model.DebtCase) (model.DebtCase, error) {
	if err := l.validator.Validate(c); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			l.metrics.ValidationFailed(ctx, verr.Code)
		}
		l.logger.InfoContext(ctx, "case rejected by validator",
			"case_id", c.ID(),
			"error", err,
		)
		return model.DebtCase{}, err
	}

	saved, err := l.cases.Save(ctx, c)
	if err != nil {
		return model.DebtCase{}, fmt.Errorf("save case: %w", err)
	}

	pending := c.DomainEvents()
	l.publish(ctx, pending...)
	l.record(ctx, pending)
	return saved.ClearEvents(), nil
}

func (l *Ledger) publish(ctx context.Context, events ...event.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := l.publisher.Publish(ctx, events...); err != nil {
		l.logger.ErrorContext(ctx, "publish domain events failed",
			"aggregate_id", events[0].AggregateID(),
			"count", len(events),
			"error", err,
		)
	}
}

func (l *Ledger) record(ctx context.Context, events []event.DomainEvent) {
	for _, evt := range events {
		switch e := evt.(type) {
		case event.PaymentRecorded:
			if e.Action == event.PaymentActionRegistered {
				l.metrics.PaymentRegistered(ctx, e.Amount)
			}
		case event.DebtCaseCompleted:
			l.metrics.CaseCompleted(ctx)
			l.logger.InfoContext(ctx, "case completed", "case_id", e.AggregateID())
		}
	}
}

// settle is the completion step run after every operation that changes the
// paid total. It is a no-op unless payments cover the owed amount.
func settle(c model.DebtCase, note, actor string, now time.Time) model.DebtCase {
	if !c.ShouldComplete() {
		return c
	}
	return c.Complete(note, actor, now)
}
