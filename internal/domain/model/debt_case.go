package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/collections/internal/domain/event"
	"github.com/bibbank/collections/internal/domain/valueobject"
	"github.com/bibbank/collections/pkg/money"
)

// Completion notes stamped on a case that payments have settled.
const (
	NoteCompletedByPayment       = "Case automatically marked as COMPLETED after payment registration"
	NoteCompletedByInstallments  = "Case automatically marked as COMPLETED after all installments were paid"
	NoteCompletedByPaymentUpdate = "Case automatically marked as COMPLETED after payment update"
)

// ---------------------------------------------------------------------------
// DebtCase aggregate root
// ---------------------------------------------------------------------------

// DebtCase is an immutable aggregate. Mutations return a new copy; the
// installments and payments it owns are only reachable through it.
type DebtCase struct {
	id                  string
	debtorName          string
	owedAmount          decimal.Decimal
	currentState        valueobject.CaseState
	currentStateDate    time.Time
	nextDeadlineDate    *time.Time
	ongoingNegotiations bool
	hasInstallmentPlan  bool
	paid                bool
	notes               *string
	installments        []Installment
	payments            []Payment
	audit               Audit
	version             int
	domainEvents        []event.DomainEvent
}

// DebtCaseRecord is the flat persistence form of a DebtCase.
type DebtCaseRecord struct {
	ID                  string
	DebtorName          string
	OwedAmount          decimal.Decimal
	CurrentState        valueobject.CaseState
	CurrentStateDate    time.Time
	NextDeadlineDate    *time.Time
	OngoingNegotiations bool
	HasInstallmentPlan  bool
	Paid                bool
	Notes               *string
	Installments        []Installment
	Payments            []Payment
	Audit
	Version int
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewDebtCase opens a case in state. A zero stateDate means now. The caller
// supplies the projected deadline, nil for the terminal state. Invariants
// are checked by the validator before the case is persisted.
func NewDebtCase(
	debtorName string,
	state valueobject.CaseState,
	stateDate time.Time,
	owedAmount decimal.Decimal,
	deadline *time.Time,
	actor string,
	now time.Time,
) (DebtCase, error) {
	if state.IsZero() {
		return DebtCase{}, ErrStateRequired
	}
	if stateDate.IsZero() {
		stateDate = now
	}
	if state.IsTerminal() {
		deadline = nil
	}

	c := DebtCase{
		id:               uuid.NewString(),
		debtorName:       debtorName,
		owedAmount:       owedAmount,
		currentState:     state,
		currentStateDate: stateDate,
		nextDeadlineDate: copyTime(deadline),
		audit:            newAudit(actor, now),
	}
	c.domainEvents = append(c.domainEvents, event.NewDebtCaseCreated(
		c.id, debtorName, owedAmount, state.String(), copyTime(deadline), actor, now,
	))
	return c, nil
}

// ReconstructDebtCase rebuilds a DebtCase from persistence.
func ReconstructDebtCase(r DebtCaseRecord) DebtCase {
	return DebtCase{
		id:                  r.ID,
		debtorName:          r.DebtorName,
		owedAmount:          r.OwedAmount,
		currentState:        r.CurrentState,
		currentStateDate:    r.CurrentStateDate,
		nextDeadlineDate:    copyTime(r.NextDeadlineDate),
		ongoingNegotiations: r.OngoingNegotiations,
		hasInstallmentPlan:  r.HasInstallmentPlan,
		paid:                r.Paid,
		notes:               copyString(r.Notes),
		installments:        slices.Clone(r.Installments),
		payments:            slices.Clone(r.Payments),
		audit:               r.Audit,
		version:             r.Version,
	}
}

// Record returns the persistence form of the case.
func (c DebtCase) Record() DebtCaseRecord {
	return DebtCaseRecord{
		ID:                  c.id,
		DebtorName:          c.debtorName,
		OwedAmount:          c.owedAmount,
		CurrentState:        c.currentState,
		CurrentStateDate:    c.currentStateDate,
		NextDeadlineDate:    copyTime(c.nextDeadlineDate),
		OngoingNegotiations: c.ongoingNegotiations,
		HasInstallmentPlan:  c.hasInstallmentPlan,
		Paid:                c.paid,
		Notes:               copyString(c.notes),
		Installments:        slices.Clone(c.installments),
		Payments:            slices.Clone(c.payments),
		Audit:               c.audit,
		Version:             c.version,
	}
}

// WithVersion returns a copy carrying the persisted revision v.
func (c DebtCase) WithVersion(v int) DebtCase {
	next := c
	next.version = v
	return next
}

// ---------------------------------------------------------------------------
// Field updates
// ---------------------------------------------------------------------------

func (c DebtCase) Rename(debtorName, actor string, now time.Time) DebtCase {
	next := c.modified(actor, now)
	next.debtorName = debtorName
	return next
}

func (c DebtCase) ChangeOwedAmount(amount decimal.Decimal, actor string, now time.Time) DebtCase {
	next := c.modified(actor, now)
	next.owedAmount = amount
	return next
}

// ChangeState moves the case to state, stamping now as the entry time and
// deadline as the new projection. Setting the current state again is a no-op.
func (c DebtCase) ChangeState(state valueobject.CaseState, deadline *time.Time, actor string, now time.Time) DebtCase {
	if state.Equal(c.currentState) {
		return c
	}
	if state.IsTerminal() {
		deadline = nil
	}
	next := c.modified(actor, now)
	next.currentState = state
	next.currentStateDate = now
	next.nextDeadlineDate = copyTime(deadline)
	next.domainEvents = append(next.domainEvents, event.NewDebtCaseStateChanged(
		c.id, c.currentState.String(), state.String(), copyTime(deadline), now,
	))
	return next
}

func (c DebtCase) SetNextDeadline(deadline *time.Time, actor string, now time.Time) DebtCase {
	next := c.modified(actor, now)
	next.nextDeadlineDate = copyTime(deadline)
	return next
}

func (c DebtCase) SetOngoingNegotiations(v bool, actor string, now time.Time) DebtCase {
	next := c.modified(actor, now)
	next.ongoingNegotiations = v
	return next
}

func (c DebtCase) SetInstallmentPlanFlag(v bool, actor string, now time.Time) DebtCase {
	next := c.modified(actor, now)
	next.hasInstallmentPlan = v
	return next
}

func (c DebtCase) SetPaid(v bool, actor string, now time.Time) DebtCase {
	next := c.modified(actor, now)
	next.paid = v
	return next
}

// SetNotes replaces the notes; nil clears them.
func (c DebtCase) SetNotes(notes *string, actor string, now time.Time) DebtCase {
	next := c.modified(actor, now)
	next.notes = copyString(notes)
	return next
}

// RecordUpdate emits DebtCaseUpdated naming the patched fields.
func (c DebtCase) RecordUpdate(fields []string, actor string, now time.Time) DebtCase {
	next := c
	next.domainEvents = copyEvents(c.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewDebtCaseUpdated(c.id, slices.Clone(fields), actor, now))
	return next
}

// UpdateNextDeadline overrides the projected deadline. An active case may
// not be given a past deadline, and with a plan the deadline may not fall
// after the first unpaid installment.
func (c DebtCase) UpdateNextDeadline(deadline *time.Time, actor string, now time.Time) (DebtCase, error) {
	if deadline == nil || deadline.IsZero() {
		return c, ErrDeadlineRequired
	}
	if !c.currentState.IsTerminal() && deadline.Before(now) {
		return c, IllegalRequestf("next deadline date cannot be in the past")
	}
	if c.hasInstallmentPlan {
		if first, ok := c.FirstUnpaidInstallment(); ok && deadline.After(first.DueDate) {
			return c, IllegalRequestf("next deadline date cannot be after the first unpaid installment due %s",
				first.DueDate.Format(time.DateOnly))
		}
	}
	return c.SetNextDeadline(deadline, actor, now), nil
}

// ---------------------------------------------------------------------------
// Payments
// ---------------------------------------------------------------------------

// checkAmount accepts positive amounts in currency scale.
func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if !money.HasValidScale(amount) {
		return ErrAmountInvalidScale
	}
	return nil
}

// RegisterPayment appends a case-level payment dated on paymentDate's
// calendar day.
func (c DebtCase) RegisterPayment(amount decimal.Decimal, paymentDate time.Time, actor string, now time.Time) (DebtCase, Payment, error) {
	if err := checkAmount(amount); err != nil {
		return c, Payment{}, err
	}
	p := Payment{
		ID:          uuid.NewString(),
		Amount:      amount,
		PaymentDate: StartOfDay(paymentDate),
		Audit:       newAudit(actor, now),
	}
	next := c.modified(actor, now)
	next.payments = append(next.payments, p)
	next.domainEvents = append(next.domainEvents, next.paymentEvent(event.PaymentActionRegistered, p, now))
	return next, p, nil
}

// RegisterInstallmentPayment settles one unpaid installment and records the
// linked payment. The deadline moves to the next unpaid installment, or to
// now once none remain.
func (c DebtCase) RegisterInstallmentPayment(installmentID string, amount decimal.Decimal, paidAt time.Time, actor string, now time.Time) (DebtCase, Payment, error) {
	if err := checkAmount(amount); err != nil {
		return c, Payment{}, err
	}
	i := c.installmentIndex(installmentID)
	if i < 0 {
		return c, Payment{}, ErrInstallmentNotFound
	}
	if c.installments[i].Paid {
		return c, Payment{}, ErrInstallmentPaid
	}

	next := c.modified(actor, now)
	inst := next.installments[i]
	inst.Paid = true
	inst.PaidDate = &paidAt
	inst.PaidAmount = &amount
	inst.Audit = inst.Audit.touched(actor, now)
	next.installments[i] = inst

	p := Payment{
		ID:            uuid.NewString(),
		Amount:        amount,
		PaymentDate:   StartOfDay(paidAt),
		InstallmentID: installmentID,
		Audit:         newAudit(actor, now),
	}
	next.payments = append(next.payments, p)
	next = next.syncPlanDeadline(now)
	next.domainEvents = append(next.domainEvents, next.paymentEvent(event.PaymentActionRegistered, p, now))
	return next, p, nil
}

// UpdatePayment corrects a payment's amount and/or date and mirrors the
// change onto the installment it settles. The paid flag is recomputed.
func (c DebtCase) UpdatePayment(paymentID string, amount *decimal.Decimal, paymentDate *time.Time, actor string, now time.Time) (DebtCase, Payment, error) {
	pi := c.paymentIndex(paymentID)
	if pi < 0 {
		return c, Payment{}, ErrPaymentNotFound
	}
	if amount != nil {
		if err := checkAmount(*amount); err != nil {
			return c, Payment{}, err
		}
	}

	next := c.modified(actor, now)
	p := next.payments[pi]
	if amount != nil {
		p.Amount = *amount
	}
	if paymentDate != nil {
		p.PaymentDate = StartOfDay(*paymentDate)
	}
	p.Audit = p.Audit.touched(actor, now)
	next.payments[pi] = p

	if ii := next.installmentIndex(p.InstallmentID); !p.IsCaseLevel() && ii >= 0 {
		inst := next.installments[ii]
		if amount != nil {
			paidAmount := *amount
			inst.PaidAmount = &paidAmount
		}
		if paymentDate != nil {
			paidDate := StartOfDay(*paymentDate)
			inst.PaidDate = &paidDate
		}
		inst.Audit = inst.Audit.touched(actor, now)
		next.installments[ii] = inst
	}

	next.paid = money.Covers(next.TotalPaid(), next.owedAmount)
	next.domainEvents = append(next.domainEvents, next.paymentEvent(event.PaymentActionUpdated, p, now))
	return next, p, nil
}

// DeletePayment removes a payment. A linked installment returns to unpaid
// when no other payment settles it. The paid flag is recomputed and an
// active plan's deadline follows the first unpaid installment again.
func (c DebtCase) DeletePayment(paymentID, actor string, now time.Time) (DebtCase, Payment, error) {
	pi := c.paymentIndex(paymentID)
	if pi < 0 {
		return c, Payment{}, ErrPaymentNotFound
	}

	next := c.modified(actor, now)
	removed := next.payments[pi]
	next.payments = slices.Delete(next.payments, pi, pi+1)

	if !removed.IsCaseLevel() && !next.hasPaymentFor(removed.InstallmentID) {
		if ii := next.installmentIndex(removed.InstallmentID); ii >= 0 {
			inst := next.installments[ii]
			inst.Paid = false
			inst.PaidAmount = nil
			inst.PaidDate = nil
			inst.Audit = inst.Audit.touched(actor, now)
			next.installments[ii] = inst
		}
	}

	next.paid = money.Covers(next.TotalPaid(), next.owedAmount)
	if !next.currentState.IsTerminal() {
		next = next.syncPlanDeadline(now)
	}
	next.domainEvents = append(next.domainEvents, next.paymentEvent(event.PaymentActionDeleted, removed, now))
	return next, removed, nil
}

// ---------------------------------------------------------------------------
// Installment plan
// ---------------------------------------------------------------------------

// CreateInstallmentPlan schedules count equal installments every
// frequencyDays starting at firstDue.
func (c DebtCase) CreateInstallmentPlan(count int, firstDue time.Time, amount decimal.Decimal, frequencyDays int, actor string, now time.Time) (DebtCase, error) {
	if c.hasInstallmentPlan {
		return c, ErrPlanAlreadyExists
	}
	if c.currentState.IsTerminal() || c.paid {
		return c, ErrCaseClosed
	}
	if count < 1 {
		return c, IllegalRequestf("number of installments must be at least 1")
	}
	if err := checkAmount(amount); err != nil {
		return c, err
	}
	if frequencyDays < 1 {
		return c, IllegalRequestf("frequency days must be at least 1")
	}
	if firstDue.IsZero() {
		return c, IllegalRequestf("first installment due date is required")
	}

	next := c.modified(actor, now)
	next.installments = make([]Installment, 0, count)
	for i := 0; i < count; i++ {
		next.installments = append(next.installments, Installment{
			ID:      uuid.NewString(),
			Number:  i + 1,
			Amount:  amount,
			DueDate: firstDue.AddDate(0, 0, i*frequencyDays),
			Audit:   newAudit(actor, now),
		})
	}
	next.hasInstallmentPlan = true
	next.nextDeadlineDate = &firstDue
	next.domainEvents = append(next.domainEvents, next.planEvent(event.PlanActionCreated, now))
	return next, nil
}

// UpdateSingleInstallment edits the amount and/or due date of one unpaid
// installment, then renumbers the plan by due date.
func (c DebtCase) UpdateSingleInstallment(installmentID string, amount *decimal.Decimal, dueDate *time.Time, actor string, now time.Time) (DebtCase, Installment, error) {
	if amount == nil && dueDate == nil {
		return c, Installment{}, ErrNothingToUpdate
	}
	if !c.hasInstallmentPlan {
		return c, Installment{}, ErrNoInstallmentPlan
	}
	i := c.installmentIndex(installmentID)
	if i < 0 {
		return c, Installment{}, ErrInstallmentNotFound
	}
	if c.installments[i].Paid {
		return c, Installment{}, ErrInstallmentPaid
	}
	if amount != nil {
		if err := checkAmount(*amount); err != nil {
			return c, Installment{}, err
		}
	}
	if dueDate != nil && dueDate.Before(now) {
		return c, Installment{}, ErrDueDateInPast
	}

	next := c.modified(actor, now)
	inst := next.installments[i]
	if amount != nil {
		inst.Amount = *amount
	}
	if dueDate != nil {
		inst.DueDate = *dueDate
	}
	inst.Audit = inst.Audit.touched(actor, now)
	next.installments[i] = inst

	if dueDate != nil {
		if err := validateOrdering(next.installments, now); err != nil {
			return c, Installment{}, err
		}
	}
	next.renumber()
	next = next.syncPlanDeadline(now)
	next.domainEvents = append(next.domainEvents, next.planEvent(event.PlanActionInstallmentUpdated, now))

	updated, _ := next.Installment(installmentID)
	return next, updated, nil
}

// ReplaceInstallmentPlan swaps the whole plan for items. A plan with any
// paid installment is locked.
func (c DebtCase) ReplaceInstallmentPlan(items []InstallmentInput, actor string, now time.Time) (DebtCase, error) {
	if len(items) == 0 {
		return c, ErrEmptyInstallmentList
	}
	if c.anyInstallmentPaid() {
		return c, ErrPlanHasPaidInstallment
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b InstallmentInput) int { return a.DueDate.Compare(b.DueDate) })
	for i, in := range sorted {
		switch {
		case !in.Amount.IsPositive():
			return c, IllegalRequestf("installment %d: amount must be greater than zero", i+1)
		case !money.HasValidScale(in.Amount):
			return c, IllegalRequestf("installment %d: amount must have at most %d decimal places", i+1, money.Scale)
		case in.DueDate.IsZero():
			return c, IllegalRequestf("installment %d: due date is required", i+1)
		case in.DueDate.Before(now):
			return c, IllegalRequestf("installment %d: due date cannot be in the past", i+1)
		case i > 0 && !in.DueDate.After(sorted[i-1].DueDate):
			return c, IllegalRequestf("installment due dates must be strictly increasing")
		}
	}

	next := c.modified(actor, now)
	next.installments = make([]Installment, 0, len(sorted))
	for i, in := range sorted {
		next.installments = append(next.installments, Installment{
			ID:      uuid.NewString(),
			Number:  i + 1,
			Amount:  in.Amount,
			DueDate: in.DueDate,
			Audit:   newAudit(actor, now),
		})
	}
	first := sorted[0].DueDate
	next.hasInstallmentPlan = true
	next.nextDeadlineDate = &first
	next.domainEvents = append(next.domainEvents, next.planEvent(event.PlanActionReplaced, now))
	return next, nil
}

// DeleteInstallmentPlan drops an unpaid plan and restores the rule-based
// deadline supplied by the caller.
func (c DebtCase) DeleteInstallmentPlan(deadline *time.Time, actor string, now time.Time) (DebtCase, error) {
	if !c.hasInstallmentPlan {
		return c, ErrNoInstallmentPlan
	}
	if c.anyInstallmentPaid() {
		return c, ErrPlanHasPaidInstallment
	}
	if c.currentState.IsTerminal() {
		deadline = nil
	}

	next := c.modified(actor, now)
	next.installments = nil
	next.hasInstallmentPlan = false
	next.nextDeadlineDate = copyTime(deadline)
	next.domainEvents = append(next.domainEvents, next.planEvent(event.PlanActionDeleted, now))
	return next, nil
}

// ---------------------------------------------------------------------------
// Completion
// ---------------------------------------------------------------------------

// ShouldComplete reports whether payments cover the owed amount of a case
// that is not yet terminal.
func (c DebtCase) ShouldComplete() bool {
	return !c.currentState.IsTerminal() && money.Covers(c.TotalPaid(), c.owedAmount)
}

// Complete moves a settled case to the terminal state, marks it paid,
// clears the deadline and replaces the notes with note. It returns c
// unchanged when ShouldComplete is false.
func (c DebtCase) Complete(note, actor string, now time.Time) DebtCase {
	if !c.ShouldComplete() {
		return c
	}
	next := c.modified(actor, now)
	from := next.currentState
	next.currentState = valueobject.CaseStateCompleted
	next.currentStateDate = now
	next.paid = true
	next.nextDeadlineDate = nil
	next.notes = &note
	next.domainEvents = append(next.domainEvents,
		event.NewDebtCaseStateChanged(c.id, from.String(), next.currentState.String(), nil, now),
		event.NewDebtCaseCompleted(c.id, c.owedAmount, next.TotalPaid(), note, now),
	)
	return next
}

// PlanSettled reports whether the case has a plan whose installments are
// all paid.
func (c DebtCase) PlanSettled() bool {
	return c.hasInstallmentPlan && len(c.installments) > 0 && !slices.ContainsFunc(c.installments, func(i Installment) bool { return !i.Paid })
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// TotalPaid sums every payment of the case.
func (c DebtCase) TotalPaid() decimal.Decimal {
	amounts := make([]decimal.Decimal, len(c.payments))
	for i, p := range c.payments {
		amounts[i] = p.Amount
	}
	return money.Sum(amounts...)
}

// InstallmentsTotal sums every installment amount of the plan.
func (c DebtCase) InstallmentsTotal() decimal.Decimal {
	amounts := make([]decimal.Decimal, len(c.installments))
	for i, inst := range c.installments {
		amounts[i] = inst.Amount
	}
	return money.Sum(amounts...)
}

// FirstUnpaidInstallment returns the unpaid installment due soonest.
func (c DebtCase) FirstUnpaidInstallment() (Installment, bool) {
	var (
		first Installment
		found bool
	)
	for _, inst := range c.installments {
		if inst.Paid {
			continue
		}
		if !found || inst.DueDate.Before(first.DueDate) {
			first, found = inst, true
		}
	}
	return first, found
}

// Installment looks up an owned installment by id.
func (c DebtCase) Installment(id string) (Installment, bool) {
	if i := c.installmentIndex(id); i >= 0 {
		return c.installments[i], true
	}
	return Installment{}, false
}

// Payment looks up an owned payment by id.
func (c DebtCase) Payment(id string) (Payment, bool) {
	if i := c.paymentIndex(id); i >= 0 {
		return c.payments[i], true
	}
	return Payment{}, false
}

// SortedPayments returns the payments ordered by payment date, then by
// creation time.
func (c DebtCase) SortedPayments() []Payment {
	out := slices.Clone(c.payments)
	slices.SortStableFunc(out, func(a, b Payment) int {
		if n := a.PaymentDate.Compare(b.PaymentDate); n != 0 {
			return n
		}
		return a.CreatedDate.Compare(b.CreatedDate)
	})
	return out
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (c DebtCase) ID() string                          { return c.id }
func (c DebtCase) DebtorName() string                  { return c.debtorName }
func (c DebtCase) OwedAmount() decimal.Decimal         { return c.owedAmount }
func (c DebtCase) CurrentState() valueobject.CaseState { return c.currentState }
func (c DebtCase) CurrentStateDate() time.Time         { return c.currentStateDate }
func (c DebtCase) NextDeadlineDate() *time.Time        { return copyTime(c.nextDeadlineDate) }
func (c DebtCase) OngoingNegotiations() bool           { return c.ongoingNegotiations }
func (c DebtCase) HasInstallmentPlan() bool            { return c.hasInstallmentPlan }
func (c DebtCase) Paid() bool                          { return c.paid }
func (c DebtCase) Notes() *string                      { return copyString(c.notes) }
func (c DebtCase) CreatedDate() time.Time              { return c.audit.CreatedDate }
func (c DebtCase) LastModifiedDate() time.Time         { return c.audit.LastModifiedDate }
func (c DebtCase) CreatedBy() string                   { return c.audit.CreatedBy }
func (c DebtCase) LastModifiedBy() string              { return c.audit.LastModifiedBy }
func (c DebtCase) Version() int                        { return c.version }
func (c DebtCase) DomainEvents() []event.DomainEvent   { return c.domainEvents }

// Installments returns a defensive copy in plan order.
func (c DebtCase) Installments() []Installment { return slices.Clone(c.installments) }

// Payments returns a defensive copy in registration order.
func (c DebtCase) Payments() []Payment { return slices.Clone(c.payments) }

// ClearEvents returns a copy with an empty event list.
func (c DebtCase) ClearEvents() DebtCase {
	next := c
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// modified returns a deep-enough copy for mutation, stamped by actor.
func (c DebtCase) modified(actor string, now time.Time) DebtCase {
	next := c
	next.installments = slices.Clone(c.installments)
	next.payments = slices.Clone(c.payments)
	next.domainEvents = copyEvents(c.domainEvents)
	next.audit = c.audit.touched(actor, now)
	return next
}

func (c DebtCase) syncPlanDeadline(now time.Time) DebtCase {
	if !c.hasInstallmentPlan {
		return c
	}
	if first, ok := c.FirstUnpaidInstallment(); ok {
		due := first.DueDate
		c.nextDeadlineDate = &due
	} else {
		c.nextDeadlineDate = &now
	}
	return c
}

// renumber sorts installments by due date and numbers them 1..N.
func (c *DebtCase) renumber() {
	slices.SortStableFunc(c.installments, func(a, b Installment) int { return a.DueDate.Compare(b.DueDate) })
	for i := range c.installments {
		c.installments[i].Number = i + 1
	}
}

func (c DebtCase) installmentIndex(id string) int {
	return slices.IndexFunc(c.installments, func(i Installment) bool { return i.ID == id })
}

func (c DebtCase) paymentIndex(id string) int {
	return slices.IndexFunc(c.payments, func(p Payment) bool { return p.ID == id })
}

func (c DebtCase) hasPaymentFor(installmentID string) bool {
	return slices.ContainsFunc(c.payments, func(p Payment) bool { return p.InstallmentID == installmentID })
}

func (c DebtCase) anyInstallmentPaid() bool {
	return slices.ContainsFunc(c.installments, func(i Installment) bool { return i.Paid })
}

func (c DebtCase) paymentEvent(action string, p Payment, now time.Time) event.DomainEvent {
	return event.NewPaymentRecorded(c.id, action, p.ID, p.Amount, p.PaymentDate, p.InstallmentID, c.TotalPaid(), now)
}

func (c DebtCase) planEvent(action string, now time.Time) event.DomainEvent {
	return event.NewInstallmentPlanChanged(c.id, action, len(c.installments), c.InstallmentsTotal(), copyTime(c.nextDeadlineDate), now)
}

// validateOrdering checks that unpaid installments are not overdue and that
// due dates are strictly increasing.
func validateOrdering(installments []Installment, now time.Time) error {
	sorted := slices.Clone(installments)
	slices.SortStableFunc(sorted, func(a, b Installment) int { return a.DueDate.Compare(b.DueDate) })
	for i, inst := range sorted {
		if !inst.Paid && inst.DueDate.Before(now) {
			return IllegalRequestf("unpaid installments cannot be due in the past")
		}
		if i > 0 && !inst.DueDate.After(sorted[i-1].DueDate) {
			return IllegalRequestf("installment due dates must be strictly increasing")
		}
	}
	return nil
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if src == nil {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
