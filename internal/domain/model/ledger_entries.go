package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxDate is the deadline of a case that will never move again.
var MaxDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// StartOfDay truncates t to midnight of its UTC calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Audit carries the creation and last-modification stamps shared by the
// case and its owned entries.
type Audit struct {
	CreatedDate      time.Time
	LastModifiedDate time.Time
	CreatedBy        string
	LastModifiedBy   string
}

func newAudit(actor string, now time.Time) Audit {
	return Audit{CreatedDate: now, LastModifiedDate: now, CreatedBy: actor, LastModifiedBy: actor}
}

func (a Audit) touched(actor string, now time.Time) Audit {
	a.LastModifiedDate = now
	a.LastModifiedBy = actor
	return a
}

// ---------------------------------------------------------------------------
// Installment
// ---------------------------------------------------------------------------

// Installment is one scheduled partial repayment within a case's plan. It
// has no identity outside its owning DebtCase.
type Installment struct {
	ID         string
	Number     int
	Amount     decimal.Decimal
	DueDate    time.Time
	Paid       bool
	PaidDate   *time.Time
	PaidAmount *decimal.Decimal
	Audit
}

// InstallmentInput describes one installment of a replacement plan.
type InstallmentInput struct {
	Amount  decimal.Decimal
	DueDate time.Time
}

// ---------------------------------------------------------------------------
// Payment
// ---------------------------------------------------------------------------

// Payment is a recorded receipt of money. InstallmentID is empty for a
// case-level payment that settles no specific installment.
type Payment struct {
	ID            string
	Amount        decimal.Decimal
	PaymentDate   time.Time
	InstallmentID string
	Audit
}

// IsCaseLevel reports whether the payment is unallocated.
func (p Payment) IsCaseLevel() bool { return p.InstallmentID == "" }
