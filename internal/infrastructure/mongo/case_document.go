package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/valueobject"
	"github.com/bibbank/collections/pkg/money"
)

// caseDocument is the stored form of a DebtCase. Installments and payments
// are embedded so one document write saves the whole aggregate.
type caseDocument struct {
	ID                  string                `bson:"_id"`
	DebtorName          string                `bson:"debtorName"`
	OwedAmount          primitive.Decimal128  `bson:"owedAmount"`
	CurrentState        string                `bson:"currentState"`
	CurrentStateDate    time.Time             `bson:"currentStateDate"`
	NextDeadlineDate    *time.Time            `bson:"nextDeadlineDate"`
	OngoingNegotiations bool                  `bson:"ongoingNegotiations"`
	HasInstallmentPlan  bool                  `bson:"hasInstallmentPlan"`
	Paid                bool                  `bson:"paid"`
	Notes               *string               `bson:"notes"`
	Installments        []installmentDocument `bson:"installments"`
	Payments            []paymentDocument     `bson:"payments"`
	Version             int                   `bson:"version"`

	AuditDocument `bson:",inline"`
}

type installmentDocument struct {
	ID            string                `bson:"id"`
	Number        int                   `bson:"installmentNumber"`
	Amount        primitive.Decimal128  `bson:"amount"`
	DueDate       time.Time             `bson:"dueDate"`
	Paid          bool                  `bson:"paid"`
	PaidDate      *time.Time            `bson:"paidDate"`
	PaidAmount    *primitive.Decimal128 `bson:"paidAmount"`

	AuditDocument `bson:",inline"`
}

type paymentDocument struct {
	ID            string               `bson:"id"`
	Amount        primitive.Decimal128 `bson:"amount"`
	PaymentDate   time.Time            `bson:"paymentDate"`
	InstallmentID string               `bson:"installmentId,omitempty"`

	AuditDocument `bson:",inline"`
}

// AuditDocument is exported so the bson codec inlines it.
type AuditDocument struct {
	CreatedDate      time.Time `bson:"createdDate"`
	LastModifiedDate time.Time `bson:"lastModifiedDate"`
	CreatedBy        string    `bson:"createdBy"`
	LastModifiedBy   string    `bson:"lastModifiedBy"`
}

// ---------------------------------------------------------------------------
// Conversions
// ---------------------------------------------------------------------------

func toCaseDocument(rec model.DebtCaseRecord, version int) (caseDocument, error) {
	owed, err := toDecimal128(rec.OwedAmount)
	if err != nil {
		return caseDocument{}, err
	}
	doc := caseDocument{
		ID:                  rec.ID,
		DebtorName:          rec.DebtorName,
		OwedAmount:          owed,
		CurrentState:        rec.CurrentState.String(),
		CurrentStateDate:    rec.CurrentStateDate,
		NextDeadlineDate:    rec.NextDeadlineDate,
		OngoingNegotiations: rec.OngoingNegotiations,
		HasInstallmentPlan:  rec.HasInstallmentPlan,
		Paid:                rec.Paid,
		Notes:               rec.Notes,
		Installments:        make([]installmentDocument, 0, len(rec.Installments)),
		Payments:            make([]paymentDocument, 0, len(rec.Payments)),
		AuditDocument:       fromAudit(rec.Audit),
		Version:             version,
	}

	for _, inst := range rec.Installments {
		amount, err := toDecimal128(inst.Amount)
		if err != nil {
			return caseDocument{}, err
		}
		var paidAmount *primitive.Decimal128
		if inst.PaidAmount != nil {
			v, err := toDecimal128(*inst.PaidAmount)
			if err != nil {
				return caseDocument{}, err
			}
			paidAmount = &v
		}
		doc.Installments = append(doc.Installments, installmentDocument{
			ID:            inst.ID,
			Number:        inst.Number,
			Amount:        amount,
			DueDate:       inst.DueDate,
			Paid:          inst.Paid,
			PaidDate:      inst.PaidDate,
			PaidAmount:    paidAmount,
			AuditDocument: fromAudit(inst.Audit),
		})
	}

	for _, p := range rec.Payments {
		amount, err := toDecimal128(p.Amount)
		if err != nil {
			return caseDocument{}, err
		}
		doc.Payments = append(doc.Payments, paymentDocument{
			ID:            p.ID,
			Amount:        amount,
			PaymentDate:   p.PaymentDate,
			InstallmentID: p.InstallmentID,
			AuditDocument: fromAudit(p.Audit),
		})
	}
	return doc, nil
}

func (d caseDocument) toModel() (model.DebtCase, error) {
	state, err := valueobject.NewCaseState(d.CurrentState)
	if err != nil {
		return model.DebtCase{}, fmt.Errorf("parse case state: %w", err)
	}
	owed, err := fromDecimal128(d.OwedAmount)
	if err != nil {
		return model.DebtCase{}, err
	}

	rec := model.DebtCaseRecord{
		ID:                  d.ID,
		DebtorName:          d.DebtorName,
		OwedAmount:          owed,
		CurrentState:        state,
		CurrentStateDate:    d.CurrentStateDate.UTC(),
		NextDeadlineDate:    utcPtr(d.NextDeadlineDate),
		OngoingNegotiations: d.OngoingNegotiations,
		HasInstallmentPlan:  d.HasInstallmentPlan,
		Paid:                d.Paid,
		Notes:               d.Notes,
		Audit:               d.AuditDocument.toModel(),
		Version:             d.Version,
	}

	for _, inst := range d.Installments {
		amount, err := fromDecimal128(inst.Amount)
		if err != nil {
			return model.DebtCase{}, err
		}
		var paidAmount *decimal.Decimal
		if inst.PaidAmount != nil {
			v, err := fromDecimal128(*inst.PaidAmount)
			if err != nil {
				return model.DebtCase{}, err
			}
			paidAmount = &v
		}
		rec.Installments = append(rec.Installments, model.Installment{
			ID:         inst.ID,
			Number:     inst.Number,
			Amount:     amount,
			DueDate:    inst.DueDate.UTC(),
			Paid:       inst.Paid,
			PaidDate:   utcPtr(inst.PaidDate),
			PaidAmount: paidAmount,
			Audit:      inst.AuditDocument.toModel(),
		})
	}

	for _, p := range d.Payments {
		amount, err := fromDecimal128(p.Amount)
		if err != nil {
			return model.DebtCase{}, err
		}
		rec.Payments = append(rec.Payments, model.Payment{
			ID:            p.ID,
			Amount:        amount,
			PaymentDate:   p.PaymentDate.UTC(),
			InstallmentID: p.InstallmentID,
			Audit:         p.AuditDocument.toModel(),
		})
	}
	return model.ReconstructDebtCase(rec), nil
}

func fromAudit(a model.Audit) AuditDocument {
	return AuditDocument{
		CreatedDate:      a.CreatedDate,
		LastModifiedDate: a.LastModifiedDate,
		CreatedBy:        a.CreatedBy,
		LastModifiedBy:   a.LastModifiedBy,
	}
}

func (a AuditDocument) toModel() model.Audit {
	return model.Audit{
		CreatedDate:      a.CreatedDate.UTC(),
		LastModifiedDate: a.LastModifiedDate.UTC(),
		CreatedBy:        a.CreatedBy,
		LastModifiedBy:   a.LastModifiedBy,
	}
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode amount %s: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := money.Parse(v.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode amount %s: %w", v, err)
	}
	return d, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
