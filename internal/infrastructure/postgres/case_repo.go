package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/port"
	"github.com/bibbank/collections/internal/domain/valueobject"
	pgpkg "github.com/bibbank/collections/pkg/postgres"
)

// Compile-time interface check
var _ port.CaseRepository = (*CaseRepo)(nil)

const caseColumns = `
	id, debtor_name, owed_amount, current_state, current_state_date,
	next_deadline_date, ongoing_negotiations, has_installment_plan, paid, notes,
	created_date, last_modified_date, created_by, last_modified_by, version`

// CaseRepo implements port.CaseRepository. A case row owns its installment
// and payment rows; Save rewrites them together in one transaction.
type CaseRepo struct {
	pool *pgxpool.Pool
}

// NewCaseRepo creates a new PostgreSQL-backed case repository.
func NewCaseRepo(pool *pgxpool.Pool) *CaseRepo {
	return &CaseRepo{pool: pool}
}

// Save upserts the aggregate with a compare-and-set on its revision. A case
// with revision 0 is inserted; any other revision must match the stored one.
func (r *CaseRepo) Save(ctx context.Context, c model.DebtCase) (model.DebtCase, error) {
	rec := c.Record()
	next := rec.Version + 1

	err := pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var (
			tag pgconn.CommandTag
			err error
		)
		if rec.Version == 0 {
			tag, err = tx.Exec(ctx, `
				INSERT INTO debt_cases (`+caseColumns+`)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
				ON CONFLICT (id) DO NOTHING
			`, rec.ID, rec.DebtorName, rec.OwedAmount, rec.CurrentState.String(), rec.CurrentStateDate,
				rec.NextDeadlineDate, rec.OngoingNegotiations, rec.HasInstallmentPlan, rec.Paid, rec.Notes,
				rec.CreatedDate, rec.LastModifiedDate, rec.CreatedBy, rec.LastModifiedBy, next)
		} else {
			tag, err = tx.Exec(ctx, `
				UPDATE debt_cases SET
					debtor_name          = $2,
					owed_amount          = $3,
					current_state        = $4,
					current_state_date   = $5,
					next_deadline_date   = $6,
					ongoing_negotiations = $7,
					has_installment_plan = $8,
					paid                 = $9,
					notes                = $10,
					last_modified_date   = $11,
					last_modified_by     = $12,
					version              = $13
				WHERE id = $1 AND version = $14
			`, rec.ID, rec.DebtorName, rec.OwedAmount, rec.CurrentState.String(), rec.CurrentStateDate,
				rec.NextDeadlineDate, rec.OngoingNegotiations, rec.HasInstallmentPlan, rec.Paid, rec.Notes,
				rec.LastModifiedDate, rec.LastModifiedBy, next, rec.Version)
		}
		if err != nil {
			return fmt.Errorf("upsert debt case: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("debt case %s at revision %d: %w", rec.ID, rec.Version, model.ErrConcurrentModification)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM installments WHERE debt_case_id = $1`, rec.ID); err != nil {
			return fmt.Errorf("delete existing installments: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE debt_case_id = $1`, rec.ID); err != nil {
			return fmt.Errorf("delete existing payments: %w", err)
		}

		batch := &pgx.Batch{}
		for _, inst := range rec.Installments {
			batch.Queue(`
				INSERT INTO installments (
					id, debt_case_id, installment_number, amount, due_date, paid, paid_date, paid_amount,
					created_date, last_modified_date, created_by, last_modified_by
				) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			`, inst.ID, rec.ID, inst.Number, inst.Amount, inst.DueDate, inst.Paid, inst.PaidDate, inst.PaidAmount,
				inst.CreatedDate, inst.LastModifiedDate, inst.CreatedBy, inst.LastModifiedBy)
		}
		for _, p := range rec.Payments {
			batch.Queue(`
				INSERT INTO payments (
					id, debt_case_id, installment_id, amount, payment_date,
					created_date, last_modified_date, created_by, last_modified_by
				) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			`, p.ID, rec.ID, nullableID(p.InstallmentID), p.Amount, p.PaymentDate,
				p.CreatedDate, p.LastModifiedDate, p.CreatedBy, p.LastModifiedBy)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert ledger entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.DebtCase{}, fmt.Errorf("save debt case: %w", err)
	}
	return c.ClearEvents().WithVersion(next), nil
}

// FindByID retrieves a case with its installments and payments.
func (r *CaseRepo) FindByID(ctx context.Context, id string) (model.DebtCase, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+caseColumns+` FROM debt_cases WHERE id = $1`, id)
	rec, err := scanCaseRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.DebtCase{}, model.ErrCaseNotFound
		}
		return model.DebtCase{}, err
	}
	cases, err := r.withEntries(ctx, []model.DebtCaseRecord{rec})
	if err != nil {
		return model.DebtCase{}, err
	}
	return cases[0], nil
}

// Delete removes a case; its entries go with it.
func (r *CaseRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM debt_cases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete debt case: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCaseNotFound
	}
	return nil
}

func (r *CaseRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM debt_cases WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check debt case: %w", err)
	}
	return exists, nil
}

// Search returns one page of matching cases and the total match count.
func (r *CaseRepo) Search(ctx context.Context, filter port.CaseFilter, page port.PageRequest) ([]model.DebtCase, int, error) {
	where, args := buildWhere(filter)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM debt_cases`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count debt cases: %w", err)
	}
	if total == 0 || page.Offset() >= total {
		return nil, total, nil
	}

	query := `SELECT ` + caseColumns + ` FROM debt_cases` + where + buildOrderBy(page.Sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Offset())

	cases, err := r.queryCases(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return cases, total, nil
}

// ListActive returns every case not yet completed.
func (r *CaseRepo) ListActive(ctx context.Context) ([]model.DebtCase, error) {
	return r.queryCases(ctx,
		`SELECT `+caseColumns+` FROM debt_cases WHERE current_state <> $1 ORDER BY next_deadline_date ASC NULLS LAST, id ASC`,
		valueobject.CaseStateCompleted.String(),
	)
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func (r *CaseRepo) queryCases(ctx context.Context, query string, args ...any) ([]model.DebtCase, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query debt cases: %w", err)
	}
	defer rows.Close()

	var recs []model.DebtCaseRecord
	for rows.Next() {
		rec, err := scanCaseRow(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate debt cases: %w", err)
	}
	return r.withEntries(ctx, recs)
}

// withEntries loads the installments and payments of recs in two queries
// and rebuilds the aggregates in input order.
func (r *CaseRepo) withEntries(ctx context.Context, recs []model.DebtCaseRecord) ([]model.DebtCase, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(recs))
	for i, rec := range recs {
		ids[i] = rec.ID
	}

	installments, err := r.loadInstallments(ctx, ids)
	if err != nil {
		return nil, err
	}
	payments, err := r.loadPayments(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]model.DebtCase, len(recs))
	for i, rec := range recs {
		rec.Installments = installments[rec.ID]
		rec.Payments = payments[rec.ID]
		out[i] = model.ReconstructDebtCase(rec)
	}
	return out, nil
}

func (r *CaseRepo) loadInstallments(ctx context.Context, caseIDs []string) (map[string][]model.Installment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, debt_case_id, installment_number, amount, due_date, paid, paid_date, paid_amount,
		       created_date, last_modified_date, created_by, last_modified_by
		FROM installments
		WHERE debt_case_id = ANY($1)
		ORDER BY debt_case_id, installment_number
	`, caseIDs)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.Installment, len(caseIDs))
	for rows.Next() {
		var (
			inst       model.Installment
			caseID     string
			paidAmount decimal.NullDecimal
		)
		if err := rows.Scan(
			&inst.ID, &caseID, &inst.Number, &inst.Amount, &inst.DueDate, &inst.Paid, &inst.PaidDate, &paidAmount,
			&inst.CreatedDate, &inst.LastModifiedDate, &inst.CreatedBy, &inst.LastModifiedBy,
		); err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		if paidAmount.Valid {
			v := paidAmount.Decimal
			inst.PaidAmount = &v
		}
		inst.DueDate = inst.DueDate.UTC()
		inst.PaidDate = utcPtr(inst.PaidDate)
		out[caseID] = append(out[caseID], inst)
	}
	return out, rows.Err()
}

func (r *CaseRepo) loadPayments(ctx context.Context, caseIDs []string) (map[string][]model.Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, debt_case_id, installment_id, amount, payment_date,
		       created_date, last_modified_date, created_by, last_modified_by
		FROM payments
		WHERE debt_case_id = ANY($1)
		ORDER BY debt_case_id, created_date, id
	`, caseIDs)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.Payment, len(caseIDs))
	for rows.Next() {
		var (
			p             model.Payment
			caseID        string
			installmentID *string
		)
		if err := rows.Scan(
			&p.ID, &caseID, &installmentID, &p.Amount, &p.PaymentDate,
			&p.CreatedDate, &p.LastModifiedDate, &p.CreatedBy, &p.LastModifiedBy,
		); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		if installmentID != nil {
			p.InstallmentID = *installmentID
		}
		p.PaymentDate = p.PaymentDate.UTC()
		out[caseID] = append(out[caseID], p)
	}
	return out, rows.Err()
}

func scanCaseRow(s pgx.Row) (model.DebtCaseRecord, error) {
	var (
		rec      model.DebtCaseRecord
		stateStr string
	)
	err := s.Scan(
		&rec.ID, &rec.DebtorName, &rec.OwedAmount, &stateStr, &rec.CurrentStateDate,
		&rec.NextDeadlineDate, &rec.OngoingNegotiations, &rec.HasInstallmentPlan, &rec.Paid, &rec.Notes,
		&rec.CreatedDate, &rec.LastModifiedDate, &rec.CreatedBy, &rec.LastModifiedBy, &rec.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.DebtCaseRecord{}, err
		}
		return model.DebtCaseRecord{}, fmt.Errorf("scan debt case: %w", err)
	}

	state, err := valueobject.NewCaseState(stateStr)
	if err != nil {
		return model.DebtCaseRecord{}, fmt.Errorf("parse case state: %w", err)
	}
	rec.CurrentState = state
	rec.CurrentStateDate = rec.CurrentStateDate.UTC()
	rec.NextDeadlineDate = utcPtr(rec.NextDeadlineDate)
	rec.CreatedDate = rec.CreatedDate.UTC()
	rec.LastModifiedDate = rec.LastModifiedDate.UTC()
	return rec, nil
}

func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
