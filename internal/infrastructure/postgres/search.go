package postgres

import (
	"fmt"
	"strings"

	"github.com/bibbank/collections/internal/domain/port"
)

// sortColumns maps sortable case attributes to debt_cases columns.
var sortColumns = map[port.SortField]string{
	port.SortNextDeadlineDate: "next_deadline_date",
	port.SortCurrentStateDate: "current_state_date",
	port.SortCreatedDate:      "created_date",
	port.SortLastModifiedDate: "last_modified_date",
	port.SortOwedAmount:       "owed_amount",
	port.SortDebtorName:       "debtor_name",
	port.SortCurrentState:     "current_state",
}

// whereBuilder collects AND-ed predicates with positional arguments.
type whereBuilder struct {
	clauses []string
	args    []any
}

// add appends a predicate whose single "?" placeholder binds arg.
func (b *whereBuilder) add(clause string, arg any) {
	b.args = append(b.args, arg)
	b.clauses = append(b.clauses, strings.Replace(clause, "?", fmt.Sprintf("$%d", len(b.args)), 1))
}

func (b *whereBuilder) addRange(column string, r port.TimeRange) {
	if r.From != nil {
		b.add(column+" >= ?", *r.From)
	}
	if r.To != nil {
		b.add(column+" < ?", *r.To)
	}
}

func (b *whereBuilder) sql() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

// buildWhere renders filter as a WHERE clause over debt_cases.
func buildWhere(f port.CaseFilter) (string, []any) {
	var b whereBuilder

	if f.DebtorName != "" {
		b.add(`debtor_name ILIKE ? ESCAPE '\'`, containsPattern(f.DebtorName))
	}
	if len(f.States) > 0 {
		states := make([]string, len(f.States))
		for i, s := range f.States {
			states[i] = s.String()
		}
		b.add("current_state = ANY(?)", states)
	}
	if f.MinAmount != nil {
		b.add("owed_amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		b.add("owed_amount <= ?", *f.MaxAmount)
	}
	if f.HasInstallmentPlan != nil {
		b.add("has_installment_plan = ?", *f.HasInstallmentPlan)
	}
	if f.Paid != nil {
		b.add("paid = ?", *f.Paid)
	}
	if f.OngoingNegotiations != nil {
		b.add("ongoing_negotiations = ?", *f.OngoingNegotiations)
	}
	if f.Notes != "" {
		b.add(`notes ILIKE ? ESCAPE '\'`, containsPattern(f.Notes))
	}
	b.addRange("next_deadline_date", f.NextDeadline)
	b.addRange("current_state_date", f.CurrentStateDate)
	b.addRange("created_date", f.CreatedDate)
	b.addRange("last_modified_date", f.LastModifiedDate)

	return b.sql(), b.args
}

// buildOrderBy renders the page's sort terms. The id column is always the
// last term so that paging is stable across equal keys.
func buildOrderBy(sorts []port.Sort) string {
	terms := make([]string, 0, len(sorts)+1)
	for _, s := range sorts {
		col, ok := sortColumns[s.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if s.Descending {
			dir = "DESC"
		}
		terms = append(terms, col+" "+dir+" NULLS LAST")
	}
	terms = append(terms, "id ASC")
	return " ORDER BY " + strings.Join(terms, ", ")
}

// containsPattern turns s into a case-insensitive substring pattern with
// LIKE metacharacters escaped.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
