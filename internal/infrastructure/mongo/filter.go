package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bibbank/collections/internal/domain/port"
)

var sortFields = map[port.SortField]string{
	port.SortNextDeadlineDate: "nextDeadlineDate",
	port.SortCurrentStateDate: "currentStateDate",
	port.SortCreatedDate:      "createdDate",
	port.SortLastModifiedDate: "lastModifiedDate",
	port.SortOwedAmount:       "owedAmount",
	port.SortDebtorName:       "debtorName",
	port.SortCurrentState:     "currentState",
}

// buildFilter renders f as a case query document.
func buildFilter(f port.CaseFilter) (bson.D, error) {
	filter := bson.D{}

	if f.DebtorName != "" {
		filter = append(filter, bson.E{Key: "debtorName", Value: containsRegex(f.DebtorName)})
	}
	if len(f.States) > 0 {
		states := make(bson.A, len(f.States))
		for i, s := range f.States {
			states[i] = s.String()
		}
		filter = append(filter, bson.E{Key: "currentState", Value: bson.D{{Key: "$in", Value: states}}})
	}
	if f.MinAmount != nil || f.MaxAmount != nil {
		bounds := bson.D{}
		if f.MinAmount != nil {
			v, err := toDecimal128(*f.MinAmount)
			if err != nil {
				return nil, err
			}
			bounds = append(bounds, bson.E{Key: "$gte", Value: v})
		}
		if f.MaxAmount != nil {
			v, err := toDecimal128(*f.MaxAmount)
			if err != nil {
				return nil, err
			}
			bounds = append(bounds, bson.E{Key: "$lte", Value: v})
		}
		filter = append(filter, bson.E{Key: "owedAmount", Value: bounds})
	}
	if f.HasInstallmentPlan != nil {
		filter = append(filter, bson.E{Key: "hasInstallmentPlan", Value: *f.HasInstallmentPlan})
	}
	if f.Paid != nil {
		filter = append(filter, bson.E{Key: "paid", Value: *f.Paid})
	}
	if f.OngoingNegotiations != nil {
		filter = append(filter, bson.E{Key: "ongoingNegotiations", Value: *f.OngoingNegotiations})
	}
	if f.Notes != "" {
		filter = append(filter, bson.E{Key: "notes", Value: containsRegex(f.Notes)})
	}
	filter = appendRange(filter, "nextDeadlineDate", f.NextDeadline)
	filter = appendRange(filter, "currentStateDate", f.CurrentStateDate)
	filter = appendRange(filter, "createdDate", f.CreatedDate)
	filter = appendRange(filter, "lastModifiedDate", f.LastModifiedDate)

	return filter, nil
}

func appendRange(filter bson.D, field string, r port.TimeRange) bson.D {
	if r.IsZero() {
		return filter
	}
	bounds := bson.D{}
	if r.From != nil {
		bounds = append(bounds, bson.E{Key: "$gte", Value: *r.From})
	}
	if r.To != nil {
		bounds = append(bounds, bson.E{Key: "$lt", Value: *r.To})
	}
	return append(filter, bson.E{Key: field, Value: bounds})
}

// buildSort renders the page's sort terms, ending with _id for stable paging.
func buildSort(sorts []port.Sort) bson.D {
	out := bson.D{}
	for _, s := range sorts {
		field, ok := sortFields[s.Field]
		if !ok {
			continue
		}
		dir := 1
		if s.Descending {
			dir = -1
		}
		out = append(out, bson.E{Key: field, Value: dir})
	}
	return append(out, bson.E{Key: "_id", Value: 1})
}

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
