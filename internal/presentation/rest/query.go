package rest

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/pkg/money"
)

// queryDateLayouts are tried in order for date-valued query parameters.
var queryDateLayouts = []string{"2006-01-02", time.RFC3339}

// parseSearchQuery builds a search request from the query string of
// GET /debt-cases. Sort and states may be repeated; states may also be
// comma separated.
func parseSearchQuery(q url.Values) (dto.SearchCasesRequest, error) {
	req := dto.SearchCasesRequest{
		DebtorName: q.Get("debtorName"),
		State:      q.Get("state"),
		Notes:      q.Get("notes"),
		Sort:       q["sort"],
	}
	for _, v := range q["states"] {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				req.States = append(req.States, s)
			}
		}
	}

	var err error
	if req.Page, err = queryInt(q, "page"); err != nil {
		return req, err
	}
	if req.Size, err = queryInt(q, "size"); err != nil {
		return req, err
	}
	if req.MinAmount, err = queryDecimal(q, "minAmount"); err != nil {
		return req, err
	}
	if req.MaxAmount, err = queryDecimal(q, "maxAmount"); err != nil {
		return req, err
	}

	bools := []struct {
		name string
		dst  **bool
	}{
		{"hasInstallmentPlan", &req.HasInstallmentPlan},
		{"paid", &req.Paid},
		{"ongoingNegotiations", &req.OngoingNegotiations},
	}
	for _, b := range bools {
		if *b.dst, err = queryBool(q, b.name); err != nil {
			return req, err
		}
	}

	dates := []struct {
		name string
		dst  **time.Time
	}{
		{"nextDeadlineFrom", &req.NextDeadlineFrom},
		{"nextDeadlineTo", &req.NextDeadlineTo},
		{"currentStateFrom", &req.CurrentStateFrom},
		{"currentStateTo", &req.CurrentStateTo},
		{"createdFrom", &req.CreatedFrom},
		{"createdTo", &req.CreatedTo},
		{"lastModifiedFrom", &req.LastModifiedFrom},
		{"lastModifiedTo", &req.LastModifiedTo},
	}
	for _, d := range dates {
		if *d.dst, err = queryDate(q, d.name); err != nil {
			return req, err
		}
	}
	return req, nil
}

func queryInt(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

func queryDecimal(q url.Values, name string) (*decimal.Decimal, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	d, err := money.Parse(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, v)
	}
	return &d, nil
}

func queryBool(q url.Values, name string) (*bool, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, v)
	}
	return &b, nil
}

func queryDate(q url.Values, name string) (*time.Time, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid %s %q: want YYYY-MM-DD or RFC 3339", name, v)
}
