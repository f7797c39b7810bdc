package usecase

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/port"
)

// Paging limits of a case search.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps page*size within a 32-bit offset.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// SearchCasesUseCase runs a filtered, paged case search.
type SearchCasesUseCase struct {
	cases port.CaseRepository
}

// NewSearchCasesUseCase wires dependencies.
func NewSearchCasesUseCase(cases port.CaseRepository) *SearchCasesUseCase {
	return &SearchCasesUseCase{cases: cases}
}

// Execute combines every supplied predicate with AND. Malformed requests,
// including a minimum amount above the maximum, fail before the store is
// queried. Without a sort the soonest deadline comes first.
func (uc *SearchCasesUseCase) Execute(ctx context.Context, req dto.SearchCasesRequest) (dto.CasePageResponse, error) {
	filter, err := buildCaseFilter(req)
	if err != nil {
		return dto.CasePageResponse{}, err
	}
	page, err := buildPageRequest(req)
	if err != nil {
		return dto.CasePageResponse{}, err
	}

	items, total, err := uc.cases.Search(ctx, filter, page)
	if err != nil {
		return dto.CasePageResponse{}, fmt.Errorf("search cases: %w", err)
	}

	content := make([]dto.DebtCaseResponse, len(items))
	for i, c := range items {
		content[i] = toDebtCaseResponse(c)
	}
	return dto.CasePageResponse{
		Content: content,
		Page: dto.PageMetadata{
			Size:          page.Size,
			Number:        page.Page,
			TotalElements: total,
			TotalPages:    (total + page.Size - 1) / page.Size,
		},
	}, nil
}

func buildCaseFilter(req dto.SearchCasesRequest) (port.CaseFilter, error) {
	if req.MinAmount != nil && req.MaxAmount != nil && req.MinAmount.GreaterThan(*req.MaxAmount) {
		return port.CaseFilter{}, model.IllegalRequestf("minAmount %s must not exceed maxAmount %s",
			req.MinAmount.String(), req.MaxAmount.String())
	}

	filter := port.CaseFilter{
		DebtorName:          strings.TrimSpace(req.DebtorName),
		MinAmount:           req.MinAmount,
		MaxAmount:           req.MaxAmount,
		HasInstallmentPlan:  req.HasInstallmentPlan,
		Paid:                req.Paid,
		OngoingNegotiations: req.OngoingNegotiations,
		Notes:               strings.TrimSpace(req.Notes),
		NextDeadline:        dayRange(req.NextDeadlineFrom, req.NextDeadlineTo),
		CurrentStateDate:    dayRange(req.CurrentStateFrom, req.CurrentStateTo),
		CreatedDate:         dayRange(req.CreatedFrom, req.CreatedTo),
		LastModifiedDate:    dayRange(req.LastModifiedFrom, req.LastModifiedTo),
	}

	names := req.States
	if len(names) == 0 && req.State != "" {
		names = []string{req.State}
	}
	for _, name := range names {
		state, err := parseState(name)
		if err != nil {
			return port.CaseFilter{}, err
		}
		if !slices.ContainsFunc(filter.States, state.Equal) {
			filter.States = append(filter.States, state)
		}
	}
	return filter, nil
}

// dayRange turns inclusive calendar-day bounds into a half-open range.
func dayRange(from, to *time.Time) port.TimeRange {
	var r port.TimeRange
	if from != nil {
		start := model.StartOfDay(*from)
		r.From = &start
	}
	if to != nil {
		end := model.StartOfDay(*to).AddDate(0, 0, 1)
		r.To = &end
	}
	return r
}

func buildPageRequest(req dto.SearchCasesRequest) (port.PageRequest, error) {
	if req.Page < 0 {
		return port.PageRequest{}, model.IllegalRequestf("page must not be negative, got %d", req.Page)
	}
	if req.Page > MaxPage {
		return port.PageRequest{}, model.IllegalRequestf("page must not exceed %d, got %d", MaxPage, req.Page)
	}
	if req.Size < 0 {
		return port.PageRequest{}, model.IllegalRequestf("size must not be negative, got %d", req.Size)
	}
	size := req.Size
	switch {
	case size == 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}

	sorts, err := parseSorts(req.Sort)
	if err != nil {
		return port.PageRequest{}, err
	}
	return port.PageRequest{Page: req.Page, Size: size, Sort: sorts}, nil
}

// parseSorts reads "field" or "field,asc|desc" terms.
func parseSorts(terms []string) ([]port.Sort, error) {
	var sorts []port.Sort
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		field, dir, _ := strings.Cut(term, ",")
		s := port.Sort{Field: port.SortField(strings.TrimSpace(field))}
		if !slices.Contains(port.SortFields, s.Field) {
			return nil, model.IllegalRequestf("unsupported sort field %q", field)
		}
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", "asc":
		case "desc":
			s.Descending = true
		default:
			return nil, model.IllegalRequestf("unsupported sort direction %q", dir)
		}
		sorts = append(sorts, s)
	}
	if len(sorts) == 0 {
		sorts = []port.Sort{{Field: port.SortNextDeadlineDate}}
	}
	return sorts, nil
}
