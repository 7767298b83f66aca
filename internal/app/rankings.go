package service

import (
	"github.com/okian/unirank/internal/domain/university"
	"github.com/okian/unirank/internal/domain/validation"
)

// RankingsQuery carries the raw query-string values of a rankings request.
// Empty strings mean the parameter was absent.
type RankingsQuery struct {
	Year    string
	Region  string
	Subject string
	Page    string
	Limit   string
	Weights string

	// WeightParams holds weight_<SUBJECT> parameters keyed by their full name.
	WeightParams map[string]string
}

// RankingsPage is the response body of a rankings query.
type RankingsPage struct {
	Data       []university.Record `json:"data"`
	Pagination Pagination          `json:"pagination"`
	Filters    Filters             `json:"filters"`
}

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

// NewPagination derives page metadata from the total item count.
func NewPagination(total, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNextPage:  page < pages,
		HasPrevPage:  page > 1,
	}
}

// Filters echoes the accepted filters; absent values encode as null.
type Filters struct {
	Year    *string            `json:"year"`
	Region  *string            `json:"region"`
	Subject *string            `json:"subject"`
	Weights validation.Weights `json:"weights"`
}

// rankingsPlan is a validated RankingsQuery.
type rankingsPlan struct {
	year       string
	region     string
	subject    string // as given
	scoreField string
	page       validation.PageRequest
	weights    validation.Weights
}

func parseRankingsQuery(q RankingsQuery) (rankingsPlan, error) {
	var (
		plan rankingsPlan
		err  error
	)
	if plan.scoreField, err = validation.ValidateSubject(q.Subject); err != nil {
		return plan, err
	}
	if plan.scoreField != "" {
		plan.subject = q.Subject
	}
	if plan.region, err = validation.ValidateRegion(q.Region); err != nil {
		return plan, err
	}
	if plan.year, err = validation.ValidateYear(q.Year); err != nil {
		return plan, err
	}
	if plan.page, err = validation.ValidatePagination(q.Page, q.Limit); err != nil {
		return plan, err
	}
	if plan.weights, err = validation.ValidateWeights(q.Weights, q.WeightParams); err != nil {
		return plan, err
	}
	return plan, nil
}

// sortField picks the store sort key: year rank, then subject score, then
// the overall score. Always ascending, for ranks and scores alike.
func (s rankingsPlan) sortField() string {
	switch {
	case s.year != "":
		return university.RankField(s.year)
	case s.scoreField != "":
		return s.scoreField
	default:
		return university.FieldOverall
	}
}

// sortKey names the ordering applied to the returned page, for metrics.
func (s rankingsPlan) sortKey() string {
	switch {
	case s.year != "":
		return "year"
	case s.scoreField != "":
		return "subject"
	case s.weights != nil:
		return "composite"
	default:
		return "overall"
	}
}

// resortByComposite reports whether the fetched page is reordered by
// composite score. Year and subject orderings win over weights.
func (s rankingsPlan) resortByComposite() bool {
	return s.weights != nil && s.year == "" && s.scoreField == ""
}

func (s rankingsPlan) filters() Filters {
	return Filters{
		Year:    optional(s.year),
		Region:  optional(s.region),
		Subject: optional(s.subject),
		Weights: s.weights,
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
