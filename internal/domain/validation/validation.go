// Package validation normalises rankings query parameters. Every function
// returns the zero value when its input is absent and a *Error when the
// input is present but unusable.
package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/unirank/internal/domain/university"
)

// Pagination defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest is a validated page/limit pair.
type PageRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Skip returns the number of records before the requested page, saturating
// at math.MaxInt for pages too far out to address.
func (p PageRequest) Skip() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// ValidateSubject returns the score field for subject, e.g. "AR" -> "AR SCORE".
// Matching is case-sensitive.
func ValidateSubject(subject string) (string, error) {
	if subject == "" {
		return "", nil
	}
	for _, s := range university.Subjects {
		if s == subject {
			return university.ScoreField(s), nil
		}
	}
	return "", newError(ErrInvalidSubject, "Invalid subject. Must be one of: "+strings.Join(university.Subjects, ", "))
}

// ValidateRegion returns the canonical spelling of region, matched case-insensitively.
func ValidateRegion(region string) (string, error) {
	if region == "" {
		return "", nil
	}
	for _, r := range university.Regions {
		if strings.EqualFold(r, region) {
			return r, nil
		}
	}
	return "", newError(ErrInvalidRegion, "Invalid region. Must be one of: "+strings.Join(university.Regions, ", "))
}

// ValidateYear accepts only the exact strings of known ranking editions.
func ValidateYear(year string) (string, error) {
	if year == "" {
		return "", nil
	}
	for _, y := range university.Years {
		if y == year {
			return y, nil
		}
	}
	return "", newError(ErrInvalidYear, "Invalid year. Must be one of: "+strings.Join(university.Years, ", "))
}

// ValidatePagination parses page and limit. Values that are absent, not a
// decimal integer, or zero fall back to the defaults; a zero limit that was
// explicitly given is rejected instead.
func ValidatePagination(page, limit string) (PageRequest, error) {
	pageNum, _ := parseIntOr(page, DefaultPage)
	limitNum, limitZero := parseIntOr(limit, DefaultLimit)

	if pageNum < 1 {
		return PageRequest{}, newError(ErrInvalidPage, "Page must be a positive integer")
	}
	if limitZero || limitNum < 1 || limitNum > MaxLimit {
		return PageRequest{}, newError(ErrInvalidLimit, "Limit must be between 1 and 100")
	}
	return PageRequest{Page: pageNum, Limit: limitNum}, nil
}

// parseIntOr returns def for anything that is not a non-zero decimal integer.
// zero reports an explicit zero.
func parseIntOr(s string, def int) (n int, zero bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def, false
	}
	if v == 0 {
		return def, true
	}
	return v, false
}
