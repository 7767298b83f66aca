package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// check is one verification against the service.
type check struct {
	name string
	run  func(ctx context.Context, c *httpClient, prefix string) error
}

// checks lists every verification a run performs.
var checks = []check{ //nolint:gochecknoglobals // fixed table of checks
	{name: "health", run: checkHealth},
	{name: "default pagination", run: checkDefaultPagination},
	{name: "year ordering", run: checkYearOrdering},
	{name: "weighted ordering", run: checkWeightedOrdering},
	{name: "invalid year rejected", run: checkInvalidYear},
}

var errNotOK = errors.New("unexpected status")

func checkHealth(ctx context.Context, c *httpClient, _ string) error {
	var body healthBody
	status, err := c.getJSON(ctx, "/health", nil, &body)
	if err != nil {
		return err
	}
	if status != http.StatusOK || body.Status != "OK" {
		return fmt.Errorf("%w: health answered %d %q: %s", errNotOK, status, body.Status, body.Message)
	}
	return nil
}

func checkDefaultPagination(ctx context.Context, c *httpClient, prefix string) error {
	var p page
	status, err := c.getJSON(ctx, prefix+"/rankings", nil, &p)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: %d", errNotOK, status)
	}

	pg := p.Pagination
	wantPages := (pg.TotalItems + defaultLimit - 1) / defaultLimit
	wantLen := min(defaultLimit, pg.TotalItems)
	switch {
	case pg.CurrentPage != 1 || pg.ItemsPerPage != defaultLimit:
		return fmt.Errorf("expected page 1 of size %d, got page %d of size %d", defaultLimit, pg.CurrentPage, pg.ItemsPerPage)
	case pg.TotalPages != wantPages:
		return fmt.Errorf("expected %d pages for %d items, got %d", wantPages, pg.TotalItems, pg.TotalPages)
	case len(p.Data) != wantLen:
		return fmt.Errorf("expected %d records on the first page, got %d", wantLen, len(p.Data))
	case pg.HasPrevPage:
		return errors.New("first page reports a previous page")
	case pg.HasNextPage != (pg.TotalPages > 1):
		return fmt.Errorf("hasNextPage=%t with %d pages", pg.HasNextPage, pg.TotalPages)
	}
	return nil
}

func checkYearOrdering(ctx context.Context, c *httpClient, prefix string) error {
	const field = probeYear + " Rank"
	var p page
	status, err := c.getJSON(ctx, prefix+"/rankings", url.Values{"year": {probeYear}, "limit": {maxLimit}}, &p)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: %d", errNotOK, status)
	}
	prev := 0.0
	for i, rec := range p.Data {
		rank, ok := rec[field].(float64)
		if !ok {
			return fmt.Errorf("record %d has no numeric %q", i, field)
		}
		if i > 0 && rank < prev {
			return fmt.Errorf("record %d: %q %v after %v", i, field, rank, prev)
		}
		prev = rank
	}
	return nil
}

func checkWeightedOrdering(ctx context.Context, c *httpClient, prefix string) error {
	const field = "Composite SCORE"
	var p page
	status, err := c.getJSON(ctx, prefix+"/rankings", url.Values{"weights": {probeWeights}, "limit": {maxLimit}}, &p)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: %d", errNotOK, status)
	}
	prev, unscored := 0.0, false
	for i, rec := range p.Data {
		v, present := rec[field]
		if !present {
			return fmt.Errorf("record %d lacks %q", i, field)
		}
		score, ok := v.(float64)
		if !ok {
			unscored = true
			continue
		}
		if unscored {
			return fmt.Errorf("record %d is scored after an unscored record", i)
		}
		if i > 0 && score > prev {
			return fmt.Errorf("record %d: %q %v after %v", i, field, score, prev)
		}
		prev = score
	}
	return nil
}

func checkInvalidYear(ctx context.Context, c *httpClient, prefix string) error {
	var body errorBody
	status, err := c.getJSON(ctx, prefix+"/rankings", url.Values{"year": {"1999"}}, &body)
	if err != nil {
		return err
	}
	if status != http.StatusBadRequest || body.Error != "Validation failed" {
		return fmt.Errorf("%w: expected 400 Validation failed, got %d %q", errNotOK, status, body.Error)
	}
	return nil
}
