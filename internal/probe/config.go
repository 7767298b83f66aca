// Package probe drives a running rankings service over HTTP and checks the
// ordering and pagination guarantees of its responses.
package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL string        // Base URL of the service
	Prefix  string        // Route prefix of the rankings API
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every check, not only failures
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Passed reports whether the check succeeded.
func (r CheckResult) Passed() bool { return r.Err == nil }

// Report collects the results of a run in check order.
type Report struct {
	Checks    []CheckResult
	StartTime time.Time
	Duration  time.Duration
}

// Failed returns the failed checks.
func (r *Report) Failed() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if !c.Passed() {
			out = append(out, c)
		}
	}
	return out
}

// page mirrors the rankings response body.
type page struct {
	Data       []map[string]any `json:"data"`
	Pagination struct {
		CurrentPage  int  `json:"currentPage"`
		TotalPages   int  `json:"totalPages"`
		TotalItems   int  `json:"totalItems"`
		ItemsPerPage int  `json:"itemsPerPage"`
		HasNextPage  bool `json:"hasNextPage"`
		HasPrevPage  bool `json:"hasPrevPage"`
	} `json:"pagination"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type healthBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
