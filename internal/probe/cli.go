package probe

import "os"

// ShowHelp prints usage information for the probe tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`University Rankings Probe
=========================

Checks a running rankings service: health, default pagination math, year
ordering, composite-score ordering and validation of bad input.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:3000")
  -prefix string
        Route prefix of the rankings API (default "/api")
  -timeout duration
        HTTP request timeout (default 10s)
  -verbose
        Log passing checks too
  -help
        Show this help message

Exit status is 1 when any check fails.
`)
}
