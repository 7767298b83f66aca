package probe

import "time"

// Request parameters used by the checks.
const (
	defaultLimit = 10
	maxLimit     = "100"
	probeYear    = "2025"
	probeWeights = `{"AR":50,"ER":50}`
)

// DefaultTimeout bounds each HTTP request when Config.Timeout is unset.
const DefaultTimeout = 10 * time.Second
