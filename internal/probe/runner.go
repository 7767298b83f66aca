package probe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/unirank/internal/adapters/http/api"
	"github.com/okian/unirank/pkg/logger"
)

// ErrChecksFailed is returned by Run when at least one check failed.
var ErrChecksFailed = errors.New("probe checks failed")

// Run executes every check concurrently and returns the report. The error
// wraps ErrChecksFailed when any check failed.
func Run(ctx context.Context, config *Config) (*Report, error) {
	if config == nil || config.BaseURL == "" {
		return nil, errors.New("probe: base URL is required")
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	prefix := api.NormalizePrefix(config.Prefix)
	client := newHTTPClient(config.BaseURL, timeout)
	log := logger.Get().Named("probe")

	log.Info(ctx, "starting probe",
		logger.String("baseURL", config.BaseURL),
		logger.String("prefix", prefix),
		logger.String("timeout", timeout.String()))

	report := &Report{
		Checks:    make([]CheckResult, len(checks)),
		StartTime: time.Now(),
	}

	// Checks are independent; each writes its own slot.
	var g errgroup.Group
	for i, chk := range checks {
		g.Go(func() error {
			start := time.Now()
			err := chk.run(ctx, client, prefix)
			report.Checks[i] = CheckResult{Name: chk.name, Err: err, Duration: time.Since(start)}
			return nil
		})
	}
	_ = g.Wait()
	report.Duration = time.Since(report.StartTime)

	for _, r := range report.Checks {
		switch {
		case !r.Passed():
			log.Error(ctx, "check failed", logger.String("check", r.Name), logger.Error(r.Err))
		case config.Verbose:
			log.Info(ctx, "check passed", logger.String("check", r.Name), logger.String("duration", r.Duration.String()))
		}
	}

	failed := report.Failed()
	log.Info(ctx, "probe finished",
		logger.Int("checks", len(report.Checks)),
		logger.Int("failed", len(failed)),
		logger.String("duration", report.Duration.String()))

	if len(failed) > 0 {
		names := make([]string, 0, len(failed))
		for _, f := range failed {
			names = append(names, f.Name)
		}
		return report, fmt.Errorf("%w: %s", ErrChecksFailed, strings.Join(names, ", "))
	}
	return report, nil
}
