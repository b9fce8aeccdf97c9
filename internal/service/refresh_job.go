package service

import (
	"context"
	"time"

	"github.com/MKhiriev/munch-sync/internal/logger"
)

const defaultRefreshInterval = 5 * time.Minute

// RefreshJob refreshes every registered manager on a ticker.
type RefreshJob struct {
	registry *Registry
	interval time.Duration

	logger *logger.Logger
}

// NewRefreshJob creates a RefreshJob. A non-positive interval defaults to
// five minutes.
func NewRefreshJob(registry *Registry, interval time.Duration, logger *logger.Logger) *RefreshJob {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &RefreshJob{registry: registry, interval: interval, logger: logger}
}

// Run refreshes on every tick until ctx is cancelled. Refresh failures are
// already reported by the managers and do not stop the job.
func (j *RefreshJob) Run(ctx context.Context) error {
	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			j.RefreshAll(ctx)
		}
	}
}

// RefreshAll refreshes the registered managers one after another and returns
// how many failed.
func (j *RefreshJob) RefreshAll(ctx context.Context) int {
	failed := 0
	for _, m := range j.registry.Managers() {
		if ctx.Err() != nil {
			break
		}
		if _, err := m.Refresh(ctx); err != nil {
			failed++
		}
	}

	j.logger.Debug().Str("func", "RefreshJob.RefreshAll").Int("failed", failed).Msg("periodic refresh done")
	return failed
}
