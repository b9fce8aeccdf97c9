package workers

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/munch-sync/internal/logger"
)

type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

func NewWorkers(logger *logger.Logger, workers ...Worker) *Workers {
	return &Workers{workers: workers, logger: logger}
}

// Run starts every worker and blocks until all of them return. The first
// failure cancels the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		worker := worker
		g.Go(func() error {
			return worker.Run(ctx)
		})
	}

	err := g.Wait()
	if err != nil {
		w.logger.Error().Err(err).Str("func", "Workers.Run").Msg("worker failed")
		return err
	}

	w.logger.Debug().Str("func", "Workers.Run").Int("workers", len(w.workers)).Msg("workers stopped")
	return nil
}
