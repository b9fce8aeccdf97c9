// Package workers runs the client's background loops: the periodic refresh
// of every sync-cache manager and the analytics drain.
package workers

import "context"

// Worker is a background loop. Run blocks until ctx is cancelled or the
// worker fails; a clean shutdown returns nil.
//
// Example implementation:
//
//	type tickWorker struct{ every time.Duration }
//
//	func (w *tickWorker) Run(ctx context.Context) error {
//	    t := time.NewTicker(w.every)
//	    defer t.Stop()
//	    for {
//	        select {
//	        case <-ctx.Done():
//	            return nil
//	        case <-t.C:
//	            // work
//	        }
//	    }
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a function to Worker.
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}
