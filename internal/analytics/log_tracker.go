package analytics

import (
	"context"
	"sync/atomic"

	"github.com/MKhiriev/munch-sync/internal/logger"
)

type eventKind string

const (
	kindEvent eventKind = "event"
	kindError eventKind = "error"
)

type record struct {
	kind   eventKind
	name   string
	err    error
	params Params
}

// LogTracker queues events on a bounded channel and writes them as structured
// log entries from Run. Events that do not fit in the queue are dropped and
// counted.
type LogTracker struct {
	queue   chan record
	dropped atomic.Int64

	logger *logger.Logger
}

// NewLogTracker creates a LogTracker with room for buffer pending events.
// A non-positive buffer is raised to 1.
func NewLogTracker(buffer int, logger *logger.Logger) *LogTracker {
	if buffer <= 0 {
		buffer = 1
	}
	return &LogTracker{
		queue:  make(chan record, buffer),
		logger: logger,
	}
}

func (t *LogTracker) Track(name string, params Params) {
	t.enqueue(record{kind: kindEvent, name: name, params: copyParams(params)})
}

func (t *LogTracker) RecordError(err error, params Params) {
	if err == nil {
		return
	}
	t.enqueue(record{kind: kindError, name: "error", err: err, params: copyParams(params)})
}

// Dropped returns how many events were discarded because the queue was full.
func (t *LogTracker) Dropped() int64 {
	return t.dropped.Load()
}

func (t *LogTracker) enqueue(r record) {
	select {
	case t.queue <- r:
	default:
		t.dropped.Add(1)
	}
}

// Run drains the queue until ctx is cancelled, then flushes whatever is
// still queued and returns nil.
func (t *LogTracker) Run(ctx context.Context) error {
	for {
		select {
		case r := <-t.queue:
			t.write(r)
		case <-ctx.Done():
			t.flush()
			if dropped := t.Dropped(); dropped > 0 {
				t.logger.Warn().Int64("dropped", dropped).Msg("analytics events dropped")
			}
			return nil
		}
	}
}

func (t *LogTracker) flush() {
	for {
		select {
		case r := <-t.queue:
			t.write(r)
		default:
			return
		}
	}
}

func (t *LogTracker) write(r record) {
	ev := t.logger.Info()
	if r.kind == kindError {
		ev = t.logger.Error().Err(r.err)
	}

	ev = ev.Str("analytics", string(r.kind)).Str("event", r.name)
	for k, v := range r.params {
		ev = ev.Str(k, v)
	}
	ev.Msg("analytics")
}

// copyParams detaches the queued event from a map the caller may reuse.
func copyParams(params Params) Params {
	if len(params) == 0 {
		return nil
	}
	out := make(Params, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
