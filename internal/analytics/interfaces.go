// Package analytics records product events and non-fatal errors.
//
// Tracking is fire-and-forget: callers never block on it and never see a
// failure from it.
package analytics

//go:generate mockgen -source=interfaces.go -destination=../mock/analytics_mock.go -package=mock

// Params are the flat string parameters attached to an event.
type Params map[string]string

// Tracker receives product events and recorded errors.
type Tracker interface {
	Track(name string, params Params)
	RecordError(err error, params Params)
}

// Event names emitted by the sync managers.
const (
	EventEntityAdded   = "entity_added"
	EventEntityUpdated = "entity_updated"
	EventEntityRemoved = "entity_removed"
	EventSyncCompleted = "sync_completed"
)

type nopTracker struct{}

func (nopTracker) Track(string, Params)      {}
func (nopTracker) RecordError(error, Params) {}

// Nop returns a Tracker that discards everything.
func Nop() Tracker {
	return nopTracker{}
}
