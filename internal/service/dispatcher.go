package service

import (
	"sync"

	"github.com/MKhiriev/munch-sync/models"
)

// Update is one delivery to a subscriber: either a snapshot or the error that
// ended a refresh.
type Update struct {
	Snapshot models.Snapshot
	Err      error
}

// Subscription is a subscriber's end of a [Dispatcher].
type Subscription struct {
	updates chan Update
	done    chan struct{}

	// seq is the dispatcher sequence at subscribe time.
	seq uint64

	mu     sync.Mutex
	closed bool

	onClose func(*Subscription)
}

// Updates returns the delivery channel. It is closed when the subscription ends.
func (s *Subscription) Updates() <-chan Update {
	return s.updates
}

// Done is closed when the subscription ends, whoever ended it.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close ends the subscription. Calling it more than once is a no-op.
func (s *Subscription) Close() {
	if s.shutdown() && s.onClose != nil {
		s.onClose(s)
	}
}

// shutdown marks s closed and reports whether this call did it.
func (s *Subscription) shutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.closed = true
	close(s.done)
	close(s.updates)
	return true
}

// deliver queues u without blocking. When the buffer is full the oldest queued
// update is dropped: every update carries the full state, so only the newest
// one matters.
func (s *Subscription) deliver(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	select {
	case s.updates <- u:
		return
	default:
	}

	select {
	case <-s.updates:
	default:
	}

	select {
	case s.updates <- u:
	default:
	}
}

// Dispatcher fans snapshots out to subscribers in the order they are pushed.
type Dispatcher struct {
	maxSubscribers int
	buffer         int

	mu     sync.Mutex
	subs   []*Subscription
	seq    uint64
	last   *models.Snapshot
	closed bool
}

// NewDispatcher creates a Dispatcher. With maxSubscribers 1 a new subscriber
// replaces the current one, which is closed; 0 allows any number. buffer is
// the per-subscriber queue length, at least 1.
func NewDispatcher(maxSubscribers, buffer int) *Dispatcher {
	if buffer < 1 {
		buffer = 1
	}
	if maxSubscribers < 0 {
		maxSubscribers = 0
	}
	return &Dispatcher{maxSubscribers: maxSubscribers, buffer: buffer}
}

// Subscribe registers a new subscriber. When the limit is reached the oldest
// subscriber is closed to make room. After Close the returned subscription is
// already closed.
func (d *Dispatcher) Subscribe() *Subscription {
	sub := &Subscription{
		updates: make(chan Update, d.buffer),
		done:    make(chan struct{}),
		onClose: d.remove,
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		sub.shutdown()
		return sub
	}

	for d.maxSubscribers > 0 && len(d.subs) >= d.maxSubscribers {
		evicted := d.subs[0]
		d.subs = d.subs[1:]
		evicted.shutdown()
	}

	sub.seq = d.seq
	d.subs = append(d.subs, sub)
	return sub
}

// Prime delivers snapshot to sub alone, unless a newer update has been
// pushed since sub subscribed. It reports whether the snapshot was delivered.
func (d *Dispatcher) Prime(sub *Subscription, snapshot models.Snapshot) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || sub.seq != d.seq {
		return false
	}
	sub.deliver(Update{Snapshot: snapshot})
	return true
}

// Push delivers snapshot to every live subscriber and keeps it as the last
// pushed snapshot.
func (d *Dispatcher) Push(snapshot models.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.seq++
	d.last = &snapshot
	for _, sub := range d.subs {
		sub.deliver(Update{Snapshot: snapshot})
	}
}

// Fail delivers err to every live subscriber.
func (d *Dispatcher) Fail(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || err == nil {
		return
	}
	d.seq++
	for _, sub := range d.subs {
		sub.deliver(Update{Err: err})
	}
}

// Last returns the most recently pushed snapshot.
func (d *Dispatcher) Last() (models.Snapshot, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.last == nil {
		return models.Snapshot{}, false
	}
	return *d.last, true
}

// Subscribers returns the number of live subscribers.
func (d *Dispatcher) Subscribers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs)
}

// Close ends every subscription. Later pushes are ignored.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	for _, sub := range d.subs {
		sub.shutdown()
	}
	d.subs = nil
}

func (d *Dispatcher) remove(sub *Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, s := range d.subs {
		if s == sub {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}
