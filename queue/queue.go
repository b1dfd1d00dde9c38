// Package queue implements the bounded delivery ring between the ordering
// buffer and consumers: a single-producer, multi-consumer ring of
// fully-formed events. Pops are lock-free; TryPush and Len briefly take the
// mutex that guards the consumer list to find the slowest consumer. The
// producer never waits for room — on a full ring the event is dropped and
// counted, trading bounded loss against unbounded latency.
// Each registered consumer observes every event pushed after it attached,
// through its own read cursor.
package queue

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/dexstream/dexstream/event"
	"github.com/dexstream/dexstream/metrics"
)

// DefaultCapacity is the ring's slot count when New is given a
// non-positive capacity.
const DefaultCapacity = 100_000

// Ring is the delivery queue. Construct with New. A Ring has exactly one
// producer goroutine (the ordering runner); any number of consumers may be
// registered, each popping independently.
type Ring struct {
	capacity uint64
	slots    []atomic.Pointer[event.Event]
	write    atomic.Uint64 // next sequence number to publish

	mu        sync.Mutex // guards the consumer list (registration and minReadSeq)
	consumers []*Consumer

	metrics *metrics.Recorder
}

// Option configures a Ring.
type Option func(*Ring)

// WithMetrics attaches a metrics.Recorder for drop counting.
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Ring) { r.metrics = m }
}

// New constructs a Ring with the given capacity (DefaultCapacity if
// capacity <= 0).
func New(capacity int, opts ...Option) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	r := &Ring{
		capacity: uint64(capacity),
		slots:    make([]atomic.Pointer[event.Event], capacity),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// TryPush publishes ev to every registered consumer. It returns false —
// dropping ev and counting the drop — when the slowest consumer is a full
// ring behind, and never blocks or retries. Call only from the single
// producer goroutine.
func (r *Ring) TryPush(ev event.Event) bool {
	seq := r.write.Load()

	if seq-r.minReadSeq(seq) >= r.capacity {
		r.metrics.QueueDrop()

		return false
	}

	r.slots[seq%r.capacity].Store(&ev)
	r.write.Store(seq + 1)

	return true
}

// Len reports how many events the furthest-behind consumer has yet to pop.
// With no consumers registered it reports zero.
func (r *Ring) Len() int {
	seq := r.write.Load()

	return int(seq - r.minReadSeq(seq)) //nolint:gosec // bounded by capacity
}

// minReadSeq returns the smallest consumer read cursor, or writeSeq when no
// consumer is registered (an unconsumed ring never reports full).
func (r *Ring) minReadSeq(writeSeq uint64) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	minSeq := writeSeq
	for _, c := range r.consumers {
		if read := c.read.Load(); read < minSeq {
			minSeq = read
		}
	}

	return minSeq
}

// NewConsumer registers a consumer starting at the current write position:
// it observes only events pushed after registration.
func (r *Ring) NewConsumer() *Consumer {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := &Consumer{ring: r}
	c.read.Store(r.write.Load())
	r.consumers = append(r.consumers, c)

	return c
}

// Consumer is one independent reader of a Ring. A Consumer is owned by a
// single goroutine; distinct Consumers may run on distinct goroutines.
type Consumer struct {
	ring *Ring
	read atomic.Uint64
}

// TryPop returns the next event and true, or the zero event and false when
// nothing is ready. It never blocks; callers wanting to wait should combine
// it with a strategy like SpinThenYield.
func (c *Consumer) TryPop() (event.Event, bool) {
	seq := c.read.Load()
	if seq == c.ring.write.Load() {
		return event.Event{}, false
	}

	ev := c.ring.slots[seq%c.ring.capacity].Load()
	c.read.Store(seq + 1)

	return *ev, true
}

// SpinThenYield returns a wait function for pop loops: the first spins
// calls are busy-wait hints, after which every call yields the processor.
// Each Consumer goroutine should create its own.
func SpinThenYield(spins int) func() {
	n := 0

	return func() {
		if n < spins {
			n++

			return
		}

		runtime.Gosched()
	}
}
