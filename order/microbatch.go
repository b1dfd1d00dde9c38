package order

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/dexstream/dexstream/event"
	"github.com/dexstream/dexstream/metrics"
)

// DefaultMicroBatchWindow is the micro-batch window width when Options
// leaves it unset.
const DefaultMicroBatchWindow = 100 * time.Microsecond

// microBatchBuffer accumulates events into a fixed-width time window keyed
// by receive timestamp. The first event of a window anchors it; an event
// whose receive timestamp lands past the window's end flushes the
// accumulated batch — sorted by (slot, tx-index, outer-index, inner-index) —
// and opens the next window anchored at that event. A window that no later
// Push closes is flushed by the first Tick at or after its end, so added
// latency is bounded by the window width plus the interval between Ticks
// (DefaultTickInterval under a Runner), not by the window width alone.
type microBatchBuffer struct {
	mu

	windowUs int64
	metrics  *metrics.Recorder
	log      zerolog.Logger

	items       []item
	windowEndUs int64
}

func newMicroBatch(opts Options) *microBatchBuffer {
	window := opts.MicroBatchWindow
	if window <= 0 {
		window = DefaultMicroBatchWindow
	}

	return &microBatchBuffer{
		windowUs: window.Microseconds(),
		metrics:  opts.Metrics,
		log:      opts.Logger,
	}
}

func (b *microBatchBuffer) Push(ev event.Event) []event.Event {
	b.Lock()
	defer b.Unlock()

	k := keyOf(ev)
	recv := bodyMetadata(ev.Body).RecvUs

	var released []event.Event

	if len(b.items) == 0 {
		b.windowEndUs = recv + b.windowUs
	} else if recv > b.windowEndUs {
		released = b.flushLocked()
		b.windowEndUs = recv + b.windowUs
	}

	b.items = append(b.items, item{ev: ev, key: k, arrivedUs: recv})

	return released
}

func (b *microBatchBuffer) Tick(nowUs int64) []event.Event {
	b.Lock()
	defer b.Unlock()

	if len(b.items) == 0 || nowUs < b.windowEndUs {
		return nil
	}

	return b.flushLocked()
}

func (b *microBatchBuffer) Drain() []event.Event {
	b.Lock()
	defer b.Unlock()

	return b.flushLocked()
}

// flushLocked releases the current window's batch in sort-key order. Caller
// holds b.mu.
func (b *microBatchBuffer) flushLocked() []event.Event {
	if len(b.items) == 0 {
		return nil
	}

	out := eventsOf(sortItems(b.items))
	b.items = b.items[:0]

	return out
}

func eventsOf(items []item) []event.Event {
	out := make([]event.Event, len(items))
	for i, it := range items {
		out[i] = it.ev
	}

	return out
}
