package order

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/dexstream/dexstream/event"
	"github.com/dexstream/dexstream/metrics"
)

// DefaultStreamingTimeout is how long a StreamingOrdered slot waits on a
// missing tx-index before advancing past the gap.
const DefaultStreamingTimeout = 50 * time.Millisecond

// streamSlot tracks one slot's delivery watermark and its gap-buffered
// transactions.
type streamSlot struct {
	// nextTx is the highest tx-index released so far (the watermark). Events
	// at or below it pass straight through, an event for nextTx+1 advances
	// it, and events further above buffer until the gap closes or times out.
	nextTx  uint64
	pending map[uint64][]item
}

// streamingBuffer releases each slot's events in tx-index order as they
// arrive, buffering only when a tx-index gap appears. A gap older than the
// flush timeout is abandoned: everything buffered up to the newest expired
// tx-index is released in order and the watermark jumps past it, so one
// dropped transaction can never stall a slot indefinitely.
type streamingBuffer struct {
	mu

	timeout time.Duration
	metrics *metrics.Recorder
	log     zerolog.Logger

	slots   map[uint64]*streamSlot
	maxSlot uint64
}

func newStreamingOrdered(opts Options) *streamingBuffer {
	timeout := opts.FlushTimeout
	if timeout <= 0 {
		timeout = DefaultStreamingTimeout
	}

	return &streamingBuffer{
		timeout: timeout,
		metrics: opts.Metrics,
		log:     opts.Logger,
		slots:   make(map[uint64]*streamSlot),
	}
}

func (b *streamingBuffer) Push(ev event.Event) []event.Event {
	b.Lock()
	defer b.Unlock()

	k := keyOf(ev)
	recv := bodyMetadata(ev.Body).RecvUs

	st, ok := b.slots[k.slot]
	if !ok {
		// First event of the slot anchors the watermark at its own tx-index.
		st = &streamSlot{nextTx: k.txIndex, pending: make(map[uint64][]item)}
		b.slots[k.slot] = st

		if k.slot > b.maxSlot {
			b.maxSlot = k.slot
		}

		return []event.Event{ev}
	}

	// At or below the watermark: this transaction is already releasing, pass
	// the event straight through.
	if k.txIndex <= st.nextTx {
		return []event.Event{ev}
	}

	// One transaction's events always reach the buffer contiguously (the
	// pipeline decodes a transaction to completion before starting the
	// next), so the first event of tx N+1 proves tx N is finished.
	if k.txIndex == st.nextTx+1 {
		st.nextTx = k.txIndex
		out := []event.Event{ev}

		return append(out, b.releaseReadyLocked(st)...)
	}

	st.pending[k.txIndex] = append(st.pending[k.txIndex], item{ev: ev, key: k, arrivedUs: recv})

	return nil
}

// releaseReadyLocked drains pending transactions that have become contiguous
// with the watermark. Caller holds b.mu.
func (b *streamingBuffer) releaseReadyLocked(st *streamSlot) []event.Event {
	var out []event.Event

	for {
		items, ok := st.pending[st.nextTx+1]
		if !ok {
			return out
		}

		delete(st.pending, st.nextTx+1)
		st.nextTx++

		out = append(out, eventsOf(sortItems(items))...)
	}
}

func (b *streamingBuffer) Tick(nowUs int64) []event.Event {
	b.Lock()
	defer b.Unlock()

	var out []event.Event

	for slot, st := range b.slots {
		if len(st.pending) == 0 {
			// A quiet slot older than the newest seen is finished; forget its
			// watermark so the map stays bounded by in-flight slot count.
			if slot < b.maxSlot {
				delete(b.slots, slot)
			}

			continue
		}

		released := b.expireLocked(st, nowUs)
		if len(released) > 0 {
			b.metrics.OrderingTimeout(StreamingOrdered.String())
			b.log.Debug().Uint64("slot", slot).Int("events", len(released)).
				Msg("streaming gap timeout, advancing watermark")

			out = append(out, released...)
		}
	}

	return out
}

// expireLocked abandons gaps older than the timeout: it finds the newest
// pending tx-index whose first event has waited past the deadline, then
// releases every pending tx up to and including it, in tx order, so emitted
// tx-indexes stay monotone. Caller holds b.mu.
func (b *streamingBuffer) expireLocked(st *streamSlot, nowUs int64) []event.Event {
	deadline := nowUs - b.timeout.Microseconds()

	var maxExpired uint64

	expired := false
	for tx, items := range st.pending {
		if items[0].arrivedUs <= deadline && tx > maxExpired {
			maxExpired = tx
			expired = true
		}
	}

	if !expired {
		return nil
	}

	var flush []item

	for tx, items := range st.pending {
		if tx <= maxExpired {
			flush = append(flush, items...)
			delete(st.pending, tx)
		}
	}

	st.nextTx = maxExpired

	out := eventsOf(sortItems(flush))

	return append(out, b.releaseReadyLocked(st)...)
}

func (b *streamingBuffer) Drain() []event.Event {
	b.Lock()
	defer b.Unlock()

	var all []item

	for slot, st := range b.slots {
		for _, items := range st.pending {
			all = append(all, items...)
		}

		delete(b.slots, slot)
	}

	return eventsOf(sortItems(all))
}
