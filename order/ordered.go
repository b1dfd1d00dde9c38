package order

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/dexstream/dexstream/event"
	"github.com/dexstream/dexstream/metrics"
)

// DefaultOrderedTimeout is how long an Ordered slot is held open waiting for
// a completion signal before being flushed anyway.
const DefaultOrderedTimeout = 100 * time.Millisecond

// SlotCompleter is implemented by buffers that hold whole slots and release
// them on an out-of-band completion signal from the transaction source.
type SlotCompleter interface {
	// CompleteSlot declares slot finished and returns its buffered events in
	// delivery order.
	CompleteSlot(slot uint64) []event.Event
}

// orderedSlot is one slot's accumulating batch.
type orderedSlot struct {
	items   []item
	firstUs int64
}

// orderedBuffer holds every event of a slot until the source declares the
// slot complete — or the slot's timeout fires — then flushes the whole slot
// sorted by (tx-index, outer-index, inner-index). The strictest and slowest
// mode: nothing from a slot is visible until the slot is done.
type orderedBuffer struct {
	mu

	timeout time.Duration
	metrics *metrics.Recorder
	log     zerolog.Logger

	slots map[uint64]*orderedSlot
}

func newOrdered(opts Options) *orderedBuffer {
	timeout := opts.FlushTimeout
	if timeout <= 0 {
		timeout = DefaultOrderedTimeout
	}

	return &orderedBuffer{
		timeout: timeout,
		metrics: opts.Metrics,
		log:     opts.Logger,
		slots:   make(map[uint64]*orderedSlot),
	}
}

func (b *orderedBuffer) Push(ev event.Event) []event.Event {
	b.Lock()
	defer b.Unlock()

	k := keyOf(ev)
	recv := bodyMetadata(ev.Body).RecvUs

	st, ok := b.slots[k.slot]
	if !ok {
		st = &orderedSlot{firstUs: recv}
		b.slots[k.slot] = st
	}

	st.items = append(st.items, item{ev: ev, key: k, arrivedUs: recv})

	return nil
}

// CompleteSlot implements SlotCompleter: the source has declared slot
// finished, so its whole batch flushes now regardless of the timeout.
func (b *orderedBuffer) CompleteSlot(slot uint64) []event.Event {
	b.Lock()
	defer b.Unlock()

	return b.flushSlotLocked(slot)
}

func (b *orderedBuffer) Tick(nowUs int64) []event.Event {
	b.Lock()
	defer b.Unlock()

	var out []event.Event

	for slot, st := range b.slots {
		if nowUs-st.firstUs < b.timeout.Microseconds() {
			continue
		}

		b.metrics.OrderingTimeout(Ordered.String())
		b.log.Debug().Uint64("slot", slot).Int("events", len(st.items)).
			Msg("ordered slot flushed by timeout")

		out = append(out, b.flushSlotLocked(slot)...)
	}

	return out
}

func (b *orderedBuffer) Drain() []event.Event {
	b.Lock()
	defer b.Unlock()

	var all []item

	for slot, st := range b.slots {
		all = append(all, st.items...)
		delete(b.slots, slot)
	}

	return eventsOf(sortItems(all))
}

// flushSlotLocked removes slot and returns its events in delivery order.
// Caller holds b.mu.
func (b *orderedBuffer) flushSlotLocked(slot uint64) []event.Event {
	st, ok := b.slots[slot]
	if !ok {
		return nil
	}

	delete(b.slots, slot)

	return eventsOf(sortItems(st.items))
}
