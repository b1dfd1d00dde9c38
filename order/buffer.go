// Package order implements the four delivery-ordering modes: Unordered (no
// buffering), MicroBatch (fixed time windows flushed in sort-key order),
// StreamingOrdered (contiguous tx-index delivery within a slot, with a gap
// timeout), and Ordered (whole slots held until declared complete or a
// timeout forces them through).
//
// Every mode shares one shape: a buffers map, Push returning newly-ready
// events, a Tick for timer-driven releases, and a Drain for shutdown. All
// four are driven by a single owning Runner task.
package order

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dexstream/dexstream/event"
	"github.com/dexstream/dexstream/metrics"
)

// Mode selects one of the four ordering behaviors.
type Mode int

const (
	Unordered Mode = iota
	MicroBatch
	StreamingOrdered
	Ordered
)

func (m Mode) String() string {
	switch m {
	case Unordered:
		return "Unordered"
	case MicroBatch:
		return "MicroBatch"
	case StreamingOrdered:
		return "StreamingOrdered"
	case Ordered:
		return "Ordered"
	default:
		return "Unknown"
	}
}

// seqKey is the delivery-order sort key: slot, then transaction index
// within the slot, then outer-instruction index, then inner-instruction
// index (an outer-only event's InnerIndex sorts before any inner partial
// of the same outer index — relevant only for the rare event, such as a
// standalone DLMM CPI event, that reaches order without having been paired
// by merger).
type seqKey struct {
	slot       uint64
	txIndex    uint64
	outerIndex uint32
	hasInner   bool
	innerIndex uint32
}

func keyOf(ev event.Event) seqKey {
	m := bodyMetadata(ev.Body)
	k := seqKey{slot: m.Slot, txIndex: m.TxIndex, outerIndex: m.OuterIndex}

	if m.InnerIndex != nil {
		k.hasInner = true
		k.innerIndex = *m.InnerIndex
	}

	return k
}

func bodyMetadata(body any) event.Metadata {
	p := event.Partial{Event: event.Event{Body: body}}
	return p.Metadata()
}

func lessKey(a, b seqKey) bool {
	if a.slot != b.slot {
		return a.slot < b.slot
	}

	if a.txIndex != b.txIndex {
		return a.txIndex < b.txIndex
	}

	if a.outerIndex != b.outerIndex {
		return a.outerIndex < b.outerIndex
	}

	if a.hasInner != b.hasInner {
		return !a.hasInner // outer-only sorts before any inner partial of the same index
	}

	return a.innerIndex < b.innerIndex
}

// item is one buffered event awaiting release.
type item struct {
	ev        event.Event
	key       seqKey
	arrivedUs int64
}

// Buffer is the common interface every ordering mode implements. Push adds
// one decoded-and-merged event and returns whatever the mode determines is
// now safe to deliver; the returned slice may be empty. Tick is called
// periodically so a mode with a timeout-driven flush (MicroBatch,
// StreamingOrdered, Ordered) can release events even when no new Push
// arrives. Drain flushes everything buffered, in the mode's delivery
// order, for graceful shutdown.
type Buffer interface {
	Push(ev event.Event) []event.Event
	Tick(nowUs int64) []event.Event
	Drain() []event.Event
}

// Options configures a Buffer constructor.
type Options struct {
	// FlushTimeout bounds how long an item may sit buffered before a Tick
	// forces it out regardless of ordering completeness. Zero selects the
	// mode's default (DefaultStreamingTimeout / DefaultOrderedTimeout).
	FlushTimeout time.Duration
	// MicroBatchWindow is the MicroBatch mode's window width; zero selects
	// DefaultMicroBatchWindow.
	MicroBatchWindow time.Duration
	Metrics          *metrics.Recorder
	Logger           zerolog.Logger
}

// New constructs a Buffer for mode. Callers that don't want logging should
// pass zerolog.Nop() (the zero value panics on some write paths), not a
// zero-value Options.
func New(mode Mode, opts Options) Buffer {
	switch mode {
	case Unordered:
		return newUnordered()
	case MicroBatch:
		return newMicroBatch(opts)
	case StreamingOrdered:
		return newStreamingOrdered(opts)
	case Ordered:
		return newOrdered(opts)
	default:
		return newUnordered()
	}
}

// sortItems sorts items in place by seqKey and returns the same slice.
// Buffers are small (bounded by in-flight slot count), so sorting at flush
// time beats maintaining order on every insert.
func sortItems(items []item) []item {
	sort.SliceStable(items, func(i, j int) bool { return lessKey(items[i].key, items[j].key) })

	return items
}

// mu is embedded by every stateful buffer implementation to guard its map
// and slices, so Push/Tick/Drain stay safe when a buffer is driven directly
// rather than through a Runner (a Runner already calls them all from its
// one owning goroutine).
type mu struct {
	sync.Mutex
}
