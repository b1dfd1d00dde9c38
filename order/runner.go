package order

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dexstream/dexstream/clock"
	"github.com/dexstream/dexstream/event"
)

// DefaultTickInterval is how often the Runner's timer wakes the buffer so
// timeout-driven modes can flush without waiting for the next Push.
const DefaultTickInterval = 5 * time.Millisecond

// Sink receives released events, in the order the buffer released them.
// The pipeline's sink is a delivery-queue push; it must not block.
type Sink func(event.Event)

// Runner gives a Buffer the single owning task the ordering state machine
// requires: all Push, Tick, slot-completion, and drain calls are serialized
// through one goroutine, so no buffer state is ever touched from two
// goroutines at once.
type Runner struct {
	buf      Buffer
	sink     Sink
	interval time.Duration

	in       chan event.Event
	complete chan uint64
	group    *errgroup.Group
}

// NewRunner wraps buf. sink receives every released event. tickInterval <= 0
// selects DefaultTickInterval.
func NewRunner(buf Buffer, sink Sink, tickInterval time.Duration) *Runner {
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}

	return &Runner{
		buf:      buf,
		sink:     sink,
		interval: tickInterval,
		in:       make(chan event.Event, 1024),
		complete: make(chan uint64, 16),
	}
}

// Start launches the owning goroutine. It returns immediately; Stop blocks
// until the final drain has been delivered to the sink.
func (r *Runner) Start(ctx context.Context) {
	group, ctx := errgroup.WithContext(ctx)
	r.group = group

	group.Go(func() error {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case ev, ok := <-r.in:
				if !ok {
					r.drain()
					return nil
				}

				r.emit(r.buf.Push(ev))
			case slot := <-r.complete:
				if sc, ok := r.buf.(SlotCompleter); ok {
					r.emit(sc.CompleteSlot(slot))
				}
			case <-ticker.C:
				r.emit(r.buf.Tick(clock.NowUs()))
			case <-ctx.Done():
				r.drain()
				return ctx.Err()
			}
		}
	})
}

// Push hands one event to the owning goroutine. It blocks only if the
// runner's inbox is full, which means the ordering task has fallen behind
// the decoder; the inbox is sized so that never happens in steady state.
func (r *Runner) Push(ev event.Event) {
	r.in <- ev
}

// CompleteSlot forwards a source-side slot-completion signal. Only the
// Ordered mode acts on it; every other buffer ignores the signal.
func (r *Runner) CompleteSlot(slot uint64) {
	r.complete <- slot
}

// Stop closes the inbox, waits for the owning goroutine to drain the buffer
// into the sink, and returns the goroutine's exit error (nil on a clean
// close-initiated shutdown).
func (r *Runner) Stop() error {
	close(r.in)

	return r.group.Wait()
}

// drain flushes everything still buffered. Events already sitting in the
// inbox are pushed through the buffer first so nothing is lost to shutdown.
func (r *Runner) drain() {
	for {
		select {
		case ev, ok := <-r.in:
			if !ok {
				r.emit(r.buf.Drain())
				return
			}

			r.emit(r.buf.Push(ev))
		default:
			r.emit(r.buf.Drain())
			return
		}
	}
}

func (r *Runner) emit(evs []event.Event) {
	for _, ev := range evs {
		r.sink(ev)
	}
}
