package order

import "github.com/dexstream/dexstream/event"

// unorderedBuffer delivers every event immediately, in arrival order. It is
// the lowest-latency mode, for consumers that do their own re-ordering (or
// don't need one) downstream.
type unorderedBuffer struct{}

func newUnordered() *unorderedBuffer { return &unorderedBuffer{} }

func (b *unorderedBuffer) Push(ev event.Event) []event.Event { return []event.Event{ev} }

func (b *unorderedBuffer) Tick(_ int64) []event.Event { return nil }

func (b *unorderedBuffer) Drain() []event.Event { return nil }
