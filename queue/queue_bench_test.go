package queue

import (
	"testing"

	"github.com/dexstream/dexstream/event"
)

func BenchmarkRing_TryPush(b *testing.B) {
	r := New(DefaultCapacity)
	ev := tradeEvent(1)

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		r.TryPush(ev)
	}
}

func BenchmarkRing_PushPop(b *testing.B) {
	r := New(1024)
	c := r.NewConsumer()
	ev := tradeEvent(1)

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		r.TryPush(ev)

		if _, ok := c.TryPop(); !ok {
			b.Fatal("pop failed")
		}
	}
}

var benchSink event.Event

func BenchmarkRing_ConcurrentPop(b *testing.B) {
	r := New(DefaultCapacity)
	c := r.NewConsumer()

	for i := range uint64(DefaultCapacity - 1) {
		r.TryPush(tradeEvent(i))
	}

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		ev, ok := c.TryPop()
		if !ok {
			b.StopTimer()

			for i := range uint64(DefaultCapacity - 1) {
				r.TryPush(tradeEvent(i))
			}

			b.StartTimer()

			continue
		}

		benchSink = ev
	}
}
