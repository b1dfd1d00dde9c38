package order

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamingOrdered_GapAndTimeout(t *testing.T) {
	require := require.New(t)

	b := New(StreamingOrdered, testOpts())

	// Tx-indexes 0 and 1 arrive in order and emit immediately.
	require.Equal([]uint64{0}, txIndexes(b.Push(tradeAt(100, 0, 0, 1_000_000))))
	require.Equal([]uint64{1}, txIndexes(b.Push(tradeAt(100, 1, 0, 1_000_100))))

	// Tx-index 3 arrives but 2 is missing; it buffers.
	require.Empty(b.Push(tradeAt(100, 3, 0, 1_000_200)))

	// Before the 50ms stall cutoff nothing moves.
	require.Empty(b.Tick(1_000_200 + 10_000))

	// After the cutoff the gap is abandoned and 3 emits without 2.
	released := b.Tick(1_000_200 + 51_000)
	require.Equal([]uint64{3}, txIndexes(released))

	// The watermark advanced past the gap: tx 4 now flows straight through.
	require.Equal([]uint64{4}, txIndexes(b.Push(tradeAt(100, 4, 0, 1_060_000))))
}

func TestStreamingOrdered_ContiguousNoGaps(t *testing.T) {
	require := require.New(t)

	b := New(StreamingOrdered, testOpts())

	var emitted []uint64
	for tx := uint64(0); tx < 5; tx++ {
		emitted = append(emitted, txIndexes(b.Push(tradeAt(100, tx, 0, int64(1_000_000+tx*10))))...)
	}

	// Without a timeout firing, emission is strictly monotone with no gaps.
	require.Equal([]uint64{0, 1, 2, 3, 4}, emitted)
	require.Empty(b.Drain())
}

func TestStreamingOrdered_BufferedTxReleasesWhenGapCloses(t *testing.T) {
	require := require.New(t)

	b := New(StreamingOrdered, testOpts())

	require.Equal([]uint64{0}, txIndexes(b.Push(tradeAt(100, 0, 0, 1_000_000))))
	require.Empty(b.Push(tradeAt(100, 2, 0, 1_000_010)))
	require.Empty(b.Push(tradeAt(100, 2, 1, 1_000_020)))

	// Tx 1 closes the gap: it emits, then tx 2's buffered events follow in
	// outer-index order.
	released := b.Push(tradeAt(100, 1, 0, 1_000_030))
	require.Equal([]uint64{1, 2, 2}, txIndexes(released))

	first := metaOf(released[1])
	second := metaOf(released[2])
	require.Less(first.OuterIndex, second.OuterIndex)
}

func TestStreamingOrdered_MultipleEventsSameTxPassThrough(t *testing.T) {
	require := require.New(t)

	b := New(StreamingOrdered, testOpts())

	require.Len(b.Push(tradeAt(100, 0, 0, 1_000_000)), 1)
	require.Len(b.Push(tradeAt(100, 0, 1, 1_000_001)), 1)
	require.Len(b.Push(tradeAt(100, 0, 2, 1_000_002)), 1)
}

func TestStreamingOrdered_SlotsAreIndependent(t *testing.T) {
	require := require.New(t)

	b := New(StreamingOrdered, testOpts())

	require.Len(b.Push(tradeAt(100, 0, 0, 1_000_000)), 1)
	// A new slot anchors its own watermark at its first tx-index.
	require.Len(b.Push(tradeAt(101, 5, 0, 1_000_010)), 1)
	require.Len(b.Push(tradeAt(101, 6, 0, 1_000_020)), 1)
}

func TestStreamingOrdered_DrainFlushesPending(t *testing.T) {
	require := require.New(t)

	b := New(StreamingOrdered, testOpts())

	require.Len(b.Push(tradeAt(100, 0, 0, 1_000_000)), 1)
	require.Empty(b.Push(tradeAt(100, 3, 0, 1_000_010)))
	require.Empty(b.Push(tradeAt(100, 2, 0, 1_000_020)))

	// Drain releases everything still gap-buffered, in sort-key order.
	require.Equal([]uint64{2, 3}, txIndexes(b.Drain()))
}

func TestStreamingOrdered_TickPrunesQuietOldSlots(t *testing.T) {
	require := require.New(t)

	b := newStreamingOrdered(testOpts())

	require.Len(b.Push(tradeAt(100, 0, 0, 1_000_000)), 1)
	require.Len(b.Push(tradeAt(101, 0, 0, 1_000_010)), 1)

	require.Empty(b.Tick(1_000_020))
	require.NotContains(b.slots, uint64(100))
	require.Contains(b.slots, uint64(101))
}
