package order

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrdered_HoldsUntilSlotComplete(t *testing.T) {
	require := require.New(t)

	b := New(Ordered, testOpts())

	require.Empty(b.Push(tradeAt(100, 2, 0, 1_000_000)))
	require.Empty(b.Push(tradeAt(100, 0, 0, 1_000_010)))
	require.Empty(b.Push(tradeAt(100, 1, 0, 1_000_020)))

	sc, ok := b.(SlotCompleter)
	require.True(ok)

	released := sc.CompleteSlot(100)
	require.Equal([]uint64{0, 1, 2}, txIndexes(released))

	// A second completion of the same slot is a no-op.
	require.Empty(sc.CompleteSlot(100))
}

func TestOrdered_TimeoutFlushesSlot(t *testing.T) {
	require := require.New(t)

	b := New(Ordered, testOpts())

	require.Empty(b.Push(tradeAt(100, 1, 0, 1_000_000)))
	require.Empty(b.Push(tradeAt(100, 0, 0, 1_000_010)))

	// Below the 100ms default hold nothing flushes.
	require.Empty(b.Tick(1_000_000 + 50_000))

	released := b.Tick(1_000_000 + 101_000)
	require.Equal([]uint64{0, 1}, txIndexes(released))
}

func TestOrdered_SlotsFlushIndependently(t *testing.T) {
	require := require.New(t)

	b := New(Ordered, testOpts())

	require.Empty(b.Push(tradeAt(100, 0, 0, 1_000_000)))
	require.Empty(b.Push(tradeAt(101, 0, 0, 1_000_010)))

	sc := b.(SlotCompleter)

	released := sc.CompleteSlot(101)
	require.Len(released, 1)
	require.Equal(uint64(101), metaOf(released[0]).Slot)

	// Slot 100 is still held.
	require.Equal([]uint64{0}, txIndexes(sc.CompleteSlot(100)))
}

func TestOrdered_DrainFlushesEverything(t *testing.T) {
	require := require.New(t)

	b := New(Ordered, testOpts())

	require.Empty(b.Push(tradeAt(101, 1, 0, 1_000_000)))
	require.Empty(b.Push(tradeAt(100, 2, 0, 1_000_010)))
	require.Empty(b.Push(tradeAt(100, 1, 0, 1_000_020)))

	released := b.Drain()
	require.Len(released, 3)
	require.Equal(uint64(100), metaOf(released[0]).Slot)
	require.Equal(uint64(1), metaOf(released[0]).TxIndex)
	require.Equal(uint64(101), metaOf(released[2]).Slot)
}

func TestOrdered_SortWithinSlotUsesInstructionIndexes(t *testing.T) {
	require := require.New(t)

	b := New(Ordered, testOpts())

	require.Empty(b.Push(tradeAt(100, 0, 2, 1_000_000)))
	require.Empty(b.Push(tradeAt(100, 0, 0, 1_000_010)))
	require.Empty(b.Push(tradeAt(100, 0, 1, 1_000_020)))

	released := b.(SlotCompleter).CompleteSlot(100)
	require.Len(released, 3)

	for i := 1; i < len(released); i++ {
		require.LessOrEqual(metaOf(released[i-1]).OuterIndex, metaOf(released[i]).OuterIndex)
	}
}
