package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMicroBatch_FlushOrder(t *testing.T) {
	require := require.New(t)

	opts := testOpts()
	opts.MicroBatchWindow = 100 * time.Microsecond
	b := New(MicroBatch, opts)

	// Three transactions land inside one 100µs window, out of order.
	require.Empty(b.Push(tradeAt(100, 3, 0, 1_000_010)))
	require.Empty(b.Push(tradeAt(100, 1, 0, 1_000_040)))
	require.Empty(b.Push(tradeAt(100, 2, 0, 1_000_080)))

	released := b.Tick(1_000_200)
	require.Equal([]uint64{1, 2, 3}, txIndexes(released))
}

func TestMicroBatch_PushPastWindowEndFlushes(t *testing.T) {
	require := require.New(t)

	opts := testOpts()
	opts.MicroBatchWindow = 100 * time.Microsecond
	b := New(MicroBatch, opts)

	require.Empty(b.Push(tradeAt(100, 2, 0, 1_000_000)))
	require.Empty(b.Push(tradeAt(100, 1, 0, 1_000_050)))

	// This receive timestamp is past the window's end, so the first window
	// flushes and a new one opens holding only the new event.
	released := b.Push(tradeAt(100, 5, 0, 1_000_150))
	require.Equal([]uint64{1, 2}, txIndexes(released))

	require.Equal([]uint64{5}, txIndexes(b.Drain()))
}

func TestMicroBatch_SortSpansSlots(t *testing.T) {
	require := require.New(t)

	opts := testOpts()
	opts.MicroBatchWindow = time.Millisecond
	b := New(MicroBatch, opts)

	require.Empty(b.Push(tradeAt(101, 0, 0, 1_000_010)))
	require.Empty(b.Push(tradeAt(100, 7, 0, 1_000_020)))

	// Slot orders before tx-index in the flush sort.
	released := b.Drain()
	require.Len(released, 2)

	firstMeta := metaOf(released[0])
	require.Equal(uint64(100), firstMeta.Slot)
	require.Equal(uint64(7), firstMeta.TxIndex)
}

func TestMicroBatch_TickBeforeWindowEndHoldsEvents(t *testing.T) {
	require := require.New(t)

	opts := testOpts()
	opts.MicroBatchWindow = 100 * time.Microsecond
	b := New(MicroBatch, opts)

	require.Empty(b.Push(tradeAt(100, 1, 0, 1_000_000)))
	require.Empty(b.Tick(1_000_050))
	require.Len(b.Tick(1_000_100), 1)
}

func TestMicroBatch_DefaultWindow(t *testing.T) {
	b := newMicroBatch(testOpts())
	require.Equal(t, DefaultMicroBatchWindow.Microseconds(), b.windowUs)
}
