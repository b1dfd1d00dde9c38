package order

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dexstream/dexstream/event"
)

// tradeAt builds a minimal event carrying just the sequencing metadata the
// buffers key on.
func tradeAt(slot, txIndex uint64, outerIndex uint32, recvUs int64) event.Event {
	var sig event.Signature
	sig[0] = 1

	return event.Event{
		Protocol: event.ProtocolPumpFun,
		Kind:     event.KindPumpFunTrade,
		Body: event.PumpFunTrade{
			Metadata: event.Metadata{
				Signature:  sig,
				Slot:       slot,
				TxIndex:    txIndex,
				OuterIndex: outerIndex,
				RecvUs:     recvUs,
			},
			SolAmount: 1,
		},
	}
}

func metaOf(ev event.Event) event.Metadata {
	return bodyMetadata(ev.Body)
}

func txIndexes(evs []event.Event) []uint64 {
	out := make([]uint64, len(evs))
	for i, ev := range evs {
		p := event.Partial{Event: ev}
		out[i] = p.Metadata().TxIndex
	}

	return out
}

func testOpts() Options {
	return Options{Logger: zerolog.Nop()}
}

func TestModeString(t *testing.T) {
	require.Equal(t, "Unordered", Unordered.String())
	require.Equal(t, "MicroBatch", MicroBatch.String())
	require.Equal(t, "StreamingOrdered", StreamingOrdered.String())
	require.Equal(t, "Ordered", Ordered.String())
}

func TestNewSelectsMode(t *testing.T) {
	require := require.New(t)

	require.IsType(&unorderedBuffer{}, New(Unordered, testOpts()))
	require.IsType(&microBatchBuffer{}, New(MicroBatch, testOpts()))
	require.IsType(&streamingBuffer{}, New(StreamingOrdered, testOpts()))
	require.IsType(&orderedBuffer{}, New(Ordered, testOpts()))
}

func TestUnordered_PassesThroughImmediately(t *testing.T) {
	require := require.New(t)

	b := New(Unordered, testOpts())

	released := b.Push(tradeAt(100, 3, 0, 10))
	require.Len(released, 1)

	require.Empty(b.Tick(1_000_000))
	require.Empty(b.Drain())
}

func TestLessKey_SortOrder(t *testing.T) {
	require := require.New(t)

	inner := uint32(2)
	a := seqKey{slot: 1, txIndex: 1, outerIndex: 1}
	b := seqKey{slot: 1, txIndex: 1, outerIndex: 1, hasInner: true, innerIndex: inner}

	// Outer-only sorts before any inner event of the same outer index.
	require.True(lessKey(a, b))
	require.False(lessKey(b, a))

	require.True(lessKey(seqKey{slot: 1, txIndex: 9}, seqKey{slot: 2, txIndex: 0}))
	require.True(lessKey(seqKey{slot: 1, txIndex: 1}, seqKey{slot: 1, txIndex: 2}))
}
