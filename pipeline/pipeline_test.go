package pipeline

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dexstream/dexstream/clock"
	"github.com/dexstream/dexstream/config"
	"github.com/dexstream/dexstream/decoder"
	"github.com/dexstream/dexstream/event"
	"github.com/dexstream/dexstream/order"
	"github.com/dexstream/dexstream/queue"
	"github.com/dexstream/dexstream/txsource"
)

// chanSource adapts a prepared transaction list to the Source contract.
type chanSource struct {
	txs []txsource.Transaction
}

func (s *chanSource) Stream(_ context.Context) (<-chan txsource.Transaction, error) {
	out := make(chan txsource.Transaction, len(s.txs))
	for _, tx := range s.txs {
		out <- tx
	}

	close(out)

	return out, nil
}

func sigOf(b byte) event.Signature {
	var sig event.Signature
	sig[0] = b

	return sig
}

func pkOf(b byte) event.Pubkey {
	var key event.Pubkey
	key[0] = b

	return key
}

// tradeLogTx builds a transaction whose only decodable content is a PumpFun
// Trade program-data log line.
func tradeLogTx(t *testing.T, slot, txIndex uint64, solAmount uint64) txsource.Transaction {
	t.Helper()

	key, ok := decoder.KeyForOuter(event.ProtocolPumpFun, event.KindPumpFunTrade)
	require.True(t, ok)

	u64b := func(n uint64) []byte {
		out := make([]byte, 8)
		binary.LittleEndian.PutUint64(out, n)

		return out
	}

	var payload []byte
	payload = append(payload, key[:]...)
	payload = append(payload, make([]byte, 96)...) // Mint, Bonding, User all zero
	payload = append(payload, u64b(solAmount)...)
	payload = append(payload, u64b(2*solAmount)...)
	payload = append(payload, 1, 0)
	payload = append(payload, make([]byte, 32)...) // reserve fields zero

	return txsource.Transaction{
		Signature: sigOf(byte(txIndex + 1)),
		Slot:      slot,
		TxIndex:   txIndex,
		Meta: txsource.TransactionMeta{
			LogMessages: []string{"Program data: " + base64.StdEncoding.EncodeToString(payload)},
		},
	}
}

// migrateTx builds the outer+inner pair: an outer migrate instruction whose
// account list carries (user, mint, pool) and an inner CPI event carrying
// the settled amounts.
func migrateTx(t *testing.T) txsource.Transaction {
	t.Helper()

	outerKey, ok := decoder.KeyForOuter(event.ProtocolPumpFun, event.KindPumpFunMigrate)
	require.True(t, ok)

	innerKey, ok := decoder.KeyForInner(event.ProtocolPumpFun, event.KindPumpFunMigrate)
	require.True(t, ok)

	var innerData []byte
	innerData = append(innerData, innerKey[:]...)
	pk2 := pkOf(2)
	innerData = append(innerData, pk2[:]...)
	mintAmount := make([]byte, 8)
	binary.LittleEndian.PutUint64(mintAmount, 500)
	innerData = append(innerData, mintAmount...)
	solAmount := make([]byte, 8)
	binary.LittleEndian.PutUint64(solAmount, 1_000_000)
	innerData = append(innerData, solAmount...)

	return txsource.Transaction{
		Signature: sigOf(42),
		Slot:      50,
		TxIndex:   3,
		Message: txsource.TransactionMessage{
			AccountKeys: txsource.AccountKeys{
				Static: []event.Pubkey{pkOf(1), pkOf(2), pkOf(3)},
			},
			Instructions: []txsource.CompiledInstruction{{
				AccountIndexes: []uint8{0, 1, 2},
				Data:           outerKey[:],
			}},
		},
		Meta: txsource.TransactionMeta{
			InnerInstructions: []txsource.InnerInstructionSet{
				{Index: 0, Instructions: []txsource.CompiledInstruction{{Data: innerData}}},
			},
		},
	}
}

func popAll(c *queue.Consumer, want int) []event.Event {
	var out []event.Event

	wait := queue.SpinThenYield(64)
	deadline := time.Now().Add(2 * time.Second)

	for len(out) < want && time.Now().Before(deadline) {
		ev, ok := c.TryPop()
		if !ok {
			wait()
			continue
		}

		out = append(out, ev)
	}

	return out
}

func TestPipeline_LogOnlyTradeEndToEnd(t *testing.T) {
	require := require.New(t)

	p, err := New(nil)
	require.NoError(err)

	c := p.NewConsumer()
	p.Start(context.Background())

	p.Process(tradeLogTx(t, 100, 0, 1000))
	require.NoError(p.Stop())

	evs := popAll(c, 1)
	require.Len(evs, 1)

	trade, ok := evs[0].Body.(event.PumpFunTrade)
	require.True(ok)
	require.Equal(uint64(1000), trade.SolAmount)
	require.Equal(uint64(2000), trade.TokenAmount)
	require.True(trade.IsBuy)
	require.False(trade.IsCreatedBuy)
	require.Equal(event.Pubkey{}, trade.Mint)

	// The receive stamp was taken before delivery, on the same clock.
	require.NotZero(trade.Metadata.RecvUs)
	require.LessOrEqual(trade.Metadata.RecvUs, clock.NowUs())
}

func TestPipeline_MigrateMergesOuterAndInner(t *testing.T) {
	require := require.New(t)

	p, err := New(nil)
	require.NoError(err)

	c := p.NewConsumer()
	p.Start(context.Background())

	p.Process(migrateTx(t))
	require.NoError(p.Stop())

	evs := popAll(c, 1)
	require.Len(evs, 1)

	migrate, ok := evs[0].Body.(event.PumpFunMigrate)
	require.True(ok)
	require.Equal(pkOf(1), migrate.User)
	require.Equal(pkOf(2), migrate.Mint)
	require.Equal(pkOf(3), migrate.Pool)
	require.Equal(uint64(500), migrate.MintAmount)
	require.Equal(uint64(1_000_000), migrate.SolAmount)

	// Metadata comes from the outer partial.
	require.Equal(uint32(0), migrate.Metadata.OuterIndex)
	require.Nil(migrate.Metadata.InnerIndex)
}

func TestPipeline_RunConsumesStream(t *testing.T) {
	require := require.New(t)

	p, err := New(nil)
	require.NoError(err)

	c := p.NewConsumer()

	ctx := context.Background()
	p.Start(ctx)

	src := &chanSource{txs: []txsource.Transaction{
		tradeLogTx(t, 100, 0, 10),
		tradeLogTx(t, 100, 1, 20),
		tradeLogTx(t, 100, 2, 30),
	}}

	require.NoError(p.Run(ctx, src))
	require.NoError(p.Stop())

	require.Len(popAll(c, 3), 3)
}

func TestPipeline_TransactionFilterSkips(t *testing.T) {
	require := require.New(t)

	opts, err := config.New(
		config.WithTransactionFilter(func(tx txsource.Transaction) bool { return tx.Slot != 100 }),
	)
	require.NoError(err)

	p, err := New(opts)
	require.NoError(err)

	c := p.NewConsumer()
	p.Start(context.Background())

	p.Process(tradeLogTx(t, 100, 0, 10)) // filtered out
	p.Process(tradeLogTx(t, 101, 0, 20))
	require.NoError(p.Stop())

	evs := popAll(c, 1)
	require.Len(evs, 1)
	require.Equal(uint64(20), evs[0].Body.(event.PumpFunTrade).SolAmount)
}

func TestPipeline_AccountFilterSkips(t *testing.T) {
	require := require.New(t)

	opts, err := config.New(
		config.WithAccountFilter(func(key event.Pubkey) bool { return key == pkOf(2) }),
	)
	require.NoError(err)

	p, err := New(opts)
	require.NoError(err)

	c := p.NewConsumer()
	p.Start(context.Background())

	// The trade-log tx has no account keys at all, so no key passes.
	p.Process(tradeLogTx(t, 100, 0, 10))
	// The migrate tx references pkOf(2).
	p.Process(migrateTx(t))
	require.NoError(p.Stop())

	evs := popAll(c, 1)
	require.Len(evs, 1)
	require.IsType(event.PumpFunMigrate{}, evs[0].Body)
}

func TestPipeline_EventTypeFilterSkipsKind(t *testing.T) {
	require := require.New(t)

	opts, err := config.New(
		config.WithEventTypeFilter(config.ExcludeEventTypes(
			config.EventType{Protocol: event.ProtocolPumpFun, Kind: event.KindPumpFunTrade},
		)),
	)
	require.NoError(err)

	p, err := New(opts)
	require.NoError(err)

	c := p.NewConsumer()
	p.Start(context.Background())

	p.Process(tradeLogTx(t, 100, 0, 10)) // excluded kind
	p.Process(migrateTx(t))
	require.NoError(p.Stop())

	evs := popAll(c, 1)
	require.Len(evs, 1)
	require.IsType(event.PumpFunMigrate{}, evs[0].Body)
}

func TestPipeline_MicroBatchOrdersWithinWindow(t *testing.T) {
	require := require.New(t)

	opts, err := config.New(
		config.WithOrderMode(order.MicroBatch),
		config.WithMicroBatchWindow(100*time.Microsecond),
	)
	require.NoError(err)

	p, err := New(opts)
	require.NoError(err)

	c := p.NewConsumer()
	p.Start(context.Background())

	// Stamp all three inside one window placed well ahead of the clock, so
	// no tick can flush the window before the last Push lands.
	base := clock.NowUs() + int64(time.Second/time.Microsecond)
	for i, txIndex := range []uint64{3, 1, 2} {
		tx := tradeLogTx(t, 100, txIndex, 10)
		tx.RecvUs = base + int64(i*10)
		p.Process(tx)
	}

	require.NoError(p.Stop())

	evs := popAll(c, 3)
	require.Len(evs, 3)

	var got []uint64
	for _, ev := range evs {
		got = append(got, ev.Body.(event.PumpFunTrade).Metadata.TxIndex)
	}

	require.Equal([]uint64{1, 2, 3}, got)
}

func TestPipeline_SafeDecodeModeDecodesIdentically(t *testing.T) {
	require := require.New(t)

	opts, err := config.New(config.WithSafeDecode(true))
	require.NoError(err)

	p, err := New(opts)
	require.NoError(err)

	c := p.NewConsumer()
	p.Start(context.Background())

	p.Process(tradeLogTx(t, 100, 0, 77))
	require.NoError(p.Stop())

	evs := popAll(c, 1)
	require.Len(evs, 1)
	require.Equal(uint64(77), evs[0].Body.(event.PumpFunTrade).SolAmount)
}

func TestPipeline_MetricsGathererExposedWhenEnabled(t *testing.T) {
	require := require.New(t)

	opts, err := config.New(config.WithMetrics(true))
	require.NoError(err)

	p, err := New(opts)
	require.NoError(err)
	require.NotNil(p.Gatherer())

	off, err := New(nil)
	require.NoError(err)
	require.Nil(off.Gatherer())
}
