// Package pipeline assembles the full parsing path: transactions in from a
// txsource.Source, through the log-path and instruction-path decoders, the
// partial-event merger, the configured ordering buffer, and out through the
// delivery ring. One transaction is decoded to completion on the goroutine
// that received it; the hand-off into the ordering runner is the only
// goroutine boundary.
package pipeline

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/dexstream/dexstream/clock"
	"github.com/dexstream/dexstream/config"
	"github.com/dexstream/dexstream/decoder"
	"github.com/dexstream/dexstream/event"
	"github.com/dexstream/dexstream/ixwalk"
	"github.com/dexstream/dexstream/logscan"
	"github.com/dexstream/dexstream/merger"
	"github.com/dexstream/dexstream/metrics"
	"github.com/dexstream/dexstream/order"
	"github.com/dexstream/dexstream/queue"
	"github.com/dexstream/dexstream/txsource"
)

// Pipeline wires the decode stages to the ordering runner and the delivery
// ring. Construct with New, Start it, feed it transactions (Run against a
// Source, or Process directly), and read events from a consumer created via
// NewConsumer.
type Pipeline struct {
	opts *config.Options

	scanner *logscan.Scanner
	walker  *ixwalk.Walker
	merge   *merger.Merger
	runner  *order.Runner
	ring    *queue.Ring

	recorder *metrics.Recorder
	promReg  *prometheus.Registry
	log      zerolog.Logger
}

// New builds a Pipeline from opts. A nil opts selects config defaults.
func New(opts *config.Options) (*Pipeline, error) {
	if opts == nil {
		var err error

		opts, err = config.New()
		if err != nil {
			return nil, err
		}
	}

	p := &Pipeline{opts: opts, log: opts.Logger}

	if opts.EnableMetrics {
		p.promReg = prometheus.NewRegistry()
		p.recorder = metrics.NewRecorder(p.promReg)
	}

	allow := func(protocol event.Protocol, kind event.Kind) bool {
		return opts.EventTypeFilter.Allows(protocol, kind)
	}

	reg := decoder.Global()
	if opts.SafeDecode {
		reg = decoder.BuildRegistry(decoder.Safe)
	}

	p.scanner = logscan.New(reg,
		logscan.WithMetrics(p.recorder),
		logscan.WithLogger(p.log),
		logscan.WithEventFilter(allow),
	)
	p.walker = ixwalk.New(reg,
		ixwalk.WithMetrics(p.recorder),
		ixwalk.WithEventFilter(allow),
	)
	p.merge = merger.New(merger.WithMetrics(p.recorder))

	p.ring = queue.New(opts.DeliveryCapacity, queue.WithMetrics(p.recorder))

	buf := order.New(opts.OrderMode, order.Options{
		FlushTimeout:     opts.OrderTimeout,
		MicroBatchWindow: opts.MicroBatchWindow,
		Metrics:          p.recorder,
		Logger:           p.log,
	})
	p.runner = order.NewRunner(buf, func(ev event.Event) { p.ring.TryPush(ev) }, 0)

	return p, nil
}

// Start launches the ordering runner. Call once before Process/Run.
func (p *Pipeline) Start(ctx context.Context) {
	p.runner.Start(ctx)
}

// Stop drains the ordering buffer into the delivery ring and stops the
// runner. Events already in the ring remain poppable after Stop.
func (p *Pipeline) Stop() error {
	err := p.runner.Stop()
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// NewConsumer registers a delivery-ring consumer.
func (p *Pipeline) NewConsumer() *queue.Consumer {
	return p.ring.NewConsumer()
}

// Gatherer exposes the Prometheus registry backing the pipeline's counters,
// or nil when metrics are disabled.
func (p *Pipeline) Gatherer() prometheus.Gatherer {
	return p.promReg
}

// CompleteSlot forwards a source-side slot-completion signal to the
// ordering buffer. Only the Ordered mode acts on it.
func (p *Pipeline) CompleteSlot(slot uint64) {
	p.runner.CompleteSlot(slot)
}

// Process decodes one transaction synchronously and hands its events to the
// ordering runner. It applies the transaction and account filters, stamps
// the receive timestamp if the source didn't, scans logs, walks
// instructions, and merges the two paths' partials.
func (p *Pipeline) Process(tx txsource.Transaction) {
	if p.opts.TransactionFilter != nil && !p.opts.TransactionFilter(tx) {
		return
	}

	if !p.passesAccountFilter(tx) {
		return
	}

	recv := tx.RecvUs
	if recv == 0 {
		recv = clock.NowUs()
	}

	meta := event.Metadata{
		Signature:   tx.Signature,
		Slot:        tx.Slot,
		TxIndex:     tx.TxIndex,
		BlockTimeUs: tx.BlockTimeUs,
		RecvUs:      recv,
	}

	partials := p.scanner.Scan(tx.Meta.LogMessages, meta)
	partials = append(partials, p.walker.Walk(tx, meta)...)

	if len(partials) == 0 {
		return
	}

	for _, ev := range p.merge.Merge(partials) {
		p.runner.Push(ev)
	}
}

// Run consumes src until its stream closes or ctx is canceled. Each
// transaction is stamped on arrival and decoded to completion before the
// next is read, so one transaction's events always reach the ordering
// buffer contiguously.
func (p *Pipeline) Run(ctx context.Context, src txsource.Source) error {
	stream, err := src.Stream(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case tx, ok := <-stream:
			if !ok {
				return ctx.Err()
			}

			if tx.RecvUs == 0 {
				tx.RecvUs = clock.NowUs()
			}

			p.Process(tx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// passesAccountFilter reports whether any of tx's account keys satisfies
// the configured account filter. No filter admits everything.
func (p *Pipeline) passesAccountFilter(tx txsource.Transaction) bool {
	if p.opts.AccountFilter == nil {
		return true
	}

	keys := tx.Message.AccountKeys
	for _, set := range [][]event.Pubkey{keys.Static, keys.LookupWritable, keys.LookupReadonly} {
		for _, key := range set {
			if p.opts.AccountFilter(key) {
				return true
			}
		}
	}

	return false
}
