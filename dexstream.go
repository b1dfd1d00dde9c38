// Package dexstream parses Solana DEX events out of a streaming transaction
// feed with microsecond-level end-to-end latency. Transactions flow through
// a discriminator-dispatched decoder (log lines and instruction payloads),
// a merger that reconciles the two decode paths' partial events, one of four
// ordering buffers, and a bounded, drop-on-full delivery ring.
//
// # Basic Usage
//
//	p, err := dexstream.New(
//	    config.WithOrderMode(order.MicroBatch),
//	    config.WithMetrics(true),
//	)
//	if err != nil {
//	    return err
//	}
//
//	consumer := p.NewConsumer()
//	p.Start(ctx)
//	go p.Run(ctx, source) // any txsource.Source implementation
//
//	wait := queue.SpinThenYield(1024)
//	for {
//	    ev, ok := consumer.TryPop()
//	    if !ok {
//	        wait()
//	        continue
//	    }
//	    handle(ev)
//	}
//
// The heavy lifting lives in the subpackages: decoder (discriminator
// registry and per-protocol layouts), logscan and ixwalk (the two decode
// paths), merger (partial-event reconciliation), order (the four delivery
// orderings), queue (the delivery ring), and event (the typed event model).
// This package only bundles them behind one constructor.
package dexstream

import (
	"github.com/dexstream/dexstream/clock"
	"github.com/dexstream/dexstream/config"
	"github.com/dexstream/dexstream/pipeline"
)

// New builds a ready-to-start Pipeline from functional options; with no
// options it delivers unordered events with a 100k-slot ring and metrics
// off.
func New(opts ...config.Option) (*pipeline.Pipeline, error) {
	o, err := config.New(opts...)
	if err != nil {
		return nil, err
	}

	return pipeline.New(o)
}

// NowUs returns the process-wide monotonic microsecond reading used to
// stamp transactions and measure delivery latency.
func NowUs() int64 {
	return clock.NowUs()
}
