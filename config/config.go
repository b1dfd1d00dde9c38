// Package config holds the pipeline's runtime options, built with
// functional options so every knob has a safe default and call sites only
// name what they change.
package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dexstream/dexstream/errs"
	"github.com/dexstream/dexstream/event"
	"github.com/dexstream/dexstream/internal/options"
	"github.com/dexstream/dexstream/order"
	"github.com/dexstream/dexstream/txsource"
)

// Options is the resolved pipeline configuration. Build one with New; the
// zero value is not meaningful.
type Options struct {
	// OrderMode selects the delivery-ordering policy.
	OrderMode order.Mode
	// MicroBatchWindow is the MicroBatch window width.
	MicroBatchWindow time.Duration
	// OrderTimeout is the stall cutoff for StreamingOrdered and the
	// per-slot hold for Ordered. Zero selects the mode's own default.
	OrderTimeout time.Duration
	// DeliveryCapacity is the delivery ring's slot count.
	DeliveryCapacity int
	// EventTypeFilter restricts which (protocol, kind) pairs are decoded at
	// all; nil admits everything.
	EventTypeFilter *EventTypeFilter
	// TransactionFilter, when non-nil, is applied to every incoming
	// transaction before any decoding.
	TransactionFilter func(tx txsource.Transaction) bool
	// AccountFilter, when non-nil, admits a transaction only if at least one
	// of its account keys passes.
	AccountFilter func(key event.Pubkey) bool
	// EnableMetrics turns on the Prometheus counters.
	EnableMetrics bool
	// SafeDecode selects the bounds-checked decode strategy over the
	// zero-copy positional one.
	SafeDecode bool
	// Logger receives debug-level decode-miss and ordering-timeout lines.
	Logger zerolog.Logger
}

// Option configures Options via New.
type Option = options.Option[*Options]

// New builds an Options with defaults (Unordered delivery, 100µs micro-batch
// window, mode-default ordering timeouts, 100k delivery capacity, no
// filters, metrics off) and applies opts in order.
func New(opts ...Option) (*Options, error) {
	o := &Options{
		OrderMode:        order.Unordered,
		MicroBatchWindow: order.DefaultMicroBatchWindow,
		DeliveryCapacity: 100_000,
		Logger:           zerolog.Nop(),
	}

	if err := options.Apply(o, opts...); err != nil {
		return nil, err
	}

	return o, nil
}

// WithOrderMode selects the delivery-ordering policy.
func WithOrderMode(m order.Mode) Option {
	return options.New(func(o *Options) error {
		if m < order.Unordered || m > order.Ordered {
			return fmt.Errorf("%w: unknown order mode %d", errs.ErrInvalidConfig, m)
		}

		o.OrderMode = m

		return nil
	})
}

// WithMicroBatchWindow sets the MicroBatch window width.
func WithMicroBatchWindow(w time.Duration) Option {
	return options.New(func(o *Options) error {
		if w <= 0 {
			return fmt.Errorf("%w: micro-batch window must be positive, got %v", errs.ErrInvalidConfig, w)
		}

		o.MicroBatchWindow = w

		return nil
	})
}

// WithOrderTimeout sets the stall/hold cutoff for the StreamingOrdered and
// Ordered modes.
func WithOrderTimeout(d time.Duration) Option {
	return options.New(func(o *Options) error {
		if d <= 0 {
			return fmt.Errorf("%w: order timeout must be positive, got %v", errs.ErrInvalidConfig, d)
		}

		o.OrderTimeout = d

		return nil
	})
}

// WithDeliveryCapacity sets the delivery ring's slot count.
func WithDeliveryCapacity(n int) Option {
	return options.New(func(o *Options) error {
		if n <= 0 {
			return fmt.Errorf("%w: delivery capacity must be positive, got %d", errs.ErrInvalidConfig, n)
		}

		o.DeliveryCapacity = n

		return nil
	})
}

// WithEventTypeFilter restricts decoding to the filter's admitted
// (protocol, kind) pairs.
func WithEventTypeFilter(f *EventTypeFilter) Option {
	return options.NoError(func(o *Options) { o.EventTypeFilter = f })
}

// WithTransactionFilter applies pred to every incoming transaction before
// decoding; a false verdict skips the transaction entirely.
func WithTransactionFilter(pred func(tx txsource.Transaction) bool) Option {
	return options.NoError(func(o *Options) { o.TransactionFilter = pred })
}

// WithAccountFilter admits a transaction only if at least one account key
// passes pred.
func WithAccountFilter(pred func(key event.Pubkey) bool) Option {
	return options.NoError(func(o *Options) { o.AccountFilter = pred })
}

// WithMetrics enables the Prometheus counters.
func WithMetrics(enable bool) Option {
	return options.NoError(func(o *Options) { o.EnableMetrics = enable })
}

// WithSafeDecode selects the bounds-checked decode strategy.
func WithSafeDecode(enable bool) Option {
	return options.NoError(func(o *Options) { o.SafeDecode = enable })
}

// WithLogger attaches a logger for the debug-level diagnostics paths.
func WithLogger(l zerolog.Logger) Option {
	return options.NoError(func(o *Options) { o.Logger = l })
}
