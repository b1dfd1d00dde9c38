// Package merger reconciles the partial events logscan and ixwalk produce
// for the same transaction into complete events. Two
// partials pair when they agree on protocol, kind, signature, and
// outer-instruction index; a paired outer+inner pair is combined via
// event.Combine, and an unpaired partial is emitted as-is.
package merger

import (
	"github.com/dexstream/dexstream/event"
	"github.com/dexstream/dexstream/metrics"
)

// pairKey identifies the logical operation a partial belongs to.
type pairKey struct {
	protocol  event.Protocol
	kind      event.Kind
	signature event.Signature
	outerIdx  uint32
}

func keyOf(p event.Partial) pairKey {
	m := p.Metadata()

	return pairKey{
		protocol:  p.Event.Protocol,
		kind:      p.Event.Kind,
		signature: m.Signature,
		outerIdx:  m.OuterIndex,
	}
}

// Merger reconciles partial events into complete events.
type Merger struct {
	metrics *metrics.Recorder
}

// New creates a Merger.
func New(opts ...Option) *Merger {
	m := &Merger{}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Option configures a Merger.
type Option func(*Merger)

// WithMetrics attaches a metrics.Recorder.
func WithMetrics(r *metrics.Recorder) Option {
	return func(m *Merger) { m.metrics = r }
}

// Merge groups partials by pairKey and combines each group. A group of one
// partial is emitted unchanged (e.g. PumpFunTrade, which is log-only).
// A group of two partials combines via event.Combine; a combine failure
// (type or key mismatch — should not happen for partials that shared a
// pairKey, but decoder bugs or a protocol upgrade could produce it) falls
// back to emitting both partials' events separately and counts a
// merge-mismatch. A group of more than two partials emits every partial
// unchanged and counts one mismatch for every partial in it, since the pairing
// rule only has a combine rule for exactly two.
//
// Merge preserves the relative order partials were passed in: each group's
// output is emitted at the position of the group's first-seen partial.
func (m *Merger) Merge(partials []event.Partial) []event.Event {
	type group struct {
		key   pairKey
		items []event.Partial
	}

	order := make([]pairKey, 0, len(partials))
	groups := make(map[pairKey]*group, len(partials))

	for _, p := range partials {
		k := keyOf(p)

		g, ok := groups[k]
		if !ok {
			g = &group{key: k}
			groups[k] = g
			order = append(order, k)
		}

		g.items = append(g.items, p)
	}

	out := make([]event.Event, 0, len(partials))

	for _, k := range order {
		g := groups[k]

		switch len(g.items) {
		case 1:
			out = append(out, g.items[0].Event)
		case 2:
			merged, ok := event.Combine(g.items[0], g.items[1])
			if !ok {
				m.metrics.MergeMismatch(g.items[0].Event.Protocol.String())
				out = append(out, g.items[0].Event, g.items[1].Event)

				continue
			}

			m.metrics.MergeSuccess(merged.Protocol.String())
			out = append(out, merged)
		default:
			for _, item := range g.items {
				out = append(out, item.Event)
				m.metrics.MergeMismatch(item.Event.Protocol.String())
			}
		}
	}

	return out
}
