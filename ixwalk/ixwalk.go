// Package ixwalk implements the instruction-path decoder:
// it walks a transaction's outer instructions and their CPI'd inner
// instructions and dispatches each one's data through the shared
// decoder.Registry by discriminator alone — the outer table for
// outer-instruction opcodes, the inner table for CPI events. The
// instruction's program ID (ProgramIDIndex) is not consulted.
package ixwalk

import (
	"github.com/dexstream/dexstream/decoder"
	"github.com/dexstream/dexstream/event"
	"github.com/dexstream/dexstream/internal/discrim"
	"github.com/dexstream/dexstream/metrics"
	"github.com/dexstream/dexstream/txsource"
)

// Walker decodes the instruction-path partials for one transaction.
type Walker struct {
	reg     *decoder.Registry
	metrics *metrics.Recorder
	allow   func(protocol event.Protocol, kind event.Kind) bool
}

// New creates a Walker against the given registry.
func New(reg *decoder.Registry, opts ...Option) *Walker {
	w := &Walker{reg: reg}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Option configures a Walker.
type Option func(*Walker)

// WithMetrics attaches a metrics.Recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(w *Walker) { w.metrics = m }
}

// WithEventFilter installs an allow predicate consulted after discriminator
// lookup but before the decode itself runs.
func WithEventFilter(allow func(protocol event.Protocol, kind event.Kind) bool) Option {
	return func(w *Walker) { w.allow = allow }
}

// Walk decodes every outer instruction and every inner (CPI) instruction in
// tx, stamping meta.OuterIndex and meta.InnerIndex on each resulting
// partial so merger.Merge can pair them. meta's other fields (Signature,
// Slot, RecvUs, ...) are supplied by the caller and copied onto every
// partial unchanged.
func (w *Walker) Walk(tx txsource.Transaction, meta event.Metadata) []event.Partial {
	var out []event.Partial

	for outerIdx, ix := range tx.Message.Instructions {
		m := meta
		m.OuterIndex = uint32(outerIdx) //nolint:gosec // instruction indexes fit in uint32

		if p, ok := w.decodeOuter(ix, tx.Message.AccountKeys, m); ok {
			out = append(out, p)
		}
	}

	for _, set := range tx.Meta.InnerInstructions {
		for innerIdx, ix := range set.Instructions {
			m := meta
			m.OuterIndex = uint32(set.Index)

			idx := uint32(innerIdx) //nolint:gosec
			m.InnerIndex = &idx

			if p, ok := w.decodeInner(ix, m); ok {
				out = append(out, p)
			}
		}
	}

	return out
}

func (w *Walker) decodeOuter(ix txsource.CompiledInstruction, keys txsource.AccountKeys, meta event.Metadata) (event.Partial, bool) {
	if len(ix.Data) < 8 {
		w.metrics.DecodeMiss("outer")
		return event.Partial{}, false
	}

	var key discrim.Key8
	copy(key[:], ix.Data[:8])

	entry, ok := w.reg.LookupOuter(key)
	if !ok {
		w.metrics.DecodeMiss("outer")
		return event.Partial{}, false
	}

	if w.allow != nil && !w.allow(entry.Protocol, entry.Kind) {
		return event.Partial{}, false
	}

	ev, ok := entry.Decode(ix.Data[8:], meta)
	if !ok {
		w.metrics.DecodeTruncation(entry.Protocol.String())
		return event.Partial{}, false
	}

	// Account context lives in the instruction's account-index array, not
	// its data bytes; resolve each declared position against the full key
	// vector.
	ev = decoder.ApplyAccounts(ev, entry.Accounts, func(pos int) (event.Pubkey, bool) {
		if pos >= len(ix.AccountIndexes) {
			return event.Pubkey{}, false
		}

		return keys.Resolve(ix.AccountIndexes[pos])
	})

	w.metrics.DecodeHit(entry.Protocol.String())

	return event.Partial{Event: ev, Source: event.SourceOuter}, true
}

func (w *Walker) decodeInner(ix txsource.CompiledInstruction, meta event.Metadata) (event.Partial, bool) {
	if len(ix.Data) < 16 || !decoder.VerifyInnerMagic([8]byte(ix.Data[8:16])) {
		w.metrics.DecodeMiss("inner")
		return event.Partial{}, false
	}

	var key discrim.Key16
	copy(key[:], ix.Data[:16])

	entry, ok := w.reg.LookupInner(key)
	if !ok {
		w.metrics.DecodeMiss("inner")
		return event.Partial{}, false
	}

	if w.allow != nil && !w.allow(entry.Protocol, entry.Kind) {
		return event.Partial{}, false
	}

	ev, ok := entry.Decode(ix.Data[16:], meta)
	if !ok {
		w.metrics.DecodeTruncation(entry.Protocol.String())
		return event.Partial{}, false
	}

	w.metrics.DecodeHit(entry.Protocol.String())

	return event.Partial{Event: ev, Source: event.SourceInner}, true
}
