package decoder

import (
	"github.com/dexstream/dexstream/event"
	"github.com/dexstream/dexstream/internal/discrim"
)

// OuterEntry is the registered handler for one 8-byte discriminator: a
// program-data log line or an outer-instruction opcode. Decode receives the
// payload bytes (already base64-decoded for the log path, or the
// instruction data tail for the outer-instruction path) and the metadata
// already stamped by logscan or ixwalk.
type OuterEntry struct {
	Protocol event.Protocol
	Kind     event.Kind
	Decode   func(data []byte, meta event.Metadata) (event.Event, bool)
	// Accounts names the struct fields resolved from the instruction's
	// account positions; empty for log-only entries.
	Accounts []string
}

// InnerEntry is the registered handler for one 16-byte CPI discriminator.
type InnerEntry struct {
	Protocol event.Protocol
	Kind     event.Kind
	Decode   func(data []byte, meta event.Metadata) (event.Event, bool)
}

// Registry holds the two immutable discriminator tables built by
// BuildRegistry: one keyed by 8-byte discriminators (shared
// by log-path program-data events and outer-instruction opcodes), one keyed
// by 16-byte discriminators (CPI/inner-instruction events).
type Registry struct {
	outer *discrim.Table[discrim.Key8, OuterEntry]
	inner *discrim.Table[discrim.Key16, InnerEntry]
}

// LookupOuter resolves an 8-byte discriminator to its registered handler.
func (r *Registry) LookupOuter(key discrim.Key8) (OuterEntry, bool) {
	return r.outer.Lookup(key)
}

// LookupInner resolves a 16-byte discriminator to its registered handler.
func (r *Registry) LookupInner(key discrim.Key16) (InnerEntry, bool) {
	return r.inner.Lookup(key)
}

// Len reports the combined number of registered outer and inner entries.
func (r *Registry) Len() int {
	return r.outer.Len() + r.inner.Len()
}

// Strategy selects which field-walk the registry's decoders run: the
// zero-copy positional walk or the bounds-checked structural one. The two
// produce identical outputs on valid input (dualstrategy_test.go); ZeroCopy
// is the production default.
type Strategy uint8

const (
	ZeroCopy Strategy = iota
	Safe
)

// BuildRegistry constructs a Registry from the spec data table in
// layouts.go, with every decoder bound to the given strategy. The returned
// Registry is immutable. Callers wanting the shared zero-copy instance
// should use Global instead.
func BuildRegistry(strategy Strategy) *Registry {
	outer, inner := buildTables(strategy)

	return &Registry{
		outer: discrim.NewTable(outer, discrim.Less8),
		inner: discrim.NewTable(inner, discrim.Less16),
	}
}

var global = BuildRegistry(ZeroCopy)

// Global returns the process-wide zero-copy Registry built from the data
// table in layouts.go. The returned Registry is immutable and safe for
// concurrent use by every decode goroutine.
func Global() *Registry { return global }
