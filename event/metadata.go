package event

// Metadata is embedded in every event variant. Fields populated from the
// account/instruction context default to their zero value until resolved.
//
// Invariant: every emitted event carries a non-zero Signature, Slot, and
// RecvUs (receive timestamp).
type Metadata struct {
	Signature   Signature
	Slot        uint64
	TxIndex     uint64
	BlockTimeUs *int64 // optional: absent until the slot's block time is known
	RecvUs      int64
	OuterIndex  uint32
	InnerIndex  *uint32 // optional: absent for outer-only events
}

// IsZero reports whether m is the zero Metadata (no signature stamped yet).
func (m Metadata) IsZero() bool {
	return m.Signature == Signature{} && m.Slot == 0 && m.RecvUs == 0
}
