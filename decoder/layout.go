// Package decoder implements the discriminator registry and the
// per-protocol decoders: the functions that turn a raw payload plus an
// event.Metadata into a concrete event.Event body.
//
// Two decoding strategies are implemented for every registered layout and
// are required to agree field-for-field on every valid input (see
// dualstrategy_test.go):
//
//   - ReadFixedSafe: bounds-checked, field-by-field ("safe structural
//     decoding").
//   - ReadFixedZeroCopy: a single length pre-check against the declared
//     layout, then direct offset reads with no further validation
//     ("zero-copy positional decoding").
//
// Both return the same []Value slice shape, which the single generic
// assemble function in assemble.go turns into concrete event.Event bodies.
package decoder

import (
	"unicode/utf8"

	"github.com/dexstream/dexstream/endian"
	"github.com/dexstream/dexstream/errs"
)

// FieldKind identifies the on-wire primitive type of one Field.
type FieldKind uint8

const (
	KindBool FieldKind = iota
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindI32
	KindI64
	KindPubkey
)

// Size returns the fixed on-wire width of k, in bytes.
func (k FieldKind) Size() int {
	switch k {
	case KindBool, KindU8:
		return 1
	case KindU16:
		return 2
	case KindU32, KindI32:
		return 4
	case KindU64, KindI64:
		return 8
	case KindU128:
		return 16
	case KindPubkey:
		return 32
	default:
		return 0
	}
}

// Field declares one fixed-width on-wire field, in declaration order. Its
// offset is computed from the preceding fields by NewLayout; callers only
// supply Name and Kind.
type Field struct {
	Name string
	Kind FieldKind
}

// Layout is one protocol×event-kind byte-layout constant: an ordered field
// list, its total fixed length, and the names of any variable-length
// trailing string fields (name/symbol/URI), which follow Anchor's
// length-prefixed (u32 little-endian length + UTF-8 bytes) wire convention.
// Unused tail bytes beyond the last declared field are ignored so that a
// program upgrade appending fields never breaks existing decodes.
type Layout struct {
	Fixed     []Field
	FixedLen  int
	Tails     []string // variable-length string fields, in trailing order
	offsets   []int    // computed by NewLayout, parallel to Fixed
}

// NewLayout builds a Layout from an ordered field list and trailing string
// field names, computing each fixed field's offset from the declaration
// order.
func NewLayout(fixed []Field, tails ...string) Layout {
	l := Layout{Fixed: fixed, Tails: tails}
	l.offsets = make([]int, len(fixed))

	off := 0
	for i, f := range fixed {
		l.offsets[i] = off
		off += f.Kind.Size()
	}
	l.FixedLen = off

	return l
}

// Value holds one decoded field. Exactly one of the typed accessors is
// meaningful, selected by Kind. Value stores every payload inline rather
// than boxing it; each decode still allocates the []Value slice holding one
// Value per field.
type Value struct {
	Kind   FieldKind
	Bool   bool
	U8     uint8
	U16    uint16
	U32    uint32
	U64    uint64
	U128Lo uint64
	U128Hi uint64
	I32    int32
	I64    int64
	Pubkey [32]byte
}

// ReadFixedSafe decodes layout's fixed fields from data using a
// bounds-checked cursor: every individual field read re-validates remaining
// length and returns (nil, false) the instant it would run past the end of
// data. This is the "safe structural decoding" strategy.
func ReadFixedSafe(data []byte, layout Layout) ([]Value, bool) {
	out := make([]Value, len(layout.Fixed))
	off := 0

	for i, f := range layout.Fixed {
		n := f.Kind.Size()
		if off+n > len(data) {
			return nil, false
		}

		out[i] = readOne(f.Kind, data[off:off+n])
		off += n
	}

	return out, true
}

// ReadFixedZeroCopy decodes layout's fixed fields from data using a single
// length pre-check followed by direct offset reads with no further
// per-field validation. This is the "zero-copy positional decoding"
// strategy: offsets are precomputed by NewLayout, so every read is a direct
// slice index rather than an incrementally-advanced cursor.
func ReadFixedZeroCopy(data []byte, layout Layout) ([]Value, bool) {
	if len(data) < layout.FixedLen {
		return nil, false
	}

	out := make([]Value, len(layout.Fixed))
	for i, f := range layout.Fixed {
		off := layout.offsets[i]
		out[i] = readOne(f.Kind, data[off:off+f.Kind.Size()])
	}

	return out, true
}

// readOne decodes a single field of kind k from exactly k.Size() bytes.
func readOne(k FieldKind, b []byte) Value {
	eng := endian.GetLittleEndianEngine()

	switch k {
	case KindBool:
		return Value{Kind: k, Bool: b[0] != 0}
	case KindU8:
		return Value{Kind: k, U8: b[0]}
	case KindU16:
		return Value{Kind: k, U16: eng.Uint16(b)}
	case KindU32:
		return Value{Kind: k, U32: eng.Uint32(b)}
	case KindU64:
		return Value{Kind: k, U64: eng.Uint64(b)}
	case KindU128:
		return Value{Kind: k, U128Lo: eng.Uint64(b[:8]), U128Hi: eng.Uint64(b[8:])}
	case KindI32:
		return Value{Kind: k, I32: int32(eng.Uint32(b))}
	case KindI64:
		return Value{Kind: k, I64: int64(eng.Uint64(b))}
	case KindPubkey:
		var pk [32]byte
		copy(pk[:], b)

		return Value{Kind: k, Pubkey: pk}
	default:
		return Value{}
	}
}

// ReadTailStrings decodes count Anchor-style length-prefixed UTF-8 strings
// starting at data[off:], returning the decoded strings and the number of
// bytes consumed. It returns (nil, 0, errs.ErrTruncatedPayload) if data runs
// out before all strings are read, and (nil, 0, errs.ErrInvalidUTF8) if any
// string's bytes are not valid UTF-8. Both are decode-miss conditions, not
// panics.
func ReadTailStrings(data []byte, off, count int) ([]string, int, error) {
	eng := endian.GetLittleEndianEngine()
	out := make([]string, 0, count)
	start := off

	for range count {
		if off+4 > len(data) {
			return nil, 0, errs.ErrTruncatedPayload
		}

		n := int(eng.Uint32(data[off : off+4]))
		off += 4

		if off+n > len(data) {
			return nil, 0, errs.ErrTruncatedPayload
		}

		s := data[off : off+n]
		if !utf8.Valid(s) {
			return nil, 0, errs.ErrInvalidUTF8
		}

		out = append(out, string(s))
		off += n
	}

	return out, off - start, nil
}
