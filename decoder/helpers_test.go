package decoder

import "encoding/binary"

// appendValue appends val's wire bytes (little-endian) to buf, mirroring
// the layouts declared in layouts.go. It exists only to build test fixtures;
// production code never encodes, it only decodes what the chain emitted.
func appendValue(buf []byte, val Value) []byte {
	switch val.Kind {
	case KindBool:
		b := byte(0)
		if val.Bool {
			b = 1
		}

		return append(buf, b)
	case KindU8:
		return append(buf, val.U8)
	case KindU16:
		return binary.LittleEndian.AppendUint16(buf, val.U16)
	case KindU32:
		return binary.LittleEndian.AppendUint32(buf, val.U32)
	case KindU64:
		return binary.LittleEndian.AppendUint64(buf, val.U64)
	case KindU128:
		buf = binary.LittleEndian.AppendUint64(buf, val.U128Lo)
		return binary.LittleEndian.AppendUint64(buf, val.U128Hi)
	case KindI32:
		return binary.LittleEndian.AppendUint32(buf, uint32(val.I32))
	case KindI64:
		return binary.LittleEndian.AppendUint64(buf, uint64(val.I64))
	case KindPubkey:
		return append(buf, val.Pubkey[:]...)
	default:
		return buf
	}
}

func appendTailString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func pkVal(b byte) Value {
	var pk [32]byte
	pk[0] = b

	return Value{Kind: KindPubkey, Pubkey: pk}
}

func u64Val(n uint64) Value  { return Value{Kind: KindU64, U64: n} }
func boolVal(b bool) Value   { return Value{Kind: KindBool, Bool: b} }
func i32Val(n int32) Value   { return Value{Kind: KindI32, I32: n} }
func u128Val(lo, hi uint64) Value { return Value{Kind: KindU128, U128Lo: lo, U128Hi: hi} }
