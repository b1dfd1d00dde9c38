package decoder

import (
	"encoding/binary"

	"github.com/dexstream/dexstream/internal/discrim"
	"github.com/dexstream/dexstream/internal/hash"
)

// innerMagic is Anchor's fixed 8-byte self-CPI event tag, appended by every
// Anchor program's emit!() call ahead of the Borsh-serialized event payload
// when it re-invokes itself to log structured data via an inner instruction.
var innerMagic = [8]byte{0xe4, 0x45, 0xa5, 0x2e, 0x51, 0xcb, 0x9a, 0x1d}

// outerKey resolves the 8-byte discriminator registered for a log-path
// program-data event or an outer-instruction opcode: the pinned mainnet
// literal when one is declared, otherwise an xxHash64 of the canonical
// "protocol:kind" name (internal/hash.ID).
func outerKey(s spec) discrim.Key8 {
	var k discrim.Key8

	if len(s.Disc) == 8 {
		copy(k[:], s.Disc)
		return k
	}

	binary.LittleEndian.PutUint64(k[:], hash.ID(s.Name))

	return k
}

// innerKey resolves the 16-byte CPI discriminator: the first 8 bytes are the
// event-name hash (pinned literal, or an xxHash64 of "event:"+Name via
// internal/hash.ID), the last 8 are the fixed Anchor self-CPI magic tag.
func innerKey(s spec) discrim.Key16 {
	var k discrim.Key16

	if len(s.Disc) == 8 {
		copy(k[:8], s.Disc)
	} else {
		binary.LittleEndian.PutUint64(k[:8], hash.ID("event:"+s.Name))
	}

	copy(k[8:], innerMagic[:])

	return k
}

// VerifyInnerMagic reports whether tag (bytes 8..16 of an inner
// instruction's data, the second half of its 16-byte CPI discriminator)
// matches Anchor's self-CPI event tag, independent of discriminator
// dispatch. ixwalk uses this as a cheap pre-filter before attempting a
// full 16-byte lookup.
func VerifyInnerMagic(tag [8]byte) bool {
	return tag == innerMagic
}
