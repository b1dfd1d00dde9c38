package decoder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dexstream/dexstream/errs"
)

func TestReadFixed_ZeroCopyAndSafeAgree(t *testing.T) {
	require := require.New(t)

	layout := NewLayout([]Field{pk("A"), u64("B"), boolean("C"), i32("D"), u128("E")})

	var buf []byte
	buf = appendValue(buf, pkVal(7))
	buf = appendValue(buf, u64Val(42))
	buf = appendValue(buf, boolVal(true))
	buf = appendValue(buf, i32Val(-5))
	buf = appendValue(buf, u128Val(1, 2))
	buf = append(buf, 0xFF, 0xFF) // trailing garbage must be ignored

	safe, ok1 := ReadFixedSafe(buf, layout)
	require.True(ok1)

	zc, ok2 := ReadFixedZeroCopy(buf, layout)
	require.True(ok2)

	require.Equal(safe, zc)
	require.Equal(uint64(42), safe[1].U64)
	require.Equal(int32(-5), safe[3].I32)
	require.Equal(uint64(1), safe[4].U128Lo)
	require.Equal(uint64(2), safe[4].U128Hi)
}

func TestReadFixed_TruncatedPayloadMissesBothStrategies(t *testing.T) {
	require := require.New(t)

	layout := NewLayout([]Field{pk("A"), u64("B")})

	var buf []byte
	buf = appendValue(buf, pkVal(1))
	buf = append(buf, 0x01, 0x02, 0x03) // short of the u64 field

	_, ok1 := ReadFixedSafe(buf, layout)
	require.False(ok1)

	_, ok2 := ReadFixedZeroCopy(buf, layout)
	require.False(ok2)
}

func TestReadTailStrings_DecodesInOrder(t *testing.T) {
	require := require.New(t)

	var buf []byte
	buf = appendTailString(buf, "hello")
	buf = appendTailString(buf, "world")

	strs, n, err := ReadTailStrings(buf, 0, 2)
	require.NoError(err)
	require.Equal([]string{"hello", "world"}, strs)
	require.Equal(len(buf), n)
}

func TestReadTailStrings_TruncatedReturnsError(t *testing.T) {
	require := require.New(t)

	var buf []byte
	buf = appendTailString(buf, "hi")
	buf = buf[:len(buf)-1] // chop the last byte of the string body

	_, _, err := ReadTailStrings(buf, 0, 1)
	require.ErrorIs(err, errs.ErrTruncatedPayload)
}

func TestReadTailStrings_InvalidUTF8ReturnsError(t *testing.T) {
	require := require.New(t)

	var buf []byte
	buf = appendTailString(buf, string([]byte{0xff, 0xfe, 0xfd}))

	_, _, err := ReadTailStrings(buf, 0, 1)
	require.ErrorIs(err, errs.ErrInvalidUTF8)
}
