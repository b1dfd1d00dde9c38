package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScratch_GrowAndReset(t *testing.T) {
	require := require.New(t)

	s := &Scratch{}
	s.Grow(100)
	require.GreaterOrEqual(cap(s.B), 100)

	s.B = append(s.B, []byte("hello")...)
	require.Equal(5, len(s.B))

	s.Reset()
	require.Equal(0, len(s.B))
	require.GreaterOrEqual(cap(s.B), 100)
}

func TestScratchPool_GetPut(t *testing.T) {
	require := require.New(t)

	p := NewScratchPool()
	s := p.Get(256)
	require.GreaterOrEqual(cap(s.B), 256)
	require.Equal(0, len(s.B))

	s.B = append(s.B, 1, 2, 3)
	p.Put(s)

	s2 := p.Get(10)
	require.Equal(0, len(s2.B))
}

func TestScratchPool_DiscardsOversized(t *testing.T) {
	p := NewScratchPool()
	s := p.Get(ScratchMaxBytes*4 + 1)
	p.Put(s) // should not panic; oversized buffer is discarded
}

func TestDefaultPool_GetPut(t *testing.T) {
	require := require.New(t)

	s := Get(64)
	require.NotNil(s)
	Put(s)
}
