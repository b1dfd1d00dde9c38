// Package pool provides a pooled scratch buffer for the one allocation the
// log-path decoder would otherwise make per "Program data:" line: the
// base64-decode destination. Buffers start at 512 bytes of capacity, and
// ones that grew past four times that are discarded on Put rather than
// retained.
package pool

import "sync"

// ScratchMaxBytes is the capacity every new buffer starts with. Get grows a
// buffer past it when asked for more, and Put discards buffers whose
// capacity exceeds four times this value.
const ScratchMaxBytes = 512

// Scratch is a reusable byte buffer. It is not safe for concurrent use by
// multiple goroutines simultaneously — acquire one per goroutine via Get.
type Scratch struct {
	B []byte
}

// Reset truncates the buffer to zero length, retaining its capacity.
func (s *Scratch) Reset() {
	s.B = s.B[:0]
}

// Grow ensures the buffer can hold n bytes without reallocating, growing it
// if necessary.
func (s *Scratch) Grow(n int) {
	if cap(s.B) >= n {
		return
	}

	newBuf := make([]byte, 0, n)
	s.B = newBuf
}

// ScratchPool pools Scratch buffers sized for log-path base64 decoding.
type ScratchPool struct {
	pool sync.Pool
}

// NewScratchPool creates a ScratchPool whose buffers start at ScratchMaxBytes
// capacity.
func NewScratchPool() *ScratchPool {
	return &ScratchPool{
		pool: sync.Pool{
			New: func() any {
				return &Scratch{B: make([]byte, 0, ScratchMaxBytes)}
			},
		},
	}
}

// Get retrieves a Scratch from the pool, growing it to at least n bytes of
// capacity.
func (p *ScratchPool) Get(n int) *Scratch {
	s, _ := p.pool.Get().(*Scratch)
	s.Grow(n)
	s.Reset()

	return s
}

// Put returns a Scratch to the pool. Buffers whose capacity grew beyond
// four times ScratchMaxBytes are discarded rather than retained, to avoid
// memory bloat from one oversized line.
func (p *ScratchPool) Put(s *Scratch) {
	if s == nil {
		return
	}

	if cap(s.B) > ScratchMaxBytes*4 {
		return
	}

	s.Reset()
	p.pool.Put(s)
}

var defaultPool = NewScratchPool()

// Get retrieves a Scratch from the default pool.
func Get(n int) *Scratch { return defaultPool.Get(n) }

// Put returns a Scratch to the default pool.
func Put(s *Scratch) { defaultPool.Put(s) }
