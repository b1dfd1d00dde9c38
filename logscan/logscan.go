// Package logscan implements the log-path decoder: it scans a
// transaction's log messages for "Program data: " lines, base64 decodes
// each one into a pooled scratch buffer, and dispatches the first 8 bytes
// through the shared decoder.Registry outer table. Lines that are not
// program-data emissions feed a liberal text-fallback scanner for the
// protocols that log named fields instead.
package logscan

import (
	"encoding/base64"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dexstream/dexstream/decoder"
	"github.com/dexstream/dexstream/event"
	"github.com/dexstream/dexstream/internal/discrim"
	"github.com/dexstream/dexstream/internal/pool"
	"github.com/dexstream/dexstream/metrics"
)

const programDataPrefix = "Program data: "

// Scanner decodes program-data log lines into event.Partial values.
type Scanner struct {
	reg     *decoder.Registry
	metrics *metrics.Recorder
	log     zerolog.Logger
	allow   func(protocol event.Protocol, kind event.Kind) bool
}

// New creates a Scanner against the given registry. A nil metrics.Recorder
// and a disabled logger are both accepted; see Option for configuring
// either.
func New(reg *decoder.Registry, opts ...Option) *Scanner {
	s := &Scanner{reg: reg, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithMetrics attaches a metrics.Recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Scanner) { s.metrics = m }
}

// WithLogger attaches a zerolog.Logger for debug-level decode-miss logging.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scanner) { s.log = l }
}

// WithEventFilter installs an allow predicate consulted after discriminator
// lookup but before the decode itself runs, so filtered-out kinds skip all
// payload work.
func WithEventFilter(allow func(protocol event.Protocol, kind event.Kind) bool) Option {
	return func(s *Scanner) { s.allow = allow }
}

// Scan walks logs in order and returns one event.Partial per successfully
// decoded "Program data: " line, plus one per instruction the text-fallback
// scanner completes. meta is stamped onto every decoded partial; callers
// are responsible for setting meta.OuterIndex / meta.InnerIndex
// appropriately for the instruction the logs belong to.
//
// Scan never returns an error. A "Program data: " line whose base64 does
// not decode is handed to the text fallback like any other line, without
// being counted. Payloads shorter than 8 bytes and unregistered
// discriminators are counted as decode misses (unregistered ones are also
// logged at debug level), and a payload its decoder rejects is counted as a
// truncation. None of these is fatal to the scan: they are per-event
// failures, never per-transaction ones.
func (s *Scanner) Scan(logs []string, meta event.Metadata) []event.Partial {
	var out []event.Partial

	createdMints := make(map[event.Pubkey]bool)

	var fb fallbackState

	for _, line := range logs {
		data, ok := s.decodeLine(line)
		if !ok {
			// Not a program-data emission; feed the text-fallback scanner,
			// which also tracks the current program context from invoke lines.
			if partial, done := fb.step(line, meta); done {
				out = append(out, partial)
			}

			continue
		}

		partial, ok := s.dispatch(data, meta)
		if !ok {
			continue
		}

		trackCreatedBuy(&partial, createdMints)
		out = append(out, partial)
	}

	if partial, done := fb.finish(meta); done {
		out = append(out, partial)
	}

	return out
}

// decodeLine strips the "Program data: " prefix and base64-decodes the
// remainder into a pooled scratch buffer, then copies the decoded bytes
// into a fresh slice before the buffer goes back to the pool, so the caller
// may keep the returned slice.
func (s *Scanner) decodeLine(line string) ([]byte, bool) {
	if !strings.HasPrefix(line, programDataPrefix) {
		return nil, false
	}

	encoded := strings.TrimPrefix(line, programDataPrefix)

	n := base64.StdEncoding.DecodedLen(len(encoded))
	scratch := pool.Get(n)
	defer pool.Put(scratch)

	scratch.Grow(n)

	written, err := base64.StdEncoding.Decode(scratch.B[:n], []byte(encoded))
	if err != nil {
		return nil, false
	}

	out := make([]byte, written)
	copy(out, scratch.B[:written])

	return out, true
}

func (s *Scanner) dispatch(data []byte, meta event.Metadata) (event.Partial, bool) {
	if len(data) < 8 {
		s.metrics.DecodeMiss("log")
		return event.Partial{}, false
	}

	var key discrim.Key8
	copy(key[:], data[:8])

	entry, ok := s.reg.LookupOuter(key)
	if !ok {
		s.metrics.DecodeMiss("log")
		s.log.Debug().Hex("discriminator", key[:]).Msg("unregistered log discriminator")

		return event.Partial{}, false
	}

	if s.allow != nil && !s.allow(entry.Protocol, entry.Kind) {
		return event.Partial{}, false
	}

	ev, ok := entry.Decode(data[8:], meta)
	if !ok {
		s.metrics.DecodeTruncation(entry.Protocol.String())
		return event.Partial{}, false
	}

	s.metrics.DecodeHit(entry.Protocol.String())

	return event.Partial{Event: ev, Source: event.SourceLog}, true
}

// trackCreatedBuy implements the "create+buy" composite flag: if a
// PumpFunCreate for a mint has already been observed earlier in the same
// Scan call, a later PumpFunTrade for that mint gets IsCreatedBuy set.
func trackCreatedBuy(p *event.Partial, createdMints map[event.Pubkey]bool) {
	switch body := p.Event.Body.(type) {
	case event.PumpFunCreate:
		createdMints[body.Mint] = true
	case event.PumpFunTrade:
		if createdMints[body.Mint] {
			body.IsCreatedBuy = true
			p.Event.Body = body
		}
	}
}
