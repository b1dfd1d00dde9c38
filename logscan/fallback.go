package logscan

import (
	"strconv"
	"strings"

	"github.com/dexstream/dexstream/decoder"
	"github.com/dexstream/dexstream/event"
)

const (
	programLogPrefix  = "Program log: "
	instructionPrefix = "Program log: Instruction: "
	invokeMarker      = " invoke ["
)

// programIDs maps each recognized DEX program's on-chain ID to its
// protocol, checked in order with the first substring match winning.
var programIDs = []struct {
	id       string
	protocol event.Protocol
}{
	{"6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P", event.ProtocolPumpFun},
	{"pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA", event.ProtocolPumpSwap},
	{"CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK", event.ProtocolRaydiumCLMM},
	{"CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C", event.ProtocolRaydiumCPMM},
	{"675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8", event.ProtocolRaydiumAMMV4},
	{"whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc", event.ProtocolOrcaWhirlpool},
	{"Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB", event.ProtocolMeteoraAMM},
	{"cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG", event.ProtocolMeteoraDAMMv2},
	{"LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo", event.ProtocolMeteoraDLMM},
	{"LanMV9sAd7wArD4vJFi2qDdfnVhFxYSUg6eADduJ3uj", event.ProtocolBonk},
}

// classify returns the protocol whose program ID appears in line, first
// match wins, or ProtocolUnknown.
func classify(line string) event.Protocol {
	for _, p := range programIDs {
		if strings.Contains(line, p.id) {
			return p.protocol
		}
	}

	return event.ProtocolUnknown
}

// fallbackField maps one named field as it appears in a text log onto the
// target event struct's field name.
type fallbackField struct {
	logKey string
	field  string
}

// fallbackKind declares one instruction name the text-fallback scanner
// recognizes for a protocol, and the named fields it will accept.
type fallbackKind struct {
	kind   event.Kind
	fields []fallbackField
}

// fallbackKinds covers Raydium AMM V4, the one registered protocol that
// predates Anchor and logs human-readable instruction lines instead of
// emitting program-data events.
var fallbackKinds = map[event.Protocol]map[string]fallbackKind{
	event.ProtocolRaydiumAMMV4: {
		"SwapBaseIn": {kind: event.KindAmmV4SwapBaseIn, fields: []fallbackField{
			{"amount_in", "AmountIn"}, {"amount_out", "AmountOut"},
			{"pc_reserve", "PcReserve"}, {"coin_reserve", "CoinReserve"},
		}},
		"SwapBaseOut": {kind: event.KindAmmV4SwapBaseOut, fields: []fallbackField{
			{"amount_in", "AmountIn"}, {"amount_out", "AmountOut"},
			{"pc_reserve", "PcReserve"}, {"coin_reserve", "CoinReserve"},
		}},
		"Deposit": {kind: event.KindAmmV4Deposit, fields: []fallbackField{
			{"pc_amount", "PcAmount"}, {"coin_amount", "CoinAmount"}, {"lp_amount", "LPTokensOut"},
		}},
		"Withdraw": {kind: event.KindAmmV4Withdraw, fields: []fallbackField{
			{"pc_amount", "PcAmount"}, {"coin_amount", "CoinAmount"}, {"lp_amount", "LPTokensIn"},
		}},
		"Initialize2": {kind: event.KindAmmV4Initialize2, fields: []fallbackField{
			{"pc_amount", "PcAmount"}, {"coin_amount", "CoinAmount"},
		}},
	},
}

// fallbackState tracks the text-fallback scanner's position within one
// transaction's log lines: the protocol of the most recent program invoke
// line (ProtocolUnknown when that line names no recognized program), and the
// instruction currently collecting named fields.
type fallbackState struct {
	protocol event.Protocol
	active   bool
	kind     fallbackKind
	fields   map[string]uint64
}

// step consumes one non-program-data log line. It returns a completed
// partial when a new invoke or instruction line closes out the fields
// collected so far.
func (st *fallbackState) step(line string, meta event.Metadata) (event.Partial, bool) {
	if strings.Contains(line, invokeMarker) {
		p, ok := st.finish(meta)
		st.protocol = classify(line)

		return p, ok
	}

	if strings.HasPrefix(line, instructionPrefix) {
		p, ok := st.finish(meta)

		name := strings.TrimSpace(strings.TrimPrefix(line, instructionPrefix))
		if kinds, found := fallbackKinds[st.protocol]; found {
			if fk, found := kinds[name]; found {
				st.active = true
				st.kind = fk
				st.fields = make(map[string]uint64, len(fk.fields))
			}
		}

		return p, ok
	}

	if st.active && strings.HasPrefix(line, programLogPrefix) {
		st.collect(strings.TrimPrefix(line, programLogPrefix))
	}

	return event.Partial{}, false
}

// collect parses "key: value" and "key=value" pairs out of one log line body,
// keeping only keys the active instruction declares. Anything unparseable is
// ignored; the fallback is a liberal parser that prefers missing a field to
// inventing one.
func (st *fallbackState) collect(body string) {
	for _, part := range strings.Split(body, ",") {
		part = strings.TrimSpace(part)

		var key, val string

		switch {
		case strings.Contains(part, ":"):
			key, val, _ = strings.Cut(part, ":")
		case strings.Contains(part, "="):
			key, val, _ = strings.Cut(part, "=")
		default:
			continue
		}

		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		for _, f := range st.kind.fields {
			if f.logKey != key {
				continue
			}

			if n, err := strconv.ParseUint(val, 10, 64); err == nil {
				st.fields[f.field] = n
			}

			break
		}
	}
}

// finish closes the active instruction, assembling a partial if at least one
// declared field was collected.
func (st *fallbackState) finish(meta event.Metadata) (event.Partial, bool) {
	if !st.active {
		return event.Partial{}, false
	}

	st.active = false

	ev, ok := decoder.AssembleNamed(st.protocol, st.kind.kind, st.fields, meta)
	st.fields = nil

	if !ok {
		return event.Partial{}, false
	}

	return event.Partial{Event: ev, Source: event.SourceLog}, true
}
