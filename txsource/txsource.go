// Package txsource defines the wire shapes a transaction source hands to
// the pipeline and the Source/RPCFetcher contracts a concrete fetcher
// (websocket subscription, RPC polling, a replay file) implements. Building
// a concrete transport is out of scope for this module; this package only
// defines what one would produce and consume.
package txsource

import (
	"context"

	"github.com/dexstream/dexstream/errs"
	"github.com/dexstream/dexstream/event"
)

// AccountKeys is the full resolved account key vector for one transaction
// message: the statically listed keys followed by any addresses loaded
// from address-lookup tables, in the order Solana's v0 message format
// concatenates them (static, then writable-loaded, then readonly-loaded).
type AccountKeys struct {
	Static            []event.Pubkey
	LookupWritable    []event.Pubkey
	LookupReadonly    []event.Pubkey
}

// Resolve returns the account key at idx within the concatenated vector, or
// false if idx is out of range. Every CompiledInstruction's account indexes
// and program-ID index are indexes into this same concatenated vector.
func (k AccountKeys) Resolve(idx uint8) (event.Pubkey, bool) {
	i := int(idx)

	if i < len(k.Static) {
		return k.Static[i], true
	}
	i -= len(k.Static)

	if i < len(k.LookupWritable) {
		return k.LookupWritable[i], true
	}
	i -= len(k.LookupWritable)

	if i < len(k.LookupReadonly) {
		return k.LookupReadonly[i], true
	}

	return event.Pubkey{}, false
}

// Len returns the total number of resolvable account keys.
func (k AccountKeys) Len() int {
	return len(k.Static) + len(k.LookupWritable) + len(k.LookupReadonly)
}

// CompiledInstruction is one instruction as it appears on the wire:
// a program-ID index and account indexes into the enclosing message's
// AccountKeys, plus its raw instruction data.
type CompiledInstruction struct {
	ProgramIDIndex uint8
	AccountIndexes []uint8
	Data           []byte
}

// InnerInstructionSet groups the inner instructions CPI'd out of one outer
// instruction, identified by that outer instruction's index.
type InnerInstructionSet struct {
	Index        uint8
	Instructions []CompiledInstruction
}

// TransactionMessage is the decoded message body of a transaction.
type TransactionMessage struct {
	AccountKeys  AccountKeys
	Instructions []CompiledInstruction
}

// TransactionMeta carries everything outside the message body that the
// decode paths need: log messages (for logscan) and inner instructions
// (for ixwalk).
type TransactionMeta struct {
	LogMessages       []string
	InnerInstructions []InnerInstructionSet
	Err               error
}

// Transaction is one confirmed transaction as handed to the pipeline.
type Transaction struct {
	Signature   event.Signature
	Slot        uint64
	TxIndex     uint64
	BlockTimeUs *int64
	// RecvUs is the ingress timestamp in monotonic microseconds. A source
	// that cannot stamp leaves it zero and the pipeline stamps at receive.
	RecvUs  int64
	Message TransactionMessage
	Meta    TransactionMeta
}

// Source streams confirmed transactions to the pipeline. Implementations
// (a websocket subscription, an RPC poller, a replay file reader) live
// outside this module; Source exists so the pipeline
// package can be written and tested against it without depending on any
// one transport.
type Source interface {
	// Stream returns a channel of transactions and begins delivering to it.
	// The channel is closed when ctx is canceled or the source is
	// exhausted; a non-nil error from a failed read is not surfaced on the
	// channel — callers needing mid-stream error visibility should check
	// ctx.Err() after the channel closes.
	Stream(ctx context.Context) (<-chan Transaction, error)
}

// RPCFetcher fetches one transaction by signature, for backfill and for
// resolving a transaction referenced by a subscription notification that
// didn't include the full body.
type RPCFetcher interface {
	FetchTransaction(ctx context.Context, sig event.Signature) (Transaction, error)
}

// UnimplementedRPCFetcher satisfies RPCFetcher by always returning
// errs.ErrNotImplemented. Embed it in a partial fetcher so the interface is
// satisfied before every method is implemented, mirroring the
// grpc-generated Unimplemented* server pattern.
type UnimplementedRPCFetcher struct{}

func (UnimplementedRPCFetcher) FetchTransaction(_ context.Context, _ event.Signature) (Transaction, error) {
	return Transaction{}, errs.ErrNotImplemented
}
