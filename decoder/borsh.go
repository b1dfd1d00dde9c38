package decoder

import (
	"github.com/near/borsh-go"

	"github.com/dexstream/dexstream/event"
)

// PumpFunCreate and PumpSwapCreatePool both carry multiple trailing
// variable-length UTF-8 fields (name/symbol/URI, or analogous pool-creation
// metadata) whose exact trailing layout has drifted across program
// upgrades. This file adds a Borsh unmarshaler for each of them, a
// structural decode that follows the mirror struct's declared field order.
// The registry does not call these: both of its strategies (ZeroCopy and
// Safe) decode the two kinds through the positional Layout declared in
// layouts.go (see buildTables), and dualstrategy_test.go checks that the
// Borsh decodes agree with the positional ones.

// pumpFunCreateBorsh mirrors event.PumpFunCreate's field order for Borsh
// unmarshaling; Borsh decodes positionally by struct field order, same as
// the wire format, so this must stay in sync with PumpFunCreate.
type pumpFunCreateBorsh struct {
	Mint          [32]byte
	MintAuthority [32]byte
	Bonding       [32]byte
	User          [32]byte
	Name          string
	Symbol        string
	URI           string
}

// pumpSwapCreatePoolBorsh mirrors event.PumpSwapCreatePool's field order.
type pumpSwapCreatePoolBorsh struct {
	Pool        [32]byte
	Creator     [32]byte
	BaseMint    [32]byte
	QuoteMint   [32]byte
	BaseAmount  uint64
	QuoteAmount uint64
}

func decodePumpFunCreateBorsh(data []byte, meta event.Metadata) (event.Event, bool) {
	var b pumpFunCreateBorsh
	if err := borsh.Deserialize(&b, data); err != nil {
		return event.Event{}, false
	}

	body := event.PumpFunCreate{
		Metadata:      meta,
		Mint:          event.Pubkey(b.Mint),
		MintAuthority: event.Pubkey(b.MintAuthority),
		Bonding:       event.Pubkey(b.Bonding),
		User:          event.Pubkey(b.User),
		Name:          b.Name,
		Symbol:        b.Symbol,
		URI:           b.URI,
	}

	return event.Event{Protocol: event.ProtocolPumpFun, Kind: event.KindPumpFunCreate, Body: body}, true
}

func decodePumpSwapCreatePoolBorsh(data []byte, meta event.Metadata) (event.Event, bool) {
	var b pumpSwapCreatePoolBorsh
	if err := borsh.Deserialize(&b, data); err != nil {
		return event.Event{}, false
	}

	body := event.PumpSwapCreatePool{
		Metadata:    meta,
		Pool:        event.Pubkey(b.Pool),
		Creator:     event.Pubkey(b.Creator),
		BaseMint:    event.Pubkey(b.BaseMint),
		QuoteMint:   event.Pubkey(b.QuoteMint),
		BaseAmount:  b.BaseAmount,
		QuoteAmount: b.QuoteAmount,
	}

	return event.Event{Protocol: event.ProtocolPumpSwap, Kind: event.KindPumpSwapCreatePool, Body: body}, true
}
