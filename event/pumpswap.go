package event

// PumpSwapBuy is emitted for a buy against a PumpSwap constant-product pool.
type PumpSwapBuy struct {
	Metadata

	Pool          Pubkey
	User          Pubkey
	BaseMint      Pubkey
	QuoteMint     Pubkey
	BaseAmountOut uint64
	QuoteAmountIn uint64
	LPFeeBps      uint64
	ProtocolFee   uint64
}

// PumpSwapSell is emitted for a sell against a PumpSwap pool.
type PumpSwapSell struct {
	Metadata

	Pool           Pubkey
	User           Pubkey
	BaseMint       Pubkey
	QuoteMint      Pubkey
	BaseAmountIn   uint64
	QuoteAmountOut uint64
	LPFeeBps       uint64
	ProtocolFee    uint64
}

// PumpSwapCreatePool is emitted when a new PumpSwap pool is created.
type PumpSwapCreatePool struct {
	Metadata

	Pool       Pubkey
	Creator    Pubkey
	BaseMint   Pubkey
	QuoteMint  Pubkey
	BaseAmount uint64
	QuoteAmount uint64
}

// PumpSwapAddLiquidity is emitted when liquidity is added to a PumpSwap pool.
type PumpSwapAddLiquidity struct {
	Metadata

	Pool        Pubkey
	User        Pubkey
	BaseAmount  uint64
	QuoteAmount uint64
	LPTokensOut uint64
}

// PumpSwapRemoveLiquidity is emitted when liquidity is removed from a
// PumpSwap pool.
type PumpSwapRemoveLiquidity struct {
	Metadata

	Pool       Pubkey
	User       Pubkey
	BaseAmount uint64
	QuoteAmount uint64
	LPTokensIn uint64
}
