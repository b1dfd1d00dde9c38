package event

// MeteoraAMMSwap is emitted for a swap against a Meteora (dynamic) AMM pool.
type MeteoraAMMSwap struct {
	Metadata

	Pool       Pubkey
	User       Pubkey
	InputMint  Pubkey
	OutputMint Pubkey
	AmountIn   uint64
	AmountOut  uint64
}

// MeteoraAMMAddLiquidity is emitted when liquidity is added to a Meteora AMM
// pool.
type MeteoraAMMAddLiquidity struct {
	Metadata

	Pool        Pubkey
	User        Pubkey
	Amount0     uint64
	Amount1     uint64
	LPTokensOut uint64
}

// MeteoraAMMRemoveLiquidity is emitted when liquidity is removed from a
// Meteora AMM pool.
type MeteoraAMMRemoveLiquidity struct {
	Metadata

	Pool       Pubkey
	User       Pubkey
	Amount0    uint64
	Amount1    uint64
	LPTokensIn uint64
}

// MeteoraAMMBootstrapLiquidity is emitted when a Meteora AMM pool's initial
// liquidity is bootstrapped.
type MeteoraAMMBootstrapLiquidity struct {
	Metadata

	Pool    Pubkey
	User    Pubkey
	Amount0 uint64
	Amount1 uint64
}

// MeteoraAMMPoolCreated is emitted when a new Meteora AMM pool is created.
type MeteoraAMMPoolCreated struct {
	Metadata

	Pool    Pubkey
	Creator Pubkey
	Mint0   Pubkey
	Mint1   Pubkey
}

// DammV2Swap is emitted for a swap against a Meteora DAMM v2 pool.
type DammV2Swap struct {
	Metadata

	Pool       Pubkey
	User       Pubkey
	InputMint  Pubkey
	OutputMint Pubkey
	AmountIn   uint64
	AmountOut  uint64
}

// DammV2AddLiquidity is emitted when liquidity is added to a DAMM v2
// position.
type DammV2AddLiquidity struct {
	Metadata

	Pool            Pubkey
	Position        Pubkey
	User            Pubkey
	LiquidityDelta  Uint128
	Amount0         uint64
	Amount1         uint64
}

// DammV2RemoveLiquidity is emitted when liquidity is removed from a DAMM v2
// position.
type DammV2RemoveLiquidity struct {
	Metadata

	Pool            Pubkey
	Position        Pubkey
	User            Pubkey
	LiquidityDelta  Uint128
	Amount0         uint64
	Amount1         uint64
}

// DammV2CreatePosition is emitted when a new DAMM v2 position is opened.
type DammV2CreatePosition struct {
	Metadata

	Pool     Pubkey
	Position Pubkey
	User     Pubkey
}

// DammV2ClosePosition is emitted when a DAMM v2 position is closed.
type DammV2ClosePosition struct {
	Metadata

	Pool     Pubkey
	Position Pubkey
	User     Pubkey
}

// DlmmEvent is a catch-all decoded event body for Meteora DLMM: the
// discriminator table registers it as a single generic CPI event kind
// rather than an enumerated set.
type DlmmEvent struct {
	Metadata

	Pool       Pubkey
	User       Pubkey
	InputMint  Pubkey
	OutputMint Pubkey
	AmountIn   uint64
	AmountOut  uint64
	ActiveID   int32
}
