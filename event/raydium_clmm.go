package event

// ClmmSwap is emitted for a Raydium CLMM swap (v1 or v2 instruction layout;
// the decoded event shape is identical, only the wire discriminator differs).
type ClmmSwap struct {
	Metadata

	Pool           Pubkey
	User           Pubkey
	InputMint      Pubkey
	OutputMint     Pubkey
	AmountIn       uint64
	AmountOut      uint64
	SqrtPriceX64   Uint128
	Liquidity      Uint128
	Tick           int32
	FeeAmount      uint64
	ZeroForOne     bool
}

// ClmmIncreaseLiquidity is emitted when liquidity is added to a CLMM
// position (V2 layout, supports token-2022 mints).
type ClmmIncreaseLiquidity struct {
	Metadata

	Pool            Pubkey
	Position        Pubkey
	User            Pubkey
	LiquidityDelta  Uint128
	Amount0         uint64
	Amount1         uint64
}

// ClmmDecreaseLiquidity is emitted when liquidity is removed from a CLMM
// position (V2 layout).
type ClmmDecreaseLiquidity struct {
	Metadata

	Pool            Pubkey
	Position        Pubkey
	User            Pubkey
	LiquidityDelta  Uint128
	Amount0         uint64
	Amount1         uint64
}

// ClmmCreatePool is emitted when a new CLMM pool is created.
type ClmmCreatePool struct {
	Metadata

	Pool         Pubkey
	Creator      Pubkey
	Mint0        Pubkey
	Mint1        Pubkey
	SqrtPriceX64 Uint128
	Tick         int32
}

// ClmmOpenPosition is emitted when a new CLMM position is opened (V2,
// token-2022 aware layout).
type ClmmOpenPosition struct {
	Metadata

	Pool        Pubkey
	Position    Pubkey
	User        Pubkey
	TickLower   int32
	TickUpper   int32
	Liquidity   Uint128
	Amount0     uint64
	Amount1     uint64
}

// ClmmClosePosition is emitted when a CLMM position is closed.
type ClmmClosePosition struct {
	Metadata

	Pool     Pubkey
	Position Pubkey
	User     Pubkey
}

// ClmmCollectFee is emitted when accrued fees are collected from a CLMM
// position.
type ClmmCollectFee struct {
	Metadata

	Pool           Pubkey
	Position       Pubkey
	User           Pubkey
	FeeAmount0     uint64
	FeeAmount1     uint64
}
