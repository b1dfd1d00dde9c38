package event

// PumpFunCreate is emitted when a new PumpFun token/pool is created.
type PumpFunCreate struct {
	Metadata

	Mint         Pubkey
	MintAuthority Pubkey
	Bonding      Pubkey
	User         Pubkey
	Name         string
	Symbol       string
	URI          string
}

// PumpFunTrade is emitted for a Buy, Sell, or BuyExactSolIn trade against a
// PumpFun bonding curve.
type PumpFunTrade struct {
	Metadata

	Mint             Pubkey
	Bonding          Pubkey
	User             Pubkey
	SolAmount        uint64
	TokenAmount      uint64
	IsBuy            bool
	IsExactSolIn     bool
	VirtualSolRes    uint64
	VirtualTokenRes  uint64
	RealSolRes       uint64
	RealTokenRes     uint64
	// IsCreatedBuy is set by the log-path scanner when a Create event for
	// the same mint preceded this Trade within the same transaction.
	IsCreatedBuy bool
}

// PumpFunMigrate is emitted when a bonding curve migrates its liquidity to
// an AMM pool (PumpSwap). Account context typically arrives via the outer
// instruction; MintAmount/SolAmount arrive via the inner CPI event.
type PumpFunMigrate struct {
	Metadata

	User       Pubkey
	Mint       Pubkey
	Pool       Pubkey
	MintAmount uint64
	SolAmount  uint64
}
