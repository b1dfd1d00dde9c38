package decoder

import (
	"github.com/dexstream/dexstream/event"
	"github.com/dexstream/dexstream/internal/collision"
	"github.com/dexstream/dexstream/internal/discrim"
)

func pk(name string) Field  { return Field{Name: name, Kind: KindPubkey} }
func u64(name string) Field { return Field{Name: name, Kind: KindU64} }
func u32(name string) Field { return Field{Name: name, Kind: KindU32} }
func i32(name string) Field { return Field{Name: name, Kind: KindI32} }
func u128(name string) Field { return Field{Name: name, Kind: KindU128} }
func boolean(name string) Field { return Field{Name: name, Kind: KindBool} }

// newSpecs is the registration data table: one entry per registered
// (Protocol, Kind), its canonical name (used to derive
// its discriminator via outerKey/innerKey), its wire Layout, the struct
// constructor assemble closes over, and which discriminator table it is
// registered into.
//
// PumpFunMigrate is deliberately registered twice, once per table: the
// outer-instruction partial carries account context (User/Mint/Pool), the
// inner CPI partial carries the settled amounts (MintAmount/SolAmount).
// merger.Merge pairs them back into one event.PumpFunMigrate.
type tableSpec struct {
	spec
	Table string // "outer" or "inner"
}

func newSpecs() []tableSpec {
	return []tableSpec{
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolPumpFun, Kind: event.KindPumpFunCreate, Name: "pumpfun:create",
			Disc:   []byte{27, 114, 169, 77, 222, 235, 99, 118},
			Layout: NewLayout([]Field{pk("Mint"), pk("MintAuthority"), pk("Bonding"), pk("User")}, "Name", "Symbol", "URI"),
			New:    func() any { return &event.PumpFunCreate{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolPumpFun, Kind: event.KindPumpFunTrade, Name: "pumpfun:trade",
			Disc:   []byte{189, 219, 127, 211, 78, 230, 97, 238},
			Layout: NewLayout([]Field{
				pk("Mint"), pk("Bonding"), pk("User"),
				u64("SolAmount"), u64("TokenAmount"),
				boolean("IsBuy"), boolean("IsExactSolIn"),
				u64("VirtualSolRes"), u64("VirtualTokenRes"), u64("RealSolRes"), u64("RealTokenRes"),
			}),
			New: func() any { return &event.PumpFunTrade{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolPumpFun, Kind: event.KindPumpFunMigrate, Name: "pumpfun:migrate:outer",
			// The migrate instruction carries no args: account context comes
			// from the account-index array, settled amounts from the inner
			// CPI event.
			Layout:   NewLayout(nil),
			Accounts: []string{"User", "Mint", "Pool"},
			New:      func() any { return &event.PumpFunMigrate{} },
		}},
		{Table: "inner", spec: spec{
			Protocol: event.ProtocolPumpFun, Kind: event.KindPumpFunMigrate, Name: "pumpfun:migrate:inner",
			Layout: NewLayout([]Field{pk("Mint"), u64("MintAmount"), u64("SolAmount")}),
			New:    func() any { return &event.PumpFunMigrate{} },
		}},

		{Table: "outer", spec: spec{
			Protocol: event.ProtocolPumpSwap, Kind: event.KindPumpSwapBuy, Name: "pumpswap:buy",
			Layout: NewLayout([]Field{
				pk("Pool"), pk("User"), pk("BaseMint"), pk("QuoteMint"),
				u64("BaseAmountOut"), u64("QuoteAmountIn"), u64("LPFeeBps"), u64("ProtocolFee"),
			}),
			New: func() any { return &event.PumpSwapBuy{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolPumpSwap, Kind: event.KindPumpSwapSell, Name: "pumpswap:sell",
			Layout: NewLayout([]Field{
				pk("Pool"), pk("User"), pk("BaseMint"), pk("QuoteMint"),
				u64("BaseAmountIn"), u64("QuoteAmountOut"), u64("LPFeeBps"), u64("ProtocolFee"),
			}),
			New: func() any { return &event.PumpSwapSell{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolPumpSwap, Kind: event.KindPumpSwapCreatePool, Name: "pumpswap:createpool",
			Layout: NewLayout([]Field{pk("Pool"), pk("Creator"), pk("BaseMint"), pk("QuoteMint"), u64("BaseAmount"), u64("QuoteAmount")}),
			New:    func() any { return &event.PumpSwapCreatePool{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolPumpSwap, Kind: event.KindPumpSwapAddLiquidity, Name: "pumpswap:addliq",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), u64("BaseAmount"), u64("QuoteAmount"), u64("LPTokensOut")}),
			New:    func() any { return &event.PumpSwapAddLiquidity{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolPumpSwap, Kind: event.KindPumpSwapRemoveLiquidity, Name: "pumpswap:removeliq",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), u64("BaseAmount"), u64("QuoteAmount"), u64("LPTokensIn")}),
			New:    func() any { return &event.PumpSwapRemoveLiquidity{} },
		}},

		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumCLMM, Kind: event.KindClmmSwap, Name: "clmm:swap",
			Layout: NewLayout([]Field{
				pk("Pool"), pk("User"), pk("InputMint"), pk("OutputMint"),
				u64("AmountIn"), u64("AmountOut"), u128("SqrtPriceX64"), u128("Liquidity"),
				i32("Tick"), u64("FeeAmount"), boolean("ZeroForOne"),
			}),
			New: func() any { return &event.ClmmSwap{} },
		}},
		{Table: "outer", spec: spec{
			// The v2 swap instruction shares the v1 event shape; only the
			// wire discriminator differs, so both keys decode to ClmmSwap.
			Protocol: event.ProtocolRaydiumCLMM, Kind: event.KindClmmSwap, Name: "clmm:swapv2",
			Layout: NewLayout([]Field{
				pk("Pool"), pk("User"), pk("InputMint"), pk("OutputMint"),
				u64("AmountIn"), u64("AmountOut"), u128("SqrtPriceX64"), u128("Liquidity"),
				i32("Tick"), u64("FeeAmount"), boolean("ZeroForOne"),
			}),
			New: func() any { return &event.ClmmSwap{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumCLMM, Kind: event.KindClmmIncreaseLiquidity, Name: "clmm:increaseliq",
			Layout: NewLayout([]Field{pk("Pool"), pk("Position"), pk("User"), u128("LiquidityDelta"), u64("Amount0"), u64("Amount1")}),
			New:    func() any { return &event.ClmmIncreaseLiquidity{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumCLMM, Kind: event.KindClmmDecreaseLiquidity, Name: "clmm:decreaseliq",
			Layout: NewLayout([]Field{pk("Pool"), pk("Position"), pk("User"), u128("LiquidityDelta"), u64("Amount0"), u64("Amount1")}),
			New:    func() any { return &event.ClmmDecreaseLiquidity{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumCLMM, Kind: event.KindClmmCreatePool, Name: "clmm:createpool",
			Layout: NewLayout([]Field{pk("Pool"), pk("Creator"), pk("Mint0"), pk("Mint1"), u128("SqrtPriceX64"), i32("Tick")}),
			New:    func() any { return &event.ClmmCreatePool{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumCLMM, Kind: event.KindClmmOpenPosition, Name: "clmm:openposition",
			Layout: NewLayout([]Field{
				pk("Pool"), pk("Position"), pk("User"), i32("TickLower"), i32("TickUpper"),
				u128("Liquidity"), u64("Amount0"), u64("Amount1"),
			}),
			New: func() any { return &event.ClmmOpenPosition{} },
		}},
		{Table: "outer", spec: spec{
			// Token-2022 pools open positions through a distinct instruction
			// with the same decoded shape.
			Protocol: event.ProtocolRaydiumCLMM, Kind: event.KindClmmOpenPosition, Name: "clmm:openposition22",
			Layout: NewLayout([]Field{
				pk("Pool"), pk("Position"), pk("User"), i32("TickLower"), i32("TickUpper"),
				u128("Liquidity"), u64("Amount0"), u64("Amount1"),
			}),
			New: func() any { return &event.ClmmOpenPosition{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumCLMM, Kind: event.KindClmmClosePosition, Name: "clmm:closeposition",
			Layout: NewLayout([]Field{pk("Pool"), pk("Position"), pk("User")}),
			New:    func() any { return &event.ClmmClosePosition{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumCLMM, Kind: event.KindClmmCollectFee, Name: "clmm:collectfee",
			Layout: NewLayout([]Field{pk("Pool"), pk("Position"), pk("User"), u64("FeeAmount0"), u64("FeeAmount1")}),
			New:    func() any { return &event.ClmmCollectFee{} },
		}},

		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumCPMM, Kind: event.KindCpmmSwapBaseIn, Name: "cpmm:swapbasein",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), pk("InputMint"), pk("OutputMint"), u64("AmountIn"), u64("AmountOut"), u64("InputReserve"), u64("OutputReserve")}),
			New:    func() any { return &event.CpmmSwapBaseIn{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumCPMM, Kind: event.KindCpmmSwapBaseOut, Name: "cpmm:swapbaseout",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), pk("InputMint"), pk("OutputMint"), u64("AmountIn"), u64("AmountOut"), u64("InputReserve"), u64("OutputReserve")}),
			New:    func() any { return &event.CpmmSwapBaseOut{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumCPMM, Kind: event.KindCpmmDeposit, Name: "cpmm:deposit",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), u64("Amount0"), u64("Amount1"), u64("LPTokensOut")}),
			New:    func() any { return &event.CpmmDeposit{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumCPMM, Kind: event.KindCpmmWithdraw, Name: "cpmm:withdraw",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), u64("Amount0"), u64("Amount1"), u64("LPTokensIn")}),
			New:    func() any { return &event.CpmmWithdraw{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumCPMM, Kind: event.KindCpmmCreatePool, Name: "cpmm:createpool",
			Layout: NewLayout([]Field{pk("Pool"), pk("Creator"), pk("Mint0"), pk("Mint1"), u64("Amount0"), u64("Amount1")}),
			New:    func() any { return &event.CpmmCreatePool{} },
		}},

		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumAMMV4, Kind: event.KindAmmV4SwapBaseIn, Name: "ammv4:swapbasein",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), u64("AmountIn"), u64("AmountOut"), u64("PcReserve"), u64("CoinReserve")}),
			New:    func() any { return &event.AmmV4SwapBaseIn{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumAMMV4, Kind: event.KindAmmV4SwapBaseOut, Name: "ammv4:swapbaseout",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), u64("AmountIn"), u64("AmountOut"), u64("PcReserve"), u64("CoinReserve")}),
			New:    func() any { return &event.AmmV4SwapBaseOut{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumAMMV4, Kind: event.KindAmmV4Deposit, Name: "ammv4:deposit",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), u64("PcAmount"), u64("CoinAmount"), u64("LPTokensOut")}),
			New:    func() any { return &event.AmmV4Deposit{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumAMMV4, Kind: event.KindAmmV4Withdraw, Name: "ammv4:withdraw",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), u64("PcAmount"), u64("CoinAmount"), u64("LPTokensIn")}),
			New:    func() any { return &event.AmmV4Withdraw{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolRaydiumAMMV4, Kind: event.KindAmmV4Initialize2, Name: "ammv4:initialize2",
			Layout: NewLayout([]Field{pk("Pool"), pk("Creator"), pk("PcMint"), pk("CoinMint"), u64("PcAmount"), u64("CoinAmount")}),
			New:    func() any { return &event.AmmV4Initialize2{} },
		}},

		{Table: "outer", spec: spec{
			Protocol: event.ProtocolOrcaWhirlpool, Kind: event.KindWhirlpoolTraded, Name: "whirlpool:traded",
			Layout: NewLayout([]Field{
				pk("Whirlpool"), pk("User"), pk("InputMint"), pk("OutputMint"),
				u64("AmountIn"), u64("AmountOut"), u128("SqrtPriceX64"), u64("LiquidityFee"),
			}),
			New: func() any { return &event.WhirlpoolTraded{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolOrcaWhirlpool, Kind: event.KindWhirlpoolLiquidityIncreased, Name: "whirlpool:liqinc",
			Layout: NewLayout([]Field{pk("Whirlpool"), pk("Position"), u128("LiquidityDelta"), u64("Amount0"), u64("Amount1")}),
			New:    func() any { return &event.WhirlpoolLiquidityIncreased{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolOrcaWhirlpool, Kind: event.KindWhirlpoolLiquidityDecreased, Name: "whirlpool:liqdec",
			Layout: NewLayout([]Field{pk("Whirlpool"), pk("Position"), u128("LiquidityDelta"), u64("Amount0"), u64("Amount1")}),
			New:    func() any { return &event.WhirlpoolLiquidityDecreased{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolOrcaWhirlpool, Kind: event.KindWhirlpoolInitialize, Name: "whirlpool:init",
			Layout: NewLayout([]Field{pk("Whirlpool"), pk("Creator"), pk("TokenMintA"), pk("TokenMintB"), u32("TickSpacing"), u128("SqrtPriceX64")}),
			New:    func() any { return &event.WhirlpoolInitialize{} },
		}},

		{Table: "outer", spec: spec{
			Protocol: event.ProtocolMeteoraAMM, Kind: event.KindMeteoraAMMSwap, Name: "meteoraamm:swap",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), pk("InputMint"), pk("OutputMint"), u64("AmountIn"), u64("AmountOut")}),
			New:    func() any { return &event.MeteoraAMMSwap{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolMeteoraAMM, Kind: event.KindMeteoraAMMAddLiquidity, Name: "meteoraamm:addliq",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), u64("Amount0"), u64("Amount1"), u64("LPTokensOut")}),
			New:    func() any { return &event.MeteoraAMMAddLiquidity{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolMeteoraAMM, Kind: event.KindMeteoraAMMRemoveLiquidity, Name: "meteoraamm:removeliq",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), u64("Amount0"), u64("Amount1"), u64("LPTokensIn")}),
			New:    func() any { return &event.MeteoraAMMRemoveLiquidity{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolMeteoraAMM, Kind: event.KindMeteoraAMMBootstrapLiquidity, Name: "meteoraamm:bootstrap",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), u64("Amount0"), u64("Amount1")}),
			New:    func() any { return &event.MeteoraAMMBootstrapLiquidity{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolMeteoraAMM, Kind: event.KindMeteoraAMMPoolCreated, Name: "meteoraamm:poolcreated",
			Layout: NewLayout([]Field{pk("Pool"), pk("Creator"), pk("Mint0"), pk("Mint1")}),
			New:    func() any { return &event.MeteoraAMMPoolCreated{} },
		}},

		{Table: "outer", spec: spec{
			Protocol: event.ProtocolMeteoraDAMMv2, Kind: event.KindDammV2Swap, Name: "dammv2:swap",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), pk("InputMint"), pk("OutputMint"), u64("AmountIn"), u64("AmountOut")}),
			New:    func() any { return &event.DammV2Swap{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolMeteoraDAMMv2, Kind: event.KindDammV2AddLiquidity, Name: "dammv2:addliq",
			Layout: NewLayout([]Field{pk("Pool"), pk("Position"), pk("User"), u128("LiquidityDelta"), u64("Amount0"), u64("Amount1")}),
			New:    func() any { return &event.DammV2AddLiquidity{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolMeteoraDAMMv2, Kind: event.KindDammV2RemoveLiquidity, Name: "dammv2:removeliq",
			Layout: NewLayout([]Field{pk("Pool"), pk("Position"), pk("User"), u128("LiquidityDelta"), u64("Amount0"), u64("Amount1")}),
			New:    func() any { return &event.DammV2RemoveLiquidity{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolMeteoraDAMMv2, Kind: event.KindDammV2CreatePosition, Name: "dammv2:createposition",
			Layout: NewLayout([]Field{pk("Pool"), pk("Position"), pk("User")}),
			New:    func() any { return &event.DammV2CreatePosition{} },
		}},
		{Table: "outer", spec: spec{
			Protocol: event.ProtocolMeteoraDAMMv2, Kind: event.KindDammV2ClosePosition, Name: "dammv2:closeposition",
			Layout: NewLayout([]Field{pk("Pool"), pk("Position"), pk("User")}),
			New:    func() any { return &event.DammV2ClosePosition{} },
		}},

		{Table: "inner", spec: spec{
			Protocol: event.ProtocolMeteoraDLMM, Kind: event.KindDlmmEvent, Name: "dlmm:event",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), pk("InputMint"), pk("OutputMint"), u64("AmountIn"), u64("AmountOut"), i32("ActiveID")}),
			New:    func() any { return &event.DlmmEvent{} },
		}},

		{Table: "outer", spec: spec{
			Protocol: event.ProtocolBonk, Kind: event.KindBonkTrade, Name: "bonk:trade",
			Layout: NewLayout([]Field{pk("Pool"), pk("User"), pk("Mint"), u64("SolAmount"), u64("TokenAmount"), boolean("IsBuy")}),
			New:    func() any { return &event.BonkTrade{} },
		}},
	}
}

// decodeSpec builds the Decode closure for one registered spec, bound to
// one of the two field-walk strategies. The two hand-special-cased kinds
// (PumpFunCreate, PumpSwapCreatePool) also get a Borsh-based decode path in
// borsh.go; dualstrategy_test.go checks all the paths agree.
func decodeSpec(s spec, strategy Strategy) func([]byte, event.Metadata) (event.Event, bool) {
	read := ReadFixedZeroCopy
	if strategy == Safe {
		read = ReadFixedSafe
	}

	return func(data []byte, meta event.Metadata) (event.Event, bool) {
		vals, ok := read(data, s.Layout)
		if !ok {
			return event.Event{}, false
		}

		var strs []string
		if n := len(s.Layout.Tails); n > 0 {
			ss, _, err := ReadTailStrings(data, s.Layout.FixedLen, n)
			if err != nil {
				return event.Event{}, false
			}

			strs = ss
		}

		body := assemble(s.New, s.Layout, vals, strs, meta)

		return event.Event{Protocol: s.Protocol, Kind: s.Kind, Body: body}, true
	}
}

var allSpecs = newSpecs()

// buildTables materializes the registry entry slices for one strategy,
// failing loudly (registration is a process-init concern, not a runtime
// one) if two specs resolve to the same discriminator.
//
// PumpFunCreate and PumpSwapCreatePool keep their generic registration
// here; the Borsh safe-decode path is exercised directly by
// dualstrategy_test.go, not wired into the registry, since a production
// registry must commit to one decode strategy per discriminator to keep
// Decode a pure function of (data, meta).
func buildTables(strategy Strategy) ([]discrim.Entry[discrim.Key8, OuterEntry], []discrim.Entry[discrim.Key16, InnerEntry]) {
	tracker := collision.NewTracker()

	var (
		outerTable []discrim.Entry[discrim.Key8, OuterEntry]
		innerTable []discrim.Entry[discrim.Key16, InnerEntry]
	)

	for _, ts := range allSpecs {
		s := ts.spec
		decode := decodeSpec(s, strategy)

		switch ts.Table {
		case "outer":
			key := outerKey(s)
			if err := tracker.Track(key[:], s.Name); err != nil {
				panic(err)
			}

			outerTable = append(outerTable, discrim.NewEntry(key, OuterEntry{Protocol: s.Protocol, Kind: s.Kind, Decode: decode, Accounts: s.Accounts}))
		case "inner":
			key := innerKey(s)
			if err := tracker.Track(key[:], s.Name); err != nil {
				panic(err)
			}

			innerTable = append(innerTable, discrim.NewEntry(key, InnerEntry{Protocol: s.Protocol, Kind: s.Kind, Decode: decode}))
		}
	}

	return outerTable, innerTable
}

// AllSpecs exposes the registered spec table for tests that need to drive
// both decode strategies directly (dualstrategy_test.go) rather than through
// the Registry.
func AllSpecs() []tableSpec { return allSpecs }

// KeyForOuter returns the 8-byte discriminator registered for
// (protocol, kind)'s outer-table entry, for callers (logscan, ixwalk, and
// their tests) that need to build a wire-shaped payload without reaching
// into this package's internal naming.
func KeyForOuter(protocol event.Protocol, kind event.Kind) (discrim.Key8, bool) {
	for _, ts := range allSpecs {
		if ts.Table == "outer" && ts.Protocol == protocol && ts.Kind == kind {
			return outerKey(ts.spec), true
		}
	}

	return discrim.Key8{}, false
}

// KeyForInner returns the 16-byte discriminator registered for
// (protocol, kind)'s inner-table entry.
func KeyForInner(protocol event.Protocol, kind event.Kind) (discrim.Key16, bool) {
	for _, ts := range allSpecs {
		if ts.Table == "inner" && ts.Protocol == protocol && ts.Kind == kind {
			return innerKey(ts.spec), true
		}
	}

	return discrim.Key16{}, false
}
