// Package event defines the tagged-variant DEX event model: the common
// metadata every event carries, the per-protocol event bodies, and the
// merge rule that reconciles log-path and instruction-path partials of the
// same logical operation.
package event

import (
	"github.com/gagliardetto/solana-go"
)

// Pubkey is a 32-byte Solana account key. Reusing solana-go's wire-compatible
// fixed-size type avoids re-declaring the same 32 bytes under a second name.
type Pubkey = solana.PublicKey

// Signature is a 64-byte Solana transaction signature.
type Signature = solana.Signature

// Protocol identifies a DEX program family.
type Protocol uint8

const (
	ProtocolUnknown Protocol = iota
	ProtocolPumpFun
	ProtocolPumpSwap
	ProtocolRaydiumCLMM
	ProtocolRaydiumCPMM
	ProtocolRaydiumAMMV4
	ProtocolOrcaWhirlpool
	ProtocolMeteoraAMM
	ProtocolMeteoraDAMMv2
	ProtocolMeteoraDLMM
	ProtocolBonk
)

func (p Protocol) String() string {
	switch p {
	case ProtocolPumpFun:
		return "PumpFun"
	case ProtocolPumpSwap:
		return "PumpSwap"
	case ProtocolRaydiumCLMM:
		return "RaydiumCLMM"
	case ProtocolRaydiumCPMM:
		return "RaydiumCPMM"
	case ProtocolRaydiumAMMV4:
		return "RaydiumAMMV4"
	case ProtocolOrcaWhirlpool:
		return "OrcaWhirlpool"
	case ProtocolMeteoraAMM:
		return "MeteoraAMM"
	case ProtocolMeteoraDAMMv2:
		return "MeteoraDAMMv2"
	case ProtocolMeteoraDLMM:
		return "MeteoraDLMM"
	case ProtocolBonk:
		return "Bonk"
	default:
		return "Unknown"
	}
}

// Kind identifies an event kind within a protocol. Kinds are not unique
// across protocols — (Protocol, Kind) together identify a variant.
type Kind uint8

const (
	KindUnknown Kind = iota

	KindPumpFunCreate
	KindPumpFunTrade
	KindPumpFunMigrate

	KindPumpSwapBuy
	KindPumpSwapSell
	KindPumpSwapCreatePool
	KindPumpSwapAddLiquidity
	KindPumpSwapRemoveLiquidity

	KindClmmSwap
	KindClmmIncreaseLiquidity
	KindClmmDecreaseLiquidity
	KindClmmCreatePool
	KindClmmOpenPosition
	KindClmmClosePosition
	KindClmmCollectFee

	KindCpmmSwapBaseIn
	KindCpmmSwapBaseOut
	KindCpmmDeposit
	KindCpmmWithdraw
	KindCpmmCreatePool

	KindAmmV4SwapBaseIn
	KindAmmV4SwapBaseOut
	KindAmmV4Deposit
	KindAmmV4Withdraw
	KindAmmV4Initialize2

	KindWhirlpoolTraded
	KindWhirlpoolLiquidityIncreased
	KindWhirlpoolLiquidityDecreased
	KindWhirlpoolInitialize

	KindMeteoraAMMSwap
	KindMeteoraAMMAddLiquidity
	KindMeteoraAMMRemoveLiquidity
	KindMeteoraAMMBootstrapLiquidity
	KindMeteoraAMMPoolCreated

	KindDammV2Swap
	KindDammV2AddLiquidity
	KindDammV2RemoveLiquidity
	KindDammV2CreatePosition
	KindDammV2ClosePosition

	KindDlmmEvent

	KindBonkTrade
)

func (k Kind) String() string {
	switch k {
	case KindPumpFunCreate:
		return "Create"
	case KindPumpFunTrade:
		return "Trade"
	case KindPumpFunMigrate:
		return "Migrate"
	case KindPumpSwapBuy:
		return "Buy"
	case KindPumpSwapSell:
		return "Sell"
	case KindPumpSwapCreatePool, KindClmmCreatePool, KindCpmmCreatePool:
		return "CreatePool"
	case KindPumpSwapAddLiquidity, KindMeteoraAMMAddLiquidity, KindDammV2AddLiquidity:
		return "AddLiquidity"
	case KindPumpSwapRemoveLiquidity, KindMeteoraAMMRemoveLiquidity, KindDammV2RemoveLiquidity:
		return "RemoveLiquidity"
	case KindClmmSwap:
		return "Swap"
	case KindClmmIncreaseLiquidity:
		return "IncreaseLiquidityV2"
	case KindClmmDecreaseLiquidity:
		return "DecreaseLiquidityV2"
	case KindClmmOpenPosition:
		return "OpenPosition"
	case KindClmmClosePosition, KindDammV2ClosePosition:
		return "ClosePosition"
	case KindClmmCollectFee:
		return "CollectFee"
	case KindCpmmSwapBaseIn, KindAmmV4SwapBaseIn:
		return "SwapBaseIn"
	case KindCpmmSwapBaseOut, KindAmmV4SwapBaseOut:
		return "SwapBaseOut"
	case KindCpmmDeposit, KindAmmV4Deposit:
		return "Deposit"
	case KindCpmmWithdraw, KindAmmV4Withdraw:
		return "Withdraw"
	case KindAmmV4Initialize2:
		return "Initialize2"
	case KindWhirlpoolTraded:
		return "Traded"
	case KindWhirlpoolLiquidityIncreased:
		return "LiquidityIncreased"
	case KindWhirlpoolLiquidityDecreased:
		return "LiquidityDecreased"
	case KindWhirlpoolInitialize:
		return "Initialize"
	case KindMeteoraAMMSwap, KindDammV2Swap:
		return "Swap"
	case KindMeteoraAMMBootstrapLiquidity:
		return "BootstrapLiquidity"
	case KindMeteoraAMMPoolCreated:
		return "PoolCreated"
	case KindDammV2CreatePosition:
		return "CreatePosition"
	case KindDlmmEvent:
		return "DlmmEvent"
	case KindBonkTrade:
		return "Trade"
	default:
		return "Unknown"
	}
}

// Uint128 holds an unsigned 128-bit integer as two 64-bit limbs, little-endian
// ordered (Lo holds bits 0-63, Hi holds bits 64-127). Several on-wire AMM
// fields (e.g. Q64.64 liquidity values) exceed 64 bits.
type Uint128 struct {
	Lo uint64
	Hi uint64
}

// IsZero reports whether both limbs are zero.
func (u Uint128) IsZero() bool {
	return u.Lo == 0 && u.Hi == 0
}
