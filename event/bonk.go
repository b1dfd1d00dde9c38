package event

// BonkTrade is emitted for a trade against a Bonk launchpad bonding curve.
type BonkTrade struct {
	Metadata

	Pool        Pubkey
	User        Pubkey
	Mint        Pubkey
	SolAmount   uint64
	TokenAmount uint64
	IsBuy       bool
}
