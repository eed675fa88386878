package constants

import "github.com/gagliardetto/solana-go"

// Well-known program IDs
var (
	SystemProgramID     = solana.SystemProgramID
	SysvarRentProgramID = solana.SysVarRentPubkey

	// Metatools fee-vault program (mainnet deployment)
	VaultProgramID = solana.MustPublicKeyFromBase58("z7msBPQHDJjTvdQRoEcKyENgXDhSRYeHieN1ZMTqo35")
)

// PDA seeds
const (
	SeedConfig   = "config"
	SeedVault    = "vault"
	SeedPosition = "position"
)

// Default fee parameters of the mainnet deployment: 0.7% charged per
// position open, split 10/45/45 between referrer, buyback wallet, and treasury.
const (
	DefaultFeeBps      uint16 = 70
	DefaultReferralPct uint8  = 10
	DefaultBuybackPct  uint8  = 45
	DefaultTreasuryPct uint8  = 45
)
