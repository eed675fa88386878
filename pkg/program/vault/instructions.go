package vault

import (
	"github.com/gagliardetto/solana-go"

	"github.com/metatools/vault-go-sdk/pkg/types"
)

// InstructionType is the opcode discriminator carried in the first payload
// byte of every instruction.
type InstructionType uint8

const (
	InstructionInitializeConfig InstructionType = iota
	InstructionCreateVault
	InstructionCloseVault
	InstructionOpenPosition
	InstructionClosePosition
	InstructionUpdatePositionTVL
	InstructionUpdateConfig
)

// InstructionTypeFromUint8 maps a wire byte to an InstructionType.
func InstructionTypeFromUint8(v uint8) (InstructionType, error) {
	if v > uint8(InstructionUpdateConfig) {
		return 0, types.NewValidationError("discriminator", "unknown instruction type")
	}
	return InstructionType(v), nil
}

// Payload sizes are wire-format invariants of the deployed program: a
// one-byte discriminator followed by a packed, padded C struct. The program
// rejects any payload whose length does not match.
const (
	InitializeConfigPayloadSize  = 1 + 32 + 32 + 2 + 1 + 1 + 1 + 3  // 73
	CreateVaultPayloadSize       = 1 + 32                           // 33
	CloseVaultPayloadSize        = 1                                // 1
	OpenPositionPayloadSize      = 1 + 32 + 32 + 32 + 8 + 1 + 1 + 6 // 113
	ClosePositionPayloadSize     = 1 + 8                            // 9
	UpdatePositionTVLPayloadSize = 1 + 8 + 8 + 8 + 8                // 33
	UpdateConfigPayloadSize      = 1 + 32 + 32 + 2 + 1 + 1 + 1 + 1 + 2
)

// InitializeConfigAccounts lists the accounts for the one-time config setup.
type InitializeConfigAccounts struct {
	Program solana.PublicKey // vault program ID
	Admin   solana.PublicKey // pays rent, becomes config authority
	Config  solana.PublicKey // PDA ["config"]
}

// InitializeConfigArgs carries the initial fee configuration.
type InitializeConfigArgs struct {
	Treasury      solana.PublicKey
	BuybackWallet solana.PublicKey
	FeeBps        uint16
	ReferralPct   uint8
	BuybackPct    uint8
	TreasuryPct   uint8
}

// BuildInitializeConfig builds the InitializeConfig instruction.
func BuildInitializeConfig(accts InitializeConfigAccounts, args InitializeConfigArgs) (solana.Instruction, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"program":       accts.Program,
		"admin":         accts.Admin,
		"config":        accts.Config,
		"treasury":      args.Treasury,
		"buybackWallet": args.BuybackWallet,
	}); err != nil {
		return nil, err
	}
	if err := ValidateFeeConfig(args.FeeBps, args.ReferralPct, args.BuybackPct, args.TreasuryPct); err != nil {
		return nil, err
	}

	enc := newPayloadEncoder(InitializeConfigPayloadSize)
	fields := []error{
		enc.writeUint8("discriminator", 0, uint8(InstructionInitializeConfig)),
		enc.writePublicKey("treasury", 1, args.Treasury),
		enc.writePublicKey("buybackWallet", 33, args.BuybackWallet),
		enc.writeUint16("feeBps", 65, args.FeeBps),
		enc.writeUint8("referralPct", 67, args.ReferralPct),
		enc.writeUint8("buybackPct", 68, args.BuybackPct),
		enc.writeUint8("treasuryPct", 69, args.TreasuryPct),
	}
	if err := firstError(fields); err != nil {
		return nil, err
	}

	return solana.NewInstruction(accts.Program, solana.AccountMetaSlice{
		solana.NewAccountMeta(accts.Admin, true, true),
		solana.NewAccountMeta(accts.Config, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}, enc.bytes()), nil
}

// CreateVaultAccounts lists the accounts for vault creation.
type CreateVaultAccounts struct {
	Program       solana.PublicKey
	SessionWallet solana.PublicKey // signer, pays rent
	Vault         solana.PublicKey // PDA ["vault", sessionWallet]
	Config        solana.PublicKey // PDA ["config"]
}

// CreateVaultArgs carries the optional referrer. A zero referrer means the
// user was not referred; the referral share of every fee then goes to the
// treasury.
type CreateVaultArgs struct {
	Referrer solana.PublicKey
}

// BuildCreateVault builds the CreateVault instruction.
func BuildCreateVault(accts CreateVaultAccounts, args CreateVaultArgs) (solana.Instruction, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"program":       accts.Program,
		"sessionWallet": accts.SessionWallet,
		"vault":         accts.Vault,
		"config":        accts.Config,
	}); err != nil {
		return nil, err
	}

	enc := newPayloadEncoder(CreateVaultPayloadSize)
	fields := []error{
		enc.writeUint8("discriminator", 0, uint8(InstructionCreateVault)),
		enc.writePublicKey("referrer", 1, args.Referrer),
	}
	if err := firstError(fields); err != nil {
		return nil, err
	}

	return solana.NewInstruction(accts.Program, solana.AccountMetaSlice{
		solana.NewAccountMeta(accts.SessionWallet, true, true),
		solana.NewAccountMeta(accts.Vault, true, false),
		solana.NewAccountMeta(accts.Config, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}, enc.bytes()), nil
}

// CloseVaultAccounts lists the accounts for closing a vault. The program
// rejects the close while any position is still open.
type CloseVaultAccounts struct {
	Program       solana.PublicKey
	SessionWallet solana.PublicKey // signer, receives reclaimed rent
	Vault         solana.PublicKey
}

// BuildCloseVault builds the CloseVault instruction. The payload is the bare
// discriminator.
func BuildCloseVault(accts CloseVaultAccounts) (solana.Instruction, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"program":       accts.Program,
		"sessionWallet": accts.SessionWallet,
		"vault":         accts.Vault,
	}); err != nil {
		return nil, err
	}

	enc := newPayloadEncoder(CloseVaultPayloadSize)
	if err := enc.writeUint8("discriminator", 0, uint8(InstructionCloseVault)); err != nil {
		return nil, err
	}

	return solana.NewInstruction(accts.Program, solana.AccountMetaSlice{
		solana.NewAccountMeta(accts.SessionWallet, true, true),
		solana.NewAccountMeta(accts.Vault, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}, enc.bytes()), nil
}

// OpenPositionAccounts lists the accounts for opening a position. The three
// fee recipients are writable because the program transfers the split fee to
// them atomically with position creation; the client never moves funds
// itself.
type OpenPositionAccounts struct {
	Program       solana.PublicKey
	SessionWallet solana.PublicKey // signer, pays rent and fee
	Vault         solana.PublicKey // PDA ["vault", sessionWallet]
	Position      solana.PublicKey // PDA ["position", sessionWallet, pool]
	Config        solana.PublicKey // PDA ["config"]
	Treasury      solana.PublicKey
	BuybackWallet solana.PublicKey
	Referrer      solana.PublicKey // treasury when the vault has no referrer
}

// OpenPositionArgs carries the position parameters.
type OpenPositionArgs struct {
	Pool       solana.PublicKey
	BaseMint   solana.PublicKey
	QuoteMint  solana.PublicKey
	InitialTVL uint64
	Protocol   Protocol
	Strategy   Strategy
}

// BuildOpenPosition builds the OpenPosition instruction.
func BuildOpenPosition(accts OpenPositionAccounts, args OpenPositionArgs) (solana.Instruction, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"program":       accts.Program,
		"sessionWallet": accts.SessionWallet,
		"vault":         accts.Vault,
		"position":      accts.Position,
		"config":        accts.Config,
		"treasury":      accts.Treasury,
		"buybackWallet": accts.BuybackWallet,
		"referrer":      accts.Referrer,
		"pool":          args.Pool,
		"baseMint":      args.BaseMint,
		"quoteMint":     args.QuoteMint,
	}); err != nil {
		return nil, err
	}
	if _, err := ProtocolFromUint8(uint8(args.Protocol)); err != nil {
		return nil, types.NewValidationError("protocol", err.Error())
	}
	if _, err := StrategyFromUint8(uint8(args.Strategy)); err != nil {
		return nil, types.NewValidationError("strategy", err.Error())
	}

	enc := newPayloadEncoder(OpenPositionPayloadSize)
	fields := []error{
		enc.writeUint8("discriminator", 0, uint8(InstructionOpenPosition)),
		enc.writePublicKey("pool", 1, args.Pool),
		enc.writePublicKey("baseMint", 33, args.BaseMint),
		enc.writePublicKey("quoteMint", 65, args.QuoteMint),
		enc.writeUint64("initialTvl", 97, args.InitialTVL),
		enc.writeUint8("protocol", 105, uint8(args.Protocol)),
		enc.writeUint8("strategy", 106, uint8(args.Strategy)),
	}
	if err := firstError(fields); err != nil {
		return nil, err
	}

	return solana.NewInstruction(accts.Program, solana.AccountMetaSlice{
		solana.NewAccountMeta(accts.SessionWallet, true, true),
		solana.NewAccountMeta(accts.Vault, true, false),
		solana.NewAccountMeta(accts.Position, true, false),
		solana.NewAccountMeta(accts.Config, false, false),
		solana.NewAccountMeta(accts.Treasury, true, false),
		solana.NewAccountMeta(accts.BuybackWallet, true, false),
		solana.NewAccountMeta(accts.Referrer, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.SysVarRentPubkey, false, false),
	}, enc.bytes()), nil
}

// ClosePositionAccounts lists the accounts for closing a position.
type ClosePositionAccounts struct {
	Program       solana.PublicKey
	SessionWallet solana.PublicKey // signer, receives reclaimed rent
	Vault         solana.PublicKey
}

// ClosePositionArgs identifies the position by its on-chain ID.
type ClosePositionArgs struct {
	PositionID uint64
}

// BuildClosePosition builds the ClosePosition instruction.
func BuildClosePosition(accts ClosePositionAccounts, args ClosePositionArgs) (solana.Instruction, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"program":       accts.Program,
		"sessionWallet": accts.SessionWallet,
		"vault":         accts.Vault,
	}); err != nil {
		return nil, err
	}

	enc := newPayloadEncoder(ClosePositionPayloadSize)
	fields := []error{
		enc.writeUint8("discriminator", 0, uint8(InstructionClosePosition)),
		enc.writeUint64("positionId", 1, args.PositionID),
	}
	if err := firstError(fields); err != nil {
		return nil, err
	}

	return solana.NewInstruction(accts.Program, solana.AccountMetaSlice{
		solana.NewAccountMeta(accts.SessionWallet, true, true),
		solana.NewAccountMeta(accts.Vault, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}, enc.bytes()), nil
}

// UpdatePositionTVLAccounts lists the accounts for a TVL refresh. The session
// wallet signs but is not debited, so it stays readonly.
type UpdatePositionTVLAccounts struct {
	Program       solana.PublicKey
	SessionWallet solana.PublicKey
	Vault         solana.PublicKey
}

// UpdatePositionTVLArgs carries the refreshed analytics counters.
type UpdatePositionTVLArgs struct {
	PositionID      uint64
	NewTVL          uint64
	FeesClaimed     uint64
	TotalCompounded uint64
}

// BuildUpdatePositionTVL builds the UpdatePositionTVL instruction.
func BuildUpdatePositionTVL(accts UpdatePositionTVLAccounts, args UpdatePositionTVLArgs) (solana.Instruction, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"program":       accts.Program,
		"sessionWallet": accts.SessionWallet,
		"vault":         accts.Vault,
	}); err != nil {
		return nil, err
	}

	enc := newPayloadEncoder(UpdatePositionTVLPayloadSize)
	fields := []error{
		enc.writeUint8("discriminator", 0, uint8(InstructionUpdatePositionTVL)),
		enc.writeUint64("positionId", 1, args.PositionID),
		enc.writeUint64("newTvl", 9, args.NewTVL),
		enc.writeUint64("feesClaimed", 17, args.FeesClaimed),
		enc.writeUint64("totalCompounded", 25, args.TotalCompounded),
	}
	if err := firstError(fields); err != nil {
		return nil, err
	}

	return solana.NewInstruction(accts.Program, solana.AccountMetaSlice{
		solana.NewAccountMeta(accts.SessionWallet, false, true),
		solana.NewAccountMeta(accts.Vault, true, false),
	}, enc.bytes()), nil
}

// UpdateConfigAccounts lists the accounts for a config mutation.
type UpdateConfigAccounts struct {
	Program solana.PublicKey
	Admin   solana.PublicKey // must match config.admin on-chain
	Config  solana.PublicKey
}

// UpdateConfigArgs carries the full replacement configuration. Every field
// is written on-chain, so callers must pass current values for fields they
// do not intend to change.
type UpdateConfigArgs struct {
	NewTreasury      solana.PublicKey
	NewBuybackWallet solana.PublicKey
	NewFeeBps        uint16
	NewReferralPct   uint8
	NewBuybackPct    uint8
	NewTreasuryPct   uint8
	Paused           bool
}

// BuildUpdateConfig builds the UpdateConfig instruction.
func BuildUpdateConfig(accts UpdateConfigAccounts, args UpdateConfigArgs) (solana.Instruction, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"program":          accts.Program,
		"admin":            accts.Admin,
		"config":           accts.Config,
		"newTreasury":      args.NewTreasury,
		"newBuybackWallet": args.NewBuybackWallet,
	}); err != nil {
		return nil, err
	}
	if err := ValidateFeeConfig(args.NewFeeBps, args.NewReferralPct, args.NewBuybackPct, args.NewTreasuryPct); err != nil {
		return nil, err
	}

	var paused uint8
	if args.Paused {
		paused = 1
	}

	enc := newPayloadEncoder(UpdateConfigPayloadSize)
	fields := []error{
		enc.writeUint8("discriminator", 0, uint8(InstructionUpdateConfig)),
		enc.writePublicKey("newTreasury", 1, args.NewTreasury),
		enc.writePublicKey("newBuybackWallet", 33, args.NewBuybackWallet),
		enc.writeUint16("newFeeBps", 65, args.NewFeeBps),
		enc.writeUint8("newReferralPct", 67, args.NewReferralPct),
		enc.writeUint8("newBuybackPct", 68, args.NewBuybackPct),
		enc.writeUint8("newTreasuryPct", 69, args.NewTreasuryPct),
		enc.writeUint8("paused", 70, paused),
	}
	if err := firstError(fields); err != nil {
		return nil, err
	}

	return solana.NewInstruction(accts.Program, solana.AccountMetaSlice{
		solana.NewAccountMeta(accts.Admin, true, true),
		solana.NewAccountMeta(accts.Config, true, false),
	}, enc.bytes()), nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
