// Package flow composes the pure vault instruction builders with on-chain
// reads: it derives the PDAs, loads the global config, probes vault
// existence, and returns ready-to-submit instruction sets. It is the
// analogue of what the UI action layer does by hand.
package flow

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	solanarpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/metatools/vault-go-sdk/pkg/program/vault"
	"github.com/metatools/vault-go-sdk/pkg/types"
)

// Client is the read surface the flow helpers need. *rpc.Client satisfies
// it; tests substitute stubs.
type Client interface {
	AccountExists(ctx context.Context, address solana.PublicKey) (bool, error)
	GetAccountInfo(ctx context.Context, address solana.PublicKey) (*solanarpc.Account, error)
}

// FetchGlobalConfig reads and decodes the global config account.
func FetchGlobalConfig(ctx context.Context, c Client, programID solana.PublicKey) (*vault.GlobalConfig, solana.PublicKey, error) {
	configPda, _, err := vault.DeriveConfigAddress(programID)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	acc, err := c.GetAccountInfo(ctx, configPda)
	if err != nil {
		if errors.Is(err, solanarpc.ErrNotFound) {
			return nil, configPda, types.ErrGlobalConfigNotFound
		}
		return nil, configPda, types.RPCError{Op: "fetch global config", Err: err}
	}
	cfg, err := vault.DecodeGlobalConfig(acc.Data.GetBinary())
	if err != nil {
		return nil, configPda, err
	}
	return cfg, configPda, nil
}

// FetchVault reads and decodes the vault account for a session wallet.
// Returns types.ErrVaultNotFound when no vault exists yet.
func FetchVault(ctx context.Context, c Client, programID, sessionWallet solana.PublicKey) (*vault.Vault, solana.PublicKey, error) {
	vaultPda, _, err := vault.DeriveVaultAddress(programID, sessionWallet)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	acc, err := c.GetAccountInfo(ctx, vaultPda)
	if err != nil {
		if errors.Is(err, solanarpc.ErrNotFound) {
			return nil, vaultPda, types.ErrVaultNotFound
		}
		return nil, vaultPda, types.RPCError{Op: "fetch vault", Err: err}
	}
	v, err := vault.DecodeVault(acc.Data.GetBinary())
	if err != nil {
		return nil, vaultPda, err
	}
	return v, vaultPda, nil
}

// FetchPosition reads and decodes the position account for a
// (sessionWallet, pool) pair.
func FetchPosition(ctx context.Context, c Client, programID, sessionWallet, pool solana.PublicKey) (*vault.Position, solana.PublicKey, error) {
	positionPda, _, err := vault.DerivePositionAddress(programID, sessionWallet, pool)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	acc, err := c.GetAccountInfo(ctx, positionPda)
	if err != nil {
		if errors.Is(err, solanarpc.ErrNotFound) {
			return nil, positionPda, types.ErrPositionNotFound
		}
		return nil, positionPda, types.RPCError{Op: "fetch position", Err: err}
	}
	p, err := vault.DecodePosition(acc.Data.GetBinary())
	if err != nil {
		return nil, positionPda, err
	}
	return p, positionPda, nil
}

// EnsureVault probes the vault PDA and returns a CreateVault instruction if
// and only if the vault does not exist yet. A probe failure propagates: the
// caller must not guess whether creation is needed.
func EnsureVault(ctx context.Context, c Client, programID, sessionWallet solana.PublicKey, opts ...Option) (solana.Instruction, solana.PublicKey, error) {
	if c == nil {
		return nil, solana.PublicKey{}, types.ErrNilRPC
	}
	if err := types.ValidatePublicKey("sessionWallet", sessionWallet); err != nil {
		return nil, solana.PublicKey{}, err
	}

	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	vaultPda, _, err := vault.DeriveVaultAddress(programID, sessionWallet)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	if !options.KnownVault {
		exists, err := c.AccountExists(ctx, vaultPda)
		if err != nil {
			return nil, vaultPda, types.RPCError{Op: "probe vault", Err: err}
		}
		if exists {
			return nil, vaultPda, nil
		}
	} else {
		return nil, vaultPda, nil
	}

	configPda, _, err := vault.DeriveConfigAddress(programID)
	if err != nil {
		return nil, vaultPda, err
	}
	ix, err := vault.BuildCreateVault(vault.CreateVaultAccounts{
		Program:       programID,
		SessionWallet: sessionWallet,
		Vault:         vaultPda,
		Config:        configPda,
	}, vault.CreateVaultArgs{Referrer: options.Referrer})
	if err != nil {
		return nil, vaultPda, err
	}
	return ix, vaultPda, nil
}

// OpenPositionParams are the caller-supplied position parameters.
type OpenPositionParams struct {
	Pool       solana.PublicKey
	BaseMint   solana.PublicKey
	QuoteMint  solana.PublicKey
	InitialTVL uint64
	Protocol   vault.Protocol
	Strategy   vault.Strategy
}

// OpenPositionResult carries everything the caller needs to submit and audit
// an open.
type OpenPositionResult struct {
	Accounts     vault.OpenPositionAccounts `json:"accounts"`
	Args         vault.OpenPositionArgs     `json:"args"`
	Fee          uint64                     `json:"fee"`
	Split        vault.FeeSplit             `json:"split"`
	VaultCreated bool                       `json:"vaultCreated"`
}

// OpenPosition builds the full instruction set for opening a position:
// an optional CreateVault when the vault PDA holds no account, followed by
// the OpenPosition instruction with the fee-recipient accounts filled from
// the on-chain config. The returned fee is the client-side estimate of what
// the program will charge, computed with the same integer arithmetic.
func OpenPosition(ctx context.Context, c Client, programID, sessionWallet solana.PublicKey, params OpenPositionParams, opts ...Option) (OpenPositionResult, []solana.Instruction, error) {
	if c == nil {
		return OpenPositionResult{}, nil, types.ErrNilRPC
	}
	if err := types.ValidatePublicKey("sessionWallet", sessionWallet); err != nil {
		return OpenPositionResult{}, nil, err
	}
	if err := types.ValidateAmount("initialTvl", params.InitialTVL); err != nil {
		return OpenPositionResult{}, nil, err
	}

	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	cfg, configPda, err := FetchGlobalConfig(ctx, c, programID)
	if err != nil {
		return OpenPositionResult{}, nil, err
	}
	if cfg.Paused && !options.AllowPaused {
		return OpenPositionResult{}, nil, types.ErrProgramPaused
	}

	vaultPda, _, err := vault.DeriveVaultAddress(programID, sessionWallet)
	if err != nil {
		return OpenPositionResult{}, nil, err
	}
	positionPda, _, err := vault.DerivePositionAddress(programID, sessionWallet, params.Pool)
	if err != nil {
		return OpenPositionResult{}, nil, err
	}

	// One read settles both vault existence and the referrer on file.
	referrer := options.Referrer
	vaultCreated := false
	if !options.KnownVault {
		existing, _, err := FetchVault(ctx, c, programID, sessionWallet)
		switch {
		case err == nil:
			referrer = existing.Referrer
		case errors.Is(err, types.ErrVaultNotFound):
			vaultCreated = true
		default:
			return OpenPositionResult{}, nil, err
		}
	}

	var instrs []solana.Instruction
	if vaultCreated {
		createIx, err := vault.BuildCreateVault(vault.CreateVaultAccounts{
			Program:       programID,
			SessionWallet: sessionWallet,
			Vault:         vaultPda,
			Config:        configPda,
		}, vault.CreateVaultArgs{Referrer: options.Referrer})
		if err != nil {
			return OpenPositionResult{}, nil, err
		}
		instrs = append(instrs, createIx)
	}

	// The program skips the referral transfer when the vault has no
	// referrer, but the account slot must still hold a valid writable
	// pubkey; the treasury stands in.
	hasReferrer := !referrer.IsZero()
	referrerAccount := referrer
	if !hasReferrer {
		referrerAccount = cfg.Treasury
	}

	accts := vault.OpenPositionAccounts{
		Program:       programID,
		SessionWallet: sessionWallet,
		Vault:         vaultPda,
		Position:      positionPda,
		Config:        configPda,
		Treasury:      cfg.Treasury,
		BuybackWallet: cfg.BuybackWallet,
		Referrer:      referrerAccount,
	}
	args := vault.OpenPositionArgs{
		Pool:       params.Pool,
		BaseMint:   params.BaseMint,
		QuoteMint:  params.QuoteMint,
		InitialTVL: params.InitialTVL,
		Protocol:   params.Protocol,
		Strategy:   params.Strategy,
	}

	ix, err := vault.BuildOpenPosition(accts, args)
	if err != nil {
		return OpenPositionResult{}, nil, err
	}
	instrs = append(instrs, ix)
	instrs = appendJitoTip(instrs, sessionWallet, options)

	fee := vault.CalculateFee(params.InitialTVL, cfg.FeeBps)
	result := OpenPositionResult{
		Accounts:     accts,
		Args:         args,
		Fee:          fee,
		Split:        vault.SplitFee(fee, cfg.ReferralPct, cfg.BuybackPct, hasReferrer),
		VaultCreated: vaultCreated,
	}

	if options.Preview != nil {
		_ = json.NewEncoder(options.Preview).Encode(result)
	}
	return result, instrs, nil
}

// ClosePosition builds the ClosePosition instruction. Purely local: the
// program authoritatively rejects closes of unknown or already-closed
// positions.
func ClosePosition(programID, sessionWallet solana.PublicKey, positionID uint64) (solana.Instruction, error) {
	vaultPda, _, err := vault.DeriveVaultAddress(programID, sessionWallet)
	if err != nil {
		return nil, err
	}
	return vault.BuildClosePosition(vault.ClosePositionAccounts{
		Program:       programID,
		SessionWallet: sessionWallet,
		Vault:         vaultPda,
	}, vault.ClosePositionArgs{PositionID: positionID})
}

// UpdatePositionTVL builds the analytics refresh instruction.
func UpdatePositionTVL(programID, sessionWallet solana.PublicKey, args vault.UpdatePositionTVLArgs) (solana.Instruction, error) {
	vaultPda, _, err := vault.DeriveVaultAddress(programID, sessionWallet)
	if err != nil {
		return nil, err
	}
	return vault.BuildUpdatePositionTVL(vault.UpdatePositionTVLAccounts{
		Program:       programID,
		SessionWallet: sessionWallet,
		Vault:         vaultPda,
	}, args)
}

// CloseVault builds the CloseVault instruction.
func CloseVault(programID, sessionWallet solana.PublicKey) (solana.Instruction, error) {
	vaultPda, _, err := vault.DeriveVaultAddress(programID, sessionWallet)
	if err != nil {
		return nil, err
	}
	return vault.BuildCloseVault(vault.CloseVaultAccounts{
		Program:       programID,
		SessionWallet: sessionWallet,
		Vault:         vaultPda,
	})
}

// InitializeConfig builds the one-time config setup instruction.
func InitializeConfig(programID, admin solana.PublicKey, args vault.InitializeConfigArgs) (solana.Instruction, error) {
	configPda, _, err := vault.DeriveConfigAddress(programID)
	if err != nil {
		return nil, err
	}
	return vault.BuildInitializeConfig(vault.InitializeConfigAccounts{
		Program: programID,
		Admin:   admin,
		Config:  configPda,
	}, args)
}

// UpdateConfig builds the admin config mutation instruction.
func UpdateConfig(programID, admin solana.PublicKey, args vault.UpdateConfigArgs) (solana.Instruction, error) {
	configPda, _, err := vault.DeriveConfigAddress(programID)
	if err != nil {
		return nil, err
	}
	return vault.BuildUpdateConfig(vault.UpdateConfigAccounts{
		Program: programID,
		Admin:   admin,
		Config:  configPda,
	}, args)
}

// EstimateOpenFee returns the fee and split the program would charge for
// opening a position of the given size under the current on-chain config.
func EstimateOpenFee(ctx context.Context, c Client, programID solana.PublicKey, initialTVL uint64, hasReferrer bool) (uint64, vault.FeeSplit, error) {
	cfg, _, err := FetchGlobalConfig(ctx, c, programID)
	if err != nil {
		return 0, vault.FeeSplit{}, err
	}
	fee := vault.CalculateFee(initialTVL, cfg.FeeBps)
	return fee, vault.SplitFee(fee, cfg.ReferralPct, cfg.BuybackPct, hasReferrer), nil
}

// appendJitoTip appends a tip transfer instruction if configured.
func appendJitoTip(instrs []solana.Instruction, from solana.PublicKey, options *Options) []solana.Instruction {
	if options.JitoTipLamports == 0 || options.JitoTipAccount.IsZero() {
		return instrs
	}
	tip := system.NewTransferInstruction(
		options.JitoTipLamports,
		from,
		options.JitoTipAccount,
	).Build()
	return append(instrs, tip)
}
