package vault_test

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatools/vault-go-sdk/pkg/constants"
	"github.com/metatools/vault-go-sdk/pkg/program/vault"
	"github.com/metatools/vault-go-sdk/pkg/types"
)

func testKeys(t *testing.T, n int) []solana.PublicKey {
	t.Helper()
	out := make([]solana.PublicKey, n)
	for i := range out {
		out[i] = solana.NewWallet().PublicKey()
	}
	return out
}

func mustData(t *testing.T, ix solana.Instruction) []byte {
	t.Helper()
	data, err := ix.Data()
	require.NoError(t, err)
	return data
}

func pkAt(data []byte, offset int) solana.PublicKey {
	return solana.PublicKeyFromBytes(data[offset : offset+32])
}

func TestBuildInitializeConfigPayload(t *testing.T) {
	keys := testKeys(t, 4)
	admin, config, treasury, buyback := keys[0], keys[1], keys[2], keys[3]

	ix, err := vault.BuildInitializeConfig(vault.InitializeConfigAccounts{
		Program: constants.VaultProgramID,
		Admin:   admin,
		Config:  config,
	}, vault.InitializeConfigArgs{
		Treasury:      treasury,
		BuybackWallet: buyback,
		FeeBps:        70,
		ReferralPct:   10,
		BuybackPct:    45,
		TreasuryPct:   45,
	})
	require.NoError(t, err)

	data := mustData(t, ix)
	require.Len(t, data, vault.InitializeConfigPayloadSize)
	assert.Equal(t, uint8(vault.InstructionInitializeConfig), data[0])
	assert.Equal(t, treasury, pkAt(data, 1))
	assert.Equal(t, buyback, pkAt(data, 33))
	assert.Equal(t, uint16(70), binary.LittleEndian.Uint16(data[65:67]))
	assert.Equal(t, uint8(10), data[67])
	assert.Equal(t, uint8(45), data[68])
	assert.Equal(t, uint8(45), data[69])
	assert.Equal(t, []byte{0, 0, 0}, data[70:73], "tail padding must stay zero")

	assert.Equal(t, constants.VaultProgramID, ix.ProgramID())
	metas := ix.Accounts()
	require.Len(t, metas, 3)
	assert.Equal(t, admin, metas[0].PublicKey)
	assert.True(t, metas[0].IsSigner)
	assert.True(t, metas[0].IsWritable)
	assert.Equal(t, config, metas[1].PublicKey)
	assert.False(t, metas[1].IsSigner)
	assert.True(t, metas[1].IsWritable)
	assert.Equal(t, solana.SystemProgramID, metas[2].PublicKey)
	assert.False(t, metas[2].IsSigner)
	assert.False(t, metas[2].IsWritable)
}

func TestBuildInitializeConfigRejectsBadSplit(t *testing.T) {
	keys := testKeys(t, 4)
	_, err := vault.BuildInitializeConfig(vault.InitializeConfigAccounts{
		Program: constants.VaultProgramID,
		Admin:   keys[0],
		Config:  keys[1],
	}, vault.InitializeConfigArgs{
		Treasury:      keys[2],
		BuybackWallet: keys[3],
		FeeBps:        70,
		ReferralPct:   10,
		BuybackPct:    45,
		TreasuryPct:   46, // 101
	})
	require.Error(t, err)
	var verr types.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBuildCreateVaultPayload(t *testing.T) {
	keys := testKeys(t, 4)
	sessionWallet, vaultPda, config, referrer := keys[0], keys[1], keys[2], keys[3]

	ix, err := vault.BuildCreateVault(vault.CreateVaultAccounts{
		Program:       constants.VaultProgramID,
		SessionWallet: sessionWallet,
		Vault:         vaultPda,
		Config:        config,
	}, vault.CreateVaultArgs{Referrer: referrer})
	require.NoError(t, err)

	data := mustData(t, ix)
	require.Len(t, data, vault.CreateVaultPayloadSize)
	assert.Equal(t, uint8(vault.InstructionCreateVault), data[0])
	assert.Equal(t, referrer, pkAt(data, 1))

	metas := ix.Accounts()
	require.Len(t, metas, 4)
	assert.Equal(t, sessionWallet, metas[0].PublicKey)
	assert.True(t, metas[0].IsSigner)
	assert.Equal(t, vaultPda, metas[1].PublicKey)
	assert.True(t, metas[1].IsWritable)
	assert.Equal(t, config, metas[2].PublicKey)
	assert.False(t, metas[2].IsWritable)
	assert.Equal(t, solana.SystemProgramID, metas[3].PublicKey)
}

func TestBuildCreateVaultZeroReferrer(t *testing.T) {
	keys := testKeys(t, 3)
	ix, err := vault.BuildCreateVault(vault.CreateVaultAccounts{
		Program:       constants.VaultProgramID,
		SessionWallet: keys[0],
		Vault:         keys[1],
		Config:        keys[2],
	}, vault.CreateVaultArgs{})
	require.NoError(t, err)

	data := mustData(t, ix)
	assert.True(t, pkAt(data, 1).IsZero(), "no referrer encodes as the zero key")
}

func TestBuildCloseVaultPayload(t *testing.T) {
	keys := testKeys(t, 2)
	ix, err := vault.BuildCloseVault(vault.CloseVaultAccounts{
		Program:       constants.VaultProgramID,
		SessionWallet: keys[0],
		Vault:         keys[1],
	})
	require.NoError(t, err)

	data := mustData(t, ix)
	require.Len(t, data, vault.CloseVaultPayloadSize)
	assert.Equal(t, uint8(vault.InstructionCloseVault), data[0])
	require.Len(t, ix.Accounts(), 3)
}

func TestBuildOpenPositionPayload(t *testing.T) {
	keys := testKeys(t, 10)
	sessionWallet, vaultPda, position, config := keys[0], keys[1], keys[2], keys[3]
	treasury, buyback, referrer := keys[4], keys[5], keys[6]
	pool, baseMint, quoteMint := keys[7], keys[8], keys[9]

	ix, err := vault.BuildOpenPosition(vault.OpenPositionAccounts{
		Program:       constants.VaultProgramID,
		SessionWallet: sessionWallet,
		Vault:         vaultPda,
		Position:      position,
		Config:        config,
		Treasury:      treasury,
		BuybackWallet: buyback,
		Referrer:      referrer,
	}, vault.OpenPositionArgs{
		Pool:       pool,
		BaseMint:   baseMint,
		QuoteMint:  quoteMint,
		InitialTVL: 1_000_000_000,
		Protocol:   vault.ProtocolDAMMv2,
		Strategy:   vault.StrategyBidAsk,
	})
	require.NoError(t, err)

	data := mustData(t, ix)
	require.Len(t, data, vault.OpenPositionPayloadSize)
	assert.Equal(t, uint8(vault.InstructionOpenPosition), data[0])
	assert.Equal(t, pool, pkAt(data, 1))
	assert.Equal(t, baseMint, pkAt(data, 33))
	assert.Equal(t, quoteMint, pkAt(data, 65))
	assert.Equal(t, uint64(1_000_000_000), binary.LittleEndian.Uint64(data[97:105]))
	assert.Equal(t, uint8(vault.ProtocolDAMMv2), data[105])
	assert.Equal(t, uint8(vault.StrategyBidAsk), data[106])
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0}, data[107:113], "tail padding must stay zero")

	metas := ix.Accounts()
	require.Len(t, metas, 9)
	assert.Equal(t, sessionWallet, metas[0].PublicKey)
	assert.True(t, metas[0].IsSigner)
	assert.True(t, metas[0].IsWritable)
	assert.Equal(t, vaultPda, metas[1].PublicKey)
	assert.Equal(t, position, metas[2].PublicKey)
	assert.True(t, metas[2].IsWritable)
	assert.Equal(t, config, metas[3].PublicKey)
	assert.False(t, metas[3].IsWritable)
	// The three fee recipients are writable; the program moves the fee.
	for i, want := range []solana.PublicKey{treasury, buyback, referrer} {
		assert.Equal(t, want, metas[4+i].PublicKey)
		assert.True(t, metas[4+i].IsWritable)
		assert.False(t, metas[4+i].IsSigner)
	}
	assert.Equal(t, solana.SystemProgramID, metas[7].PublicKey)
	assert.Equal(t, solana.SysVarRentPubkey, metas[8].PublicKey)
}

func TestBuildOpenPositionRejectsBadEnums(t *testing.T) {
	keys := testKeys(t, 10)
	accts := vault.OpenPositionAccounts{
		Program:       constants.VaultProgramID,
		SessionWallet: keys[0],
		Vault:         keys[1],
		Position:      keys[2],
		Config:        keys[3],
		Treasury:      keys[4],
		BuybackWallet: keys[5],
		Referrer:      keys[6],
	}
	args := vault.OpenPositionArgs{
		Pool:       keys[7],
		BaseMint:   keys[8],
		QuoteMint:  keys[9],
		InitialTVL: 1,
		Protocol:   vault.Protocol(9),
	}
	_, err := vault.BuildOpenPosition(accts, args)
	require.Error(t, err)

	args.Protocol = vault.ProtocolDLMM
	args.Strategy = vault.Strategy(7)
	_, err = vault.BuildOpenPosition(accts, args)
	require.Error(t, err)
}

func TestBuildOpenPositionRejectsZeroAccount(t *testing.T) {
	keys := testKeys(t, 9)
	_, err := vault.BuildOpenPosition(vault.OpenPositionAccounts{
		Program:       constants.VaultProgramID,
		SessionWallet: keys[0],
		Vault:         keys[1],
		Position:      keys[2],
		Config:        keys[3],
		Treasury:      solana.PublicKey{}, // missing
		BuybackWallet: keys[4],
		Referrer:      keys[5],
	}, vault.OpenPositionArgs{
		Pool:      keys[6],
		BaseMint:  keys[7],
		QuoteMint: keys[8],
	})
	require.Error(t, err)
	var verr types.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBuildClosePositionPayload(t *testing.T) {
	keys := testKeys(t, 2)
	ix, err := vault.BuildClosePosition(vault.ClosePositionAccounts{
		Program:       constants.VaultProgramID,
		SessionWallet: keys[0],
		Vault:         keys[1],
	}, vault.ClosePositionArgs{PositionID: 42})
	require.NoError(t, err)

	data := mustData(t, ix)
	require.Len(t, data, vault.ClosePositionPayloadSize)
	assert.Equal(t, uint8(vault.InstructionClosePosition), data[0])
	assert.Equal(t, uint64(42), binary.LittleEndian.Uint64(data[1:9]))
}

func TestBuildUpdatePositionTVLPayload(t *testing.T) {
	keys := testKeys(t, 2)
	ix, err := vault.BuildUpdatePositionTVL(vault.UpdatePositionTVLAccounts{
		Program:       constants.VaultProgramID,
		SessionWallet: keys[0],
		Vault:         keys[1],
	}, vault.UpdatePositionTVLArgs{
		PositionID:      7,
		NewTVL:          2_000_000_000,
		FeesClaimed:     5_500,
		TotalCompounded: 9_900,
	})
	require.NoError(t, err)

	data := mustData(t, ix)
	require.Len(t, data, vault.UpdatePositionTVLPayloadSize)
	assert.Equal(t, uint8(vault.InstructionUpdatePositionTVL), data[0])
	assert.Equal(t, uint64(7), binary.LittleEndian.Uint64(data[1:9]))
	assert.Equal(t, uint64(2_000_000_000), binary.LittleEndian.Uint64(data[9:17]))
	assert.Equal(t, uint64(5_500), binary.LittleEndian.Uint64(data[17:25]))
	assert.Equal(t, uint64(9_900), binary.LittleEndian.Uint64(data[25:33]))

	metas := ix.Accounts()
	require.Len(t, metas, 2)
	// Signs but is not debited.
	assert.True(t, metas[0].IsSigner)
	assert.False(t, metas[0].IsWritable)
	assert.True(t, metas[1].IsWritable)
}

func TestBuildUpdateConfigPayload(t *testing.T) {
	keys := testKeys(t, 4)
	admin, config, treasury, buyback := keys[0], keys[1], keys[2], keys[3]

	ix, err := vault.BuildUpdateConfig(vault.UpdateConfigAccounts{
		Program: constants.VaultProgramID,
		Admin:   admin,
		Config:  config,
	}, vault.UpdateConfigArgs{
		NewTreasury:      treasury,
		NewBuybackWallet: buyback,
		NewFeeBps:        100,
		NewReferralPct:   20,
		NewBuybackPct:    30,
		NewTreasuryPct:   50,
		Paused:           true,
	})
	require.NoError(t, err)

	data := mustData(t, ix)
	require.Len(t, data, vault.UpdateConfigPayloadSize)
	assert.Equal(t, uint8(vault.InstructionUpdateConfig), data[0])
	assert.Equal(t, treasury, pkAt(data, 1))
	assert.Equal(t, buyback, pkAt(data, 33))
	assert.Equal(t, uint16(100), binary.LittleEndian.Uint16(data[65:67]))
	assert.Equal(t, uint8(20), data[67])
	assert.Equal(t, uint8(30), data[68])
	assert.Equal(t, uint8(50), data[69])
	assert.Equal(t, uint8(1), data[70])
	assert.Equal(t, []byte{0, 0}, data[71:73])

	metas := ix.Accounts()
	require.Len(t, metas, 2)
	assert.Equal(t, admin, metas[0].PublicKey)
	assert.True(t, metas[0].IsSigner)
}

func TestInstructionTypeFromUint8(t *testing.T) {
	for v := uint8(0); v <= 6; v++ {
		it, err := vault.InstructionTypeFromUint8(v)
		require.NoError(t, err)
		assert.Equal(t, vault.InstructionType(v), it)
	}
	_, err := vault.InstructionTypeFromUint8(7)
	require.Error(t, err)
}
