package vault_test

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatools/vault-go-sdk/pkg/program/vault"
)

// blobWriter assembles synthetic account data the way the program lays it
// out: an 8-byte header with the type discriminator in byte 0, then packed
// little-endian fields.
type blobWriter struct {
	buf []byte
}

func newBlob(acctType vault.AccountType, bodySize int) *blobWriter {
	b := &blobWriter{buf: make([]byte, 0, 8+bodySize)}
	header := make([]byte, 8)
	header[0] = byte(acctType)
	b.buf = append(b.buf, header...)
	return b
}

func (b *blobWriter) pk(v solana.PublicKey) *blobWriter {
	b.buf = append(b.buf, v[:]...)
	return b
}

func (b *blobWriter) u64(v uint64) *blobWriter {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *blobWriter) i64(v int64) *blobWriter {
	return b.u64(uint64(v))
}

func (b *blobWriter) u32(v uint32) *blobWriter {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *blobWriter) u16(v uint16) *blobWriter {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *blobWriter) u8(v uint8) *blobWriter {
	b.buf = append(b.buf, v)
	return b
}

func (b *blobWriter) pad(n int) *blobWriter {
	b.buf = append(b.buf, make([]byte, n)...)
	return b
}

func TestDecodeGlobalConfig(t *testing.T) {
	admin := solana.NewWallet().PublicKey()
	treasury := solana.NewWallet().PublicKey()
	buyback := solana.NewWallet().PublicKey()

	data := newBlob(vault.AccountGlobalConfig, vault.GlobalConfigDataSize).
		pk(admin).pk(treasury).pk(buyback).
		u16(70).u8(10).u8(45).u8(45).u8(1).
		pad(128).buf

	cfg, err := vault.DecodeGlobalConfig(data)
	require.NoError(t, err)
	assert.Equal(t, admin, cfg.Admin)
	assert.Equal(t, treasury, cfg.Treasury)
	assert.Equal(t, buyback, cfg.BuybackWallet)
	assert.Equal(t, uint16(70), cfg.FeeBps)
	assert.Equal(t, uint8(10), cfg.ReferralPct)
	assert.Equal(t, uint8(45), cfg.BuybackPct)
	assert.Equal(t, uint8(45), cfg.TreasuryPct)
	assert.True(t, cfg.Paused)
}

func TestDecodeVault(t *testing.T) {
	sessionWallet := solana.NewWallet().PublicKey()
	mainWallet := solana.NewWallet().PublicKey()
	referrer := solana.NewWallet().PublicKey()

	data := newBlob(vault.AccountVault, vault.VaultDataSize).
		pk(sessionWallet).pk(mainWallet).pk(referrer).
		u64(1_000_000).u64(2_000_000).u64(500_000).u64(7_000).u64(3).
		i64(1_700_000_000).i64(1_700_100_000).
		u32(2).u8(uint8(vault.VaultStatusActive)).
		pad(3 + 128).buf

	v, err := vault.DecodeVault(data)
	require.NoError(t, err)
	assert.Equal(t, sessionWallet, v.SessionWallet)
	assert.Equal(t, mainWallet, v.MainWallet)
	assert.Equal(t, referrer, v.Referrer)
	assert.True(t, v.HasReferrer())
	assert.Equal(t, uint64(1_000_000), v.TotalValueLocked)
	assert.Equal(t, uint64(2_000_000), v.TotalDeposits)
	assert.Equal(t, uint64(500_000), v.TotalWithdrawals)
	assert.Equal(t, uint64(7_000), v.TotalFeesPaid)
	assert.Equal(t, uint64(3), v.NextPositionID)
	assert.Equal(t, int64(1_700_000_000), v.CreatedAt)
	assert.Equal(t, int64(1_700_100_000), v.LastActivity)
	assert.Equal(t, uint32(2), v.ActivePositions)
	assert.Equal(t, vault.VaultStatusActive, v.Status)
}

func TestDecodeVaultNoReferrer(t *testing.T) {
	data := newBlob(vault.AccountVault, vault.VaultDataSize).
		pk(solana.NewWallet().PublicKey()).
		pk(solana.NewWallet().PublicKey()).
		pk(solana.PublicKey{}).
		u64(0).u64(0).u64(0).u64(0).u64(0).
		i64(0).i64(0).
		u32(0).u8(0).
		pad(3 + 128).buf

	v, err := vault.DecodeVault(data)
	require.NoError(t, err)
	assert.False(t, v.HasReferrer())
}

func TestDecodePosition(t *testing.T) {
	sessionWallet := solana.NewWallet().PublicKey()
	pool := solana.NewWallet().PublicKey()
	baseMint := solana.NewWallet().PublicKey()
	quoteMint := solana.NewWallet().PublicKey()

	data := newBlob(vault.AccountPosition, vault.PositionDataSize).
		pk(sessionWallet).pk(pool).pk(baseMint).pk(quoteMint).
		u64(5).u64(1_000_000_000).u64(1_050_000_000).u64(7_000_000).
		u64(12_000).u64(9_000).
		i64(1_700_000_000).i64(1_700_200_000).
		u8(uint8(vault.ProtocolDLMM)).
		u8(uint8(vault.StrategyCurve)).
		u8(uint8(vault.PositionStatusOpen)).
		pad(5 + 64).buf

	p, err := vault.DecodePosition(data)
	require.NoError(t, err)
	assert.Equal(t, sessionWallet, p.SessionWallet)
	assert.Equal(t, pool, p.Pool)
	assert.Equal(t, baseMint, p.BaseMint)
	assert.Equal(t, quoteMint, p.QuoteMint)
	assert.Equal(t, uint64(5), p.PositionID)
	assert.Equal(t, uint64(1_000_000_000), p.InitialTVL)
	assert.Equal(t, uint64(1_050_000_000), p.CurrentTVL)
	assert.Equal(t, uint64(7_000_000), p.FeePaid)
	assert.Equal(t, uint64(12_000), p.FeesClaimed)
	assert.Equal(t, uint64(9_000), p.TotalCompounded)
	assert.Equal(t, vault.ProtocolDLMM, p.Protocol)
	assert.Equal(t, vault.StrategyCurve, p.Strategy)
	assert.Equal(t, vault.PositionStatusOpen, p.Status)
}

func TestDecodeRejectsShortData(t *testing.T) {
	_, err := vault.DecodeGlobalConfig([]byte{byte(vault.AccountGlobalConfig), 0, 0})
	require.Error(t, err)

	_, err = vault.DecodeVault(nil)
	require.Error(t, err)

	_, err = vault.DecodePosition(make([]byte, 16))
	require.Error(t, err)
}

func TestDecodeRejectsWrongDiscriminator(t *testing.T) {
	// A well-formed vault blob must not decode as a config.
	data := newBlob(vault.AccountVault, vault.GlobalConfigDataSize).
		pad(vault.GlobalConfigDataSize).buf

	_, err := vault.DecodeGlobalConfig(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discriminator")
}

func TestDecodePositionRejectsBadEnum(t *testing.T) {
	data := newBlob(vault.AccountPosition, vault.PositionDataSize).
		pk(solana.NewWallet().PublicKey()).
		pk(solana.NewWallet().PublicKey()).
		pk(solana.NewWallet().PublicKey()).
		pk(solana.NewWallet().PublicKey()).
		u64(0).u64(0).u64(0).u64(0).u64(0).u64(0).
		i64(0).i64(0).
		u8(200). // invalid protocol
		u8(0).u8(0).
		pad(5 + 64).buf

	_, err := vault.DecodePosition(data)
	require.Error(t, err)
}
