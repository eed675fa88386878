package vault_test

import (
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatools/vault-go-sdk/pkg/program/vault"
)

func appendU64(b []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(b, tmp[:]...)
}

func TestDecodeVaultCreatedEvent(t *testing.T) {
	sessionWallet := solana.NewWallet().PublicKey()
	mainWallet := solana.NewWallet().PublicKey()

	var data []byte
	data = append(data, sessionWallet[:]...)
	data = append(data, mainWallet[:]...)
	data = appendU64(data, 1_700_000_000)
	require.Len(t, data, vault.VaultCreatedEventSize)

	ev, err := vault.DecodeVaultCreatedEvent(data)
	require.NoError(t, err)
	assert.Equal(t, sessionWallet, ev.SessionWallet)
	assert.Equal(t, mainWallet, ev.MainWallet)
	assert.Equal(t, int64(1_700_000_000), ev.Timestamp)

	_, err = vault.DecodeVaultCreatedEvent(data[:40])
	require.Error(t, err)
}

func TestDecodePositionOpenedEvent(t *testing.T) {
	sessionWallet := solana.NewWallet().PublicKey()
	pool := solana.NewWallet().PublicKey()

	var data []byte
	data = append(data, sessionWallet[:]...)
	data = append(data, pool[:]...)
	data = appendU64(data, 3)             // position id
	data = appendU64(data, 1_000_000_000) // initial tvl
	data = appendU64(data, 7_000_000)     // fee paid
	data = appendU64(data, 1_700_000_000) // timestamp
	data = append(data, uint8(vault.ProtocolDAMMv2))
	data = append(data, make([]byte, 7)...) // padding
	require.Len(t, data, vault.PositionOpenedEventSize)

	ev, err := vault.DecodePositionOpenedEvent(data)
	require.NoError(t, err)
	assert.Equal(t, sessionWallet, ev.SessionWallet)
	assert.Equal(t, pool, ev.Pool)
	assert.Equal(t, uint64(3), ev.PositionID)
	assert.Equal(t, uint64(1_000_000_000), ev.InitialTVL)
	assert.Equal(t, uint64(7_000_000), ev.FeePaid)
	assert.Equal(t, int64(1_700_000_000), ev.Timestamp)
	assert.Equal(t, vault.ProtocolDAMMv2, ev.Protocol)
}

func TestClosedAndUpdatedShareLayout(t *testing.T) {
	sessionWallet := solana.NewWallet().PublicKey()

	var data []byte
	data = append(data, sessionWallet[:]...)
	data = appendU64(data, 9)             // position id
	data = appendU64(data, 1_100_000_000) // final tvl / new tvl
	data = appendU64(data, 42_000)        // fees claimed
	data = appendU64(data, 1_700_000_000) // timestamp
	require.Len(t, data, vault.PositionClosedEventSize)
	require.Equal(t, vault.PositionClosedEventSize, vault.PositionUpdatedEventSize)

	closed, err := vault.DecodePositionClosedEvent(data)
	require.NoError(t, err)
	updated, err := vault.DecodePositionUpdatedEvent(data)
	require.NoError(t, err)

	assert.Equal(t, closed.PositionID, updated.PositionID)
	assert.Equal(t, closed.FinalTVL, updated.NewTVL)
	assert.Equal(t, closed.TotalFeesClaimed, updated.FeesClaimed)
	assert.Equal(t, closed.Timestamp, updated.Timestamp)
}

func TestExtractEventData(t *testing.T) {
	payload1 := []byte{1, 2, 3, 4}
	payload2 := make([]byte, vault.VaultCreatedEventSize)

	logs := []string{
		"Program z7msBPQHDJjTvdQRoEcKyENgXDhSRYeHieN1ZMTqo35 invoke [1]",
		"Program log: Instruction: OpenPosition",
		"Program data: " + base64.StdEncoding.EncodeToString(payload1),
		"Program data: not-valid-base64!!!",
		"Program data: " + base64.StdEncoding.EncodeToString(payload2),
		"Program z7msBPQHDJjTvdQRoEcKyENgXDhSRYeHieN1ZMTqo35 success",
	}

	got := vault.ExtractEventData(logs)
	require.Len(t, got, 2)
	assert.Equal(t, payload1, got[0])
	assert.Equal(t, payload2, got[1])
}

func TestExtractEventDataEmpty(t *testing.T) {
	assert.Empty(t, vault.ExtractEventData(nil))
	assert.Empty(t, vault.ExtractEventData([]string{"Program log: hello"}))
}
