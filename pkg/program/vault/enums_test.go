package vault_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatools/vault-go-sdk/pkg/program/vault"
)

func TestProtocolFromUint8(t *testing.T) {
	for v := uint8(0); v <= 4; v++ {
		p, err := vault.ProtocolFromUint8(v)
		require.NoError(t, err)
		assert.Equal(t, vault.Protocol(v), p)
	}
	_, err := vault.ProtocolFromUint8(5)
	require.Error(t, err)
}

func TestStrategyFromUint8(t *testing.T) {
	for v := uint8(0); v <= 2; v++ {
		s, err := vault.StrategyFromUint8(v)
		require.NoError(t, err)
		assert.Equal(t, vault.Strategy(v), s)
	}
	_, err := vault.StrategyFromUint8(3)
	require.Error(t, err)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "dlmm", vault.ProtocolDLMM.String())
	assert.Equal(t, "damm_v2", vault.ProtocolDAMMv2.String())
	assert.Equal(t, "alpha_vault", vault.ProtocolAlphaVault.String())
	assert.Equal(t, "bid_ask", vault.StrategyBidAsk.String())
	assert.Equal(t, "active", vault.VaultStatusActive.String())
	assert.Equal(t, "open", vault.PositionStatusOpen.String())
}
