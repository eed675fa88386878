package config_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"

	"github.com/metatools/vault-go-sdk/pkg/config"
	"github.com/metatools/vault-go-sdk/pkg/constants"
)

func TestDefaultRPCConfig(t *testing.T) {
	cfg := config.DefaultRPCConfig()

	assert.Equal(t, config.NetworkMainnet, cfg.Network)
	assert.Equal(t, "finalized", cfg.Commitment)
	assert.Equal(t, constants.VaultProgramID, cfg.ResolveProgramID())
	assert.True(t, cfg.Retry.Enabled)
	assert.Greater(t, cfg.RateLimit.RPS, float64(0))
}

func TestResolveURLFallbacks(t *testing.T) {
	cfg := config.RPCConfig{Network: config.NetworkDevnet}
	assert.Equal(t, "https://api.devnet.solana.com", cfg.ResolveRPCURL())
	assert.Equal(t, "wss://api.devnet.solana.com", cfg.ResolveWSURL())

	cfg.RPCURL = "http://localhost:8899"
	cfg.WSURL = "ws://localhost:8900"
	assert.Equal(t, "http://localhost:8899", cfg.ResolveRPCURL())
	assert.Equal(t, "ws://localhost:8900", cfg.ResolveWSURL())
}

func TestResolveProgramIDOverride(t *testing.T) {
	custom := solana.NewWallet().PublicKey()
	cfg := config.RPCConfig{ProgramID: custom}
	assert.Equal(t, custom, cfg.ResolveProgramID())

	assert.Equal(t, constants.VaultProgramID, config.RPCConfig{}.ResolveProgramID())
}
