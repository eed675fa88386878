package config

import (
	"io"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/metatools/vault-go-sdk/pkg/constants"
)

// Network defines the target Solana cluster.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkDevnet  Network = "devnet"
	NetworkCustom  Network = "custom"
)

// DefaultRPCURL returns the standard RPC endpoint for a known network.
func DefaultRPCURL(network Network) string {
	switch network {
	case NetworkMainnet:
		return "https://api.mainnet-beta.solana.com"
	case NetworkTestnet:
		return "https://api.testnet.solana.com"
	case NetworkDevnet:
		return "https://api.devnet.solana.com"
	default:
		return ""
	}
}

// DefaultWSURL returns the standard websocket endpoint for a known network.
func DefaultWSURL(network Network) string {
	switch network {
	case NetworkMainnet:
		return "wss://api.mainnet-beta.solana.com"
	case NetworkTestnet:
		return "wss://api.testnet.solana.com"
	case NetworkDevnet:
		return "wss://api.devnet.solana.com"
	default:
		return ""
	}
}

// RetryConfig controls RPC retry behavior.
type RetryConfig struct {
	Enabled        bool
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Jitter         bool
}

// RateLimitConfig throttles outbound RPC calls.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// RPCConfig aggregates runtime settings for RPC usage.
type RPCConfig struct {
	Network    Network
	RPCURL     string
	WSURL      string
	Commitment string
	Timeout    time.Duration
	Retry      RetryConfig
	RateLimit  RateLimitConfig
	Logger     zerolog.Logger

	// ProgramID selects the vault program deployment. Builders and address
	// derivation take it explicitly, so tests and alternate deployments
	// need no global state.
	ProgramID solana.PublicKey
}

// DefaultRPCConfig yields production-safe defaults (mainnet, finalized
// commitment, mainnet vault deployment).
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		Network:    NetworkMainnet,
		RPCURL:     DefaultRPCURL(NetworkMainnet),
		WSURL:      DefaultWSURL(NetworkMainnet),
		Commitment: "finalized",
		Timeout:    20 * time.Second,
		Retry: RetryConfig{
			Enabled:        true,
			MaxAttempts:    3,
			InitialBackoff: 150 * time.Millisecond,
			MaxBackoff:     2 * time.Second,
			Jitter:         true,
		},
		RateLimit: RateLimitConfig{
			RPS:   8,
			Burst: 16,
		},
		Logger:    zerolog.New(io.Discard),
		ProgramID: constants.VaultProgramID,
	}
}

// ResolveRPCURL returns RPCURL if set, otherwise falls back to network defaults.
func (c RPCConfig) ResolveRPCURL() string {
	if c.RPCURL != "" {
		return c.RPCURL
	}
	return DefaultRPCURL(c.Network)
}

// ResolveWSURL returns WSURL if set, otherwise falls back to network defaults.
func (c RPCConfig) ResolveWSURL() string {
	if c.WSURL != "" {
		return c.WSURL
	}
	return DefaultWSURL(c.Network)
}

// ResolveProgramID returns the configured program ID, defaulting to the
// mainnet deployment.
func (c RPCConfig) ResolveProgramID() solana.PublicKey {
	if c.ProgramID.IsZero() {
		return constants.VaultProgramID
	}
	return c.ProgramID
}
