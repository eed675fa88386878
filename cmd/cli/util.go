package main

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	sdkconfig "github.com/metatools/vault-go-sdk/pkg/config"
	sdkrpc "github.com/metatools/vault-go-sdk/pkg/rpc"
)

// newReadClient builds a bare RPC client for read-only commands that never
// sign or send.
func newReadClient(cfg sdkconfig.RPCConfig) *sdkrpc.Client {
	return sdkrpc.NewClient(cfg)
}

// parsePubkey converts base58 string to PublicKey.
func parsePubkey(label, v string) (solana.PublicKey, error) {
	if v == "" {
		return solana.PublicKey{}, fmt.Errorf("%s is required", label)
	}
	pk, err := solana.PublicKeyFromBase58(v)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%s invalid pubkey: %w", label, err)
	}
	return pk, nil
}

// parseOptionalPubkey accepts an empty string as the zero key.
func parseOptionalPubkey(label, v string) (solana.PublicKey, error) {
	if v == "" {
		return solana.PublicKey{}, nil
	}
	return parsePubkey(label, v)
}

func fetchAccountData(ctx context.Context, deps *runtimeDeps, pk solana.PublicKey) ([]byte, error) {
	if deps == nil || deps.rpc == nil {
		return nil, fmt.Errorf("rpc client not ready")
	}
	info, err := deps.rpc.GetAccountInfo(ctx, pk)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if info == nil || info.Data == nil {
		return nil, fmt.Errorf("account empty")
	}
	return info.Data.GetBinary(), nil
}
