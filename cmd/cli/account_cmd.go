package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/metatools/vault-go-sdk/pkg/program/vault"
)

func newAccountCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "account [pubkey]",
		Short: "Inspect a raw vault program account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := parsePubkey("account", args[0])
			if err != nil {
				return err
			}
			cfg := sdkconfigFromOpts(opts, cmd)
			client := newReadClient(cfg)

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			acc, err := client.GetAccountInfo(ctx, pub)
			if err != nil {
				return fmt.Errorf("fetch account: %w", err)
			}
			if acc == nil || acc.Data == nil {
				return fmt.Errorf("account not found or empty")
			}
			data := acc.Data.GetBinary()
			name, decoded, err := decodeKnownAccount(data)
			if err != nil {
				return err
			}
			bz, _ := json.MarshalIndent(decoded, "", "  ")
			fmt.Fprintf(cmd.OutOrStdout(), "account=%s program=%s\n%s\n", name, acc.Owner, string(bz))
			return nil
		},
	}
}

func decodeKnownAccount(data []byte) (string, interface{}, error) {
	if len(data) < 1 {
		return "", nil, fmt.Errorf("account data too short")
	}
	switch vault.AccountType(data[0]) {
	case vault.AccountVault:
		v, err := vault.DecodeVault(data)
		return "vault.Vault", v, err
	case vault.AccountPosition:
		p, err := vault.DecodePosition(data)
		return "vault.Position", p, err
	case vault.AccountGlobalConfig:
		c, err := vault.DecodeGlobalConfig(data)
		return "vault.GlobalConfig", c, err
	default:
		return "", nil, fmt.Errorf("unknown account discriminator %d", data[0])
	}
}
