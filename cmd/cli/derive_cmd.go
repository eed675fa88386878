package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	sdkconfig "github.com/metatools/vault-go-sdk/pkg/config"
	"github.com/metatools/vault-go-sdk/pkg/program/vault"
)

// newDeriveCmd prints program addresses without touching the network.
func newDeriveCmd(opts *globalOpts) *cobra.Command {
	var (
		walletStr string
		poolStr   string
	)
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive config/vault/position PDAs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := sdkconfig.DefaultRPCConfig()
			programID, err := resolveProgramID(opts, cfg)
			if err != nil {
				return err
			}

			out := map[string]interface{}{"program": programID.String()}

			configPda, configBump, err := vault.DeriveConfigAddress(programID)
			if err != nil {
				return err
			}
			out["config"] = configPda.String()
			out["configBump"] = configBump

			if walletStr != "" {
				wallet, err := parsePubkey("wallet", walletStr)
				if err != nil {
					return err
				}
				vaultPda, vaultBump, err := vault.DeriveVaultAddress(programID, wallet)
				if err != nil {
					return err
				}
				out["vault"] = vaultPda.String()
				out["vaultBump"] = vaultBump

				if poolStr != "" {
					pool, err := parsePubkey("pool", poolStr)
					if err != nil {
						return err
					}
					positionPda, positionBump, err := vault.DerivePositionAddress(programID, wallet, pool)
					if err != nil {
						return err
					}
					out["position"] = positionPda.String()
					out["positionBump"] = positionBump
				}
			}

			bz, _ := json.MarshalIndent(out, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}
	cmd.Flags().StringVar(&walletStr, "wallet", "", "session wallet pubkey (enables vault PDA)")
	cmd.Flags().StringVar(&poolStr, "pool", "", "pool pubkey (enables position PDA, needs --wallet)")
	return cmd
}
