package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/metatools/vault-go-sdk/pkg/flow"
)

func newVaultCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Session vault lifecycle",
	}
	cmd.AddCommand(
		newCreateVaultCmd(opts),
		newCloseVaultCmd(opts),
		newShowVaultCmd(opts),
	)
	return cmd
}

func newCreateVaultCmd(opts *globalOpts) *cobra.Command {
	var (
		referrerStr string
		preview     bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the session vault for the fee payer (no-op if it exists)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			deps, err := newBuilder(cmd, opts)
			if err != nil {
				return err
			}
			referrer, err := parseOptionalPubkey("referrer", referrerStr)
			if err != nil {
				return err
			}

			var flowOpts []flow.Option
			if !referrer.IsZero() {
				flowOpts = append(flowOpts, flow.WithReferrer(referrer))
			}
			ix, vaultPda, err := flow.EnsureVault(ctx, deps.rpc, deps.programID, deps.signer.PublicKey(), flowOpts...)
			if err != nil {
				return err
			}
			if ix == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "vault already exists: %s\n", vaultPda)
				return nil
			}
			if preview {
				fmt.Fprintf(cmd.OutOrStdout(), "vault=%s referrer=%s\n", vaultPda, referrer)
				return nil
			}

			sig, err := deps.builder.BuildSignSend(ctx, deps.signer, nil, ix)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\nvault: %s\n", sig.String(), vaultPda)
			return nil
		},
	}
	cmd.Flags().StringVar(&referrerStr, "referrer", "", "referrer wallet pubkey (optional, permanent)")
	cmd.Flags().BoolVar(&preview, "preview", false, "only print derived vault address")
	return cmd
}

func newCloseVaultCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "close",
		Short: "Close the fee payer's vault (fails on-chain if positions remain open)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			deps, err := newBuilder(cmd, opts)
			if err != nil {
				return err
			}
			ix, err := flow.CloseVault(deps.programID, deps.signer.PublicKey())
			if err != nil {
				return err
			}
			sig, err := deps.builder.BuildSignSend(ctx, deps.signer, nil, ix)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", sig.String())
			return nil
		},
	}
}

func newShowVaultCmd(opts *globalOpts) *cobra.Command {
	var walletStr string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Fetch and decode a session vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			wallet, err := parsePubkey("wallet", walletStr)
			if err != nil {
				return err
			}
			cfg := sdkconfigFromOpts(opts, cmd)
			programID, err := resolveProgramID(opts, cfg)
			if err != nil {
				return err
			}
			client := newReadClient(cfg)

			v, addr, err := flow.FetchVault(ctx, client, programID, wallet)
			if err != nil {
				return err
			}
			bz, _ := json.MarshalIndent(v, "", "  ")
			fmt.Fprintf(cmd.OutOrStdout(), "address=%s\n%s\n", addr, string(bz))
			return nil
		},
	}
	cmd.Flags().StringVar(&walletStr, "wallet", "", "session wallet pubkey")
	_ = cmd.MarkFlagRequired("wallet")
	return cmd
}
