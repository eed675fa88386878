package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/metatools/vault-go-sdk/pkg/flow"
	"github.com/metatools/vault-go-sdk/pkg/program/vault"
)

func newAdminCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Program administration (config account)",
	}
	cmd.AddCommand(
		newInitConfigCmd(opts),
		newUpdateConfigCmd(opts),
		newShowConfigCmd(opts),
	)
	return cmd
}

func newInitConfigCmd(opts *globalOpts) *cobra.Command {
	var (
		treasuryStr string
		buybackStr  string
		feeBps      uint16
		referralPct uint8
		buybackPct  uint8
		treasuryPct uint8
		preview     bool
	)
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Initialize the global config (admin only, one-time)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			deps, err := newBuilder(cmd, opts)
			if err != nil {
				return err
			}
			treasury, err := parsePubkey("treasury", treasuryStr)
			if err != nil {
				return err
			}
			buyback, err := parsePubkey("buyback", buybackStr)
			if err != nil {
				return err
			}

			argsObj := vault.InitializeConfigArgs{
				Treasury:      treasury,
				BuybackWallet: buyback,
				FeeBps:        feeBps,
				ReferralPct:   referralPct,
				BuybackPct:    buybackPct,
				TreasuryPct:   treasuryPct,
			}
			ix, err := flow.InitializeConfig(deps.programID, deps.signer.PublicKey(), argsObj)
			if err != nil {
				return err
			}

			if preview {
				bz, _ := json.MarshalIndent(argsObj, "", "  ")
				fmt.Fprintln(cmd.OutOrStdout(), string(bz))
				return nil
			}

			sig, err := deps.builder.BuildSignSend(ctx, deps.signer, nil, ix)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", sig.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&treasuryStr, "treasury", "", "treasury wallet pubkey")
	cmd.Flags().StringVar(&buybackStr, "buyback", "", "buyback wallet pubkey")
	cmd.Flags().Uint16Var(&feeBps, "fee-bps", 70, "protocol fee in basis points")
	cmd.Flags().Uint8Var(&referralPct, "referral-pct", 10, "referral share of the fee (percent)")
	cmd.Flags().Uint8Var(&buybackPct, "buyback-pct", 45, "buyback share of the fee (percent)")
	cmd.Flags().Uint8Var(&treasuryPct, "treasury-pct", 45, "treasury share of the fee (percent)")
	cmd.Flags().BoolVar(&preview, "preview", false, "only print args")
	_ = cmd.MarkFlagRequired("treasury")
	_ = cmd.MarkFlagRequired("buyback")
	return cmd
}

func newUpdateConfigCmd(opts *globalOpts) *cobra.Command {
	var (
		treasuryStr string
		buybackStr  string
		feeBps      uint16
		referralPct uint8
		buybackPct  uint8
		treasuryPct uint8
		paused      bool
		preview     bool
	)
	cmd := &cobra.Command{
		Use:   "update-config",
		Short: "Rewrite the global config (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			deps, err := newBuilder(cmd, opts)
			if err != nil {
				return err
			}
			treasury, err := parsePubkey("treasury", treasuryStr)
			if err != nil {
				return err
			}
			buyback, err := parsePubkey("buyback", buybackStr)
			if err != nil {
				return err
			}

			argsObj := vault.UpdateConfigArgs{
				NewTreasury:      treasury,
				NewBuybackWallet: buyback,
				NewFeeBps:        feeBps,
				NewReferralPct:   referralPct,
				NewBuybackPct:    buybackPct,
				NewTreasuryPct:   treasuryPct,
				Paused:           paused,
			}
			ix, err := flow.UpdateConfig(deps.programID, deps.signer.PublicKey(), argsObj)
			if err != nil {
				return err
			}

			if preview {
				bz, _ := json.MarshalIndent(argsObj, "", "  ")
				fmt.Fprintln(cmd.OutOrStdout(), string(bz))
				return nil
			}

			sig, err := deps.builder.BuildSignSend(ctx, deps.signer, nil, ix)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", sig.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&treasuryStr, "treasury", "", "new treasury wallet pubkey")
	cmd.Flags().StringVar(&buybackStr, "buyback", "", "new buyback wallet pubkey")
	cmd.Flags().Uint16Var(&feeBps, "fee-bps", 70, "new protocol fee in basis points")
	cmd.Flags().Uint8Var(&referralPct, "referral-pct", 10, "new referral share (percent)")
	cmd.Flags().Uint8Var(&buybackPct, "buyback-pct", 45, "new buyback share (percent)")
	cmd.Flags().Uint8Var(&treasuryPct, "treasury-pct", 45, "new treasury share (percent)")
	cmd.Flags().BoolVar(&paused, "paused", false, "pause the program")
	cmd.Flags().BoolVar(&preview, "preview", false, "only print args")
	_ = cmd.MarkFlagRequired("treasury")
	_ = cmd.MarkFlagRequired("buyback")
	return cmd
}

func newShowConfigCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show-config",
		Short: "Fetch and decode the on-chain global config",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			cfg := sdkconfigFromOpts(opts, cmd)
			programID, err := resolveProgramID(opts, cfg)
			if err != nil {
				return err
			}
			client := newReadClient(cfg)

			gc, addr, err := flow.FetchGlobalConfig(ctx, client, programID)
			if err != nil {
				return err
			}
			bz, _ := json.MarshalIndent(gc, "", "  ")
			fmt.Fprintf(cmd.OutOrStdout(), "address=%s\n%s\n", addr, string(bz))
			return nil
		},
	}
}
