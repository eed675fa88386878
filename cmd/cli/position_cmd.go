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

func newPositionCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position",
		Short: "Position lifecycle (open, close, TVL updates)",
	}
	cmd.AddCommand(
		newOpenPositionCmd(opts),
		newClosePositionCmd(opts),
		newUpdateTVLCmd(opts),
		newShowPositionCmd(opts),
		newEstimateFeeCmd(opts),
	)
	return cmd
}

func newOpenPositionCmd(opts *globalOpts) *cobra.Command {
	var (
		poolStr     string
		baseStr     string
		quoteStr    string
		initialTVL  uint64
		protocolVal uint8
		strategyVal uint8
		referrerStr string
		allowPaused bool
		jitoTip     uint64
		preview     bool
	)
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a position (creates the vault in the same tx when missing)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			deps, err := newBuilder(cmd, opts)
			if err != nil {
				return err
			}
			pool, err := parsePubkey("pool", poolStr)
			if err != nil {
				return err
			}
			base, err := parsePubkey("base-mint", baseStr)
			if err != nil {
				return err
			}
			quote, err := parsePubkey("quote-mint", quoteStr)
			if err != nil {
				return err
			}
			protocol, err := vault.ProtocolFromUint8(protocolVal)
			if err != nil {
				return err
			}
			strategy, err := vault.StrategyFromUint8(strategyVal)
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
			if allowPaused {
				flowOpts = append(flowOpts, flow.WithAllowPaused())
			}
			if jitoTip > 0 {
				flowOpts = append(flowOpts, flow.WithJitoTip(jitoTip))
			}
			if preview {
				flowOpts = append(flowOpts, flow.WithPreview(cmd.OutOrStdout()))
			}

			params := flow.OpenPositionParams{
				Pool:       pool,
				BaseMint:   base,
				QuoteMint:  quote,
				InitialTVL: initialTVL,
				Protocol:   protocol,
				Strategy:   strategy,
			}
			result, instrs, err := flow.OpenPosition(ctx, deps.rpc, deps.programID, deps.signer.PublicKey(), params, flowOpts...)
			if err != nil {
				return err
			}
			if preview {
				return nil // flow already wrote the result JSON
			}

			sig, err := deps.builder.BuildSignSend(ctx, deps.signer, nil, instrs...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\nposition: %s\nfee: %d (referral=%d buyback=%d treasury=%d)\nvault_created: %v\n",
				sig.String(), result.Accounts.Position, result.Fee,
				result.Split.Referral, result.Split.Buyback, result.Split.Treasury, result.VaultCreated)
			return nil
		},
	}

	cmd.Flags().StringVar(&poolStr, "pool", "", "AMM pool pubkey")
	cmd.Flags().StringVar(&baseStr, "base-mint", "", "base token mint")
	cmd.Flags().StringVar(&quoteStr, "quote-mint", "", "quote token mint")
	cmd.Flags().Uint64Var(&initialTVL, "initial-tvl", 0, "initial position TVL in quote lamports")
	cmd.Flags().Uint8Var(&protocolVal, "protocol", 0, "protocol (0=DLMM 1=DAMMv2 2=DAMMv1 3=DBC 4=AlphaVault)")
	cmd.Flags().Uint8Var(&strategyVal, "strategy", 0, "strategy (0=Spot 1=Curve 2=BidAsk)")
	cmd.Flags().StringVar(&referrerStr, "referrer", "", "referrer wallet (used only when the vault is created here)")
	cmd.Flags().BoolVar(&allowPaused, "allow-paused", false, "build even when the program is paused")
	cmd.Flags().Uint64Var(&jitoTip, "jito-tip", 0, "append a Jito tip transfer (lamports)")
	cmd.Flags().BoolVar(&preview, "preview", false, "only print accounts/args/fee JSON")
	_ = cmd.MarkFlagRequired("pool")
	_ = cmd.MarkFlagRequired("base-mint")
	_ = cmd.MarkFlagRequired("quote-mint")
	_ = cmd.MarkFlagRequired("initial-tvl")
	return cmd
}

func newClosePositionCmd(opts *globalOpts) *cobra.Command {
	var positionID uint64
	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close a position by its vault-local ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			deps, err := newBuilder(cmd, opts)
			if err != nil {
				return err
			}
			ix, err := flow.ClosePosition(deps.programID, deps.signer.PublicKey(), positionID)
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
	cmd.Flags().Uint64Var(&positionID, "position-id", 0, "vault-local position ID")
	_ = cmd.MarkFlagRequired("position-id")
	return cmd
}

func newUpdateTVLCmd(opts *globalOpts) *cobra.Command {
	var (
		positionID      uint64
		newTVL          uint64
		feesClaimed     uint64
		totalCompounded uint64
	)
	cmd := &cobra.Command{
		Use:   "update-tvl",
		Short: "Report current TVL and compounding stats for a position",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			deps, err := newBuilder(cmd, opts)
			if err != nil {
				return err
			}
			ix, err := flow.UpdatePositionTVL(deps.programID, deps.signer.PublicKey(), vault.UpdatePositionTVLArgs{
				PositionID:      positionID,
				NewTVL:          newTVL,
				FeesClaimed:     feesClaimed,
				TotalCompounded: totalCompounded,
			})
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
	cmd.Flags().Uint64Var(&positionID, "position-id", 0, "vault-local position ID")
	cmd.Flags().Uint64Var(&newTVL, "new-tvl", 0, "current TVL in quote lamports")
	cmd.Flags().Uint64Var(&feesClaimed, "fees-claimed", 0, "cumulative fees claimed")
	cmd.Flags().Uint64Var(&totalCompounded, "total-compounded", 0, "cumulative amount compounded")
	_ = cmd.MarkFlagRequired("position-id")
	_ = cmd.MarkFlagRequired("new-tvl")
	return cmd
}

func newShowPositionCmd(opts *globalOpts) *cobra.Command {
	var (
		walletStr string
		poolStr   string
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Fetch and decode a position by (wallet, pool)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			wallet, err := parsePubkey("wallet", walletStr)
			if err != nil {
				return err
			}
			pool, err := parsePubkey("pool", poolStr)
			if err != nil {
				return err
			}
			cfg := sdkconfigFromOpts(opts, cmd)
			programID, err := resolveProgramID(opts, cfg)
			if err != nil {
				return err
			}
			client := newReadClient(cfg)

			p, addr, err := flow.FetchPosition(ctx, client, programID, wallet, pool)
			if err != nil {
				return err
			}
			bz, _ := json.MarshalIndent(p, "", "  ")
			fmt.Fprintf(cmd.OutOrStdout(), "address=%s\n%s\n", addr, string(bz))
			return nil
		},
	}
	cmd.Flags().StringVar(&walletStr, "wallet", "", "session wallet pubkey")
	cmd.Flags().StringVar(&poolStr, "pool", "", "AMM pool pubkey")
	_ = cmd.MarkFlagRequired("wallet")
	_ = cmd.MarkFlagRequired("pool")
	return cmd
}

func newEstimateFeeCmd(opts *globalOpts) *cobra.Command {
	var (
		initialTVL  uint64
		hasReferrer bool
	)
	cmd := &cobra.Command{
		Use:   "estimate-fee",
		Short: "Estimate the open fee and its split from on-chain config",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			cfg := sdkconfigFromOpts(opts, cmd)
			programID, err := resolveProgramID(opts, cfg)
			if err != nil {
				return err
			}
			client := newReadClient(cfg)

			fee, split, err := flow.EstimateOpenFee(ctx, client, programID, initialTVL, hasReferrer)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fee: %d\nreferral: %d\nbuyback: %d\ntreasury: %d\n",
				fee, split.Referral, split.Buyback, split.Treasury)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&initialTVL, "initial-tvl", 0, "initial position TVL in quote lamports")
	cmd.Flags().BoolVar(&hasReferrer, "has-referrer", false, "assume a referrer is on file")
	_ = cmd.MarkFlagRequired("initial-tvl")
	return cmd
}
