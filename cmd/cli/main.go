package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	sdkconfig "github.com/metatools/vault-go-sdk/pkg/config"
	"github.com/metatools/vault-go-sdk/pkg/jito"
	sdkrpc "github.com/metatools/vault-go-sdk/pkg/rpc"
	"github.com/metatools/vault-go-sdk/pkg/txbuilder"
	"github.com/metatools/vault-go-sdk/pkg/wallet"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalOpts struct {
	rpcURL         string
	wsURL          string
	commitment     string
	feePayerPath   string
	signerEndpoint string
	programIDStr   string
	skipPreflight  bool
	retryAttempts  int
	retryBackoffMs int
	rateLimitRPS   float64
	logLevel       string
	timeoutSec     int
	jitoEndpoint   string
	jitoUUID       string
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}

	root := &cobra.Command{
		Use:   "vaultcli",
		Short: "Fee vault program CLI (vaults, positions, config)",
	}

	root.PersistentFlags().StringVar(&opts.rpcURL, "rpc-url", "", "RPC endpoint (default mainnet if empty)")
	root.PersistentFlags().StringVar(&opts.wsURL, "ws-url", "", "websocket endpoint (default mainnet if empty)")
	root.PersistentFlags().StringVar(&opts.commitment, "commitment", "finalized", "RPC commitment level")
	root.PersistentFlags().StringVar(&opts.feePayerPath, "fee-payer", "", "path to solana-keygen json for fee payer")
	root.PersistentFlags().StringVar(&opts.signerEndpoint, "signer-endpoint", "", "remote signer endpoint (placeholder)")
	root.PersistentFlags().StringVar(&opts.programIDStr, "program-id", "", "vault program ID (default mainnet deployment)")
	root.PersistentFlags().BoolVar(&opts.skipPreflight, "skip-preflight", false, "skip preflight checks")
	root.PersistentFlags().IntVar(&opts.retryAttempts, "retry-attempts", 3, "RPC retry attempts")
	root.PersistentFlags().IntVar(&opts.retryBackoffMs, "retry-backoff-ms", 150, "initial backoff in ms")
	root.PersistentFlags().Float64Var(&opts.rateLimitRPS, "rate-limit-rps", 8, "rate limit RPS (0 to disable)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	root.PersistentFlags().IntVar(&opts.timeoutSec, "timeout-sec", 20, "RPC timeout seconds")
	root.PersistentFlags().StringVar(&opts.jitoEndpoint, "jito-endpoint", "", "send via Jito block engine endpoint instead of RPC")
	root.PersistentFlags().StringVar(&opts.jitoUUID, "jito-uuid", "", "Jito auth UUID (optional)")

	root.AddCommand(
		newConfigCmd(),
		newDeriveCmd(opts),
		newAdminCmd(opts),
		newVaultCmd(opts),
		newPositionCmd(opts),
		newAccountCmd(opts),
		newWatchCmd(opts),
	)

	return root
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show default config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := sdkconfig.DefaultRPCConfig()
			fmt.Fprintf(cmd.OutOrStdout(), "network=%s\nrpc=%s\nws=%s\ncommitment=%s\nprogram=%s\n",
				cfg.Network, cfg.ResolveRPCURL(), cfg.ResolveWSURL(), cfg.Commitment, cfg.ResolveProgramID())
			return nil
		},
	}
}

type runtimeDeps struct {
	builder   *txbuilder.Builder
	signer    wallet.Signer
	rpc       *sdkrpc.Client
	programID solana.PublicKey
}

func sdkconfigFromOpts(opts *globalOpts, cmd *cobra.Command) sdkconfig.RPCConfig {
	cfg := sdkconfig.DefaultRPCConfig()
	if opts != nil {
		if opts.rpcURL != "" {
			cfg.RPCURL = opts.rpcURL
		}
		if opts.wsURL != "" {
			cfg.WSURL = opts.wsURL
		}
		if opts.commitment != "" {
			cfg.Commitment = opts.commitment
		}
		if opts.rateLimitRPS > 0 {
			cfg.RateLimit.RPS = opts.rateLimitRPS
		}
		if opts.retryAttempts > 0 {
			cfg.Retry.MaxAttempts = opts.retryAttempts
		}
		if opts.retryBackoffMs > 0 {
			cfg.Retry.InitialBackoff = time.Duration(opts.retryBackoffMs) * time.Millisecond
		}
		if opts.timeoutSec > 0 {
			cfg.Timeout = time.Duration(opts.timeoutSec) * time.Second
		}
	}
	cfg.Logger = zerolog.New(cmd.ErrOrStderr()).Level(parseLogLevel(opts.logLevel))
	return cfg
}

func resolveProgramID(opts *globalOpts, cfg sdkconfig.RPCConfig) (solana.PublicKey, error) {
	if opts != nil && opts.programIDStr != "" {
		return parsePubkey("program-id", opts.programIDStr)
	}
	return cfg.ResolveProgramID(), nil
}

func newBuilder(cmd *cobra.Command, opts *globalOpts) (*runtimeDeps, error) {
	cfg := sdkconfigFromOpts(opts, cmd)
	programID, err := resolveProgramID(opts, cfg)
	if err != nil {
		return nil, err
	}
	cfg.ProgramID = programID

	client := sdkrpc.NewClient(cfg)
	commit := rpc.CommitmentType(cfg.Commitment)
	builder := txbuilder.NewBuilder(client, commit).WithSkipPreflight(opts != nil && opts.skipPreflight)
	if opts != nil && opts.jitoEndpoint != "" {
		builder = builder.WithJito(jito.NewClient(opts.jitoEndpoint, opts.jitoUUID))
	}

	var signer wallet.Signer
	switch {
	case opts != nil && opts.feePayerPath != "":
		local, err := wallet.NewLocalFromKeygen(opts.feePayerPath)
		if err != nil {
			return nil, err
		}
		signer = local
	case opts != nil && opts.signerEndpoint != "":
		signer = wallet.NewRemote(solana.PublicKey{}, func(ctx context.Context, message []byte) ([]byte, error) {
			return nil, fmt.Errorf("remote signer placeholder: %s", opts.signerEndpoint)
		})
	default:
		return nil, fmt.Errorf("fee payer is required (use --fee-payer)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.GetLatestBlockhash(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: rpc ping failed: %v\n", err)
	}

	return &runtimeDeps{builder: builder, signer: signer, rpc: client, programID: programID}, nil
}

func parseLogLevel(lvl string) zerolog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
