// Package jito submits signed transactions through the Jito Block Engine,
// which lands bundles atomically and accepts validator tips for priority.
package jito

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	jitorpc "github.com/jito-labs/jito-go-rpc"
)

// Default Jito Block Engine endpoints
const (
	MainnetBlockEngine = "https://mainnet.block-engine.jito.wtf/api/v1"
	TestnetBlockEngine = "https://testnet.block-engine.jito.wtf/api/v1"
)

// MainnetBlockEngines lists the regional mainnet endpoints. Rotating across
// them spreads rate limits.
var MainnetBlockEngines = []string{
	"https://mainnet.block-engine.jito.wtf/api/v1",
	"https://amsterdam.mainnet.block-engine.jito.wtf/api/v1",
	"https://frankfurt.mainnet.block-engine.jito.wtf/api/v1",
	"https://ny.mainnet.block-engine.jito.wtf/api/v1",
	"https://tokyo.mainnet.block-engine.jito.wtf/api/v1",
}

// MainnetTipAccounts are the official Jito tip accounts. They rarely change;
// using the static list avoids an RPC round trip.
var MainnetTipAccounts = []solana.PublicKey{
	solana.MustPublicKeyFromBase58("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5"),
	solana.MustPublicKeyFromBase58("HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe"),
	solana.MustPublicKeyFromBase58("Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY"),
	solana.MustPublicKeyFromBase58("ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49"),
	solana.MustPublicKeyFromBase58("DfXygSm4jCyNCybVYYK6DwvWqjKee8pbDmJGcLWNDXjh"),
	solana.MustPublicKeyFromBase58("ADuUkR4vqLUMWXxW9gh6D6L8pMSawimctcNZ5pGwDcEt"),
	solana.MustPublicKeyFromBase58("DttWaMuVvTiduZRnguLF7jNxTgiMBZ1hyAumKUiL2KRL"),
	solana.MustPublicKeyFromBase58("3AVi9Tg9Uo68tJfuvoKvqKNWKkC5wPdSSdeBnizKZ6jT"),
}

// GetRandomTipAccountLocal returns a random tip account from the static list.
func GetRandomTipAccountLocal() solana.PublicKey {
	return MainnetTipAccounts[rand.Intn(len(MainnetTipAccounts))]
}

// Client wraps the Jito RPC client with endpoint rotation and retry on rate
// limiting.
type Client struct {
	endpoints    []string
	uuid         string
	currentIndex uint32
	maxRetries   int
	retryDelay   time.Duration
}

// NewClient creates a Jito client for a single endpoint. uuid is optional.
func NewClient(endpoint string, uuid string) *Client {
	if endpoint == "" {
		endpoint = MainnetBlockEngine
	}
	return &Client{
		endpoints:  []string{endpoint},
		uuid:       uuid,
		maxRetries: 3,
		retryDelay: 200 * time.Millisecond,
	}
}

// NewClientWithEndpoints creates a Jito client that round-robins across
// multiple endpoints with failover on rate limiting.
func NewClientWithEndpoints(endpoints []string, uuid string) *Client {
	if len(endpoints) == 0 {
		endpoints = MainnetBlockEngines
	}
	return &Client{
		endpoints:  endpoints,
		uuid:       uuid,
		maxRetries: len(endpoints) + 2,
		retryDelay: 100 * time.Millisecond,
	}
}

func (c *Client) getNextClient() *jitorpc.JitoJsonRpcClient {
	idx := atomic.AddUint32(&c.currentIndex, 1)
	endpoint := c.endpoints[int(idx)%len(c.endpoints)]
	return jitorpc.NewJitoJsonRpcClient(endpoint, c.uuid)
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "Rate limit") ||
		strings.Contains(errStr, "congested") ||
		strings.Contains(errStr, "429")
}

// SendResult contains the result of sending a transaction via Jito.
type SendResult struct {
	Signature solana.Signature
	BundleID  string
}

// SendTransaction sends one fully signed transaction as a single-transaction
// bundle.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	result, err := c.SendTransactionWithBundleID(ctx, tx)
	if err != nil {
		return solana.Signature{}, err
	}
	return result.Signature, nil
}

// SendTransactionWithBundleID sends a transaction and returns both the
// signature and the bundle ID for confirmation polling.
func (c *Client) SendTransactionWithBundleID(ctx context.Context, tx *solana.Transaction) (SendResult, error) {
	txBytes, err := tx.MarshalBinary()
	if err != nil {
		return SendResult{}, fmt.Errorf("marshal transaction: %w", err)
	}
	txBase64 := base64.StdEncoding.EncodeToString(txBytes)

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		client := c.getNextClient()

		rawResp, err := client.SendBundle([][]string{{txBase64}})
		if err != nil {
			lastErr = err
			if isRateLimitError(err) {
				time.Sleep(c.retryDelay)
				continue
			}
			return SendResult{}, fmt.Errorf("jito send transaction: %w", err)
		}

		var bundleID string
		if err = json.Unmarshal(rawResp, &bundleID); err != nil {
			return SendResult{}, fmt.Errorf("unmarshal bundle response: %w", err)
		}

		var sig solana.Signature
		if len(tx.Signatures) > 0 {
			sig = tx.Signatures[0]
		}
		return SendResult{Signature: sig, BundleID: bundleID}, nil
	}
	return SendResult{}, fmt.Errorf("jito send transaction failed after %d retries: %w", c.maxRetries, lastErr)
}

// SendBundle sends multiple signed transactions as one atomic bundle and
// returns the bundle ID. Used for CreateVault + OpenPosition pairs that must
// land together.
func (c *Client) SendBundle(ctx context.Context, txs []*solana.Transaction) (string, error) {
	if len(txs) == 0 {
		return "", fmt.Errorf("bundle requires at least one transaction")
	}

	txStrings := make([]string, 0, len(txs))
	for _, tx := range txs {
		txBytes, err := tx.MarshalBinary()
		if err != nil {
			return "", fmt.Errorf("marshal transaction: %w", err)
		}
		txStrings = append(txStrings, base64.StdEncoding.EncodeToString(txBytes))
	}

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		client := c.getNextClient()

		rawResp, err := client.SendBundle([][]string{txStrings})
		if err != nil {
			lastErr = err
			if isRateLimitError(err) {
				time.Sleep(c.retryDelay)
				continue
			}
			return "", fmt.Errorf("jito send bundle: %w", err)
		}

		var bundleID string
		if err := json.Unmarshal(rawResp, &bundleID); err != nil {
			return "", fmt.Errorf("unmarshal bundle response: %w", err)
		}
		return bundleID, nil
	}
	return "", fmt.Errorf("jito send bundle failed after %d retries: %w", c.maxRetries, lastErr)
}

// GetBundleStatuses returns the statuses of submitted bundles.
func (c *Client) GetBundleStatuses(ctx context.Context, bundleIDs []string) (*jitorpc.BundleStatusResponse, error) {
	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		client := c.getNextClient()
		statuses, err := client.GetBundleStatuses(bundleIDs)
		if err != nil {
			lastErr = err
			if isRateLimitError(err) {
				time.Sleep(c.retryDelay)
				continue
			}
			return nil, fmt.Errorf("get bundle statuses: %w", err)
		}
		return statuses, nil
	}
	return nil, fmt.Errorf("get bundle statuses failed after %d retries: %w", c.maxRetries, lastErr)
}

// WaitForBundleConfirmation polls bundle status until confirmed or the
// context expires.
func (c *Client) WaitForBundleConfirmation(ctx context.Context, bundleID string) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			statuses, err := c.GetBundleStatuses(ctx, []string{bundleID})
			if err != nil {
				continue
			}
			if statuses == nil || len(statuses.Value) == 0 {
				continue
			}
			status := statuses.Value[0]
			switch status.ConfirmationStatus {
			case "confirmed", "finalized":
				return nil
			}
			if status.Err.Ok == nil {
				return fmt.Errorf("bundle failed: %v", status.Err)
			}
		}
	}
}
