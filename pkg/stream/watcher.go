// Package stream tails the vault program's transaction logs over a websocket
// subscription and decodes the events it emits. A dashboard backend uses
// this to mirror position lifecycle changes without polling accounts.
package stream

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/rs/zerolog"

	"github.com/metatools/vault-go-sdk/pkg/program/vault"
)

// Event is one decoded program event attached to its transaction. Exactly
// one typed field is set for unambiguous payloads; PositionClosed and
// PositionUpdated share a wire layout, so for those both decodings are
// offered and the consumer picks by context. Raw always holds the payload.
type Event struct {
	Signature solana.Signature
	Slot      uint64
	Raw       []byte

	VaultCreated    *vault.VaultCreatedEvent
	PositionOpened  *vault.PositionOpenedEvent
	PositionClosed  *vault.PositionClosedEvent
	PositionUpdated *vault.PositionUpdatedEvent
}

// Handler consumes decoded events. It runs on the subscription goroutine, so
// it must not block.
type Handler func(Event)

// Watcher subscribes to logs mentioning the vault program.
type Watcher struct {
	wsURL      string
	programID  solana.PublicKey
	commitment solanarpc.CommitmentType
	log        zerolog.Logger
}

// NewWatcher constructs a watcher. commitment defaults to confirmed.
func NewWatcher(wsURL string, programID solana.PublicKey, commitment solanarpc.CommitmentType, log zerolog.Logger) *Watcher {
	if commitment == "" {
		commitment = solanarpc.CommitmentConfirmed
	}
	return &Watcher{
		wsURL:      wsURL,
		programID:  programID,
		commitment: commitment,
		log:        log,
	}
}

// Run connects, subscribes, and dispatches events until the context is
// cancelled or the subscription fails. Reconnection policy belongs to the
// caller.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	client, err := ws.Connect(ctx, w.wsURL)
	if err != nil {
		return fmt.Errorf("ws connect: %w", err)
	}
	defer client.Close()

	sub, err := client.LogsSubscribeMentions(w.programID, w.commitment)
	if err != nil {
		return fmt.Errorf("logs subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	w.log.Info().
		Str("program", w.programID.String()).
		Str("ws", w.wsURL).
		Msg("watching vault program logs")

	for {
		res, err := sub.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("logs recv: %w", err)
		}
		if res == nil || res.Value.Err != nil {
			continue // failed transactions emit no state changes
		}
		for _, raw := range vault.ExtractEventData(res.Value.Logs) {
			ev := classify(raw)
			ev.Signature = res.Value.Signature
			ev.Slot = res.Context.Slot
			handler(ev)
		}
	}
}

func classify(raw []byte) Event {
	ev := Event{Raw: raw}
	switch len(raw) {
	case vault.VaultCreatedEventSize:
		ev.VaultCreated, _ = vault.DecodeVaultCreatedEvent(raw)
	case vault.PositionOpenedEventSize:
		ev.PositionOpened, _ = vault.DecodePositionOpenedEvent(raw)
	case vault.PositionClosedEventSize:
		ev.PositionClosed, _ = vault.DecodePositionClosedEvent(raw)
		ev.PositionUpdated, _ = vault.DecodePositionUpdatedEvent(raw)
	}
	return ev
}
