package vault

import (
	"encoding/base64"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Event payload sizes. Events are emitted by the program as packed structs
// via sol_log_data and appear in transaction logs as "Program data:" lines.
const (
	VaultCreatedEventSize    = 32 + 32 + 8
	PositionOpenedEventSize  = 32 + 32 + 8 + 8 + 8 + 8 + 1 + 7
	PositionClosedEventSize  = 32 + 8 + 8 + 8 + 8
	PositionUpdatedEventSize = 32 + 8 + 8 + 8 + 8
)

// VaultCreatedEvent is emitted once per CreateVault.
type VaultCreatedEvent struct {
	SessionWallet solana.PublicKey
	MainWallet    solana.PublicKey
	Timestamp     int64
}

// PositionOpenedEvent is emitted once per OpenPosition and carries the fee
// actually charged.
type PositionOpenedEvent struct {
	SessionWallet solana.PublicKey
	Pool          solana.PublicKey
	PositionID    uint64
	InitialTVL    uint64
	FeePaid       uint64
	Timestamp     int64
	Protocol      Protocol
}

// PositionClosedEvent is emitted once per ClosePosition.
type PositionClosedEvent struct {
	SessionWallet    solana.PublicKey
	PositionID       uint64
	FinalTVL         uint64
	TotalFeesClaimed uint64
	Timestamp        int64
}

// PositionUpdatedEvent is emitted once per UpdatePositionTVL.
//
// Note: PositionClosedEvent and PositionUpdatedEvent share a wire layout, so
// a 64-byte payload can only be told apart by the instruction that produced
// it.
type PositionUpdatedEvent struct {
	SessionWallet solana.PublicKey
	PositionID    uint64
	NewTVL        uint64
	FeesClaimed   uint64
	Timestamp     int64
}

// DecodeVaultCreatedEvent parses a VaultCreated payload.
func DecodeVaultCreatedEvent(data []byte) (*VaultCreatedEvent, error) {
	if len(data) != VaultCreatedEventSize {
		return nil, fmt.Errorf("vault created event: got %d bytes, want %d", len(data), VaultCreatedEventSize)
	}
	dec := bin.NewBinDecoder(data)

	var ev VaultCreatedEvent
	var err error
	if ev.SessionWallet, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if ev.MainWallet, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if ev.Timestamp, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, err
	}
	return &ev, nil
}

// DecodePositionOpenedEvent parses a PositionOpened payload.
func DecodePositionOpenedEvent(data []byte) (*PositionOpenedEvent, error) {
	if len(data) != PositionOpenedEventSize {
		return nil, fmt.Errorf("position opened event: got %d bytes, want %d", len(data), PositionOpenedEventSize)
	}
	dec := bin.NewBinDecoder(data)

	var ev PositionOpenedEvent
	var err error
	if ev.SessionWallet, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if ev.Pool, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if ev.PositionID, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.InitialTVL, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.FeePaid, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.Timestamp, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, err
	}
	protocol, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	if ev.Protocol, err = ProtocolFromUint8(protocol); err != nil {
		return nil, err
	}
	return &ev, nil
}

// DecodePositionClosedEvent parses a PositionClosed payload.
func DecodePositionClosedEvent(data []byte) (*PositionClosedEvent, error) {
	if len(data) != PositionClosedEventSize {
		return nil, fmt.Errorf("position closed event: got %d bytes, want %d", len(data), PositionClosedEventSize)
	}
	dec := bin.NewBinDecoder(data)

	var ev PositionClosedEvent
	var err error
	if ev.SessionWallet, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if ev.PositionID, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.FinalTVL, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.TotalFeesClaimed, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.Timestamp, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, err
	}
	return &ev, nil
}

// DecodePositionUpdatedEvent parses a PositionUpdated payload.
func DecodePositionUpdatedEvent(data []byte) (*PositionUpdatedEvent, error) {
	if len(data) != PositionUpdatedEventSize {
		return nil, fmt.Errorf("position updated event: got %d bytes, want %d", len(data), PositionUpdatedEventSize)
	}
	dec := bin.NewBinDecoder(data)

	var ev PositionUpdatedEvent
	var err error
	if ev.SessionWallet, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if ev.PositionID, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.NewTVL, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.FeesClaimed, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.Timestamp, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, err
	}
	return &ev, nil
}

const programDataPrefix = "Program data: "

// ExtractEventData pulls raw event payloads out of transaction log lines.
// Lines that are not program-data records, or whose payload is not valid
// base64, are skipped.
func ExtractEventData(logs []string) [][]byte {
	var out [][]byte
	for _, line := range logs {
		idx := strings.Index(line, programDataPrefix)
		if idx < 0 {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(line[idx+len(programDataPrefix):])
		if err != nil {
			continue
		}
		out = append(out, raw)
	}
	return out
}
