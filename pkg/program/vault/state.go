package vault

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// AccountType is the account discriminator stored in the first byte of the
// 8-byte account header.
type AccountType uint8

const (
	AccountVault AccountType = iota
	AccountPosition
	AccountGlobalConfig
)

// accountHeaderLen is the discriminator header size. The program reserves a
// full 8 bytes so the packed struct behind it stays 8-byte aligned.
const accountHeaderLen = 8

// Account body sizes (packed struct behind the header).
const (
	GlobalConfigDataSize = 32 + 32 + 32 + 2 + 1 + 1 + 1 + 1 + 128
	VaultDataSize        = 32 + 32 + 32 + 8*7 + 4 + 1 + 3 + 128
	PositionDataSize     = 32*4 + 8*8 + 1 + 1 + 1 + 5 + 64
)

// GlobalConfig mirrors the on-chain global configuration account.
type GlobalConfig struct {
	Admin         solana.PublicKey
	Treasury      solana.PublicKey
	BuybackWallet solana.PublicKey
	FeeBps        uint16
	ReferralPct   uint8
	BuybackPct    uint8
	TreasuryPct   uint8
	Paused        bool
}

// Vault mirrors the on-chain vault metadata account for one session wallet.
type Vault struct {
	SessionWallet    solana.PublicKey
	MainWallet       solana.PublicKey
	Referrer         solana.PublicKey
	TotalValueLocked uint64
	TotalDeposits    uint64
	TotalWithdrawals uint64
	TotalFeesPaid    uint64
	NextPositionID   uint64
	CreatedAt        int64
	LastActivity     int64
	ActivePositions  uint32
	Status           VaultStatus
}

// HasReferrer reports whether a referrer was set at vault creation.
func (v *Vault) HasReferrer() bool {
	return !v.Referrer.IsZero()
}

// Position mirrors the on-chain position account.
type Position struct {
	SessionWallet   solana.PublicKey
	Pool            solana.PublicKey
	BaseMint        solana.PublicKey
	QuoteMint       solana.PublicKey
	PositionID      uint64
	InitialTVL      uint64
	CurrentTVL      uint64
	FeePaid         uint64
	FeesClaimed     uint64
	TotalCompounded uint64
	OpenedAt        int64
	LastRebalance   int64
	Protocol        Protocol
	Strategy        Strategy
	Status          PositionStatus
}

func checkAccountData(data []byte, want AccountType, bodySize int) error {
	if len(data) < accountHeaderLen+bodySize {
		return fmt.Errorf("account data too short: got %d bytes, want %d", len(data), accountHeaderLen+bodySize)
	}
	if got := AccountType(data[0]); got != want {
		return fmt.Errorf("account discriminator mismatch: got %d, want %d", got, want)
	}
	return nil
}

func readPublicKey(dec *bin.Decoder) (solana.PublicKey, error) {
	raw, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(raw), nil
}

// DecodeGlobalConfig parses a GlobalConfig account's raw data.
func DecodeGlobalConfig(data []byte) (*GlobalConfig, error) {
	if err := checkAccountData(data, AccountGlobalConfig, GlobalConfigDataSize); err != nil {
		return nil, fmt.Errorf("decode global config: %w", err)
	}
	dec := bin.NewBinDecoder(data[accountHeaderLen:])

	var cfg GlobalConfig
	var err error
	if cfg.Admin, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if cfg.Treasury, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if cfg.BuybackWallet, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if cfg.FeeBps, err = dec.ReadUint16(bin.LE); err != nil {
		return nil, err
	}
	if cfg.ReferralPct, err = dec.ReadUint8(); err != nil {
		return nil, err
	}
	if cfg.BuybackPct, err = dec.ReadUint8(); err != nil {
		return nil, err
	}
	if cfg.TreasuryPct, err = dec.ReadUint8(); err != nil {
		return nil, err
	}
	paused, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	cfg.Paused = paused != 0
	return &cfg, nil
}

// DecodeVault parses a vault metadata account's raw data.
func DecodeVault(data []byte) (*Vault, error) {
	if err := checkAccountData(data, AccountVault, VaultDataSize); err != nil {
		return nil, fmt.Errorf("decode vault: %w", err)
	}
	dec := bin.NewBinDecoder(data[accountHeaderLen:])

	var v Vault
	var err error
	if v.SessionWallet, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if v.MainWallet, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if v.Referrer, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if v.TotalValueLocked, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if v.TotalDeposits, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if v.TotalWithdrawals, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if v.TotalFeesPaid, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if v.NextPositionID, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if v.CreatedAt, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, err
	}
	if v.LastActivity, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, err
	}
	if v.ActivePositions, err = dec.ReadUint32(bin.LE); err != nil {
		return nil, err
	}
	status, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	v.Status = VaultStatus(status)
	return &v, nil
}

// DecodePosition parses a position account's raw data.
func DecodePosition(data []byte) (*Position, error) {
	if err := checkAccountData(data, AccountPosition, PositionDataSize); err != nil {
		return nil, fmt.Errorf("decode position: %w", err)
	}
	dec := bin.NewBinDecoder(data[accountHeaderLen:])

	var p Position
	var err error
	if p.SessionWallet, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if p.Pool, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if p.BaseMint, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if p.QuoteMint, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if p.PositionID, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if p.InitialTVL, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if p.CurrentTVL, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if p.FeePaid, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if p.FeesClaimed, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if p.TotalCompounded, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if p.OpenedAt, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, err
	}
	if p.LastRebalance, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, err
	}
	protocol, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	if p.Protocol, err = ProtocolFromUint8(protocol); err != nil {
		return nil, err
	}
	strategy, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	if p.Strategy, err = StrategyFromUint8(strategy); err != nil {
		return nil, err
	}
	status, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	p.Status = PositionStatus(status)
	return &p, nil
}
