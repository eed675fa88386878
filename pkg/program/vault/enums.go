package vault

import "fmt"

// Protocol identifies which AMM a position sits on. The wire encoding is a
// single byte; unknown values never decode silently.
type Protocol uint8

const (
	ProtocolDLMM Protocol = iota
	ProtocolDAMMv2
	ProtocolDAMMv1
	ProtocolDBC
	ProtocolAlphaVault
)

// ProtocolFromUint8 maps a wire byte to a Protocol.
func ProtocolFromUint8(v uint8) (Protocol, error) {
	if v > uint8(ProtocolAlphaVault) {
		return 0, fmt.Errorf("invalid protocol value %d", v)
	}
	return Protocol(v), nil
}

func (p Protocol) String() string {
	switch p {
	case ProtocolDLMM:
		return "dlmm"
	case ProtocolDAMMv2:
		return "damm_v2"
	case ProtocolDAMMv1:
		return "damm_v1"
	case ProtocolDBC:
		return "dbc"
	case ProtocolAlphaVault:
		return "alpha_vault"
	default:
		return fmt.Sprintf("protocol(%d)", uint8(p))
	}
}

// Strategy identifies the liquidity shape of a position.
type Strategy uint8

const (
	StrategySpot Strategy = iota
	StrategyCurve
	StrategyBidAsk
)

// StrategyFromUint8 maps a wire byte to a Strategy.
func StrategyFromUint8(v uint8) (Strategy, error) {
	if v > uint8(StrategyBidAsk) {
		return 0, fmt.Errorf("invalid strategy value %d", v)
	}
	return Strategy(v), nil
}

func (s Strategy) String() string {
	switch s {
	case StrategySpot:
		return "spot"
	case StrategyCurve:
		return "curve"
	case StrategyBidAsk:
		return "bid_ask"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// VaultStatus is the lifecycle state of a vault account.
type VaultStatus uint8

const (
	VaultStatusActive VaultStatus = iota
	VaultStatusPaused
	VaultStatusClosed
)

func (s VaultStatus) String() string {
	switch s {
	case VaultStatusActive:
		return "active"
	case VaultStatusPaused:
		return "paused"
	case VaultStatusClosed:
		return "closed"
	default:
		return fmt.Sprintf("vault_status(%d)", uint8(s))
	}
}

// PositionStatus is the lifecycle state of a position account.
type PositionStatus uint8

const (
	PositionStatusOpen PositionStatus = iota
	PositionStatusClosed
)

func (s PositionStatus) String() string {
	switch s {
	case PositionStatusOpen:
		return "open"
	case PositionStatusClosed:
		return "closed"
	default:
		return fmt.Sprintf("position_status(%d)", uint8(s))
	}
}
