package vault

import (
	"fmt"

	"github.com/metatools/vault-go-sdk/pkg/types"
)

// ProgramErrorDef describes one custom error code of the on-chain program.
// These surface as "custom program error" codes in transaction failures and
// simulation logs; they are never produced by this client directly.
type ProgramErrorDef struct {
	Code uint32
	Name string
	Msg  string
}

var programErrors = []ProgramErrorDef{
	{0, "InvalidAuthority", "invalid authority for this vault"},
	{1, "VaultPaused", "vault is paused"},
	{2, "VaultHasOpenPositions", "vault has open positions, cannot close"},
	{3, "PositionNotFound", "position not found"},
	{4, "PositionClosed", "position is closed"},
	{5, "InsufficientFunds", "insufficient funds"},
	{6, "InvalidPDA", "invalid PDA derivation"},
	{7, "InvalidProtocol", "invalid protocol type"},
	{8, "ProgramPaused", "program is paused"},
	{9, "Unauthorized", "unauthorized admin action"},
	{10, "InvalidFeeConfig", "invalid fee configuration"},
	{11, "ArithmeticOverflow", "arithmetic overflow"},
	{12, "InvalidPositionStatus", "invalid position status"},
	{13, "InvalidVaultStatus", "invalid vault status"},
	{14, "InvalidFeePercentages", "fee percentages do not sum to 100"},
	{15, "SessionWalletMismatch", "session wallet mismatch"},
}

// ErrorFromCode looks up a program error definition by its on-chain code.
func ErrorFromCode(code uint32) (ProgramErrorDef, bool) {
	if int(code) >= len(programErrors) {
		return ProgramErrorDef{}, false
	}
	return programErrors[code], true
}

// ResolveErrorMessage is a types.CodeResolver for this program's codes.
func ResolveErrorMessage(code uint32) (string, bool) {
	def, ok := ErrorFromCode(code)
	if !ok {
		return "", false
	}
	return def.Msg, true
}

// ParseProgramError converts a custom error code from a transaction failure
// into a typed error.
func ParseProgramError(code int) error {
	if def, ok := ErrorFromCode(uint32(code)); ok {
		msg := def.Msg
		if msg == "" {
			msg = def.Name
		}
		return &types.ProgramError{
			Program: "metatools_vault",
			Code:    code,
			Message: msg,
		}
	}
	return fmt.Errorf("metatools_vault error code %d", code)
}
