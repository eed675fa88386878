package types

import (
	"errors"
	"fmt"
)

// Common SDK errors
var (
	// Parameter validation errors
	ErrNilRPC           = errors.New("rpc client is nil")
	ErrNilSigner        = errors.New("signer is nil")
	ErrZeroAmount       = errors.New("amount must be greater than 0")
	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrNoInstructions   = errors.New("requires at least one instruction")

	// Account errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrVaultNotFound        = errors.New("vault not found")
	ErrPositionNotFound     = errors.New("position not found")
	ErrGlobalConfigNotFound = errors.New("global config not found")

	// Construction errors
	ErrProgramPaused = errors.New("program is paused")

	// Transaction errors
	ErrTransactionFailed   = errors.New("transaction failed")
	ErrSimulationFailed    = errors.New("simulation failed")
	ErrConfirmationTimeout = errors.New("confirmation timeout")
)

// RPCError wraps RPC failures with operation context.
type RPCError struct {
	Op  string
	Err error
}

func (e RPCError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e RPCError) Unwrap() error {
	return e.Err
}

// ValidationError represents input validation failures. These are always
// raised locally, before any instruction bytes are produced.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// ProgramError represents on-chain program execution errors. The client can
// only observe these after submission or simulation; it never pre-validates
// what the program alone can check.
type ProgramError struct {
	Program string
	Code    int
	Message string
	Logs    []string
}

func (e ProgramError) Error() string {
	return fmt.Sprintf("program %s error [%d]: %s", e.Program, e.Code, e.Message)
}

// SimulationError contains simulation failure details that could not be
// mapped to a known program error code.
type SimulationError struct {
	Err  interface{}
	Logs []string
}

func (e SimulationError) Error() string {
	return fmt.Sprintf("simulation failed: %v", e.Err)
}

// CodeResolver maps a custom program error code to a message.
type CodeResolver func(code uint32) (message string, ok bool)

// ParseSimulationError extracts error details from a simulation result.
// resolve translates custom error codes of the target program; pass nil to
// keep raw codes.
func ParseSimulationError(errVal interface{}, logs []string, resolve CodeResolver) error {
	if errVal == nil {
		return nil
	}

	if errMap, ok := errVal.(map[string]interface{}); ok {
		if instErr, exists := errMap["InstructionError"]; exists {
			if errSlice, ok := instErr.([]interface{}); ok && len(errSlice) >= 2 {
				if customErr, ok := errSlice[1].(map[string]interface{}); ok {
					if code, exists := customErr["Custom"]; exists {
						if codeNum, ok := code.(float64); ok {
							codeInt := int(codeNum)
							msg := fmt.Sprintf("custom error code %d", codeInt)
							if resolve != nil {
								if resolved, ok := resolve(uint32(codeInt)); ok {
									msg = resolved
								}
							}
							return &ProgramError{
								Code:    codeInt,
								Message: msg,
								Logs:    logs,
							}
						}
					}
				}
			}
		}
	}

	return &SimulationError{Err: errVal, Logs: logs}
}

// IsRetryableError checks if an error is retryable. Program errors are
// deterministic rejections; resubmitting the same bytes cannot succeed.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var progErr *ProgramError
	if errors.As(err, &progErr) {
		return false
	}
	var valErr ValidationError
	if errors.As(err, &valErr) {
		return false
	}
	return true
}
