package types

import (
	"github.com/gagliardetto/solana-go"
)

// ValidatePublicKey validates a public key is not zero.
func ValidatePublicKey(name string, key solana.PublicKey) error {
	if key.IsZero() {
		return NewValidationError(name, "cannot be zero")
	}
	return nil
}

// ValidatePublicKeys validates multiple public keys.
func ValidatePublicKeys(keys map[string]solana.PublicKey) error {
	for name, key := range keys {
		if err := ValidatePublicKey(name, key); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAmount validates an amount is non-zero.
func ValidateAmount(name string, amount uint64) error {
	if amount == 0 {
		return NewValidationError(name, "must be greater than 0")
	}
	return nil
}
