package vault

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/metatools/vault-go-sdk/pkg/constants"
)

// DerivationError reports that no valid program-derived address exists for a
// seed set. The probe space is 256 bump seeds, so in practice this never
// happens, but it is a typed failure rather than a panic.
type DerivationError struct {
	Kind string
	Err  error
}

func (e DerivationError) Error() string {
	return fmt.Sprintf("derive %s address: %v", e.Kind, e.Err)
}

func (e DerivationError) Unwrap() error {
	return e.Err
}

// DeriveConfigAddress returns the global config PDA for a program deployment.
// Seeds: ["config"].
func DeriveConfigAddress(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(constants.SeedConfig)},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, DerivationError{Kind: "config", Err: err}
	}
	return addr, bump, nil
}

// DeriveVaultAddress returns the vault PDA for a session wallet.
// Seeds: ["vault", sessionWallet].
func DeriveVaultAddress(programID, sessionWallet solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{
			[]byte(constants.SeedVault),
			sessionWallet.Bytes(),
		},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, DerivationError{Kind: "vault", Err: err}
	}
	return addr, bump, nil
}

// DerivePositionAddress returns the position PDA for a (sessionWallet, pool)
// pair. Seeds: ["position", sessionWallet, pool].
func DerivePositionAddress(programID, sessionWallet, pool solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{
			[]byte(constants.SeedPosition),
			sessionWallet.Bytes(),
			pool.Bytes(),
		},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, DerivationError{Kind: "position", Err: err}
	}
	return addr, bump, nil
}
