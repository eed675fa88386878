package types_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatools/vault-go-sdk/pkg/types"
)

func TestValidatePublicKey(t *testing.T) {
	assert.NoError(t, types.ValidatePublicKey("wallet", solana.NewWallet().PublicKey()))

	err := types.ValidatePublicKey("wallet", solana.PublicKey{})
	require.Error(t, err)
	var verr types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "wallet", verr.Field)
}

func TestValidatePublicKeys(t *testing.T) {
	assert.NoError(t, types.ValidatePublicKeys(map[string]solana.PublicKey{
		"a": solana.NewWallet().PublicKey(),
		"b": solana.NewWallet().PublicKey(),
	}))

	err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"good": solana.NewWallet().PublicKey(),
		"bad":  {},
	})
	require.Error(t, err)
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, types.ValidateAmount("tvl", 1))
	assert.Error(t, types.ValidateAmount("tvl", 0))
}
