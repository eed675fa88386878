package wallet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatools/vault-go-sdk/pkg/wallet"
)

func TestLocalSignMessage(t *testing.T) {
	kp := solana.NewWallet()
	signer := wallet.NewLocalFromPrivateKey(kp.PrivateKey)

	assert.Equal(t, kp.PublicKey(), signer.PublicKey())

	msg := []byte("vault open position message")
	sig, err := signer.SignMessage(context.Background(), msg)
	require.NoError(t, err)
	assert.True(t, sig.Verify(kp.PublicKey(), msg))
}

func TestLocalSignMessageCancelled(t *testing.T) {
	signer := wallet.NewLocalFromPrivateKey(solana.NewWallet().PrivateKey)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := signer.SignMessage(ctx, []byte("msg"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLocalFromBase58Invalid(t *testing.T) {
	_, err := wallet.NewLocalFromBase58("not-a-key")
	require.Error(t, err)
}

func TestRemoteSigner(t *testing.T) {
	kp := solana.NewWallet()

	remote := wallet.NewRemote(kp.PublicKey(), func(ctx context.Context, message []byte) ([]byte, error) {
		sig, err := kp.PrivateKey.Sign(message)
		if err != nil {
			return nil, err
		}
		return sig[:], nil
	})

	msg := []byte("remote signed")
	sig, err := remote.SignMessage(context.Background(), msg)
	require.NoError(t, err)
	assert.True(t, sig.Verify(kp.PublicKey(), msg))
}

func TestRemoteSignerErrors(t *testing.T) {
	remote := wallet.NewRemote(solana.NewWallet().PublicKey(), nil)
	_, err := remote.SignMessage(context.Background(), []byte("msg"))
	require.Error(t, err)

	boom := errors.New("wallet locked")
	remote = wallet.NewRemote(solana.NewWallet().PublicKey(), func(context.Context, []byte) ([]byte, error) {
		return nil, boom
	})
	_, err = remote.SignMessage(context.Background(), []byte("msg"))
	assert.ErrorIs(t, err, boom)

	remote = wallet.NewRemote(solana.NewWallet().PublicKey(), func(context.Context, []byte) ([]byte, error) {
		return []byte{1, 2, 3}, nil // wrong length
	})
	_, err = remote.SignMessage(context.Background(), []byte("msg"))
	require.Error(t, err)
}
