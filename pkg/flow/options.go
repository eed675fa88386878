package flow

import (
	"io"

	"github.com/gagliardetto/solana-go"

	"github.com/metatools/vault-go-sdk/pkg/jito"
)

// Options configures the flow helpers.
type Options struct {
	Preview         io.Writer        // JSON dump of accounts+args for inspection
	Referrer        solana.PublicKey // referrer recorded when the vault must be created
	KnownVault      bool             // skip the vault existence probe entirely
	AllowPaused     bool             // build OpenPosition even if config.paused is set
	JitoTipLamports uint64           // tip amount appended as a transfer (0 = no tip)
	JitoTipAccount  solana.PublicKey // tip recipient (zero = random from static list)
}

// Option is a functional option.
type Option func(*Options)

// WithPreview writes the filled accounts and args as JSON to w.
func WithPreview(w io.Writer) Option {
	return func(o *Options) { o.Preview = w }
}

// WithReferrer sets the referrer for vault creation. Immutable once the
// vault exists; ignored when it does.
func WithReferrer(referrer solana.PublicKey) Option {
	return func(o *Options) { o.Referrer = referrer }
}

// WithKnownVault skips the vault existence probe. Use when the vault was
// created earlier in the same session and RPC state may lag.
func WithKnownVault() Option {
	return func(o *Options) { o.KnownVault = true }
}

// WithAllowPaused disables the client-side paused check. The program still
// rejects the instruction; this only spends the transaction fee to find out.
func WithAllowPaused() Option {
	return func(o *Options) { o.AllowPaused = true }
}

// WithJitoTip appends a tip transfer to the returned instruction set, using
// a random account from the static tip list unless one is set explicitly.
func WithJitoTip(tipLamports uint64) Option {
	return func(o *Options) {
		o.JitoTipLamports = tipLamports
		if o.JitoTipAccount.IsZero() {
			o.JitoTipAccount = jito.GetRandomTipAccountLocal()
		}
	}
}

// WithJitoTipAccount pins the tip recipient.
func WithJitoTipAccount(account solana.PublicKey) Option {
	return func(o *Options) { o.JitoTipAccount = account }
}
