package vault

import (
	"lukechampine.com/uint128"

	"github.com/metatools/vault-go-sdk/pkg/types"
)

// MaxFeeBps is the basis-point denominator (10000 bps = 100%).
const MaxFeeBps uint16 = 10_000

// CalculateFee returns floor(amount * feeBps / 10000). The multiply is done
// in 128 bits so amounts up to the full u64 range never overflow. This is
// the same arithmetic the on-chain program uses, so the client-side estimate
// matches the fee actually charged.
func CalculateFee(amount uint64, feeBps uint16) uint64 {
	if amount == 0 || feeBps == 0 {
		return 0
	}
	fee := uint128.From64(amount).Mul64(uint64(feeBps)).Div64(uint64(MaxFeeBps))
	// feeBps <= 10000 keeps the quotient within u64.
	return fee.Lo
}

// FeeSplit is the three-way distribution of one position-open fee.
type FeeSplit struct {
	Referral uint64
	Buyback  uint64
	Treasury uint64
}

// SplitFee distributes fee across referrer, buyback wallet, and treasury
// using integer percentages. The referral share is zero when the vault has
// no referrer; the treasury always receives the remainder, so the parts sum
// to fee exactly regardless of rounding.
func SplitFee(fee uint64, referralPct, buybackPct uint8, hasReferrer bool) FeeSplit {
	var referral uint64
	if hasReferrer {
		referral = uint128.From64(fee).Mul64(uint64(referralPct)).Div64(100).Lo
	}
	buyback := uint128.From64(fee).Mul64(uint64(buybackPct)).Div64(100).Lo
	return FeeSplit{
		Referral: referral,
		Buyback:  buyback,
		Treasury: fee - referral - buyback,
	}
}

// ValidateFeeConfig checks the invariants the on-chain program enforces on
// InitializeConfig and UpdateConfig. Violations are construction-time
// errors; an instruction carrying them would only burn a transaction fee.
func ValidateFeeConfig(feeBps uint16, referralPct, buybackPct, treasuryPct uint8) error {
	if feeBps > MaxFeeBps {
		return types.NewValidationError("feeBps", "must be <= 10000 (100%)")
	}
	if referralPct > 100 || buybackPct > 100 || treasuryPct > 100 {
		return types.NewValidationError("feePercentages", "each percentage must be <= 100")
	}
	total := uint16(referralPct) + uint16(buybackPct) + uint16(treasuryPct)
	if total != 100 {
		return types.NewValidationError("feePercentages", "referral + buyback + treasury must sum to 100")
	}
	return nil
}
