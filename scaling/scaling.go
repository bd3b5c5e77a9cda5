// Package scaling implements spec §4.2: per-asset precision normalization
// and per-asset scaling factors for rebasing / rate-providing tokens, the
// layer StableInvariant and WeightedInvariant sit on top of so their math
// never has to think about native token precision directly.
package scaling

import (
	"cosmossdk.io/math"

	"github.com/dexter-zone/dexter-core/dexerrors"
	"github.com/dexter-zone/dexter-core/fixedpoint"
)

// RoundDirection selects which side of a truncation absorbs the rounding
// residual. Per §9 "Rounding direction", every division in pool math must
// round in favor of the pool.
type RoundDirection uint8

const (
	// FavorPool truncates down (toward zero), leaving the remainder with
	// the pool. Used for exits and for amount_out on joins/swaps.
	FavorPool RoundDirection = iota
	// FavorPoolRoundUp rounds the integer amount up, used for amount_in on
	// joins/swaps (the user must pay the rounded-up amount, not less).
	FavorPoolRoundUp
)

// ToScaled converts an integer token amount (in the asset's native
// precision) into an 18-decimal ScaledDecimal, applying the asset's
// scaling factor: raw(scaled) = integer * 10^(18-precision) * scalingFactor,
// so 10^precision native units scale to 1.0 at a factor of 1.
func ToScaled(amount math.Int, precision uint32, scalingFactor fixedpoint.Dec) (fixedpoint.Dec, error) {
	if precision > 18 {
		return fixedpoint.Dec{}, dexerrors.ErrInvalidGreatestPrecision
	}
	if amount.IsNegative() {
		return fixedpoint.Dec{}, dexerrors.ErrUnderflow
	}
	raw := math.LegacyNewDecFromIntWithPrec(amount, int64(precision))
	base, err := fixedpoint.FromLegacyDec(raw)
	if err != nil {
		return fixedpoint.Dec{}, err
	}
	return fixedpoint.Mul(base, scalingFactor)
}

// FromScaled converts an 18-decimal ScaledDecimal back into an integer
// token amount at the asset's native precision, reversing the scaling
// factor first. Rounding is chosen by dir: exits and amount_out favor the
// pool by truncating down; amount_in favors the pool by rounding up.
func FromScaled(scaled fixedpoint.Dec, precision uint32, scalingFactor fixedpoint.Dec, dir RoundDirection) (math.Int, error) {
	if precision > 18 {
		return math.Int{}, dexerrors.ErrInvalidGreatestPrecision
	}
	if scalingFactor.IsZero() {
		return math.Int{}, dexerrors.ErrInvalidScalingFactor
	}
	unscaled, err := fixedpoint.Div(scaled, scalingFactor)
	if err != nil {
		return math.Int{}, err
	}
	rawDec := unscaled.Raw().MulInt(pow10(int64(precision)))

	switch dir {
	case FavorPoolRoundUp:
		truncated := rawDec.TruncateInt()
		if rawDec.Sub(math.LegacyNewDecFromInt(truncated)).IsPositive() {
			return truncated.Add(math.OneInt()), nil
		}
		return truncated, nil
	default:
		return rawDec.TruncateInt(), nil
	}
}

func pow10(n int64) math.Int {
	if n <= 0 {
		return math.OneInt()
	}
	out := math.OneInt()
	ten := math.NewInt(10)
	for i := int64(0); i < n; i++ {
		out = out.Mul(ten)
	}
	return out
}
