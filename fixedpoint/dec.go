// Package fixedpoint implements spec §4.1: checked 18-decimal unsigned
// arithmetic. It wraps cosmossdk.io/math.LegacyDec (the unbundled
// successor of the teacher's sdk.Dec — same 18-decimal fixed-point
// representation over big.Int) and adds the explicit representable-range
// check that on-chain checked arithmetic (the original contracts'
// cosmwasm_std::Uint128/Decimal) requires but an unbounded big.Int does
// not give you for free.
package fixedpoint

import (
	"math/big"

	"cosmossdk.io/math"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/dexter-zone/dexter-core/dexerrors"
)

// Dec is an 18-decimal fixed-point nonnegative value (spec: ScaledDecimal).
type Dec struct {
	d math.LegacyDec
}

// maxRaw is Uint128::MAX, the ceiling the original contracts' balance and
// share fields (cosmwasm_std::Uint128) could ever hold. We reuse it here
// as the representable-range bound for Dec's raw (10^18-scaled) form:
// arithmetic that would push the raw integer past this value fails with
// Overflow rather than silently succeeding the way big.Int normally would.
var maxRaw = func() *big.Int {
	v, ok := new(big.Int).SetString("340282366920938463463374607431768211455", 10)
	if !ok {
		panic("fixedpoint: bad maxRaw literal")
	}
	return v
}()

// MaxDec is the largest representable Dec, interpreting maxRaw directly as
// an 18-decimal-scaled integer (i.e. MaxDec == maxRaw / 10^18).
var MaxDec = Dec{d: math.LegacyNewDecFromBigIntWithPrec(maxRaw, 18)}

// Zero is the additive identity.
var Zero = Dec{d: math.LegacyZeroDec()}

// One is the multiplicative identity (1 * 10^18 in raw terms).
var One = Dec{d: math.LegacyOneDec()}

func FromInt64(v int64) Dec {
	return Dec{d: math.LegacyNewDec(v)}
}

// FromString parses a decimal string ("123.456") into a Dec.
func FromString(s string) (Dec, error) {
	d, err := math.LegacyNewDecFromStr(s)
	if err != nil {
		return Dec{}, err
	}
	if d.IsNegative() {
		return Dec{}, dexerrors.ErrUnderflow
	}
	return Dec{d: d}, nil
}

// FromLegacyDec adapts an already-computed math.LegacyDec (e.g. from
// scaling.go or an external collaborator) into a checked Dec, validating
// non-negativity and range.
func FromLegacyDec(d math.LegacyDec) (Dec, error) {
	if d.IsNegative() {
		return Dec{}, dexerrors.ErrUnderflow
	}
	out := Dec{d: d}
	if out.exceedsMax() {
		return Dec{}, dexerrors.ErrOverflow
	}
	return out, nil
}

func (a Dec) Raw() math.LegacyDec { return a.d }
func (a Dec) IsZero() bool        { return a.d.IsZero() }
func (a Dec) String() string      { return a.d.String() }

func (a Dec) exceedsMax() bool {
	return a.d.GT(MaxDec.d)
}

func (a Dec) GT(b Dec) bool  { return a.d.GT(b.d) }
func (a Dec) GTE(b Dec) bool { return a.d.GTE(b.d) }
func (a Dec) LT(b Dec) bool  { return a.d.LT(b.d) }
func (a Dec) LTE(b Dec) bool { return a.d.LTE(b.d) }
func (a Dec) Equal(b Dec) bool { return a.d.Equal(b.d) }

// Add computes a+b, failing with Overflow if the sum exceeds MaxDec.
func Add(a, b Dec) (Dec, error) {
	sum := a.d.Add(b.d)
	out := Dec{d: sum}
	if out.exceedsMax() {
		return Dec{}, dexerrors.ErrOverflow
	}
	return out, nil
}

// Sub computes a-b, failing with Underflow if b>a.
func Sub(a, b Dec) (Dec, error) {
	if b.d.GT(a.d) {
		return Dec{}, dexerrors.ErrUnderflow
	}
	return Dec{d: a.d.Sub(b.d)}, nil
}

// SubClamped computes a-b, clamping at zero instead of failing. Used
// sparingly, by callers that have already proven b<=a is not guaranteed
// but want pool-favoring rounding instead of a hard failure (e.g. fee
// deduction against rounding dust).
func SubClamped(a, b Dec) Dec {
	if b.d.GT(a.d) {
		return Zero
	}
	return Dec{d: a.d.Sub(b.d)}
}

// Mul computes a*b, scaled back by 10^18, failing on overflow.
func Mul(a, b Dec) (Dec, error) {
	prod := a.d.Mul(b.d)
	out := Dec{d: prod}
	if out.exceedsMax() {
		return Dec{}, dexerrors.ErrOverflow
	}
	return out, nil
}

// Div computes a/b, failing with DivByZero if b==0.
func Div(a, b Dec) (Dec, error) {
	if b.d.IsZero() {
		return Dec{}, dexerrors.ErrDivByZero
	}
	return Dec{d: a.d.Quo(b.d)}, nil
}

// MulRatio computes a*num/den in widened precision, rounding toward zero,
// failing with DivByZero if den==0. Widened precision is achieved by
// routing through osmomath.BigDec, which carries 36 decimal digits
// internally instead of LegacyDec's 18 — exactly the widening spec §4.1
// calls for.
func MulRatio(a Dec, num, den Dec) (Dec, error) {
	if den.d.IsZero() {
		return Dec{}, dexerrors.ErrDivByZero
	}
	aBig := osmomath.BigDecFromDec(a.d)
	numBig := osmomath.BigDecFromDec(num.d)
	denBig := osmomath.BigDecFromDec(den.d)
	result := aBig.MulTruncate(numBig).QuoTruncate(denBig)
	return FromLegacyDec(result.Dec())
}

// Pow returns base^(exp/10^18) for base in (0, 2*10^18] and exp in
// (0, 1*10^18], per spec §4.1. Implemented via osmomath's BigDec Pow,
// which uses the x^y = exp(y*ln(x)) identity with a Taylor expansion
// around 1 — the same algorithm spec §4.1 prescribes, grounded directly
// on the teacher's own `osmomath.Pow(y, weightRatio)` call in amm.go.
func Pow(base, exp Dec) (Dec, error) {
	if base.IsZero() {
		return Zero, nil
	}
	upperBound := FromInt64(2)
	if base.GT(upperBound) || exp.IsZero() || exp.GT(One) {
		return Dec{}, dexerrors.ErrPowOutOfDomain
	}
	baseBig := osmomath.BigDecFromDec(base.d)
	expBig := osmomath.BigDecFromDec(exp.d)
	resultBig := osmomath.Pow(baseBig, expBig)
	return FromLegacyDec(resultBig.Dec())
}
