// Package feemodel implements spec §4.5: splitting a swap/join/exit fee
// into a protocol share and an LP share, plus the imbalance-fee multiplier
// shared by stable joins and exits. Grounded on the teacher's own fee
// handling in x/gamm (swapFee deducted before invariant math in amm.go)
// generalized to also produce the protocol/LP split that the teacher's v7
// snapshot does not yet have but later osmosis versions and the dexter
// generator/pool contracts do (protocol fee collector).
package feemodel

import (
	"cosmossdk.io/math"

	"github.com/dexter-zone/dexter-core/dexerrors"
	"github.com/dexter-zone/dexter-core/fixedpoint"
)

// FeePrecision is the basis-point denominator (spec §6 bit-exact constant).
const FeePrecision = 10_000

// Split holds the result of dividing a total fee into protocol and LP
// portions. LP's share stays in the pool (grows the invariant / price per
// share); Protocol's share is transferred to a collector address by a
// collaborator effect — this package never moves funds itself.
type Split struct {
	Protocol fixedpoint.Dec
	LP       fixedpoint.Dec
}

// Config mirrors PoolConfig's fee_bps / fee_split (spec §3).
type Config struct {
	TotalFeeBps   uint32
	ProtocolBps   uint32 // protocol_bps within TotalFeeBps; LP gets the remainder
}

// Validate enforces fee_bps <= 10_000 and protocol_bps <= total_fee_bps
// (spec §3 invariant plus the obvious corollary of "LP receives the
// remainder").
func (c Config) Validate() error {
	if c.TotalFeeBps > FeePrecision {
		return dexerrors.ErrInvalidFeeBps
	}
	if c.ProtocolBps > c.TotalFeeBps {
		return dexerrors.ErrInvalidFeeBps
	}
	return nil
}

// SplitFee computes the protocol and LP fee portions charged on
// `underlying` (the swap/join/exit amount the fee is levied on) per spec
// §4.5: protocol = underlying*ProtocolBps/10000 and
// LP = underlying*(TotalFeeBps-ProtocolBps)/10000.
func SplitFee(underlying fixedpoint.Dec, cfg Config) (Split, error) {
	if err := cfg.Validate(); err != nil {
		return Split{}, err
	}
	protocolBps := fixedpoint.FromInt64(int64(cfg.ProtocolBps))
	lpBps := fixedpoint.FromInt64(int64(cfg.TotalFeeBps - cfg.ProtocolBps))
	precision := fixedpoint.FromInt64(FeePrecision)

	protocolFee, err := fixedpoint.MulRatio(underlying, protocolBps, precision)
	if err != nil {
		return Split{}, err
	}
	lpFee, err := fixedpoint.MulRatio(underlying, lpBps, precision)
	if err != nil {
		return Split{}, err
	}
	return Split{Protocol: protocolFee, LP: lpFee}, nil
}

// ImbalanceMultiplier computes m = n/(4*(n-1)), the factor spec §4.3/§4.5
// applies to the excess beyond a proportional join/exit share. n is the
// pool's asset count (n>=2, enforced by the caller per MIN_ASSETS).
func ImbalanceMultiplier(n int) (fixedpoint.Dec, error) {
	if n < 2 {
		return fixedpoint.Dec{}, dexerrors.ErrInvalidNumberOfAssets
	}
	num := fixedpoint.FromInt64(int64(n))
	den := fixedpoint.FromInt64(int64(4 * (n - 1)))
	return fixedpoint.Div(num, den)
}

// ImbalanceFeeRate computes fee_bps * n / (4*(n-1)*10_000), the per-asset
// imbalance fee rate used by StableInvariant's imbalanced_join/exit.
func ImbalanceFeeRate(feeBps uint32, n int) (fixedpoint.Dec, error) {
	m, err := ImbalanceMultiplier(n)
	if err != nil {
		return fixedpoint.Dec{}, err
	}
	feeBpsDec := fixedpoint.FromInt64(int64(feeBps))
	precision := fixedpoint.FromInt64(FeePrecision)
	rate, err := fixedpoint.Div(feeBpsDec, precision)
	if err != nil {
		return fixedpoint.Dec{}, err
	}
	return fixedpoint.Mul(rate, m)
}

// ApplyFeeBps returns amount * (1 - feeBps/10_000), the common "deduct a
// swap fee" step used throughout stableswap and weighted before invariant
// math runs.
func ApplyFeeBps(amount fixedpoint.Dec, feeBps uint32) (fixedpoint.Dec, error) {
	if feeBps > FeePrecision {
		return fixedpoint.Dec{}, dexerrors.ErrInvalidFeeBps
	}
	remainingBps := fixedpoint.FromInt64(int64(FeePrecision - feeBps))
	precision := fixedpoint.FromInt64(FeePrecision)
	factor, err := fixedpoint.Div(remainingBps, precision)
	if err != nil {
		return fixedpoint.Dec{}, err
	}
	return fixedpoint.Mul(amount, factor)
}

// FeeBpsToInt is a convenience used by callers that need the raw integer
// bps value for comparisons against PoolConfig.
func FeeBpsToInt(bps uint32) math.Int {
	return math.NewInt(int64(bps))
}
