// Package twap implements spec §4.7: per-asset-pair cumulative exchange
// rate accumulation. Grounded on the teacher's CalculateSpotPrice /
// CalculateSpotPriceWithSwapFee keeper methods (x/gamm/keeper/swap.go),
// generalized into a standing accumulator that runs before every balance
// mutation rather than being computed on demand only.
package twap

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/dexter-zone/dexter-core/assets"
	"github.com/dexter-zone/dexter-core/fixedpoint"
)

// PairKey identifies an ordered asset pair (i,j) with i!=j.
type PairKey struct {
	Offer assets.Info
	Ask   assets.Info
}

// State holds every ordered pair's cumulative rate plus the timestamp the
// accumulator was last advanced to.
type State struct {
	Cumulative    map[PairKey]fixedpoint.Dec
	LastBlockTime int64
}

func NewState(now int64, pairs []PairKey) State {
	s := State{
		Cumulative:    make(map[PairKey]fixedpoint.Dec, len(pairs)),
		LastBlockTime: now,
	}
	for _, p := range pairs {
		s.Cumulative[p] = fixedpoint.Zero
	}
	return s
}

// SpotPriceFunc is supplied by the caller (weighted.SpotPrice or
// poolstate's stable-pool spot-price helper) so this package stays invariant-model
// agnostic, exactly like PoolState orchestrates over both pool kinds.
type SpotPriceFunc func(offer, ask assets.Info) (fixedpoint.Dec, bool)

// Advance runs the TWAP accumulation step for every tracked pair: for
// each pair, cumulative += spotPrice(offer,ask) * elapsedSeconds, using
// the spot price computed against the PRE-mutation balances (§5:
// "TWAP accumulation must run before balance overwrite on every
// mutation"). spotPrice's second return is false when either asset's
// balance is zero (§4.7 edge case, §9d): that pair's contribution for
// this interval is treated as zero, but last_block_time still advances.
//
// Accumulation uses wrapping (modular) add on the raw 18-decimal integer,
// acceptable for oracle use per spec: wraparound is emulated here by
// reducing modulo 2^128 on the raw big.Int, the width of fixedpoint's
// MaxDec, the way an unsigned 128-bit cumulative counter would wrap.
func (s *State) Advance(now int64, spotPrice SpotPriceFunc) {
	elapsed := now - s.LastBlockTime
	if elapsed < 0 {
		elapsed = 0
	}
	elapsedDec := fixedpoint.FromInt64(elapsed)

	for pair, cum := range s.Cumulative {
		price, ok := spotPrice(pair.Offer, pair.Ask)
		if !ok {
			s.Cumulative[pair] = cum
			continue
		}
		contribution, err := fixedpoint.Mul(price, elapsedDec)
		if err != nil {
			// Overflow of a single interval's contribution cannot happen
			// in practice (bounded price * bounded elapsed seconds), but
			// if it ever did, treat it as a zero contribution rather than
			// panicking an oracle consumer.
			contribution = fixedpoint.Zero
		}
		s.Cumulative[pair] = wrappingAdd(cum, contribution)
	}
	s.LastBlockTime = now
}

// wraparoundModulus is 2^128 expressed as a plain integer: one more than
// the largest raw value a fixedpoint.Dec can hold, so every wrapped sum is
// representable. The cumulative is tracked in 18-decimal raw units
// (big.Int(raw) = value * 10^18).
var wraparoundModulus = new(big.Int).Lsh(big.NewInt(1), 128)

func wrappingAdd(a, b fixedpoint.Dec) fixedpoint.Dec {
	// Unlike fixedpoint.Add, this does not fail on exceeding MaxDec: the
	// raw (10^18-scaled) sum is reduced modulo 2^128 instead.
	sum := a.Raw().Add(b.Raw())
	raw := decToRawBigInt(sum)
	wrapped := new(big.Int).Mod(raw, wraparoundModulus)
	d, err := fixedpoint.FromLegacyDec(math.LegacyNewDecFromBigIntWithPrec(wrapped, 18))
	if err != nil {
		return fixedpoint.Zero
	}
	return d
}

// decToRawBigInt recovers the 10^18-scaled raw integer behind a
// math.LegacyDec by re-deriving it from the decimal string, since
// LegacyDec does not export its internal big.Int directly.
func decToRawBigInt(d math.LegacyDec) *big.Int {
	scaled := d.Quo(math.LegacySmallestDec()).TruncateInt()
	return scaled.BigInt()
}

// Query returns the raw cumulative for one pair and reports whether the
// pair is tracked.
func (s State) Query(offer, ask assets.Info) (fixedpoint.Dec, bool) {
	v, ok := s.Cumulative[PairKey{Offer: offer, Ask: ask}]
	return v, ok
}

// Twap computes the average rate between two cumulative snapshots of the
// same pair, per spec: (cumNow - cumPrev) / (now - prev). Consumers are
// responsible for supplying a properly ordered pair of snapshots.
func Twap(cumPrev, cumNow fixedpoint.Dec, prevTime, nowTime int64) (fixedpoint.Dec, error) {
	delta, err := fixedpoint.Sub(cumNow, cumPrev)
	if err != nil {
		return fixedpoint.Dec{}, err
	}
	elapsed := fixedpoint.FromInt64(nowTime - prevTime)
	return fixedpoint.Div(delta, elapsed)
}
