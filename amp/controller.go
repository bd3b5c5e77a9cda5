// Package amp implements spec §4.6: the piecewise-linear AMP ramp
// controller shared by every stable pool. Grounded on the teacher's
// pattern of small, pure keeper-adjacent state-transition functions
// (x/gamm/keeper/swap.go's validate-then-mutate shape) applied here to
// the amplification coefficient instead of balances.
package amp

import (
	"cosmossdk.io/math"

	"github.com/dexter-zone/dexter-core/dexerrors"
)

// Bit-exact constants, spec §6.
const (
	Precision             = 100
	MaxAmp                = 1_000_000
	MaxAmpChange          = 10
	MinAmpChangingTime    = 86_400 // seconds
)

// State is spec §3's StableParams ramp fields.
type State struct {
	InitAmp     int64 // scaled by Precision
	NextAmp     int64
	InitAmpTime int64 // unix seconds
	NextAmpTime int64
}

// NewAtRest constructs a ramp state with no ramp in progress.
func NewAtRest(amp int64, now int64) State {
	return State{InitAmp: amp, NextAmp: amp, InitAmpTime: now, NextAmpTime: now}
}

// CurrentAmp returns the interpolated AMP value at time `now`, per §4.6:
// linear interpolation between (InitAmpTime, InitAmp) and (NextAmpTime,
// NextAmp), clamped to NextAmp once `now` reaches NextAmpTime. Integer
// arithmetic throughout to avoid rounding oscillation.
func (s State) CurrentAmp(now int64) int64 {
	if now >= s.NextAmpTime {
		return s.NextAmp
	}
	if now <= s.InitAmpTime {
		return s.InitAmp
	}
	elapsed := math.NewInt(now - s.InitAmpTime)
	total := math.NewInt(s.NextAmpTime - s.InitAmpTime)

	if s.NextAmp >= s.InitAmp {
		delta := math.NewInt(s.NextAmp - s.InitAmp).Mul(elapsed).Quo(total)
		return s.InitAmp + delta.Int64()
	}
	delta := math.NewInt(s.InitAmp - s.NextAmp).Mul(elapsed).Quo(total)
	return s.InitAmp - delta.Int64()
}

// StartRamp begins ramping toward nextAmpValue, to complete at endTime,
// evaluated from the caller-supplied current time `now`. Per §4.6:
//   - InvalidAmp if nextAmpValue not in (0, MaxAmp]
//   - ExcessiveChange if nextAmpValue*MaxAmpChange < current OR
//     nextAmpValue > current*MaxAmpChange
//   - TooSoon if now < InitAmpTime+MinAmpChangingTime or
//     endTime < now+MinAmpChangingTime
func (s State) StartRamp(nextAmpValue int64, endTime int64, now int64) (State, error) {
	if nextAmpValue <= 0 || nextAmpValue > MaxAmp {
		return State{}, dexerrors.ErrInvalidAmp
	}

	current := s.CurrentAmp(now)

	if nextAmpValue*MaxAmpChange < current || nextAmpValue > current*MaxAmpChange {
		return State{}, dexerrors.ErrExcessiveAmpChange
	}

	if now < s.InitAmpTime+MinAmpChangingTime || endTime < now+MinAmpChangingTime {
		return State{}, dexerrors.ErrTooSoonAmpChange
	}

	return State{
		InitAmp:     current,
		InitAmpTime: now,
		NextAmp:     nextAmpValue,
		NextAmpTime: endTime,
	}, nil
}

// StopRamp freezes the AMP value at its currently interpolated value,
// collapsing init/next to the same amp and time.
func (s State) StopRamp(now int64) State {
	current := s.CurrentAmp(now)
	return State{
		InitAmp:     current,
		NextAmp:     current,
		InitAmpTime: now,
		NextAmpTime: now,
	}
}

// AtRest reports whether a ramp is not currently in progress (spec §3
// invariant: at rest init_amp == next_amp).
func (s State) AtRest() bool {
	return s.InitAmp == s.NextAmp
}
