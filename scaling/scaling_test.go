package scaling_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/dexter-zone/dexter-core/fixedpoint"
	"github.com/dexter-zone/dexter-core/scaling"
)

func TestRoundTrip6Decimals(t *testing.T) {
	amount := math.NewInt(1_000_000) // 1.0 at precision 6
	scaled, err := scaling.ToScaled(amount, 6, fixedpoint.One)
	require.NoError(t, err)
	require.Equal(t, "1.000000000000000000", scaled.String())

	back, err := scaling.FromScaled(scaled, 6, fixedpoint.One, scaling.FavorPool)
	require.NoError(t, err)
	require.True(t, back.Equal(amount))
}

func TestFromScaledRoundsUpForAmountIn(t *testing.T) {
	// 1 unit at precision 6 scaled up has 12 trailing zero digits; shave
	// one off to force a fractional remainder on the way back down.
	scaled, err := fixedpoint.FromString("1.0000000000001")
	require.NoError(t, err)

	down, err := scaling.FromScaled(scaled, 6, fixedpoint.One, scaling.FavorPool)
	require.NoError(t, err)
	require.True(t, down.Equal(math.NewInt(1_000_000)))

	up, err := scaling.FromScaled(scaled, 6, fixedpoint.One, scaling.FavorPoolRoundUp)
	require.NoError(t, err)
	require.True(t, up.Equal(math.NewInt(1_000_001)))
}

func TestScalingFactorApplied(t *testing.T) {
	amount := math.NewInt(100)
	factor, err := fixedpoint.FromString("1.05")
	require.NoError(t, err)

	scaled, err := scaling.ToScaled(amount, 0, factor)
	require.NoError(t, err)
	require.Equal(t, "105.000000000000000000", scaled.String())

	back, err := scaling.FromScaled(scaled, 0, factor, scaling.FavorPool)
	require.NoError(t, err)
	require.True(t, back.Equal(amount))
}
