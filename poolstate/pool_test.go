package poolstate_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/dexter-zone/dexter-core/assets"
	"github.com/dexter-zone/dexter-core/feemodel"
	"github.com/dexter-zone/dexter-core/fixedpoint"
	"github.com/dexter-zone/dexter-core/poolstate"
)

var (
	atom  = assets.NativeToken("uatom")
	usdc  = assets.NativeToken("uusdc")
	osmo  = assets.NativeToken("uosmo")
	scale = fixedpoint.One
)

func threeAssetStablePool(t *testing.T) poolstate.Pool {
	t.Helper()
	infos := []assets.Info{atom, usdc, osmo}
	sf := []fixedpoint.Dec{scale, scale, scale}
	precisions := []uint32{6, 6, 6}
	fee := feemodel.Config{TotalFeeBps: 10, ProtocolBps: 2}

	pool, err := poolstate.NewStablePool(1, infos, 100*100, sf, precisions, fee, 1_700_000_000)
	require.NoError(t, err)

	_, err = pool.OnJoin(1_700_000_000, []math.Int{
		math.NewInt(1_000_000_000),
		math.NewInt(1_000_000_000),
		math.NewInt(1_000_000_000),
	})
	require.NoError(t, err)
	return pool
}

// TestStablePoolBootstrapMintsEqualToSum matches spec §8 Scenario S1.
func TestStablePoolBootstrapMintsEqualToSum(t *testing.T) {
	pool := threeAssetStablePool(t)
	require.Equal(t, "3000000000000000000000", pool.TotalShares.Raw().BigInt().String())
}

// TestStablePoolSwapGiveIn matches spec §8 Scenario S4.
func TestStablePoolSwapGiveIn(t *testing.T) {
	pool := threeAssetStablePool(t)

	outcome, transfers, err := pool.OnSwap(1_700_000_100, atom, usdc, math.NewInt(10_000_000), "trader")
	require.NoError(t, err)
	require.Empty(t, outcome.Failure)
	require.True(t, outcome.AmountOut.IsPositive())
	require.True(t, outcome.AmountOut.LT(math.NewInt(10_000_000)))
	require.Len(t, transfers, 3)
}

func TestStablePoolSwapRejectsSameAsset(t *testing.T) {
	pool := threeAssetStablePool(t)
	outcome, _, err := pool.OnSwap(1_700_000_100, atom, atom, math.NewInt(10), "trader")
	require.NoError(t, err)
	require.NotEmpty(t, outcome.Failure)
}

func TestStablePoolExitProportional(t *testing.T) {
	pool := threeAssetStablePool(t)
	beforeShares := pool.TotalShares

	outcome, err := pool.OnExit(1_700_000_200, math.NewIntWithDecimal(300, 18))
	require.NoError(t, err)
	require.Empty(t, outcome.Failure)
	require.Len(t, outcome.AmountsOut, 3)
	require.True(t, pool.TotalShares.LT(beforeShares))
}

func TestStablePoolExitExactAssetsOut(t *testing.T) {
	pool := threeAssetStablePool(t)
	beforeShares := pool.TotalShares

	outcome, err := pool.OnExitExactOut(1_700_000_200, []math.Int{
		math.NewInt(10_000_000),
		math.NewInt(5_000_000),
		math.ZeroInt(),
	})
	require.NoError(t, err)
	require.Empty(t, outcome.Failure)
	require.True(t, outcome.BurnShares.IsPositive())
	require.True(t, pool.TotalShares.LT(beforeShares))
}

func TestWeightedPoolExitExactAssetsOutUnsupported(t *testing.T) {
	pool := weightedPool(t)
	outcome, err := pool.OnExitExactOut(1_700_000_200, []math.Int{math.NewInt(1), math.ZeroInt()})
	require.NoError(t, err)
	require.NotEmpty(t, outcome.Failure)
}

// TestCloneIsIndependentOfOriginal matches spec §6's Query*/Exec* split:
// mutating a clone (as a QueryOnJoin dry run would) must never leak into
// the pool a host is about to persist.
func TestCloneIsIndependentOfOriginal(t *testing.T) {
	pool := threeAssetStablePool(t)
	scratch := pool.Clone()

	_, err := scratch.OnJoin(1_700_000_300, []math.Int{math.NewInt(500_000_000), math.ZeroInt(), math.ZeroInt()})
	require.NoError(t, err)

	require.True(t, scratch.TotalShares.GT(pool.TotalShares))
	require.False(t, pool.TotalShares.Equal(scratch.TotalShares))
}

func weightedPool(t *testing.T) poolstate.Pool {
	t.Helper()
	infos := []assets.Info{atom, usdc}
	sf := []fixedpoint.Dec{scale, scale}
	precisions := []uint32{6, 6}
	half, err := fixedpoint.FromString("0.5")
	require.NoError(t, err)
	fee := feemodel.Config{TotalFeeBps: 30, ProtocolBps: 0}

	pool, err := poolstate.NewWeightedPool(2, infos, []fixedpoint.Dec{half, half}, sf, precisions, fee, 1_700_000_000)
	require.NoError(t, err)

	_, err = pool.OnJoin(1_700_000_000, []math.Int{math.NewInt(1_000_000_000), math.NewInt(1_000_000_000)})
	require.NoError(t, err)
	return pool
}

// TestApplyLiquidityOverwritesBalancesAndAdvancesTwap matches spec §4.8
// apply_liquidity and the ordering invariant in spec §5: the TWAP
// accumulator must see the pool's old balances before they are
// overwritten by the new absolute values.
func TestApplyLiquidityOverwritesBalancesAndAdvancesTwap(t *testing.T) {
	pool := threeAssetStablePool(t)
	beforeBlockTime := pool.Twap.LastBlockTime

	err := pool.ApplyLiquidity(1_700_000_500, []math.Int{
		math.NewInt(2_000_000_000),
		math.NewInt(1_000_000_000),
		math.NewInt(1_000_000_000),
	})
	require.NoError(t, err)

	require.Equal(t, int64(1_700_000_500), pool.Twap.LastBlockTime)
	require.True(t, pool.Twap.LastBlockTime > beforeBlockTime)
	require.Equal(t, "2000000000000000000000", pool.Balances[0].Raw().BigInt().String())
}

func TestApplyLiquidityRejectsWrongAssetCount(t *testing.T) {
	pool := threeAssetStablePool(t)
	err := pool.ApplyLiquidity(1_700_000_500, []math.Int{math.NewInt(1)})
	require.Error(t, err)
}

// TestWeightedPoolSingleAssetJoin matches spec §8 Scenario S5.
func TestWeightedPoolSingleAssetJoin(t *testing.T) {
	pool := weightedPool(t)
	before := pool.TotalShares

	outcome, err := pool.OnJoin(1_700_000_300, []math.Int{math.NewInt(100_000_000), math.ZeroInt()})
	require.NoError(t, err)
	require.Empty(t, outcome.Failure)
	require.True(t, outcome.SharesMinted.IsPositive())
	require.True(t, pool.TotalShares.GT(before))
}
