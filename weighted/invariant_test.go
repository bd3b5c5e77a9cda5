package weighted_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dexter-zone/dexter-core/fixedpoint"
	"github.com/dexter-zone/dexter-core/weighted"
)

func dec(s string) fixedpoint.Dec {
	d, err := fixedpoint.FromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// TestSpotPriceEqualWeights matches spec §8 Scenario S5's setup: a 50/50
// pool with equal balances should price 1:1.
func TestSpotPriceEqualWeights(t *testing.T) {
	half := dec("0.5")
	price, err := weighted.SpotPrice(dec("1000"), half, dec("1000"), half)
	require.NoError(t, err)
	require.Equal(t, "1.000000000000000000", price.String())
}

func TestSpotPriceWeightSkew(t *testing.T) {
	w80 := dec("0.8")
	w20 := dec("0.2")
	// 80/20 pool with equal token balances prices the heavier-weighted
	// asset cheaper in terms of the lighter one.
	price, err := weighted.SpotPrice(dec("1000"), w80, dec("1000"), w20)
	require.NoError(t, err)
	require.True(t, price.LT(fixedpoint.One))
}

func TestSwapGiveInEqualWeightsNearOneToOne(t *testing.T) {
	half := dec("0.5")
	result, err := weighted.SwapGiveIn(dec("1000"), half, dec("1000"), half, dec("10"), 30)
	require.NoError(t, err)
	require.True(t, result.AmountOut.GT(fixedpoint.Zero))
	require.True(t, result.AmountOut.LT(dec("10")))
	// 10 in less the 0.3% fee is 9.97; 1000 * 9.97 / 1009.97 ≈ 9.8716 out.
	require.InDelta(t, 9.8716, mustFloat(t, result.AmountOut), 0.05)
}

func TestSwapGiveOutRejectsDrainingPool(t *testing.T) {
	half := dec("0.5")
	_, err := weighted.SwapGiveOut(dec("1000"), half, dec("1000"), half, dec("1000"), 30)
	require.Error(t, err)
}

// TestSingleAssetJoinMintsSharesBelowProportional matches spec
// §8 Scenario S5: depositing a single asset into a weighted pool should
// mint strictly fewer shares than an equal-value balanced deposit would,
// because of the effective single-sided fee.
func TestSingleAssetJoinMintsSharesBelowProportional(t *testing.T) {
	half := dec("0.5")
	result, err := weighted.SingleAssetJoin(dec("1000"), half, dec("2000"), dec("100"), 30)
	require.NoError(t, err)
	require.True(t, result.SharesMinted.GT(fixedpoint.Zero))

	// A proportional (balanced, fee-free) deposit of the same fraction of
	// the pool would mint shares = totalShares * (amountIn/balance).
	proportional, _ := fixedpoint.MulRatio(dec("2000"), dec("100"), dec("1000"))
	require.True(t, result.SharesMinted.LT(proportional))
}

func TestMultiAssetJoinProportionalNoRemainder(t *testing.T) {
	half := dec("0.5")
	balances := []fixedpoint.Dec{dec("1000"), dec("1000")}
	weights := []fixedpoint.Dec{half, half}
	provided := []fixedpoint.Dec{dec("100"), dec("100")}

	result, err := weighted.MultiAssetJoin(balances, weights, dec("2000"), provided, 30)
	require.NoError(t, err)
	require.Equal(t, "200.000000000000000000", result.SharesMinted.String())
}

func TestExitProportional(t *testing.T) {
	balances := []fixedpoint.Dec{dec("1000"), dec("1000")}
	result, err := weighted.Exit(balances, dec("2000"), dec("200"), 0)
	require.NoError(t, err)
	require.Equal(t, "100.000000000000000000", result.AmountsOut[0].String())
	require.Equal(t, "100.000000000000000000", result.AmountsOut[1].String())
}

func TestExitRejectsBurningEverything(t *testing.T) {
	balances := []fixedpoint.Dec{dec("1000"), dec("1000")}
	_, err := weighted.Exit(balances, dec("2000"), dec("2000"), 0)
	require.Error(t, err)
}

func mustFloat(t *testing.T, d fixedpoint.Dec) float64 {
	t.Helper()
	f, err := strconv.ParseFloat(d.String(), 64)
	require.NoError(t, err)
	return f
}
