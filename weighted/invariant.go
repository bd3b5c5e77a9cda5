// Package weighted implements spec §4.4: the Balancer-style weighted
// constant-value invariant V = Prod(x_i^w_i). Directly grounded on the
// teacher's solveConstantFunctionInvariant, CalcOutAmtGivenIn,
// CalcInAmtGivenOut, calcPoolOutGivenSingleIn, SpotPrice and ExitPool in
// x/gamm/pool-models/balancer/amm.go, generalized from the teacher's
// Coins/sdk.Dec plumbing to fixedpoint.Dec and widened to cover
// multi-asset (not just single-asset) joins per spec.
package weighted

import (
	"cosmossdk.io/math"

	"github.com/dexter-zone/dexter-core/dexerrors"
	"github.com/dexter-zone/dexter-core/feemodel"
	"github.com/dexter-zone/dexter-core/fixedpoint"
)

// weightedPow computes base^exp for an exponent that may exceed 1, by
// splitting exp into an integer part (handled by repeated multiplication)
// and a fractional remainder (handled by fixedpoint.Pow, whose domain is
// restricted to exponents in (0,1]). This mirrors how the teacher's own
// osmomath.Pow is only ever called with a weight ratio, never validating
// its range beforehand — here we make that range explicit instead of
// trusting the caller.
func weightedPow(base, exp fixedpoint.Dec) (fixedpoint.Dec, error) {
	if exp.IsZero() {
		return fixedpoint.One, nil
	}
	if exp.LTE(fixedpoint.One) {
		return fixedpoint.Pow(base, exp)
	}

	intDec := exp.Raw().TruncateDec()
	fracRaw := exp.Raw().Sub(intDec)
	intPart := intDec.TruncateInt().Int64()

	result := fixedpoint.One
	for i := int64(0); i < intPart; i++ {
		var err error
		result, err = fixedpoint.Mul(result, base)
		if err != nil {
			return fixedpoint.Dec{}, err
		}
	}

	if fracRaw.IsZero() {
		return result, nil
	}
	frac, err := fixedpoint.FromLegacyDec(fracRaw)
	if err != nil {
		return fixedpoint.Dec{}, err
	}
	fracResult, err := fixedpoint.Pow(base, frac)
	if err != nil {
		return fixedpoint.Dec{}, err
	}
	return fixedpoint.Mul(result, fracResult)
}

// solveConstantFunctionInvariant is the direct generalization of the
// teacher's function of the same name: for fixed balanceFixedBefore,
// balanceFixedAfter, weightFixed, balanceUnknownBefore, weightUnknown, it
// returns balanceUnknownDelta = balanceUnknownBefore * (1 -
// (balanceFixedBefore/balanceFixedAfter)^(weightFixed/weightUnknown)).
// The return is a signed math.LegacyDec (not a checked fixedpoint.Dec)
// because the delta's sign carries meaning: positive when the unknown
// side's balance decreases, negative when it increases, exactly as in
// the teacher's comment.
func solveConstantFunctionInvariant(balanceFixedBefore, balanceFixedAfter, weightFixed, balanceUnknownBefore, weightUnknown fixedpoint.Dec) (math.LegacyDec, error) {
	weightRatio, err := fixedpoint.Div(weightFixed, weightUnknown)
	if err != nil {
		return math.LegacyDec{}, err
	}
	y, err := fixedpoint.Div(balanceFixedBefore, balanceFixedAfter)
	if err != nil {
		return math.LegacyDec{}, err
	}
	pow, err := weightedPow(y, weightRatio)
	if err != nil {
		return math.LegacyDec{}, err
	}
	multiplier := math.LegacyOneDec().Sub(pow.Raw())
	return balanceUnknownBefore.Raw().Mul(multiplier), nil
}

// SwapResult mirrors stableswap.SwapResult so poolstate can treat both
// pool kinds uniformly.
type SwapResult struct {
	AmountIn  fixedpoint.Dec
	AmountOut fixedpoint.Dec
	FeeAmount fixedpoint.Dec
}

// SwapGiveIn implements spec §4.4 swap_give_in, the teacher's
// CalcOutAmtGivenIn generalized off Coins onto raw balances/weights.
func SwapGiveIn(balanceIn, weightIn, balanceOut, weightOut, amountIn fixedpoint.Dec, feeBps uint32) (SwapResult, error) {
	amountInAfterFee, err := feemodel.ApplyFeeBps(amountIn, feeBps)
	if err != nil {
		return SwapResult{}, err
	}
	feeAmount, err := fixedpoint.Sub(amountIn, amountInAfterFee)
	if err != nil {
		return SwapResult{}, err
	}

	postSwapIn, err := fixedpoint.Add(balanceIn, amountInAfterFee)
	if err != nil {
		return SwapResult{}, err
	}

	delta, err := solveConstantFunctionInvariant(balanceIn, postSwapIn, weightIn, balanceOut, weightOut)
	if err != nil {
		return SwapResult{}, err
	}
	amountOut, err := fixedpoint.FromLegacyDec(delta)
	if err != nil {
		return SwapResult{}, dexerrors.ErrNotConverged
	}
	if amountOut.GTE(balanceOut) {
		return SwapResult{}, dexerrors.ErrBalanceTooSmall
	}

	return SwapResult{AmountIn: amountIn, AmountOut: amountOut, FeeAmount: feeAmount}, nil
}

// SwapGiveOut implements spec §4.4 swap_give_out, the teacher's
// CalcInAmtGivenOut generalized the same way, including its
// amountIn = amountInBeforeFee / (1 - feeBps) grossing-up step.
func SwapGiveOut(balanceIn, weightIn, balanceOut, weightOut, amountOut fixedpoint.Dec, feeBps uint32) (SwapResult, error) {
	if amountOut.GTE(balanceOut) {
		return SwapResult{}, dexerrors.ErrBalanceTooSmall
	}
	postSwapOut, err := fixedpoint.Sub(balanceOut, amountOut)
	if err != nil {
		return SwapResult{}, err
	}

	delta, err := solveConstantFunctionInvariant(balanceOut, postSwapOut, weightOut, balanceIn, weightIn)
	if err != nil {
		return SwapResult{}, err
	}
	amountInBeforeFee, err := fixedpoint.FromLegacyDec(delta)
	if err != nil {
		return SwapResult{}, dexerrors.ErrNotConverged
	}

	precision := fixedpoint.FromInt64(feemodel.FeePrecision)
	feeBpsDec := fixedpoint.FromInt64(int64(feeBps))
	remainingBps, err := fixedpoint.Sub(precision, feeBpsDec)
	if err != nil {
		return SwapResult{}, err
	}
	if remainingBps.IsZero() {
		return SwapResult{}, dexerrors.ErrDivByZero
	}
	amountIn, err := fixedpoint.MulRatio(amountInBeforeFee, precision, remainingBps)
	if err != nil {
		return SwapResult{}, err
	}
	feeAmount, err := fixedpoint.Sub(amountIn, amountInBeforeFee)
	if err != nil {
		feeAmount = fixedpoint.Zero
	}

	return SwapResult{AmountIn: amountIn, AmountOut: amountOut, FeeAmount: feeAmount}, nil
}

// SpotPrice implements spec §4.4 spot_price, the teacher's SpotPrice
// method generalized off pool-asset lookups onto raw balance/weight pairs:
// spot_price = (balanceBase/weightBase) / (balanceQuote/weightQuote).
func SpotPrice(balanceBase, weightBase, balanceQuote, weightQuote fixedpoint.Dec) (fixedpoint.Dec, error) {
	numerator, err := fixedpoint.Div(balanceBase, weightBase)
	if err != nil {
		return fixedpoint.Dec{}, err
	}
	denominator, err := fixedpoint.Div(balanceQuote, weightQuote)
	if err != nil {
		return fixedpoint.Dec{}, err
	}
	return fixedpoint.Div(numerator, denominator)
}

// SingleAssetJoinResult is the outcome of depositing a single asset.
type SingleAssetJoinResult struct {
	SharesMinted fixedpoint.Dec
}

// SingleAssetJoin implements spec §4.4 single_asset_join, the teacher's
// calcPoolOutGivenSingleIn, with the Open-Question-(a) resolution that the
// effective fee on the "unswapped" portion of the normalized weight is
// fee_ratio = 1 - fee_bps*(1 - weight_i), exactly the teacher's
// effectiveSwapFee formula (fee_bps is already a fraction of FeePrecision
// here, not raw basis points).
func SingleAssetJoin(balanceIn, normalizedWeightIn, totalShares, amountIn fixedpoint.Dec, feeBps uint32) (SingleAssetJoinResult, error) {
	feeBpsDec := fixedpoint.FromInt64(int64(feeBps))
	precision := fixedpoint.FromInt64(feemodel.FeePrecision)
	feeFraction, err := fixedpoint.Div(feeBpsDec, precision)
	if err != nil {
		return SingleAssetJoinResult{}, err
	}

	oneMinusWeight, err := fixedpoint.Sub(fixedpoint.One, normalizedWeightIn)
	if err != nil {
		return SingleAssetJoinResult{}, err
	}
	effectiveFee, err := fixedpoint.Mul(oneMinusWeight, feeFraction)
	if err != nil {
		return SingleAssetJoinResult{}, err
	}
	oneMinusEffectiveFee, err := fixedpoint.Sub(fixedpoint.One, effectiveFee)
	if err != nil {
		return SingleAssetJoinResult{}, err
	}
	amountInAfterFee, err := fixedpoint.Mul(amountIn, oneMinusEffectiveFee)
	if err != nil {
		return SingleAssetJoinResult{}, err
	}

	postJoinBalance, err := fixedpoint.Add(balanceIn, amountInAfterFee)
	if err != nil {
		return SingleAssetJoinResult{}, err
	}

	// This is exactly solveConstantFunctionInvariant applied to the
	// "shares" side with weight 1, then sign-flipped, matching the
	// teacher's own comment explaining why calcPoolOutGivenSingleIn
	// reuses the swap formula.
	delta, err := solveConstantFunctionInvariant(postJoinBalance, balanceIn, normalizedWeightIn, totalShares, fixedpoint.One)
	if err != nil {
		return SingleAssetJoinResult{}, err
	}
	sharesOut, err := fixedpoint.FromLegacyDec(delta.Neg())
	if err != nil {
		return SingleAssetJoinResult{}, dexerrors.ErrNotConverged
	}

	return SingleAssetJoinResult{SharesMinted: sharesOut}, nil
}

// MultiAssetJoinResult is the outcome of a multi-asset (potentially
// unbalanced) join.
type MultiAssetJoinResult struct {
	SharesMinted fixedpoint.Dec
	RefundAmount []fixedpoint.Dec // unused remainder per asset, in provided order
}

// MultiAssetJoin implements spec §4.4 multi_asset_join: first extracts
// the maximal proportional ("exact ratio") join possible from the
// provided amounts without charging any fee, then routes each asset's
// leftover remainder through SingleAssetJoin. This two-step shape (a
// maximal_ratio_join followed by remaining single-asset joins) is named
// directly in the teacher's exactRatioJoin/singleAssetJoin split, which
// the teacher's v7 snapshot leaves unimplemented (exactRatioJoin is a
// stub, JoinPool only supports the single-asset or all-assets-in-ratio
// cases) — this fills in the general case spec §4.4 calls for.
func MultiAssetJoin(balances, normalizedWeights []fixedpoint.Dec, totalShares fixedpoint.Dec, provided []fixedpoint.Dec, feeBps uint32) (MultiAssetJoinResult, error) {
	n := len(balances)
	if len(normalizedWeights) != n || len(provided) != n {
		return MultiAssetJoinResult{}, dexerrors.ErrInvalidNumberOfAssets
	}

	// maximal_ratio = min_i(provided_i / balance_i): the largest uniform
	// scale-up of every pool balance that the provided amounts can fully
	// cover.
	maximalRatio := fixedpoint.Dec{}
	haveRatio := false
	for i := range balances {
		if balances[i].IsZero() {
			continue
		}
		ratio, err := fixedpoint.Div(provided[i], balances[i])
		if err != nil {
			return MultiAssetJoinResult{}, err
		}
		if !haveRatio || ratio.LT(maximalRatio) {
			maximalRatio = ratio
			haveRatio = true
		}
	}
	if !haveRatio {
		return MultiAssetJoinResult{}, dexerrors.ErrInvalidNumberOfAssets
	}

	sharesFromRatioJoin, err := fixedpoint.Mul(totalShares, maximalRatio)
	if err != nil {
		return MultiAssetJoinResult{}, err
	}

	remainder := make([]fixedpoint.Dec, n)
	for i := range balances {
		used, err := fixedpoint.Mul(balances[i], maximalRatio)
		if err != nil {
			return MultiAssetJoinResult{}, err
		}
		remainder[i] = fixedpoint.SubClamped(provided[i], used)
	}

	totalSharesMinted := sharesFromRatioJoin
	refund := make([]fixedpoint.Dec, n)
	runningBalances := append([]fixedpoint.Dec(nil), balances...)
	runningShares := totalShares
	runningShares, err = fixedpoint.Add(runningShares, sharesFromRatioJoin)
	if err != nil {
		return MultiAssetJoinResult{}, err
	}
	for i := range runningBalances {
		scaled, err := fixedpoint.Mul(runningBalances[i], maximalRatio)
		if err != nil {
			return MultiAssetJoinResult{}, err
		}
		runningBalances[i], err = fixedpoint.Add(runningBalances[i], scaled)
		if err != nil {
			return MultiAssetJoinResult{}, err
		}
	}

	for i := range remainder {
		if remainder[i].IsZero() {
			refund[i] = fixedpoint.Zero
			continue
		}
		res, err := SingleAssetJoin(runningBalances[i], normalizedWeights[i], runningShares, remainder[i], feeBps)
		if err != nil {
			return MultiAssetJoinResult{}, err
		}
		totalSharesMinted, err = fixedpoint.Add(totalSharesMinted, res.SharesMinted)
		if err != nil {
			return MultiAssetJoinResult{}, err
		}
		runningShares, err = fixedpoint.Add(runningShares, res.SharesMinted)
		if err != nil {
			return MultiAssetJoinResult{}, err
		}
		runningBalances[i], err = fixedpoint.Add(runningBalances[i], remainder[i])
		if err != nil {
			return MultiAssetJoinResult{}, err
		}
		refund[i] = fixedpoint.Zero
	}

	return MultiAssetJoinResult{SharesMinted: totalSharesMinted, RefundAmount: refund}, nil
}

// ExitResult is the outcome of a proportional exit.
type ExitResult struct {
	AmountsOut []fixedpoint.Dec // parallel to the balances slice
}

// Exit implements spec §4.4 exit, the teacher's ExitPool generalized off
// sdk.Coins onto a plain balance slice: burning shares withdraws the same
// proportion of every pool asset, after an exit fee that (per the
// teacher) is deducted from the shares being redeemed rather than from
// the withdrawn amounts.
func Exit(balances []fixedpoint.Dec, totalShares, exitingShares fixedpoint.Dec, exitFeeBps uint32) (ExitResult, error) {
	if exitingShares.GTE(totalShares) {
		return ExitResult{}, dexerrors.ErrBalanceTooSmall
	}

	precision := fixedpoint.FromInt64(feemodel.FeePrecision)
	feeBpsDec := fixedpoint.FromInt64(int64(exitFeeBps))
	remainingBps, err := fixedpoint.Sub(precision, feeBpsDec)
	if err != nil {
		return ExitResult{}, err
	}
	refundedShares, err := fixedpoint.MulRatio(exitingShares, remainingBps, precision)
	if err != nil {
		return ExitResult{}, err
	}
	if refundedShares.IsZero() {
		return ExitResult{}, dexerrors.ErrZeroAmount
	}

	shareOutRatio, err := fixedpoint.Div(totalShares, refundedShares)
	if err != nil {
		return ExitResult{}, err
	}

	amountsOut := make([]fixedpoint.Dec, len(balances))
	for i, bal := range balances {
		amountsOut[i], err = fixedpoint.Div(bal, shareOutRatio)
		if err != nil {
			return ExitResult{}, err
		}
	}

	return ExitResult{AmountsOut: amountsOut}, nil
}
