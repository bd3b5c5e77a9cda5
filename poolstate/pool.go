// Package poolstate is the orchestration layer (spec §3 PoolState entity
// plus §4.8's operations): it owns a pool's balances, weights/amp ramp,
// fee configuration and TWAP accumulator, and composes the pure
// stableswap/weighted/feemodel/scaling/twap packages into the
// join/exit/swap entry points a host calls. Grounded on the teacher's
// keeper entry points (x/gamm/keeper/swap.go's SwapExactAmountIn /
// SwapExactAmountOut / updatePoolForSwap): validate, delegate to the pure
// math layer, mutate state, advance TWAP, return. Unlike the teacher's
// keeper methods, these operations never touch collab.TokenEffects
// themselves — OnSwap returns a []Transfer plan and the join/exit
// operations report the amounts moved in their outcomes, for the caller
// to execute,
// keeping this package free of context.Context and fully unit-testable
// (see DESIGN.md's Open Question resolution on this split).
package poolstate

import (
	"cosmossdk.io/math"

	"github.com/dexter-zone/dexter-core/amp"
	"github.com/dexter-zone/dexter-core/assets"
	"github.com/dexter-zone/dexter-core/dexerrors"
	"github.com/dexter-zone/dexter-core/feemodel"
	"github.com/dexter-zone/dexter-core/fixedpoint"
	"github.com/dexter-zone/dexter-core/scaling"
	"github.com/dexter-zone/dexter-core/stableswap"
	"github.com/dexter-zone/dexter-core/telemetry"
	"github.com/dexter-zone/dexter-core/twap"
	"github.com/dexter-zone/dexter-core/weighted"
)

// Kind distinguishes the two invariant families a PoolState can run.
type Kind uint8

const (
	KindWeighted Kind = iota
	KindStable
)

const (
	MinAssets = 2
	MaxAssets = 5
)

// WeightedParams holds the per-asset normalized weights (sum to 1) for a
// weighted-invariant pool.
type WeightedParams struct {
	NormalizedWeights []fixedpoint.Dec
	// ExitFeeBps is spec §3's optional WeightedParams.exit_fee, expressed
	// in the same basis-point units as every other fee in this module
	// rather than a raw [0,1) ratio, so feemodel.Validate's bps bound
	// applies uniformly. Zero (the default) means no exit fee.
	ExitFeeBps uint32
}

// StableParams holds the amp ramp state for a stable-invariant pool,
// plus the scaling-factor-update authorization fields spec §3 names
// (`supports_scaling_factor_update`, `scaling_factor_manager`) for pools
// backed by a rebasing or rate-providing asset.
type StableParams struct {
	Amp                         amp.State
	SupportsScalingFactorUpdate bool
	ScalingFactorManager        string // empty means unset
}

// Pool is spec §3's PoolState.
type Pool struct {
	ID             uint64
	Kind           Kind
	Assets         []assets.Info
	Balances       []fixedpoint.Dec // 18-decimal pool-internal units
	Precisions     []uint32
	ScalingFactors []fixedpoint.Dec
	Weighted       WeightedParams
	Stable         StableParams
	TotalShares    fixedpoint.Dec
	Fee            feemodel.Config
	Twap           twap.State

	// Logger is nil-safe: a zero-value Pool (e.g. one built directly in a
	// test) logs nothing rather than panicking.
	Logger telemetry.PoolEventLogger
}

func (p *Pool) log(msg string, keyVals ...interface{}) {
	if p.Logger == nil {
		return
	}
	p.Logger.Info(msg, keyVals...)
}

func validateAssets(infos []assets.Info, scalingFactors []fixedpoint.Dec, precisions []uint32) error {
	n := len(infos)
	if n < MinAssets || n > MaxAssets {
		return dexerrors.ErrInvalidNumberOfAssets
	}
	if len(scalingFactors) != n || len(precisions) != n {
		return dexerrors.ErrInvalidNumberOfAssets
	}
	if assets.HasDuplicates(infos) {
		return dexerrors.ErrDuplicateAssetInPool
	}
	for _, sf := range scalingFactors {
		if sf.IsZero() {
			return dexerrors.ErrInvalidScalingFactor
		}
	}
	for _, p := range precisions {
		if p > 18 {
			return dexerrors.ErrInvalidGreatestPrecision
		}
	}
	return nil
}

// NewWeightedPool constructs a fresh weighted pool with zero balances and
// zero total shares, ready to receive its first join.
func NewWeightedPool(id uint64, infos []assets.Info, weights []fixedpoint.Dec, scalingFactors []fixedpoint.Dec, precisions []uint32, fee feemodel.Config, now int64) (Pool, error) {
	if err := validateAssets(infos, scalingFactors, precisions); err != nil {
		return Pool{}, err
	}
	if len(weights) != len(infos) {
		return Pool{}, dexerrors.ErrInvalidNumberOfAssets
	}
	sum := fixedpoint.Zero
	for _, w := range weights {
		var err error
		sum, err = fixedpoint.Add(sum, w)
		if err != nil {
			return Pool{}, err
		}
	}
	if !sum.Equal(fixedpoint.One) {
		return Pool{}, dexerrors.ErrInvalidScalingFactor
	}
	if err := fee.Validate(); err != nil {
		return Pool{}, err
	}

	balances := make([]fixedpoint.Dec, len(infos))
	for i := range balances {
		balances[i] = fixedpoint.Zero
	}

	return Pool{
		ID:             id,
		Kind:           KindWeighted,
		Assets:         infos,
		Balances:       balances,
		Precisions:     precisions,
		ScalingFactors: scalingFactors,
		Weighted:       WeightedParams{NormalizedWeights: weights},
		TotalShares:    fixedpoint.Zero,
		Fee:            fee,
		Twap:           twap.NewState(now, allOrderedPairs(infos)),
	}, nil
}

// NewStablePool constructs a fresh stable pool.
func NewStablePool(id uint64, infos []assets.Info, initialAmp int64, scalingFactors []fixedpoint.Dec, precisions []uint32, fee feemodel.Config, now int64) (Pool, error) {
	if err := validateAssets(infos, scalingFactors, precisions); err != nil {
		return Pool{}, err
	}
	if err := fee.Validate(); err != nil {
		return Pool{}, err
	}

	balances := make([]fixedpoint.Dec, len(infos))
	for i := range balances {
		balances[i] = fixedpoint.Zero
	}

	return Pool{
		ID:             id,
		Kind:           KindStable,
		Assets:         infos,
		Balances:       balances,
		Precisions:     precisions,
		ScalingFactors: scalingFactors,
		Stable:         StableParams{Amp: amp.NewAtRest(initialAmp, now)},
		TotalShares:    fixedpoint.Zero,
		Fee:            fee,
		Twap:           twap.NewState(now, allOrderedPairs(infos)),
	}, nil
}

func allOrderedPairs(infos []assets.Info) []twap.PairKey {
	pairs := make([]twap.PairKey, 0, len(infos)*(len(infos)-1))
	for i := range infos {
		for j := range infos {
			if i == j {
				continue
			}
			pairs = append(pairs, twap.PairKey{Offer: infos[i], Ask: infos[j]})
		}
	}
	return pairs
}

func (p *Pool) indexOf(a assets.Info) int {
	return assets.IndexOf(p.Assets, a)
}

// spotPriceFunc captures the pool's CURRENT (pre-mutation) balances for
// twap.Advance, exactly as spec §5 requires TWAP accumulation to run
// before the balance overwrite on every mutating operation.
func (p *Pool) spotPriceFunc() twap.SpotPriceFunc {
	return func(offer, ask assets.Info) (fixedpoint.Dec, bool) {
		i := p.indexOf(offer)
		j := p.indexOf(ask)
		if i < 0 || j < 0 {
			return fixedpoint.Zero, false
		}
		if p.Balances[i].IsZero() || p.Balances[j].IsZero() {
			return fixedpoint.Zero, false
		}
		switch p.Kind {
		case KindWeighted:
			price, err := weighted.SpotPrice(p.Balances[j], p.Weighted.NormalizedWeights[j], p.Balances[i], p.Weighted.NormalizedWeights[i])
			if err != nil {
				return fixedpoint.Zero, false
			}
			return price, true
		default:
			// A stable pool's spot price is the numerical derivative of
			// the invariant at the current point; approximating it with
			// compute_y's implied rate over a vanishingly small trade is
			// the standard technique, done here with a probe of one
			// millionth of the offer asset's balance.
			price, ok := stableSpotPrice(p, i, j)
			return price, ok
		}
	}
}

func stableSpotPrice(p *Pool, i, j int) (fixedpoint.Dec, bool) {
	probe, err := fixedpoint.MulRatio(p.Balances[i], fixedpoint.One, fixedpoint.FromInt64(1_000_000))
	if err != nil || probe.IsZero() {
		return fixedpoint.Zero, false
	}
	currentAmp := p.Stable.Amp.CurrentAmp(p.Twap.LastBlockTime)
	result, err := stableswap.SwapGiveIn(p.Balances, i, j, probe, currentAmp, 0)
	if err != nil {
		return fixedpoint.Zero, false
	}
	price, err := fixedpoint.Div(result.AmountOut, probe)
	if err != nil {
		return fixedpoint.Zero, false
	}
	return price, true
}

// SwapOutcome is the result of OnSwap: either a successful trade (mutates
// the pool and returns non-empty Transfers), or, per spec §7's
// soft-failure policy for queries, a Failure reason with the pool's
// balances and shares left untouched (a failure from the swap calculation
// itself comes after the TWAP accumulator has been advanced).
type SwapOutcome struct {
	AmountOut   math.Int
	ProtocolFee math.Int
	Failure     string
}

// Transfer is one leg of funds movement poolstate expects the caller to
// carry out via collab.TokenEffects after a successful operation.
type Transfer struct {
	Asset     assets.Info
	Recipient string // empty for "into the vault"
	Amount    math.Int
}

// OnSwap implements spec §4.8 on_swap.
func (p *Pool) OnSwap(now int64, offer, ask assets.Info, amountIn math.Int, recipient string) (SwapOutcome, []Transfer, error) {
	i := p.indexOf(offer)
	j := p.indexOf(ask)
	if i < 0 || j < 0 {
		return SwapOutcome{Failure: dexerrors.ReasonPoolSelection("unknown asset")}, nil, nil
	}
	if i == j {
		return SwapOutcome{Failure: dexerrors.ReasonSameSourceAndTarget}, nil, nil
	}
	if amountIn.IsZero() || amountIn.IsNegative() {
		return SwapOutcome{Failure: dexerrors.ReasonCalcAmountZero}, nil, nil
	}
	if p.Balances[i].IsZero() || p.Balances[j].IsZero() {
		return SwapOutcome{Failure: dexerrors.ReasonSwapBalancesZero}, nil, nil
	}

	amountInScaled, err := scaling.ToScaled(amountIn, p.Precisions[i], p.ScalingFactors[i])
	if err != nil {
		return SwapOutcome{}, nil, err
	}

	p.Twap.Advance(now, p.spotPriceFunc())

	var amountOutScaled fixedpoint.Dec
	switch p.Kind {
	case KindWeighted:
		res, serr := weighted.SwapGiveIn(p.Balances[i], p.Weighted.NormalizedWeights[i], p.Balances[j], p.Weighted.NormalizedWeights[j], amountInScaled, p.Fee.TotalFeeBps)
		if serr != nil {
			return SwapOutcome{Failure: dexerrors.ReasonSwapCalculation(serr.Error())}, nil, nil
		}
		amountOutScaled = res.AmountOut
	case KindStable:
		currentAmp := p.Stable.Amp.CurrentAmp(now)
		res, serr := stableswap.SwapGiveIn(p.Balances, i, j, amountInScaled, currentAmp, p.Fee.TotalFeeBps)
		if serr != nil {
			return SwapOutcome{Failure: dexerrors.ReasonSwapCalculation(serr.Error())}, nil, nil
		}
		amountOutScaled = res.AmountOut
	}

	split, err := feemodel.SplitFee(amountInScaled, p.Fee)
	if err != nil {
		return SwapOutcome{}, nil, err
	}

	newBalanceIn, err := fixedpoint.Sub(amountInScaled, split.Protocol)
	if err != nil {
		return SwapOutcome{}, nil, err
	}
	newBalanceIn, err = fixedpoint.Add(p.Balances[i], newBalanceIn)
	if err != nil {
		return SwapOutcome{}, nil, err
	}
	newBalanceOut, err := fixedpoint.Sub(p.Balances[j], amountOutScaled)
	if err != nil {
		return SwapOutcome{}, nil, err
	}

	p.Balances[i] = newBalanceIn
	p.Balances[j] = newBalanceOut

	amountOutRaw, err := scaling.FromScaled(amountOutScaled, p.Precisions[j], p.ScalingFactors[j], scaling.FavorPool)
	if err != nil {
		return SwapOutcome{}, nil, err
	}
	protocolFeeRaw, err := scaling.FromScaled(split.Protocol, p.Precisions[i], p.ScalingFactors[i], scaling.FavorPool)
	if err != nil {
		return SwapOutcome{}, nil, err
	}

	transfers := []Transfer{
		{Asset: offer, Amount: amountIn},
		{Asset: ask, Recipient: recipient, Amount: amountOutRaw},
	}
	if protocolFeeRaw.IsPositive() {
		transfers = append(transfers, Transfer{Asset: offer, Recipient: "protocol", Amount: protocolFeeRaw})
	}

	p.log("pool swap executed", "pool_id", p.ID, "offer", offer.String(), "ask", ask.String(), "amount_in", amountIn.String(), "amount_out", amountOutRaw.String())
	return SwapOutcome{AmountOut: amountOutRaw, ProtocolFee: protocolFeeRaw}, transfers, nil
}

// JoinOutcome is the result of OnJoin.
type JoinOutcome struct {
	SharesMinted math.Int
	Failure      string
}

// OnJoin implements spec §4.8 on_join: provided is keyed by the same
// order as p.Assets and must cover every asset (a zero entry for an asset
// the depositor is not contributing).
func (p *Pool) OnJoin(now int64, providedRaw []math.Int) (JoinOutcome, error) {
	n := len(p.Assets)
	if len(providedRaw) != n {
		return JoinOutcome{Failure: dexerrors.ReasonNoAssetsProvided}, nil
	}

	anyNonZero := false
	provided := make([]fixedpoint.Dec, n)
	for i, amt := range providedRaw {
		if amt.IsNegative() {
			return JoinOutcome{Failure: dexerrors.ReasonNoNonZeroAssets}, nil
		}
		scaled, err := scaling.ToScaled(amt, p.Precisions[i], p.ScalingFactors[i])
		if err != nil {
			return JoinOutcome{}, err
		}
		provided[i] = scaled
		if !scaled.IsZero() {
			anyNonZero = true
		}
	}
	if !anyNonZero {
		return JoinOutcome{Failure: dexerrors.ReasonNoNonZeroAssets}, nil
	}

	allEmpty := true
	for _, b := range p.Balances {
		if !b.IsZero() {
			allEmpty = false
			break
		}
	}
	if allEmpty {
		for _, amt := range provided {
			if amt.IsZero() {
				return JoinOutcome{Failure: dexerrors.ReasonZeroIntoEmptyPool}, nil
			}
		}
	}

	p.Twap.Advance(now, p.spotPriceFunc())

	var sharesMinted fixedpoint.Dec
	switch p.Kind {
	case KindWeighted:
		nonZeroCount := 0
		singleIdx := -1
		for i, amt := range provided {
			if !amt.IsZero() {
				nonZeroCount++
				singleIdx = i
			}
		}
		if nonZeroCount == 1 && !allEmpty {
			res, err := weighted.SingleAssetJoin(p.Balances[singleIdx], p.Weighted.NormalizedWeights[singleIdx], p.TotalShares, provided[singleIdx], p.Fee.TotalFeeBps)
			if err != nil {
				return JoinOutcome{Failure: dexerrors.ReasonOfferAmountCalculation(err.Error())}, nil
			}
			sharesMinted = res.SharesMinted
			var addErr error
			p.Balances[singleIdx], addErr = fixedpoint.Add(p.Balances[singleIdx], provided[singleIdx])
			if addErr != nil {
				return JoinOutcome{}, addErr
			}
		} else if allEmpty {
			// Bootstrap deposit: shares minted equal the plain sum of
			// the provided scaled amounts, i.e. total provided value at
			// equal prices, whatever the weights.
			sum := fixedpoint.Zero
			var err error
			for i, amt := range provided {
				sum, err = fixedpoint.Add(sum, amt)
				if err != nil {
					return JoinOutcome{}, err
				}
				p.Balances[i] = amt
			}
			sharesMinted = sum
		} else {
			res, err := weighted.MultiAssetJoin(p.Balances, p.Weighted.NormalizedWeights, p.TotalShares, provided, p.Fee.TotalFeeBps)
			if err != nil {
				return JoinOutcome{Failure: dexerrors.ReasonOfferAmountCalculation(err.Error())}, nil
			}
			sharesMinted = res.SharesMinted
			for i := range p.Balances {
				var addErr error
				p.Balances[i], addErr = fixedpoint.Add(p.Balances[i], provided[i])
				if addErr != nil {
					return JoinOutcome{}, addErr
				}
			}
		}
	case KindStable:
		currentAmp := p.Stable.Amp.CurrentAmp(now)
		res, err := stableswap.ImbalancedJoin(p.Balances, provided, p.TotalShares, currentAmp, p.Fee.TotalFeeBps)
		if err != nil {
			return JoinOutcome{Failure: dexerrors.ReasonOfferAmountCalculation(err.Error())}, nil
		}
		sharesMinted = res.SharesMinted
		for i := range p.Balances {
			withFee := fixedpoint.SubClamped(provided[i], res.FeePerAsset[i])
			var addErr error
			p.Balances[i], addErr = fixedpoint.Add(p.Balances[i], withFee)
			if addErr != nil {
				return JoinOutcome{}, addErr
			}
			// The deducted imbalance fee stays in the pool (it is not a
			// protocol fee per spec §4.3), so add it straight back.
			p.Balances[i], addErr = fixedpoint.Add(p.Balances[i], res.FeePerAsset[i])
			if addErr != nil {
				return JoinOutcome{}, addErr
			}
		}
	}

	if sharesMinted.IsZero() {
		return JoinOutcome{Failure: dexerrors.ReasonMintAmountIsZero}, nil
	}

	p.TotalShares, _ = fixedpoint.Add(p.TotalShares, sharesMinted)

	sharesRaw := math.NewIntFromBigInt(sharesMinted.Raw().BigInt())
	p.log("pool join executed", "pool_id", p.ID, "shares_minted", sharesRaw.String())
	return JoinOutcome{SharesMinted: sharesRaw}, nil
}

// ExitOutcome is the result of OnExit.
type ExitOutcome struct {
	AmountsOut []math.Int
	BurnShares math.Int
	Failure    string
}

// OnExit implements spec §4.8 on_exit: a proportional burn of exitShares
// against every pool asset. This formula (amount_i = balance_i *
// exitShares/totalShares, net of exit_fee_bps) does not depend on the
// invariant family, so both pool kinds share weighted.Exit.
func (p *Pool) OnExit(now int64, exitSharesRaw math.Int) (ExitOutcome, error) {
	if exitSharesRaw.IsZero() || exitSharesRaw.IsNegative() {
		return ExitOutcome{Failure: dexerrors.ReasonBurnAmountIsZero}, nil
	}
	exitShares, err := fixedpoint.FromLegacyDec(math.LegacyNewDecFromIntWithPrec(exitSharesRaw, 18))
	if err != nil {
		return ExitOutcome{}, err
	}

	p.Twap.Advance(now, p.spotPriceFunc())

	exitFeeBps := p.Weighted.ExitFeeBps
	res, err := weighted.Exit(p.Balances, p.TotalShares, exitShares, exitFeeBps)
	if err != nil {
		return ExitOutcome{Failure: dexerrors.ReasonImbalancedWithdraw(err.Error())}, nil
	}

	amountsOut := make([]math.Int, len(p.Assets))
	for i := range p.Balances {
		p.Balances[i], err = fixedpoint.Sub(p.Balances[i], res.AmountsOut[i])
		if err != nil {
			return ExitOutcome{}, err
		}
		amountsOut[i], err = scaling.FromScaled(res.AmountsOut[i], p.Precisions[i], p.ScalingFactors[i], scaling.FavorPool)
		if err != nil {
			return ExitOutcome{}, err
		}
	}
	p.TotalShares, err = fixedpoint.Sub(p.TotalShares, exitShares)
	if err != nil {
		return ExitOutcome{}, err
	}

	p.log("pool exit executed", "pool_id", p.ID, "exit_shares", exitSharesRaw.String())
	return ExitOutcome{AmountsOut: amountsOut, BurnShares: exitSharesRaw}, nil
}

// OnExitExactOut implements spec §4.8 on_exit's ExactAssetsOut variant:
// the caller names the exact amount of each asset to withdraw and the
// engine solves for the LP shares that must be burned. This is defined
// by §4.3's imbalanced_exit for stable pools; the weighted invariant
// (§4.4) only specifies a proportional exit, so a weighted pool rejects
// this variant as unsupported rather than inventing an unspecified
// formula.
func (p *Pool) OnExitExactOut(now int64, assetsOutRaw []math.Int) (ExitOutcome, error) {
	if p.Kind != KindStable {
		return ExitOutcome{Failure: dexerrors.ReasonSwapTypeNotSupported}, nil
	}
	n := len(p.Assets)
	if len(assetsOutRaw) != n {
		return ExitOutcome{Failure: dexerrors.ReasonNoAssetsProvided}, nil
	}

	anyNonZero := false
	assetsOut := make([]fixedpoint.Dec, n)
	for i, amt := range assetsOutRaw {
		if amt.IsNegative() {
			return ExitOutcome{Failure: dexerrors.ReasonNoNonZeroAssets}, nil
		}
		scaled, err := scaling.ToScaled(amt, p.Precisions[i], p.ScalingFactors[i])
		if err != nil {
			return ExitOutcome{}, err
		}
		assetsOut[i] = scaled
		if !scaled.IsZero() {
			anyNonZero = true
		}
	}
	if !anyNonZero {
		return ExitOutcome{Failure: dexerrors.ReasonNoNonZeroAssets}, nil
	}

	p.Twap.Advance(now, p.spotPriceFunc())

	currentAmp := p.Stable.Amp.CurrentAmp(now)
	res, err := stableswap.ImbalancedExit(p.Balances, assetsOut, p.TotalShares, currentAmp, p.Fee.TotalFeeBps)
	if err != nil {
		return ExitOutcome{Failure: dexerrors.ReasonImbalancedWithdraw(err.Error())}, nil
	}
	if res.SharesBurned.IsZero() {
		return ExitOutcome{Failure: dexerrors.ReasonBurnAmountIsZero}, nil
	}
	if res.SharesBurned.GT(p.TotalShares) {
		return ExitOutcome{Failure: dexerrors.ReasonImbalancedWithdraw("burn exceeds total shares")}, nil
	}

	for i := range p.Balances {
		var err error
		p.Balances[i], err = fixedpoint.Sub(p.Balances[i], assetsOut[i])
		if err != nil {
			return ExitOutcome{}, err
		}
	}
	p.TotalShares, err = fixedpoint.Sub(p.TotalShares, res.SharesBurned)
	if err != nil {
		return ExitOutcome{}, err
	}

	burnSharesRaw := math.NewIntFromBigInt(res.SharesBurned.Raw().BigInt())
	p.log("pool imbalanced exit executed", "pool_id", p.ID, "shares_burned", burnSharesRaw.String())
	return ExitOutcome{AmountsOut: assetsOutRaw, BurnShares: burnSharesRaw}, nil
}

// ApplyLiquidity implements spec §4.8 apply_liquidity: an external
// mechanism (e.g. the reward engine compounding a proxy reward back into
// the pool, or an admin top-up) overwrites a pool's holdings with an
// absolute new_balances vector, without a matching swap/join/exit.
// Grounded on execute_update_liquidity (original_source stable_pool
// contract.rs): accumulate_prices runs against the OLD balances before
// config.assets is overwritten, and block_time_last is updated last.
// Spec §5's ordering invariant ("TWAP accumulation must run before
// balance overwrite on every mutation") holds here the same way it does
// in OnSwap/OnJoin/OnExit: Twap.Advance runs first, against the
// pre-mutation spot price, and itself updates Twap.LastBlockTime.
func (p *Pool) ApplyLiquidity(now int64, newBalancesRaw []math.Int) error {
	if len(newBalancesRaw) != len(p.Assets) {
		return dexerrors.ErrInvalidNumberOfAssets
	}

	p.Twap.Advance(now, p.spotPriceFunc())

	newBalances := make([]fixedpoint.Dec, len(newBalancesRaw))
	for i, raw := range newBalancesRaw {
		scaled, err := scaling.ToScaled(raw, p.Precisions[i], p.ScalingFactors[i])
		if err != nil {
			return err
		}
		newBalances[i] = scaled
	}
	p.Balances = newBalances
	return nil
}

// Clone returns a deep copy of p, letting a host implement spec §6's
// Query* entry points (QueryOnJoin/QueryOnExit/QueryOnSwap are pure: they
// must report what an Exec call would do without mutating the live
// PoolState) as a call against a scratch copy, discarding it afterward.
// Every slice and the TWAP accumulator's map are copied so mutating the
// clone never aliases the original.
func (p *Pool) Clone() Pool {
	out := *p

	out.Assets = append([]assets.Info(nil), p.Assets...)
	out.Balances = append([]fixedpoint.Dec(nil), p.Balances...)
	out.Precisions = append([]uint32(nil), p.Precisions...)
	out.ScalingFactors = append([]fixedpoint.Dec(nil), p.ScalingFactors...)
	out.Weighted.NormalizedWeights = append([]fixedpoint.Dec(nil), p.Weighted.NormalizedWeights...)

	out.Twap.Cumulative = make(map[twap.PairKey]fixedpoint.Dec, len(p.Twap.Cumulative))
	for k, v := range p.Twap.Cumulative {
		out.Twap.Cumulative[k] = v
	}

	return out
}
