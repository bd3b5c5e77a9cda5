// Package dexerrors is the registered error taxonomy for the dexter pool
// math and accounting core (spec §7). Execute-path failures are returned
// as these sentinel errors, wrapped with cosmossdk.io/errors the same way
// the teacher module wraps sdkerrors. Query-path "soft failures" (on_join,
// on_exit, on_swap) are NOT represented here: they are a Failure(reason)
// string field on the response struct, per §7's propagation policy.
package dexerrors

import (
	"cosmossdk.io/errors"
)

// RootCodespace is the codespace under which every error in this package
// is registered, mirroring how the teacher registers x/gamm/types errors.
const RootCodespace = "dexter"

var (
	// Validation
	ErrInvalidNumberOfAssets = errors.Register(RootCodespace, 2, "invalid number of assets")
	ErrDuplicateAssetInPool  = errors.Register(RootCodespace, 3, "duplicate asset in pool")
	ErrInvalidScalingFactor  = errors.Register(RootCodespace, 4, "invalid scaling factor")
	ErrInvalidAmp            = errors.Register(RootCodespace, 5, "invalid amp value")
	ErrInvalidGreatestPrecision = errors.Register(RootCodespace, 6, "invalid greatest precision")
	ErrRepeatedAssetInRequest = errors.Register(RootCodespace, 7, "repeated asset in request")
	ErrPoolDuplicate         = errors.Register(RootCodespace, 8, "pool id already active")
	ErrInvalidFeeBps         = errors.Register(RootCodespace, 9, "invalid fee_bps or fee_split")

	// Authorization
	ErrUnauthorized                      = errors.Register(RootCodespace, 20, "unauthorized")
	ErrScalingFactorManagerNotSpecified  = errors.Register(RootCodespace, 21, "scaling factor manager not specified")
	ErrScalingFactorUpdateNotSupported   = errors.Register(RootCodespace, 22, "scaling factor update not supported by this pool")

	// State
	ErrPoolDoesNotExist                   = errors.Register(RootCodespace, 40, "pool does not exist")
	ErrPoolDoesNotHaveAdditionalRewards   = errors.Register(RootCodespace, 41, "pool does not have additional (proxy) rewards")
	ErrDexTokenAlreadySet                 = errors.Register(RootCodespace, 42, "dex token already set")
	ErrVestingContractAlreadySet          = errors.Register(RootCodespace, 43, "vesting contract already set")

	// Arithmetic
	ErrOverflow      = errors.Register(RootCodespace, 60, "overflow")
	ErrUnderflow     = errors.Register(RootCodespace, 61, "underflow")
	ErrDivByZero     = errors.Register(RootCodespace, 62, "division by zero")
	ErrNotConverged  = errors.Register(RootCodespace, 63, "newton iteration did not converge")
	ErrPowOutOfDomain = errors.Register(RootCodespace, 64, "pow: base or exponent outside supported domain")

	// Operation
	ErrBalanceTooSmall     = errors.Register(RootCodespace, 80, "balance too small")
	ErrZeroAmount          = errors.Register(RootCodespace, 81, "zero amount")
	ErrZeroUnbondAmount    = errors.Register(RootCodespace, 82, "zero unbond amount")
	ErrZeroOrphanRewards   = errors.Register(RootCodespace, 83, "zero orphan rewards")
	ErrRepetitiveReply     = errors.Register(RootCodespace, 84, "repetitive reply: a temporary action is already pending")
	ErrExcessiveAmpChange  = errors.Register(RootCodespace, 85, "excessive amp change")
	ErrTooSoonAmpChange    = errors.Register(RootCodespace, 86, "too soon to change amp")
)

// Soft-failure reason strings, stable per §7. Consumers match on these
// exact strings; do not reword them.
const (
	ReasonNoAssetsProvided          = "No assets provided"
	ReasonNoNonZeroAssets           = "No non-zero assets provided"
	ReasonZeroIntoEmptyPool         = "Cannot deposit zero into an empty pool"
	ReasonRepeatedAssetsInAssetIn   = "Repeated assets in asset_in"
	ReasonMintAmountIsZero          = "Mint amount is zero"
	ReasonBurnAmountIsZero          = "Burn amount is zero"
	ReasonSameSourceAndTarget       = "Source and target assets are the same"
	ReasonSwapBalancesZero          = "Swap pool balances cannot be zero"
	ReasonSwapTypeNotSupported      = "SwapType not supported"
	ReasonCalcAmountZero            = "Computation error - calc_amount is zero"
)

// Fmt helpers for the parameterized soft-failure reasons (§7).
func ReasonPoolSelection(detail string) string {
	return "Error during pool selection: " + detail
}

func ReasonSwapCalculation(detail string) string {
	return "Error during swap calculation: " + detail
}

func ReasonOfferAmountCalculation(detail string) string {
	return "Error during offer amount calculation: " + detail
}

func ReasonImbalancedWithdraw(detail string) string {
	return "Error during imbalanced_withdraw: " + detail
}
