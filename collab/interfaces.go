// Package collab defines the external collaborator boundary (spec §6):
// the handful of effects and queries this module needs from its host
// (token balances/transfers, block time, vault-level configuration) but
// does not implement itself, since those concerns belong to whatever
// contract or chain module embeds this engine. Grounded on the teacher's
// keeper pattern of depending on interfaces (BankKeeper, etc.) rather than
// concrete types, so a test or a different host can supply its own
// implementation.
package collab

import (
	"context"

	"github.com/dexter-zone/dexter-core/assets"
	"github.com/dexter-zone/dexter-core/fixedpoint"
)

// TokenIntrospection answers read-only questions about an asset a pool
// holds, generalizing the teacher's BankKeeper.GetSupply/GetBalance
// surface across both native and contract-token Assets.
type TokenIntrospection interface {
	// BalanceOf returns the vault's current holding of asset for the
	// given owner/vault address.
	BalanceOf(ctx context.Context, asset assets.Info, owner string) (fixedpoint.Dec, error)

	// Precision returns the asset's native decimal precision, used by the
	// scaling package to convert between wire amounts and pool-internal
	// 18-decimal units.
	Precision(ctx context.Context, asset assets.Info) (uint32, error)
}

// TokenEffects performs the mutating side of a swap/join/exit/reward
// payout: moving balances. Kept separate from TokenIntrospection the same
// way the teacher's BankKeeper separates SendCoins from GetBalance,
// letting a caller compose a read-only view with a full-effects one.
type TokenEffects interface {
	// TransferFrom moves amount of asset from sender to the vault.
	TransferFrom(ctx context.Context, asset assets.Info, sender, vault string, amount fixedpoint.Dec) error

	// TransferTo moves amount of asset from the vault to recipient.
	TransferTo(ctx context.Context, asset assets.Info, vault, recipient string, amount fixedpoint.Dec) error

	// Mint and Burn back LP share bookkeeping for pools backed by a real
	// fungible LP token (as opposed to an internal ledger entry); a host
	// that tracks shares purely internally can implement both as no-ops.
	Mint(ctx context.Context, lpAsset assets.Info, recipient string, amount fixedpoint.Dec) error
	Burn(ctx context.Context, lpAsset assets.Info, owner string, amount fixedpoint.Dec) error

	// InvokeClaim dispatches a reward payout through a vesting contract
	// rather than a direct transfer (spec §6's
	// "InvokeClaim(vesting, recipient, amount)" effect descriptor), used
	// by reward.ClaimRewards/ClaimProxyReward payouts that must unlock
	// through a linear vesting schedule instead of crediting the
	// recipient's balance immediately.
	InvokeClaim(ctx context.Context, vesting, recipient string, amount fixedpoint.Dec) error
}

// Clock supplies the current block time and height, generalizing the
// teacher's sdk.Context.BlockTime()/BlockHeight() accessors into a
// standalone interface so the pure math packages never import a context
// type themselves.
type Clock interface {
	Now(ctx context.Context) int64    // unix seconds
	Height(ctx context.Context) int64 // block height
}

// VaultConfig answers governance-controlled questions that are global to
// the deployment rather than local to one pool: fee collector address,
// whether a given pool kind is currently paused, the reward token's
// identity, and (spec §6) the two vault-level checks ExecUpdateConfig's
// owner gate and a new-pool dispatch both need — generalizing the
// teacher's Params subspace pattern.
type VaultConfig interface {
	FeeCollector(ctx context.Context) (string, error)
	IsPaused(ctx context.Context, poolID uint64) (bool, error)
	RewardToken(ctx context.Context) (assets.Info, error)

	// OwnerOf returns the identity allowed to call ExecUpdateConfig
	// (spec §6 "owner_of(vault) -> identity").
	OwnerOf(ctx context.Context, vault string) (string, error)

	// IsPoolInstantiationAllowed reports whether the dispatcher may create
	// a new pool of the given kind (spec §6
	// "is_pool_instantiation_allowed(pool_type) -> bool").
	IsPoolInstantiationAllowed(ctx context.Context, poolKind string) (bool, error)
}
