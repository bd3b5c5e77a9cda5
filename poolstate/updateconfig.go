// Package poolstate (this file): the spec §9 "Dynamic params as tagged
// variants" re-modeling of ExecUpdateConfig's `encoded_params` Binary
// blob (spec §6) into a closed Go sum type, and the matching
// PoolInitParams variant consumed by pool creation. No opaque bytes
// cross this boundary; a host decodes its own wire message into one of
// these variants before calling in.
package poolstate

import (
	"github.com/dexter-zone/dexter-core/assets"
	"github.com/dexter-zone/dexter-core/dexerrors"
	"github.com/dexter-zone/dexter-core/feemodel"
	"github.com/dexter-zone/dexter-core/fixedpoint"
)

// InitKind distinguishes the two PoolInitParams variants.
type InitKind uint8

const (
	InitKindWeighted InitKind = iota
	InitKindStable
)

// InitParams is spec §9's `PoolInitParams = Weighted(WeightedParams) |
// Stable(StableParams)` sum type, carrying exactly the fields
// NewWeightedPool/NewStablePool need so a host's pool-creation entry
// point can decode one wire message into this type and switch on Kind
// rather than threading two separate constructor argument lists through
// its own dispatch.
type InitParams struct {
	Kind InitKind

	// Weighted variant fields.
	Weights    []fixedpoint.Dec
	ExitFeeBps uint32

	// Stable variant fields.
	InitialAmp int64
}

// NewPool constructs a fresh Pool from a decoded InitParams, dispatching
// to NewWeightedPool or NewStablePool.
func NewPool(id uint64, infos []assets.Info, scalingFactors []fixedpoint.Dec, precisions []uint32, fee feemodel.Config, params InitParams, now int64) (Pool, error) {
	switch params.Kind {
	case InitKindWeighted:
		pool, err := NewWeightedPool(id, infos, params.Weights, scalingFactors, precisions, fee, now)
		if err != nil {
			return Pool{}, err
		}
		pool.Weighted.ExitFeeBps = params.ExitFeeBps
		return pool, nil
	case InitKindStable:
		return NewStablePool(id, infos, params.InitialAmp, scalingFactors, precisions, fee, now)
	default:
		return Pool{}, dexerrors.ErrInvalidNumberOfAssets
	}
}

// UpdateOp tags which UpdateParams variant is carried: StartAmpRamp,
// StopAmpRamp, SetScalingFactor, SetScalingFactorManager, and SetFee (the
// §3 "fee_bps ... mutable by owner" operation). There is no max-spread
// variant.
type UpdateOp uint8

const (
	OpStartAmpRamp UpdateOp = iota
	OpStopAmpRamp
	OpSetScalingFactor
	OpSetScalingFactorManager
	OpSetFee
)

// UpdateParams is the closed sum type backing ExecUpdateConfig. Only the
// fields relevant to Op are meaningful.
type UpdateParams struct {
	Op UpdateOp

	// OpStartAmpRamp
	NextAmp     int64
	RampEndTime int64

	// OpSetScalingFactor
	Asset         assets.Info
	ScalingFactor fixedpoint.Dec

	// OpSetScalingFactorManager
	Manager string

	// OpSetFee
	FeeBps      uint32
	ProtocolBps uint32
}

// ExecUpdateConfig dispatches one UpdateParams operation against the
// pool, per spec §6's ExecUpdateConfig entry point. Callers are expected
// to have already checked collab.VaultConfig.OwnerOf against the caller
// identity — spec §6 calls ExecUpdateConfig "Owner-gated" at the
// dispatcher level, and this package stays free of the collab boundary
// (see DESIGN.md's orchestration/collaborator Open Question) so the
// owner check happens once, outside the pure state-transition function.
func (p *Pool) ExecUpdateConfig(op UpdateParams, now int64) error {
	switch op.Op {
	case OpStartAmpRamp:
		if p.Kind != KindStable {
			return dexerrors.ErrInvalidAmp
		}
		ramped, err := p.Stable.Amp.StartRamp(op.NextAmp, op.RampEndTime, now)
		if err != nil {
			return err
		}
		p.Stable.Amp = ramped
		p.log("amp ramp started", "pool_id", p.ID, "next_amp", op.NextAmp, "end_time", op.RampEndTime)
		return nil

	case OpStopAmpRamp:
		if p.Kind != KindStable {
			return dexerrors.ErrInvalidAmp
		}
		p.Stable.Amp = p.Stable.Amp.StopRamp(now)
		p.log("amp ramp stopped", "pool_id", p.ID, "amp", p.Stable.Amp.InitAmp)
		return nil

	case OpSetScalingFactor:
		if p.Kind != KindStable {
			return dexerrors.ErrScalingFactorUpdateNotSupported
		}
		if !p.Stable.SupportsScalingFactorUpdate {
			return dexerrors.ErrScalingFactorUpdateNotSupported
		}
		if p.Stable.ScalingFactorManager == "" {
			return dexerrors.ErrScalingFactorManagerNotSpecified
		}
		if op.ScalingFactor.IsZero() {
			return dexerrors.ErrInvalidScalingFactor
		}
		idx := p.indexOf(op.Asset)
		if idx < 0 {
			return dexerrors.ErrInvalidScalingFactor
		}
		p.ScalingFactors[idx] = op.ScalingFactor
		p.log("scaling factor updated", "pool_id", p.ID, "asset", op.Asset.Normalized())
		return nil

	case OpSetScalingFactorManager:
		if p.Kind != KindStable {
			return dexerrors.ErrScalingFactorUpdateNotSupported
		}
		p.Stable.ScalingFactorManager = op.Manager
		p.log("scaling factor manager set", "pool_id", p.ID, "manager", op.Manager)
		return nil

	case OpSetFee:
		fee := feemodel.Config{TotalFeeBps: op.FeeBps, ProtocolBps: op.ProtocolBps}
		if err := fee.Validate(); err != nil {
			return err
		}
		p.Fee = fee
		p.log("fee updated", "pool_id", p.ID, "fee_bps", op.FeeBps, "protocol_bps", op.ProtocolBps)
		return nil

	default:
		return dexerrors.ErrInvalidNumberOfAssets
	}
}
