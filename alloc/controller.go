// Package alloc implements spec §4.10's AllocController: governance
// control over which pools receive emissions and in what proportion,
// plus the SUPPLEMENTED FEATURES #2 emission-multiplier schedule read
// from original_source's tokenomics vesting/generator contracts (which
// ramp emissions down over time rather than holding tokens_per_block
// constant forever). Grounded on the teacher's Params-subspace style of
// small validate-then-mutate setters.
package alloc

import (
	"sort"

	"github.com/dexter-zone/dexter-core/dexerrors"
	"github.com/dexter-zone/dexter-core/fixedpoint"
	"github.com/dexter-zone/dexter-core/reward"
)

// PoolAlloc is one pool's allocation-point record. Deactivated pools keep
// their record (so already-accrued, unclaimed rewards remain claimable)
// but contribute zero to emissions going forward.
type PoolAlloc struct {
	PoolID     uint64
	AllocPoint int64
	Active     bool
}

// Controller tracks every pool's allocation point and the live total used
// by reward.PoolUpdate's allocShare calculation.
type Controller struct {
	Pools           map[uint64]*PoolAlloc
	TotalAllocPoint int64
}

// NewController returns an empty allocation controller.
func NewController() Controller {
	return Controller{Pools: make(map[uint64]*PoolAlloc)}
}

// SetPools implements spec §4.10 set_pools: creates or updates a pool's
// allocation point, keeping TotalAllocPoint in sync. Per the invariant in
// §3 (TotalAllocPoint == sum of active pools' AllocPoint), deactivated
// pools are excluded from the recount until reactivated by a later
// SetPools call with Active left true.
func (c *Controller) SetPools(poolID uint64, allocPoint int64) error {
	if allocPoint < 0 {
		return dexerrors.ErrInvalidNumberOfAssets
	}
	existing, ok := c.Pools[poolID]
	if !ok {
		c.Pools[poolID] = &PoolAlloc{PoolID: poolID, AllocPoint: allocPoint, Active: true}
		c.TotalAllocPoint += allocPoint
		return nil
	}
	if existing.Active {
		c.TotalAllocPoint -= existing.AllocPoint
	}
	existing.AllocPoint = allocPoint
	existing.Active = true
	c.TotalAllocPoint += allocPoint
	return nil
}

// Deactivate implements spec §4.10 deactivate: removes a pool's
// allocation point from the live total without erasing its record. A
// caller must run reward.PoolUpdate for this pool one final time before
// calling Deactivate so no pending emission is lost at the moment of
// deactivation.
func (c *Controller) Deactivate(poolID uint64) error {
	p, ok := c.Pools[poolID]
	if !ok {
		return dexerrors.ErrPoolDoesNotExist
	}
	if !p.Active {
		return nil
	}
	c.TotalAllocPoint -= p.AllocPoint
	p.Active = false
	return nil
}

// SetTokensPerBlock implements spec §4.10 set_tokens_per_block: updates
// the global emission rate consumed by reward.PoolUpdate.
func SetTokensPerBlock(global *reward.Global, newRate fixedpoint.Dec) error {
	if newRate.IsZero() {
		global.TokensPerBlock = fixedpoint.Zero
		return nil
	}
	global.TokensPerBlock = newRate
	return nil
}

// PoolAllocInput is one entry of the list spec §4.10's set_pools takes:
// (pool_id, alloc_points).
type PoolAllocInput struct {
	PoolID     uint64
	AllocPoint int64
}

// ReplaceActivePools implements spec §4.10 set_pools's literal list
// contract: the caller supplies the complete new active set in one call.
// Before overwriting, massUpdate is invoked against every pool that was
// previously active (so the old allocation weights still apply up to
// this boundary block, per §4.10's state-machine-boundary note); any
// pool named in pools that isn't tracked yet is reported to
// ensureTracked so the caller can create its reward.PoolRewardState.
// TotalAllocPoint and the active set are recomputed from pools,
// replacing whatever was active before.
func (c *Controller) ReplaceActivePools(pools []PoolAllocInput, massUpdate func(previouslyActive []uint64) error, ensureTracked func(poolID uint64)) error {
	seen := make(map[uint64]bool, len(pools))
	for _, p := range pools {
		if seen[p.PoolID] {
			return dexerrors.ErrPoolDuplicate
		}
		seen[p.PoolID] = true
		if p.AllocPoint < 0 {
			return dexerrors.ErrInvalidNumberOfAssets
		}
	}

	var previouslyActive []uint64
	for id, p := range c.Pools {
		if p.Active {
			previouslyActive = append(previouslyActive, id)
		}
	}
	if massUpdate != nil {
		if err := massUpdate(previouslyActive); err != nil {
			return err
		}
	}

	for _, p := range c.Pools {
		p.Active = false
	}

	total := int64(0)
	for _, input := range pools {
		existing, ok := c.Pools[input.PoolID]
		if !ok {
			if ensureTracked != nil {
				ensureTracked(input.PoolID)
			}
			existing = &PoolAlloc{PoolID: input.PoolID}
			c.Pools[input.PoolID] = existing
		}
		existing.AllocPoint = input.AllocPoint
		existing.Active = true
		total += input.AllocPoint
	}
	c.TotalAllocPoint = total
	return nil
}

// ActivePoolIDs returns the currently active pool ids in ascending order,
// spec §3's GlobalReward.active_pool_set.
func (c *Controller) ActivePoolIDs() []uint64 {
	ids := make([]uint64, 0, len(c.Pools))
	for id, p := range c.Pools {
		if p.Active {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ScheduleEntry is one emission-multiplier step, grounded on
// original_source's tokenomics contracts ramping emissions down at fixed
// block heights rather than holding a flat rate forever.
type ScheduleEntry struct {
	StartBlock int64
	Multiplier fixedpoint.Dec
}

// EmissionSchedule is an ascending sequence of ScheduleEntry; the
// multiplier in effect at a given block is the latest entry whose
// StartBlock has been reached.
type EmissionSchedule struct {
	Entries []ScheduleEntry
}

// NewEmissionSchedule sorts entries by StartBlock and returns the
// schedule; the caller is responsible for ensuring no two entries share a
// StartBlock.
func NewEmissionSchedule(entries []ScheduleEntry) EmissionSchedule {
	sorted := append([]ScheduleEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartBlock < sorted[j].StartBlock })
	return EmissionSchedule{Entries: sorted}
}

// MultiplierAt returns the multiplier in effect at currentBlock, or One
// if currentBlock precedes every entry (i.e. the schedule has not started
// ramping yet).
func (s EmissionSchedule) MultiplierAt(currentBlock int64) fixedpoint.Dec {
	result := fixedpoint.One
	for _, e := range s.Entries {
		if e.StartBlock > currentBlock {
			break
		}
		result = e.Multiplier
	}
	return result
}

// ApplySchedule implements the SUPPLEMENTED FEATURES #2 emission
// multiplier: brings global.EmissionMultiplier current to currentBlock
// per the schedule, for the caller to invoke once per block (or lazily,
// right before reward.MassUpdate) alongside mass-updating every pool.
func ApplySchedule(global *reward.Global, schedule EmissionSchedule, currentBlock int64) {
	global.EmissionMultiplier = schedule.MultiplierAt(currentBlock)
}
