// Package replyaction implements the `tmp_action` descriptor and
// single-slot lifecycle described in spec §5 and §9's "Cyclic reply /
// multi-step transactions" note. Grounded on
// original_source/contracts/generator/src/contract.rs's
// TMP_USER_ACTION field and update_rewards_and_execute/reply/
// process_after_update trio: a multi-step operation (one that must
// mass-update reward accounting via a deferred submessage before it can
// run) stores the deferred continuation in a single named slot, refuses
// a second write while one is pending ("Repetitive reply definition!",
// reimplemented here as dexerrors.ErrRepetitiveReply), and the reply
// handler loads-then-clears it before dispatching. Re-modeled as a Go
// tagged union (Kind + payload fields) instead of an opaque reply ID per
// SPEC_FULL's "Dynamic params as tagged variants" note — no Binary blob
// crosses this boundary.
package replyaction

import (
	"github.com/dexter-zone/dexter-core/dexerrors"
	"github.com/dexter-zone/dexter-core/fixedpoint"
)

// Kind tags which deferred continuation an Action carries.
type Kind uint8

const (
	// KindClaimRewards resumes reward.ClaimRewards across PoolIDs for
	// User once the pools named have been mass-updated.
	KindClaimRewards Kind = iota
	// KindDeposit resumes reward.Deposit for User/PoolID/Amount.
	KindDeposit
	// KindUnstake resumes reward.Unstake for User/PoolID/Amount.
	KindUnstake
	// KindSetTokensPerBlock resumes alloc.SetTokensPerBlock with Amount
	// once the previously-active pool set has been mass-updated.
	KindSetTokensPerBlock
)

// Action is the tagged-variant continuation stored at the `tmp_action`
// key (spec §6's persisted-state layout) while a deferred effect (a
// proxy-reward refresh submessage, in the source) is outstanding.
// Exactly one field set is meaningful, selected by Kind.
type Action struct {
	Kind    Kind
	PoolID  uint64
	PoolIDs []uint64
	User    string
	Amount  fixedpoint.Dec
}

// Slot is the single named storage cell backing `tmp_action`. Its zero
// value is empty (no action pending), matching the source's
// `Option<ExecuteOnReply>` defaulting to None.
type Slot struct {
	pending *Action
}

// Set stores action as the pending continuation. It fails with
// dexerrors.ErrRepetitiveReply if a continuation is already pending —
// the direct reimplementation of the source's
// `TMP_USER_ACTION.update` closure, which errors rather than
// overwriting a still-outstanding entry.
func (s *Slot) Set(action Action) error {
	if s.pending != nil {
		return dexerrors.ErrRepetitiveReply
	}
	stored := action
	s.pending = &stored
	return nil
}

// Pending reports whether a continuation is currently stored, without
// consuming it.
func (s *Slot) Pending() bool {
	return s.pending != nil
}

// Consume returns the stored continuation and clears the slot in one
// step, mirroring process_after_update's load-then-save(None) sequence.
// The second return value is false if nothing was pending, in which case
// the caller's reply is a no-op (source: `None => Ok(Response::default())`).
func (s *Slot) Consume() (Action, bool) {
	if s.pending == nil {
		return Action{}, false
	}
	action := *s.pending
	s.pending = nil
	return action, true
}

// Clear discards any pending continuation without returning it, for a
// host that aborts a multi-step operation before its deferred effect
// resolves.
func (s *Slot) Clear() {
	s.pending = nil
}
