package replyaction_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dexter-zone/dexter-core/fixedpoint"
	"github.com/dexter-zone/dexter-core/replyaction"
)

func TestSetRefusesSecondWriteUntilConsumed(t *testing.T) {
	var slot replyaction.Slot

	err := slot.Set(replyaction.Action{
		Kind:   replyaction.KindDeposit,
		PoolID: 7,
		User:   "dex1user",
		Amount: fixedpoint.FromInt64(100),
	})
	require.NoError(t, err)
	require.True(t, slot.Pending())

	err = slot.Set(replyaction.Action{Kind: replyaction.KindUnstake})
	require.ErrorContains(t, err, "repetitive reply")

	action, ok := slot.Consume()
	require.True(t, ok)
	require.Equal(t, replyaction.KindDeposit, action.Kind)
	require.Equal(t, uint64(7), action.PoolID)
	require.False(t, slot.Pending())

	// Consuming an empty slot is a no-op, matching the source's
	// `None => Ok(Response::default())` reply-with-nothing-pending case.
	_, ok = slot.Consume()
	require.False(t, ok)

	// A fresh write now succeeds.
	require.NoError(t, slot.Set(replyaction.Action{Kind: replyaction.KindClaimRewards, PoolIDs: []uint64{1, 2}}))
}

func TestClearDiscardsPendingAction(t *testing.T) {
	var slot replyaction.Slot
	require.NoError(t, slot.Set(replyaction.Action{Kind: replyaction.KindSetTokensPerBlock, Amount: fixedpoint.FromInt64(5)}))

	slot.Clear()
	require.False(t, slot.Pending())

	_, ok := slot.Consume()
	require.False(t, ok)
}
