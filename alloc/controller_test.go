package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dexter-zone/dexter-core/alloc"
	"github.com/dexter-zone/dexter-core/fixedpoint"
	"github.com/dexter-zone/dexter-core/reward"
)

func TestSetPoolsTracksTotalAllocPoint(t *testing.T) {
	c := alloc.NewController()
	require.NoError(t, c.SetPools(1, 40))
	require.NoError(t, c.SetPools(2, 60))
	require.Equal(t, int64(100), c.TotalAllocPoint)

	require.NoError(t, c.SetPools(1, 10))
	require.Equal(t, int64(70), c.TotalAllocPoint)
}

func TestDeactivateRemovesFromTotalButKeepsRecord(t *testing.T) {
	c := alloc.NewController()
	require.NoError(t, c.SetPools(1, 40))
	require.NoError(t, c.SetPools(2, 60))

	require.NoError(t, c.Deactivate(1))
	require.Equal(t, int64(60), c.TotalAllocPoint)
	require.False(t, c.Pools[1].Active)
	require.Equal(t, int64(40), c.Pools[1].AllocPoint)
}

func TestDeactivateUnknownPool(t *testing.T) {
	c := alloc.NewController()
	require.Error(t, c.Deactivate(99))
}

func TestReplaceActivePoolsRejectsDuplicates(t *testing.T) {
	c := alloc.NewController()
	err := c.ReplaceActivePools([]alloc.PoolAllocInput{{PoolID: 1, AllocPoint: 10}, {PoolID: 1, AllocPoint: 20}}, nil, nil)
	require.Error(t, err)
}

func TestReplaceActivePoolsRunsMassUpdateOnPreviouslyActiveFirst(t *testing.T) {
	c := alloc.NewController()
	require.NoError(t, c.SetPools(1, 40))
	require.NoError(t, c.SetPools(2, 60))

	var massUpdatedWith []uint64
	err := c.ReplaceActivePools([]alloc.PoolAllocInput{{PoolID: 2, AllocPoint: 100}, {PoolID: 3, AllocPoint: 50}},
		func(previouslyActive []uint64) error {
			massUpdatedWith = append(massUpdatedWith, previouslyActive...)
			return nil
		},
		nil,
	)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint64{1, 2}, massUpdatedWith)
	require.Equal(t, int64(150), c.TotalAllocPoint)
	require.ElementsMatch(t, []uint64{2, 3}, c.ActivePoolIDs())
	require.False(t, c.Pools[1].Active)
}

func TestEmissionScheduleStepsDownAtBoundaries(t *testing.T) {
	half, _ := fixedpoint.FromString("0.5")
	schedule := alloc.NewEmissionSchedule([]alloc.ScheduleEntry{
		{StartBlock: 2000, Multiplier: half},
		{StartBlock: 1000, Multiplier: fixedpoint.One},
	})

	require.Equal(t, fixedpoint.One, schedule.MultiplierAt(500))
	require.Equal(t, fixedpoint.One, schedule.MultiplierAt(1500))
	require.Equal(t, half, schedule.MultiplierAt(2500))
}

func TestApplyScheduleUpdatesGlobal(t *testing.T) {
	half, _ := fixedpoint.FromString("0.5")
	schedule := alloc.NewEmissionSchedule([]alloc.ScheduleEntry{{StartBlock: 100, Multiplier: half}})
	global := reward.Global{EmissionMultiplier: fixedpoint.One}

	alloc.ApplySchedule(&global, schedule, 150)
	require.Equal(t, half, global.EmissionMultiplier)
}
