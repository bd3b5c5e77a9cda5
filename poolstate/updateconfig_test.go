package poolstate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dexter-zone/dexter-core/amp"
	"github.com/dexter-zone/dexter-core/poolstate"
)

// TestExecUpdateConfigAmpRamp matches spec §8 Scenario S3's ramp setup,
// driven through the tagged-union ExecUpdateConfig entry point instead
// of calling amp.State.StartRamp directly.
func TestExecUpdateConfigAmpRamp(t *testing.T) {
	pool := threeAssetStablePool(t)
	const T = int64(1_700_000_000)

	err := pool.ExecUpdateConfig(poolstate.UpdateParams{
		Op:          poolstate.OpStartAmpRamp,
		NextAmp:     25 * amp.Precision,
		RampEndTime: T + amp.MinAmpChangingTime*2,
	}, T+amp.MinAmpChangingTime)
	require.NoError(t, err)

	mid := pool.Stable.Amp.CurrentAmp(T + amp.MinAmpChangingTime + amp.MinAmpChangingTime)
	require.Equal(t, int64(25*amp.Precision), mid)

	err = pool.ExecUpdateConfig(poolstate.UpdateParams{Op: poolstate.OpStopAmpRamp}, T+amp.MinAmpChangingTime*3)
	require.NoError(t, err)
	require.True(t, pool.Stable.Amp.AtRest())
}

func TestExecUpdateConfigRejectsAmpOpsOnWeightedPool(t *testing.T) {
	pool := weightedPool(t)
	err := pool.ExecUpdateConfig(poolstate.UpdateParams{Op: poolstate.OpStartAmpRamp, NextAmp: 100}, 1_700_000_000)
	require.ErrorContains(t, err, "amp")
}

func TestExecUpdateConfigSetScalingFactorRequiresManager(t *testing.T) {
	pool := threeAssetStablePool(t)
	pool.Stable.SupportsScalingFactorUpdate = true

	err := pool.ExecUpdateConfig(poolstate.UpdateParams{
		Op:            poolstate.OpSetScalingFactor,
		Asset:         atom,
		ScalingFactor: scale,
	}, 1_700_000_000)
	require.ErrorContains(t, err, "manager")

	err = pool.ExecUpdateConfig(poolstate.UpdateParams{
		Op:      poolstate.OpSetScalingFactorManager,
		Manager: "dex1manager",
	}, 1_700_000_000)
	require.NoError(t, err)

	err = pool.ExecUpdateConfig(poolstate.UpdateParams{
		Op:            poolstate.OpSetScalingFactor,
		Asset:         atom,
		ScalingFactor: scale,
	}, 1_700_000_000)
	require.NoError(t, err)
}

func TestExecUpdateConfigSetFeeValidatesBps(t *testing.T) {
	pool := threeAssetStablePool(t)

	err := pool.ExecUpdateConfig(poolstate.UpdateParams{Op: poolstate.OpSetFee, FeeBps: 20_000}, 1_700_000_000)
	require.Error(t, err)

	err = pool.ExecUpdateConfig(poolstate.UpdateParams{Op: poolstate.OpSetFee, FeeBps: 50, ProtocolBps: 10}, 1_700_000_000)
	require.NoError(t, err)
	require.Equal(t, uint32(50), pool.Fee.TotalFeeBps)
}
