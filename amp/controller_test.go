package amp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dexter-zone/dexter-core/amp"
)

func TestCurrentAmpInterpolation(t *testing.T) {
	const T = int64(1_700_000_000)
	s := amp.State{
		InitAmp:     10 * amp.Precision,
		NextAmp:     25 * amp.Precision,
		InitAmpTime: T,
		NextAmpTime: T + 86_400,
	}

	mid := s.CurrentAmp(T + 43_200)
	require.InDelta(t, 17*amp.Precision+amp.Precision/2, mid, 1)

	require.Equal(t, s.InitAmp, s.CurrentAmp(T))
	require.Equal(t, s.NextAmp, s.CurrentAmp(T+86_400))
	require.Equal(t, s.NextAmp, s.CurrentAmp(T+200_000))
}

func TestStartRampValidation(t *testing.T) {
	const T = int64(1_700_000_000)
	s := amp.NewAtRest(10*amp.Precision, T)

	_, err := s.StartRamp(0, T+100_000, T+amp.MinAmpChangingTime)
	require.ErrorContains(t, err, "invalid amp")

	_, err = s.StartRamp(1000*amp.Precision, T+amp.MinAmpChangingTime*2, T+amp.MinAmpChangingTime)
	require.ErrorContains(t, err, "excessive")

	_, err = s.StartRamp(25*amp.Precision, T+1, T+1)
	require.ErrorContains(t, err, "too soon")

	ramped, err := s.StartRamp(25*amp.Precision, T+amp.MinAmpChangingTime*2, T+amp.MinAmpChangingTime)
	require.NoError(t, err)
	require.Equal(t, int64(25*amp.Precision), ramped.NextAmp)
}

func TestStopRampFreezes(t *testing.T) {
	const T = int64(1_700_000_000)
	s := amp.State{
		InitAmp:     10 * amp.Precision,
		NextAmp:     25 * amp.Precision,
		InitAmpTime: T,
		NextAmpTime: T + 86_400,
	}
	stopped := s.StopRamp(T + 86_400)
	require.True(t, stopped.AtRest())
	require.Equal(t, int64(25*amp.Precision), stopped.InitAmp)
}
