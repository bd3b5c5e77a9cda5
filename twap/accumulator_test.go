package twap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dexter-zone/dexter-core/assets"
	"github.com/dexter-zone/dexter-core/fixedpoint"
	"github.com/dexter-zone/dexter-core/twap"
)

var (
	assetA = assets.NativeToken("axlusd")
	assetB = assets.NativeToken("t0")
)

func TestAdvanceAccumulatesAndIsMonotone(t *testing.T) {
	pair := twap.PairKey{Offer: assetA, Ask: assetB}
	s := twap.NewState(1000, []twap.PairKey{pair})

	price := fixedpoint.FromInt64(2)
	spot := func(offer, ask assets.Info) (fixedpoint.Dec, bool) {
		return price, true
	}

	s.Advance(1010, spot)
	first, _ := s.Query(assetA, assetB)
	require.Equal(t, "20.000000000000000000", first.String())

	s.Advance(1030, spot)
	second, _ := s.Query(assetA, assetB)
	require.True(t, second.GT(first))
	require.Equal(t, int64(1030), s.LastBlockTime)
}

func TestAdvanceSkipsZeroBalancePairButAdvancesTime(t *testing.T) {
	pair := twap.PairKey{Offer: assetA, Ask: assetB}
	s := twap.NewState(1000, []twap.PairKey{pair})

	spot := func(offer, ask assets.Info) (fixedpoint.Dec, bool) {
		return fixedpoint.Zero, false
	}

	s.Advance(1500, spot)
	got, _ := s.Query(assetA, assetB)
	require.True(t, got.IsZero())
	require.Equal(t, int64(1500), s.LastBlockTime)
}

func TestTwapDifference(t *testing.T) {
	prev := fixedpoint.FromInt64(100)
	now := fixedpoint.FromInt64(300)
	avg, err := twap.Twap(prev, now, 1000, 1020)
	require.NoError(t, err)
	require.Equal(t, "10.000000000000000000", avg.String())
}
