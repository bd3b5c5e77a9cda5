package feemodel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dexter-zone/dexter-core/feemodel"
	"github.com/dexter-zone/dexter-core/fixedpoint"
)

func dec(t *testing.T, s string) fixedpoint.Dec {
	t.Helper()
	d, err := fixedpoint.FromString(s)
	require.NoError(t, err)
	return d
}

func TestSplitFee(t *testing.T) {
	underlying := dec(t, "1000")
	cfg := feemodel.Config{TotalFeeBps: 300, ProtocolBps: 100}
	split, err := feemodel.SplitFee(underlying, cfg)
	require.NoError(t, err)
	require.Equal(t, "10.000000000000000000", split.Protocol.String())
	require.Equal(t, "20.000000000000000000", split.LP.String())
}

func TestSplitFeeRejectsInvalidConfig(t *testing.T) {
	_, err := feemodel.SplitFee(dec(t, "1"), feemodel.Config{TotalFeeBps: 10_001})
	require.Error(t, err)

	_, err = feemodel.SplitFee(dec(t, "1"), feemodel.Config{TotalFeeBps: 100, ProtocolBps: 200})
	require.Error(t, err)
}

func TestImbalanceMultiplier(t *testing.T) {
	// n=3: 3/(4*2) = 0.375
	m, err := feemodel.ImbalanceMultiplier(3)
	require.NoError(t, err)
	require.Equal(t, "0.375000000000000000", m.String())
}

func TestApplyFeeBps(t *testing.T) {
	out, err := feemodel.ApplyFeeBps(dec(t, "1000"), 300)
	require.NoError(t, err)
	require.Equal(t, "970.000000000000000000", out.String())
}
