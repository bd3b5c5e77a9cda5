package fixedpoint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dexter-zone/dexter-core/fixedpoint"
)

func mustDec(t *testing.T, s string) fixedpoint.Dec {
	t.Helper()
	d, err := fixedpoint.FromString(s)
	require.NoError(t, err)
	return d
}

func TestAddSub(t *testing.T) {
	a := mustDec(t, "10.5")
	b := mustDec(t, "2.25")

	sum, err := fixedpoint.Add(a, b)
	require.NoError(t, err)
	require.Equal(t, "12.750000000000000000", sum.String())

	diff, err := fixedpoint.Sub(a, b)
	require.NoError(t, err)
	require.Equal(t, "8.250000000000000000", diff.String())

	_, err = fixedpoint.Sub(b, a)
	require.ErrorContains(t, err, "underflow")
}

func TestMulDiv(t *testing.T) {
	a := mustDec(t, "3")
	b := mustDec(t, "4")

	prod, err := fixedpoint.Mul(a, b)
	require.NoError(t, err)
	require.Equal(t, "12.000000000000000000", prod.String())

	quot, err := fixedpoint.Div(a, b)
	require.NoError(t, err)
	require.Equal(t, "0.750000000000000000", quot.String())

	_, err = fixedpoint.Div(a, fixedpoint.Zero)
	require.ErrorContains(t, err, "division by zero")
}

func TestOverflow(t *testing.T) {
	_, err := fixedpoint.Add(fixedpoint.MaxDec, fixedpoint.One)
	require.ErrorContains(t, err, "overflow")
}

func TestMulRatio(t *testing.T) {
	a := mustDec(t, "100")
	num := mustDec(t, "3")
	den := mustDec(t, "7")

	got, err := fixedpoint.MulRatio(a, num, den)
	require.NoError(t, err)
	// 100*3/7 = 42.857142857142857142...
	require.True(t, got.LTE(mustDec(t, "42.857142857142857143")))
	require.True(t, got.GTE(mustDec(t, "42.857142857142857142")))
}

func TestPowIdentity(t *testing.T) {
	base := mustDec(t, "1.5")
	got, err := fixedpoint.Pow(base, fixedpoint.One)
	require.NoError(t, err)
	require.True(t, got.Equal(base) || (got.GT(mustDec(t, "1.499999")) && got.LT(mustDec(t, "1.500001"))))
}

func TestPowOutOfDomain(t *testing.T) {
	_, err := fixedpoint.Pow(mustDec(t, "3"), fixedpoint.One)
	require.ErrorContains(t, err, "domain")
}
