package cost

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSumCompensatesCancellation(t *testing.T) {
	// A naive left-to-right sum loses the 1 entirely.
	require.Equal(t, 1.0, Sum([]float64{1e16, 1, -1e16}))
	require.Equal(t, 2.0, Sum([]float64{1, 1e100, 1, -1e100}))
}

func TestSumManySmallTerms(t *testing.T) {
	xs := make([]float64, 1_000_000)
	for i := range xs {
		xs[i] = 0.1
	}
	require.InDelta(t, 100000.0, Sum(xs), 1e-9)
}

func TestSumEmpty(t *testing.T) {
	require.Equal(t, 0.0, Sum(nil))
	require.Equal(t, 0.0, Sum([]float64{}))
}

func TestAccumulatorZeroValue(t *testing.T) {
	var acc Accumulator
	require.Equal(t, 0.0, acc.Sum())

	acc.Add(2.5)
	acc.Add(-1.0)
	require.Equal(t, 1.5, acc.Sum())
}

func TestAccumulatorMatchesSum(t *testing.T) {
	xs := []float64{3.1, -2.7, 1e9, -1e9, 0.4}
	var acc Accumulator
	for _, x := range xs {
		acc.Add(x)
	}
	require.Equal(t, Sum(xs), acc.Sum())
}
