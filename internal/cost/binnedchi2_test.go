package cost

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBinnedChi2ExactFitIsZero(t *testing.T) {
	model := Model{Fn: uniformDensity(1, 3)}
	b, err := NewBinnedChi2(model, []float64{1, 2, 2, 3, 3, 3}, BinnedChi2Config{
		Bins:  2,
		Bound: &Range{Min: 1, Max: 3},
	})
	require.NoError(t, err)

	// E = 0.5*1*6 = 3 in both bins, matching the occupancies.
	require.InDelta(t, 0, b.Cost(nil), 1e-12)
}

func TestBinnedChi2KnownValue(t *testing.T) {
	// Density 0.4 gives E = 2.4 per bin against h = 3 with err = sqrt(3):
	// each bin contributes 0.36/3, total 0.24.
	model := Model{Fn: func(x float64, params []float64) float64 { return 0.4 }}
	b, err := NewBinnedChi2(model, []float64{1, 2, 2, 3, 3, 3}, BinnedChi2Config{
		Bins:  2,
		Bound: &Range{Min: 1, Max: 3},
	})
	require.NoError(t, err)
	require.InDelta(t, 0.24, b.Eval(nil), 1e-12)
}

func TestBinnedChi2EmptyBinFailsConstruction(t *testing.T) {
	model := Model{Fn: uniformDensity(0, 4)}
	_, err := NewBinnedChi2(model, []float64{0.5, 3.5}, BinnedChi2Config{
		Bins:  4,
		Bound: &Range{Min: 0, Max: 4},
	})
	require.Error(t, err)
	require.ErrorIs(t, err, &BinErrorError{})

	var binErr *BinErrorError
	require.ErrorAs(t, err, &binErr)
	require.Equal(t, 1, binErr.Bin) // first empty bin
	require.Equal(t, 0.0, binErr.Err)
}

func TestBinnedChi2SumW2Errors(t *testing.T) {
	// Weight 2 everywhere: h = 6 per bin, sumw2 = 12, E = 0.5*1*12 = 6.
	model := Model{Fn: uniformDensity(1, 3)}
	b, err := NewBinnedChi2(model, []float64{1, 2, 2, 3, 3, 3}, BinnedChi2Config{
		Bins:    2,
		Bound:   &Range{Min: 1, Max: 3},
		Weights: []float64{2, 2, 2, 2, 2, 2},
		SumW2:   true,
	})
	require.NoError(t, err)

	errs := b.BinErrors()
	require.InDelta(t, 3.4641016151377544, errs[0], 1e-12) // sqrt(12)
	require.InDelta(t, 0, b.Eval(nil), 1e-12)
}

func TestBinnedChi2MidpointEvaluation(t *testing.T) {
	// The model is sampled at bin midpoints, not edge-averaged: a linear
	// density evaluated at 1.5 and 2.5.
	tri := Model{Fn: func(x float64, params []float64) float64 { return (x - 1) / 2 }}
	b, err := NewBinnedChi2(tri, []float64{1, 2, 2, 3, 3, 3}, BinnedChi2Config{
		Bins:  2,
		Bound: &Range{Min: 1, Max: 3},
	})
	require.NoError(t, err)

	// E1 = 0.25*1*6 = 1.5, E2 = 0.75*1*6 = 4.5; err = sqrt(3) per bin.
	want := (3-1.5)*(3-1.5)/3 + (3-4.5)*(3-4.5)/3
	require.InDelta(t, want, b.Eval(nil), 1e-12)
}

func TestBinnedChi2Defaults(t *testing.T) {
	data := make([]float64, 400)
	for i := range data {
		data[i] = float64(i % 40)
	}
	b, err := NewBinnedChi2(Model{Fn: uniformDensity(0, 39), ParamNames: []string{"a"}}, data, BinnedChi2Config{})
	require.NoError(t, err)
	require.Equal(t, DefaultBins, b.Histogram().Bins())
	require.Equal(t, DefaultBins-1-1, b.DoF())
}

func TestBinnedChi2Determinism(t *testing.T) {
	model := Model{Fn: uniformDensity(1, 3)}
	data := []float64{1, 2, 2, 3, 3, 3}
	cfg := BinnedChi2Config{Bins: 2, Bound: &Range{Min: 1, Max: 3}}

	b1, err := NewBinnedChi2(model, data, cfg)
	require.NoError(t, err)
	b2, err := NewBinnedChi2(model, data, cfg)
	require.NoError(t, err)

	require.Equal(t, b1.Histogram().Edges, b2.Histogram().Edges)
	require.Equal(t, b1.Histogram().Content, b2.Histogram().Content)
	require.Equal(t, b1.Histogram().SumW2, b2.Histogram().SumW2)
	require.Equal(t, b1.BinErrors(), b2.BinErrors())
	require.Equal(t, b1.Eval(nil), b2.Eval(nil))
}

func TestBinnedChi2IsUnaffectedByWrapping(t *testing.T) {
	model := Model{Fn: uniformDensity(0, 4)}
	_, err := NewBinnedChi2(model, []float64{0.5, 3.5}, BinnedChi2Config{
		Bins:  4,
		Bound: &Range{Min: 0, Max: 4},
	})
	require.False(t, errors.Is(err, errors.New("other")))
	require.True(t, errors.Is(err, &BinErrorError{}))
}
