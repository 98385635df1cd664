package cost

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/vec"
)

// Range is a closed interval of the independent variable.
type Range struct {
	Min float64
	Max float64
}

// Histogram holds the per-bin sums a binned estimator needs. It is computed
// once at construction and reused, read-only, on every evaluation.
//
// Bin membership: the first bin is closed on both sides and every later bin
// is left-open, right-closed, so an observation sitting on an interior edge
// belongs to the bin on its left and the upper bound itself is counted.
type Histogram struct {
	Edges     []float64 // bin edges, length Bins()+1, strictly increasing
	Content   []float64 // sum of observation weights per bin
	SumW2     []float64 // sum of squared observation weights per bin
	Midpoints []float64
	Widths    []float64
	Total     float64 // sum over Content
}

// NewHistogram bins data into the given number of uniform bins over bound.
// A nil bound uses the observed data minimum and maximum. Observations
// outside the bound are ignored. weights may be nil for uniform weight 1;
// otherwise it must parallel data and be non-negative.
func NewHistogram(data, weights []float64, bins int, bound *Range) (*Histogram, error) {
	if bins < 1 {
		return nil, fmt.Errorf("histogram: bin count must be positive, got %d", bins)
	}
	if weights != nil && len(weights) != len(data) {
		return nil, fmt.Errorf("histogram: weights length %d does not match data length %d", len(weights), len(data))
	}
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return nil, fmt.Errorf("histogram: weight %d is %v, want non-negative", i, w)
		}
	}

	var lo, hi float64
	if bound != nil {
		lo, hi = bound.Min, bound.Max
	} else {
		if len(data) == 0 {
			return nil, fmt.Errorf("histogram: cannot derive a bound from empty data")
		}
		lo, hi = data[0], data[0]
		for _, x := range data[1:] {
			if x < lo {
				lo = x
			}
			if x > hi {
				hi = x
			}
		}
	}
	if !(lo < hi) {
		return nil, fmt.Errorf("histogram: invalid bound [%v, %v]", lo, hi)
	}

	h := &Histogram{
		Edges:     vec.Linspace(lo, hi, bins+1),
		Content:   make([]float64, bins),
		SumW2:     make([]float64, bins),
		Midpoints: make([]float64, bins),
		Widths:    make([]float64, bins),
	}
	for i := 0; i < bins; i++ {
		h.Midpoints[i] = (h.Edges[i] + h.Edges[i+1]) / 2
		h.Widths[i] = h.Edges[i+1] - h.Edges[i]
	}

	width := (hi - lo) / float64(bins)
	for i, x := range data {
		if x < lo || x > hi || math.IsNaN(x) {
			continue
		}
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		idx := binIndex(x, lo, width, bins)
		h.Content[idx] += w
		h.SumW2[idx] += w * w
	}
	h.Total = Sum(h.Content)
	return h, nil
}

// binIndex maps x in [lo, lo+width*bins] to its bin index. An x on an
// interior edge lands in the bin to its left; the lower bound lands in bin 0.
func binIndex(x, lo, width float64, bins int) int {
	idx := int(math.Ceil((x-lo)/width)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > bins-1 {
		idx = bins - 1
	}
	return idx
}

// Bins returns the number of bins.
func (h *Histogram) Bins() int {
	return len(h.Content)
}

// Bound returns the histogram's lower and upper bound.
func (h *Histogram) Bound() Range {
	return Range{Min: h.Edges[0], Max: h.Edges[len(h.Edges)-1]}
}
