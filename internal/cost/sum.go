package cost

import "math"

// Accumulator is a Kahan-Neumaier compensated summation accumulator. Over
// large sample counts a naive running sum accumulates enough rounding error
// to mask small parameter-driven changes in the cost; the compensated form
// keeps the error bounded independent of the number of terms. The zero value
// is ready to use.
type Accumulator struct {
	sum  float64
	comp float64
}

// Add folds x into the running total.
func (a *Accumulator) Add(x float64) {
	t := a.sum + x
	if math.Abs(a.sum) >= math.Abs(x) {
		a.comp += (a.sum - t) + x
	} else {
		a.comp += (x - t) + a.sum
	}
	a.sum = t
}

// Sum returns the compensated total.
func (a *Accumulator) Sum() float64 {
	return a.sum + a.comp
}

// Sum returns the compensated sum of xs. An empty or nil slice sums to 0.
func Sum(xs []float64) float64 {
	var acc Accumulator
	for _, x := range xs {
		acc.Add(x)
	}
	return acc.Sum()
}
