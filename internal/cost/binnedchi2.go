package cost

import (
	"fmt"
	"math"
)

// MinBinError is the smallest per-bin error estimate a binned chi-square will
// accept. A bin below it carries too few effective counts for the Gaussian
// approximation behind the chi-square to hold.
const MinBinError = 1e-10

// BinErrorError reports a bin whose error estimate cannot support a
// chi-square comparison. The caller must widen the bins or narrow the bound.
type BinErrorError struct {
	Bin int     // index of the offending bin
	Err float64 // its computed error estimate
}

func (e *BinErrorError) Error() string {
	return fmt.Sprintf("binnedchi2: bin %d has error estimate %g below %g; use fewer bins or a narrower bound", e.Bin, e.Err, MinBinError)
}

// Is reports whether target is a BinErrorError, so callers can branch with
// errors.Is without matching fields.
func (e *BinErrorError) Is(target error) bool {
	_, ok := target.(*BinErrorError)
	return ok
}

// BinnedChi2Config configures a BinnedChi2 estimator.
type BinnedChi2Config struct {
	// Bins is the number of uniform bins. Zero selects DefaultBins.
	Bins int

	// Weights are optional per-observation weights; nil means uniform 1.
	Weights []float64

	// Bound restricts the histogram range. Nil uses the observed data
	// minimum and maximum.
	Bound *Range

	// SumW2 estimates each bin's error as sqrt of the bin's squared-weight
	// sum instead of the Poisson sqrt of its occupancy.
	SumW2 bool
}

// DefaultBinnedChi2Config returns the default BinnedChi2 configuration.
func DefaultBinnedChi2Config() BinnedChi2Config {
	return BinnedChi2Config{Bins: DefaultBins}
}

// BinnedChi2 is a chi-square of a histogram against a parametric model
// evaluated at each bin midpoint: sum over bins of ((h - E)/err)^2 with
// E = model(midpoint)*width*Total. Per-bin errors are fixed by the data at
// construction, so an empty or near-empty bin is rejected up front rather
// than dividing by zero on every call.
type BinnedChi2 struct {
	model Model
	hist  *Histogram
	errs  []float64
	dof   int
	last  []float64
}

// NewBinnedChi2 builds the histogram and per-bin errors once from data.
// Returns a *BinErrorError if any bin's error estimate is below MinBinError.
func NewBinnedChi2(model Model, data []float64, cfg BinnedChi2Config) (*BinnedChi2, error) {
	if model.Fn == nil {
		return nil, fmt.Errorf("binnedchi2: model function is nil")
	}
	bins := cfg.Bins
	if bins == 0 {
		bins = DefaultBins
	}
	hist, err := NewHistogram(data, cfg.Weights, bins, cfg.Bound)
	if err != nil {
		return nil, fmt.Errorf("binnedchi2: %w", err)
	}
	errs := make([]float64, hist.Bins())
	for i := range errs {
		if cfg.SumW2 {
			errs[i] = math.Sqrt(hist.SumW2[i])
		} else {
			errs[i] = math.Sqrt(hist.Content[i])
		}
		if errs[i] < MinBinError {
			return nil, &BinErrorError{Bin: i, Err: errs[i]}
		}
	}
	return &BinnedChi2{
		model: model,
		hist:  hist,
		errs:  errs,
		dof:   hist.Bins() - 1 - model.NumParams(),
	}, nil
}

// Eval returns the chi-square at params. It reads only immutable state and is
// safe for concurrent callers.
func (b *BinnedChi2) Eval(params []float64) float64 {
	var acc Accumulator
	h := b.hist
	for i := range h.Content {
		e := b.model.Fn(h.Midpoints[i], params) * h.Widths[i] * h.Total
		r := (h.Content[i] - e) / b.errs[i]
		acc.Add(r * r)
	}
	return acc.Sum()
}

// Cost evaluates like Eval and records params as the last parameter vector
// for reporting. Single-writer; concurrent minimizer threads must use Eval.
func (b *BinnedChi2) Cost(params []float64) float64 {
	c := b.Eval(params)
	b.last = append(b.last[:0], params...)
	return c
}

// LastParams returns a copy of the parameter vector from the most recent
// Cost call, or nil if Cost has not been called yet.
func (b *BinnedChi2) LastParams() []float64 {
	if b.last == nil {
		return nil
	}
	return append([]float64(nil), b.last...)
}

// DoF returns bin count minus one minus the number of fit parameters.
func (b *BinnedChi2) DoF() int {
	return b.dof
}

// Model returns the model this estimator evaluates.
func (b *BinnedChi2) Model() Model {
	return b.model
}

// Histogram returns the precomputed histogram. Callers must treat it as
// read-only.
func (b *BinnedChi2) Histogram() *Histogram {
	return b.hist
}

// BinErrors returns the per-bin error estimates fixed at construction.
// Callers must treat the slice as read-only.
func (b *BinnedChi2) BinErrors() []float64 {
	return b.errs
}
