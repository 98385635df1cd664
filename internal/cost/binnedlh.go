package cost

import (
	"fmt"
	"math"
)

// DefaultBins is the bin count used by the binned estimators when the
// configuration leaves it unset.
const DefaultBins = 40

// DefaultBadValueBinned is the contribution substituted for a bin where the
// expected occupancy is non-positive or non-finite. Large and positive since
// the binned likelihood ratio is minimized directly.
const DefaultBadValueBinned = 1000000.0

// BinnedLHConfig configures a BinnedLH estimator.
type BinnedLHConfig struct {
	// Bins is the number of uniform bins. Zero selects DefaultBins.
	Bins int

	// Weights are optional per-observation weights; nil means uniform 1.
	Weights []float64

	// Bound restricts the histogram range. Nil uses the observed data
	// minimum and maximum.
	Bound *Range

	// BadValue replaces a bin's contribution when the expected occupancy
	// there is invalid. Nil selects DefaultBadValueBinned; an explicit
	// zero is honored and makes invalid bins free.
	BadValue *float64

	// Extended interprets the model as predicting absolute counts. When
	// false the model is a normalized density and each bin's expectation
	// is rescaled by the total observed occupancy.
	Extended bool

	// UseW2 rescales each bin's contribution by occupancy over the bin's
	// squared-weight sum, recovering the effective unweighted statistics
	// implied by the weight variance.
	UseW2 bool
}

// DefaultBinnedLHConfig returns the default BinnedLH configuration.
func DefaultBinnedLHConfig() BinnedLHConfig {
	return BinnedLHConfig{Bins: DefaultBins}
}

// BinnedLH is the binned Poisson log-likelihood ratio of a histogram against
// a parametric model. Each bin contributes -s*(h*log(E/h) + (h-E)) where h is
// the bin occupancy and E the expected occupancy from the model averaged over
// the bin edges. The (h-E) term sums to zero over all bins for a normalized
// model, so it never moves the minimum; it cancels the log ratio's first-order
// Taylor term so each bin is purely parabolic in the residual near the
// minimum, which conditions the problem better for a quadratic minimizer.
type BinnedLH struct {
	model    Model
	hist     *Histogram
	badValue float64
	extended bool
	useW2    bool
	dof      int
	last     []float64
}

// NewBinnedLH builds the histogram once from data and returns the estimator.
func NewBinnedLH(model Model, data []float64, cfg BinnedLHConfig) (*BinnedLH, error) {
	if model.Fn == nil {
		return nil, fmt.Errorf("binnedlh: model function is nil")
	}
	bins := cfg.Bins
	if bins == 0 {
		bins = DefaultBins
	}
	bad := DefaultBadValueBinned
	if cfg.BadValue != nil {
		bad = *cfg.BadValue
	}
	hist, err := NewHistogram(data, cfg.Weights, bins, cfg.Bound)
	if err != nil {
		return nil, fmt.Errorf("binnedlh: %w", err)
	}
	return &BinnedLH{
		model:    model,
		hist:     hist,
		badValue: bad,
		extended: cfg.Extended,
		useW2:    cfg.UseW2,
		dof:      hist.Bins() - model.NumParams(),
	}, nil
}

// Eval returns the binned likelihood ratio at params. It reads only immutable
// state and is safe for concurrent callers.
//
// A bin with an invalid expectation contributes the bad value even when the
// bin is empty; the zero-contribution limit for empty bins applies only where
// the model is well behaved.
func (b *BinnedLH) Eval(params []float64) float64 {
	var acc Accumulator
	h := b.hist
	for i := range h.Content {
		fl := b.model.Fn(h.Edges[i], params)
		fr := b.model.Fn(h.Edges[i+1], params)
		e := (fl + fr) / 2 * h.Widths[i]
		if !b.extended {
			e *= h.Total
		}
		if math.IsNaN(e) || math.IsInf(e, 0) || e <= 0 {
			acc.Add(b.badValue)
			continue
		}
		n := h.Content[i]
		if n == 0 {
			// Limit of n*log(e/n) as n -> 0.
			continue
		}
		s := 1.0
		if b.useW2 {
			if h.SumW2[i] == 0 {
				continue
			}
			s = n / h.SumW2[i]
		}
		acc.Add(-s * (n*math.Log(e/n) + (n - e)))
	}
	return acc.Sum()
}

// Cost evaluates like Eval and records params as the last parameter vector
// for reporting. Single-writer; concurrent minimizer threads must use Eval.
func (b *BinnedLH) Cost(params []float64) float64 {
	c := b.Eval(params)
	b.last = append(b.last[:0], params...)
	return c
}

// LastParams returns a copy of the parameter vector from the most recent
// Cost call, or nil if Cost has not been called yet.
func (b *BinnedLH) LastParams() []float64 {
	if b.last == nil {
		return nil
	}
	return append([]float64(nil), b.last...)
}

// DoF returns bin count minus the number of fit parameters.
func (b *BinnedLH) DoF() int {
	return b.dof
}

// Model returns the model this estimator evaluates.
func (b *BinnedLH) Model() Model {
	return b.model
}

// Histogram returns the precomputed histogram. Callers must treat it as
// read-only.
func (b *BinnedLH) Histogram() *Histogram {
	return b.hist
}
