package cost

import (
	"fmt"
	"math"
)

// Chi2RegressionConfig configures a Chi2Regression estimator.
type Chi2RegressionConfig struct {
	// Errors are optional per-point errors on y; nil means uniform 1.
	// Must be positive and finite.
	Errors []float64

	// Weights are optional per-point weights; nil means uniform 1.
	Weights []float64
}

// Chi2Regression is a weighted least-squares cost over (x, y, error) triples:
// sum over points of w*((model(x)-y)/error)^2. Every term is finite and
// non-negative for a finite model, so no bad-value substitution applies.
type Chi2Regression struct {
	model   Model
	x, y    []float64
	errs    []float64 // nil means uniform 1
	weights []float64 // nil means uniform 1
	dof     int
	last    []float64
}

// NewChi2Regression builds a chi-square regression over the parallel x and y
// sequences. Length mismatches and non-positive or non-finite errors fail
// construction; letting them through would silently poison every evaluation.
func NewChi2Regression(model Model, x, y []float64, cfg Chi2RegressionConfig) (*Chi2Regression, error) {
	if model.Fn == nil {
		return nil, fmt.Errorf("chi2regression: model function is nil")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("chi2regression: x length %d does not match y length %d", len(x), len(y))
	}
	if cfg.Errors != nil {
		if len(cfg.Errors) != len(x) {
			return nil, fmt.Errorf("chi2regression: errors length %d does not match data length %d", len(cfg.Errors), len(x))
		}
		for i, e := range cfg.Errors {
			if e <= 0 || math.IsNaN(e) || math.IsInf(e, 0) {
				return nil, fmt.Errorf("chi2regression: error %d is %v, want positive and finite", i, e)
			}
		}
	}
	if cfg.Weights != nil {
		if len(cfg.Weights) != len(x) {
			return nil, fmt.Errorf("chi2regression: weights length %d does not match data length %d", len(cfg.Weights), len(x))
		}
		for i, w := range cfg.Weights {
			if w < 0 || math.IsNaN(w) {
				return nil, fmt.Errorf("chi2regression: weight %d is %v, want non-negative", i, w)
			}
		}
	}
	c := &Chi2Regression{
		model: model,
		x:     append([]float64(nil), x...),
		y:     append([]float64(nil), y...),
		dof:   len(x) - 1 - model.NumParams(),
	}
	if cfg.Errors != nil {
		c.errs = append([]float64(nil), cfg.Errors...)
	}
	if cfg.Weights != nil {
		c.weights = append([]float64(nil), cfg.Weights...)
	}
	return c, nil
}

// Eval returns the chi-square at params. It reads only immutable state and is
// safe for concurrent callers.
func (c *Chi2Regression) Eval(params []float64) float64 {
	var acc Accumulator
	for i, x := range c.x {
		r := c.model.Fn(x, params) - c.y[i]
		if c.errs != nil {
			r /= c.errs[i]
		}
		w := 1.0
		if c.weights != nil {
			w = c.weights[i]
		}
		acc.Add(w * r * r)
	}
	return acc.Sum()
}

// Cost evaluates like Eval and records params as the last parameter vector
// for reporting. Single-writer; concurrent minimizer threads must use Eval.
func (c *Chi2Regression) Cost(params []float64) float64 {
	v := c.Eval(params)
	c.last = append(c.last[:0], params...)
	return v
}

// LastParams returns a copy of the parameter vector from the most recent
// Cost call, or nil if Cost has not been called yet.
func (c *Chi2Regression) LastParams() []float64 {
	if c.last == nil {
		return nil
	}
	return append([]float64(nil), c.last...)
}

// DoF returns sample count minus one minus the number of fit parameters.
func (c *Chi2Regression) DoF() int {
	return c.dof
}

// Model returns the model this estimator evaluates.
func (c *Chi2Regression) Model() Model {
	return c.model
}

// Len returns the number of points.
func (c *Chi2Regression) Len() int {
	return len(c.x)
}
