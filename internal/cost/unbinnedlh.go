package cost

import (
	"fmt"
	"math"
)

// DefaultBadValueUnbinned is the contribution substituted for an observation
// where the model density is non-positive or non-finite. Large and negative
// log-likelihood terms would be, so the substitution reads as an extremely
// poor fit and steers a minimizer away from unphysical parameter regions.
const DefaultBadValueUnbinned = -100000.0

// UnbinnedLHConfig configures an UnbinnedLH estimator.
type UnbinnedLHConfig struct {
	// Weights are optional per-observation weights; nil means uniform 1.
	// Must be the same length as the data and non-negative.
	Weights []float64

	// BadValue replaces an observation's contribution when the model
	// density there is invalid. Nil selects DefaultBadValueUnbinned; an
	// explicit zero is honored and makes invalid observations free.
	BadValue *float64
}

// DefaultUnbinnedLHConfig returns the default UnbinnedLH configuration.
// The zero value is equivalent.
func DefaultUnbinnedLHConfig() UnbinnedLHConfig {
	return UnbinnedLHConfig{}
}

// UnbinnedLH is the pointwise negative log-likelihood of raw observations
// under a parametric density: sum over observations of -w*log(model(x)).
// The dataset is copied at construction and never mutated afterwards.
type UnbinnedLH struct {
	model    Model
	data     []float64
	weights  []float64 // nil means uniform 1
	badValue float64
	last     []float64
}

// NewUnbinnedLH builds an unbinned likelihood over data.
func NewUnbinnedLH(model Model, data []float64, cfg UnbinnedLHConfig) (*UnbinnedLH, error) {
	if model.Fn == nil {
		return nil, fmt.Errorf("unbinnedlh: model function is nil")
	}
	if cfg.Weights != nil {
		if len(cfg.Weights) != len(data) {
			return nil, fmt.Errorf("unbinnedlh: weights length %d does not match data length %d", len(cfg.Weights), len(data))
		}
		for i, w := range cfg.Weights {
			if w < 0 || math.IsNaN(w) {
				return nil, fmt.Errorf("unbinnedlh: weight %d is %v, want non-negative", i, w)
			}
		}
	}
	bad := DefaultBadValueUnbinned
	if cfg.BadValue != nil {
		bad = *cfg.BadValue
	}
	u := &UnbinnedLH{
		model:    model,
		data:     append([]float64(nil), data...),
		badValue: bad,
	}
	if cfg.Weights != nil {
		u.weights = append([]float64(nil), cfg.Weights...)
	}
	return u, nil
}

// Eval returns the negative log-likelihood at params. It reads only immutable
// state and is safe for concurrent callers.
func (u *UnbinnedLH) Eval(params []float64) float64 {
	var acc Accumulator
	for i, x := range u.data {
		p := u.model.Fn(x, params)
		if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
			acc.Add(u.badValue)
			continue
		}
		w := 1.0
		if u.weights != nil {
			w = u.weights[i]
		}
		acc.Add(-w * math.Log(p))
	}
	return acc.Sum()
}

// Cost evaluates like Eval and additionally records params as the last
// parameter vector for reporting. The snapshot write assumes a single
// writer; concurrent minimizer threads must use Eval instead.
func (u *UnbinnedLH) Cost(params []float64) float64 {
	c := u.Eval(params)
	u.last = append(u.last[:0], params...)
	return c
}

// LastParams returns a copy of the parameter vector from the most recent
// Cost call, or nil if Cost has not been called yet.
func (u *UnbinnedLH) LastParams() []float64 {
	if u.last == nil {
		return nil
	}
	return append([]float64(nil), u.last...)
}

// Model returns the model this estimator evaluates.
func (u *UnbinnedLH) Model() Model {
	return u.model
}

// Len returns the number of observations.
func (u *UnbinnedLH) Len() int {
	return len(u.data)
}
