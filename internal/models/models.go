// Package models provides the builtin named model functions the CLI can fit.
// Each entry carries its fit-parameter names, which is what the cost
// functions use for degrees-of-freedom accounting and reporting.
package models

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gostat/fitcost/internal/cost"
)

// Densities return 0 instead of NaN for unphysical parameters (for example a
// non-positive sigma); the estimators then substitute their bad value, which
// keeps an optimizer moving instead of wandering through NaN space.

// Gaussian is a normalized gaussian density with parameters mean and sigma.
func Gaussian(x float64, params []float64) float64 {
	mean, sigma := params[0], params[1]
	if sigma <= 0 {
		return 0
	}
	z := (x - mean) / sigma
	return math.Exp(-z*z/2) / (sigma * math.Sqrt(2*math.Pi))
}

// Exponential is a normalized exponential density over x >= 0 with rate
// parameter lambda.
func Exponential(x float64, params []float64) float64 {
	lambda := params[0]
	if lambda <= 0 || x < 0 {
		return 0
	}
	return lambda * math.Exp(-lambda*x)
}

// Linear is slope*x + intercept.
func Linear(x float64, params []float64) float64 {
	return params[0]*x + params[1]
}

// Poly2 is a*x^2 + b*x + c.
func Poly2(x float64, params []float64) float64 {
	return (params[0]*x+params[1])*x + params[2]
}

var registry = map[string]cost.Model{
	"gaussian":    {Fn: Gaussian, ParamNames: []string{"mean", "sigma"}},
	"exponential": {Fn: Exponential, ParamNames: []string{"lambda"}},
	"linear":      {Fn: Linear, ParamNames: []string{"slope", "intercept"}},
	"poly2":       {Fn: Poly2, ParamNames: []string{"a", "b", "c"}},
}

// Lookup returns the named model or an error listing the known names.
func Lookup(name string) (cost.Model, error) {
	m, ok := registry[name]
	if !ok {
		return cost.Model{}, fmt.Errorf("unknown model %q, available: %s", name, strings.Join(Names(), ", "))
	}
	return m, nil
}

// Names returns the registered model names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
