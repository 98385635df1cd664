// Package cost implements scalar cost functions for fitting a parametric
// model to data: an unbinned negative log-likelihood, a binned Poisson
// log-likelihood ratio, a chi-square regression, and a binned chi-square.
// Each estimator is built once from a model and a dataset and then evaluated
// repeatedly by an external minimizer.
package cost

// ModelFunc evaluates a parametric model at the independent variable x.
// params carries the fit parameters in declaration order.
type ModelFunc func(x float64, params []float64) float64

// Model pairs a model function with the names of its fit parameters.
// The names are supplied by the caller (the cost functions do not inspect
// the callable) and drive degrees-of-freedom accounting and reporting only,
// never evaluation.
type Model struct {
	Fn         ModelFunc
	ParamNames []string
}

// NumParams returns the number of fit parameters.
func (m Model) NumParams() int {
	return len(m.ParamNames)
}
