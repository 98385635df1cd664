// Package opt adapts external optimization algorithms to a single objective
// interface. The cost functions in internal/cost are the objectives; the
// optimizer itself is a black box.
package opt

// Optimizer defines an optimization algorithm interface
type Optimizer interface {
	// Run executes the optimization
	// eval: objective function to minimize
	// lower, upper: per-dimension parameter bounds
	// dim: dimensionality of parameter space
	// Returns: best parameters and best cost
	Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64)
}
