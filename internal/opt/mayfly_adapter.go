package opt

import (
	"log/slog"
	"math/rand"

	"github.com/cwbudde/mayfly"
)

// MayflyAdapter drives the external mayfly evolutionary optimizer. mayfly
// takes a single scalar bound pair for the whole parameter space, so the
// adapter searches the unit cube and rescales positions to the caller's
// per-dimension bounds on every evaluation.
type MayflyAdapter struct {
	maxIters int
	popSize  int
	seed     int64
}

// NewMayfly creates a new mayfly optimizer adapter. The seed fixes the
// optimizer's random stream so runs are reproducible.
func NewMayfly(maxIters, popSize int, seed int64) Optimizer {
	return &MayflyAdapter{
		maxIters: maxIters,
		popSize:  popSize,
		seed:     seed,
	}
}

// Run executes the mayfly optimization.
func (m *MayflyAdapter) Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64) {
	scale := func(unit []float64) []float64 {
		x := make([]float64, dim)
		for i := 0; i < dim; i++ {
			x[i] = lower[i] + unit[i]*(upper[i]-lower[i])
		}
		return x
	}

	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = func(unit []float64) float64 { return eval(scale(unit)) }
	config.ProblemSize = dim
	config.MaxIterations = m.maxIters
	config.NPop = m.popSize
	config.LowerBound = 0
	config.UpperBound = 1
	config.Rand = rand.New(rand.NewSource(m.seed))

	result, err := mayfly.Optimize(config)
	if err != nil {
		// Surface the failure but still hand the caller a usable point.
		slog.Error("Mayfly optimization failed", "error", err)
		mid := make([]float64, dim)
		for i := 0; i < dim; i++ {
			mid[i] = 0.5
		}
		return scale(mid), eval(scale(mid))
	}

	return scale(result.GlobalBest.Position), result.GlobalBest.Cost
}
