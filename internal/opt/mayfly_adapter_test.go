package opt

import (
	"math"
	"testing"

	"github.com/gostat/fitcost/internal/cost"
)

// sphere has its minimum at the origin.
func sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

func TestMayflyAdapterOnSphere(t *testing.T) {
	optimizer := NewMayfly(100, 20, 42) // maxIters, popSize, seed

	dim := 3
	lower := make([]float64, dim)
	upper := make([]float64, dim)
	for i := 0; i < dim; i++ {
		lower[i] = -10
		upper[i] = 10
	}

	best, costVal := optimizer.Run(sphere, lower, upper, dim)

	if len(best) != dim {
		t.Fatalf("Expected %d parameters, got %d", dim, len(best))
	}
	if costVal > 0.1 {
		t.Errorf("Expected cost near 0, got %f", costVal)
	}
	for i, v := range best {
		if math.Abs(v) > 1.0 {
			t.Errorf("Parameter %d = %f, expected near 0", i, v)
		}
	}
}

func TestMayflyAdapterAsymmetricBounds(t *testing.T) {
	// A sphere shifted to (3, -2) is only found if per-dimension bounds
	// are honored; reusing the first dimension's bounds would miss -2.
	shifted := func(x []float64) float64 {
		dx := x[0] - 3
		dy := x[1] + 2
		return dx*dx + dy*dy
	}

	optimizer := NewMayfly(150, 20, 7)
	best, costVal := optimizer.Run(shifted, []float64{2, -4}, []float64{4, 0}, 2)

	if costVal > 0.1 {
		t.Errorf("Expected cost near 0, got %f", costVal)
	}
	if best[0] < 2 || best[0] > 4 {
		t.Errorf("Parameter 0 = %f outside [2, 4]", best[0])
	}
	if best[1] < -4 || best[1] > 0 {
		t.Errorf("Parameter 1 = %f outside [-4, 0]", best[1])
	}
}

func TestMayflyAdapterDeterministic(t *testing.T) {
	dim := 2
	lower := []float64{-5, -5}
	upper := []float64{5, 5}

	// popSize must be >= 20 for mayfly v0.1.0.
	optimizer1 := NewMayfly(50, 20, 123)
	_, cost1 := optimizer1.Run(sphere, lower, upper, dim)

	optimizer2 := NewMayfly(50, 20, 123)
	_, cost2 := optimizer2.Run(sphere, lower, upper, dim)

	if cost1 != cost2 {
		t.Errorf("Non-deterministic: cost1=%f, cost2=%f", cost1, cost2)
	}
}

func TestMayflyAdapterMinimizesChi2(t *testing.T) {
	// End to end against a real estimator: recover the line y = 2x + 1.
	line := cost.Model{
		Fn: func(x float64, params []float64) float64 {
			return params[0]*x + params[1]
		},
		ParamNames: []string{"slope", "intercept"},
	}
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{1, 3, 5, 7, 9}
	c, err := cost.NewChi2Regression(line, x, y, cost.Chi2RegressionConfig{})
	if err != nil {
		t.Fatalf("NewChi2Regression failed: %v", err)
	}

	optimizer := NewMayfly(200, 20, 42)
	initial := c.Eval([]float64{0, 0})
	_, bestCost := optimizer.Run(c.Cost, []float64{0, 0}, []float64{4, 4}, 2)

	if bestCost >= initial {
		t.Errorf("Optimizer did not improve: initial %f, best %f", initial, bestCost)
	}
	if bestCost > 1.0 {
		t.Errorf("Expected near-zero chi2, got %f", bestCost)
	}
	if got := c.LastParams(); len(got) != 2 {
		t.Errorf("Expected last-params snapshot of length 2, got %v", got)
	}
}
