package store

import (
	"fmt"
	"time"
)

// FitConfig records how a fit was set up, persisted alongside its result so
// a stored fit can be rerun with the same inputs.
type FitConfig struct {
	DataPath  string  `json:"dataPath"`
	Model     string  `json:"model"`
	Estimator string  `json:"estimator"` // unbinned-lh, binned-lh, chi2, binned-chi2
	Bins      int     `json:"bins,omitempty"`
	Extended  bool    `json:"extended,omitempty"`
	UseW2     bool    `json:"useW2,omitempty"`
	SumW2     bool    `json:"sumW2,omitempty"`
	Iters     int     `json:"iters"`
	PopSize   int     `json:"popSize"`
	Seed      int64   `json:"seed"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
}

// FitResult is the persisted outcome of a single optimization run. Only the
// best point is saved; the optimizer's internal population is deliberately
// not serialized, so a saved fit documents an answer rather than a resumable
// optimizer state.
type FitResult struct {
	// JobID is the unique identifier for this fit
	JobID string `json:"jobId"`

	// ParamNames parallels BestParams, in model declaration order
	ParamNames []string `json:"paramNames"`

	// BestParams is the parameter vector with the lowest observed cost
	BestParams []float64 `json:"bestParams"`

	// BestCost is the cost at BestParams
	BestCost float64 `json:"bestCost"`

	// InitialCost is the cost at the search-space midpoint, kept for
	// improvement tracking
	InitialCost float64 `json:"initialCost"`

	// DoF is the estimator's degrees of freedom; 0 for estimators that
	// do not define one
	DoF int `json:"dof,omitempty"`

	// Evaluations counts objective calls made during the run
	Evaluations int `json:"evaluations"`

	// Timestamp records when the fit finished
	Timestamp time.Time `json:"timestamp"`

	// Config holds the fit setup for reproduction
	Config FitConfig `json:"config"`
}

// Validate checks internal consistency before persisting.
func (r *FitResult) Validate() error {
	if r.JobID == "" {
		return fmt.Errorf("fit result has empty job ID")
	}
	if len(r.ParamNames) != len(r.BestParams) {
		return fmt.Errorf("fit result has %d parameter names for %d parameters", len(r.ParamNames), len(r.BestParams))
	}
	if r.Timestamp.IsZero() {
		return fmt.Errorf("fit result has zero timestamp")
	}
	return nil
}

// ResultInfo is the listing metadata for a stored fit.
type ResultInfo struct {
	JobID     string    `json:"jobId"`
	Model     string    `json:"model"`
	Estimator string    `json:"estimator"`
	BestCost  float64   `json:"bestCost"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"sizeBytes"`
}
