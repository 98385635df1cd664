package main

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aclements/go-moremath/stats"
	"github.com/google/uuid"
	"github.com/gostat/fitcost/internal/cost"
	"github.com/gostat/fitcost/internal/dataset"
	"github.com/gostat/fitcost/internal/models"
	"github.com/gostat/fitcost/internal/opt"
	"github.com/gostat/fitcost/internal/store"
	"github.com/spf13/cobra"
)

var (
	dataPath      string
	modelName     string
	estimatorName string
	fitBins       int
	boundStr      string
	extended      bool
	useW2         bool
	sumW2         bool
	fitIters      int
	fitPopSize    int
	fitSeed       int64
	lowerBound    float64
	upperBound    float64
	fitDataDir    string
	saveResult    bool
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a model to data by minimizing a cost function",
	Long: `Builds the selected cost function from a data file and a builtin model,
then minimizes it with the mayfly optimizer.

Estimators: unbinned-lh, binned-lh, chi2, binned-chi2.
The chi2 estimator needs two or three data columns (x, y and optional
per-point error); the others use the first column as raw observations.`,
	RunE: runFit,
}

func init() {
	fitCmd.Flags().StringVar(&dataPath, "data", "", "Data file path (required)")
	fitCmd.Flags().StringVar(&modelName, "model", "gaussian", "Builtin model name")
	fitCmd.Flags().StringVar(&estimatorName, "estimator", "unbinned-lh", "Cost function: unbinned-lh, binned-lh, chi2, binned-chi2")
	fitCmd.Flags().IntVar(&fitBins, "bins", 0, "Bin count for binned estimators (0 = default)")
	fitCmd.Flags().StringVar(&boundStr, "bound", "", "Histogram bound as lo,hi (default: data min,max)")
	fitCmd.Flags().BoolVar(&extended, "extended", false, "Extended binned likelihood (model predicts absolute counts)")
	fitCmd.Flags().BoolVar(&useW2, "use-w2", false, "Scale binned-lh bins by squared-weight sums")
	fitCmd.Flags().BoolVar(&sumW2, "sum-w2", false, "Estimate binned-chi2 bin errors from squared-weight sums")
	fitCmd.Flags().IntVar(&fitIters, "iters", 200, "Max optimizer iterations")
	fitCmd.Flags().IntVar(&fitPopSize, "pop", 30, "Optimizer population size")
	fitCmd.Flags().Int64Var(&fitSeed, "seed", 42, "Random seed")
	fitCmd.Flags().Float64Var(&lowerBound, "lower", -10, "Lower bound applied to every fit parameter")
	fitCmd.Flags().Float64Var(&upperBound, "upper", 10, "Upper bound applied to every fit parameter")
	fitCmd.Flags().StringVar(&fitDataDir, "data-dir", "./data", "Base directory for saved fit results")
	fitCmd.Flags().BoolVar(&saveResult, "save", false, "Persist the result and improvement trace")

	fitCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(fitCmd)
}

// parseBound parses "lo,hi" into a Range. An empty string means no explicit
// bound.
func parseBound(s string) (*cost.Range, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("bound must be lo,hi, got %q", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("bad bound %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("bad bound %q: %w", s, err)
	}
	return &cost.Range{Min: lo, Max: hi}, nil
}

// estimator is the surface the fit loop needs from any cost function.
type estimator interface {
	Cost(params []float64) float64
}

// newEstimator builds the named cost function over the loaded columns.
// The returned dof is 0 for estimators that do not define one.
func newEstimator(name string, model cost.Model, cols *dataset.Columns, bins int, bound *cost.Range) (estimator, int, error) {
	switch name {
	case "unbinned-lh":
		est, err := cost.NewUnbinnedLH(model, cols.X, cost.DefaultUnbinnedLHConfig())
		return est, 0, err
	case "binned-lh":
		cfg := cost.DefaultBinnedLHConfig()
		cfg.Bins = bins
		cfg.Bound = bound
		cfg.Extended = extended
		cfg.UseW2 = useW2
		est, err := cost.NewBinnedLH(model, cols.X, cfg)
		if err != nil {
			return nil, 0, err
		}
		return est, est.DoF(), nil
	case "chi2":
		if cols.Y == nil {
			return nil, 0, fmt.Errorf("chi2 needs x and y data columns")
		}
		est, err := cost.NewChi2Regression(model, cols.X, cols.Y, cost.Chi2RegressionConfig{Errors: cols.Err})
		if err != nil {
			return nil, 0, err
		}
		return est, est.DoF(), nil
	case "binned-chi2":
		cfg := cost.DefaultBinnedChi2Config()
		cfg.Bins = bins
		cfg.Bound = bound
		cfg.SumW2 = sumW2
		est, err := cost.NewBinnedChi2(model, cols.X, cfg)
		if err != nil {
			return nil, 0, err
		}
		return est, est.DoF(), nil
	default:
		return nil, 0, fmt.Errorf("unknown estimator %q, available: unbinned-lh, binned-lh, chi2, binned-chi2", name)
	}
}

func runFit(cmd *cobra.Command, args []string) error {
	cols, err := dataset.Load(dataPath)
	if err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}
	if cols.Len() == 0 {
		return fmt.Errorf("data file %s has no records", dataPath)
	}

	model, err := models.Lookup(modelName)
	if err != nil {
		return err
	}
	bound, err := parseBound(boundStr)
	if err != nil {
		return err
	}

	sample := stats.Sample{Xs: cols.X}
	smin, smax := sample.Bounds()
	slog.Info("Loaded data", "path", dataPath, "records", cols.Len(),
		"mean", sample.Mean(), "stddev", sample.StdDev(), "min", smin, "max", smax)

	est, dof, err := newEstimator(estimatorName, model, cols, fitBins, bound)
	if err != nil {
		return fmt.Errorf("failed to build estimator: %w", err)
	}

	dim := model.NumParams()
	lower := make([]float64, dim)
	upper := make([]float64, dim)
	mid := make([]float64, dim)
	for i := 0; i < dim; i++ {
		lower[i] = lowerBound
		upper[i] = upperBound
		mid[i] = (lowerBound + upperBound) / 2
	}
	initialCost := est.Cost(mid)

	jobID := uuid.New().String()
	var trace *store.TraceWriter
	if saveResult {
		trace, err = store.NewTraceWriter(fitDataDir, jobID, false)
		if err != nil {
			return fmt.Errorf("failed to create trace writer: %w", err)
		}
		defer trace.Close()
	}

	// Wrap the cost function to count evaluations and record improvements.
	// The optimizer drives this from a single goroutine.
	evals := 0
	best := math.Inf(1)
	objective := func(params []float64) float64 {
		evals++
		c := est.Cost(params)
		if c < best {
			best = c
			if trace != nil {
				entry := store.TraceEntry{
					Evaluation: evals,
					Cost:       c,
					Timestamp:  time.Now(),
					Params:     append([]float64(nil), params...),
				}
				if err := trace.Write(entry); err != nil {
					slog.Warn("Failed to write trace entry", "error", err)
				}
			}
		}
		return c
	}

	slog.Info("Starting fit", "estimator", estimatorName, "model", modelName,
		"params", model.ParamNames, "iters", fitIters, "pop", fitPopSize)

	optimizer := opt.NewMayfly(fitIters, fitPopSize, fitSeed)
	start := time.Now()
	bestParams, bestCost := optimizer.Run(objective, lower, upper, dim)
	elapsed := time.Since(start)

	slog.Info("Fit complete", "best_cost", bestCost, "initial_cost", initialCost,
		"evaluations", evals, "elapsed", elapsed.String())

	fmt.Printf("Best cost: %g (initial %g, %d evaluations)\n", bestCost, initialCost, evals)
	for i, name := range model.ParamNames {
		fmt.Printf("  %-12s %g\n", name, bestParams[i])
	}
	if dof > 0 {
		fmt.Printf("Degrees of freedom: %d (cost/dof = %.4f)\n", dof, bestCost/float64(dof))
	}

	if saveResult {
		st, err := store.NewFSStore(fitDataDir)
		if err != nil {
			return fmt.Errorf("failed to open result store: %w", err)
		}
		result := &store.FitResult{
			JobID:       jobID,
			ParamNames:  model.ParamNames,
			BestParams:  bestParams,
			BestCost:    bestCost,
			InitialCost: initialCost,
			DoF:         dof,
			Evaluations: evals,
			Timestamp:   time.Now(),
			Config: store.FitConfig{
				DataPath:  dataPath,
				Model:     modelName,
				Estimator: estimatorName,
				Bins:      fitBins,
				Extended:  extended,
				UseW2:     useW2,
				SumW2:     sumW2,
				Iters:     fitIters,
				PopSize:   fitPopSize,
				Seed:      fitSeed,
				Lower:     lowerBound,
				Upper:     upperBound,
			},
		}
		if err := st.SaveResult(result); err != nil {
			return fmt.Errorf("failed to save fit result: %w", err)
		}
		fmt.Printf("Saved fit %s\n", jobID)
	}
	return nil
}
