package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gostat/fitcost/internal/store"
	"github.com/spf13/cobra"
)

var (
	resultsDataDir string
	forceDelete    bool
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage saved fit results",
	Long:  `List, inspect and delete fit results saved by "fit --save".`,
}

var listResultsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved fit results",
	RunE:  runListResults,
}

var showResultCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show one fit result in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowResult,
}

var deleteResultCmd = &cobra.Command{
	Use:   "delete <job-id>",
	Short: "Delete a saved fit result and its trace",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteResult,
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(listResultsCmd)
	resultsCmd.AddCommand(showResultCmd)
	resultsCmd.AddCommand(deleteResultCmd)

	resultsCmd.PersistentFlags().StringVar(&resultsDataDir, "data-dir", "./data", "Base directory for saved fit results")
	deleteResultCmd.Flags().BoolVarP(&forceDelete, "force", "f", false, "Skip confirmation prompt")
}

func runListResults(cmd *cobra.Command, args []string) error {
	st, err := store.NewFSStore(resultsDataDir)
	if err != nil {
		return fmt.Errorf("failed to open result store: %w", err)
	}

	infos, err := st.ListResults()
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}
	if len(infos) == 0 {
		fmt.Println("No saved fits found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "JOB ID\tMODEL\tESTIMATOR\tBEST COST\tAGE")
	for _, info := range infos {
		age := time.Since(info.Timestamp).Round(time.Second)
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%s\n", info.JobID, info.Model, info.Estimator, info.BestCost, age)
	}
	return w.Flush()
}

func runShowResult(cmd *cobra.Command, args []string) error {
	jobID := args[0]
	st, err := store.NewFSStore(resultsDataDir)
	if err != nil {
		return fmt.Errorf("failed to open result store: %w", err)
	}

	result, err := st.LoadResult(jobID)
	if err != nil {
		return fmt.Errorf("failed to load result: %w", err)
	}

	fmt.Printf("Job ID:      %s\n", result.JobID)
	fmt.Printf("Fitted:      %s\n", result.Timestamp.Format(time.RFC3339))
	fmt.Printf("Data:        %s\n", result.Config.DataPath)
	fmt.Printf("Model:       %s\n", result.Config.Model)
	fmt.Printf("Estimator:   %s\n", result.Config.Estimator)
	fmt.Printf("Best cost:   %g (initial %g)\n", result.BestCost, result.InitialCost)
	if result.DoF > 0 {
		fmt.Printf("DoF:         %d (cost/dof = %.4f)\n", result.DoF, result.BestCost/float64(result.DoF))
	}
	fmt.Printf("Evaluations: %d\n", result.Evaluations)
	fmt.Println("Parameters:")
	for i, name := range result.ParamNames {
		fmt.Printf("  %-12s %g\n", name, result.BestParams[i])
	}

	// The trace is optional; older results may not carry one.
	reader, err := store.NewTraceReader(resultsDataDir, jobID)
	if err == nil {
		defer reader.Close()
		entries, err := reader.ReadAll()
		if err == nil && len(entries) > 0 {
			fmt.Printf("Trace:       %d improvements, first %g at eval %d\n",
				len(entries), entries[0].Cost, entries[0].Evaluation)
		}
	}
	return nil
}

func runDeleteResult(cmd *cobra.Command, args []string) error {
	jobID := args[0]

	if !forceDelete {
		fmt.Printf("Delete fit %s? [y/N]: ", jobID)
		var answer string
		fmt.Fscanln(os.Stdin, &answer)
		if strings.ToLower(answer) != "y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	st, err := store.NewFSStore(resultsDataDir)
	if err != nil {
		return fmt.Errorf("failed to open result store: %w", err)
	}
	if err := st.DeleteResult(jobID); err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	fmt.Printf("Deleted fit %s\n", jobID)
	return nil
}
