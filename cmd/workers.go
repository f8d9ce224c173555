package cmd

import (
	"fmt"

	"github.com/kozaktomas/face-clock/internal/attendance"
	"github.com/kozaktomas/face-clock/internal/config"
	"github.com/spf13/cobra"
)

var workersCmd = &cobra.Command{
	Use:   "workers",
	Short: "Manage enrolled workers",
}

var workersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all enrolled workers",
	Long:  `Lists enrolled workers ordered by display name. Embeddings are never shown.`,
	RunE:  runWorkersList,
}

var workersFindCmd = &cobra.Command{
	Use:   "find [name]",
	Short: "Find workers by display name",
	Long: `Finds enrolled workers whose display name matches the query.
Matching ignores case and diacritics, so "joao" matches "João".`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkersFind,
}

var workersRemoveCmd = &cobra.Command{
	Use:   "remove [identifier]",
	Short: "Remove a worker and their attendance history",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkersRemove,
}

func init() {
	rootCmd.AddCommand(workersCmd)
	workersCmd.AddCommand(workersListCmd)
	workersCmd.AddCommand(workersFindCmd)
	workersCmd.AddCommand(workersRemoveCmd)
}

func runWorkersList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	engine, cleanup, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	workers, err := engine.ListWorkers(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list workers: %w", err)
	}

	printWorkers(workers)
	return nil
}

func runWorkersFind(cmd *cobra.Command, args []string) error {
	query := args[0]

	cfg := config.Load()
	engine, cleanup, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	workers, err := engine.ListWorkers(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list workers: %w", err)
	}

	var matched []attendance.WorkerInfo
	for _, w := range workers {
		if attendance.MatchesName(w.DisplayName, query) {
			matched = append(matched, w)
		}
	}

	if len(matched) == 0 {
		fmt.Printf("No workers matching %q\n", query)
		return nil
	}
	printWorkers(matched)
	return nil
}

func runWorkersRemove(cmd *cobra.Command, args []string) error {
	identifier := args[0]

	cfg := config.Load()
	engine, cleanup, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := engine.RemoveWorker(cmd.Context(), identifier); err != nil {
		return fmt.Errorf("failed to remove worker: %w", err)
	}
	fmt.Printf("Removed worker %s and their attendance history\n", identifier)
	return nil
}

func printWorkers(workers []attendance.WorkerInfo) {
	fmt.Printf("%-13s %-30s %s\n", "IDENTIFIER", "NAME", "ROLE")
	for _, w := range workers {
		fmt.Printf("%-13s %-30s %s\n", w.Identifier, w.DisplayName, w.Role)
	}
	fmt.Printf("\nTotal: %d\n", len(workers))
}
