package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecseed/internal/core/domain"
)

var (
	historyCollection string
	historyLimit      int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent ingestion runs",
	Long: `Lists recorded ingestion runs, newest first. A failed run shows how many
documents were committed before the failure, which tells you whether the
collection needs to be re-seeded.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyCollection, "collection", "c", "", "only show runs for this collection")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	runs, err := ingestionService.History(cmd.Context(), historyCollection, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No ingestion runs recorded.")
		return nil
	}

	for i := range runs {
		printRun(cmd, &runs[i])
	}
	return nil
}

func printRun(cmd *cobra.Command, run *domain.IngestionRun) {
	cmd.Printf("%s  %-9s  %-8s  %s  %d docs  %s\n",
		run.StartedAt.Local().Format(time.DateTime),
		run.Status,
		run.Mode,
		run.Collection,
		run.DocumentCount,
		run.Duration().Round(time.Millisecond),
	)
	if run.Locator != "" {
		cmd.Printf("    %s: %s\n", run.Origin, run.Locator)
	}
	if run.Error != "" {
		cmd.Printf("    error: %s\n", run.Error)
	}
}
