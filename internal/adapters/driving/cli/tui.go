package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui"
	"github.com/custodia-labs/vecseed/internal/core/domain"
)

var (
	tuiCollection string
	tuiIndexURI   string
	tuiLimit      int
)

// runApp runs the interactive program. Tests replace it.
var runApp = func(app *tui.App) error {
	return app.Run()
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Search a collection interactively",
	Long: `Opens an existing collection read-only and starts an interactive search.

Controls:
  enter    - Search / open result
  ↑/k, ↓/j - Navigate results
  n        - New search
  tab      - Ingestion history
  esc      - Back
  ?        - Help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiCollection, "collection", "c", "", "collection name (required)")
	tuiCmd.Flags().StringVar(&tuiIndexURI, "index-uri", "", "vector index URI (default from settings)")
	tuiCmd.Flags().IntVarP(&tuiLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results per search")
	_ = tuiCmd.MarkFlagRequired("collection")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	ctx := cmd.Context()
	session, err := ingestionService.ConnectReadOnly(ctx, domain.IndexTarget{
		URI:        tuiIndexURI,
		Collection: tuiCollection,
	})
	if err != nil {
		return fmt.Errorf("open collection: %w", err)
	}
	defer session.Close()

	app, err := tui.NewApp(ctx, tui.NewPorts(session, ingestionService), domain.SearchOptions{Limit: tuiLimit})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := runApp(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
