package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecseed/internal/adapters/driving/watch"
	"github.com/custodia-labs/vecseed/internal/core/domain"
)

var (
	ingestCollection string
	ingestIndexURI   string
	ingestWatch      bool
	ingestDocName    string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load documents into a collection",
	Long: `Load documents into a vector index collection.

A snapshot file replaces the collection; a crawl appends to it.`,
}

var ingestFileCmd = &cobra.Command{
	Use:   "file [path]",
	Short: "Replace a collection with a local snapshot",
	Long: `Reads a JSON array of {"page_content": ..., "metadata": {...}} records and
replaces the collection with them. The doc_name of every document is the file
name without its extension, with underscores turned into spaces.

With --watch the ingestion re-runs whenever the file is written.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngestFile,
}

var ingestURLCmd = &cobra.Command{
	Use:   "url [url]",
	Short: "Crawl a website and append it to a collection",
	Long: `Crawls pages under the given URL, splits them into chunks and appends them
to the collection. Existing documents are kept; re-ingesting the same site
adds new copies.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngestURL,
}

func init() {
	for _, c := range []*cobra.Command{ingestFileCmd, ingestURLCmd} {
		c.Flags().StringVarP(&ingestCollection, "collection", "c", "", "collection name (required)")
		c.Flags().StringVar(&ingestIndexURI, "index-uri", "", "vector index URI (default from settings)")
		_ = c.MarkFlagRequired("collection")
	}
	ingestFileCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "re-ingest whenever the file changes")
	ingestURLCmd.Flags().StringVar(&ingestDocName, "doc-name", "", "doc_name stored on every chunk (required)")
	ingestURLCmd.Flags().Int("max-depth", 0, "link depth to follow (default from settings)")
	ingestURLCmd.Flags().Int("max-pages", 0, "maximum pages to fetch (default from settings)")
	_ = ingestURLCmd.MarkFlagRequired("doc-name")

	ingestCmd.AddCommand(ingestFileCmd)
	ingestCmd.AddCommand(ingestURLCmd)
	rootCmd.AddCommand(ingestCmd)
}

func ingestTarget() domain.IndexTarget {
	return domain.IndexTarget{URI: ingestIndexURI, Collection: ingestCollection}
}

func runIngestFile(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	path := args[0]
	ctx := cmd.Context()

	ingest := func(ctx context.Context) error {
		result, err := ingestionService.IngestFromFile(ctx, path, ingestTarget())
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		printCommit(cmd, result)
		return nil
	}

	if err := ingest(ctx); err != nil {
		if !ingestWatch {
			return err
		}
		cmd.PrintErrf("%v\n", err)
	}
	if !ingestWatch {
		return nil
	}

	cmd.Printf("Watching %s for changes (Ctrl+C to stop)...\n", path)
	return watch.New(path, watch.DefaultDebounce).Run(ctx, ingest)
}

func runIngestURL(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	locator := args[0]
	cmd.Printf("Crawling %s...\n", locator)

	result, err := ingestionService.IngestFromCrawl(cmd.Context(), locator, ingestDocName, ingestTarget())
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	printCommit(cmd, result)
	return nil
}

func printCommit(cmd *cobra.Command, result *domain.CommitResult) {
	if result == nil {
		return
	}
	cmd.Printf("Committed %d documents to %s (%s)\n", result.Count, result.Collection, result.Mode)
}
