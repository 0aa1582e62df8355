package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecseed/internal/core/domain"
)

var (
	searchLimit      int
	searchJSON       bool
	searchCollection string
	searchIndexURI   string
)

// snippetLength is the number of runes of content shown per result.
const snippetLength = 160

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search a collection",
	Long: `Embeds the query and returns the most similar documents from an existing
collection. The collection is opened read-only and is never created.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVarP(&searchCollection, "collection", "c", "", "collection name (required)")
	searchCmd.Flags().StringVar(&searchIndexURI, "index-uri", "", "vector index URI (default from settings)")
	_ = searchCmd.MarkFlagRequired("collection")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	ctx := cmd.Context()
	session, err := ingestionService.ConnectReadOnly(ctx, domain.IndexTarget{
		URI:        searchIndexURI,
		Collection: searchCollection,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	defer session.Close()

	results, err := session.Search(ctx, query, domain.SearchOptions{Limit: searchLimit})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

// searchHit is the JSON shape of one result.
type searchHit struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Content  string         `json:"page_content"`
	Metadata map[string]any `json:"metadata"`
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	hits := make([]searchHit, len(results))
	for i, r := range results {
		hits[i] = searchHit{
			ID:       r.ID,
			Score:    r.Score,
			Content:  r.Document.Content,
			Metadata: r.Document.Metadata.Map(),
		}
	}

	data, err := json.MarshalIndent(hits, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		meta := results[i].Document.Metadata

		// Format: [N] Title (Score)
		title := meta.Title
		if title == "" {
			title = results[i].ID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, results[i].Score)
		if meta.Source != "" {
			cmd.Printf("      Source: %s\n", meta.Source)
		}
		if snippet := snippet(results[i].Document.Content, snippetLength); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}

	return nil
}

// snippet collapses whitespace and truncates s to at most n runes.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
