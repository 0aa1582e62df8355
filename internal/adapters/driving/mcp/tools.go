package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vecseed/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"the text to find similar documents for"`
	Collection string `json:"collection,omitempty" jsonschema:"collection to search (default: the server's collection)"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 4)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Collection string               `json:"collection"`
	Results    []SearchResultOutput `json:"results"`
	Count      int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Source     string  `json:"source"`
	DocName    string  `json:"doc_name"`
	StartIndex int     `json:"start_index"`
	Score      float64 `json:"score"`
	Content    string  `json:"content"`
}

// IngestURLInput is the input schema for the ingest_url tool.
type IngestURLInput struct {
	URL        string `json:"url" jsonschema:"start URL; only pages under it are crawled"`
	DocName    string `json:"doc_name" jsonschema:"name stored as doc_name on every chunk"`
	Collection string `json:"collection,omitempty" jsonschema:"collection to append to (default: the server's collection)"`
}

// IngestURLOutput is the output schema for the ingest_url tool.
type IngestURLOutput struct {
	Collection string `json:"collection"`
	Mode       string `json:"mode"`
	Count      int    `json:"count"`
}

// CountInput is the input schema for the count tool.
type CountInput struct {
	Collection string `json:"collection,omitempty" jsonschema:"collection to count (default: the server's collection)"`
}

// CountOutput is the output schema for the count tool.
type CountOutput struct {
	Collection string `json:"collection"`
	Count      int    `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find the documents in a collection most similar to a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "count",
		Description: "Count the documents in a collection",
	}, s.handleCount)

	if s.ports.AllowIngest {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest_url",
			Description: "Crawl a website and append its pages to a collection",
		}, s.handleIngestURL)
	}
}

// target resolves a collection on the server's configured index.
func (s *Server) target(collection string) (domain.IndexTarget, error) {
	if collection == "" {
		collection = s.ports.DefaultCollection
	}
	if collection == "" {
		return domain.IndexTarget{}, errors.New("collection is required")
	}
	return domain.IndexTarget{URI: s.ports.IndexURI, Collection: collection}, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	target, err := s.target(input.Collection)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	session, err := s.ports.Ingestion.ConnectReadOnly(ctx, target)
	if err != nil {
		return nil, SearchOutput{}, fmt.Errorf("opening %s: %w", target.Collection, err)
	}
	defer session.Close()

	results, err := session.Search(ctx, input.Query, domain.SearchOptions{Limit: input.Limit})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Collection: target.Collection,
		Results:    make([]SearchResultOutput, len(results)),
		Count:      len(results),
	}

	for i := range results {
		meta := results[i].Document.Metadata
		output.Results[i] = SearchResultOutput{
			ID:         results[i].ID,
			Title:      meta.Title,
			Source:     meta.Source,
			DocName:    meta.DocName,
			StartIndex: meta.StartIndex,
			Score:      results[i].Score,
			Content:    results[i].Document.Content,
		}
	}

	return nil, output, nil
}

// handleIngestURL handles the ingest_url tool invocation.
func (s *Server) handleIngestURL(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestURLInput,
) (*mcp.CallToolResult, IngestURLOutput, error) {
	if !s.ports.AllowIngest {
		return nil, IngestURLOutput{}, ErrIngestDisabled
	}

	target, err := s.target(input.Collection)
	if err != nil {
		return nil, IngestURLOutput{}, err
	}

	result, err := s.ports.Ingestion.IngestFromCrawl(ctx, input.URL, input.DocName, target)
	if err != nil {
		return nil, IngestURLOutput{}, err
	}

	return nil, IngestURLOutput{
		Collection: result.Collection,
		Mode:       result.Mode.String(),
		Count:      result.Count,
	}, nil
}

// handleCount handles the count tool invocation.
func (s *Server) handleCount(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CountInput,
) (*mcp.CallToolResult, CountOutput, error) {
	target, err := s.target(input.Collection)
	if err != nil {
		return nil, CountOutput{}, err
	}

	session, err := s.ports.Ingestion.ConnectReadOnly(ctx, target)
	if err != nil {
		return nil, CountOutput{}, fmt.Errorf("opening %s: %w", target.Collection, err)
	}
	defer session.Close()

	n, err := session.Count(ctx)
	if err != nil {
		return nil, CountOutput{}, err
	}

	return nil, CountOutput{Collection: target.Collection, Count: n}, nil
}
