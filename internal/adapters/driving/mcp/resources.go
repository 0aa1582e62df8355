package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vecseed/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for vecseed resources.
	uriScheme = "vecseed://"

	// runsLimit is the number of runs a resource lists.
	runsLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Recent ingestion runs across all collections",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "collections/{collection}/runs",
		Name:        "collection-runs",
		Description: "Recent ingestion runs for one collection",
		MIMEType:    "application/json",
	}, s.handleCollectionRunsResource)
}

// runInfo is the JSON shape of one ingestion run.
type runInfo struct {
	ID            string    `json:"id"`
	Collection    string    `json:"collection"`
	IndexURI      string    `json:"index_uri"`
	Mode          string    `json:"mode"`
	Origin        string    `json:"origin"`
	Locator       string    `json:"locator,omitempty"`
	DocName       string    `json:"doc_name,omitempty"`
	DocumentCount int       `json:"document_count"`
	Status        string    `json:"status"`
	Error         string    `json:"error,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

// handleRunsResource returns recent ingestion runs.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return s.runsResource(ctx, req.Params.URI, "")
}

// handleCollectionRunsResource returns ingestion runs for one collection.
func (s *Server) handleCollectionRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract collection from URI: vecseed://collections/{collection}/runs
	collection := extractCollection(req.Params.URI)
	if collection == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return s.runsResource(ctx, req.Params.URI, collection)
}

func (s *Server) runsResource(ctx context.Context, uri, collection string) (*mcp.ReadResourceResult, error) {
	runs, err := s.ports.Ingestion.History(ctx, collection, runsLimit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	data, err := json.MarshalIndent(toRunInfos(runs), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling runs: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func toRunInfos(runs []domain.IngestionRun) []runInfo {
	infos := make([]runInfo, len(runs))
	for i := range runs {
		r := &runs[i]
		infos[i] = runInfo{
			ID:            r.ID,
			Collection:    r.Collection,
			IndexURI:      r.IndexURI,
			Mode:          r.Mode.String(),
			Origin:        string(r.Origin),
			Locator:       r.Locator,
			DocName:       r.DocName,
			DocumentCount: r.DocumentCount,
			Status:        string(r.Status),
			Error:         r.Error,
			StartedAt:     r.StartedAt,
			FinishedAt:    r.FinishedAt,
		}
	}
	return infos
}

// extractCollection extracts the collection from a URI like vecseed://collections/{collection}/runs.
func extractCollection(uri string) string {
	const prefix = uriScheme + "collections/"
	const suffix = "/runs"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
