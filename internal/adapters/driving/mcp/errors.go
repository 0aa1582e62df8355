// Package mcp provides an MCP (Model Context Protocol) server adapter for vecseed.
// It lets AI assistants query collections and seed them from websites.
package mcp

import "errors"

var (
	// ErrMissingIngestionService is returned when the ingestion service is not provided.
	ErrMissingIngestionService = errors.New("mcp: ingestion service is required")

	// ErrIngestDisabled is returned by ingest_url when the server was not
	// started with ingestion allowed.
	ErrIngestDisabled = errors.New("mcp: ingest_url is disabled on this server")
)
