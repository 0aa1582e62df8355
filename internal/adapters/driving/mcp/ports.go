package mcp

import (
	"github.com/custodia-labs/vecseed/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Ingestion seeds collections and opens query sessions.
	Ingestion driving.IngestionService

	// DefaultCollection is used when a tool call names no collection.
	DefaultCollection string

	// IndexURI is the only index tools may touch. Empty means the settings
	// default. Tool callers cannot override it.
	IndexURI string

	// AllowIngest registers ingest_url. Off by default because it fetches
	// caller-chosen URLs and writes to the index.
	AllowIngest bool
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ingestion == nil {
		return ErrMissingIngestionService
	}
	return nil
}
