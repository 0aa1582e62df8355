// Package tui provides an interactive terminal search over one collection.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/vecseed/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI talks to.
type Ports struct {
	// Session is an open read-only session on the collection being browsed.
	Session driving.QuerySession

	// Ingestion provides the run history. Optional.
	Ingestion driving.IngestionService
}

// NewPorts creates a new Ports aggregate.
func NewPorts(session driving.QuerySession, ingestion driving.IngestionService) *Ports {
	return &Ports{
		Session:   session,
		Ingestion: ingestion,
	}
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Session == nil {
		return ErrMissingQuerySession
	}
	if !p.Session.QueryReady() {
		return ErrSessionNotReady
	}
	return nil
}
