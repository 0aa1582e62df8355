package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil ingestion service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingIngestionService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Ingestion: &mockIngestionService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil ingestion service returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingIngestionService)
	})

	t.Run("default collection is optional", func(t *testing.T) {
		ports := &Ports{
			Ingestion: &mockIngestionService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}

func TestInstructions(t *testing.T) {
	assert.NotContains(t, instructions("", false), "default")
	assert.Contains(t, instructions("docs", false), `"docs" collection`)
	assert.NotContains(t, instructions("docs", false), "ingest_url")
	assert.Contains(t, instructions("", true), "ingest_url appends")
}
