package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   Ports
		wantErr error
	}{
		{
			name:    "missing search service",
			ports:   Ports{Ingest: &mockIngestService{}, Document: &mockDocumentService{}},
			wantErr: ErrMissingSearchService,
		},
		{
			name:  "search service alone suffices",
			ports: Ports{Search: &mockSearchService{}},
		},
		{
			name: "full wiring",
			ports: Ports{
				Search:   &mockSearchService{},
				Ingest:   &mockIngestService{},
				Document: &mockDocumentService{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewServer_RejectsInvalidPorts(t *testing.T) {
	server, err := NewServer(&Ports{Document: &mockDocumentService{}})

	require.ErrorIs(t, err, ErrMissingSearchService)
	assert.Nil(t, server)
}

func TestNewServer_RegistersAgainstMinimalPorts(t *testing.T) {
	server, err := NewServer(&Ports{Search: &mockSearchService{}})

	require.NoError(t, err)
	require.NotNil(t, server)
	assert.NotNil(t, server.server)
}
