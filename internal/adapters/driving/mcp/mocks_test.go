package mcp

import (
	"context"

	"github.com/custodia-labs/retriva/internal/core/domain"
	"github.com/custodia-labs/retriva/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.ScoredChunk
	lastReq domain.SearchRequest
	err     error
}

func (m *mockSearchService) Search(_ context.Context, req domain.SearchRequest) ([]domain.ScoredChunk, error) {
	m.lastReq = req
	return m.results, m.err
}

func (m *mockSearchService) BuildContext(_ context.Context, _ domain.SearchRequest, _ int) (*domain.AssembledContext, error) {
	return &domain.AssembledContext{}, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	requestID string
	progress  domain.IngestProgress
	known     bool
	err       error
}

func (m *mockIngestService) Ingest(_ context.Context, _ string, _ driving.ProgressFunc) (string, error) {
	return "", m.err
}

func (m *mockIngestService) StartIngest(_ context.Context, _ string) (string, error) {
	return m.requestID, m.err
}

func (m *mockIngestService) Progress(_ string) (domain.IngestProgress, bool) {
	return m.progress, m.known
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	content   string
	deleted   []string
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, documentID string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, documentID)
	return nil
}
