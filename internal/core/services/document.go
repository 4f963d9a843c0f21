package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/retriva/internal/core/domain"
	"github.com/custodia-labs/retriva/internal/core/ports/driven"
	"github.com/custodia-labs/retriva/internal/core/ports/driving"
	"github.com/custodia-labs/retriva/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages ingested documents.
type DocumentService struct {
	docStore   driven.DocumentStore
	chunkStore driven.ChunkStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore, chunkStore driven.ChunkStore) *DocumentService {
	return &DocumentService{
		docStore:   docStore,
		chunkStore: chunkStore,
	}
}

// List returns all documents.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	if s.docStore == nil {
		return nil, errors.New("document store not configured")
	}
	return s.docStore.GetAllDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, errors.New("document store not configured")
	}
	return s.docStore.GetDocument(ctx, documentID)
}

// GetContent returns the concatenated content of all chunks.
// Chunks carry their overlap, so the result can repeat passages that
// appear near chunk boundaries in the source.
func (s *DocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	if s.docStore == nil || s.chunkStore == nil {
		return "", errors.New("document store not configured")
	}

	// Verify document exists
	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return "", err
	}

	// Chunks come back ordered by index
	chunks, err := s.chunkStore.GetChunksByDocument(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("get chunks: %w", err)
	}

	var builder strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(chunk.ChunkText)
	}

	return builder.String(), nil
}

// Delete removes a document and, by cascade, its chunks.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if s.docStore == nil {
		return errors.New("document store not configured")
	}

	// Look the document up first so a missing id reports ErrNotFound
	// instead of silently succeeding.
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	logger.Info("Deleted document %s (%s)", doc.ID, doc.Title())
	return nil
}
