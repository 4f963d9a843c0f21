package driving

import (
	"context"

	"github.com/custodia-labs/retriva/internal/core/domain"
)

// DocumentService manages ingested documents.
type DocumentService interface {
	// List returns all documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// GetContent returns the concatenated text of all chunks, in
	// chunk order.
	GetContent(ctx context.Context, documentID string) (string, error)

	// Delete removes a document and its chunks.
	Delete(ctx context.Context, documentID string) error
}
