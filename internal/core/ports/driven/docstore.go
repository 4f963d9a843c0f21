package driven

import (
	"context"

	"github.com/custodia-labs/retriva/internal/core/domain"
)

// DocumentStore persists document metadata.
// Pure data access: no ranking or chunking logic.
type DocumentStore interface {
	// CreateDocument stores a new document row. The file hash is
	// unique storage-wide; inserting a duplicate fails with
	// domain.ErrDocumentExists.
	CreateDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound when absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// FindByHash retrieves a document by its content hash.
	// Returns domain.ErrNotFound when absent.
	FindByHash(ctx context.Context, fileHash string) (*domain.Document, error)

	// GetAllDocuments returns every stored document.
	GetAllDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and, by cascade, its chunks.
	DeleteDocument(ctx context.Context, id string) error
}
