package driven

import (
	"context"

	"github.com/custodia-labs/retriva/internal/core/domain"
)

// ChunkStore persists document chunks with their embeddings.
// No similarity index is maintained: retrieval loads chunks in bulk
// and scores them in memory, an explicit O(total chunks) ceiling.
type ChunkStore interface {
	// SaveChunk stores one chunk.
	SaveChunk(ctx context.Context, chunk *domain.DocumentChunk) error

	// GetChunksByDocument returns a document's chunks ordered by index.
	GetChunksByDocument(ctx context.Context, documentID string) ([]domain.DocumentChunk, error)

	// GetAllChunks returns every stored chunk, embeddings included,
	// in a stable order.
	GetAllChunks(ctx context.Context) ([]domain.DocumentChunk, error)

	// CountChunks returns the number of chunks stored for a document.
	CountChunks(ctx context.Context, documentID string) (int, error)
}
