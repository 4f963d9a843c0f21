// Package memory provides in-memory implementations of the storage ports.
// It mirrors the SQLite adapter's behaviour, including hash uniqueness and
// cascade deletes, and is intended for tests and ephemeral use.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/retriva/internal/core/domain"
	"github.com/custodia-labs/retriva/internal/core/ports/driven"
)

// Store holds documents and chunks behind a single lock so that
// document deletion cascades to chunks atomically.
type Store struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.DocumentChunk
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.DocumentChunk),
	}
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// CreateDocument stores a new document, enforcing hash uniqueness.
func (s *documentStore) CreateDocument(_ context.Context, doc *domain.Document) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, existing := range s.store.documents {
		if existing.FileHash == doc.FileHash {
			return fmt.Errorf("%w: hash %s", domain.ErrDocumentExists, doc.FileHash)
		}
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = now
	}

	s.store.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	doc, ok := s.store.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// FindByHash retrieves a document by its content hash.
func (s *documentStore) FindByHash(_ context.Context, fileHash string) (*domain.Document, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	for id := range s.store.documents {
		doc := s.store.documents[id]
		if doc.FileHash == fileHash {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetAllDocuments returns every stored document, oldest first.
func (s *documentStore) GetAllDocuments(_ context.Context) ([]domain.Document, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	var result []domain.Document
	for id := range s.store.documents {
		result = append(result, s.store.documents[id])
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DeleteDocument removes a document and its chunks.
func (s *documentStore) DeleteDocument(_ context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	delete(s.store.documents, id)
	delete(s.store.chunks, id)
	return nil
}

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// SaveChunk stores one chunk.
func (s *chunkStore) SaveChunk(_ context.Context, chunk *domain.DocumentChunk) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now().UTC()
	}

	s.store.chunks[chunk.DocumentID] = append(s.store.chunks[chunk.DocumentID], *chunk)
	return nil
}

// GetChunksByDocument retrieves all chunks for a document, in chunk order.
func (s *chunkStore) GetChunksByDocument(_ context.Context, documentID string) ([]domain.DocumentChunk, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	stored, ok := s.store.chunks[documentID]
	if !ok {
		return nil, nil
	}

	result := make([]domain.DocumentChunk, len(stored))
	copy(result, stored)
	sort.Slice(result, func(i, j int) bool { return result[i].ChunkIndex < result[j].ChunkIndex })
	return result, nil
}

// GetAllChunks returns every stored chunk ordered by document, then index.
func (s *chunkStore) GetAllChunks(_ context.Context) ([]domain.DocumentChunk, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	var result []domain.DocumentChunk
	for _, stored := range s.store.chunks {
		result = append(result, stored...)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DocumentID != result[j].DocumentID {
			return result[i].DocumentID < result[j].DocumentID
		}
		return result[i].ChunkIndex < result[j].ChunkIndex
	})
	return result, nil
}

// CountChunks returns the number of chunks stored for a document.
func (s *chunkStore) CountChunks(_ context.Context, documentID string) (int, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return len(s.store.chunks[documentID]), nil
}
