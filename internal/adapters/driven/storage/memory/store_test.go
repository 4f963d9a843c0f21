package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retriva/internal/core/domain"
)

func makeDocument(id, hash string) *domain.Document {
	now := time.Now().UTC()
	return &domain.Document{
		ID:             id,
		FileName:       id + ".txt",
		FilePath:       "/docs/" + id + ".txt",
		FileHash:       hash,
		FileSizeBytes:  128,
		TotalChunks:    1,
		EmbeddingModel: "nomic-embed-text",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func makeChunk(docID string, index int, text string) *domain.DocumentChunk {
	return &domain.DocumentChunk{
		ID:         fmt.Sprintf("%s-chunk-%d", docID, index),
		DocumentID: docID,
		ChunkIndex: index,
		ChunkText:  text,
		Embedding:  []float32{float32(index), 0.5},
		TokenCount: 5,
	}
}

func TestDocumentStore_CreateAndGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	doc := makeDocument("doc-1", "hash-1")
	require.NoError(t, store.DocumentStore().CreateDocument(ctx, doc))

	got, err := store.DocumentStore().GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.FileHash, got.FileHash)
	assert.Equal(t, doc.FileName, got.FileName)
}

func TestDocumentStore_GetNotFound(t *testing.T) {
	store := NewStore()

	_, err := store.DocumentStore().GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_DuplicateHash(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.DocumentStore().CreateDocument(ctx, makeDocument("doc-1", "same")))

	err := store.DocumentStore().CreateDocument(ctx, makeDocument("doc-2", "same"))
	assert.ErrorIs(t, err, domain.ErrDocumentExists)
}

func TestDocumentStore_FindByHash(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.DocumentStore().CreateDocument(ctx, makeDocument("doc-1", "hash-1")))

	got, err := store.DocumentStore().FindByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.ID)

	_, err = store.DocumentStore().FindByHash(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_GetAllDocumentsOrdered(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"doc-z", "doc-m", "doc-a"} {
		doc := makeDocument(id, "hash-"+id)
		doc.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, store.DocumentStore().CreateDocument(ctx, doc))
	}

	docs, err := store.DocumentStore().GetAllDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "doc-z", docs[0].ID)
	assert.Equal(t, "doc-m", docs[1].ID)
	assert.Equal(t, "doc-a", docs[2].ID)
}

func TestDocumentStore_DeleteCascadesChunks(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.DocumentStore().CreateDocument(ctx, makeDocument("doc-1", "hash-1")))
	require.NoError(t, store.ChunkStore().SaveChunk(ctx, makeChunk("doc-1", 0, "a")))
	require.NoError(t, store.ChunkStore().SaveChunk(ctx, makeChunk("doc-1", 1, "b")))

	require.NoError(t, store.DocumentStore().DeleteDocument(ctx, "doc-1"))

	_, err := store.DocumentStore().GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, err := store.ChunkStore().CountChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestChunkStore_OrderedByIndex(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.ChunkStore().SaveChunk(ctx, makeChunk("doc-1", 1, "second")))
	require.NoError(t, store.ChunkStore().SaveChunk(ctx, makeChunk("doc-1", 0, "first")))

	chunks, err := store.ChunkStore().GetChunksByDocument(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "first", chunks[0].ChunkText)
	assert.Equal(t, "second", chunks[1].ChunkText)
}

func TestChunkStore_GetAllChunksStableOrder(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.ChunkStore().SaveChunk(ctx, makeChunk("doc-b", 0, "b0")))
	require.NoError(t, store.ChunkStore().SaveChunk(ctx, makeChunk("doc-a", 1, "a1")))
	require.NoError(t, store.ChunkStore().SaveChunk(ctx, makeChunk("doc-a", 0, "a0")))

	chunks, err := store.ChunkStore().GetAllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	got := []string{chunks[0].ChunkText, chunks[1].ChunkText, chunks[2].ChunkText}
	assert.Equal(t, []string{"a0", "a1", "b0"}, got)
}

func TestChunkStore_CountChunks(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	count, err := store.ChunkStore().CountChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, store.ChunkStore().SaveChunk(ctx, makeChunk("doc-1", 0, "only")))

	count, err = store.ChunkStore().CountChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("doc-%d", n)
			_ = store.DocumentStore().CreateDocument(ctx, makeDocument(id, "hash-"+id))
			_ = store.ChunkStore().SaveChunk(ctx, makeChunk(id, 0, "text"))
			_, _ = store.ChunkStore().GetAllChunks(ctx)
		}(i)
	}
	wg.Wait()

	docs, err := store.DocumentStore().GetAllDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 20)
}
