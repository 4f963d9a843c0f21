package domain

import "time"

// Document represents one ingested file with its metadata.
// A document and its chunks are created together as a single unit:
// either every chunk exists and TotalChunks matches, or the document
// does not exist at all.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// FileName is the base name of the ingested file.
	FileName string

	// FilePath is the absolute path the file was ingested from.
	FilePath string

	// DisplayName is the human-readable name shown in results.
	// Defaults to FileName when not set.
	DisplayName string

	// FileHash is the SHA-256 hash of the file content, hex encoded.
	// It is globally unique and acts as the deduplication key:
	// re-ingesting identical content replaces the existing document.
	FileHash string

	// FileSizeBytes is the size of the source file.
	FileSizeBytes int64

	// TotalChunks is the expected chunk count, fixed at creation.
	TotalChunks int

	// EmbeddingModel is the model that produced the chunk embeddings.
	// Stored for future migration and audit.
	EmbeddingModel string

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last replaced.
	UpdatedAt time.Time
}

// Title returns the display name, falling back to the file name.
func (d Document) Title() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.FileName
}

// DocumentChunk is one embedded slice of a document's text.
// Chunks are immutable after creation and are destroyed with
// their owning document (cascade delete).
type DocumentChunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// ChunkIndex is the 0-based position within the document,
	// unique per document.
	ChunkIndex int

	// ChunkText is the text content of this chunk.
	ChunkText string

	// Embedding is the vector representation. Its dimension is fixed
	// by the owning document's EmbeddingModel.
	Embedding []float32

	// TokenCount is the heuristic token estimate for this chunk.
	TokenCount int

	// CreatedAt is when the chunk was persisted.
	CreatedAt time.Time
}

// ChunkMetadata carries structural information produced by the
// chunker. It is ephemeral: folded into chunk text and ordering,
// never persisted on its own.
type ChunkMetadata struct {
	// HeadingPath is the ordered list of enclosing markdown heading
	// titles, outermost first. Empty for plain text.
	HeadingPath []string

	// Level is 0 for body text, 1-6 for heading depth.
	Level int

	// StartLine is the 1-based line the chunk starts on in the
	// source document.
	StartLine int
}

// TopSection returns the outermost heading of the chunk, or "" for
// chunks outside any section.
func (m ChunkMetadata) TopSection() string {
	if len(m.HeadingPath) == 0 {
		return ""
	}
	return m.HeadingPath[0]
}
