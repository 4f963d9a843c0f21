package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// File validation errors. Each one is fatal to its own ingestion
	// and to nothing else.

	// ErrUnsupportedFileType indicates a file extension with no
	// chunking strategy.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrFileNotFound indicates the ingestion source file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrFileUnreadable indicates the file exists but could not be read,
	// or its content is not valid UTF-8 text.
	ErrFileUnreadable = errors.New("file unreadable")

	// ErrEmptyFile indicates the file has no content to ingest.
	ErrEmptyFile = errors.New("file is empty")

	// ErrFileTooLarge indicates the file exceeds the configured size cap.
	ErrFileTooLarge = errors.New("file too large")

	// ErrDocumentExists indicates a document with the same content hash
	// already exists. The storage layer raises it from the file_hash
	// uniqueness constraint; the ingestion pipeline resolves it by
	// replacing the existing document.
	ErrDocumentExists = errors.New("document already exists")

	// Embedding provider errors. All of them abort the ingestion they
	// occur in and roll back the partially written document.

	// ErrEmbeddingUnavailable indicates no embedding provider is
	// configured. Ingestion and search are disabled without one.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrProviderUnreachable indicates the embedding endpoint could not
	// be reached.
	ErrProviderUnreachable = errors.New("embedding provider unreachable")

	// ErrModelNotLoaded indicates the requested embedding model is not
	// available on the provider.
	ErrModelNotLoaded = errors.New("embedding model not loaded")

	// ErrContextLengthExceeded indicates an input longer than the
	// model's maximum context. Checked client-side before the call.
	ErrContextLengthExceeded = errors.New("input exceeds model context length")

	// ErrRerankFailed indicates the rerank provider call failed.
	// Never fatal: the caller falls back to the pre-rerank ordering.
	ErrRerankFailed = errors.New("rerank failed")
)
