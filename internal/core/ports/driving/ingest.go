package driving

import (
	"context"

	"github.com/custodia-labs/retriva/internal/core/domain"
)

// ProgressFunc receives per-chunk ingestion progress.
// current counts persisted chunks, total is the expected count.
type ProgressFunc func(current, total int)

// IngestService turns files into embedded, searchable documents.
type IngestService interface {
	// Ingest runs the full pipeline synchronously: validate,
	// deduplicate by content hash, chunk, embed, persist. Returns the
	// new document's id. Persistence is all-or-nothing: an embedding
	// failure rolls back the document and every saved chunk.
	// onProgress may be nil.
	Ingest(ctx context.Context, filePath string, onProgress ProgressFunc) (string, error)

	// StartIngest runs Ingest as an independent background unit and
	// returns a request id for polling. The returned id is valid
	// immediately.
	StartIngest(ctx context.Context, filePath string) (string, error)

	// Progress reports the state of a background ingestion. The second
	// return is false when the request id is unknown or already
	// evicted.
	Progress(requestID string) (domain.IngestProgress, bool)
}
