package driven

import "github.com/custodia-labs/retriva/internal/core/domain"

// ProgressStore tracks background ingestion progress by request id.
// Entries for finished requests are retained briefly so a poller can
// observe the final state, then evicted; implementations own that
// lifetime. Injected explicitly, never ambient global state.
type ProgressStore interface {
	// Put stores or replaces the progress snapshot for a request.
	Put(progress domain.IngestProgress)

	// Get returns the progress snapshot for a request.
	// The second return is false when the request is unknown or its
	// record has been evicted.
	Get(requestID string) (domain.IngestProgress, bool)

	// Close stops background eviction.
	Close() error
}
