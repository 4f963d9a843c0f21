package domain

// IngestStatus is the lifecycle state of a background ingestion.
type IngestStatus string

// Available ingest states.
const (
	// IngestStatusProcessing means chunks are still being embedded.
	IngestStatusProcessing IngestStatus = "processing"

	// IngestStatusCompleted means every chunk was persisted.
	IngestStatusCompleted IngestStatus = "completed"

	// IngestStatusFailed means the ingestion aborted and was rolled back.
	IngestStatusFailed IngestStatus = "failed"
)

// IsTerminal returns true when the ingestion will not progress further.
func (s IngestStatus) IsTerminal() bool {
	return s == IngestStatusCompleted || s == IngestStatusFailed
}

// String returns the string representation.
func (s IngestStatus) String() string {
	return string(s)
}

// IngestProgress is a point-in-time snapshot of one ingestion request.
// Callers poll it by request id instead of blocking on the ingestion.
type IngestProgress struct {
	// RequestID identifies the ingestion request.
	RequestID string

	// FilePath is the file being ingested.
	FilePath string

	// Current is the number of chunks embedded and persisted so far.
	Current int

	// Total is the expected chunk count.
	Total int

	// Status is the lifecycle state.
	Status IngestStatus

	// DocumentID is set once the ingestion completes.
	DocumentID string

	// Error holds the failure message when Status is failed.
	Error string
}

// Percentage returns completion as 0-100.
func (p IngestProgress) Percentage() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total) * 100
}
