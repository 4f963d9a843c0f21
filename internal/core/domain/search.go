package domain

// ContentClass is a caller-supplied hint about what kind of material a
// query is after. It selects which relevance threshold applies: code
// embeddings cluster less tightly than prose, so code queries use a
// lower minimum score.
type ContentClass string

// Available content classes.
const (
	// ContentClassAny applies the more permissive of the two
	// thresholds so untagged queries still surface code results.
	ContentClassAny ContentClass = ""

	// ContentClassCode targets source code material.
	ContentClassCode ContentClass = "code"

	// ContentClassText targets prose material.
	ContentClassText ContentClass = "text"
)

// IsValid returns true if the content class is recognised.
func (c ContentClass) IsValid() bool {
	switch c {
	case ContentClassAny, ContentClassCode, ContentClassText:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c ContentClass) String() string {
	if c == ContentClassAny {
		return "any"
	}
	return string(c)
}

// Description returns a human-readable description of the class.
func (c ContentClass) Description() string {
	switch c {
	case ContentClassCode:
		return "Source code and configuration"
	case ContentClassText:
		return "Prose and documentation"
	default:
		return "All stored material"
	}
}

// SearchRequest configures a retrieval query.
type SearchRequest struct {
	// Query is the raw query text. It is embedded for vector scoring
	// and tokenised for the lexical boost.
	Query string

	// Class selects the relevance threshold to apply.
	Class ContentClass

	// TopK is the maximum number of results. Values above the server
	// ceiling are clamped; zero means the default.
	TopK int

	// Rerank requests the optional cross-encoder re-scoring pass.
	Rerank bool
}

// ScoredChunk is a chunk with its relevance score for one query.
// It is ephemeral and never persisted.
type ScoredChunk struct {
	// Chunk is the matched chunk.
	Chunk DocumentChunk

	// Score is the relevance score. Cosine similarity by default,
	// replaced by the cross-encoder score after a successful rerank.
	Score float64

	// SourceName is the display name of the owning document.
	SourceName string
}

// AssembledContext is a token-budgeted context block rendered from
// ranked chunks, ready to hand to a prompt builder.
type AssembledContext struct {
	// Text is the rendered block. Each accepted chunk is prefixed
	// with a citation tag carrying its id and source name.
	Text string

	// ChunkIDs lists the cited chunk ids in acceptance order.
	ChunkIDs []string

	// TokenCount is the combined token estimate of accepted chunks.
	TokenCount int
}
