package driven

import "context"

// RerankService re-scores candidate texts against a query with a
// cross-encoder model. It is strictly best-effort: callers fall back
// to their original ordering on any error.
type RerankService interface {
	// Rerank returns one relevance score per text, aligned by
	// position. Anything other than exactly len(texts) scores is an
	// error (wrapped domain.ErrRerankFailed).
	Rerank(ctx context.Context, query string, texts []string) ([]float64, error)

	// ModelName returns the cross-encoder model being used.
	ModelName() string
}
