package driving

import (
	"context"

	"github.com/custodia-labs/retriva/internal/core/domain"
)

// SearchService ranks stored chunks against a query.
type SearchService interface {
	// Search embeds the query and returns chunks scored by cosine
	// similarity with an optional lexical boost, filtered by the
	// class-appropriate threshold, best first.
	Search(ctx context.Context, req domain.SearchRequest) ([]domain.ScoredChunk, error)

	// BuildContext runs Search and greedily packs the results into a
	// citation-tagged context block within tokenBudget. A zero budget
	// uses the configured default.
	BuildContext(ctx context.Context, req domain.SearchRequest, tokenBudget int) (*domain.AssembledContext, error)
}
