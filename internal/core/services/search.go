package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/retriva/internal/core/domain"
	"github.com/custodia-labs/retriva/internal/core/ports/driven"
	"github.com/custodia-labs/retriva/internal/core/ports/driving"
	"github.com/custodia-labs/retriva/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService ranks stored chunks against a query embedding.
// There is no similarity index: every search embeds the query, loads
// all chunks and scores them in memory, an explicit O(total chunks)
// ceiling accepted for corpus sizes this tool targets.
type SearchService struct {
	embedder   driven.EmbeddingService
	docStore   driven.DocumentStore
	chunkStore driven.ChunkStore
	reranker   driven.RerankService // optional, nil disables reranking
	settings   driving.SettingsService
}

// NewSearchService creates a new search service.
// reranker may be nil; rerank requests then keep the vector ordering.
func NewSearchService(
	embedder driven.EmbeddingService,
	docStore driven.DocumentStore,
	chunkStore driven.ChunkStore,
	reranker driven.RerankService,
	settings driving.SettingsService,
) *SearchService {
	return &SearchService{
		embedder:   embedder,
		docStore:   docStore,
		chunkStore: chunkStore,
		reranker:   reranker,
		settings:   settings,
	}
}

// Search embeds the query, scores every stored chunk against it and
// returns the top results, best first.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) ([]domain.ScoredChunk, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.chunkStore == nil {
		return nil, errors.New("chunk store not configured")
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if !req.Class.IsValid() {
		return nil, fmt.Errorf("%w: unknown content class %q", domain.ErrInvalidInput, string(req.Class))
	}

	settings := loadSettings(s.settings)
	threshold := settings.Retrieval.ThresholdFor(req.Class)
	topK := clampTopK(req.TopK, settings.Retrieval.TopK)

	logger.Section("Search Execution")
	logger.Debug("Query: %q (class=%s, topK=%d, rerank=%v)", req.Query, req.Class, topK, req.Rerank)
	logger.Debug("Active threshold: %.2f", threshold)

	// 1. Embed the query
	queryVec, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// 2. Bulk-load the corpus
	chunks, err := s.chunkStore.GetAllChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	if len(chunks) == 0 {
		logger.Debug("No chunks stored, returning empty result")
		return nil, nil
	}

	// 3. Score, boost and filter
	ranked := s.scoreChunks(ctx, queryVec, req.Query, chunks, threshold)
	logger.Debug("Scored %d chunks, %d at or above threshold", len(chunks), len(ranked))

	// 4. Sort best first; stable, so load order breaks ties
	sortByScore(ranked)

	// 5. Optional rerank over the widest candidate window
	if req.Rerank {
		if s.reranker == nil {
			logger.Debug("Rerank requested but no reranker configured, keeping vector order")
		} else {
			candidates := truncate(ranked, maxTopK)
			if reranked, ok := s.rerankResults(ctx, req.Query, candidates, settings.Rerank.Threshold); ok {
				return truncate(reranked, topK), nil
			}
		}
	}

	return truncate(ranked, topK), nil
}

// BuildContext runs Search and packs the results into a token-budgeted
// context block. A non-positive budget uses the configured default.
func (s *SearchService) BuildContext(ctx context.Context, req domain.SearchRequest, tokenBudget int) (*domain.AssembledContext, error) {
	results, err := s.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	budget := tokenBudget
	if budget <= 0 {
		budget = loadSettings(s.settings).Retrieval.TokenBudget
	}

	assembled := AssembleContext(results, budget)
	logger.Debug("Assembled context: %d chunks, %d tokens of %d budget",
		len(assembled.ChunkIDs), assembled.TokenCount, budget)
	return &assembled, nil
}

// scoreChunks computes the boosted similarity for every chunk and
// keeps those at or above the threshold. Chunks whose embeddings
// cannot be compared score 0 and drop out through the threshold.
func (s *SearchService) scoreChunks(
	ctx context.Context,
	queryVec []float32,
	queryText string,
	chunks []domain.DocumentChunk,
	threshold float64,
) []domain.ScoredChunk {
	names := s.documentNames(ctx)
	keywords := queryKeywords(queryText)

	//nolint:prealloc // the threshold decides how many survive
	var ranked []domain.ScoredChunk
	for _, chunk := range chunks {
		if len(chunk.Embedding) != len(queryVec) {
			logger.Debug("Dimension mismatch for chunk %s: %d vs %d, scoring 0",
				chunk.ID, len(chunk.Embedding), len(queryVec))
		}

		score := cosineSimilarity(queryVec, chunk.Embedding)
		score *= lexicalBoost(keywords, chunk.ChunkText)

		if score >= threshold {
			ranked = append(ranked, domain.ScoredChunk{
				Chunk:      chunk,
				Score:      score,
				SourceName: names[chunk.DocumentID],
			})
		}
	}

	return ranked
}

// rerankResults re-scores candidates with the cross-encoder. The
// second return is false whenever the reranker cannot be trusted
// (call failed, score count off), and the caller falls back to the
// vector ordering. Reranking must never be the reason a search fails.
func (s *SearchService) rerankResults(
	ctx context.Context,
	query string,
	candidates []domain.ScoredChunk,
	threshold float64,
) ([]domain.ScoredChunk, bool) {
	if len(candidates) == 0 {
		return candidates, true
	}

	texts := make([]string, len(candidates))
	for i := range candidates {
		texts[i] = candidates[i].Chunk.ChunkText
	}

	scores, err := s.reranker.Rerank(ctx, query, texts)
	if err != nil {
		logger.Warn("Rerank failed, keeping vector order: %v", err)
		return nil, false
	}
	if len(scores) != len(candidates) {
		logger.Warn("Reranker returned %d scores for %d candidates, keeping vector order",
			len(scores), len(candidates))
		return nil, false
	}

	reranked := make([]domain.ScoredChunk, len(candidates))
	copy(reranked, candidates)
	for i := range reranked {
		reranked[i].Score = scores[i]
	}

	//nolint:prealloc // the threshold decides how many survive
	var kept []domain.ScoredChunk
	for _, result := range reranked {
		if result.Score >= threshold {
			kept = append(kept, result)
		}
	}
	sortByScore(kept)

	logger.Debug("Reranked %d candidates, %d at or above threshold %.2f",
		len(candidates), len(kept), threshold)
	return kept, true
}

// documentNames maps document ids to display names for citations.
// Name lookup failures degrade to empty names rather than failing the
// search.
func (s *SearchService) documentNames(ctx context.Context) map[string]string {
	names := make(map[string]string)
	if s.docStore == nil {
		return names
	}

	docs, err := s.docStore.GetAllDocuments(ctx)
	if err != nil {
		logger.Warn("Could not load document names: %v", err)
		return names
	}
	for _, doc := range docs {
		names[doc.ID] = doc.Title()
	}
	return names
}

// loadSettings loads settings, falling back to defaults when no
// settings service is wired or loading fails.
func loadSettings(svc driving.SettingsService) *domain.AppSettings {
	if svc != nil {
		if settings, err := svc.Get(); err == nil {
			return settings
		}
	}
	defaults := domain.DefaultAppSettings()
	return &defaults
}
