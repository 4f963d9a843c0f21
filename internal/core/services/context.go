package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/retriva/internal/core/domain"
)

// AssembleContext packs ranked chunks into a token budget and renders
// them as a citation-tagged block. The walk is greedy and strictly in
// rank order: it stops at the first chunk that would overflow the
// budget, even if a later, smaller chunk would still fit. Rank order
// is the relevance contract with the caller; backfilling would promote
// weaker chunks over stronger ones.
func AssembleContext(results []domain.ScoredChunk, tokenBudget int) domain.AssembledContext {
	var accepted []domain.ScoredChunk
	total := 0
	for _, result := range results {
		if total+result.Chunk.TokenCount > tokenBudget {
			break
		}
		accepted = append(accepted, result)
		total += result.Chunk.TokenCount
	}

	assembled := domain.AssembledContext{
		TokenCount: total,
	}

	var builder strings.Builder
	for i, result := range accepted {
		if i > 0 {
			builder.WriteString("\n\n")
		}
		// The reference token ties a cited claim back to its chunk.
		fmt.Fprintf(&builder, "[chunk:%s source:%s]\n", result.Chunk.ID, result.SourceName)
		builder.WriteString(result.Chunk.ChunkText)
		assembled.ChunkIDs = append(assembled.ChunkIDs, result.Chunk.ID)
	}
	assembled.Text = builder.String()

	return assembled
}
