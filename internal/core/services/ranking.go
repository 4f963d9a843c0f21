package services

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/custodia-labs/retriva/internal/core/domain"
	"github.com/custodia-labs/retriva/internal/logger"
)

// maxTopK is the server-side ceiling on requested result counts.
// Callers asking for more are clamped, not rejected.
const maxTopK = 20

// minKeywordLength is the shortest query token that counts as a
// keyword for the lexical boost.
const minKeywordLength = 3

// stopWords are query tokens that carry no retrieval signal and are
// dropped before computing the lexical boost.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "all": {}, "an": {}, "and": {},
	"any": {}, "are": {}, "as": {}, "at": {}, "be": {}, "been": {},
	"before": {}, "but": {}, "by": {}, "can": {}, "could": {}, "did": {},
	"do": {}, "does": {}, "for": {}, "from": {}, "has": {}, "have": {},
	"how": {}, "if": {}, "in": {}, "into": {}, "is": {}, "it": {},
	"its": {}, "no": {}, "not": {}, "of": {}, "on": {}, "or": {},
	"over": {}, "should": {}, "some": {}, "such": {}, "than": {},
	"that": {}, "the": {}, "then": {}, "there": {}, "these": {},
	"this": {}, "those": {}, "through": {}, "to": {}, "was": {},
	"were": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"who": {}, "why": {}, "will": {}, "with": {}, "would": {},
}

// cosineSimilarity returns the normalised dot product of two vectors.
// Degenerate comparisons score 0 rather than failing: a dimension
// mismatch or a zero-length vector makes the pair incomparable, and
// one bad chunk must never sink a whole search.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		logger.Debug("Zero-norm embedding encountered, scoring 0")
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// queryKeywords tokenises a query for the lexical boost: lowercase,
// split on non-alphanumeric runes, drop stop words and short tokens,
// deduplicate preserving order. May return an empty slice, which
// disables the boost.
func queryKeywords(query string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(tokens))
	var keywords []string
	for _, token := range tokens {
		if len([]rune(token)) < minKeywordLength {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}

	return keywords
}

// lexicalBoost returns the multiplier applied to a vector score based
// on how many query keywords the chunk text contains. The multiplier
// is 1 + 0.5 x matchFraction, so it ranges from 1.0 (no keyword found)
// to 1.5 (every keyword found).
func lexicalBoost(keywords []string, chunkText string) float64 {
	if len(keywords) == 0 {
		return 1.0
	}

	lowered := strings.ToLower(chunkText)
	matched := 0
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			matched++
		}
	}

	fraction := float64(matched) / float64(len(keywords))
	return 1.0 + 0.5*fraction
}

// sortByScore orders results best first. The sort is stable so equal
// scores keep their storage load order, which makes repeated searches
// over an unchanged corpus return identical orderings.
func sortByScore(results []domain.ScoredChunk) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

// clampTopK resolves the effective result count: zero or negative
// means the configured default, anything above the ceiling is clamped.
func clampTopK(requested, defaultTopK int) int {
	topK := requested
	if topK <= 0 {
		topK = defaultTopK
	}
	if topK <= 0 {
		topK = 5
	}
	if topK > maxTopK {
		logger.Debug("Requested topK %d clamped to %d", topK, maxTopK)
		topK = maxTopK
	}
	return topK
}

// truncate cuts results down to at most topK entries.
func truncate(results []domain.ScoredChunk, topK int) []domain.ScoredChunk {
	if len(results) > topK {
		return results[:topK]
	}
	return results
}
