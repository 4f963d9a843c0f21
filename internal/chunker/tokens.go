package chunker

import (
	"math"
	"strings"
)

// DefaultWordsPerToken is the calibrated words-to-tokens ratio.
// English prose averages roughly 0.75 words per BPE token, so
// tokens = words / 0.75. The same ratio is applied everywhere a token
// estimate is needed (chunk sizing, budget checks, provider
// pre-flight); it is an estimate, not a tokenizer.
const DefaultWordsPerToken = 0.75

// EstimateTokens estimates the token count of text using the default
// words-per-token ratio.
func EstimateTokens(text string) int {
	return estimateFromWords(countWords(text), DefaultWordsPerToken)
}

func countWords(text string) int {
	return len(strings.Fields(text))
}

func estimateFromWords(words int, wordsPerToken float64) int {
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / wordsPerToken))
}
