// Package ai builds provider adapters from user settings.
//
// It is the single place that maps domain.AIProvider values onto the
// concrete embedding adapters, so the composition root never imports
// provider packages directly. Construction never touches the network;
// connectivity problems surface on first use as
// domain.ErrProviderUnreachable.
package ai

import (
	"fmt"

	ollamaembed "github.com/custodia-labs/retriva/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/retriva/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/retriva/internal/adapters/driven/rerank/httpapi"
	"github.com/custodia-labs/retriva/internal/core/domain"
	"github.com/custodia-labs/retriva/internal/core/ports/driven"
)

// NewEmbeddingService creates the embedding adapter selected by the
// settings. The caller owns the returned service and must Close it.
//
// When settings.Dimensions is zero the dimension is looked up from the
// known-model table, leaving the adapter's own default as the final
// fallback for models we have never heard of.
func NewEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// NewReranker creates the rerank adapter when reranking is switched on.
// Returns (nil, nil) when the settings leave it disabled or incomplete;
// search then keeps its vector-similarity ordering.
func NewReranker(settings domain.RerankSettings) (driven.RerankService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	reranker, err := httpapi.NewReranker(httpapi.Config{
		Endpoint: settings.Endpoint,
		Model:    settings.Model,
		APIKey:   settings.APIKey,
	})
	if err != nil {
		return nil, err
	}
	return reranker, nil
}
