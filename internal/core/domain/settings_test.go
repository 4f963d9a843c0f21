package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAIProvider_IsValid tests all valid and invalid providers
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{
			name:     "ollama is valid",
			provider: AIProviderOllama,
			expected: true,
		},
		{
			name:     "openai is valid",
			provider: AIProviderOpenAI,
			expected: true,
		},
		{
			name:     "empty string is invalid",
			provider: AIProvider(""),
			expected: false,
		},
		{
			name:     "unknown provider is invalid",
			provider: AIProvider("anthropic"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

// TestAIProvider_RequiresAPIKey tests API key requirements
func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
}

// TestEmbeddingSettings_IsConfigured tests provider configuration checks
func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{
			name:     "ollama needs no key",
			settings: EmbeddingSettings{Provider: AIProviderOllama, Model: "nomic-embed-text"},
			expected: true,
		},
		{
			name:     "openai without key",
			settings: EmbeddingSettings{Provider: AIProviderOpenAI, Model: "text-embedding-3-small"},
			expected: false,
		},
		{
			name:     "openai with key",
			settings: EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"},
			expected: true,
		},
		{
			name:     "invalid provider",
			settings: EmbeddingSettings{Provider: AIProvider("other")},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

// TestRetrievalSettings_ThresholdFor tests adaptive threshold selection
func TestRetrievalSettings_ThresholdFor(t *testing.T) {
	settings := RetrievalSettings{TextThreshold: 0.45, CodeThreshold: 0.25}

	tests := []struct {
		name     string
		class    ContentClass
		expected float64
	}{
		{
			name:     "code uses lower threshold",
			class:    ContentClassCode,
			expected: 0.25,
		},
		{
			name:     "text uses higher threshold",
			class:    ContentClassText,
			expected: 0.45,
		},
		{
			name:     "untagged uses the more permissive",
			class:    ContentClassAny,
			expected: 0.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, settings.ThresholdFor(tt.class), 1e-9)
		})
	}
}

// TestDefaultAppSettings tests default values
func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	assert.Equal(t, AIProviderOllama, settings.Embedding.Provider)
	assert.True(t, settings.Embedding.IsConfigured())
	assert.Greater(t, settings.Retrieval.TextThreshold, settings.Retrieval.CodeThreshold)
	assert.Positive(t, settings.Retrieval.TopK)
	assert.Positive(t, settings.Retrieval.TokenBudget)
	assert.False(t, settings.Rerank.Enabled)
	assert.Greater(t, settings.Chunking.MaxTokens, settings.Chunking.OverlapTokens)
	assert.Positive(t, settings.Ingest.MaxFileSizeBytes)
}

// TestEmbeddingDimensions tests the known model dimension table
func TestEmbeddingDimensions(t *testing.T) {
	dims := EmbeddingDimensions()

	require.NotEmpty(t, dims)
	assert.Equal(t, 768, dims["nomic-embed-text"])
	assert.Equal(t, 1536, dims["text-embedding-3-small"])
	assert.Equal(t, 3072, dims["text-embedding-3-large"])

	for _, provider := range AllEmbeddingProviders() {
		model := DefaultEmbeddingModels()[provider]
		require.NotEmpty(t, model)
		assert.Contains(t, dims, model)
	}
}
