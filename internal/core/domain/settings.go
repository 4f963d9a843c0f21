package domain

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available embedding providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs on the local machine and
// is addressed through a base URL rather than an API key.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the embedding vector size. Zero means the known
	// default for Model.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// RetrievalSettings holds ranking configuration.
type RetrievalSettings struct {
	// TextThreshold is the minimum score for prose queries.
	TextThreshold float64

	// CodeThreshold is the minimum score for code queries.
	// Lower than TextThreshold: code embeddings cluster less tightly.
	CodeThreshold float64

	// TopK is the default result count.
	TopK int

	// TokenBudget is the default context assembly budget.
	TokenBudget int
}

// ThresholdFor returns the active minimum score for a content class.
// Untagged queries get the more permissive of the two thresholds.
func (r RetrievalSettings) ThresholdFor(class ContentClass) float64 {
	switch class {
	case ContentClassCode:
		return r.CodeThreshold
	case ContentClassText:
		return r.TextThreshold
	default:
		return min(r.CodeThreshold, r.TextThreshold)
	}
}

// RerankSettings holds cross-encoder rerank configuration.
type RerankSettings struct {
	// Enabled turns the optional rerank pass on.
	Enabled bool

	// Endpoint is the rerank API URL.
	Endpoint string

	// Model is the cross-encoder model name.
	Model string

	// APIKey authenticates against the endpoint, if required.
	APIKey string

	// Threshold is the minimum reranked score to keep a candidate.
	Threshold float64
}

// IsConfigured returns true if the reranker can be called.
func (r RerankSettings) IsConfigured() bool {
	return r.Enabled && r.Endpoint != ""
}

// ChunkingSettings holds chunker configuration.
type ChunkingSettings struct {
	// MaxTokens is the estimated token cap per chunk.
	MaxTokens int

	// OverlapTokens is the sliding-window overlap between chunks.
	OverlapTokens int
}

// IngestSettings holds ingestion validation configuration.
type IngestSettings struct {
	// MaxFileSizeBytes is the upper bound on ingestable files.
	MaxFileSizeBytes int64
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// Retrieval holds ranking settings.
	Retrieval RetrievalSettings

	// Rerank holds cross-encoder settings.
	Rerank RerankSettings

	// Chunking holds chunker settings.
	Chunking ChunkingSettings

	// Ingest holds ingestion validation settings.
	Ingest IngestSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The embedding provider defaults to a local Ollama instance so the
// tool works out of the box; OpenAI must be configured explicitly.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    "nomic-embed-text",
		},
		Retrieval: RetrievalSettings{
			TextThreshold: 0.45,
			CodeThreshold: 0.25,
			TopK:          5,
			TokenBudget:   2000,
		},
		Rerank: RerankSettings{
			Enabled:   false,
			Model:     "BAAI/bge-reranker-v2-m3",
			Threshold: 0.1,
		},
		Chunking: ChunkingSettings{
			MaxTokens:     500,
			OverlapTokens: 50,
		},
		Ingest: IngestSettings{
			MaxFileSizeBytes: 10 * 1024 * 1024,
		},
	}
}

// AllEmbeddingProviders returns the supported embedding providers.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
