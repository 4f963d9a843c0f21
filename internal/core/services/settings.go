package services

import (
	"fmt"

	"github.com/custodia-labs/retriva/internal/core/domain"
	"github.com/custodia-labs/retriva/internal/core/ports/driven"
	"github.com/custodia-labs/retriva/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDimensions = "embedding.dimensions"
	keyTextThreshold   = "retrieval.text_threshold"
	keyCodeThreshold   = "retrieval.code_threshold"
	keyTopK            = "retrieval.top_k"
	keyTokenBudget     = "retrieval.token_budget"
	keyRerankEnabled   = "rerank.enabled"
	keyRerankEndpoint  = "rerank.endpoint"
	keyRerankModel     = "rerank.model"
	keyRerankAPIKey    = "rerank.api_key"
	keyRerankThreshold = "rerank.threshold"
	keyChunkMaxTokens  = "chunking.max_tokens"
	keyChunkOverlap    = "chunking.overlap_tokens"
	keyMaxFileSize     = "ingest.max_file_size_bytes"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:      s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: s.configStore.GetInt(keyEmbedDimensions), // Zero means the model's known default
		},
		Retrieval: domain.RetrievalSettings{
			TextThreshold: s.getFloat(keyTextThreshold, defaults.Retrieval.TextThreshold),
			CodeThreshold: s.getFloat(keyCodeThreshold, defaults.Retrieval.CodeThreshold),
			TopK:          s.getInt(keyTopK, defaults.Retrieval.TopK),
			TokenBudget:   s.getInt(keyTokenBudget, defaults.Retrieval.TokenBudget),
		},
		Rerank: domain.RerankSettings{
			Enabled:   s.getBool(keyRerankEnabled, defaults.Rerank.Enabled),
			Endpoint:  s.configStore.GetString(keyRerankEndpoint),
			Model:     s.getString(keyRerankModel, defaults.Rerank.Model),
			APIKey:    s.configStore.GetString(keyRerankAPIKey),
			Threshold: s.getFloat(keyRerankThreshold, defaults.Rerank.Threshold),
		},
		Chunking: domain.ChunkingSettings{
			MaxTokens:     s.getInt(keyChunkMaxTokens, defaults.Chunking.MaxTokens),
			OverlapTokens: s.getInt(keyChunkOverlap, defaults.Chunking.OverlapTokens),
		},
		Ingest: domain.IngestSettings{
			MaxFileSizeBytes: int64(s.getInt(keyMaxFileSize, int(defaults.Ingest.MaxFileSizeBytes))),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.Embedding.Dimensions > 0 {
		if err := s.configStore.Set(keyEmbedDimensions, settings.Embedding.Dimensions); err != nil {
			return fmt.Errorf("save embedding dimensions: %w", err)
		}
	}

	// Save retrieval settings
	if err := s.configStore.Set(keyTextThreshold, settings.Retrieval.TextThreshold); err != nil {
		return fmt.Errorf("save text threshold: %w", err)
	}
	if err := s.configStore.Set(keyCodeThreshold, settings.Retrieval.CodeThreshold); err != nil {
		return fmt.Errorf("save code threshold: %w", err)
	}
	if err := s.configStore.Set(keyTopK, settings.Retrieval.TopK); err != nil {
		return fmt.Errorf("save top_k: %w", err)
	}
	if err := s.configStore.Set(keyTokenBudget, settings.Retrieval.TokenBudget); err != nil {
		return fmt.Errorf("save token budget: %w", err)
	}

	// Save rerank settings
	if err := s.configStore.Set(keyRerankEnabled, settings.Rerank.Enabled); err != nil {
		return fmt.Errorf("save rerank enabled: %w", err)
	}
	if err := s.configStore.Set(keyRerankEndpoint, settings.Rerank.Endpoint); err != nil {
		return fmt.Errorf("save rerank endpoint: %w", err)
	}
	if err := s.configStore.Set(keyRerankModel, settings.Rerank.Model); err != nil {
		return fmt.Errorf("save rerank model: %w", err)
	}
	if settings.Rerank.APIKey != "" {
		if err := s.configStore.Set(keyRerankAPIKey, settings.Rerank.APIKey); err != nil {
			return fmt.Errorf("save rerank api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyRerankThreshold, settings.Rerank.Threshold); err != nil {
		return fmt.Errorf("save rerank threshold: %w", err)
	}

	// Save chunking settings
	if err := s.configStore.Set(keyChunkMaxTokens, settings.Chunking.MaxTokens); err != nil {
		return fmt.Errorf("save chunking max_tokens: %w", err)
	}
	if err := s.configStore.Set(keyChunkOverlap, settings.Chunking.OverlapTokens); err != nil {
		return fmt.Errorf("save chunking overlap_tokens: %w", err)
	}

	// Save ingest settings
	if err := s.configStore.Set(keyMaxFileSize, settings.Ingest.MaxFileSizeBytes); err != nil {
		return fmt.Errorf("save max file size: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate provider supports embeddings
	validProviders := domain.AllEmbeddingProviders()
	valid := false
	for _, p := range validProviders {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		defaults := domain.DefaultEmbeddingModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.Embedding.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.Embedding.BaseURL = ""
	}

	// Set API key
	settings.Embedding.APIKey = apiKey

	// Update stored dimensions to match the model
	dims := domain.EmbeddingDimensions()
	if d, ok := dims[settings.Embedding.Model]; ok {
		settings.Embedding.Dimensions = d
	}

	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	// Zero is a meaningful threshold, so presence decides, not value.
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
