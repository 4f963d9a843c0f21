package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations distinguish their failure causes through the domain
// sentinels: ErrProviderUnreachable when the endpoint cannot be
// reached, ErrModelNotLoaded when the model is missing on the
// provider, and ErrContextLengthExceeded when the input is too long
// for the model (checked client-side before the call).
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	// Fixed by the model; every chunk of a document shares it.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup to fail fast on a dead provider.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
