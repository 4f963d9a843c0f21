// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Document persistence
//   - ChunkStore: Chunk and embedding persistence
//   - ProgressStore: Background ingestion progress tracking
//   - ConfigStore: Application configuration
//   - EmbeddingService: Generates vector embeddings. Ingestion and
//     retrieval are disabled without it.
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RerankService: Cross-encoder re-scoring. Without it, results keep
//     their vector-similarity ordering.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
