// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - DocumentStore: Document metadata persistence
//   - ChunkStore: Chunk text and embedding persistence
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Embeddings are stored as little-endian float32 BLOBs;
// no similarity index is maintained, so retrieval cost grows linearly with the
// number of stored chunks.
//
// # Data Location
//
// By default, the database is stored at ~/.retriva/data/retriva.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
