// Package domain defines the core business entities for Retriva.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested file with metadata
//   - DocumentChunk: An embedded slice of a document's text
//   - ScoredChunk: A chunk ranked against one query
//   - AssembledContext: A token-budgeted, citation-tagged context block
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
