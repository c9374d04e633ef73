// Package domain defines the core entities of the docu pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: An overlapping word window of a document
//   - IndexEntry / Match: What the vector index stores and returns
//   - Message / Conversation: Per-document chat history
//   - Request / Response: One pipeline run in a given Mode
//   - Settings: Process-wide configuration
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
