// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Text to fixed-length vector
//   - CompletionService: Ordered messages to generated text
//   - VectorIndex: Per-document vector storage and top-k search
//   - ConversationStore: Per-document record with chat history
//   - Extractor: Source file to plain text
//
// # Optional Interfaces
//
// These can be nil - the pipeline degrades gracefully:
//
//   - ObjectStore: Raw document upload at ingestion
//   - TokenCounter: Token-budgeted history window
//   - PromptStore: User-editable prompt templates (defaults are built in)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
