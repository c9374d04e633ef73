package domain

import "errors"

// Domain errors represent pipeline failures.
// Adapters wrap them with operation and resource context so callers can
// still match with errors.Is.
var (
	// ErrInvalidParameter indicates a bad chunk size, overlap, top-k or similar argument.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotFound indicates a missing document, conversation record or vector index.
	ErrNotFound = errors.New("not found")

	// ErrService indicates an external API failure (embedding, completion,
	// vector backend, record store, object store).
	ErrService = errors.New("service error")

	// ErrIO indicates the source document could not be read.
	ErrIO = errors.New("io error")

	// ErrParse indicates the source document could not be parsed.
	ErrParse = errors.New("parse error")

	// ErrUnsupportedType indicates a file type no extractor can handle.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the completion service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
