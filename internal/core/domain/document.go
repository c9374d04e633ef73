package domain

import "fmt"

// Chunk is one overlapping word window of a document.
// Chunks are produced deterministically and never mutated.
type Chunk struct {
	// ID is "{slug}-chunk-{index}".
	ID string

	// DocumentSlug is the index name of the source document.
	DocumentSlug string

	// Index is the zero-based position within the document.
	Index int

	// Text is the chunk's words joined by single spaces.
	Text string
}

// ChunkID returns the stable identifier for chunk i of the given index.
func ChunkID(slug string, i int) string {
	return fmt.Sprintf("%s-chunk-%d", slug, i)
}

// ExtractedDocument is the text pulled from a source file before chunking.
type ExtractedDocument struct {
	// Path is where the document was read from, or the uploaded file name.
	Path string

	// Name is the human-readable document name, usually the file name
	// without its extension.
	Name string

	// MimeType is the detected content type.
	MimeType string

	// Text is the full extracted text.
	Text string

	// Raw holds the original bytes for optional object-store upload.
	Raw []byte
}
