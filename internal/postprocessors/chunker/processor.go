// Package chunker provides an overlapping word-window chunking processor.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of words per chunk.
const DefaultChunkSize = 400

// DefaultChunkOverlap is the default number of words shared by neighbouring chunks.
const DefaultChunkOverlap = 50

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor splits document text into overlapping word windows.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in words.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in words.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a new chunker processor with the given options.
// Invalid sizes are reported by Process, not silently corrected.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits text into chunks with IDs "{slug}-chunk-{i}".
func (p *Processor) Process(_ context.Context, slug, text string) ([]domain.Chunk, error) {
	texts, err := Chunk(text, p.chunkSize, p.overlap)
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = domain.Chunk{
			ID:           domain.ChunkID(slug, i),
			DocumentSlug: slug,
			Index:        i,
			Text:         t,
		}
	}
	return chunks, nil
}

// Chunk splits text on whitespace and returns windows of up to size words.
// Window i starts at word i*(size-overlap); windows continue while the start
// offset is inside the text. Empty text yields no chunks.
func Chunk(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidParameter, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", domain.ErrInvalidParameter, size, overlap)
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	stride := size - overlap
	chunks := make([]string, 0, (len(words)+stride-1)/stride)
	for start := 0; start < len(words); start += stride {
		end := min(start+size, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks, nil
}
