// Package tokens counts model tokens for the prompt history budget.
package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.TokenCounter = (*Counter)(nil)

// DefaultEncoding is used when the model has no known encoding.
const DefaultEncoding = "cl100k_base"

// Counter counts tokens with a tiktoken encoding.
type Counter struct {
	encoding string
	tke      *tiktoken.Tiktoken
}

// NewCounter creates a counter for a model name or encoding name. Unknown
// names fall back to cl100k_base, which is close enough for budgeting
// non-OpenAI models.
func NewCounter(modelOrEncoding string) (*Counter, error) {
	if modelOrEncoding == "" {
		modelOrEncoding = DefaultEncoding
	}

	tke, err := tiktoken.GetEncoding(modelOrEncoding)
	if err != nil {
		tke, err = tiktoken.EncodingForModel(modelOrEncoding)
	}
	if err != nil {
		modelOrEncoding = DefaultEncoding
		tke, err = tiktoken.GetEncoding(DefaultEncoding)
		if err != nil {
			return nil, fmt.Errorf("%w: load encoding %s: %w", domain.ErrService, DefaultEncoding, err)
		}
	}

	return &Counter{encoding: modelOrEncoding, tke: tke}, nil
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.tke.Encode(text, nil, nil))
}

// Encoding returns the name of the encoding or model in use.
func (c *Counter) Encoding() string {
	return c.encoding
}
