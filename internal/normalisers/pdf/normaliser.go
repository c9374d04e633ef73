// Package pdf extracts the text layer of PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF documents. Scanned PDFs without a text layer
// yield empty text; OCR is not attempted.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise concatenates the plain text of every page.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (text string, err error) {
	if raw == nil {
		return "", fmt.Errorf("%w: nil document", domain.ErrInvalidParameter)
	}
	if !bytes.HasPrefix(raw.Content, []byte("%PDF-")) {
		return "", fmt.Errorf("%w: %s is missing the %%PDF header", domain.ErrParse, raw.URI)
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %s: malformed pdf: %v", domain.ErrParse, raw.URI, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", domain.ErrParse, raw.URI, err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: read text of %s: %w", domain.ErrParse, raw.URI, err)
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("%w: read text of %s: %w", domain.ErrParse, raw.URI, err)
	}
	return strings.TrimSpace(string(data)), nil
}
