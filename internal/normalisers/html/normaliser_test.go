package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

func TestNormaliser_Metadata(t *testing.T) {
	n := New()
	assert.ElementsMatch(t, []string{"text/html", "application/xhtml+xml"}, n.SupportedMIMETypes())
	assert.Equal(t, 50, n.Priority())
}

func TestNormalise_NilDocument(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestNormalise_Page(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head><title>Privacy Policy</title><style>body{margin:0}</style></head>
<body>
  <h1>Privacy Policy</h1>
  <p>We collect <strong>only</strong> what we need.</p>
  <script>track();</script>
  <ul><li>Email address</li><li>Billing details</li></ul>
</body>
</html>`

	text, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI: "privacy.html", MIMEType: "text/html", Content: []byte(page),
	})

	require.NoError(t, err)
	assert.Equal(t, "Privacy Policy\nWe collect only what we need.\nEmail address\nBilling details", text)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"paragraphs", "<p>Clause one.</p><p>Clause two.</p>", "Clause one.\nClause two."},
		{"inline tags", "<p><em>Force</em> majeure</p>", "Force majeure"},
		{"entities", "<p>Smith &amp; Sons &lt;Ltd&gt;</p>", "Smith & Sons <Ltd>"},
		{"line breaks", "Signed<br>Dated<br/>Witnessed", "Signed\nDated\nWitnessed"},
		{"comments", "<p>A</p><!-- draft note --><p>B</p>", "A\nB"},
		{"noscript and svg", "<noscript>x</noscript><svg><path/></svg><div>Kept</div>", "Kept"},
		{"collapses spaces", "<p>too    many \t spaces</p>", "too many spaces"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stripHTML(tc.input))
		})
	}
}
