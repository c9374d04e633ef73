package services

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gosimple/slug"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

// DefaultSlugMaxLength is the default index name length limit.
const DefaultSlugMaxLength = 45

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRuns   = regexp.MustCompile(`-{2,}`)
)

// Slugify derives a backend-safe index name from an arbitrary document name.
// Output contains only [a-z0-9-], never starts or ends with a hyphen and is
// at most maxLength bytes. A non-positive maxLength disables truncation.
// Slugify is idempotent. Distinct names may collide.
func Slugify(name string, maxLength int) string {
	s := strings.ToLower(name)
	s = nonSlugChars.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if maxLength > 0 && len(s) > maxLength {
		s = strings.TrimRight(s[:maxLength], "-")
	}
	return s
}

// Namer derives index names with the configured length limit.
type Namer struct {
	maxLength     int
	transliterate bool
}

// NewNamer creates a namer from settings.
func NewNamer(settings domain.NamingSettings) *Namer {
	n := &Namer{
		maxLength:     settings.MaxLength,
		transliterate: settings.Transliterate,
	}
	if n.maxLength <= 0 {
		n.maxLength = DefaultSlugMaxLength
	}
	return n
}

// Name returns the index name for a document name.
// With transliteration enabled, accented letters become their ASCII
// equivalent ("Ärger" -> "arger") instead of a hyphen.
func (n *Namer) Name(name string) string {
	if n.transliterate {
		name = slug.Make(name)
	}
	return Slugify(name, n.maxLength)
}

// FromFilename returns the index name for a file path, ignoring the
// directory and extension.
func (n *Namer) FromFilename(path string) string {
	return n.Name(DocumentNameFromPath(path))
}

// DocumentNameFromPath returns the file name without directory or extension.
func DocumentNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
