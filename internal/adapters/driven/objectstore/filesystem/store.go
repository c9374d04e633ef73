// Package filesystem stores uploaded documents in a local directory.
package filesystem

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.ObjectStore = (*Store)(nil)

// DefaultDirName is the directory under ~/.docu used when none is configured.
const DefaultDirName = "documents"

// Store writes objects as files under a root directory.
type Store struct {
	fs   afero.Fs
	root string
}

// NewStore creates a store rooted at dir on the given filesystem. An empty
// dir defaults to ~/.docu/documents.
func NewStore(fs afero.Fs, dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: get home directory: %w", domain.ErrIO, err)
		}
		dir = filepath.Join(home, ".docu", DefaultDirName)
	}
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", domain.ErrIO, dir, err)
	}
	return &Store{fs: fs, root: dir}, nil
}

// NewOsStore creates a store on the real filesystem.
func NewOsStore(dir string) (*Store, error) {
	return NewStore(afero.NewOsFs(), dir)
}

// Upload writes data to root/key and returns a file:// URL. Keys may not
// escape the root directory.
func (s *Store) Upload(_ context.Context, key, _ string, data []byte) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: object key %q", domain.ErrInvalidParameter, key)
	}

	path := filepath.Join(s.root, clean)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("%w: create directory for %s: %w", domain.ErrService, key, err)
	}
	if err := afero.WriteFile(s.fs, path, data, 0o600); err != nil {
		return "", fmt.Errorf("%w: write object %s: %w", domain.ErrService, key, err)
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String(), nil
}

// Root returns the directory objects are written to.
func (s *Store) Root() string {
	return s.root
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}
