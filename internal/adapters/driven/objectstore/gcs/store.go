// Package gcs uploads documents to a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.ObjectStore = (*Store)(nil)

// PublicHost is the host public object URLs are built on.
const PublicHost = "https://storage.googleapis.com"

// Config holds bucket settings.
type Config struct {
	Bucket string
	// CredentialsFile is a service account JSON key. Empty uses application
	// default credentials.
	CredentialsFile string
	// Endpoint overrides the API endpoint, e.g. for a local emulator.
	// Authentication is disabled when set.
	Endpoint string
}

// openFunc opens a writer for a single object.
type openFunc func(ctx context.Context, key, contentType string) io.WriteCloser

// Store uploads objects to one bucket.
type Store struct {
	bucket  string
	baseURL string
	client  *storage.Client
	open    openFunc
}

// NewStore connects to Cloud Storage.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("%w: bucket name is required", domain.ErrInvalidParameter)
	}

	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	baseURL := PublicHost
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
		baseURL = strings.TrimSuffix(cfg.Endpoint, "/")
	} else if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create storage client: %w", domain.ErrService, err)
	}

	s := &Store{bucket: cfg.Bucket, baseURL: baseURL, client: client}
	s.open = func(ctx context.Context, key, contentType string) io.WriteCloser {
		w := client.Bucket(cfg.Bucket).Object(key).NewWriter(ctx)
		w.ContentType = contentType
		return w
	}
	return s, nil
}

// Upload writes data to the bucket under key and returns its public URL.
func (s *Store) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: object key is required", domain.ErrInvalidParameter)
	}

	w := s.open(ctx, key, contentType)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("%w: write gs://%s/%s: %w", domain.ErrService, s.bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: upload gs://%s/%s: %w", domain.ErrService, s.bucket, key, err)
	}
	return objectURL(s.baseURL, s.bucket, key), nil
}

// Close releases the storage client.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func objectURL(base, bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return base + "/" + url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}
