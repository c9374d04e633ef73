// Package pinecone provides a vector index adapter for Pinecone serverless indexes.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.pinecone.io"
	DefaultAPIVersion = "2025-04"
	DefaultCloud      = "aws"
	DefaultRegion     = "us-east-1"
	DefaultTimeout    = 30 * time.Second

	// upsertBatchSize keeps each request under the data plane payload limit.
	upsertBatchSize = 100
)

// Config holds configuration for the Pinecone adapter.
type Config struct {
	// APIKey is the Pinecone API key (required).
	APIKey string

	// BaseURL is the control plane URL (default: https://api.pinecone.io).
	BaseURL string

	// APIVersion is sent as X-Pinecone-Api-Version.
	APIVersion string

	// Cloud and Region select the serverless placement for new indexes.
	Cloud  string
	Region string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Index talks to the Pinecone control and data planes over REST.
// Index hosts are resolved once per name and cached.
type Index struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	apiVersion string
	cloud      string
	region     string

	mu    sync.RWMutex
	hosts map[string]string
}

// New creates a Pinecone index adapter.
func New(cfg Config) (*Index, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: pinecone: API key is required", domain.ErrInvalidParameter)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Cloud == "" {
		cfg.Cloud = DefaultCloud
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Index{
		client:     client,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		apiVersion: cfg.APIVersion,
		cloud:      cfg.Cloud,
		region:     cfg.Region,
		hosts:      make(map[string]string),
	}, nil
}

type createIndexRequest struct {
	Name      string    `json:"name"`
	Dimension int       `json:"dimension"`
	Metric    string    `json:"metric"`
	Spec      indexSpec `json:"spec"`
}

type indexSpec struct {
	Serverless serverlessSpec `json:"serverless"`
}

type serverlessSpec struct {
	Cloud  string `json:"cloud"`
	Region string `json:"region"`
}

type indexDescription struct {
	Name      string `json:"name"`
	Host      string `json:"host"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric"`
	Status    struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

type vector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Vectors []vector `json:"vectors"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []struct {
		ID       string         `json:"id"`
		Score    float32        `json:"score"`
		Metadata map[string]any `json:"metadata,omitempty"`
	} `json:"matches"`
}

type statsResponse struct {
	Dimension        int `json:"dimension"`
	TotalVectorCount int `json:"totalVectorCount"`
}

// statusError is a non-2xx response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.code, e.body)
}

// Create makes a serverless index. An existing index is left untouched.
func (x *Index) Create(ctx context.Context, name string, dimension int, metric domain.Metric) error {
	if dimension <= 0 {
		return fmt.Errorf("%w: pinecone: dimension must be positive", domain.ErrInvalidParameter)
	}
	if !metric.IsValid() {
		return fmt.Errorf("%w: pinecone: unknown metric %q", domain.ErrInvalidParameter, metric)
	}

	body := createIndexRequest{
		Name:      name,
		Dimension: dimension,
		Metric:    string(metric),
		Spec:      indexSpec{Serverless: serverlessSpec{Cloud: x.cloud, Region: x.region}},
	}
	err := x.do(ctx, http.MethodPost, x.baseURL+"/indexes", body, nil)
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusConflict {
		return nil
	}
	return wrap(err, "create index", name)
}

// Upsert writes entries in batches.
func (x *Index) Upsert(ctx context.Context, name string, entries []domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	host, err := x.host(ctx, name)
	if err != nil {
		return err
	}

	for batch := range slices.Chunk(entries, upsertBatchSize) {
		req := upsertRequest{Vectors: make([]vector, len(batch))}
		for i, e := range batch {
			req.Vectors[i] = vector{ID: e.ID, Values: e.Vector, Metadata: e.Metadata}
		}
		if err := x.do(ctx, http.MethodPost, host+"/vectors/upsert", req, nil); err != nil {
			return wrap(err, "upsert into", name)
		}
	}
	return nil
}

// Query returns the topK nearest vectors with metadata.
func (x *Index) Query(ctx context.Context, name string, vec []float32, topK int) ([]domain.Match, error) {
	host, err := x.host(ctx, name)
	if err != nil {
		return nil, err
	}

	var resp queryResponse
	req := queryRequest{Vector: vec, TopK: topK, IncludeMetadata: true}
	if err := x.do(ctx, http.MethodPost, host+"/query", req, &resp); err != nil {
		return nil, wrap(err, "query", name)
	}

	matches := make([]domain.Match, len(resp.Matches))
	for i, m := range resp.Matches {
		matches[i] = domain.Match{ID: m.ID, Score: m.Score, Metadata: m.Metadata}
	}
	return matches, nil
}

// Stats reports the vector count of the index.
func (x *Index) Stats(ctx context.Context, name string) (domain.IndexStats, error) {
	host, err := x.host(ctx, name)
	if err != nil {
		return domain.IndexStats{}, err
	}

	var resp statsResponse
	if err := x.do(ctx, http.MethodPost, host+"/describe_index_stats", struct{}{}, &resp); err != nil {
		return domain.IndexStats{}, wrap(err, "describe stats of", name)
	}
	return domain.IndexStats{VectorCount: resp.TotalVectorCount, Dimension: resp.Dimension}, nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// host resolves the data plane URL for an index via describe_index.
func (x *Index) host(ctx context.Context, name string) (string, error) {
	x.mu.RLock()
	h, ok := x.hosts[name]
	x.mu.RUnlock()
	if ok {
		return h, nil
	}

	var desc indexDescription
	if err := x.do(ctx, http.MethodGet, x.baseURL+"/indexes/"+name, nil, &desc); err != nil {
		return "", wrap(err, "describe index", name)
	}
	if strings.TrimSpace(desc.Host) == "" {
		return "", fmt.Errorf("%w: pinecone: index %s is not ready", domain.ErrNotFound, name)
	}

	h = desc.Host
	if !strings.HasPrefix(h, "http://") && !strings.HasPrefix(h, "https://") {
		h = "https://" + h
	}
	h = strings.TrimRight(h, "/")

	x.mu.Lock()
	x.hosts[name] = h
	x.mu.Unlock()
	return h, nil
}

func (x *Index) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Api-Key", x.apiKey)
	req.Header.Set("X-Pinecone-Api-Version", x.apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(raw))}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// wrap classifies an error: 404 becomes ErrNotFound, the rest ErrService.
func wrap(err error, op, name string) error {
	if err == nil {
		return nil
	}
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return fmt.Errorf("%w: pinecone: %s index %s: %w", domain.ErrNotFound, op, name, err)
	}
	return fmt.Errorf("%w: pinecone: %s index %s: %w", domain.ErrService, op, name, err)
}
