// Package qdrant provides a vector index adapter for Qdrant's REST API.
// Each index name maps to one collection.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultURL     = "http://localhost:6333"
	DefaultTimeout = 15 * time.Second
)

// payloadID holds the caller's entry id. Qdrant point ids must be
// unsigned integers or UUIDs, so entries are keyed by a name-based UUID.
const payloadID = "entry_id"

var distances = map[domain.Metric]string{
	domain.MetricCosine:     "Cosine",
	domain.MetricEuclidean:  "Euclid",
	domain.MetricDotProduct: "Dot",
}

// Config holds configuration for the Qdrant adapter.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Index is a minimal REST client to Qdrant.
type Index struct {
	url    string
	apiKey string
	client *http.Client
}

// New creates a Qdrant index adapter.
func New(cfg Config) *Index {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Index{
		url:    strings.TrimRight(cfg.URL, "/"),
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type collectionInfo struct {
	Result struct {
		PointsCount int `json:"points_count"`
		Config      struct {
			Params struct {
				Vectors struct {
					Size int `json:"size"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

type point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload,omitempty"`
}

type searchResponse struct {
	Result []struct {
		ID      any            `json:"id"`
		Score   float32        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.code, e.body)
}

// PointID returns the Qdrant point id for an entry id.
func PointID(entryID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(entryID)).String()
}

// Create makes the collection unless it already exists.
func (x *Index) Create(ctx context.Context, name string, dimension int, metric domain.Metric) error {
	if dimension <= 0 {
		return fmt.Errorf("%w: qdrant: dimension must be positive", domain.ErrInvalidParameter)
	}
	distance, ok := distances[metric]
	if !ok {
		return fmt.Errorf("%w: qdrant: unknown metric %q", domain.ErrInvalidParameter, metric)
	}

	err := x.do(ctx, http.MethodGet, x.collectionURL(name), nil, nil)
	if err == nil {
		return nil
	}
	if !isStatus(err, http.StatusNotFound) {
		return wrap(err, "check collection", name)
	}

	body := map[string]any{
		"vectors": map[string]any{"size": dimension, "distance": distance},
	}
	err = x.do(ctx, http.MethodPut, x.collectionURL(name), body, nil)
	if isStatus(err, http.StatusConflict) {
		return nil
	}
	return wrap(err, "create collection", name)
}

// Upsert writes all entries in one request and waits for them to be indexed.
func (x *Index) Upsert(ctx context.Context, name string, entries []domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	points := make([]point, len(entries))
	for i, e := range entries {
		payload := make(map[string]any, len(e.Metadata)+1)
		for k, v := range e.Metadata {
			payload[k] = v
		}
		payload[payloadID] = e.ID
		points[i] = point{ID: PointID(e.ID), Vector: e.Vector, Payload: payload}
	}

	body := map[string]any{"points": points}
	err := x.do(ctx, http.MethodPut, x.collectionURL(name)+"/points?wait=true", body, nil)
	return wrap(err, "upsert into", name)
}

// Query searches the collection and returns matches with their payloads.
func (x *Index) Query(ctx context.Context, name string, vec []float32, topK int) ([]domain.Match, error) {
	body := map[string]any{
		"vector":       vec,
		"limit":        topK,
		"with_payload": true,
	}
	var resp searchResponse
	if err := x.do(ctx, http.MethodPost, x.collectionURL(name)+"/points/search", body, &resp); err != nil {
		return nil, wrap(err, "search", name)
	}

	matches := make([]domain.Match, len(resp.Result))
	for i, r := range resp.Result {
		id, _ := r.Payload[payloadID].(string)
		if id == "" {
			id = fmt.Sprint(r.ID)
		}
		delete(r.Payload, payloadID)
		matches[i] = domain.Match{ID: id, Score: r.Score, Metadata: r.Payload}
	}
	return matches, nil
}

// Stats reads the collection's point count.
func (x *Index) Stats(ctx context.Context, name string) (domain.IndexStats, error) {
	var info collectionInfo
	if err := x.do(ctx, http.MethodGet, x.collectionURL(name), nil, &info); err != nil {
		return domain.IndexStats{}, wrap(err, "describe collection", name)
	}
	return domain.IndexStats{
		VectorCount: info.Result.PointsCount,
		Dimension:   info.Result.Config.Params.Vectors.Size,
	}, nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

func (x *Index) collectionURL(name string) string {
	return x.url + "/collections/" + name
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
	req.Header.Set("Content-Type", "application/json")
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
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
	if resp.StatusCode >= 300 {
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isStatus(err error, code int) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == code
}

func wrap(err error, op, name string) error {
	if err == nil {
		return nil
	}
	if isStatus(err, http.StatusNotFound) {
		return fmt.Errorf("%w: qdrant: %s %s: %w", domain.ErrNotFound, op, name, err)
	}
	return fmt.Errorf("%w: qdrant: %s %s: %w", domain.ErrService, op, name, err)
}
