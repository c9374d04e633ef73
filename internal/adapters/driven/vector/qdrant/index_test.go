package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

type fakeQdrant struct {
	collections map[string]int
	points      map[string][]point
	puts        int
}

func newFakeQdrant(t *testing.T) (*fakeQdrant, *httptest.Server) {
	t.Helper()
	f := &fakeQdrant{collections: map[string]int{}, points: map[string][]point{}}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /collections/{name}", func(w http.ResponseWriter, r *http.Request) {
		size, ok := f.collections[r.PathValue("name")]
		if !ok {
			http.Error(w, `{"status":{"error":"Not found"}}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"result": map[string]any{
			"points_count": len(f.points[r.PathValue("name")]),
			"config":       map[string]any{"params": map[string]any{"vectors": map[string]any{"size": size}}},
		}})
	})
	mux.HandleFunc("PUT /collections/{name}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Vectors struct {
				Size     int    `json:"size"`
				Distance string `json:"distance"`
			} `json:"vectors"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Cosine", body.Vectors.Distance)
		f.puts++
		f.collections[r.PathValue("name")] = body.Vectors.Size
		_, _ = w.Write([]byte(`{"result":true}`))
	})
	mux.HandleFunc("PUT /collections/{name}/points", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		var body struct {
			Points []point `json:"points"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		name := r.PathValue("name")
		if _, ok := f.collections[name]; !ok {
			http.Error(w, `{}`, http.StatusNotFound)
			return
		}
		f.points[name] = append(f.points[name], body.Points...)
		_, _ = w.Write([]byte(`{"result":{"status":"completed"}}`))
	})
	mux.HandleFunc("POST /collections/{name}/points/search", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Limit       int  `json:"limit"`
			WithPayload bool `json:"with_payload"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body.WithPayload)
		pts := f.points[r.PathValue("name")]
		result := make([]map[string]any, 0, body.Limit)
		for i := 0; i < len(pts) && i < body.Limit; i++ {
			result = append(result, map[string]any{"id": pts[i].ID, "score": 0.5, "payload": pts[i].Payload})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"result": result})
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)
	return f, server
}

func TestPointID_Deterministic(t *testing.T) {
	assert.Equal(t, PointID("lease-chunk-0"), PointID("lease-chunk-0"))
	assert.NotEqual(t, PointID("lease-chunk-0"), PointID("lease-chunk-1"))
}

func TestIndex_CreateIsIdempotent(t *testing.T) {
	f, server := newFakeQdrant(t)
	idx := New(Config{URL: server.URL, APIKey: "secret"})
	ctx := context.Background()

	require.NoError(t, idx.Create(ctx, "lease", 4, domain.MetricCosine))
	require.NoError(t, idx.Create(ctx, "lease", 4, domain.MetricCosine))

	assert.Equal(t, 1, f.puts)
	assert.Equal(t, 4, f.collections["lease"])
}

func TestIndex_CreateRejectsUnknownMetric(t *testing.T) {
	_, server := newFakeQdrant(t)
	idx := New(Config{URL: server.URL, APIKey: "secret"})

	err := idx.Create(context.Background(), "lease", 4, "hamming")

	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestIndex_UpsertQueryStats(t *testing.T) {
	f, server := newFakeQdrant(t)
	idx := New(Config{URL: server.URL, APIKey: "secret"})
	ctx := context.Background()

	_, err := idx.Stats(ctx, "lease")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, idx.Create(ctx, "lease", 2, domain.MetricCosine))
	entries := []domain.IndexEntry{
		{ID: "lease-chunk-0", Vector: []float32{1, 0}, Metadata: map[string]any{domain.MetadataText: "first"}},
		{ID: "lease-chunk-1", Vector: []float32{0, 1}, Metadata: map[string]any{domain.MetadataText: "second"}},
	}
	require.NoError(t, idx.Upsert(ctx, "lease", entries))
	require.Len(t, f.points["lease"], 2)
	assert.Equal(t, PointID("lease-chunk-0"), f.points["lease"][0].ID)

	stats, err := idx.Stats(ctx, "lease")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.VectorCount)
	assert.Equal(t, 2, stats.Dimension)

	matches, err := idx.Query(ctx, "lease", []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "lease-chunk-0", matches[0].ID)
	assert.Equal(t, "first", matches[0].Text())
	assert.NotContains(t, matches[0].Metadata, payloadID)
}

func TestIndex_UpsertMissingCollection(t *testing.T) {
	_, server := newFakeQdrant(t)
	idx := New(Config{URL: server.URL, APIKey: "secret"})

	err := idx.Upsert(context.Background(), "missing", []domain.IndexEntry{{ID: "a", Vector: []float32{1}}})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
