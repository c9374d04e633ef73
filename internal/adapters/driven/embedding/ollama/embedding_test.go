package ollama

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

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, 768, svc.Dimensions())
	assert.NoError(t, svc.Close())
}

func TestEmbeddingService_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tiny-embed", req.Model)
		assert.Equal(t, "clause text", req.Prompt)
		_, _ = w.Write([]byte(`{"embedding":[0.5,-0.5]}`))
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL, Model: "tiny-embed"})
	assert.Equal(t, 0, svc.Dimensions())

	vec, err := svc.Embed(context.Background(), "clause text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.5}, vec)
	assert.Equal(t, 2, svc.Dimensions())
}

func TestEmbeddingService_EmbedErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `model not found`},
		{"empty embedding", http.StatusOK, `{"embedding":[]}`},
		{"bad json", http.StatusOK, `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewEmbeddingService(Config{BaseURL: server.URL}).Embed(context.Background(), "x")
			assert.ErrorIs(t, err, domain.ErrService)
		})
	}
}

func TestEmbeddingService_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	assert.NoError(t, NewEmbeddingService(Config{BaseURL: server.URL}).Ping(context.Background()))
	assert.Error(t, NewEmbeddingService(Config{BaseURL: server.URL + "/nope"}).Ping(context.Background()))
}
