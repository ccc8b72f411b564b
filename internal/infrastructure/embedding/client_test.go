package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvmatch/backend/internal/domain"
)

// newInferenceServer fakes a text-embeddings inference server: healthy, and
// answering /embed_all with the given token matrix.
func newInferenceServer(t *testing.T, tokens [][]float64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/embed_all", func(w http.ResponseWriter, r *http.Request) {
		var req embedAllRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.True(t, req.Truncate)
		require.NoError(t, json.NewEncoder(w).Encode([][][]float64{tokens}))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestEmbed(t *testing.T) {
	ctx := context.Background()

	t.Run("mean pools token vectors into one document vector", func(t *testing.T) {
		server := newInferenceServer(t, [][]float64{{1, 0, 3}, {0, 1, 1}})
		client := NewClient(Config{BaseURL: server.URL, Model: "distilbert-base-uncased"})

		vector, err := client.Embed(ctx, "Go developer")
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, 0.5, 2}, vector)
		assert.Equal(t, 3, client.Dimension())
	})

	t.Run("accepts a bare token matrix response", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {})
		mux.HandleFunc("/embed_all", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewEncoder(w).Encode([][]float64{{2, 4}, {0, 0}}))
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)
		client := NewClient(Config{BaseURL: server.URL})

		vector, err := client.Embed(ctx, "Go developer")
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2}, vector)
	})

	t.Run("truncates pathologically long inputs", func(t *testing.T) {
		var received string
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {})
		mux.HandleFunc("/embed_all", func(w http.ResponseWriter, r *http.Request) {
			var req embedAllRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			received = req.Inputs
			require.NoError(t, json.NewEncoder(w).Encode([][][]float64{{{1}}}))
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)
		client := NewClient(Config{BaseURL: server.URL, MaxTokens: 512})

		_, err := client.Embed(ctx, strings.Repeat("token ", 600))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(strings.Fields(received)), 512)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		server := newInferenceServer(t, [][]float64{{1}})
		client := NewClient(Config{BaseURL: server.URL})

		_, err := client.Embed(ctx, "   ")
		assert.ErrorIs(t, err, domain.ErrEmbeddingFailed)
	})

	t.Run("recovers after a failed health probe", func(t *testing.T) {
		var healthy bool
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if !healthy {
				w.WriteHeader(http.StatusServiceUnavailable)
			}
		})
		mux.HandleFunc("/embed_all", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewEncoder(w).Encode([][][]float64{{{1, 2}}}))
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)
		client := NewClient(Config{BaseURL: server.URL})

		_, err := client.Embed(ctx, "Go developer")
		assert.ErrorIs(t, err, domain.ErrModelUnavailable)

		// The server coming back must not require a process restart.
		healthy = true
		vector, err := client.Embed(ctx, "Go developer")
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2}, vector)
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var calls int
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {})
		mux.HandleFunc("/embed_all", func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusRequestEntityTooLarge)
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)
		client := NewClient(Config{BaseURL: server.URL})

		_, err := client.Embed(ctx, "Go developer")
		assert.ErrorIs(t, err, domain.ErrEmbeddingFailed)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient server failures", func(t *testing.T) {
		var calls int
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {})
		mux.HandleFunc("/embed_all", func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			require.NoError(t, json.NewEncoder(w).Encode([][][]float64{{{1, 2}}}))
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)
		client := NewClient(Config{BaseURL: server.URL})

		vector, err := client.Embed(ctx, "Go developer")
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2}, vector)
		assert.Equal(t, 3, calls)
	})

	t.Run("fails when the server returns no token vectors", func(t *testing.T) {
		server := newInferenceServer(t, [][]float64{})
		client := NewClient(Config{BaseURL: server.URL})

		_, err := client.Embed(ctx, "Go developer")
		assert.ErrorIs(t, err, domain.ErrEmbeddingFailed)
	})
}

func TestDimension(t *testing.T) {
	t.Run("is zero before the first embedding", func(t *testing.T) {
		client := NewClient(Config{BaseURL: "http://localhost:0"})
		assert.Equal(t, 0, client.Dimension())
	})
}
