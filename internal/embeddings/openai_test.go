package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newOpenAIServer returns a fake OpenAI-compatible embeddings endpoint.
func newOpenAIServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/embeddings", r.URL.Path)
		require.Contains(t, r.Header.Get("Authorization"), "Bearer ")

		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		type datum struct {
			Object    string    `json:"object"`
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}
		data := make([]datum, len(req.Input))
		for i := range req.Input {
			data[i] = datum{Object: "embedding", Index: i, Embedding: []float32{float32(i), 1, 2}}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "list",
			"data":   data,
			"model":  req.Model,
		})
	}))
}

func TestOpenAIProvider_EmbedDocuments(t *testing.T) {
	srv := newOpenAIServer(t)
	defer srv.Close()

	provider, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
		Model:   "text-embedding-3-small",
	})
	require.NoError(t, err)
	defer provider.Close()

	vectors, err := provider.EmbedDocuments(context.Background(), []string{"one", "two"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, float32(0), vectors[0][0])
	assert.Equal(t, float32(1), vectors[1][0])
}

func TestOpenAIProvider_EmbedQuery(t *testing.T) {
	srv := newOpenAIServer(t)
	defer srv.Close()

	provider, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	vec, err := provider.EmbedQuery(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vec, 3)
}

func TestOpenAIProvider_EmptyInput(t *testing.T) {
	provider, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test"})
	require.NoError(t, err)

	_, err = provider.EmbedDocuments(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = provider.EmbedQuery(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestOpenAIProvider_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limit exceeded","type":"requests"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	provider, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = provider.EmbedDocuments(context.Background(), []string{"text"})
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
}

func TestOpenAIProvider_DefaultModel(t *testing.T) {
	provider, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, 1536, provider.Dimension())
}
