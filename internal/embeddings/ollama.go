package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// OllamaConfig holds configuration for the Ollama provider.
type OllamaConfig struct {
	// BaseURL is the Ollama server URL. Defaults to http://localhost:11434.
	BaseURL string

	// Model is the embedding model, e.g. nomic-embed-text.
	Model string
}

// Validate validates the configuration.
func (c OllamaConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("%w: model required for ollama", ErrInvalidConfig)
	}
	return nil
}

// OllamaProvider generates embeddings via a local Ollama server.
//
// The native Ollama embeddings endpoint takes one prompt per request, so
// batches are embedded with one call per text.
type OllamaProvider struct {
	config    OllamaConfig
	client    *http.Client
	dimension int
	metrics   *Metrics
}

var _ Provider = (*OllamaProvider)(nil)

// NewOllamaProvider creates an Ollama embedding provider.
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}

	return &OllamaProvider{
		config:    cfg,
		client:    &http.Client{},
		dimension: detectDimensionFromModel(cfg.Model),
		metrics:   NewMetrics(zap.NewNop()),
	}, nil
}

// ollamaRequest is the request body for the Ollama embeddings endpoint.
type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// ollamaResponse is the response body from the Ollama embeddings endpoint.
type ollamaResponse struct {
	Embedding []float32 `json:"embedding"`
}

// EmbedDocuments generates embeddings for multiple texts, one request per text.
func (p *OllamaProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	var genErr error
	defer func() {
		p.metrics.RecordGeneration(ctx, p.config.Model, "embed_documents", time.Since(start), len(texts), genErr)
	}()

	if len(texts) == 0 {
		genErr = fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
		return nil, genErr
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := p.embed(ctx, text)
		if err != nil {
			genErr = fmt.Errorf("embedding text %d: %w", i, err)
			return nil, genErr
		}
		vectors[i] = vec
	}

	return vectors, nil
}

// EmbedQuery generates an embedding for a single query.
func (p *OllamaProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	var genErr error
	defer func() {
		p.metrics.RecordGeneration(ctx, p.config.Model, "embed_query", time.Since(start), 1, genErr)
	}()

	if text == "" {
		genErr = fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
		return nil, genErr
	}

	vec, err := p.embed(ctx, text)
	if err != nil {
		genErr = err
		return nil, genErr
	}

	return vec, nil
}

// embed posts a single prompt to the Ollama /api/embeddings endpoint.
func (p *OllamaProvider) embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(ollamaRequest{Model: p.config.Model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrEmbeddingFailed, resp.StatusCode, string(respBody))
	}

	var decoded ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(decoded.Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding in response", ErrEmbeddingFailed)
	}

	return decoded.Embedding, nil
}

// Dimension returns the embedding dimension based on the configured model.
func (p *OllamaProvider) Dimension() int {
	return p.dimension
}

// Close is a no-op for Ollama since it uses HTTP.
func (p *OllamaProvider) Close() error {
	return nil
}
