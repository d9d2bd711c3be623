// Package embedder provides an embedding client backed by an
// OpenAI-compatible embeddings API.
package embedder

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// Client defines the embedding operations used by the pipeline. Vectors are
// deterministic for identical input.
type Client interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Option configures the embedder client.
type Option func(*apiClient)

// WithBaseURL sets a custom API base URL (for testing or alternate providers).
func WithBaseURL(url string) Option {
	return func(c *apiClient) {
		c.baseURL = url
	}
}

// WithDimensions requests reduced-dimension vectors where the model supports it.
func WithDimensions(d int) Option {
	return func(c *apiClient) {
		c.dimensions = d
	}
}

// WithRateLimit caps embedding requests per second with the given burst.
func WithRateLimit(perSec float64, burst int) Option {
	return func(c *apiClient) {
		if perSec > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *apiClient) {
		c.http = hc
	}
}

type apiClient struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	baseURL    string
	dimensions int
	limiter    *rate.Limiter
	http       *http.Client
}

// NewClient creates an embedding client for the given API key and model.
func NewClient(apiKey, model string, opts ...Option) Client {
	c := &apiClient{
		model: openai.EmbeddingModel(model),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	cfg := openai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	cfg.HTTPClient = c.http
	c.client = openai.NewClientWithConfig(cfg)
	return c
}

func (c *apiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (c *apiClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "embedder: rate limit wait")
		}
	}

	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          c.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if c.dimensions > 0 {
		req.Dimensions = c.dimensions
	}

	resp, err := c.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "embedder: create embeddings")
	}
	if len(resp.Data) != len(texts) {
		return nil, eris.Errorf("embedder: got %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	vecs := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vecs) {
			return nil, eris.Errorf("embedder: embedding index %d out of range", d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	return vecs, nil
}
