// Package chroma provides a client for the Chroma vector database HTTP API.
// Collections are queried with caller-supplied embeddings; the server never
// embeds on our behalf.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the vector index operations used by the pipeline.
type Client interface {
	// EnsureCollection creates the named collection if missing and returns
	// its ID.
	EnsureCollection(ctx context.Context, name string) (string, error)
	// Add inserts documents with precomputed embeddings into a collection.
	Add(ctx context.Context, collectionID string, docs []Document) error
	// Query returns up to NResults documents ranked by embedding distance
	// (ascending), restricted by the request's metadata filter.
	Query(ctx context.Context, collectionID string, req QueryRequest) ([]Result, error)
}

// Document is one embedded text fragment plus its metadata.
type Document struct {
	ID        string
	Text      string
	Embedding []float32
	Metadata  map[string]any
}

// QueryRequest describes a single nearest-neighbor query.
type QueryRequest struct {
	Embedding []float32
	Where     map[string]any
	NResults  int
}

// Result is one ranked query hit.
type Result struct {
	ID       string
	Text     string
	Metadata map[string]any
	Distance float64
}

// Option configures the Chroma client.
type Option func(*httpClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Chroma client for the given base URL
// (e.g. http://localhost:8000).
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type createCollectionRequest struct {
	Name        string `json:"name"`
	GetOrCreate bool   `json:"get_or_create"`
}

type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c *httpClient) EnsureCollection(ctx context.Context, name string) (string, error) {
	var resp collectionResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/collections",
		createCollectionRequest{Name: name, GetOrCreate: true}, &resp)
	if err != nil {
		return "", eris.Wrapf(err, "chroma: ensure collection %s", name)
	}
	if resp.ID == "" {
		return "", eris.Errorf("chroma: collection %s created without id", name)
	}
	return resp.ID, nil
}

type addRequest struct {
	IDs        []string         `json:"ids"`
	Embeddings [][]float32      `json:"embeddings"`
	Documents  []string         `json:"documents"`
	Metadatas  []map[string]any `json:"metadatas"`
}

func (c *httpClient) Add(ctx context.Context, collectionID string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	req := addRequest{
		IDs:        make([]string, len(docs)),
		Embeddings: make([][]float32, len(docs)),
		Documents:  make([]string, len(docs)),
		Metadatas:  make([]map[string]any, len(docs)),
	}
	for i, d := range docs {
		req.IDs[i] = d.ID
		req.Embeddings[i] = d.Embedding
		req.Documents[i] = d.Text
		req.Metadatas[i] = d.Metadata
	}

	path := fmt.Sprintf("/api/v1/collections/%s/add", collectionID)
	if err := c.doJSON(ctx, http.MethodPost, path, req, nil); err != nil {
		return eris.Wrapf(err, "chroma: add %d documents", len(docs))
	}
	return nil
}

type queryRequest struct {
	QueryEmbeddings [][]float32    `json:"query_embeddings"`
	NResults        int            `json:"n_results"`
	Where           map[string]any `json:"where,omitempty"`
	Include         []string       `json:"include"`
}

type queryResponse struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

func (c *httpClient) Query(ctx context.Context, collectionID string, req QueryRequest) ([]Result, error) {
	nResults := req.NResults
	if nResults <= 0 {
		nResults = 10
	}

	body := queryRequest{
		QueryEmbeddings: [][]float32{req.Embedding},
		NResults:        nResults,
		Where:           req.Where,
		Include:         []string{"documents", "metadatas", "distances"},
	}

	var resp queryResponse
	path := fmt.Sprintf("/api/v1/collections/%s/query", collectionID)
	if err := c.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, eris.Wrap(err, "chroma: query")
	}

	// Single query embedding: only the first result set is populated.
	if len(resp.IDs) == 0 {
		return nil, nil
	}

	results := make([]Result, 0, len(resp.IDs[0]))
	for i := range resp.IDs[0] {
		r := Result{ID: resp.IDs[0][i]}
		if len(resp.Documents) > 0 && i < len(resp.Documents[0]) {
			r.Text = resp.Documents[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			r.Metadata = resp.Metadatas[0][i]
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			r.Distance = resp.Distances[0][i]
		}
		results = append(results, r)
	}
	return results, nil
}

func (c *httpClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return eris.Errorf("status %d: %s", resp.StatusCode, truncateBody(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return eris.Wrap(err, "decode response")
		}
	}
	return nil
}

func truncateBody(data []byte) string {
	const max = 200
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
