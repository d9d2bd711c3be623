package chroma

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCollection(t *testing.T) {
	var got createCollectionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/collections", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(collectionResponse{ID: "col-123", Name: got.Name})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	id, err := client.EnsureCollection(context.Background(), "profiles_website")
	require.NoError(t, err)
	assert.Equal(t, "col-123", id)
	assert.Equal(t, "profiles_website", got.Name)
	assert.True(t, got.GetOrCreate)
}

func TestEnsureCollection_MissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(collectionResponse{Name: "profiles_website"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.EnsureCollection(context.Background(), "profiles_website")
	assert.Error(t, err)
}

func TestAdd(t *testing.T) {
	var got addRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/collections/col-123/add", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	docs := []Document{
		{ID: "a", Text: "first chunk", Embedding: []float32{1, 0}, Metadata: map[string]any{"source": "website"}},
		{ID: "b", Text: "second chunk", Embedding: []float32{0, 1}, Metadata: map[string]any{"source": "news"}},
	}
	require.NoError(t, client.Add(context.Background(), "col-123", docs))

	assert.Equal(t, []string{"a", "b"}, got.IDs)
	assert.Equal(t, []string{"first chunk", "second chunk"}, got.Documents)
	require.Len(t, got.Metadatas, 2)
	assert.Equal(t, "website", got.Metadatas[0]["source"])
}

func TestAdd_EmptyIsNoop(t *testing.T) {
	client := NewClient("http://unreachable.invalid")
	assert.NoError(t, client.Add(context.Background(), "col-123", nil))
}

func TestQuery(t *testing.T) {
	var got queryRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/collections/col-123/query", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(queryResponse{
			IDs:       [][]string{{"a", "b"}},
			Documents: [][]string{{"first chunk", "second chunk"}},
			Metadatas: [][]map[string]any{{{"company_name": "Acme"}, {"company_name": "Acme"}}},
			Distances: [][]float64{{0.1, 0.4}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	results, err := client.Query(context.Background(), "col-123", QueryRequest{
		Embedding: []float32{1, 0},
		Where:     map[string]any{"company_name": "Acme"},
		NResults:  5,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "first chunk", results[0].Text)
	assert.Equal(t, "Acme", results[0].Metadata["company_name"])
	assert.Equal(t, 0.1, results[0].Distance)
	assert.Equal(t, 0.4, results[1].Distance)

	assert.Equal(t, 5, got.NResults)
	assert.Equal(t, "Acme", got.Where["company_name"])
	require.Len(t, got.QueryEmbeddings, 1)
}

func TestQuery_DefaultNResults(t *testing.T) {
	var got queryRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(queryResponse{})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	results, err := client.Query(context.Background(), "col-123", QueryRequest{Embedding: []float32{1}})
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Equal(t, 10, got.NResults)
}

func TestQuery_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "collection not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Query(context.Background(), "gone", QueryRequest{Embedding: []float32{1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
