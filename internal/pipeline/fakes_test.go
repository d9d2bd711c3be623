package pipeline

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/fusionlabs/profilegen/internal/model"
	"github.com/fusionlabs/profilegen/pkg/anthropic"
	"github.com/fusionlabs/profilegen/pkg/chroma"
)

// fakeEmbedder returns a fixed vector for every text.
type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vec
	}
	return out, nil
}

// fakeIndex serves canned documents per collection, honoring the
// company_name metadata filter.
type fakeIndex struct {
	mu   sync.Mutex
	docs map[string][]chroma.Document // collection ID → documents
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: make(map[string][]chroma.Document)}
}

func (f *fakeIndex) EnsureCollection(ctx context.Context, name string) (string, error) {
	return "col_" + name, nil
}

func (f *fakeIndex) Add(ctx context.Context, collectionID string, docs []chroma.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[collectionID] = append(f.docs[collectionID], docs...)
	return nil
}

func (f *fakeIndex) Query(ctx context.Context, collectionID string, req chroma.QueryRequest) ([]chroma.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	company, _ := req.Where["company_name"].(string)
	var results []chroma.Result
	for _, d := range f.docs[collectionID] {
		if company != "" && d.Metadata["company_name"] != company {
			continue
		}
		results = append(results, chroma.Result{ID: d.ID, Text: d.Text, Metadata: d.Metadata})
		if len(results) == req.NResults {
			break
		}
	}
	return results, nil
}

// fakeAI answers each prompt via respond and counts calls.
type fakeAI struct {
	mu      sync.Mutex
	calls   int
	respond func(prompt string) (string, error)
}

func (f *fakeAI) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.respond == nil {
		return nil, eris.New("fakeAI: no responder configured")
	}
	text, err := f.respond(req.Messages[0].Content)
	if err != nil {
		return nil, err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}, nil
}

func (f *fakeAI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeMatcher returns a fixed mapping.
type fakeMatcher struct {
	mapping *model.IndustryMapping
	err     error
	calls   int
}

func (f *fakeMatcher) Match(ctx context.Context, companyText string) (*model.IndustryMapping, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.mapping == nil {
		return nil, nil
	}
	cp := *f.mapping
	return &cp, nil
}
