package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/fusionlabs/profilegen/internal/config"
	"github.com/fusionlabs/profilegen/internal/model"
	"github.com/fusionlabs/profilegen/pkg/chroma"
	"github.com/fusionlabs/profilegen/pkg/embedder"
	"github.com/fusionlabs/profilegen/pkg/reader"
)

// Request is one ingestion unit for a single company and source. Exactly one
// of Text, HTML or URL should be set; when several are set the richest
// already-extracted form wins (Text over HTML over URL).
type Request struct {
	CompanyName string `json:"company_name"`
	Text        string `json:"text,omitempty"`
	HTML        string `json:"html,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Result reports what a single ingestion stored.
type Result struct {
	CompanyName string       `json:"company_name"`
	Source      model.Source `json:"source"`
	Chunks      int          `json:"chunks"`
}

// Service chunks, embeds and stores source material. Collections are
// resolved once at construction; ingestion only appends.
type Service struct {
	index       chroma.Client
	embed       embedder.Client
	read        reader.Client
	collections map[model.Source]string
	cfg         config.IngestConfig
}

// NewService creates an ingestion service over pre-resolved collection IDs,
// one per source.
func NewService(index chroma.Client, embed embedder.Client, read reader.Client, collections map[model.Source]string, cfg config.IngestConfig) *Service {
	return &Service{
		index:       index,
		embed:       embed,
		read:        read,
		collections: collections,
		cfg:         cfg,
	}
}

// Ingest stores one request's material into the source's collection and
// returns how many chunks were written.
func (s *Service) Ingest(ctx context.Context, source model.Source, req Request) (*Result, error) {
	if !source.Valid() {
		return nil, eris.Errorf("ingest: unknown source %q", source)
	}
	company := strings.TrimSpace(req.CompanyName)
	if company == "" {
		return nil, eris.New("ingest: company_name is required")
	}

	collectionID, ok := s.collections[source]
	if !ok {
		return nil, eris.Errorf("ingest: no collection for source %q", source)
	}

	text, err := s.resolveText(ctx, req)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, eris.New("ingest: no text content to ingest")
	}

	chunks := ChunkText(text, s.cfg.ChunkWords, s.cfg.OverlapWords)
	if len(chunks) == 0 {
		return nil, eris.New("ingest: chunking produced no chunks")
	}

	vecs, err := s.embed.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: embed chunks")
	}

	docs := make([]chroma.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chroma.Document{
			ID:        chunkID(source, company, i),
			Text:      chunk,
			Embedding: vecs[i],
			Metadata: map[string]any{
				"company_name": company,
				"source":       string(source),
				"chunk_index":  i,
			},
		}
	}

	if err := s.index.Add(ctx, collectionID, docs); err != nil {
		return nil, eris.Wrapf(err, "ingest: store chunks for %s", company)
	}

	zap.L().Info("ingest: stored chunks",
		zap.String("company", company),
		zap.String("source", string(source)),
		zap.Int("chunks", len(chunks)),
	)
	return &Result{CompanyName: company, Source: source, Chunks: len(chunks)}, nil
}

func (s *Service) resolveText(ctx context.Context, req Request) (string, error) {
	switch {
	case strings.TrimSpace(req.Text) != "":
		return req.Text, nil
	case strings.TrimSpace(req.HTML) != "":
		text, err := StripHTML(req.HTML)
		if err != nil {
			return "", err
		}
		return text, nil
	case strings.TrimSpace(req.URL) != "":
		if s.read == nil {
			return "", eris.New("ingest: url ingestion requires a reader client")
		}
		resp, err := s.read.Read(ctx, req.URL)
		if err != nil {
			return "", eris.Wrapf(err, "ingest: read url %s", req.URL)
		}
		return resp.Data.Content, nil
	}
	return "", eris.New("ingest: one of text, html or url is required")
}

// chunkID builds a stable, collision-resistant document ID. Company names
// are lowercased and space-collapsed so re-ingestion of the same company is
// greppable in the index.
func chunkID(source model.Source, company string, idx int) string {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(company)), " ", "_")
	return fmt.Sprintf("%s_%s_%d_%s", source, slug, idx, uuid.NewString()[:8])
}
