package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/fusionlabs/profilegen/internal/ingest"
	"github.com/fusionlabs/profilegen/internal/model"
	"github.com/fusionlabs/profilegen/internal/pipeline"
	"github.com/fusionlabs/profilegen/internal/store"
	"github.com/fusionlabs/profilegen/internal/taxonomy"
	"github.com/fusionlabs/profilegen/pkg/anthropic"
	"github.com/fusionlabs/profilegen/pkg/chroma"
	"github.com/fusionlabs/profilegen/pkg/embedder"
	"github.com/fusionlabs/profilegen/pkg/reader"
)

// appEnv holds the wired application components shared by the commands.
type appEnv struct {
	Pipeline *pipeline.Pipeline
	Ingest   *ingest.Service
	Matcher  *taxonomy.Matcher
	Store    store.Store
}

// Close releases held resources.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initStore opens and migrates the profile store. Used alone by read-only
// commands that never touch the embedding or generation APIs.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initEnv wires the store, vector index, embedding and generation clients,
// taxonomy matcher, pipeline and ingestion service from config.
func initEnv(ctx context.Context) (*appEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	embedClient := embedder.NewClient(cfg.Embedding.Key, cfg.Embedding.Model,
		embedder.WithBaseURL(cfg.Embedding.BaseURL),
		embedder.WithDimensions(cfg.Embedding.Dimensions),
		embedder.WithRateLimit(cfg.Embedding.RatePerSec, cfg.Embedding.RateBurst),
	)

	indexClient := chroma.NewClient(cfg.Chroma.BaseURL,
		chroma.WithTimeout(time.Duration(cfg.Chroma.TimeoutSecs)*time.Second),
	)

	collections := make(map[model.Source]string, len(model.AllSources))
	for _, source := range model.AllSources {
		name := fmt.Sprintf("%s_%s", cfg.Chroma.CollectionPrefix, source)
		id, err := indexClient.EnsureCollection(ctx, name)
		if err != nil {
			_ = st.Close()
			return nil, eris.Wrapf(err, "ensure collection %s", name)
		}
		collections[source] = id
	}
	zap.L().Info("vector collections ready", zap.Int("count", len(collections)))

	plans, err := pipeline.LoadRetrievalPlans(cfg.Retrieval.PlanFile)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	rows, err := taxonomy.LoadCSV(cfg.Classifier.TaxonomyCSV)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	matcher, err := taxonomy.NewMatcher(ctx, rows, embedClient, taxonomy.ThresholdsFromConfig(cfg.Classifier))
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	aiClient := anthropic.NewClient(cfg.Anthropic.Key)
	retriever := pipeline.NewRetriever(indexClient, embedClient, collections, plans)
	extractor := pipeline.NewExtractor(aiClient, cfg.Anthropic, cfg.Extraction)
	describer := pipeline.NewDescriber(aiClient, cfg.Anthropic, cfg.Extraction)

	pipe := pipeline.New(retriever, extractor, describer, matcher, st, cfg.Extraction.ContextChars)

	readClient := reader.NewClient(cfg.Reader.Key, reader.WithBaseURL(cfg.Reader.BaseURL))
	ingestSvc := ingest.NewService(indexClient, embedClient, readClient, collections, cfg.Ingest)

	return &appEnv{
		Pipeline: pipe,
		Ingest:   ingestSvc,
		Matcher:  matcher,
		Store:    st,
	}, nil
}
