package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fusionlabs/profilegen/internal/model"
	"github.com/fusionlabs/profilegen/pkg/chroma"
	"github.com/fusionlabs/profilegen/pkg/embedder"
)

// SourceQuery is one semantic query against one source collection. The
// query text is a fmt template receiving the company name.
type SourceQuery struct {
	Query    string `yaml:"query"`
	NResults int    `yaml:"n_results"`
}

// RetrievalPlan maps each source to its query for one field group. Sources
// absent from the plan contribute nothing.
type RetrievalPlan map[model.Source]SourceQuery

// RetrievalPlans holds the per-field-group retrieval plans.
type RetrievalPlans map[model.FieldGroup]RetrievalPlan

// DefaultRetrievalPlans returns the built-in plans. Business overview leans
// on website and product text, hiring on job postings, events on news; the
// remaining sources contribute small pulls so a field is never blind to a
// source that happens to mention it.
func DefaultRetrievalPlans() RetrievalPlans {
	return RetrievalPlans{
		model.GroupBusinessOverview: {
			model.SourceWebsite: {Query: "%s business overview products services industries markets regions", NResults: 8},
			model.SourceProduct: {Query: "%s products services offerings solutions", NResults: 5},
			model.SourceJobs:    {Query: "%s company business operations", NResults: 2},
			model.SourceNews:    {Query: "%s company business markets", NResults: 2},
		},
		model.GroupHiringFocus: {
			model.SourceJobs:    {Query: "%s hiring roles positions engineers openings", NResults: 8},
			model.SourceWebsite: {Query: "%s careers team hiring", NResults: 3},
			model.SourceProduct: {Query: "%s team roles", NResults: 3},
			model.SourceNews:    {Query: "%s hiring growth headcount", NResults: 3},
		},
		model.GroupRecentEvents: {
			model.SourceNews:    {Query: "%s announcement launch funding partnership acquisition", NResults: 8},
			model.SourceWebsite: {Query: "%s news press announcements", NResults: 3},
			model.SourceProduct: {Query: "%s new product release launch", NResults: 3},
			model.SourceJobs:    {Query: "%s expansion new office team growth", NResults: 3},
		},
	}
}

// LoadRetrievalPlans reads plan overrides from a YAML file. Field groups or
// sources missing from the file keep their built-in defaults.
func LoadRetrievalPlans(path string) (RetrievalPlans, error) {
	plans := DefaultRetrievalPlans()
	if path == "" {
		return plans, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "retrieve: read plan file %s", path)
	}

	var overrides RetrievalPlans
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, eris.Wrap(err, "retrieve: parse plan file")
	}

	for group, plan := range overrides {
		if _, ok := plans[group]; !ok {
			return nil, eris.Errorf("retrieve: unknown field group %q in plan file", group)
		}
		for source, q := range plan {
			if !source.Valid() {
				return nil, eris.Errorf("retrieve: unknown source %q in plan file", source)
			}
			plans[group][source] = q
		}
	}
	return plans, nil
}

// Retriever issues per-field-group semantic queries against the four
// source-scoped vector collections.
type Retriever struct {
	index       chroma.Client
	embed       embedder.Client
	collections map[model.Source]string // source → collection ID
	plans       RetrievalPlans
}

// NewRetriever creates a Retriever over previously resolved collection IDs.
func NewRetriever(index chroma.Client, embed embedder.Client, collections map[model.Source]string, plans RetrievalPlans) *Retriever {
	return &Retriever{
		index:       index,
		embed:       embed,
		collections: collections,
		plans:       plans,
	}
}

// Retrieve runs the field group's plan for a company and returns the raw
// (not yet deduplicated) chunk texts per source. A source returning zero
// results contributes an absent entry, not an error. Results are restricted
// to chunks whose metadata company_name matches exactly.
func (r *Retriever) Retrieve(ctx context.Context, group model.FieldGroup, companyName string) (map[model.Source][]string, error) {
	plan, ok := r.plans[group]
	if !ok {
		return nil, eris.Errorf("retrieve: no plan for field group %q", group)
	}

	out := make(map[model.Source][]string, len(plan))
	for _, source := range model.AllSources {
		q, ok := plan[source]
		if !ok || q.NResults <= 0 {
			continue
		}
		collectionID, ok := r.collections[source]
		if !ok {
			continue
		}

		queryText := fmt.Sprintf(q.Query, companyName)
		vec, err := r.embed.Embed(ctx, queryText)
		if err != nil {
			return nil, eris.Wrapf(err, "retrieve: embed query for %s/%s", group, source)
		}

		results, err := r.index.Query(ctx, collectionID, chroma.QueryRequest{
			Embedding: vec,
			Where:     map[string]any{"company_name": companyName},
			NResults:  q.NResults,
		})
		if err != nil {
			return nil, eris.Wrapf(err, "retrieve: query %s/%s", group, source)
		}

		texts := make([]string, 0, len(results))
		for _, res := range results {
			if res.Text != "" {
				texts = append(texts, res.Text)
			}
		}
		if len(texts) > 0 {
			out[source] = texts
		}

		zap.L().Debug("retrieve: source queried",
			zap.String("field_group", string(group)),
			zap.String("source", string(source)),
			zap.Int("requested", q.NResults),
			zap.Int("returned", len(texts)),
		)
	}
	return out, nil
}
