// Package pipeline implements profile generation: per-field-group retrieval
// over the source-scoped vector collections, deduplication, context
// assembly, generative extraction, provenance filtering, confidence scoring
// and industry classification.
package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fusionlabs/profilegen/internal/model"
	"github.com/fusionlabs/profilegen/internal/store"
)

// ErrNoSourceData is returned when no source collection holds any chunk for
// the requested company. Raised before any generative call is made.
var ErrNoSourceData = eris.New("pipeline: no source data for company")

// IndustryMatcher classifies company text against the industry taxonomy.
// A nil mapping with a nil error means no level cleared its threshold.
type IndustryMatcher interface {
	Match(ctx context.Context, companyText string) (*model.IndustryMapping, error)
}

// GenerateRequest identifies the company to generate a profile for.
type GenerateRequest struct {
	CompanyName   string `json:"company_name"`
	CompanyDomain string `json:"company_domain,omitempty"`
}

// GenerateResult is the outcome of one generation run.
type GenerateResult struct {
	Profile *model.CompanyProfile  `json:"profile"`
	Mapping *model.IndustryMapping `json:"industry_mapping,omitempty"`
}

// Pipeline orchestrates profile generation end to end and persists the
// result. Safe for concurrent use.
type Pipeline struct {
	retriever    *Retriever
	extractor    *Extractor
	describer    *Describer
	matcher      IndustryMatcher
	store        store.Store
	contextChars int
}

// New creates a Pipeline.
func New(retriever *Retriever, extractor *Extractor, describer *Describer, matcher IndustryMatcher, st store.Store, contextChars int) *Pipeline {
	return &Pipeline{
		retriever:    retriever,
		extractor:    extractor,
		describer:    describer,
		matcher:      matcher,
		store:        st,
		contextChars: contextChars,
	}
}

// groupMaterial is the retrieval output for one field group: deduplicated
// chunks per source plus the assembled context.
type groupMaterial struct {
	sources map[model.Source][]string
	context string
}

// Generate runs the full pipeline for a company. Retrieval for all field
// groups completes first: if no source holds any chunk for the company,
// ErrNoSourceData is returned and no generative call is ever issued.
// Individual extraction failures degrade to empty fields, never abort
// the run.
func (p *Pipeline) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	company := strings.TrimSpace(req.CompanyName)
	if company == "" {
		return nil, eris.New("pipeline: company_name is required")
	}

	start := time.Now()
	zap.L().Info("pipeline: generation started", zap.String("company", company))

	// Phase 1: retrieve everything before spending a single model token.
	materials, err := p.retrieveAll(ctx, company)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, mat := range materials {
		for _, chunks := range mat.sources {
			total += len(chunks)
		}
	}
	if total == 0 {
		return nil, eris.Wrapf(ErrNoSourceData, "company %s", company)
	}

	// Phase 2: extract the three groups concurrently, filter each against
	// its own context, and track which sources fed each surviving field.
	fields, fieldSources, err := p.extractAll(ctx, materials)
	if err != nil {
		return nil, err
	}

	scores := ScoreConfidence(fieldSources)

	mapping, err := p.classify(ctx, company, req.CompanyDomain, fields)
	if err != nil {
		// Classification is best-effort within a generation run.
		zap.L().Warn("pipeline: industry classification failed",
			zap.String("company", company),
			zap.Error(err),
		)
		mapping = nil
	}

	combined := combineContexts(materials)
	profile := &model.CompanyProfile{
		CompanyName:      company,
		CompanyDomain:    req.CompanyDomain,
		ExtractedFields:  fields,
		ConfidenceScores: scores,
		ShortDescription: p.describer.ShortDescription(ctx, combined, company),
		LongDescription:  p.describer.LongDescription(ctx, combined, company, mapping),
	}

	if err := p.store.UpsertProfile(ctx, profile); err != nil {
		return nil, eris.Wrap(err, "pipeline: persist profile")
	}
	if mapping != nil {
		if err := p.store.UpsertIndustryMapping(ctx, mapping); err != nil {
			return nil, eris.Wrap(err, "pipeline: persist industry mapping")
		}
	}

	zap.L().Info("pipeline: generation complete",
		zap.String("company", company),
		zap.Int("chunks", total),
		zap.Bool("classified", mapping != nil),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &GenerateResult{Profile: profile, Mapping: mapping}, nil
}

func (p *Pipeline) retrieveAll(ctx context.Context, company string) (map[model.FieldGroup]*groupMaterial, error) {
	materials := make(map[model.FieldGroup]*groupMaterial, len(model.AllFieldGroups))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, group := range model.AllFieldGroups {
		g.Go(func() error {
			raw, err := p.retriever.Retrieve(gctx, group, company)
			if err != nil {
				return err
			}

			sources := make(map[model.Source][]string, len(raw))
			for source, chunks := range raw {
				if deduped := Dedupe(chunks); len(deduped) > 0 {
					sources[source] = deduped
				}
			}

			mat := &groupMaterial{
				sources: sources,
				context: Truncate(Assemble(sources), p.contextChars),
			}

			mu.Lock()
			materials[group] = mat
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return materials, nil
}

func (p *Pipeline) extractAll(ctx context.Context, materials map[model.FieldGroup]*groupMaterial) (model.FieldExtraction, map[string]map[model.Source]struct{}, error) {
	fields := model.EmptyFieldExtraction()
	fieldSources := make(map[string]map[model.Source]struct{}, len(model.FieldKeys))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, group := range model.AllFieldGroups {
		mat := materials[group]
		g.Go(func() error {
			// Groups with no retrieved text keep their schema defaults and
			// cost nothing.
			if len(mat.sources) == 0 {
				return nil
			}

			extracted := p.extractor.ExtractGroup(gctx, mat.context, group)
			filtered, _ := FilterExtraction(extracted, mat.context)

			mu.Lock()
			defer mu.Unlock()
			fields.Merge(filtered)
			for _, key := range model.GroupFields[group] {
				if filtered.FieldEmpty(key) {
					continue
				}
				set := make(map[model.Source]struct{}, len(mat.sources))
				for source := range mat.sources {
					set[source] = struct{}{}
				}
				fieldSources[key] = set
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.FieldExtraction{}, nil, err
	}
	return fields, fieldSources, nil
}

func (p *Pipeline) classify(ctx context.Context, company, domain string, fields model.FieldExtraction) (*model.IndustryMapping, error) {
	text := classificationText(company, fields)
	if text == "" {
		return nil, nil
	}

	mapping, err := p.matcher.Match(ctx, text)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, nil
	}
	mapping.CompanyName = company
	mapping.CompanyDomain = domain
	return mapping, nil
}

// ClassifyCompany matches freeform company text against the taxonomy and
// persists the mapping. Used by the standalone industry-match operation.
func (p *Pipeline) ClassifyCompany(ctx context.Context, companyName, domain, text string) (*model.IndustryMapping, error) {
	company := strings.TrimSpace(companyName)
	if company == "" {
		return nil, eris.New("pipeline: company_name is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, eris.New("pipeline: description text is required")
	}

	mapping, err := p.matcher.Match(ctx, text)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: industry match")
	}
	if mapping == nil {
		return nil, nil
	}

	mapping.CompanyName = company
	mapping.CompanyDomain = domain
	if err := p.store.UpsertIndustryMapping(ctx, mapping); err != nil {
		return nil, eris.Wrap(err, "pipeline: persist industry mapping")
	}
	return mapping, nil
}

// classificationText concatenates the profile fields that carry industry
// signal: the business summary, product lines and target industries.
func classificationText(company string, fields model.FieldExtraction) string {
	parts := []string{company}
	if fields.BusinessSummary != "" {
		parts = append(parts, fields.BusinessSummary)
	}
	parts = append(parts, fields.ProductLines...)
	parts = append(parts, fields.TargetIndustries...)
	if len(parts) == 1 {
		// Name alone carries no classification signal.
		return ""
	}
	return strings.Join(parts, ". ")
}

// combineContexts concatenates the per-group assembled contexts in canonical
// group order for description generation.
func combineContexts(materials map[model.FieldGroup]*groupMaterial) string {
	var parts []string
	for _, group := range model.AllFieldGroups {
		if mat := materials[group]; mat != nil && mat.context != "" {
			parts = append(parts, mat.context)
		}
	}
	return strings.Join(parts, "\n\n")
}
