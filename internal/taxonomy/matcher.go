package taxonomy

import (
	"context"
	"math"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/fusionlabs/profilegen/internal/config"
	"github.com/fusionlabs/profilegen/internal/model"
	"github.com/fusionlabs/profilegen/pkg/embedder"
)

// ErrNotInitialized is returned when Match is called on a matcher whose
// taxonomy table was never built. Construction fails fast at startup, so
// seeing this at request time is a configuration bug.
var ErrNotInitialized = eris.New("taxonomy: matcher not initialized")

// Thresholds are the cosine-similarity floors per classification level.
// Empirically tuned, not derived.
type Thresholds struct {
	Sector      float64
	SubIndustry float64
	Industry    float64
}

// ThresholdsFromConfig builds Thresholds from the classifier config section.
func ThresholdsFromConfig(cfg config.ClassifierConfig) Thresholds {
	return Thresholds{
		Sector:      cfg.SectorThreshold,
		SubIndustry: cfg.SubIndustryThreshold,
		Industry:    cfg.IndustryThreshold,
	}
}

// labelVec pairs a taxonomy label with its embedding. Slices keep the label
// order stable so arg-max ties resolve deterministically (first occurrence
// wins).
type labelVec struct {
	label string
	vec   []float32
}

// Matcher matches company text to a taxonomy row via a three-level
// hierarchical similarity search. The embedding tables are built once and
// are read-only afterward, so a single Matcher may be shared across
// concurrent workflows without locking.
type Matcher struct {
	rows          []model.TaxonomyRow
	sectors       []labelVec
	subIndustries []labelVec
	industries    []labelVec
	thresholds    Thresholds
	embed         embedder.Client
}

// NewMatcher embeds every unique label at each classification level and
// returns a ready Matcher. Fails when the table is empty or the embedding
// service is unavailable: classifier initialization errors are fatal at
// startup, never deferred to request time.
func NewMatcher(ctx context.Context, rows []model.TaxonomyRow, embed embedder.Client, thresholds Thresholds) (*Matcher, error) {
	if len(rows) == 0 {
		return nil, eris.New("taxonomy: empty classification table")
	}

	start := time.Now()
	m := &Matcher{rows: rows, thresholds: thresholds, embed: embed}

	var err error
	if m.sectors, err = embedLevel(ctx, embed, uniqueLabels(rows, func(r model.TaxonomyRow) string { return r.Sector })); err != nil {
		return nil, eris.Wrap(err, "taxonomy: embed sectors")
	}
	if m.subIndustries, err = embedLevel(ctx, embed, uniqueLabels(rows, func(r model.TaxonomyRow) string { return r.SubIndustry })); err != nil {
		return nil, eris.Wrap(err, "taxonomy: embed sub-industries")
	}
	if m.industries, err = embedLevel(ctx, embed, uniqueLabels(rows, func(r model.TaxonomyRow) string { return r.Industry })); err != nil {
		return nil, eris.Wrap(err, "taxonomy: embed industries")
	}

	zap.L().Info("taxonomy: matcher initialized",
		zap.Int("rows", len(rows)),
		zap.Int("sectors", len(m.sectors)),
		zap.Int("sub_industries", len(m.subIndustries)),
		zap.Int("industries", len(m.industries)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return m, nil
}

func uniqueLabels(rows []model.TaxonomyRow, get func(model.TaxonomyRow) string) []string {
	seen := make(map[string]struct{}, len(rows))
	var labels []string
	for _, r := range rows {
		label := get(r)
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels
}

func embedLevel(ctx context.Context, embed embedder.Client, labels []string) ([]labelVec, error) {
	vecs, err := embed.EmbedBatch(ctx, labels)
	if err != nil {
		return nil, err
	}
	out := make([]labelVec, len(labels))
	for i, label := range labels {
		out[i] = labelVec{label: label, vec: vecs[i]}
	}
	return out, nil
}

// Match classifies company text against the taxonomy. Priority order:
// sector arg-max first; on a sector hit, a sub-industry restricted to that
// sector's rows; without a sector hit, an unrestricted sub-industry match,
// then an industry-level match. Returns (nil, nil) when no level clears its
// threshold — unclassified is not an error.
func (m *Matcher) Match(ctx context.Context, companyText string) (*model.IndustryMapping, error) {
	if m == nil || len(m.rows) == 0 {
		return nil, ErrNotInitialized
	}

	vec, err := m.embed.Embed(ctx, companyText)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: embed company text")
	}

	// 1. Broadest level first: an established sector anchors the riskier
	// fine-grained guess below.
	if sector, sectorSim, ok := bestMatch(vec, m.sectors, m.thresholds.Sector); ok {
		restricted := m.restrictedSubIndustries(sector)
		if sub, subSim, ok := bestMatch(vec, restricted, m.thresholds.SubIndustry); ok {
			row := m.findRow(func(r model.TaxonomyRow) bool {
				return r.Sector == sector && r.SubIndustry == sub
			})
			return m.result(row, model.LevelSubIndustry, subSim), nil
		}
		row := m.findRow(func(r model.TaxonomyRow) bool { return r.Sector == sector })
		return m.result(row, model.LevelSector, sectorSim), nil
	}

	// 2. No sector cleared the floor: try the full sub-industry set.
	if sub, subSim, ok := bestMatch(vec, m.subIndustries, m.thresholds.SubIndustry); ok {
		row := m.findRow(func(r model.TaxonomyRow) bool { return r.SubIndustry == sub })
		return m.result(row, model.LevelSubIndustry, subSim), nil
	}

	// 3. Last resort: the middle level.
	if industry, indSim, ok := bestMatch(vec, m.industries, m.thresholds.Industry); ok {
		row := m.findRow(func(r model.TaxonomyRow) bool { return r.Industry == industry })
		return m.result(row, model.LevelIndustry, indSim), nil
	}

	return nil, nil
}

func (m *Matcher) restrictedSubIndustries(sector string) []labelVec {
	allowed := make(map[string]struct{})
	for _, r := range m.rows {
		if r.Sector == sector {
			allowed[r.SubIndustry] = struct{}{}
		}
	}
	var out []labelVec
	for _, lv := range m.subIndustries {
		if _, ok := allowed[lv.label]; ok {
			out = append(out, lv)
		}
	}
	return out
}

func (m *Matcher) findRow(match func(model.TaxonomyRow) bool) model.TaxonomyRow {
	for _, r := range m.rows {
		if match(r) {
			return r
		}
	}
	return model.TaxonomyRow{}
}

func (m *Matcher) result(row model.TaxonomyRow, level model.MatchedLevel, confidence float64) *model.IndustryMapping {
	return &model.IndustryMapping{
		MatchedLevel:   level,
		Sector:         row.Sector,
		Industry:       row.Industry,
		SubIndustry:    row.SubIndustry,
		SICCode:        row.SICCode,
		SICDescription: row.SICDescription,
		Confidence:     confidence,
	}
}

// bestMatch returns the arg-max cosine similarity candidate, reporting ok
// only when the best similarity clears the threshold.
func bestMatch(query []float32, candidates []labelVec, threshold float64) (string, float64, bool) {
	bestLabel := ""
	bestSim := math.Inf(-1)
	for _, c := range candidates {
		if sim := cosine(query, c.vec); sim > bestSim {
			bestSim = sim
			bestLabel = c.label
		}
	}
	if bestLabel == "" || bestSim < threshold {
		return "", 0, false
	}
	return bestLabel, bestSim, true
}

// cosine computes cosine similarity between two vectors. Mismatched or
// zero-norm vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
