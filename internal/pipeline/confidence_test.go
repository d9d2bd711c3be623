package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fusionlabs/profilegen/internal/model"
)

func TestScoreConfidence_AllFieldsScored(t *testing.T) {
	scores := ScoreConfidence(nil)
	assert.Len(t, scores, len(model.FieldKeys))
	for _, key := range model.FieldKeys {
		assert.Equal(t, 0.0, scores[key])
	}
}

func TestScoreConfidence_DistinctSourceFraction(t *testing.T) {
	scores := ScoreConfidence(map[string]map[model.Source]struct{}{
		model.FieldBusinessSummary: {
			model.SourceWebsite: {},
			model.SourceProduct: {},
			model.SourceJobs:    {},
			model.SourceNews:    {},
		},
		model.FieldHiringFocus: {
			model.SourceJobs: {},
		},
		model.FieldProductLines: {
			model.SourceWebsite: {},
			model.SourceProduct: {},
			model.SourceNews:    {},
		},
	})

	assert.Equal(t, 1.0, scores[model.FieldBusinessSummary])
	assert.Equal(t, 0.25, scores[model.FieldHiringFocus])
	assert.Equal(t, 0.75, scores[model.FieldProductLines])
	assert.Equal(t, 0.0, scores[model.FieldRegions])
}

func TestScoreConfidence_Bounds(t *testing.T) {
	scores := ScoreConfidence(map[string]map[model.Source]struct{}{
		model.FieldRegions: {
			model.SourceWebsite: {},
			model.SourceNews:    {},
		},
	})
	for _, key := range model.FieldKeys {
		assert.GreaterOrEqual(t, scores[key], 0.0)
		assert.LessOrEqual(t, scores[key], 1.0)
	}
	assert.Equal(t, 0.5, scores[model.FieldRegions])
}
