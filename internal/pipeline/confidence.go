package pipeline

import (
	"math"

	"github.com/fusionlabs/profilegen/internal/model"
)

// sourceCount is the number of independent ingestion sources.
const sourceCount = 4

// ScoreConfidence derives a 0-1 score per field from the count of distinct
// contributing sources, rounded to two decimals. A field with no
// contributing sources scores 0. This is a transparency signal, not a
// correctness probability.
func ScoreConfidence(fieldSources map[string]map[model.Source]struct{}) map[string]float64 {
	scores := make(map[string]float64, len(model.FieldKeys))
	for _, key := range model.FieldKeys {
		sources := fieldSources[key]
		score := float64(len(sources)) / sourceCount
		scores[key] = math.Round(score*100) / 100
	}
	return scores
}
