package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fusionlabs/profilegen/internal/model"
)

func TestAssemble_LabeledBlocksInOrder(t *testing.T) {
	out := Assemble(map[model.Source][]string{
		model.SourceNews:    {"news one", "news two"},
		model.SourceWebsite: {"site text"},
	})

	assert.Contains(t, out, "=== WEBSITE INFORMATION ===\nsite text")
	assert.Contains(t, out, "=== NEWS & EVENTS ===\nnews one news two")

	// Canonical order regardless of map insertion order.
	website := strings.Index(out, "WEBSITE INFORMATION")
	product := strings.Index(out, "PRODUCT INFORMATION")
	jobs := strings.Index(out, "JOB POSTINGS")
	news := strings.Index(out, "NEWS & EVENTS")
	assert.True(t, website < product && product < jobs && jobs < news)
}

func TestAssemble_EmptySourcesStillFramed(t *testing.T) {
	out := Assemble(nil)
	for _, source := range model.AllSources {
		assert.Contains(t, out, "=== "+source.Label()+" ===")
	}
}

func TestTruncate_UnderLimitUnchanged(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 100))
}

func TestTruncate_HardCutWithMarker(t *testing.T) {
	in := strings.Repeat("a", 300)
	out := Truncate(in, 100)
	assert.True(t, strings.HasPrefix(out, strings.Repeat("a", 100)))
	assert.True(t, strings.HasSuffix(out, truncationMarker))
	assert.Len(t, out, 100+len(truncationMarker))
}

func TestTruncate_ZeroLimitDisabled(t *testing.T) {
	in := strings.Repeat("b", 300)
	assert.Equal(t, in, Truncate(in, 0))
}
