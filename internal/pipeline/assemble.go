package pipeline

import (
	"strings"

	"github.com/fusionlabs/profilegen/internal/model"
)

// truncationMarker is appended whenever assembled context is cut to fit the
// extraction character budget.
const truncationMarker = "\n...[content truncated]"

// Assemble joins each source's chunks with single spaces and wraps them in
// labeled blocks, concatenated in the fixed source order. Sources with no
// chunks still get an (empty) block so the model sees the full frame.
func Assemble(chunksBySource map[model.Source][]string) string {
	var b strings.Builder
	for _, source := range model.AllSources {
		b.WriteString("=== ")
		b.WriteString(source.Label())
		b.WriteString(" ===\n")
		b.WriteString(strings.Join(chunksBySource[source], " "))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Truncate applies a hard character cut to assembled context, appending the
// truncation marker. The cut is boundary-agnostic: it may land mid-block.
func Truncate(context string, maxChars int) string {
	if maxChars <= 0 || len(context) <= maxChars {
		return context
	}
	return context[:maxChars] + truncationMarker
}
