package pipeline

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// minChunkChars is the minimum normalized length a chunk must have to be kept.
// Shorter fragments are navigation debris or truncated sentences and add
// noise to the extraction context.
const minChunkChars = 50

// normalizeChunk produces the canonical comparison form of a chunk:
// Unicode NFC, trimmed, lowercased.
func normalizeChunk(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// Dedupe removes exact and near-exact duplicate chunks. A chunk is dropped
// when its normalized form was already seen, or when the normalized form is
// at most minChunkChars characters long. First-seen order is preserved and
// the original (unnormalized) text is returned. Idempotent.
func Dedupe(chunks []string) []string {
	seen := make(map[string]struct{}, len(chunks))
	unique := make([]string, 0, len(chunks))

	for _, chunk := range chunks {
		normalized := normalizeChunk(chunk)
		if len(normalized) <= minChunkChars {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		unique = append(unique, chunk)
	}
	return unique
}
