// Package ingest turns raw source material (text, HTML, or a URL) into
// embedded chunks stored in the source-scoped vector collections.
package ingest

import "strings"

// ChunkText splits text into word-based chunks of at most chunkWords words,
// with overlapWords words of overlap between consecutive chunks. Overlap
// keeps sentences that straddle a boundary retrievable from both sides.
func ChunkText(text string, chunkWords, overlapWords int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if chunkWords <= 0 {
		chunkWords = 400
	}
	if overlapWords < 0 || overlapWords >= chunkWords {
		overlapWords = 0
	}

	if len(words) <= chunkWords {
		return []string{strings.Join(words, " ")}
	}

	step := chunkWords - overlapWords
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + chunkWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
