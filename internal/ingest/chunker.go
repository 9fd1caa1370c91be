// Package ingest provides document chunking and the ingestion path into the
// vector index.
package ingest

import "strings"

// ChunkWords splits text on whitespace and groups consecutive words into
// chunks of exactly maxWords each; the final chunk holds the remainder.
// Empty or all-whitespace text yields nil. Chunks are space-joined with no
// surrounding whitespace. Splitting is purely positional: sentences and
// paragraphs may be cut mid-unit.
func ChunkWords(text string, maxWords int) []string {
	if maxWords <= 0 {
		return nil
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	chunks := make([]string, 0, (len(words)+maxWords-1)/maxWords)
	for start := 0; start < len(words); start += maxWords {
		end := start + maxWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
