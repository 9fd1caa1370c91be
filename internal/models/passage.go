// Package models defines core data structures for passages, turns, and search results.
package models

// Passage is a bounded span of extracted document text used as a retrieval unit.
// Immutable once created.
type Passage struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
	Index      int    `json:"index"`
}

// ScoredPassage is a retrieval hit: a passage with its similarity score.
type ScoredPassage struct {
	Passage Passage `json:"passage"`
	Score   float64 `json:"score"`
}
