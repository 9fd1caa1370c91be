// Package vector provides passage storage with cosine similarity search.
package vector

import (
	"context"
	"errors"

	"github.com/knowbot/knowbot/internal/models"
)

// ErrDimensionMismatch is returned when a vector's dimension does not match
// the index's configured dimension.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Entry pairs an embedding with its originating passage.
type Entry struct {
	Vector  []float32
	Passage models.Passage
}

// Index stores (embedding, passage) pairs and answers nearest-neighbor queries.
type Index interface {
	// AddAll inserts all entries; fails without partial insert if any vector
	// has the wrong dimension.
	AddAll(ctx context.Context, entries []Entry) error
	// Query returns at most k passages with similarity >= minScore, ordered
	// by descending score. Ties rank earlier-inserted entries first. An empty
	// index yields an empty result, not an error.
	Query(ctx context.Context, query []float32, k int, minScore float64) ([]models.ScoredPassage, error)
	Size() int
	Close() error
}
