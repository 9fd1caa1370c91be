package vector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/knowbot/knowbot/internal/models"
)

// MemoryIndex is an in-memory index using brute-force inner product search.
// Embeddings are expected to be unit-normalized, so inner product equals
// cosine similarity. Suitable for single-process corpora; the store is not
// persisted across restarts.
type MemoryIndex struct {
	dimensions int
	vectors    [][]float32
	passages   []models.Passage
	mu         sync.RWMutex
}

// NewMemoryIndex creates an in-memory index with the given dimension.
func NewMemoryIndex(dimensions int) (*MemoryIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &MemoryIndex{dimensions: dimensions}, nil
}

// AddAll appends entries under the write lock. All dimensions are validated
// before anything is inserted, so a mismatch never leaves a partial batch.
func (m *MemoryIndex) AddAll(ctx context.Context, entries []Entry) error {
	for _, e := range entries {
		if len(e.Vector) != m.dimensions {
			return fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(e.Vector), m.dimensions)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		vec := make([]float32, m.dimensions)
		copy(vec, e.Vector)
		m.vectors = append(m.vectors, vec)
		m.passages = append(m.passages, e.Passage)
	}
	return nil
}

// Query scores every stored vector against query and returns the top-k at or
// above minScore. Sorting is stable so equal scores keep insertion order.
func (m *MemoryIndex) Query(ctx context.Context, query []float32, k int, minScore float64) ([]models.ScoredPassage, error) {
	if len(query) != m.dimensions {
		return nil, fmt.Errorf("%w: query has %d, index expects %d", ErrDimensionMismatch, len(query), m.dimensions)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 || len(m.vectors) == 0 {
		return []models.ScoredPassage{}, nil
	}

	matches := make([]models.ScoredPassage, 0, len(m.vectors))
	for i, vec := range m.vectors {
		var dot float64
		for j := 0; j < m.dimensions; j++ {
			dot += float64(query[j] * vec[j])
		}
		if dot < minScore {
			continue
		}
		matches = append(matches, models.ScoredPassage{Passage: m.passages[i], Score: dot})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

// Size returns the number of stored entries.
func (m *MemoryIndex) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vectors)
}

// Close is a no-op for MemoryIndex.
func (m *MemoryIndex) Close() error {
	return nil
}
