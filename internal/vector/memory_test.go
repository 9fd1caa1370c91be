package vector

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/knowbot/knowbot/internal/models"
)

func entry(id string, vec ...float32) Entry {
	return Entry{Vector: vec, Passage: models.Passage{ID: id, Text: id}}
}

func TestMemoryIndex_QueryOrdering(t *testing.T) {
	idx, err := NewMemoryIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()

	err = idx.AddAll(ctx, []Entry{
		entry("far", 0, 1, 0),
		entry("close", 0.9, 0.1, 0),
		entry("exact", 1, 0, 0),
	})
	if err != nil {
		t.Fatal(err)
	}

	matches, err := idx.Query(ctx, []float32{1, 0, 0}, 2, 0.0)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Passage.ID != "exact" || matches[1].Passage.ID != "close" {
		t.Errorf("order = %s, %s", matches[0].Passage.ID, matches[1].Passage.ID)
	}
	if matches[0].Score < matches[1].Score {
		t.Error("scores not descending")
	}
}

func TestMemoryIndex_MinScore(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	defer idx.Close()
	ctx := context.Background()
	_ = idx.AddAll(ctx, []Entry{
		entry("hit", 1, 0),
		entry("miss", 0, 1),
	})
	matches, err := idx.Query(ctx, []float32{1, 0}, 10, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Passage.ID != "hit" {
		t.Errorf("matches = %v", matches)
	}
}

func TestMemoryIndex_TiesKeepInsertionOrder(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	defer idx.Close()
	ctx := context.Background()
	// Identical vectors tie exactly; the earlier insert must rank first.
	_ = idx.AddAll(ctx, []Entry{
		entry("first", 1, 0),
		entry("second", 1, 0),
	})
	matches, _ := idx.Query(ctx, []float32{1, 0}, 2, 0.0)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Passage.ID != "first" {
		t.Errorf("tie broken against insertion order: %s first", matches[0].Passage.ID)
	}
}

func TestMemoryIndex_EmptyIndex(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	defer idx.Close()
	matches, err := idx.Query(context.Background(), []float32{1, 0}, 3, 0.0)
	if err != nil {
		t.Fatalf("empty index must not error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestMemoryIndex_DimensionMismatch(t *testing.T) {
	idx, _ := NewMemoryIndex(3)
	defer idx.Close()
	ctx := context.Background()

	err := idx.AddAll(ctx, []Entry{entry("ok", 1, 0, 0), entry("bad", 1, 0)})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	if idx.Size() != 0 {
		t.Errorf("mismatched batch must not partially insert, size = %d", idx.Size())
	}

	if _, err := idx.Query(ctx, []float32{1, 0}, 1, 0.0); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected query dimension error, got %v", err)
	}
}

func TestMemoryIndex_ConcurrentAddAll(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	defer idx.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = idx.AddAll(ctx, []Entry{entry("a1", 1, 0), entry("a2", 1, 0)})
	}()
	go func() {
		defer wg.Done()
		_ = idx.AddAll(ctx, []Entry{entry("b1", 0, 1), entry("b2", 0, 1)})
	}()
	wg.Wait()

	if idx.Size() != 4 {
		t.Fatalf("expected 4 entries after concurrent adds, got %d", idx.Size())
	}
	matches, err := idx.Query(ctx, []float32{1, 1}, 10, 0.0)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, m := range matches {
		seen[m.Passage.ID] = true
	}
	for _, id := range []string{"a1", "a2", "b1", "b2"} {
		if !seen[id] {
			t.Errorf("entry %s lost", id)
		}
	}
}

func TestNewMemoryIndex_InvalidDimensions(t *testing.T) {
	if _, err := NewMemoryIndex(0); err == nil {
		t.Error("expected error for zero dimensions")
	}
}
