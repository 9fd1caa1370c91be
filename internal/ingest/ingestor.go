package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/knowbot/knowbot/internal/embedding"
	"github.com/knowbot/knowbot/internal/extract"
	"github.com/knowbot/knowbot/internal/models"
	"github.com/knowbot/knowbot/internal/vector"
)

// Ingestor runs the write path: extract text, chunk into passages, embed the
// whole batch, and add everything to the vector index. Extraction and
// embedding failures surface to the caller; there is no partial silent
// success.
type Ingestor struct {
	extractor *extract.Extractor
	embedder  embedding.Embedder
	index     vector.Index
	chunkSize int
	logger    *zap.Logger
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithLogger sets a logger for ingest events.
func WithLogger(l *zap.Logger) IngestorOption {
	return func(ing *Ingestor) { ing.logger = l }
}

// NewIngestor creates an ingestor. chunkSize is the passage size in words.
func NewIngestor(
	extractor *extract.Extractor,
	embedder embedding.Embedder,
	index vector.Index,
	chunkSize int,
	opts ...IngestorOption,
) *Ingestor {
	ing := &Ingestor{
		extractor: extractor,
		embedder:  embedder,
		index:     index,
		chunkSize: chunkSize,
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// IngestDocument extracts text from content (format chosen by the name's
// extension), chunks it, and indexes the passages. Returns the number of
// passages added.
func (ing *Ingestor) IngestDocument(ctx context.Context, name string, content []byte) (int, error) {
	text, err := ing.extractor.ExtractBytes(content, strings.ToLower(filepath.Ext(name)))
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", name, err)
	}
	return ing.IngestText(ctx, name, text)
}

// IngestFile ingests the document at path.
func (ing *Ingestor) IngestFile(ctx context.Context, path string) (int, error) {
	text, err := ing.extractor.ExtractFile(path)
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", path, err)
	}
	return ing.IngestText(ctx, filepath.Base(path), text)
}

// IngestText chunks already-extracted text and indexes the passages. An
// empty document is a no-op, not an error.
func (ing *Ingestor) IngestText(ctx context.Context, name, text string) (int, error) {
	chunks := ChunkWords(text, ing.chunkSize)
	if len(chunks) == 0 {
		return 0, nil
	}

	// One batch call to the embedding service for the whole document.
	vecs, err := ing.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embed passages: %w", err)
	}
	if len(vecs) != len(chunks) {
		return 0, fmt.Errorf("embed passages: got %d embeddings for %d passages", len(vecs), len(chunks))
	}

	docID := uuid.New().String()
	entries := make([]vector.Entry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = vector.Entry{
			Vector: vecs[i],
			Passage: models.Passage{
				ID:         fmt.Sprintf("%s_%d", docID, i),
				DocumentID: docID,
				Text:       chunk,
				Index:      i,
			},
		}
	}
	if err := ing.index.AddAll(ctx, entries); err != nil {
		return 0, fmt.Errorf("index passages: %w", err)
	}

	if ing.logger != nil {
		ing.logger.Info("document ingested",
			zap.String("name", name),
			zap.String("doc_id", docID),
			zap.Int("passages", len(entries)),
		)
	}
	return len(entries), nil
}
