package e2e

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/knowbot/knowbot/internal/chat"
	"github.com/knowbot/knowbot/internal/config"
	"github.com/knowbot/knowbot/internal/embedding"
	"github.com/knowbot/knowbot/internal/extract"
	"github.com/knowbot/knowbot/internal/genai"
	"github.com/knowbot/knowbot/internal/history"
	"github.com/knowbot/knowbot/internal/ingest"
	"github.com/knowbot/knowbot/internal/vector"
)

const e2eDimensions = 8

// echoGenerator returns the prompt it was given so assertions can inspect
// what the engine assembled.
type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, prompt string) (string, error) {
	return prompt, nil
}

func newPipeline(t *testing.T, hist history.Store) (*ingest.Ingestor, *chat.Engine) {
	t.Helper()
	embedder := embedding.NewMockEmbedder(e2eDimensions)
	idx, err := vector.NewMemoryIndex(e2eDimensions)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = idx.Close() })

	ingestor := ingest.NewIngestor(extract.NewExtractor(), embedder, idx, 5)
	engine := chat.NewEngine(embedder, idx, hist, echoGenerator{}, &config.ChatConfig{TopK: 2})
	return ingestor, engine
}

func TestE2E_AskGroundedInDocuments(t *testing.T) {
	ingestor, engine := newPipeline(t, history.NewMemoryStore())
	ctx := context.Background()

	doc := "invoices are sent on the first business day of each month to the account owner"
	if _, err := ingestor.IngestDocument(ctx, "billing.txt", []byte(doc)); err != nil {
		t.Fatal(err)
	}

	// Matches the first 5-word passage exactly, so the mock embedder scores
	// it 1.0 and it must be retrieved.
	prompt, err := engine.Answer(ctx, "s1", "invoices are sent on the")
	if err != nil {
		t.Fatal(err)
	}
	start := strings.Index(prompt, "Document Context:")
	end := strings.Index(prompt, "Conversation:")
	if start < 0 || end < start {
		t.Fatalf("prompt missing sections:\n%s", prompt)
	}
	if !strings.Contains(prompt[start:end], "invoices are sent on the") {
		t.Error("retrieved context missing the matching passage")
	}
	if !strings.Contains(prompt, "Current Question:\ninvoices are sent on the") {
		t.Error("prompt missing question section")
	}
}

func TestE2E_ConversationCarriesAcrossTurns(t *testing.T) {
	ingestor, engine := newPipeline(t, history.NewMemoryStore())
	ctx := context.Background()

	if _, err := ingestor.IngestDocument(ctx, "doc.txt", []byte("the warranty period lasts two years from purchase")); err != nil {
		t.Fatal(err)
	}

	first, err := engine.Answer(ctx, "s1", "how long is the warranty?")
	if err != nil {
		t.Fatal(err)
	}
	second, err := engine.Answer(ctx, "s1", "does it cover accidents?")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(second, "user: how long is the warranty?") {
		t.Error("second prompt missing first question in conversation")
	}
	if !strings.Contains(second, "assistant: "+strings.Split(first, "\n")[0]) {
		t.Error("second prompt missing recorded assistant turn")
	}

	if err := engine.Reset("s1"); err != nil {
		t.Fatal(err)
	}
	third, err := engine.Answer(ctx, "s1", "fresh question")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(third, "how long is the warranty?") {
		t.Error("reset session should not replay old turns")
	}
}

func TestE2E_SQLiteHistorySurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	hist, err := history.NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}

	ingestor, engine := newPipeline(t, hist)
	ctx := context.Background()
	if _, err := ingestor.IngestDocument(ctx, "doc.txt", []byte("alpha beta gamma delta epsilon zeta")); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Answer(ctx, "s1", "what is alpha?"); err != nil {
		t.Fatal(err)
	}
	if err := hist.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := history.NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	turns, err := reopened.Turns("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) == 0 || turns[0].Content != "what is alpha?" {
		t.Errorf("turns after reopen = %+v", turns)
	}
}
