package chat

import (
	"strings"

	"github.com/knowbot/knowbot/internal/models"
)

// promptPreamble anchors the model to the retrieved context before the
// labeled sections.
const promptPreamble = "You are a helpful PDF assistant. Use the document context below and the ongoing conversation to respond."

// The section labels are part of the contract: they anchor the model's
// grounding behavior, so they must not be reworded.
const (
	labelContext  = "Document Context:"
	labelHistory  = "Conversation:"
	labelQuestion = "Current Question:"
)

// BuildPrompt assembles the generation prompt from retrieved passages,
// rendered history, and the current question. Both context and history may
// be empty; the sections are emitted regardless.
func BuildPrompt(relevantContext, historyPrompt, question string) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\n\n")
	b.WriteString(labelContext)
	b.WriteString("\n")
	b.WriteString(relevantContext)
	b.WriteString("\n\n")
	b.WriteString(labelHistory)
	b.WriteString("\n")
	b.WriteString(historyPrompt)
	b.WriteString("\n\n")
	b.WriteString(labelQuestion)
	b.WriteString("\n")
	b.WriteString(question)
	b.WriteString("\n")
	return b.String()
}

// renderContext joins passage texts in descending-score order, separated by a
// blank line.
func renderContext(matches []models.ScoredPassage) string {
	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Passage.Text
	}
	return strings.Join(texts, "\n\n")
}

// renderHistory renders turns as "<role>: <content>" lines. limit > 0 keeps
// only the last limit turns.
func renderHistory(turns []models.Turn, limit int) string {
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	var b strings.Builder
	for _, t := range turns {
		b.WriteString(t.Role)
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	return b.String()
}
