package embedding

import (
	"hash/fnv"
	"strings"
)

// BERT special token IDs used by MiniLM-style models.
const (
	tokenCLS = 101
	tokenSEP = 102
)

// tokenize produces padded BERT-style inputs (input_ids, attention_mask,
// token_type_ids) from a whitespace word split with hash-derived token IDs.
// A real wordpiece vocabulary would improve quality; the model tolerates this
// approximation for similarity search.
func tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	if maxTokens <= 0 {
		maxTokens = 256
	}
	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)

	inputIDs[0] = tokenCLS
	attentionMask[0] = 1

	pos := 1
	for _, word := range strings.Fields(text) {
		if pos >= maxTokens-1 {
			break
		}
		inputIDs[pos] = int64(hashWord(word) % 30000)
		attentionMask[pos] = 1
		pos++
	}
	if pos < maxTokens {
		inputIDs[pos] = tokenSEP
		attentionMask[pos] = 1
	}
	return inputIDs, attentionMask, tokenTypeIDs
}

// hashWord returns a deterministic non-negative hash for use as a token ID.
func hashWord(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
