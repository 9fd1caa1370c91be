package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// ErrNoCandidates is returned when the generation response carries no usable
// candidate text.
var ErrNoCandidates = errors.New("generation response has no candidates")

// GeminiClient calls the Gemini generateContent REST API.
type GeminiClient struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

// NewGeminiClient creates a Gemini client. Timeouts are split: a short
// connect timeout so an unreachable service fails fast, and a longer overall
// timeout covering the generation itself.
func NewGeminiClient(baseURL, model, apiKey string, connectTimeout, timeout time.Duration) *GeminiClient {
	if connectTimeout <= 0 {
		connectTimeout = 3 * time.Second
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GeminiClient{
		baseURL: baseURL,
		model:   model,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
	}
}

// Wire format: a request is one or more contents, each holding parts of plain
// text; the response mirrors this under candidates.
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate posts the prompt and returns the first candidate's first part.
// An empty candidate or part list is an explicit error, never an index panic.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call generation service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation service returned status %d", resp.StatusCode)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoCandidates
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
