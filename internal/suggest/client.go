package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const liveCallTimeout = 30 * time.Second

// GenerationError covers every way a live call can fail to produce usable
// text: transport errors, non-2xx statuses, malformed bodies, and responses
// with no content. The caller treats them all the same.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// LiveGenerator calls an OpenAI-compatible chat completions endpoint. It
// makes exactly one attempt per request; retries are the caller's decision.
type LiveGenerator struct {
	httpClient *http.Client
}

func NewLiveGenerator() *LiveGenerator {
	return &LiveGenerator{
		httpClient: &http.Client{Timeout: liveCallTimeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat completion request and returns the first choice's
// content. Any failure, including an empty completion, comes back as a
// *GenerationError.
func (g *LiveGenerator) Complete(ctx context.Context, settings Settings, system, user string, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: settings.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", &GenerationError{Reason: "failed to encode request", Err: err}
	}

	url := settings.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &GenerationError{Reason: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+settings.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", &GenerationError{Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a little of the body for the log line, then discard.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &GenerationError{
			Reason: fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, snippet),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &GenerationError{Reason: "failed to decode response", Err: err}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &GenerationError{Reason: "response contained no content"}
	}
	return parsed.Choices[0].Message.Content, nil
}
