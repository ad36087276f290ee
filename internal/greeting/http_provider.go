package greeting

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

// HTTPProvider calls a completion-style HTTP endpoint: POST a JSON body
// with the prompt, read back generated text.
type HTTPProvider struct {
	httpClient *http.Client
	endpoint   string
	model      string
}

// NewHTTPProvider creates a provider for the given endpoint. The model
// string is passed through to the backend and may be empty.
func NewHTTPProvider(endpoint, model string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		model:      model,
	}
}

func (p *HTTPProvider) Name() string {
	return "http"
}

type generateRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// Generate sends the prompt and returns the generated text.
func (p *HTTPProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.endpoint == "" {
		return "", fmt.Errorf("no endpoint configured")
	}

	body, err := json.Marshal(generateRequest{Model: p.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate text: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generate text: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return strings.TrimSpace(out.Text), nil
}
