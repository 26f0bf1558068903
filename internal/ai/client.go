// Package ai is a minimal HTTP client for a local Ollama runtime, used
// to turn dataset statistics into a prose summary. Network failures
// degrade gracefully at the caller; this package only reports them with
// typed errors.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"time"
)

// Client talks to an Ollama /api/generate endpoint.
type Client struct {
	httpClient       *http.Client
	host             string
	model            string
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
}

// NewClient creates a client targeting the given host (e.g.,
// http://127.0.0.1:11434). Zero values fall back to defaults.
func NewClient(host, model string, httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration) *Client {
	if host == "" {
		host = "http://127.0.0.1:11434"
	}
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}
	if retryMax <= 0 {
		retryMax = 2
	}
	if baseDelay <= 0 {
		baseDelay = 200 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 1 * time.Second
	}
	return &Client{
		httpClient:       &http.Client{Timeout: httpTimeout},
		host:             host,
		model:            model,
		retryMaxAttempts: retryMax,
		retryBaseDelay:   baseDelay,
		retryMaxDelay:    maxDelay,
	}
}

// Structures aligned with Ollama /api/generate (non-streaming)
type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Summarize sends the prompt to Ollama and returns the generated text.
// Transient network errors are retried with exponential backoff and
// jitter; HTTP error statuses map to the typed errors in this package.
func (c *Client) Summarize(ctx context.Context, prompt string) (string, error) {
	if c.model == "" {
		return "", errors.New("model cannot be empty")
	}
	if prompt == "" {
		return "", errors.New("prompt cannot be empty")
	}

	payload, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: map[string]any{"temperature": 0.2},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.host + "/api/generate"
	backoff := c.retryBaseDelay

	var lastErr error
	for attempt := 1; attempt <= c.retryMaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("build request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if isRetryableNetErr(err) && attempt < c.retryMaxAttempts {
				time.Sleep(c.withJitter(backoff))
				backoff *= 2
				continue
			}
			return "", &UnreachableError{Host: c.host, Err: err}
		}

		var text string
		text, lastErr = c.readResponse(resp)
		if lastErr == nil {
			return text, nil
		}
		if attempt < c.retryMaxAttempts {
			time.Sleep(c.withJitter(backoff))
			backoff *= 2
			continue
		}
		break
	}
	return "", lastErr
}

func (c *Client) readResponse(resp *http.Response) (string, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		var raw map[string]any
		_ = json.Unmarshal(body, &raw)
		apiErr := &APIError{StatusCode: resp.StatusCode, Raw: raw}
		if msg, ok := raw["error"].(string); ok {
			apiErr.Message = msg
		}
		switch {
		case resp.StatusCode == http.StatusNotFound:
			// Likely missing model
			return "", &ModelNotFoundError{APIError: apiErr}
		case resp.StatusCode >= 500:
			return "", &ServerError{APIError: apiErr}
		case resp.StatusCode == http.StatusBadRequest:
			return "", &BadRequestError{APIError: apiErr}
		}
		return "", apiErr
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Response == "" {
		return "", errors.New("empty response from model")
	}
	return out.Response, nil
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, io.EOF)
}

func (c *Client) withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	if d > c.retryMaxDelay {
		d = c.retryMaxDelay
	}
	// jitter factor in [0.8, 1.2)
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}
