package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Client talks to a configurable chat-completions backend over HTTP,
// authenticating with an optional bearer token.
type Client struct {
	BaseURL string
	Model   string
	Token   string
	Debug   bool
	Log     *zap.Logger

	httpClient *http.Client
}

// NewClient builds a client rooted at baseURL, defaulting to localhost
// when unset.
func NewClient(baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Model:      model,
		Log:        zap.NewNop(),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

// WithToken sets the bearer token used for the Authorization header.
func (c *Client) WithToken(token string) *Client {
	c.Token = token
	return c
}

// WithLogger attaches a structured logger for request/response debug
// traces, replacing the no-op logger NewClient installs by default.
func (c *Client) WithLogger(log *zap.Logger) *Client {
	c.Log = log
	return c
}

func (c *Client) logger() *zap.Logger {
	if c.Log != nil {
		return c.Log
	}
	return zap.NewNop()
}

func (c *Client) client() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	c.httpClient = &http.Client{Timeout: defaultRequestTimeout}
	return c.httpClient
}

func (c *Client) model(opts *Options) string {
	if opts != nil && opts.Model != "" {
		return opts.Model
	}
	if c.Model != "" {
		return c.Model
	}
	return "default"
}

func (c *Client) buildRequest(messages []ChatMessage, stream bool, opts *Options) ChatRequest {
	req := ChatRequest{Model: c.model(opts), Messages: messages, Stream: stream}
	if opts != nil {
		req.Temperature = opts.Temperature
		req.MaxTokens = opts.MaxTokens
		req.TopP = opts.TopP
	}
	return req
}

func (c *Client) newRequest(ctx context.Context, path string, body interface{}) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	c.logPayload(path, payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return req, nil
}

// Chat performs a non-streaming chat-completions request.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage, opts *Options) (*ChatResponse, error) {
	req, err := c.newRequest(ctx, "/v1/chat/completions", c.buildRequest(messages, false, opts))
	if err != nil {
		return nil, err
	}
	resp, err := c.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, c.errorFromResponse(resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logResponse("/v1/chat/completions", body)

	var raw chatCompletionResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	out := &ChatResponse{Usage: raw.Usage}
	if len(raw.Choices) > 0 {
		choice := raw.Choices[0]
		out.FinishReason = choice.FinishReason
		if choice.Message != nil {
			out.Text = choice.Message.Content
		}
	}
	return out, nil
}

// ChatStream performs a streaming chat-completions request, reading
// server-sent `data: {...}` lines and terminating on `data: [DONE]`. The
// returned channel is closed once the stream ends or ctx is cancelled.
func (c *Client) ChatStream(ctx context.Context, messages []ChatMessage, opts *Options) (<-chan StreamChunk, error) {
	req, err := c.newRequest(ctx, "/v1/chat/completions", c.buildRequest(messages, true, opts))
	if err != nil {
		return nil, err
	}
	resp, err := c.client().Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, c.errorFromResponse(resp)
	}

	ch := make(chan StreamChunk)
	go func() {
		defer resp.Body.Close()
		defer close(ch)
		if err := scanSSE(resp.Body, ch); err != nil {
			select {
			case ch <- StreamChunk{Err: err}:
			case <-ctx.Done():
			}
		}
	}()
	return ch, nil
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(msg))
	if detail != "" {
		return fmt.Errorf("llm backend error: %s: %s", resp.Status, detail)
	}
	return fmt.Errorf("llm backend error: %s", resp.Status)
}

// ListModels returns the backend's advertised model IDs via GET /v1/models.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/models", nil)
	if err != nil {
		return nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, c.errorFromResponse(resp)
	}
	var parsed modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Data))
	for _, m := range parsed.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// HealthCheck probes a short-timeout GET against /health, falling back to
// /models if /health is not implemented by the backend.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultHealthTimeout)
	defer cancel()

	if err := c.probe(ctx, "/health"); err == nil {
		return nil
	}
	return c.probe(ctx, "/models")
}

func (c *Client) probe(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("health probe %s: %s", path, resp.Status)
	}
	return nil
}

func (c *Client) logPayload(path string, payload []byte) {
	if !c.Debug {
		return
	}
	c.logger().Debug("llm request", zap.String("path", path), zap.String("payload", truncate(string(payload), 2048)))
}

func (c *Client) logResponse(path string, payload []byte) {
	if !c.Debug {
		return
	}
	c.logger().Debug("llm response", zap.String("path", path), zap.String("payload", truncate(string(payload), 2048)))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
