package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ats-backend/internal/llm"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.1-8b-instant"
	defaultTimeout = 30 * time.Second

	// Low temperature keeps the generator close to the requested schema.
	temperature = 0.2
)

// Client implements llm.Client against an OpenAI-compatible chat-completions
// endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient constructs a Client. An empty API key is allowed: the credential
// is checked per call, so a misconfigured process still serves requests via
// the fallback path instead of failing at startup.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
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
	Temperature float32       `json:"temperature"`
}

// chatResponse covers the known envelope shapes: chat-style choices with
// message.content, legacy choices with text, and flat output/result fields.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
		Text    string      `json:"text"`
	} `json:"choices"`
	Output string `json:"output"`
	Result string `json:"result"`
	Error  *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends one single-turn prompt and returns the generated text.
// Failures are not retried here.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", llm.ErrNoAPIKey
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("groq request timeout: %w", err)
		}
		return "", fmt.Errorf("groq request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("groq response read: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("groq request failed: status=%d body=%s", resp.StatusCode, snippet(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Last resort: hand the raw payload downstream for JSON recovery.
		return string(body), nil
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("groq error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	return textFromEnvelope(parsed, body), nil
}

// textFromEnvelope resolves generated text from the envelope in a fixed
// order: choices[0].message.content, choices[0].text, output, result, and
// finally the stringified envelope.
func textFromEnvelope(resp chatResponse, raw []byte) string {
	if len(resp.Choices) > 0 {
		first := resp.Choices[0]
		if s := strings.TrimSpace(first.Message.Content); s != "" {
			return s
		}
		if s := strings.TrimSpace(first.Text); s != "" {
			return s
		}
	}
	if s := strings.TrimSpace(resp.Output); s != "" {
		return s
	}
	if s := strings.TrimSpace(resp.Result); s != "" {
		return s
	}
	return string(raw)
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

var _ llm.Client = (*Client)(nil)
