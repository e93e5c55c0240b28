package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Client abstracts the text-generation service. The same client backs resume
// analysis and job recommendation; only the prompt and token budget differ.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest describes one single-turn generation call.
type CompletionRequest struct {
	Prompt    string
	MaxTokens int
}

// Token budgets per consumer.
const (
	MaxTokensAnalysis  = 1500
	MaxTokensRecommend = 500
)

var (
	// ErrNoAPIKey means no credential is configured. The service is
	// unavailable, not broken; callers take the fallback path.
	ErrNoAPIKey = errors.New("generation API key not configured")

	// ErrUnparseable means no JSON value could be recovered from the
	// generated text.
	ErrUnparseable = errors.New("no JSON found in generated text")
)

// RecoverJSON pulls a JSON object out of generated text. Direct parse first;
// generators wrap the object in prose despite instructions, so on failure the
// substring between the first '{' and the last '}' (inclusive) is retried.
// Completeness of the recovered object is not checked here.
func RecoverJSON(text string) (map[string]any, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, ErrUnparseable
	}

	// A literal "null" decodes without error into a nil map; that is no
	// object, so it counts as unparseable too.
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil && parsed != nil {
		return parsed, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, ErrUnparseable
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, ErrUnparseable
	}
	return parsed, nil
}

// RecoverJSONArray is the array counterpart of RecoverJSON, for responses
// that return a bare list instead of an object.
func RecoverJSONArray(text string) ([]any, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, ErrUnparseable
	}

	var parsed []any
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil && parsed != nil {
		return parsed, nil
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end <= start {
		return nil, ErrUnparseable
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, ErrUnparseable
	}
	return parsed, nil
}
