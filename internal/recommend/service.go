package recommend

import (
	"context"
	"strings"
	"time"

	"ats-backend/internal/llm"
	"ats-backend/internal/shared/metrics"
)

// Recommendation is one suggested job role.
type Recommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Level       string   `json:"level"`
	Skills      []string `json:"skills"`
}

// Request carries the recommendation inputs. All fields except JobTitle are
// optional free text.
type Request struct {
	ResumeText string
	JobTitle   string
	Location   string
	JobType    string
	Experience string
}

// Result is either a parsed recommendation list or, when the generated text
// did not fit the schema, the raw text for the client to render as-is.
type Result struct {
	Recommendations []Recommendation
	Raw             string
}

// Service generates job role recommendations. Unlike analysis there is no
// deterministic fallback: without a working generation client the operation
// fails.
type Service struct {
	LLM llm.Client
}

// Recommend produces role recommendations for the request.
func (s *Service) Recommend(ctx context.Context, req Request) (Result, error) {
	if s.LLM == nil {
		return Result{}, llm.ErrNoAPIKey
	}

	prompt := llm.BuildRecommendPrompt(req.ResumeText, req.JobTitle, req.Location, req.JobType, req.Experience)

	start := time.Now()
	text, err := s.LLM.Complete(ctx, llm.CompletionRequest{
		Prompt:    prompt,
		MaxTokens: llm.MaxTokensRecommend,
	})
	metrics.ObserveLLMDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		return Result{}, err
	}

	recs, ok := parseRecommendations(text)
	if !ok {
		// Degraded contract: hand the raw text to the client. The slice stays
		// initialized so an empty raw still serializes recommendations as [].
		return Result{Recommendations: []Recommendation{}, Raw: strings.TrimSpace(text)}, nil
	}
	return Result{Recommendations: recs}, nil
}

// parseRecommendations accepts either the documented envelope
// {"recommendations": [...]} or a bare JSON array.
func parseRecommendations(text string) ([]Recommendation, bool) {
	if obj, err := llm.RecoverJSON(text); err == nil {
		if items, ok := obj["recommendations"].([]any); ok {
			return convertItems(items), true
		}
		return nil, false
	}
	if items, err := llm.RecoverJSONArray(text); err == nil {
		return convertItems(items), true
	}
	return nil, false
}

func convertItems(items []any) []Recommendation {
	out := make([]Recommendation, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rec := Recommendation{
			Title:       stringField(entry, "title"),
			Description: stringField(entry, "description"),
			Level:       stringField(entry, "level"),
			Skills:      []string{},
		}
		if skills, ok := entry["skills"].([]any); ok {
			for _, s := range skills {
				if v, ok := s.(string); ok {
					rec.Skills = append(rec.Skills, v)
				}
			}
		}
		out = append(out, rec)
	}
	return out
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}
