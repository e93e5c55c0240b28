package analyses

import (
	"context"
	"strings"
	"time"

	"ats-backend/internal/llm"
	"ats-backend/internal/shared/metrics"
	"ats-backend/internal/shared/telemetry"
)

// Analyzer runs the resume analysis pipeline: prompt selection, generation,
// JSON recovery, normalization, with the deterministic fallback when the
// generative path is unavailable or fails. It is request-scoped and
// stateless; concurrent invocations share nothing mutable.
type Analyzer struct {
	LLM llm.Client
}

// Analyze produces a schema-complete Report. It never returns an error:
// resolver failures are values handled here by falling through to the
// fallback scorer. The JD path falls back to the plain resume-only heuristic
// too; there is no deterministic JD-matching heuristic.
func (a *Analyzer) Analyze(ctx context.Context, resumeText, jobDescription string) Report {
	jd := strings.TrimSpace(jobDescription)
	jdPresent := jd != ""

	var prompt string
	if jdPresent {
		prompt = llm.BuildResumeJDPrompt(resumeText, jd)
	} else {
		prompt = llm.BuildResumeOnlyPrompt(resumeText)
	}

	parsed, err := a.resolve(ctx, prompt)
	if err != nil {
		telemetry.Warn("analysis.fallback", map[string]any{
			"reason":     err.Error(),
			"jd_present": jdPresent,
		})
		metrics.IncAnalysisFallback()
		return finalize(FallbackReport(resumeText), false)
	}

	return Normalize(parsed, jdPresent)
}

// resolve performs the single outbound call and recovers a JSON object from
// the generated text. Failures are not retried at this layer.
func (a *Analyzer) resolve(ctx context.Context, prompt string) (map[string]any, error) {
	if a.LLM == nil {
		return nil, llm.ErrNoAPIKey
	}

	start := time.Now()
	text, err := a.LLM.Complete(ctx, llm.CompletionRequest{
		Prompt:    prompt,
		MaxTokens: llm.MaxTokensAnalysis,
	})
	metrics.ObserveLLMDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		return nil, err
	}
	return llm.RecoverJSON(text)
}
