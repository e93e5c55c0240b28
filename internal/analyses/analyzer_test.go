package analyses

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ats-backend/internal/llm"
)

// stubLLM is a canned completion client for pipeline tests.
type stubLLM struct {
	text    string
	err     error
	prompts []string
}

func (s *stubLLM) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	s.prompts = append(s.prompts, req.Prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func TestAnalyzeNormalizesGeneratedReport(t *testing.T) {
	a := &Analyzer{LLM: &stubLLM{text: `{"score": 88, "missing_keywords": ["kubernetes"], "extracted": {"position": "Backend Engineer"}}`}}

	rep := a.Analyze(context.Background(), "resume text", "job description")

	if rep.Score != 88 {
		t.Fatalf("score = %d, want 88", rep.Score)
	}
	if len(rep.MissingKeywords) != 1 || rep.MissingKeywords[0] != "kubernetes" {
		t.Fatalf("missing_keywords = %v", rep.MissingKeywords)
	}
	if rep.Extracted.Position != "Backend Engineer" {
		t.Fatalf("position = %q", rep.Extracted.Position)
	}
	assertSchemaComplete(t, rep)
}

func TestAnalyzeRecoversJSONFromProse(t *testing.T) {
	text := "Sure! Here is the analysis you asked for:\n```json\n{\"score\": 77}\n```\nLet me know if you need anything else."
	a := &Analyzer{LLM: &stubLLM{text: text}}

	rep := a.Analyze(context.Background(), "resume text", "")

	if rep.Score != 77 {
		t.Fatalf("score = %d, want 77", rep.Score)
	}
}

func TestAnalyzeUnparseableTextFallsBack(t *testing.T) {
	a := &Analyzer{LLM: &stubLLM{text: "I cannot evaluate this resume, sorry."}}

	rep := a.Analyze(context.Background(), "python sql developer", "wants kubernetes experience")

	if rep.Score != 55 {
		t.Fatalf("score = %d, want 55", rep.Score)
	}
	if rep.Error != ErrorFallbackUsed {
		t.Fatalf("error = %q, want %q", rep.Error, ErrorFallbackUsed)
	}
	// The heuristic has no JD matching, so the JD-dependent fields stay empty
	// even when a JD was supplied.
	if len(rep.MissingKeywords) != 0 || rep.Extracted.Position != "" {
		t.Fatalf("JD fields populated on fallback: %+v", rep)
	}
	assertSchemaComplete(t, rep)
}

func TestAnalyzeNullResponseFallsBack(t *testing.T) {
	// "null" decodes without error but carries no object; it must take the
	// heuristic path, not turn into a default score-50 report.
	a := &Analyzer{LLM: &stubLLM{text: "null"}}

	rep := a.Analyze(context.Background(), "python sql developer", "")

	if rep.Score != 55 {
		t.Fatalf("score = %d, want 55", rep.Score)
	}
	if rep.Error != ErrorFallbackUsed {
		t.Fatalf("error = %q, want %q", rep.Error, ErrorFallbackUsed)
	}
}

func TestAnalyzeClientErrorFallsBack(t *testing.T) {
	a := &Analyzer{LLM: &stubLLM{err: errors.New("connection refused")}}

	rep := a.Analyze(context.Background(), "java docker", "")

	if rep.Score != 55 || rep.Error != ErrorFallbackUsed {
		t.Fatalf("expected fallback report, got score=%d error=%q", rep.Score, rep.Error)
	}
	if len(rep.MatchedKeywords) != 2 {
		t.Fatalf("matched_keywords = %v", rep.MatchedKeywords)
	}
}

func TestAnalyzeWithoutClientUsesHeuristic(t *testing.T) {
	// No credential configured: the analyzer is built with a nil client and
	// every request takes the deterministic path.
	a := &Analyzer{}

	resume := strings.Repeat("shipped production systems in python and sql on aws ", 60)
	rep := a.Analyze(context.Background(), resume, "")

	if rep.Score != 55 {
		t.Fatalf("score = %d, want 55", rep.Score)
	}
	if rep.Error != ErrorFallbackUsed {
		t.Fatalf("error = %q", rep.Error)
	}
	if rep.Extracted.Experience != "1-2 years" {
		t.Fatalf("experience = %q, want 1-2 years for a long resume", rep.Extracted.Experience)
	}
	assertSchemaComplete(t, rep)
}

func TestAnalyzePromptVariantSelection(t *testing.T) {
	stub := &stubLLM{text: `{"score": 60}`}
	a := &Analyzer{LLM: stub}

	a.Analyze(context.Background(), "resume", "   \n\t ")
	a.Analyze(context.Background(), "resume", "real job description")

	if len(stub.prompts) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(stub.prompts))
	}
	if strings.Contains(stub.prompts[0], "JOB DESCRIPTION:") {
		t.Fatalf("whitespace JD selected the matching prompt")
	}
	if !strings.Contains(stub.prompts[1], "JOB DESCRIPTION:") {
		t.Fatalf("JD prompt missing job description section")
	}
	if !strings.Contains(stub.prompts[1], "real job description") {
		t.Fatalf("JD text not embedded in prompt")
	}
}

func TestAnalyzeTotality(t *testing.T) {
	clients := []llm.Client{
		nil,
		&stubLLM{text: ""},
		&stubLLM{text: "null"},
		&stubLLM{text: `{"score": "high", "extracted": 3}`},
		&stubLLM{err: errors.New("timeout")},
	}
	inputs := []struct{ resume, jd string }{
		{"", ""},
		{"plain resume", "plain jd"},
		{strings.Repeat("x", 10000), ""},
		{"unicode résumé 简历", "описание"},
	}

	for _, client := range clients {
		a := &Analyzer{LLM: client}
		for _, in := range inputs {
			rep := a.Analyze(context.Background(), in.resume, in.jd)
			assertSchemaComplete(t, rep)
		}
	}
}
