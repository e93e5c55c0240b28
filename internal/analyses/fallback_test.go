package analyses

import (
	"reflect"
	"strings"
	"testing"
)

func TestFallbackReportVocabularyMatching(t *testing.T) {
	text := "Built services in Python and Java backed by SQL, deployed with Docker on AWS, plus React and JavaScript frontends and some C++"
	rep := FallbackReport(text)

	if rep.Score != 55 {
		t.Fatalf("expected score 55, got %d", rep.Score)
	}
	if rep.Error != ErrorFallbackUsed {
		t.Fatalf("expected error marker %q, got %q", ErrorFallbackUsed, rep.Error)
	}
	// Tokens are whitespace-split, so "SQL," and "AWS," do not count; the
	// matched lists cap at five in vocabulary order.
	want := []string{"python", "java", "javascript", "react", "docker"}
	if !reflect.DeepEqual(rep.MatchedKeywords, want) {
		t.Fatalf("matched_keywords = %v, want %v", rep.MatchedKeywords, want)
	}
	if !reflect.DeepEqual(rep.Extracted.Skills, want) {
		t.Fatalf("extracted.skills = %v, want %v", rep.Extracted.Skills, want)
	}
	if !reflect.DeepEqual(rep.SkillsRelevance.Matched, want[:3]) {
		t.Fatalf("skills_relevance.matched = %v, want %v", rep.SkillsRelevance.Matched, want[:3])
	}
}

func TestFallbackReportExperienceBucket(t *testing.T) {
	short := FallbackReport("python developer")
	if short.Extracted.Experience != "Fresher" {
		t.Fatalf("short text experience = %q", short.Extracted.Experience)
	}

	long := FallbackReport(strings.Repeat("word ", 41))
	if long.Extracted.Experience != "1-2 years" {
		t.Fatalf("long text experience = %q", long.Extracted.Experience)
	}
}

func TestFallbackReportDeterministic(t *testing.T) {
	text := "aws docker sql plumbing"
	first := FallbackReport(text)
	second := FallbackReport(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("fallback not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestFallbackReportEmptyText(t *testing.T) {
	rep := FallbackReport("")

	if rep.Score != 55 {
		t.Fatalf("expected score 55, got %d", rep.Score)
	}
	if len(rep.MatchedKeywords) != 0 {
		t.Fatalf("expected no matched keywords, got %v", rep.MatchedKeywords)
	}
	if rep.Extracted.Experience != "Fresher" {
		t.Fatalf("expected Fresher, got %q", rep.Extracted.Experience)
	}
	if len(rep.Suggestions) != 2 || len(rep.Strengths) != 2 {
		t.Fatalf("canned lists missing: %+v", rep)
	}
}
