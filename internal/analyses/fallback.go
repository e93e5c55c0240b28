package analyses

import "strings"

// ErrorFallbackUsed marks a report produced by the heuristic path.
const ErrorFallbackUsed = "fallback_used"

const fallbackScore = 55

// fallbackVocabulary is the closed skill-token list the heuristic scorer
// tests membership against, in fixed order.
var fallbackVocabulary = []string{
	"python", "java", "sql", "javascript", "react", "aws", "docker", "c++", "c",
}

var (
	fallbackSuggestions = []string{
		"Use relevant keywords from job description",
		"Improve bullet clarity",
	}
	fallbackStrengths = []string{
		"Education present",
		"Projects listed",
	}
)

// FallbackReport scores a resume without the generation service:
// deterministic, no external calls. Tokens are whitespace-split and
// lower-cased; skills come from vocabulary membership; the experience bucket
// is coarse by token count.
func FallbackReport(resumeText string) Report {
	words := strings.Fields(strings.ToLower(resumeText))
	present := make(map[string]bool, len(words))
	for _, w := range words {
		present[w] = true
	}

	var skills []string
	for _, tok := range fallbackVocabulary {
		if present[tok] {
			skills = append(skills, tok)
		}
	}

	rep := DefaultReport()
	rep.Score = fallbackScore
	rep.MatchedKeywords = firstN(skills, 5)
	rep.Suggestions = append([]string{}, fallbackSuggestions...)
	rep.Strengths = append([]string{}, fallbackStrengths...)
	rep.Extracted.Skills = firstN(skills, 5)
	rep.SkillsRelevance.Matched = firstN(skills, 3)
	if len(words) > 40 {
		rep.Extracted.Experience = "1-2 years"
	}
	rep.Error = ErrorFallbackUsed
	return rep
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		s = s[:n]
	}
	return append([]string{}, s...)
}
