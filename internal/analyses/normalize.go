package analyses

// Normalize maps a possibly partial parsed object to a schema-complete
// Report. It is total: any input, nil included, yields a valid Report.
//
// Fields start from DefaultReport and are overwritten by present,
// usable-typed values; a present value whose type cannot populate the typed
// field degrades to the default. A non-record extracted or skills_relevance
// is discarded wholesale. The JD-absence rule is applied last, overriding
// whatever the generator proposed, so it holds even when instructions were
// ignored.
func Normalize(parsed map[string]any, jdPresent bool) Report {
	rep := DefaultReport()

	if parsed != nil {
		if v, ok := intValue(parsed["score"]); ok {
			rep.Score = v
		}
		if v, ok := stringSlice(parsed["matched_keywords"]); ok {
			rep.MatchedKeywords = v
		}
		if v, ok := stringSlice(parsed["missing_keywords"]); ok {
			rep.MissingKeywords = v
		}
		if v, ok := stringSlice(parsed["formatting_issues"]); ok {
			rep.FormattingIssues = v
		}
		if v, ok := stringSlice(parsed["suggestions"]); ok {
			rep.Suggestions = v
		}
		if v, ok := stringSlice(parsed["strengths"]); ok {
			rep.Strengths = v
		}
		if v, ok := stringSlice(parsed["grammatical_errors"]); ok {
			rep.GrammaticalErrors = v
		}
		if v, ok := stringSlice(parsed["unnecessary_info"]); ok {
			rep.UnnecessaryInfo = v
		}
		if v, ok := parsed["professional_tone"].(string); ok {
			rep.ProfessionalTone = v
		}
		if v, ok := parsed["experience_relevance"].(string); ok {
			rep.ExperienceRelevance = v
		}
		if v, ok := parsed["error"].(string); ok {
			rep.Error = v
		}

		if sub, ok := parsed["extracted"].(map[string]any); ok {
			if v, ok := sub["name"].(string); ok {
				rep.Extracted.Name = v
			}
			if v, ok := sub["email"].(string); ok {
				rep.Extracted.Email = v
			}
			if v, ok := sub["position"].(string); ok {
				rep.Extracted.Position = v
			}
			if v, ok := sub["experience"].(string); ok {
				rep.Extracted.Experience = v
			}
			if v, ok := stringSlice(sub["skills"]); ok {
				rep.Extracted.Skills = v
			}
		}
		if sub, ok := parsed["skills_relevance"].(map[string]any); ok {
			if v, ok := stringSlice(sub["matched"]); ok {
				rep.SkillsRelevance.Matched = v
			}
			if v, ok := stringSlice(sub["missing"]); ok {
				rep.SkillsRelevance.Missing = v
			}
		}
	}

	return finalize(rep, jdPresent)
}

// finalize enforces the invariants every returned Report satisfies,
// whichever path produced it: score inside [0,100], no nil slices, and the
// JD-absence rule. A report cannot claim "missing" requirements when no
// requirements were given.
func finalize(rep Report, jdPresent bool) Report {
	rep.Score = clampScore(rep.Score)

	rep.MatchedKeywords = ensureSlice(rep.MatchedKeywords)
	rep.MissingKeywords = ensureSlice(rep.MissingKeywords)
	rep.FormattingIssues = ensureSlice(rep.FormattingIssues)
	rep.Suggestions = ensureSlice(rep.Suggestions)
	rep.Strengths = ensureSlice(rep.Strengths)
	rep.GrammaticalErrors = ensureSlice(rep.GrammaticalErrors)
	rep.UnnecessaryInfo = ensureSlice(rep.UnnecessaryInfo)
	rep.Extracted.Skills = ensureSlice(rep.Extracted.Skills)
	rep.SkillsRelevance.Matched = ensureSlice(rep.SkillsRelevance.Matched)
	rep.SkillsRelevance.Missing = ensureSlice(rep.SkillsRelevance.Missing)

	if !jdPresent {
		rep.MissingKeywords = []string{}
		rep.SkillsRelevance.Missing = []string{}
		rep.Extracted.Position = ""
	}
	return rep
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func ensureSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// intValue accepts the numeric types a decoded JSON object can carry.
// Fractional scores truncate toward zero.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

// stringSlice converts a decoded JSON array to []string, dropping elements
// of other types. A non-array value is unusable and reports false.
func stringSlice(v any) ([]string, bool) {
	switch arr := v.(type) {
	case []string:
		out := make([]string, len(arr))
		copy(out, arr)
		return out, true
	case []any:
		out := make([]string, 0, len(arr))
		for _, item := range arr {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}
