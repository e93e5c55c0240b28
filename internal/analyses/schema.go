package analyses

// Report is the schema-complete analysis result returned to callers. The
// JSON field names are a frontend contract; after normalization every field
// is present and type-correct, so consumers never branch on missing keys.
// Reports are value types, built fresh per request and immutable once
// returned.
type Report struct {
	Score               int             `json:"score"`
	MatchedKeywords     []string        `json:"matched_keywords"`
	MissingKeywords     []string        `json:"missing_keywords"`
	FormattingIssues    []string        `json:"formatting_issues"`
	Suggestions         []string        `json:"suggestions"`
	Strengths           []string        `json:"strengths"`
	Extracted           Extracted       `json:"extracted"`
	GrammaticalErrors   []string        `json:"grammatical_errors"`
	ProfessionalTone    string          `json:"professional_tone"`
	UnnecessaryInfo     []string        `json:"unnecessary_info"`
	ExperienceRelevance string          `json:"experience_relevance"`
	SkillsRelevance     SkillsRelevance `json:"skills_relevance"`

	// Error is set only when the generative path failed and a fallback
	// produced the report. Diagnostic, not part of the canonical schema.
	Error string `json:"error,omitempty"`
}

// Extracted holds candidate fields pulled from the resume.
type Extracted struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Position   string   `json:"position"`
	Experience string   `json:"experience"`
	Skills     []string `json:"skills"`
}

// SkillsRelevance splits skills into those the job description matched and
// those it requires but the resume lacks.
type SkillsRelevance struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

const defaultScore = 50

// DefaultReport returns the canonical defaults every report is filled from.
func DefaultReport() Report {
	return Report{
		Score:            defaultScore,
		MatchedKeywords:  []string{},
		MissingKeywords:  []string{},
		FormattingIssues: []string{},
		Suggestions:      []string{},
		Strengths:        []string{},
		Extracted: Extracted{
			Experience: "Fresher",
			Skills:     []string{},
		},
		GrammaticalErrors: []string{},
		UnnecessaryInfo:   []string{},
		SkillsRelevance: SkillsRelevance{
			Matched: []string{},
			Missing: []string{},
		},
	}
}
