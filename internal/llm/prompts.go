package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/resume_only.txt
	resumeOnlyTemplate string
	//go:embed prompts/resume_jd.txt
	resumeJDTemplate string
	//go:embed prompts/recommend.txt
	recommendTemplate string
)

// recommendResumeLimit caps how much resume text the recommender prompt
// carries; anything beyond it adds tokens without adding signal.
const recommendResumeLimit = 4000

// BuildResumeOnlyPrompt instructs the generator to score generic resume
// quality. Pure function, no I/O.
func BuildResumeOnlyPrompt(resumeText string) string {
	return strings.NewReplacer(
		"{{RESUME_TEXT}}", resumeText,
	).Replace(resumeOnlyTemplate)
}

// BuildResumeJDPrompt instructs the generator to score the resume against a
// job description. Pure function, no I/O.
func BuildResumeJDPrompt(resumeText, jobDescription string) string {
	return strings.NewReplacer(
		"{{RESUME_TEXT}}", resumeText,
		"{{JOB_DESCRIPTION}}", jobDescription,
	).Replace(resumeJDTemplate)
}

// BuildAnalysisPrompt picks the prompt variant solely on whether the job
// description is non-empty after trimming.
func BuildAnalysisPrompt(resumeText, jobDescription string) string {
	jd := strings.TrimSpace(jobDescription)
	if jd == "" {
		return BuildResumeOnlyPrompt(resumeText)
	}
	return BuildResumeJDPrompt(resumeText, jd)
}

// BuildRecommendPrompt builds the job recommendation prompt. The resume text
// is truncated to recommendResumeLimit characters.
func BuildRecommendPrompt(resumeText, jobTitle, location, jobType, experience string) string {
	if len(resumeText) > recommendResumeLimit {
		resumeText = resumeText[:recommendResumeLimit]
	}
	return strings.NewReplacer(
		"{{RESUME_TEXT}}", resumeText,
		"{{JOB_TITLE}}", jobTitle,
		"{{LOCATION}}", location,
		"{{JOB_TYPE}}", jobType,
		"{{EXPERIENCE}}", experience,
	).Replace(recommendTemplate)
}
