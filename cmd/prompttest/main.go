package main

// Exercise the analysis pipeline against local files without the HTTP layer:
//   go run ./cmd/prompttest -resume resume.pdf -jd jd.txt

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"ats-backend/internal/analyses"
	"ats-backend/internal/extract"
	"ats-backend/internal/llm"
	"ats-backend/internal/llm/groq"
	"ats-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	resumePath := flag.String("resume", "", "Path to resume file (pdf or docx)")
	jdPath := flag.String("jd", "", "Path to job description text file (optional)")
	promptOnly := flag.Bool("prompt-only", false, "Print the prompt and exit without calling the API")
	offline := flag.Bool("offline", false, "Skip the API and use the heuristic scorer")
	outPath := flag.String("out", "", "Path to write the report JSON (optional, defaults to stdout)")
	flag.Parse()

	if strings.TrimSpace(*resumePath) == "" {
		exitErr("resume path is required")
	}

	ctx := context.Background()

	resumeText, err := extract.ExtractFile(ctx, *resumePath)
	if err != nil {
		exitErr(fmt.Sprintf("extract resume text: %v", err))
	}
	resumeText = analyses.EnsureReadable(resumeText)

	jobDescription := ""
	if strings.TrimSpace(*jdPath) != "" {
		jdBytes, err := os.ReadFile(*jdPath)
		if err != nil {
			exitErr(fmt.Sprintf("read job description: %v", err))
		}
		jobDescription = string(jdBytes)
	}

	if *promptOnly {
		fmt.Println(llm.BuildAnalysisPrompt(resumeText, jobDescription))
		return
	}

	var client llm.Client
	if !*offline && cfg.GroqAPIKey != "" {
		timeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second
		client = groq.NewClient(cfg.GroqAPIKey, cfg.GroqAPIURL, cfg.GroqModel, timeout)
	}

	analyzer := &analyses.Analyzer{LLM: client}
	report := analyzer.Analyze(ctx, resumeText, jobDescription)

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("marshal report: %v", err))
	}

	if strings.TrimSpace(*outPath) != "" {
		if err := os.WriteFile(*outPath, payload, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
		return
	}
	fmt.Println(string(payload))
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, "error: "+msg)
	os.Exit(1)
}
