package analyses

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"ats-backend/internal/extract"
	"ats-backend/internal/shared/metrics"
	"ats-backend/internal/shared/storage/object"
	"ats-backend/internal/shared/telemetry"
)

// minReadableChars is the extraction readability threshold. Shorter text is
// replaced by the sentinel so analysis proceeds on degraded input instead of
// failing.
const minReadableChars = 50

// UnreadableSentinel substitutes resume text that failed the readability
// guard. The exact string is part of the prompt the generator sees.
const UnreadableSentinel = "ERROR: Could not extract readable resume text."

// Service drives the analyze flow around the pipeline: upload persistence,
// text extraction, the readability guard, the crash guard, and the
// best-effort history write.
type Service struct {
	Analyzer *Analyzer
	Repo     Repo
	Store    object.ObjectStore
}

// EnsureReadable applies the readability guard: text below the threshold is
// replaced with the unreadable sentinel.
func EnsureReadable(text string) string {
	if utf8.RuneCountInString(text) < minReadableChars {
		return UnreadableSentinel
	}
	return text
}

// AnalyzeUpload converts an uploaded document into a persisted analysis
// Record. The returned error covers extraction only; analysis itself always
// produces a Report, and object-store and history writes are best effort.
func (s *Service) AnalyzeUpload(ctx context.Context, userID, fileName, mimeType string, data []byte, jobDescription string) (Record, error) {
	metrics.IncAnalysisStarted()
	start := time.Now()

	storageKey := s.saveUpload(ctx, userID, fileName, data)

	resumeText, err := extract.ExtractTextFromBytes(ctx, data, mimeType, fileName)
	if err != nil {
		return Record{}, err
	}
	resumeText = EnsureReadable(resumeText)
	s.saveExtracted(ctx, storageKey, resumeText)

	report := s.analyzeGuarded(ctx, resumeText, jobDescription)

	rec := Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		Score:     report.Score,
		JDPresent: strings.TrimSpace(jobDescription) != "",
		FileName:  fileName,
		Report:    report,
		CreatedAt: time.Now().UTC(),
	}
	if s.Repo != nil {
		if err := s.Repo.Create(ctx, rec); err != nil {
			metrics.IncHistoryWriteFailed()
			telemetry.Error("history.write_failed", map[string]any{
				"id":    rec.ID,
				"error": err.Error(),
			})
		}
	}

	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	telemetry.Info("analysis.completed", map[string]any{
		"id":         rec.ID,
		"score":      report.Score,
		"jd_present": rec.JDPresent,
		"fallback":   report.Error == ErrorFallbackUsed,
	})
	return rec, nil
}

// Get returns one history record.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	if s.Repo == nil {
		return Record{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns a user's history, newest first.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Record, error) {
	if s.Repo == nil {
		return []Record{}, nil
	}
	return s.Repo.ListByUser(ctx, userID, limit)
}

// analyzeGuarded converts a pipeline panic into the zero-score diagnostic
// report instead of an unhandled fault.
func (s *Service) analyzeGuarded(ctx context.Context, resumeText, jobDescription string) (report Report) {
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Error("analysis.panic", map[string]any{"error": fmt.Sprint(rec)})
			crashed := DefaultReport()
			crashed.Score = 0
			crashed.Error = fmt.Sprintf("analyzer_failed: %v", rec)
			report = finalize(crashed, false)
		}
	}()
	return s.Analyzer.Analyze(ctx, resumeText, jobDescription)
}

// saveUpload stores the raw document. A failed write is logged and skipped;
// it never blocks analysis.
func (s *Service) saveUpload(ctx context.Context, userID, fileName string, data []byte) string {
	if s.Store == nil {
		return ""
	}
	key, _, _, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		telemetry.Warn("upload.save_failed", map[string]any{
			"file_name": fileName,
			"error":     err.Error(),
		})
		return ""
	}
	return key
}

// saveExtracted stores the extracted text next to the original document.
func (s *Service) saveExtracted(ctx context.Context, storageKey, text string) {
	if s.Store == nil || storageKey == "" {
		return
	}
	extractedKey := storageKey + ".extracted.txt"
	if _, err := s.Store.SaveWithKey(ctx, extractedKey, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		telemetry.Warn("upload.save_extracted_failed", map[string]any{
			"storage_key": extractedKey,
			"error":       err.Error(),
		})
	}
}
