package recommend

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ats-backend/internal/extract"
	"ats-backend/internal/shared/metrics"
	"ats-backend/internal/shared/server/respond"
	"ats-backend/internal/shared/telemetry"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires the recommendation route to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the recommendation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recommendations", h.recommend)
}

func (h *Handler) recommend(c *gin.Context) {
	metrics.IncRecommendRequest()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	jobTitle := strings.TrimSpace(c.PostForm("job_title"))
	if jobTitle == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "job_title is required", nil)
		return
	}

	resumeText, ok := h.resumeTextFromForm(c)
	if !ok {
		return
	}

	result, err := h.Svc.Recommend(c.Request.Context(), Request{
		ResumeText: resumeText,
		JobTitle:   jobTitle,
		Location:   c.PostForm("location"),
		JobType:    c.PostForm("job_type"),
		Experience: c.PostForm("experience"),
	})
	if err != nil {
		metrics.IncRecommendFailure()
		telemetry.Warn("recommend.failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusBadGateway, "generation_failed", "failed to generate recommendations", nil)
		return
	}

	if result.Raw != "" {
		respond.OK(c, gin.H{"raw": result.Raw})
		return
	}
	respond.OK(c, gin.H{"recommendations": result.Recommendations})
}

// resumeTextFromForm extracts resume text from the optional uploaded file.
// It writes the error response itself and reports success via the bool.
func (h *Handler) resumeTextFromForm(c *gin.Context) (string, bool) {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		// Resume upload is optional here.
		return "", true
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return "", false
	}

	text, err := extract.ExtractTextFromBytes(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedFormat) {
			respond.Error(c, http.StatusBadRequest, "unsupported_format", "unsupported file format", nil)
		} else {
			respond.Error(c, http.StatusInternalServerError, "extract_failed", "failed to extract resume text", nil)
		}
		return "", false
	}
	return text, true
}
