package analyses

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ats-backend/internal/extract"
	"ats-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires the ATS HTTP routes to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the ATS routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ats/analyze", h.analyze)
	rg.GET("/ats/history", h.listHistory)
	rg.GET("/ats/history/:id", h.getHistory)
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	jobDescription := c.PostForm("job_description")
	userID := strings.TrimSpace(c.PostForm("user_id"))
	mimeType := fileHeader.Header.Get("Content-Type")

	rec, err := h.Svc.AnalyzeUpload(c.Request.Context(), userID, fileHeader.Filename, mimeType, data, jobDescription)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedFormat):
			respond.Error(c, http.StatusBadRequest, "unsupported_format", "unsupported file format", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "extract_failed", "failed to extract resume text", nil)
		}
		return
	}

	c.Set("analysisId", rec.ID)
	respond.OK(c, gin.H{"id": rec.ID, "result": rec.Report})
}

func (h *Handler) getHistory(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "id is required", nil)
		return
	}

	rec, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}

	respond.OK(c, rec)
}

func (h *Handler) listHistory(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))

	limit := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	records, err := h.Svc.List(c.Request.Context(), userID, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list history", nil)
		return
	}

	respond.OK(c, gin.H{"history": records})
}
