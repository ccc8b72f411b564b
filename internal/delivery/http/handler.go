package http

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cvmatch/backend/internal/domain"
)

const serviceVersion = "1.0.0"

// MatchService is the slice of the usecase layer the handlers need.
type MatchService interface {
	Match(ctx context.Context, cv, jd domain.RawInput) (*domain.MatchResult, error)
	ListSkills() []string
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matchService MatchService
}

// NewHandler creates a new HTTP handler
func NewHandler(matchService MatchService) *Handler {
	return &Handler{matchService: matchService}
}

// Root returns API information
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "CV-to-Job Matcher API",
		"version": serviceVersion,
		"endpoints": gin.H{
			"health": "/health",
			"match":  "/api/v1/match (POST)",
			"skills": "/api/v1/skills",
		},
	})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cvmatch-backend",
		"version": serviceVersion,
	})
}

// ListSkills returns the full skill taxonomy
func (h *Handler) ListSkills(c *gin.Context) {
	skills := h.matchService.ListSkills()
	c.JSON(http.StatusOK, gin.H{
		"total_skills": len(skills),
		"skills":       skills,
	})
}

// Match handles a CV / job description match request. Each document arrives
// either as an uploaded file (cv_file / jd_file, PDF detected by filename
// suffix) or as a plain text form field (cv_text / jd_text).
func (h *Handler) Match(c *gin.Context) {
	cvInput, err := documentFromForm(c, "cv_file", "cv_text")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either cv_file or cv_text must be provided"})
		return
	}
	jdInput, err := documentFromForm(c, "jd_file", "jd_text")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either jd_file or jd_text must be provided"})
		return
	}

	result, err := h.matchService.Match(c.Request.Context(), cvInput, jdInput)
	if err != nil {
		respondMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// documentFromForm reads one document from the multipart form, preferring
// the file field over the text field when both are present.
func documentFromForm(c *gin.Context, fileField, textField string) (domain.RawInput, error) {
	fileHeader, err := c.FormFile(fileField)
	if err == nil {
		content, readErr := readUpload(fileHeader)
		if readErr != nil {
			return domain.RawInput{}, readErr
		}
		return domain.NewFileInput(content, isPDFFilename(fileHeader.Filename)), nil
	}

	text := c.PostForm(textField)
	if text == "" {
		return domain.RawInput{}, errors.New("no document provided")
	}
	return domain.NewTextInput(text), nil
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func isPDFFilename(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// respondMatchError maps pipeline failures onto status codes: bad input is
// the caller's to fix (400), an unreadable document is theirs too but a
// different class (422), anything else is ours (500) and the details stay
// in the server log.
func respondMatchError(c *gin.Context, err error) {
	switch {
	case domain.IsUserError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
	case errors.Is(err, domain.ErrExtraction):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Printf("[HTTP] match request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
