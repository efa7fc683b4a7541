package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Lllllllleong/passscan/internal/logger"
	"github.com/Lllllllleong/passscan/internal/models"
	"github.com/Lllllllleong/passscan/internal/services"
	"github.com/gin-gonic/gin"
)

const (
	serviceName        = "AI Pass Scan API"
	serviceVersion     = "1.0.0"
	serviceDescription = "Extract structured information from travel documents"
)

// Scanner runs one batch scan.
type Scanner interface {
	Scan(ctx context.Context, files []models.UploadedFile, opts services.ScanOptions) (*models.BatchSummary, error)
}

// Handler serves the scan API.
type Handler struct {
	scanner Scanner
}

func NewHandler(scanner Scanner) *Handler {
	return &Handler{scanner: scanner}
}

// Info describes the service.
func (h *Handler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        serviceName,
		"version":     serviceVersion,
		"description": serviceDescription,
		"status":      "active",
		"endpoints": gin.H{
			"/":       "API information",
			"/health": "Liveness check",
			"/scan":   "Upload and process travel documents (PDF, images)",
		},
		"supported_formats": []string{"PDF", "JPG", "JPEG", "PNG"},
		"processing_methods": []string{
			"Direct Gemini (PDF only): Direct AI processing for faster results",
		},
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Scan accepts a multipart batch under "files" and an optional "gemini_only" flag.
func (h *Handler) Scan(c *gin.Context) {
	ctx := c.Request.Context()
	logCtx := logger.WithContext(ctx)

	form, err := c.MultipartForm()
	if err != nil {
		logCtx.Warn("Could not parse scan request body", "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Request body must be multipart/form-data: " + err.Error()})
		return
	}
	defer func() {
		if err := form.RemoveAll(); err != nil {
			logCtx.Warn("Could not remove multipart temp files", "error", err)
		}
	}()

	files := uploadedFiles(form, "files")
	if files == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Field required: files"})
		return
	}

	geminiOnly, err := formBool(form.Value["gemini_only"])
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	summary, err := h.scanner.Scan(ctx, files, services.ScanOptions{GeminiOnly: geminiOnly})
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": validationErr.Detail})
			return
		}
		logCtx.Error("Scan failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// formBool reads an optional boolean form field. Missing means false.
func formBool(values []string) (bool, error) {
	if len(values) == 0 {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(values[0])) {
	case "true", "1", "yes", "on", "t", "y":
		return true, nil
	case "false", "0", "no", "off", "f", "n", "":
		return false, nil
	default:
		return false, fmt.Errorf("gemini_only must be a boolean, got %q", values[0])
	}
}
