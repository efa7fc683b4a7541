package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Lllllllleong/passscan/internal/logger"
	"github.com/Lllllllleong/passscan/internal/models"
)

// DocumentExtractor produces a record from a staged scratch file.
type DocumentExtractor interface {
	Extract(ctx context.Context, req models.ExtractionRequest) (models.ExtractedRecord, error)
}

// Processor handles a single uploaded file from staging to outcome.
type Processor struct {
	store     *TempStore
	extractor DocumentExtractor
	preflight PDFInspector
}

// NewProcessor wires a processor. preflight may be nil to skip PDF validation.
func NewProcessor(store *TempStore, extractor DocumentExtractor, preflight PDFInspector) *Processor {
	return &Processor{
		store:     store,
		extractor: extractor,
		preflight: preflight,
	}
}

// Process stages the upload, extracts it and always removes the scratch copy.
// It never fails: every problem is reported through Outcome.Failure.
func (p *Processor) Process(ctx context.Context, file models.UploadedFile, geminiOnly bool, fileIndex int) (outcome models.Outcome) {
	start := time.Now()
	filename := file.Name()
	req := p.store.NewRequest(fileIndex, filename)
	logCtx := logger.WithContext(ctx).With("fileIndex", fileIndex, "filename", filename, "tempId", req.TempID)

	defer func() {
		if err := p.store.Release(req); err != nil {
			logCtx.Warn("Could not remove scratch file", "path", req.LocalPath, "error", err)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			logCtx.Error("Panic while processing file", "panic", r)
			outcome = failure(fileIndex, filename, fmt.Sprintf("internal error: %v", r))
		}
	}()

	record, err := p.run(ctx, logCtx, file, req, geminiOnly)
	if err != nil {
		logCtx.Warn("File processing failed.", "error", err)
		return failure(fileIndex, filename, err.Error())
	}

	elapsed := time.Since(start).Seconds()
	logCtx.Info("File processed.", "processingTime", elapsed)
	return models.Outcome{Result: &models.FileResult{
		FileIndex:        fileIndex,
		Filename:         filename,
		ProcessingMethod: models.ProcessingMethodGeminiDirect,
		ProcessingTime:   elapsed,
		Data:             record,
	}}
}

func (p *Processor) run(ctx context.Context, logCtx *slog.Logger, file models.UploadedFile, req models.ExtractionRequest, geminiOnly bool) (models.ExtractedRecord, error) {
	if err := p.stage(file, req); err != nil {
		return models.ExtractedRecord{}, err
	}

	ext := filepath.Ext(req.LocalPath)
	if ext != ".pdf" {
		return models.ExtractedRecord{}, newProcessingError(ErrUnsupportedDirectProcessing, nil,
			"Only PDF files are supported for direct Gemini processing. Unsupported file type: %s", ext)
	}
	// Accepted for compatibility; every PDF takes the direct path.
	logCtx.Debug("Routing file to direct extraction.", "geminiOnly", geminiOnly)

	if p.preflight != nil {
		pageCount, err := p.preflight.Inspect(req.LocalPath)
		if err != nil {
			return models.ExtractedRecord{}, newProcessingError(ErrExtractionFailed, err, "Direct Gemini processing failed: %v", err)
		}
		logCtx.Debug("PDF preflight passed.", "pageCount", pageCount)
	}

	record, err := p.extractor.Extract(ctx, req)
	if err != nil {
		return models.ExtractedRecord{}, &ProcessingError{
			Kind:    ErrExtractionFailed,
			Message: "Direct Gemini processing failed: " + err.Error(),
			Cause:   err,
		}
	}
	return record, nil
}

func (p *Processor) stage(file models.UploadedFile, req models.ExtractionRequest) error {
	body, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer body.Close()

	if _, err := p.store.Write(req, body); err != nil {
		return err
	}
	return nil
}

func failure(fileIndex int, filename, message string) models.Outcome {
	return models.Outcome{Failure: &models.FileError{
		FileIndex: fileIndex,
		Filename:  filename,
		Error:     message,
	}}
}
