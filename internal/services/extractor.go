package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Lllllllleong/passscan/internal/gcp"
	"github.com/Lllllllleong/passscan/internal/models"
)

const pdfMIMEType = "application/pdf"

// RemoteStager makes a local file readable by the model and removes it afterwards.
type RemoteStager interface {
	Upload(ctx context.Context, localPath, objectName, contentType string) (string, error)
	Delete(ctx context.Context, uri string) error
}

// ContentGenerator runs one generation request over a staged file.
type ContentGenerator interface {
	GenerateFromFile(ctx context.Context, fileURI, mimeType, prompt string) (string, error)
}

// Extractor turns one staged PDF into an ExtractedRecord with a single model call.
type Extractor struct {
	stager    RemoteStager
	generator ContentGenerator
	prompt    string
	timeout   time.Duration
}

// NewExtractor wires an extractor. A zero timeout leaves the call unbounded.
func NewExtractor(stager RemoteStager, generator ContentGenerator, timeout time.Duration) *Extractor {
	return &Extractor{
		stager:    stager,
		generator: generator,
		prompt:    gcp.ExtractionUserPrompt,
		timeout:   timeout,
	}
}

// Extract uploads the scratch file, asks the model for the record and deletes
// the remote copy whatever the outcome.
func (e *Extractor) Extract(ctx context.Context, req models.ExtractionRequest) (models.ExtractedRecord, error) {
	logCtx := slog.With("tempId", req.TempID, "fileIndex", req.FileIndex)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	fileURI, err := e.stager.Upload(ctx, req.LocalPath, req.TempID+".pdf", pdfMIMEType)
	if err != nil {
		return models.ExtractedRecord{}, newProcessingError(ErrExtractionFailed, err, "failed to upload file for gemini: %v", err)
	}
	logCtx = logCtx.With("fileUri", fileURI)
	logCtx.Debug("Uploaded file for extraction.")

	text, genErr := e.generator.GenerateFromFile(ctx, fileURI, pdfMIMEType, e.prompt)

	// The remote copy goes even when the request timed out or was cancelled.
	if err := e.stager.Delete(context.WithoutCancel(ctx), fileURI); err != nil {
		logCtx.Warn("Could not delete remote file", "error", err)
	}

	if genErr != nil {
		return models.ExtractedRecord{}, newProcessingError(ErrExtractionFailed, genErr, "%v", genErr)
	}

	record, raw, err := ParseRecord(NormalizeResponse(text))
	if err != nil {
		return models.ExtractedRecord{}, err
	}
	if err := CheckRecordShape(raw); err != nil {
		logCtx.Warn("Extraction response has unexpected shape", "error", err)
	}
	return record, nil
}
