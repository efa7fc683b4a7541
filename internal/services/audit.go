package services

import (
	"context"
	"time"

	"github.com/Lllllllleong/passscan/internal/logger"
	"github.com/Lllllllleong/passscan/internal/models"
)

// AuditRecorder persists batch metadata. Failures never affect the response.
type AuditRecorder interface {
	Record(ctx context.Context, rec models.ScanRecord) error
}

// NoopAuditor discards audit entries.
type NoopAuditor struct{}

func (NoopAuditor) Record(context.Context, models.ScanRecord) error { return nil }

// NewScanRecord builds the audit entry for a finished batch. Extracted data is not included.
func NewScanRecord(ctx context.Context, summary *models.BatchSummary, files []models.UploadedFile, opts ScanOptions) models.ScanRecord {
	filenames := make([]string, 0, len(files))
	for _, f := range files {
		filenames = append(filenames, f.Name())
	}
	var errs []string
	for _, e := range summary.Errors {
		errs = append(errs, e.Error)
	}
	return models.ScanRecord{
		RequestID:           logger.RequestIDFromContext(ctx),
		TotalFiles:          summary.TotalFiles,
		Successful:          summary.SuccessfulExtractions,
		Failed:              summary.FailedExtractions,
		TotalProcessingTime: summary.TotalProcessingTime,
		Filenames:           filenames,
		Errors:              errs,
		GeminiOnly:          opts.GeminiOnly,
		CreatedAt:           time.Now().UTC(),
	}
}
