package services

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Lllllllleong/passscan/internal/logger"
	"github.com/Lllllllleong/passscan/internal/models"
	"golang.org/x/sync/errgroup"
)

// AllowedExtensions lists the extensions a batch may contain.
var AllowedExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}

// FileProcessor produces exactly one outcome per file.
type FileProcessor interface {
	Process(ctx context.Context, file models.UploadedFile, geminiOnly bool, fileIndex int) models.Outcome
}

// ScanOptions carries the per-request flags of a scan.
type ScanOptions struct {
	GeminiOnly bool
}

// Scanner validates a batch, processes its files and aggregates the summary.
type Scanner struct {
	processor   FileProcessor
	auditor     AuditRecorder
	concurrency int
}

// NewScanner wires a scanner. auditor may be nil. concurrency below one means sequential.
func NewScanner(processor FileProcessor, auditor AuditRecorder, concurrency int) *Scanner {
	if concurrency < 1 {
		concurrency = 1
	}
	if auditor == nil {
		auditor = NoopAuditor{}
	}
	return &Scanner{
		processor:   processor,
		auditor:     auditor,
		concurrency: concurrency,
	}
}

// ValidateBatch drops whitespace-named files and checks every remaining extension.
// Nothing is read from any file.
func ValidateBatch(files []models.UploadedFile) ([]models.UploadedFile, error) {
	hasName := slices.ContainsFunc(files, func(f models.UploadedFile) bool { return f.Name() != "" })
	if !hasName {
		return nil, &ValidationError{Detail: "No valid files uploaded", Err: ErrEmptyBatch}
	}

	valid := make([]models.UploadedFile, 0, len(files))
	for _, f := range files {
		if strings.TrimSpace(f.Name()) != "" {
			valid = append(valid, f)
		}
	}
	if len(valid) == 0 {
		return nil, &ValidationError{Detail: "No valid files to process", Err: ErrEmptyBatch}
	}

	for _, f := range valid {
		ext := strings.ToLower(filepath.Ext(f.Name()))
		if !slices.Contains(AllowedExtensions, ext) {
			return nil, &ValidationError{
				Detail: fmt.Sprintf("Unsupported file type: %s. Allowed: %s", ext, strings.Join(AllowedExtensions, ", ")),
				Err:    ErrUnsupportedType,
			}
		}
	}
	return valid, nil
}

// Scan processes a batch. Only validation errors are returned; per-file
// failures are reported in the summary.
func (s *Scanner) Scan(ctx context.Context, files []models.UploadedFile, opts ScanOptions) (*models.BatchSummary, error) {
	start := time.Now()
	logCtx := logger.WithContext(ctx)

	valid, err := ValidateBatch(files)
	if err != nil {
		logCtx.Warn("Rejected scan batch.", "error", err, "fileCount", len(files))
		return nil, err
	}
	logCtx.Info("Starting scan batch.", "fileCount", len(valid), "concurrency", s.concurrency)

	outcomes := make([]models.Outcome, len(valid))
	var eg errgroup.Group
	eg.SetLimit(s.concurrency)
	for i, f := range valid {
		i, f := i, f
		eg.Go(func() error {
			outcomes[i] = s.processor.Process(ctx, f, opts.GeminiOnly, i)
			return nil
		})
	}
	_ = eg.Wait()

	summary := Summarize(outcomes, time.Since(start))
	logCtx.Info("Scan batch complete.",
		"successful", summary.SuccessfulExtractions,
		"failed", summary.FailedExtractions,
		"totalProcessingTime", summary.TotalProcessingTime,
	)

	if err := s.auditor.Record(ctx, NewScanRecord(ctx, summary, valid, opts)); err != nil {
		logCtx.Warn("Could not record scan audit entry", "error", err)
	}
	return summary, nil
}

// Summarize folds index-ordered outcomes into a BatchSummary.
func Summarize(outcomes []models.Outcome, elapsed time.Duration) *models.BatchSummary {
	summary := &models.BatchSummary{
		TotalFiles:          len(outcomes),
		TotalProcessingTime: elapsed.Seconds(),
		Results:             make([]models.FileResult, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		switch {
		case o.Result != nil:
			summary.Results = append(summary.Results, *o.Result)
		case o.Failure != nil:
			summary.Errors = append(summary.Errors, *o.Failure)
		}
	}
	summary.SuccessfulExtractions = len(summary.Results)
	summary.FailedExtractions = len(summary.Errors)
	return summary
}
