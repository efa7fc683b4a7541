package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/passscan/internal/api"
	"github.com/Lllllllleong/passscan/internal/config"
	"github.com/Lllllllleong/passscan/internal/gcp"
	"github.com/Lllllllleong/passscan/internal/services"
	"google.golang.org/api/option"
)

// StaleAfter is how old leftover scratch files and staging objects must be before the startup sweep removes them.
const StaleAfter = time.Hour

// App owns the long-lived clients behind the scan API.
type App struct {
	Handler http.Handler

	store         *services.TempStore
	stager        *gcp.GCSStager
	storageClient *storage.Client
	vertexClient  *gcp.VertexClient
	auditor       *gcp.FirestoreAuditor
}

// New builds every client from cfg. The config must already be valid.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	opts := []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}

	store, err := services.NewTempStore(cfg.Staging.TempDir)
	if err != nil {
		return nil, err
	}

	a := &App{store: store}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	a.storageClient, err = storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	a.stager = gcp.NewGCSStager(a.storageClient, cfg.Staging.Bucket, cfg.Staging.Prefix)

	a.vertexClient, err = gcp.NewVertexClient(ctx, cfg.ProjectID, cfg.Gemini.Region, cfg.Gemini.Model, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}

	var auditor services.AuditRecorder
	if cfg.Audit.Collection != "" {
		firestoreClient, err := gcp.NewFirestoreClient(ctx, cfg.ProjectID, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create firestore client: %w", err)
		}
		a.auditor = gcp.NewFirestoreAuditor(firestoreClient, cfg.Audit.Collection)
		auditor = a.auditor
	}

	var preflight services.PDFInspector
	if cfg.Scan.PDFPreflight {
		preflight = services.NewPDFPreflight(cfg.Scan.MaxPDFPages)
	}

	extractor := services.NewExtractor(a.stager, a.vertexClient, cfg.Gemini.Timeout)
	processor := services.NewProcessor(store, extractor, preflight)
	scanner := services.NewScanner(processor, auditor, cfg.Scan.Concurrency)
	a.Handler = api.NewRouter(api.NewHandler(scanner))

	slog.Info("Scan service initialized.",
		"model", cfg.Gemini.Model,
		"region", cfg.Gemini.Region,
		"stagingBucket", cfg.Staging.Bucket,
		"tempDir", cfg.Staging.TempDir,
		"concurrency", cfg.Scan.Concurrency,
		"auditEnabled", a.auditor != nil,
	)
	ok = true
	return a, nil
}

// SweepStale removes scratch files and staging objects left over from earlier runs.
// Failures are logged and never stop startup.
func (a *App) SweepStale(ctx context.Context) {
	if n, err := a.store.SweepStale(StaleAfter); err != nil {
		slog.Warn("Could not sweep stale scratch files", "error", err)
	} else if n > 0 {
		slog.Info("Removed stale scratch files.", "count", n)
	}

	if n, err := a.stager.SweepStale(ctx, StaleAfter); err != nil {
		slog.Warn("Could not sweep stale staging objects", "error", err)
	} else if n > 0 {
		slog.Info("Removed stale staging objects.", "count", n)
	}
}

// Close releases every client. It is safe on a partially built App.
func (a *App) Close() error {
	var errs []error
	if a.vertexClient != nil {
		errs = append(errs, a.vertexClient.Close())
	}
	if a.auditor != nil {
		errs = append(errs, a.auditor.Close())
	}
	if a.storageClient != nil {
		errs = append(errs, a.storageClient.Close())
	}
	return errors.Join(errs...)
}
