package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/passscan/internal/app"
	"github.com/Lllllllleong/passscan/internal/config"
	"github.com/Lllllllleong/passscan/internal/logger"
)

var (
	scanApp *app.App
	once    sync.Once
	initErr error
)

func init() {
	logger.Init(&logger.Config{Level: "info", Format: "json"})
	// "PassScan" is the entry point name we'll see in GCP.
	functions.HTTP("PassScan", handleScan)
}

// main is required by the Go Functions Framework.
func main() {}

func initialize(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.SweepStale(ctx)
	return a, nil
}

// handleScan serves every route of the scan API from one function.
func handleScan(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		scanApp, initErr = initialize(context.Background())
	})
	if initErr != nil {
		slog.Error("CRITICAL: scan service initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	scanApp.Handler.ServeHTTP(w, r)
}
