package services

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Lllllllleong/passscan/internal/models"
	"github.com/google/uuid"
)

// TempStore is the local staging directory for uploads being processed.
// Every entry belongs to exactly one in-flight file and is removed by it.
type TempStore struct {
	dir string
}

// NewTempStore creates the staging directory if it is missing.
func NewTempStore(dir string) (*TempStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("temp store directory must be set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir %s: %w", dir, err)
	}
	return &TempStore{dir: dir}, nil
}

func (s *TempStore) Dir() string {
	return s.dir
}

// NewRequest allocates a unique scratch path for one file. The temp id is a
// short random token joined with the file index.
func (s *TempStore) NewRequest(fileIndex int, filename string) models.ExtractionRequest {
	tempID := fmt.Sprintf("%s_%d", uuid.New().String()[:8], fileIndex)
	ext := strings.ToLower(filepath.Ext(filename))
	return models.ExtractionRequest{
		FileIndex: fileIndex,
		Filename:  filename,
		LocalPath: filepath.Join(s.dir, tempID+ext),
		TempID:    tempID,
	}
}

// Write persists the whole body to the request's scratch path. The path must not exist yet.
func (s *TempStore) Write(req models.ExtractionRequest, body io.Reader) (int64, error) {
	localFile, err := os.OpenFile(req.LocalPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file at %s: %w", req.LocalPath, err)
	}

	written, err := io.Copy(localFile, body)
	if err != nil {
		_ = localFile.Close()
		return written, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := localFile.Close(); err != nil {
		return written, fmt.Errorf("failed to finalize temp file: %w", err)
	}
	return written, nil
}

// Release removes the scratch copy. A file that was never created is not an error.
func (s *TempStore) Release(req models.ExtractionRequest) error {
	err := os.Remove(req.LocalPath)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// SweepStale removes scratch files left behind by a previous process.
func (s *TempStore) SweepStale(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list temp dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	var removed int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			slog.Warn("Could not remove stale scratch file", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
