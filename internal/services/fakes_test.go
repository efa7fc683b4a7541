package services

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/Lllllllleong/passscan/internal/models"
	"github.com/stretchr/testify/require"
)

type fakeFile struct {
	name    string
	body    string
	openErr error
	opened  bool
}

func (f *fakeFile) Name() string { return f.name }

func (f *fakeFile) Open() (io.ReadCloser, error) {
	f.opened = true
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func files(names ...string) []models.UploadedFile {
	out := make([]models.UploadedFile, 0, len(names))
	for _, n := range names {
		out = append(out, &fakeFile{name: n, body: "%PDF-1.4 " + n})
	}
	return out
}

// fakeStager records uploads and deletes. Upload checks the scratch file exists.
type fakeStager struct {
	mu        sync.Mutex
	uploadErr error
	deleteErr error
	uploaded  []string
	deleted   []string
}

func (s *fakeStager) Upload(_ context.Context, localPath, objectName, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	if contentType != "application/pdf" {
		return "", errors.New("unexpected content type " + contentType)
	}
	if _, err := os.Stat(localPath); err != nil {
		return "", err
	}
	uri := "gs://staging/scan-staging/" + objectName
	s.uploaded = append(s.uploaded, uri)
	return uri, nil
}

func (s *fakeStager) Delete(_ context.Context, uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, uri)
	return s.deleteErr
}

// fakeGenerator returns a canned response or the result of respond.
type fakeGenerator struct {
	mu       sync.Mutex
	text     string
	err      error
	respond  func(ctx context.Context, fileURI string) (string, error)
	prompts  []string
	mimeType string
}

func (g *fakeGenerator) GenerateFromFile(ctx context.Context, fileURI, mimeType, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mimeType = mimeType
	respond := g.respond
	g.mu.Unlock()
	if respond != nil {
		return respond(ctx, fileURI)
	}
	return g.text, g.err
}

// fakeExtractor resolves a record per filename and records scratch paths it saw.
type fakeExtractor struct {
	mu      sync.Mutex
	extract func(req models.ExtractionRequest) (models.ExtractedRecord, error)
	seen    []string
}

func (e *fakeExtractor) Extract(_ context.Context, req models.ExtractionRequest) (models.ExtractedRecord, error) {
	e.mu.Lock()
	e.seen = append(e.seen, req.LocalPath)
	e.mu.Unlock()
	if e.extract != nil {
		return e.extract(req)
	}
	return models.ExtractedRecord{DocumentType: models.NewText("Flight")}, nil
}

type fakeAuditor struct {
	mu      sync.Mutex
	err     error
	records []models.ScanRecord
}

func (a *fakeAuditor) Record(_ context.Context, rec models.ScanRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, rec)
	return a.err
}

type fakeInspector struct {
	pages int
	err   error
}

func (i fakeInspector) Inspect(string) (int, error) { return i.pages, i.err }

func newTestStore(t *testing.T) *TempStore {
	t.Helper()
	store, err := NewTempStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "scratch files left behind")
}
