package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFPreflightRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o600))

	pages, err := NewPDFPreflight(0).Inspect(path)
	assert.Error(t, err)
	assert.Zero(t, pages)
}

func TestPDFPreflightMissingFile(t *testing.T) {
	_, err := NewPDFPreflight(5).Inspect(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}
