package services

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFInspector checks a staged PDF before it is sent for extraction.
type PDFInspector interface {
	Inspect(path string) (pageCount int, err error)
}

// PDFPreflight validates PDFs with pdfcpu in relaxed mode.
type PDFPreflight struct {
	// MaxPages rejects longer documents. Zero means no limit.
	MaxPages int
}

func NewPDFPreflight(maxPages int) *PDFPreflight {
	return &PDFPreflight{MaxPages: maxPages}
}

func (p *PDFPreflight) Inspect(path string) (int, error) {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, cfg); err != nil {
		return 0, fmt.Errorf("invalid PDF: %w", err)
	}

	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	if p.MaxPages > 0 && pageCount > p.MaxPages {
		return pageCount, fmt.Errorf("PDF has %d pages, limit is %d", pageCount, p.MaxPages)
	}
	return pageCount, nil
}
