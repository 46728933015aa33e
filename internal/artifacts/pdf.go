package artifacts

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFInfo summarizes a validated delivery download
type PDFInfo struct {
	Path      string
	PageCount int
}

// ValidatePDF checks that a delivered download is a well-formed PDF with
// at least one page. Delivery regressions have shipped zero-byte and
// truncated files before, which a filename check alone never catches.
func ValidatePDF(path string) (*PDFInfo, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("delivered file %s is not a PDF", filepath.Base(path))
	}

	if err := api.ValidateFile(path, nil); err != nil {
		return nil, fmt.Errorf("delivered PDF %s failed validation: %w", filepath.Base(path), err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages in %s: %w", filepath.Base(path), err)
	}
	if pages == 0 {
		return nil, fmt.Errorf("delivered PDF %s has no pages", filepath.Base(path))
	}

	return &PDFInfo{Path: path, PageCount: pages}, nil
}
