package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF")

// IsPDF reports whether the payload looks like a PDF document.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// PDF extracts text from PDF receipts. The embedded text layer is read
// directly; scanned PDFs without one are rasterized with pdftoppm and the
// page images handed to the OCR recognizer.
// Requires: pdftoppm (poppler-utils) for the raster path.
type PDF struct {
	OCR Recognizer
	// Pdftoppm overrides the executable name. Defaults to "pdftoppm".
	Pdftoppm string
}

// NewPDF creates a PDF recognizer with the given OCR fallback
func NewPDF(ocr Recognizer) *PDF {
	return &PDF{OCR: ocr}
}

func (p *PDF) pdftoppm() string {
	if p.Pdftoppm != "" {
		return p.Pdftoppm
	}
	return "pdftoppm"
}

// Compile-time check that PDF implements Recognizer
var _ Recognizer = (*PDF)(nil)

// ExtractText returns the text content of the PDF payload.
func (p *PDF) ExtractText(ctx context.Context, doc []byte) (string, error) {
	text, layerErr := extractTextLayer(doc)
	if layerErr == nil && text != "" {
		return text, nil
	}

	if p.OCR == nil {
		if layerErr != nil {
			return "", fmt.Errorf("PDF text extraction failed: %w", layerErr)
		}
		return "", fmt.Errorf("PDF has no text layer and no OCR recognizer is configured")
	}

	return p.extractViaRaster(ctx, doc)
}

// extractTextLayer reads the embedded text layer with the pdf library.
// The library panics on some malformed documents, so recover into an error.
func extractTextLayer(doc []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// extractViaRaster converts pages to PNG with pdftoppm and OCRs each one.
func (p *PDF) extractViaRaster(ctx context.Context, doc []byte) (string, error) {
	if _, err := exec.LookPath(p.pdftoppm()); err != nil {
		return "", fmt.Errorf("pdftoppm not available (install poppler-utils): %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "receipt-pdf-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfFile := filepath.Join(tmpDir, "receipt.pdf")
	if err := os.WriteFile(pdfFile, doc, 0o600); err != nil {
		return "", fmt.Errorf("failed to write temp pdf: %w", err)
	}

	// 300 DPI gives tesseract enough resolution for receipt fonts
	imgPrefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, p.pdftoppm(), "-r", "300", "-png", pdfFile, imgPrefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("pdftoppm failed: %v (output: %s)", err, string(out))
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return "", fmt.Errorf("failed to read temp dir: %w", err)
	}

	var pageFiles []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".png") {
			pageFiles = append(pageFiles, filepath.Join(tmpDir, e.Name()))
		}
	}
	sort.Strings(pageFiles)

	if len(pageFiles) == 0 {
		return "", fmt.Errorf("pdftoppm produced no page images")
	}

	var pages []string
	for _, pageFile := range pageFiles {
		img, err := os.ReadFile(pageFile)
		if err != nil {
			continue
		}
		text, err := p.OCR.ExtractText(ctx, img)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			// Some pages might still work
			continue
		}
		if text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return "", fmt.Errorf("no text recognized from %d page images", len(pageFiles))
	}
	return strings.Join(pages, "\n"), nil
}
