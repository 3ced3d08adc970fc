package importer

import (
	"context"

	"github.com/yts/receipt-splitter-backend/internal/domain/receipt"
)

// Source types recorded alongside import runs
const (
	SourceTypePDF   = "pdf"
	SourceTypeImage = "image"
)

// SniffSourceType classifies a payload by content, not by file name.
func SniffSourceType(data []byte) string {
	if IsPDF(data) {
		return SourceTypePDF
	}
	return SourceTypeImage
}

// Extractor routes receipt payloads to the matching recognizer and parses
// the recognized text into candidate line items.
type Extractor struct {
	image Recognizer
	pdf   Recognizer
}

// Options configures the external recognition tooling. Zero values fall
// back to the binaries on PATH and English.
type Options struct {
	TesseractPath string
	PdftoppmPath  string
	Languages     string
}

// NewExtractor builds an Extractor backed by tesseract, with PDF text-layer
// reading and a raster fallback for scanned documents.
func NewExtractor(opts Options) *Extractor {
	ocr := &Tesseract{
		Binary:    opts.TesseractPath,
		Languages: opts.Languages,
	}
	return &Extractor{
		image: ocr,
		pdf:   &PDF{OCR: ocr, Pdftoppm: opts.PdftoppmPath},
	}
}

// NewExtractorWith wires custom recognizers (for tests).
func NewExtractorWith(image, pdf Recognizer) *Extractor {
	return &Extractor{image: image, pdf: pdf}
}

// Extract recognizes text in the payload and returns candidate line items.
// A successful extraction can still yield zero items when no line of the
// recognized text matches the price pattern.
func (e *Extractor) Extract(ctx context.Context, data []byte) ([]receipt.LineItem, error) {
	recognizer := e.image
	if SniffSourceType(data) == SourceTypePDF {
		recognizer = e.pdf
	}

	text, err := recognizer.ExtractText(ctx, data)
	if err != nil {
		return nil, err
	}
	return ParseItems(text), nil
}
