package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF([]byte("%PDF-1.4\nrest of document")))
	assert.False(t, IsPDF([]byte("\x89PNG\r\n")))
	assert.False(t, IsPDF([]byte(" %PDF")))
	assert.False(t, IsPDF(nil))
}

func TestPDF_ExtractText_MalformedDocument(t *testing.T) {
	// Looks like a PDF but has no valid structure, and no OCR fallback is
	// wired, so extraction must fail rather than return garbage
	rec := NewPDF(nil)

	_, err := rec.ExtractText(context.Background(), []byte("%PDF-1.4 but not really"))
	require.Error(t, err)
}

func TestPDF_ExtractText_EmptyPayload(t *testing.T) {
	rec := NewPDF(nil)

	_, err := rec.ExtractText(context.Background(), []byte{})
	require.Error(t, err)
}

func TestPDF_RasterFallbackNeedsRecognizer(t *testing.T) {
	// Without a text layer the raster path would run; with OCR unset the
	// error must say so instead of panicking
	rec := NewPDF(nil)

	_, err := rec.ExtractText(context.Background(), []byte("%PDF-1.7\n%%EOF\n"))
	require.Error(t, err)
}

func TestNewPDF_WiresRecognizer(t *testing.T) {
	ocr := &stubRecognizer{}
	rec := NewPDF(ocr)
	assert.Same(t, ocr, rec.OCR)
}
