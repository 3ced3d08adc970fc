package importer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	// Register decoders so payload validation accepts PNG and JPEG.
	_ "image/jpeg"
	_ "image/png"
)

// Tesseract recognizes text by shelling out to the tesseract binary.
// Requires: tesseract (tesseract-ocr).
type Tesseract struct {
	// Binary overrides the executable name (for tests). Defaults to "tesseract".
	Binary string
	// Languages is passed via -l. Defaults to "eng".
	Languages string
}

// NewTesseract creates a recognizer with default settings
func NewTesseract() *Tesseract {
	return &Tesseract{}
}

// Compile-time check that Tesseract implements Recognizer
var _ Recognizer = (*Tesseract)(nil)

// Available reports whether the tesseract binary can be found on PATH.
func (t *Tesseract) Available() bool {
	_, err := exec.LookPath(t.binary())
	return err == nil
}

func (t *Tesseract) binary() string {
	if t.Binary != "" {
		return t.Binary
	}
	return "tesseract"
}

func (t *Tesseract) languages() string {
	if t.Languages != "" {
		return t.Languages
	}
	return "eng"
}

// ExtractText validates that the payload decodes as an image, writes it to a
// temp file and runs tesseract over it. Temp files are removed before return.
func (t *Tesseract) ExtractText(ctx context.Context, img []byte) (string, error) {
	if err := validateImage(img); err != nil {
		return "", err
	}
	if _, err := exec.LookPath(t.binary()); err != nil {
		return "", fmt.Errorf("tesseract not available (install tesseract-ocr): %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "receipt-ocr-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	imgFile := filepath.Join(tmpDir, "receipt.img")
	if err := os.WriteFile(imgFile, img, 0o600); err != nil {
		return "", fmt.Errorf("failed to write temp image: %w", err)
	}

	// PSM 4 = single column of text of variable sizes, fits receipt layouts
	outBase := filepath.Join(tmpDir, "receipt-ocr")
	cmd := exec.CommandContext(ctx, t.binary(), imgFile, outBase, "-l", t.languages(), "--psm", "4")
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("tesseract failed: %v (output: %s)", err, string(out))
	}

	data, err := os.ReadFile(outBase + ".txt")
	if err != nil {
		return "", fmt.Errorf("failed to read tesseract output: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// validateImage checks that the payload decodes as a supported image format.
func validateImage(data []byte) error {
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("payload is not a supported image: %w", err)
	}
	return nil
}
