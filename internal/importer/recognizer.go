// Package importer turns uploaded receipt images and PDFs into candidate
// line items. Image recognition shells out to tesseract; PDF text layers are
// read directly and scanned PDFs are rasterized first.
package importer

import "context"

// Recognizer turns a receipt payload into recognized plain text.
type Recognizer interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}
