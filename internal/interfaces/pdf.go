package interfaces

import "context"

// PDFFetcher retrieves a remote PDF document. Failures are per-link and the
// caller decides whether to continue.
type PDFFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// PDFExtractor produces the concatenated text of a PDF across all pages,
// preserving enough layout that label/value pairs stay adjacent.
type PDFExtractor interface {
	ExtractText(ctx context.Context, pdfContent []byte) (string, error)
}
