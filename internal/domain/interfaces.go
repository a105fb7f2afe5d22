package domain

import "context"

// DocumentConverter turns a DOCX file into a PDF file
type DocumentConverter interface {
	// Convert writes a PDF rendition of inputPath to outputPath and returns outputPath
	Convert(ctx context.Context, inputPath, outputPath string) (string, error)
}

// Rasterizer renders PDF pages to images
type Rasterizer interface {
	// Rasterize turns a PDF into a slice of page images
	Rasterize(ctx context.Context, pdfPath string, quality int) ([]PageImage, error)

	// Cleanup removes temporary files created during rasterization
	Cleanup() error
}

// Extractor turns an upload-ready document into a structured record
type Extractor interface {
	Extract(ctx context.Context, upload *Upload) (*CVRecord, error)
}

// Upload is a document ready to be sent to a provider
type Upload struct {
	Path     string
	MIMEType string
	Filename string
	Images   []PageImage
	cleanup  []func() error
}

// AddCleanup registers a function run by Cleanup
func (u *Upload) AddCleanup(fn func() error) {
	u.cleanup = append(u.cleanup, fn)
}

// Cleanup releases temporary resources in reverse registration order
func (u *Upload) Cleanup() error {
	var firstErr error
	for i := len(u.cleanup) - 1; i >= 0; i-- {
		if err := u.cleanup[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	u.cleanup = nil
	return firstErr
}
