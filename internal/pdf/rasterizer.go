package pdf

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"time"

	"github.com/gen2brain/go-fitz"

	"github.com/spherical/cv-extractor/internal/domain"
)

// Rasterizer renders PDF pages to JPEG files with MuPDF (go-fitz) for
// providers that only accept images.
type Rasterizer struct {
	workDir   string
	validator *Validator
	logger    *domain.Logger
	tempDirs  []string
}

// RasterizerOption configures a Rasterizer
type RasterizerOption func(*Rasterizer)

// WithRasterizerValidator sets the validator applied to inputs
func WithRasterizerValidator(v *Validator) RasterizerOption {
	return func(r *Rasterizer) {
		if v != nil {
			r.validator = v
		}
	}
}

// WithRasterizerLogger sets the rasterizer logger
func WithRasterizerLogger(l *domain.Logger) RasterizerOption {
	return func(r *Rasterizer) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRasterizer creates a rasterizer. Page images go under workDir, or the
// system temp directory when workDir is empty.
func NewRasterizer(workDir string, opts ...RasterizerOption) *Rasterizer {
	r := &Rasterizer{
		workDir:   workDir,
		validator: NewValidator(),
		logger:    domain.DefaultLogger.WithPrefix("rasterizer"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rasterize writes one JPEG per page of pdfPath and describes them in page
// order. The files live until Cleanup.
func (r *Rasterizer) Rasterize(ctx context.Context, pdfPath string, quality int) ([]domain.PageImage, error) {
	start := time.Now()

	if err := r.validator.ValidatePDFPath(pdfPath); err != nil {
		return nil, err
	}
	if err := r.validator.ValidateQuality(quality); err != nil {
		return nil, err
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, domain.ConversionError(fmt.Sprintf("cannot open PDF: %s", pdfPath), err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, domain.ValidationError(fmt.Sprintf("PDF has no pages: %s", pdfPath), nil)
	}

	dir, err := os.MkdirTemp(r.workDir, "cv-extractor-pages-*")
	if err != nil {
		return nil, domain.IOError("cannot create page image directory", err)
	}
	r.tempDirs = append(r.tempDirs, dir)

	images := make([]domain.PageImage, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.Image(i)
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("cannot render page %d", i+1), err)
		}

		path := filepath.Join(dir, fmt.Sprintf("page_%03d.jpg", i+1))
		if err := writeJPEG(path, img, quality); err != nil {
			return nil, err
		}

		bounds := img.Bounds()
		images = append(images, domain.PageImage{
			PageNumber: i + 1,
			ImagePath:  path,
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
		})
	}

	r.logger.Debug("Rasterized %s into %d pages at quality %d in %v",
		pdfPath, len(images), quality, time.Since(start).Round(time.Millisecond))
	return images, nil
}

func writeJPEG(path string, img image.Image, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return domain.IOError(fmt.Sprintf("cannot create page image: %s", path), err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		return domain.ConversionError(fmt.Sprintf("cannot encode page image: %s", path), err)
	}
	if err := f.Close(); err != nil {
		return domain.IOError(fmt.Sprintf("cannot write page image: %s", path), err)
	}
	return nil
}

// Cleanup removes every page image directory created by Rasterize
func (r *Rasterizer) Cleanup() error {
	var firstErr error
	for _, dir := range r.tempDirs {
		if err := os.RemoveAll(dir); err != nil && firstErr == nil {
			firstErr = domain.IOError(fmt.Sprintf("cannot remove page images: %s", dir), err)
		}
	}
	r.tempDirs = nil
	return firstErr
}
