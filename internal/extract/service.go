package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spherical/cv-extractor/internal/domain"
)

// Upload modes
const (
	ModePDF    = "pdf"
	ModeImages = "images"
)

// Options configures upload preparation
type Options struct {
	// Mode is ModePDF to send documents inline or ModeImages to send rasterized pages
	Mode string
	// ImageQuality is the JPEG quality for ModeImages
	ImageQuality int
	// WorkDir holds temporary PDFs and page images; empty uses the system temp dir
	WorkDir string
	// Logger defaults to domain.DefaultLogger
	Logger *domain.Logger
}

// DefaultOptions returns inline-PDF uploads at quality 85
func DefaultOptions() Options {
	return Options{Mode: ModePDF, ImageQuality: 85}
}

// Result is the outcome of one extraction
type Result struct {
	Record    *domain.CVRecord
	Source    string
	MIMEType  string
	Converted bool
	Pages     int
	Duration  time.Duration
}

// Service prepares documents for upload and runs extraction
type Service struct {
	converter     domain.DocumentConverter
	newRasterizer func() domain.Rasterizer
	extractor     domain.Extractor
	opts          Options
	logger        *domain.Logger
}

// NewService creates a new extraction service. newRasterizer may be nil
// when ModeImages is not used; extractor may be nil when only
// PrepareUpload is needed.
func NewService(converter domain.DocumentConverter, newRasterizer func() domain.Rasterizer, extractor domain.Extractor, opts Options) *Service {
	if opts.Mode == "" {
		opts.Mode = ModePDF
	}
	if opts.ImageQuality == 0 {
		opts.ImageQuality = 85
	}
	s := &Service{
		converter:     converter,
		newRasterizer: newRasterizer,
		extractor:     extractor,
		opts:          opts,
		logger:        domain.DefaultLogger.WithPrefix("extract"),
	}
	if opts.Logger != nil {
		s.logger = opts.Logger.WithPrefix("extract")
	}
	return s
}

// PrepareUpload turns a document path into an upload. DOCX files are
// converted to a temporary PDF; PDFs and images pass through. Callers must
// call Cleanup on the returned upload.
func (s *Service) PrepareUpload(ctx context.Context, path string) (*domain.Upload, error) {
	ext := strings.ToLower(filepath.Ext(path))

	upload := &domain.Upload{Path: path, Filename: filepath.Base(path)}

	if ext == ".docx" {
		pdfPath, err := s.tempPDFPath()
		if err != nil {
			return nil, err
		}
		upload.AddCleanup(func() error { return removeIfExists(pdfPath) })

		s.logger.Info("Converting %s to PDF", path)
		if _, err := s.converter.Convert(ctx, path, pdfPath); err != nil {
			s.release(upload, path)
			return nil, err
		}
		upload.Path = pdfPath
		upload.Filename = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".pdf"
		upload.MIMEType = domain.MIMETypePDF
	} else {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.ValidationError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		if info.IsDir() {
			return nil, domain.ValidationError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
		}
		mimeType, err := DetectFileMIME(path)
		if err != nil {
			return nil, err
		}
		if !supportedMIME(mimeType) {
			return nil, domain.ValidationError(fmt.Sprintf("unsupported document type %s for %s", mimeType, path), nil)
		}
		upload.MIMEType = mimeType
	}

	if s.opts.Mode == ModeImages && upload.MIMEType == domain.MIMETypePDF {
		if err := s.rasterize(ctx, upload); err != nil {
			s.release(upload, path)
			return nil, err
		}
	}

	return upload, nil
}

func (s *Service) rasterize(ctx context.Context, upload *domain.Upload) error {
	if s.newRasterizer == nil {
		return domain.ConfigError("image upload mode requires a rasterizer", nil)
	}
	r := s.newRasterizer()
	upload.AddCleanup(r.Cleanup)

	images, err := r.Rasterize(ctx, upload.Path, s.opts.ImageQuality)
	if err != nil {
		return err
	}
	s.logger.Debug("Rasterized %s into %d page images", upload.Path, len(images))
	upload.Images = images
	return nil
}

// Process prepares the document, extracts the CV record and releases temporary files
func (s *Service) Process(ctx context.Context, path string) (*Result, error) {
	if s.extractor == nil {
		return nil, domain.ConfigError("no extractor configured", nil)
	}
	start := time.Now()

	upload, err := s.PrepareUpload(ctx, path)
	if err != nil {
		return nil, err
	}
	defer s.release(upload, path)

	record, err := s.extractor.Extract(ctx, upload)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ExtractionError(fmt.Sprintf("extractor returned no record for %s", path), nil)
	}
	NormalizeRecord(record)
	if record.IsEmpty() {
		s.logger.Warn("No CV fields extracted from %s", path)
	}

	result := &Result{
		Record:    record,
		Source:    path,
		MIMEType:  upload.MIMEType,
		Converted: upload.Path != path,
		Pages:     len(upload.Images),
		Duration:  time.Since(start),
	}
	s.logger.Info("Extracted %s in %v", path, result.Duration.Round(time.Millisecond))
	return result, nil
}

// release runs the upload cleanup stack and logs a failure
func (s *Service) release(upload *domain.Upload, path string) {
	if err := upload.Cleanup(); err != nil {
		s.logger.Warn("Cleanup failed for %s: %v", path, err)
	}
}

func (s *Service) tempPDFPath() (string, error) {
	dir := s.opts.WorkDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", domain.IOError("cannot create work directory", err)
	}
	return filepath.Join(dir, "cv-extractor-"+uuid.NewString()+".pdf"), nil
}

func supportedMIME(mimeType string) bool {
	switch mimeType {
	case domain.MIMETypePDF, domain.MIMETypeJPEG, domain.MIMETypePNG:
		return true
	}
	return false
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
