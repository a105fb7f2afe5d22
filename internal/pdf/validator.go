package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spherical/cv-extractor/internal/domain"
)

// Validator provides input validation for documents
type Validator struct {
	logger *domain.Logger
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{logger: domain.DefaultLogger.WithPrefix("validator")}
}

// ValidateDOCXPath validates that a file path exists and has a .docx extension
func (v *Validator) ValidateDOCXPath(path string) error {
	return v.validatePath(path, ".docx", 50*1024*1024)
}

// ValidatePDFPath validates that a file path exists and has a .pdf extension
func (v *Validator) ValidatePDFPath(path string) error {
	return v.validatePath(path, ".pdf", 100*1024*1024)
}

func (v *Validator) validatePath(path, wantExt string, warnSize int64) error {
	// Check if path is empty
	if strings.TrimSpace(path) == "" {
		return domain.ValidationError("file path cannot be empty", nil)
	}

	// Check if file exists
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ValidationError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.ValidationError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	// Check if it's a directory
	if info.IsDir() {
		return domain.ValidationError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(path))
	if ext != wantExt {
		return domain.ValidationError(fmt.Sprintf("file is not a %s file (has extension %q)", strings.TrimPrefix(wantExt, "."), ext), nil)
	}

	// Very large files are processed anyway
	if info.Size() > warnSize {
		v.logger.Warn("%s is very large (%d MB), processing may take a while", path, info.Size()/(1024*1024))
	}

	return nil
}

// ValidateQuality validates image quality parameter
func (v *Validator) ValidateQuality(quality int) error {
	if quality < 1 || quality > 100 {
		return domain.ValidationError(fmt.Sprintf("quality must be between 1 and 100, got %d", quality), nil)
	}
	return nil
}
