package domain

import "fmt"

// Error types for domain-specific errors
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeUnsupported ErrorType = "unsupported_compression"
	ErrorTypeArchive     ErrorType = "archive"
	ErrorTypeParse       ErrorType = "parse"
	ErrorTypeConversion  ErrorType = "conversion"
	ErrorTypeExtraction  ErrorType = "extraction"
	ErrorTypeAPI         ErrorType = "api"
	ErrorTypeConfig      ErrorType = "config"
	ErrorTypeIO          ErrorType = "io"
)

// Sentinel errors for errors.Is. A DomainError matches a sentinel when
// their types are equal.
var (
	ErrInvalidInput           = &DomainError{Type: ErrorTypeValidation}
	ErrEntryNotFound          = &DomainError{Type: ErrorTypeNotFound}
	ErrUnsupportedCompression = &DomainError{Type: ErrorTypeUnsupported}
	ErrMalformedXML           = &DomainError{Type: ErrorTypeParse}
)

// DomainError represents a domain-specific error with context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same type.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok || t.Message != "" || t.Err != nil {
		return false
	}
	return t.Type == e.Type
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func ValidationError(message string, err error) *DomainError {
	return NewError(ErrorTypeValidation, message, err)
}

func NotFoundError(message string) *DomainError {
	return NewError(ErrorTypeNotFound, message, nil)
}

func UnsupportedCompressionError(method uint16) *DomainError {
	return NewError(ErrorTypeUnsupported, fmt.Sprintf("compression method %d is not supported", method), nil)
}

func ArchiveError(message string, err error) *DomainError {
	return NewError(ErrorTypeArchive, message, err)
}

func ParseError(message string, err error) *DomainError {
	return NewError(ErrorTypeParse, message, err)
}

func ConversionError(message string, err error) *DomainError {
	return NewError(ErrorTypeConversion, message, err)
}

func ExtractionError(message string, err error) *DomainError {
	return NewError(ErrorTypeExtraction, message, err)
}

func APIError(message string, err error) *DomainError {
	return NewError(ErrorTypeAPI, message, err)
}

func ConfigError(message string, err error) *DomainError {
	return NewError(ErrorTypeConfig, message, err)
}

func IOError(message string, err error) *DomainError {
	return NewError(ErrorTypeIO, message, err)
}
