package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/spherical/cv-extractor/internal/domain"
)

// uploadField is the multipart form field carrying the document
const uploadField = "file"

// ErrorDTO is the JSON error body
type ErrorDTO struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// ExtractResponseDTO is the body of a successful extraction
type ExtractResponseDTO struct {
	RequestID  string           `json:"requestId"`
	Filename   string           `json:"filename"`
	MIMEType   string           `json:"mimeType"`
	Converted  bool             `json:"converted"`
	DurationMS int64            `json:"durationMs"`
	Record     *domain.CVRecord `json:"record"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "cv-extractor",
	})
}

// convert handles POST /v1/convert
func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	filename, data, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid upload", err)
		return
	}
	if !strings.EqualFold(filepath.Ext(filename), ".docx") {
		s.writeError(w, r, http.StatusBadRequest, "only .docx files can be converted", nil)
		return
	}

	out, err := s.converter.ConvertBytes(r.Context(), data)
	if err != nil {
		s.writeError(w, r, statusFor(err), "conversion failed", err)
		return
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)) + ".pdf"
	w.Header().Set("Content-Type", domain.MIMETypePDF)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// extract handles POST /v1/extract
func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	if s.processor == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, "extraction is not configured", nil)
		return
	}

	filename, data, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid upload", err)
		return
	}

	dir := s.cfg.WorkDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "cannot stage upload", err)
		return
	}
	path := filepath.Join(dir, "upload-"+uuid.NewString()+strings.ToLower(filepath.Ext(filename)))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "cannot stage upload", err)
		return
	}
	defer os.Remove(path)

	result, err := s.processor.Process(r.Context(), path)
	if err != nil {
		s.writeError(w, r, statusFor(err), "extraction failed", err)
		return
	}

	writeJSON(w, http.StatusOK, ExtractResponseDTO{
		RequestID:  RequestID(r.Context()),
		Filename:   filename,
		MIMEType:   result.MIMEType,
		Converted:  result.Converted,
		DurationMS: result.Duration.Milliseconds(),
		Record:     result.Record,
	})
}

// readUpload returns the name and content of the uploaded file
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		return "", nil, err
	}
	f, header, err := r.FormFile(uploadField)
	if err != nil {
		return "", nil, fmt.Errorf("missing %q form field: %w", uploadField, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	if len(data) == 0 {
		return "", nil, errors.New("uploaded file is empty")
	}
	return header.Filename, data, nil
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrMalformedXML):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnsupportedCompression):
		return http.StatusUnsupportedMediaType
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Type {
		case domain.ErrorTypeArchive:
			return http.StatusUnprocessableEntity
		case domain.ErrorTypeAPI:
			return http.StatusBadGateway
		case domain.ErrorTypeConfig:
			return http.StatusServiceUnavailable
		}
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	dto := ErrorDTO{Error: message, RequestID: RequestID(r.Context())}
	if err != nil {
		dto.Details = err.Error()
		s.logger.With("request_id", dto.RequestID).Warn("%s: %v", message, err)
	}
	writeJSON(w, status, dto)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
