package domain

import (
	"strings"
	"time"
)

// MIME types understood by the upload layer
const (
	MIMETypePDF  = "application/pdf"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMETypeJPEG = "image/jpeg"
	MIMETypePNG  = "image/png"
)

// DocumentEntryName is the archive member holding the body of a DOCX file
const DocumentEntryName = "word/document.xml"

// ArchiveEntry is a local file header parsed during an archive scan
type ArchiveEntry struct {
	Method         uint16
	Flags          uint16
	CompressedSize uint32
	Name           string
	Data           []byte
}

// HasDataDescriptor reports whether sizes follow the payload instead of
// being recorded in the local header.
func (e *ArchiveEntry) HasDataDescriptor() bool {
	return e.Flags&0x8 != 0
}

// Paragraph is the rendered text of one w:p element. Explicit breaks are
// embedded as '\n'.
type Paragraph string

// Page is an ordered run of laid-out lines rendered onto one PDF page
type Page []string

// PageImage represents a single rasterized PDF page
type PageImage struct {
	PageNumber int
	ImagePath  string // Path to temporary JPG file
	Width      int
	Height     int
}

// CVRecord is the structured record extracted from a CV/resume
type CVRecord struct {
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Location   string       `json:"location"`
	Headline   string       `json:"headline"`
	Summary    string       `json:"summary"`
	Skills     []string     `json:"skills"`
	Languages  []string     `json:"languages"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Links      []string     `json:"links"`
}

// Experience is one position held by the candidate
type Experience struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description,omitempty"`
}

// Education is one degree or course of study
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

// IsEmpty reports whether nothing useful was extracted
func (r *CVRecord) IsEmpty() bool {
	return strings.TrimSpace(r.Name) == "" &&
		strings.TrimSpace(r.Email) == "" &&
		len(r.Experience) == 0 &&
		len(r.Education) == 0 &&
		len(r.Skills) == 0
}

// ConversionStats describes a finished DOCX to PDF conversion
type ConversionStats struct {
	InputPath  string
	OutputPath string
	Paragraphs int
	Lines      int
	Pages      int
	Bytes      int
	Duration   time.Duration
}
