package pdf

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/spherical/cv-extractor/internal/domain"
	"github.com/spherical/cv-extractor/internal/layout"
)

// Fixed object numbers. Page i uses firstPageObject+2i and its content
// stream the number after it.
const (
	catalogObject   = 1
	pagesObject     = 2
	fontObject      = 3
	firstPageObject = 4

	fontResource = "F1"
)

// Header is the PDF header line followed by a binary marker comment.
const Header = "%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"

// Trailer is the final line of every document produced by Builder.
const Trailer = "%%EOF\n"

// objectRef records where an object starts in the output.
type objectRef struct {
	id     int
	offset int
}

// Builder serializes laid-out pages into a single-font text PDF.
type Builder struct {
	metrics layout.Metrics
}

// NewBuilder creates a Builder rendering with the given page geometry.
func NewBuilder(m layout.Metrics) *Builder {
	return &Builder{metrics: m}
}

// Build renders pages with DefaultMetrics.
func Build(pages []domain.Page) ([]byte, error) {
	return NewBuilder(layout.DefaultMetrics()).Build(pages)
}

// PageObjectID returns the object number of the page at index i.
func PageObjectID(i int) int {
	return firstPageObject + 2*i
}

// ContentObjectID returns the object number of the content stream of page i.
func ContentObjectID(i int) int {
	return PageObjectID(i) + 1
}

// Build returns a complete PDF document with one page per element of pages.
func (b *Builder) Build(pages []domain.Page) ([]byte, error) {
	w := &objectWriter{}
	w.buf.WriteString(Header)

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", PageObjectID(i))
	}

	if err := w.add(catalogObject, []byte(fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesObject))); err != nil {
		return nil, err
	}
	if err := w.add(pagesObject, []byte(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pages)))); err != nil {
		return nil, err
	}
	if err := w.add(fontObject, []byte("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")); err != nil {
		return nil, err
	}

	for i, page := range pages {
		pageBody := fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %s %s] /Resources << /Font << /%s %d 0 R >> >> /Contents %d 0 R >>",
			pagesObject, formatNumber(b.metrics.PageWidth), formatNumber(b.metrics.PageHeight),
			fontResource, fontObject, ContentObjectID(i))
		if err := w.add(PageObjectID(i), []byte(pageBody)); err != nil {
			return nil, err
		}
		if err := w.add(ContentObjectID(i), contentObject(b.contentStream(page))); err != nil {
			return nil, err
		}
	}

	w.finish()
	return w.buf.Bytes(), nil
}

// contentStream emits the text operators for one page.
func (b *Builder) contentStream(page domain.Page) []byte {
	var cs bytes.Buffer
	cs.WriteString("BT\n")
	fmt.Fprintf(&cs, "/%s %s Tf\n", fontResource, formatNumber(b.metrics.FontSize))
	fmt.Fprintf(&cs, "%s TL\n", formatNumber(b.metrics.LineHeight()))
	fmt.Fprintf(&cs, "%s %s Td\n", formatNumber(b.metrics.LeftMargin), formatNumber(b.metrics.TopMargin))

	for i, line := range page {
		if line == "" {
			cs.WriteString("T*\n")
			continue
		}
		if i > 0 {
			cs.WriteString("T*\n")
		}
		cs.WriteByte('(')
		cs.Write(encodeWinAnsi(EscapeText(line)))
		cs.WriteString(") Tj\n")
	}

	cs.WriteString("ET")
	return cs.Bytes()
}

func contentObject(stream []byte) []byte {
	var body bytes.Buffer
	fmt.Fprintf(&body, "<< /Length %d >>\nstream\n", len(stream))
	body.Write(stream)
	body.WriteString("\nendstream")
	return body.Bytes()
}

// EscapeText backslash-escapes the characters that delimit PDF literal
// strings. Backslashes are escaped first so inserted ones are not doubled.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `(`, `\(`)
	s = strings.ReplaceAll(s, `)`, `\)`)
	return s
}

// encodeWinAnsi maps text onto the font's WinAnsiEncoding. Runes outside
// Windows-1252 become '?'.
func encodeWinAnsi(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 0x80 {
			out = append(out, byte(r))
			continue
		}
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			out = append(out, c)
			continue
		}
		out = append(out, '?')
	}
	return out
}

// formatNumber writes a PDF real with at most four decimals and no trailing zeros.
func formatNumber(f float64) string {
	return strconv.FormatFloat(math.Round(f*1e4)/1e4, 'f', -1, 64)
}

// objectWriter appends numbered objects and remembers their offsets.
type objectWriter struct {
	buf  bytes.Buffer
	refs []objectRef
}

// add appends an object. Objects must arrive in ascending order starting at 1.
func (w *objectWriter) add(id int, body []byte) error {
	if want := len(w.refs) + 1; id != want {
		return domain.ConversionError(fmt.Sprintf("object %d written out of order, expected %d", id, want), nil)
	}
	w.refs = append(w.refs, objectRef{id: id, offset: w.buf.Len()})
	fmt.Fprintf(&w.buf, "%d 0 obj\n", id)
	w.buf.Write(body)
	w.buf.WriteString("\nendobj\n")
	return nil
}

// finish writes the cross-reference table and trailer.
func (w *objectWriter) finish() {
	xrefOffset := w.buf.Len()

	fmt.Fprintf(&w.buf, "xref\n0 %d\n", len(w.refs)+1)
	w.buf.WriteString("0000000000 65535 f \n")
	for _, ref := range w.refs {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", ref.offset)
	}

	fmt.Fprintf(&w.buf, "trailer\n<< /Size %d /Root %d 0 R >>\n", len(w.refs)+1, catalogObject)
	fmt.Fprintf(&w.buf, "startxref\n%d\n", xrefOffset)
	w.buf.WriteString(Trailer)
}
