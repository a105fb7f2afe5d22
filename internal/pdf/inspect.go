package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/spherical/cv-extractor/internal/domain"
)

// Inspection summarizes a PDF as seen by an independent reader
type Inspection struct {
	Pages     int
	Text      string
	PageTexts []string
	Bytes     int64
}

// Inspect opens a PDF file and extracts its page count and plain text
func Inspect(path string) (*Inspection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.IOError(fmt.Sprintf("cannot read PDF: %s", path), err)
	}
	return InspectBytes(data)
}

// InspectBytes parses an in-memory PDF
func InspectBytes(data []byte) (*Inspection, error) {
	reader, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, domain.ConversionError("cannot parse PDF", err)
	}

	insp := &Inspection{
		Pages: reader.NumPage(),
		Bytes: int64(len(data)),
	}

	for i := 1; i <= insp.Pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			insp.PageTexts = append(insp.PageTexts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("cannot read text of page %d", i), err)
		}
		insp.PageTexts = append(insp.PageTexts, text)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, domain.ConversionError("cannot extract text", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return nil, domain.ConversionError("cannot read text buffer", err)
	}
	insp.Text = buf.String()

	return insp, nil
}
