// Package testutil builds small DOCX fixtures for tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"hash/crc32"
	"html"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/flate"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const rootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

// DocumentXML wraps paragraphs in a WordprocessingML document. Newlines
// inside a paragraph become w:br elements.
func DocumentXML(paragraphs ...string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		sb.WriteString("<w:p>")
		for i, segment := range strings.Split(p, "\n") {
			if i > 0 {
				sb.WriteString("<w:r><w:br/></w:r>")
			}
			if segment == "" {
				continue
			}
			sb.WriteString(`<w:r><w:t xml:space="preserve">`)
			sb.WriteString(html.EscapeString(segment))
			sb.WriteString("</w:t></w:r>")
		}
		sb.WriteString("</w:p>")
	}
	sb.WriteString(`<w:sectPr/></w:body></w:document>`)
	return sb.String()
}

// DOCX returns a deflate-compressed DOCX archive whose body is documentXML.
// Sizes are recorded in the local headers, as word processors write them.
func DOCX(t testing.TB, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range []struct{ name, body string }{
		{"[Content_Types].xml", contentTypes},
		{"_rels/.rels", rootRels},
		{"word/document.xml", documentXML},
	} {
		compressed := deflate(t, f.body)
		w, err := zw.CreateRaw(&zip.FileHeader{
			Name:               f.name,
			Method:             zip.Deflate,
			CRC32:              crc32.ChecksumIEEE([]byte(f.body)),
			CompressedSize64:   uint64(len(compressed)),
			UncompressedSize64: uint64(len(f.body)),
		})
		if err != nil {
			t.Fatalf("create %s: %v", f.name, err)
		}
		if _, err := w.Write(compressed); err != nil {
			t.Fatalf("write %s: %v", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// WriteDOCX writes a DOCX with the given paragraphs to dir/name and returns its path.
func WriteDOCX(t testing.TB, dir, name string, paragraphs ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, DOCX(t, DocumentXML(paragraphs...)), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func deflate(t testing.TB, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("flate writer: %v", err)
	}
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatalf("deflate: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("deflate close: %v", err)
	}
	return buf.Bytes()
}
