package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spherical/cv-extractor/internal/domain"
)

// DetectMIME returns the MIME type of a document from its leading bytes.
// ZIP containers holding word/ members are reported as DOCX.
func DetectMIME(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return domain.MIMETypePDF
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		if isWordArchive(data) {
			return domain.MIMETypeDOCX
		}
		return "application/zip"
	}

	mimeType := http.DetectContentType(data)
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return mimeType
}

// sniffLen is the prefix length http.DetectContentType considers
const sniffLen = 512

// DetectFileMIME detects the MIME type of a file from its first bytes. ZIP
// containers are read in full so their member list can be inspected.
func DetectFileMIME(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", domain.IOError("cannot read file: "+path, err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", domain.IOError("cannot read file: "+path, err)
	}
	head = head[:n]

	if !bytes.HasPrefix(head, []byte("PK\x03\x04")) {
		return DetectMIME(head), nil
	}

	rest, err := io.ReadAll(f)
	if err != nil {
		return "", domain.IOError("cannot read file: "+path, err)
	}
	return DetectMIME(append(head, rest...)), nil
}

func isWordArchive(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		// No central directory; fall back to the local header names.
		return bytes.Contains(data, []byte(domain.DocumentEntryName))
	}
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/") {
			return true
		}
	}
	return false
}
