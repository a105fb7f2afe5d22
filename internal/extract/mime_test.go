package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/cv-extractor/internal/domain"
	"github.com/spherical/cv-extractor/internal/testutil"
)

func TestDetectMIME(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "pdf", data: []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"), want: domain.MIMETypePDF},
		{name: "docx", data: testutil.DOCX(t, testutil.DocumentXML("hello")), want: domain.MIMETypeDOCX},
		{name: "png", data: png, want: domain.MIMETypePNG},
		{name: "jpeg", data: jpeg, want: domain.MIMETypeJPEG},
		{name: "plain text", data: []byte("just some text"), want: "text/plain"},
		{name: "zip without word members", data: []byte("PK\x03\x04garbage"), want: "application/zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMIME(tt.data))
		})
	}
}

func TestDetectFileMIME(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644))

	got, err := DetectFileMIME(path)
	require.NoError(t, err)
	assert.Equal(t, domain.MIMETypePDF, got)

	large := filepath.Join(dir, "large.pdf")
	require.NoError(t, os.WriteFile(large, append([]byte("%PDF-1.4\n"), make([]byte, 4*sniffLen)...), 0o644))
	got, err = DetectFileMIME(large)
	require.NoError(t, err)
	assert.Equal(t, domain.MIMETypePDF, got)

	docx := testutil.WriteDOCX(t, dir, "cv.docx", "Ada")
	got, err = DetectFileMIME(docx)
	require.NoError(t, err)
	assert.Equal(t, domain.MIMETypeDOCX, got)

	empty := filepath.Join(dir, "empty.bin")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	got, err = DetectFileMIME(empty)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", got)

	_, err = DetectFileMIME(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)
}
