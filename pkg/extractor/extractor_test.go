package extractor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/cv-extractor/internal/domain"
	"github.com/spherical/cv-extractor/internal/pdf"
	"github.com/spherical/cv-extractor/internal/testutil"
)

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteDOCX(t, dir, "cv.docx", "Ada Lovelace", "Analytical Engine")

	c, err := NewClientWithConfig(&Config{})
	require.NoError(t, err)

	out, err := c.Convert(context.Background(), input, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cv.pdf"), out)

	info, err := pdf.Inspect(out)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Pages)
	assert.Contains(t, info.Text, "Ada Lovelace")
}

func TestConvertBytes(t *testing.T) {
	c, err := NewClientWithConfig(nil)
	require.NoError(t, err)

	data, err := c.ConvertBytes(context.Background(), testutil.DOCX(t, testutil.DocumentXML("hello")))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4\n", string(data[:9]))
}

func TestExtractRequiresAPIKey(t *testing.T) {
	c, err := NewClientWithConfig(&Config{})
	require.NoError(t, err)

	_, err = c.Extract(context.Background(), "cv.pdf")
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrorTypeConfig, domainErr.Type)
}

func TestNewClientWithConfigRejectsMode(t *testing.T) {
	_, err := NewClientWithConfig(&Config{Mode: "fax"})
	assert.Error(t, err)
}

func TestConvertInvalidInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0o644))

	c, err := NewClientWithConfig(nil)
	require.NoError(t, err)
	_, err = c.Convert(context.Background(), path, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
