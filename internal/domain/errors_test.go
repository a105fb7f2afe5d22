package domain

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"validation matches invalid input", ValidationError("bad path", nil), ErrInvalidInput, true},
		{"not found matches", NotFoundError("word/document.xml"), ErrEntryNotFound, true},
		{"unsupported matches", UnsupportedCompressionError(12), ErrUnsupportedCompression, true},
		{"parse matches malformed xml", ParseError("decode", io.ErrUnexpectedEOF), ErrMalformedXML, true},
		{"not found is not unsupported", NotFoundError("x"), ErrUnsupportedCompression, false},
		{"wrapped with fmt", fmt.Errorf("convert: %w", NotFoundError("x")), ErrEntryNotFound, true},
		{"plain error", errors.New("boom"), ErrInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	err := IOError("write output", io.ErrShortWrite)
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.Equal(t, "[io] write output: short write", err.Error())
	assert.Equal(t, "[not_found] missing", NotFoundError("missing").Error())
}

func TestDomainError_SpecificInstanceDoesNotMatchOther(t *testing.T) {
	a := ValidationError("a", nil)
	b := ValidationError("b", nil)
	assert.False(t, errors.Is(a, b))
}
