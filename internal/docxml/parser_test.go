package docxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/cv-extractor/internal/domain"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func doc(body string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document ` + wordNS + `><w:body>` + body + `</w:body></w:document>`)
}

func TestParseParagraphs_RunsAreConcatenated(t *testing.T) {
	data := doc(`<w:p><w:r><w:t>Jane </w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">  Software Engineer  </w:t></w:r></w:p>`)

	got, err := ParseParagraphs(data)
	require.NoError(t, err)
	assert.Equal(t, []domain.Paragraph{"Jane Doe", "Software Engineer"}, got)
}

func TestParseParagraphs_BreaksBecomeNewlines(t *testing.T) {
	data := doc(`<w:p><w:r><w:t>Phone: 555-0100</w:t><w:br/><w:t>Email: jane@example.com</w:t></w:r></w:p>`)

	got, err := ParseParagraphs(data)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.Paragraph("Phone: 555-0100\nEmail: jane@example.com"), got[0])
}

func TestParseParagraphs_BreakContentIsIgnored(t *testing.T) {
	data := doc(`<w:p><w:r><w:t>a</w:t><w:br w:type="page">ignored</w:br><w:t>b</w:t></w:r></w:p>`)

	got, err := ParseParagraphs(data)
	require.NoError(t, err)
	assert.Equal(t, []domain.Paragraph{"a\nb"}, got)
}

func TestParseParagraphs_Tabs(t *testing.T) {
	data := doc(`<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>` +
		`<w:r><w:t>2019</w:t><w:tab/><w:t>Acme</w:t></w:r></w:p>`)

	got, err := ParseParagraphs(data)
	require.NoError(t, err)
	assert.Equal(t, []domain.Paragraph{"2019\tAcme"}, got)
}

func TestParseParagraphs_EmptyParagraphsKeepPosition(t *testing.T) {
	data := doc(`<w:p><w:r><w:t>Skills</w:t></w:r></w:p><w:p/><w:p><w:r><w:t>Go</w:t></w:r></w:p>`)

	got, err := ParseParagraphs(data)
	require.NoError(t, err)
	assert.Equal(t, []domain.Paragraph{"Skills", "", "Go"}, got)
}

func TestParseParagraphs_PrefixInsensitive(t *testing.T) {
	data := []byte(`<doc xmlns:x="urn:other"><x:p><x:r><x:t>one</x:t></x:r></x:p><p>two</p><body><p>three<br/>four</p></body></doc>`)

	got, err := ParseParagraphs(data)
	require.NoError(t, err)
	assert.Equal(t, []domain.Paragraph{"one", "two", "three\nfour"}, got)
}

func TestParseParagraphs_TableCells(t *testing.T) {
	data := doc(`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Go</w:t></w:r></w:p></w:tc>` +
		`<w:tc><w:p><w:r><w:t>Expert</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`)

	got, err := ParseParagraphs(data)
	require.NoError(t, err)
	assert.Equal(t, []domain.Paragraph{"Go", "Expert"}, got)
}

func TestParseParagraphs_Entities(t *testing.T) {
	data := doc(`<w:p><w:r><w:t>R&amp;D &lt;team&gt; (lead)</w:t></w:r></w:p>`)

	got, err := ParseParagraphs(data)
	require.NoError(t, err)
	assert.Equal(t, []domain.Paragraph{"R&D <team> (lead)"}, got)
}

func TestParseParagraphs_NoParagraphs(t *testing.T) {
	got, err := ParseParagraphs(doc(``))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseParagraphs_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"unclosed element", `<w:document ` + wordNS + `><w:body><w:p>`},
		{"mismatched tags", `<a><b></a></b>`},
		{"bad entity", `<a>&nope;</a>`},
		{"two roots", `<a/><b/>`},
		{"not xml", `PK\x03\x04 binary`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseParagraphs([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedXML)
		})
	}
}
