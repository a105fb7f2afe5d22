package layout

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/cv-extractor/internal/domain"
)

func TestDerivedBudgets(t *testing.T) {
	assert.Equal(t, 85, MaxCharsPerLine())
	assert.Equal(t, 51, LinesPerPage())
	assert.InDelta(t, 14.4, DefaultMetrics().LineHeight(), 1e-9)
}

func TestMetrics_CustomGeometry(t *testing.T) {
	m := DefaultMetrics()
	m.FontSize = 10
	// (612-100)/(10*0.5) = 102.4
	assert.Equal(t, 102, m.MaxCharsPerLine())
	// (770-50)/12 = 60, plus the first baseline
	assert.Equal(t, 61, m.LinesPerPage())
}

func TestWrapLine_ShortTextUnchanged(t *testing.T) {
	tests := []string{
		"",
		"hello",
		"  leading and trailing  ",
		"multiple   inner    spaces",
		strings.Repeat("x", 85),
		strings.Repeat("é", 85),
	}
	for _, text := range tests {
		assert.Equal(t, []string{text}, WrapLine(text, 85), "text %q", text)
	}
}

func TestWrapLine_GreedyFill(t *testing.T) {
	got := WrapLine("aaa bbb ccc ddd eee", 7)
	assert.Equal(t, []string{"aaa bbb", "ccc ddd", "eee"}, got)

	// exact fit including the joining space
	got = WrapLine("ab cd efgh", 5)
	assert.Equal(t, []string{"ab cd", "efgh"}, got)
}

func TestWrapLine_PreservesWordsAndBudget(t *testing.T) {
	text := "Senior Go engineer with ten years of experience building distributed systems, " +
		"storage engines and developer tooling across fintech and logistics companies worldwide."
	max := 20

	lines := WrapLine(text, max)
	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, utf8.RuneCountInString(l), max, "line %q", l)
	}
	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(lines, " ")))
}

func TestWrapLine_HardBreaksLongWord(t *testing.T) {
	word := strings.Repeat("abcdefghij", 4) + "xyz" // 43 chars
	lines := WrapLine(word, 10)

	require.Len(t, lines, 5) // ceil(43/10)
	for _, l := range lines[:4] {
		assert.Len(t, l, 10)
	}
	assert.Equal(t, "xyz", lines[4])
	assert.Equal(t, word, strings.Join(lines, ""))
}

func TestWrapLine_LongWordBetweenShortWords(t *testing.T) {
	lines := WrapLine("one "+strings.Repeat("z", 12)+" two three", 5)
	assert.Equal(t, []string{"one", "zzzzz", "zzzzz", "zz", "two", "three"}, lines)
}

func TestWrapLine_Runes(t *testing.T) {
	lines := WrapLine("ÄÖÜ ÄÖÜ ÄÖÜ", 7)
	assert.Equal(t, []string{"ÄÖÜ ÄÖÜ", "ÄÖÜ"}, lines)
}

func TestLines_BreaksAndBlankSegments(t *testing.T) {
	paragraphs := []domain.Paragraph{
		"Jane Doe",
		"Phone: 555\nEmail: jane@example.com",
		"",
		"trailing break\n",
	}

	got := Lines(paragraphs, 85)
	assert.Equal(t, []string{
		"Jane Doe",
		"Phone: 555",
		"Email: jane@example.com",
		"",
		"trailing break",
		"",
	}, got)
}

func TestLines_SegmentsWrappedIndependently(t *testing.T) {
	p := domain.Paragraph("aaaa bbbb\ncccc dddd")
	got := Lines([]domain.Paragraph{p}, 9)
	assert.Equal(t, []string{"aaaa bbbb", "cccc dddd"}, got)
}

func TestLines_ShortParagraphIsOneLine(t *testing.T) {
	got := Lines([]domain.Paragraph{"Experience"}, MaxCharsPerLine())
	assert.Equal(t, []string{"Experience"}, got)
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		lines     int
		perPage   int
		wantPages int
		wantLast  int
	}{
		{"empty", 0, 51, 0, 0},
		{"single line", 1, 51, 1, 1},
		{"exactly one page", 51, 51, 1, 51},
		{"one over", 52, 51, 2, 1},
		{"evenly divisible", 153, 51, 3, 51},
		{"remainder", 130, 51, 3, 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := make([]string, tt.lines)
			for i := range lines {
				lines[i] = strings.Repeat("l", i%7)
			}

			pages := Paginate(lines, tt.perPage)
			require.Len(t, pages, tt.wantPages)
			if tt.wantPages == 0 {
				return
			}
			assert.Len(t, pages[len(pages)-1], tt.wantLast)

			var flat []string
			for _, p := range pages {
				assert.LessOrEqual(t, len(p), tt.perPage)
				flat = append(flat, p...)
			}
			assert.Equal(t, lines, flat)
		})
	}
}

func TestPaginate_PagesDoNotAlias(t *testing.T) {
	pages := Paginate([]string{"a", "b", "c"}, 2)
	require.Len(t, pages, 2)
	pages[0] = append(pages[0], "x")
	assert.Equal(t, domain.Page{"c"}, pages[1])
}

func TestMetrics_Layout(t *testing.T) {
	paragraphs := make([]domain.Paragraph, 60)
	for i := range paragraphs {
		paragraphs[i] = "line"
	}
	pages := DefaultMetrics().Layout(paragraphs)
	require.Len(t, pages, 2)
	assert.Len(t, pages[0], 51)
	assert.Len(t, pages[1], 9)
}
