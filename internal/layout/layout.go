// Package layout wraps paragraph text to a fixed character budget and
// paginates the resulting lines to a fixed line budget per page.
//
// Widths are estimated as FontSize*CharWidthRatio per character. This is a
// monospace approximation, not a glyph metric, and the derived budgets are
// relied on exactly.
package layout

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/spherical/cv-extractor/internal/domain"
)

// Page geometry in PDF points.
const (
	PageWidth       = 612.0
	PageHeight      = 792.0
	LeftMargin      = 50.0
	RightMargin     = 50.0
	TopMargin       = 770.0
	BottomMargin    = 50.0
	FontSize        = 12.0
	CharWidthRatio  = 0.5
	LineHeightRatio = 1.2
)

// Metrics describes the page geometry used for wrapping, pagination and rendering.
type Metrics struct {
	PageWidth       float64
	PageHeight      float64
	LeftMargin      float64
	RightMargin     float64
	TopMargin       float64
	BottomMargin    float64
	FontSize        float64
	CharWidthRatio  float64
	LineHeightRatio float64
}

// DefaultMetrics returns US Letter geometry with 12pt text.
func DefaultMetrics() Metrics {
	return Metrics{
		PageWidth:       PageWidth,
		PageHeight:      PageHeight,
		LeftMargin:      LeftMargin,
		RightMargin:     RightMargin,
		TopMargin:       TopMargin,
		BottomMargin:    BottomMargin,
		FontSize:        FontSize,
		CharWidthRatio:  CharWidthRatio,
		LineHeightRatio: LineHeightRatio,
	}
}

// LineHeight is the vertical advance between baselines.
func (m Metrics) LineHeight() float64 {
	return m.FontSize * m.LineHeightRatio
}

// MaxCharsPerLine is the character budget of one line.
func (m Metrics) MaxCharsPerLine() int {
	usable := m.PageWidth - m.LeftMargin - m.RightMargin
	return int(math.Floor(usable / (m.FontSize * m.CharWidthRatio)))
}

// LinesPerPage is the number of baselines between the top and bottom margins, inclusive.
func (m Metrics) LinesPerPage() int {
	return int(math.Floor((m.TopMargin-m.BottomMargin)/m.LineHeight())) + 1
}

// Layout wraps paragraphs and paginates the result.
func (m Metrics) Layout(paragraphs []domain.Paragraph) []domain.Page {
	return Paginate(Lines(paragraphs, m.MaxCharsPerLine()), m.LinesPerPage())
}

// MaxCharsPerLine returns the character budget for DefaultMetrics (85).
func MaxCharsPerLine() int {
	return DefaultMetrics().MaxCharsPerLine()
}

// LinesPerPage returns the line budget for DefaultMetrics (51).
func LinesPerPage() int {
	return DefaultMetrics().LinesPerPage()
}

// WrapLine greedily fills lines of at most maxChars characters. Text that
// already fits is returned unchanged. Words longer than maxChars are cut
// into maxChars-sized chunks.
func WrapLine(text string, maxChars int) []string {
	if utf8.RuneCountInString(text) <= maxChars {
		return []string{text}
	}
	if maxChars <= 0 {
		return strings.Fields(text)
	}

	var lines []string
	current := ""
	currentLen := 0

	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)

		if wordLen > maxChars {
			if currentLen > 0 {
				lines = append(lines, current)
			}
			lines = append(lines, chunk(word, maxChars)...)
			current, currentLen = "", 0
			continue
		}

		switch {
		case currentLen == 0:
			current, currentLen = word, wordLen
		case currentLen+1+wordLen <= maxChars:
			current += " " + word
			currentLen += 1 + wordLen
		default:
			lines = append(lines, current)
			current, currentLen = word, wordLen
		}
	}

	if currentLen > 0 {
		lines = append(lines, current)
	}
	return lines
}

// chunk splits word into pieces of size runes; the last may be shorter.
func chunk(word string, size int) []string {
	runes := []rune(word)
	out := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		out = append(out, string(runes[start:end]))
	}
	return out
}

// Lines flattens paragraphs into a single line stream. Each explicit break
// starts a new segment; blank segments become empty lines.
func Lines(paragraphs []domain.Paragraph, maxChars int) []string {
	var lines []string
	for _, p := range paragraphs {
		for _, segment := range strings.Split(string(p), "\n") {
			if strings.TrimSpace(segment) == "" {
				lines = append(lines, "")
				continue
			}
			lines = append(lines, WrapLine(segment, maxChars)...)
		}
	}
	return lines
}

// Paginate slices lines into pages of perPage lines in input order.
func Paginate(lines []string, perPage int) []domain.Page {
	if perPage <= 0 || len(lines) == 0 {
		return nil
	}
	pages := make([]domain.Page, 0, (len(lines)+perPage-1)/perPage)
	for start := 0; start < len(lines); start += perPage {
		end := min(start+perPage, len(lines))
		pages = append(pages, domain.Page(lines[start:end:end]))
	}
	return pages
}
