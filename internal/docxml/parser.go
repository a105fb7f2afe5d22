// Package docxml extracts paragraph text from WordprocessingML
// (word/document.xml).
package docxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/spherical/cv-extractor/internal/domain"
)

// node is an element or, when name is empty, a run of character data.
type node struct {
	name     string
	text     string
	children []*node
}

// ParseParagraphs returns the text of every paragraph element in document
// order. Element names are matched on their local part, so any namespace
// prefix is accepted.
func ParseParagraphs(data []byte) ([]domain.Paragraph, error) {
	root, err := parseTree(data)
	if err != nil {
		return nil, err
	}

	var paragraphs []domain.Paragraph
	walk(root, func(n *node) {
		if n.name == "p" {
			paragraphs = append(paragraphs, domain.Paragraph(strings.TrimSpace(paragraphText(n))))
		}
	})
	return paragraphs, nil
}

func parseTree(data []byte) (*node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true

	var root *node
	var stack []*node

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.ParseError("malformed document XML", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local}
			if len(stack) == 0 {
				if root != nil {
					return nil, domain.ParseError("malformed document XML", errors.New("multiple root elements"))
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, domain.ParseError("malformed document XML", errors.New("text outside root element"))
				}
				continue
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, &node{text: string(t)})
		}
	}

	if root == nil {
		return nil, domain.ParseError("malformed document XML", errors.New("no root element"))
	}
	return root, nil
}

// walk visits elements depth-first in document order.
func walk(n *node, visit func(*node)) {
	if n.name == "" {
		return
	}
	visit(n)
	for _, c := range n.children {
		walk(c, visit)
	}
}

// paragraphText concatenates descendant text. Breaks become newlines and
// are not descended into.
func paragraphText(p *node) string {
	var sb strings.Builder
	var collect func(n *node)
	collect = func(n *node) {
		for _, c := range n.children {
			switch c.name {
			case "":
				sb.WriteString(c.text)
			case "br", "cr":
				sb.WriteByte('\n')
			case "tab":
				// Tab stops under w:tabs carry no text.
				if n.name == "r" {
					sb.WriteByte('\t')
				}
			default:
				collect(c)
			}
		}
	}
	collect(p)
	return sb.String()
}
