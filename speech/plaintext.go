package speech

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// PlainText reduces a markdown reply to the text worth reading aloud: one
// line per paragraph, heading or list item, with emphasis, code spans and
// link targets reduced to their visible text. Code blocks, raw HTML blocks
// and thematic breaks are dropped.
func PlainText(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	source := []byte(markdown)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var lines []string
	walkBlock(doc, source, &lines)
	return strings.Join(lines, "\n")
}

func walkBlock(node ast.Node, source []byte, lines *[]string) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
			for _, line := range strings.Split(collectInline(n, source), "\n") {
				if line = sanitize(line); line != "" {
					*lines = append(*lines, line)
				}
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.ThematicBreak:
		default:
			walkBlock(n, source, lines)
		}
	}
}

func collectInline(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		writeInline(c, source, &buf)
	}
	return buf.String()
}

func writeInline(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		if n.SoftLineBreak() {
			buf.WriteByte(' ')
		}
		if n.HardLineBreak() {
			buf.WriteByte('\n')
		}
	case *ast.String:
		buf.Write(n.Value)
	case *ast.AutoLink:
		buf.Write(n.Label(source))
	case *ast.RawHTML:
	default:
		// Emphasis, code spans, links and images read as their content.
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			writeInline(c, source, buf)
		}
	}
}

// sanitize strips escape sequences and control characters. Runs of Unicode
// whitespace, no-break spaces included, collapse to one ASCII space.
func sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
