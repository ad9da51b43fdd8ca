// Package markdown compiles post bodies to HTML and extracts their table of contents.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// DefaultStyle is the chroma style used for fenced code blocks.
const DefaultStyle = "dracula"

// TocEntry is a single heading in a document's table of contents.
type TocEntry struct {
	Value string // heading text
	URL   string // "#" + heading id
	Depth int    // 1 for h1, 2 for h2, ...
}

// Document is a compiled markdown body.
type Document struct {
	HTML string
	TOC  []TocEntry
}

// Compiler turns markdown source into a Document.
type Compiler struct {
	md goldmark.Markdown
}

// NewCompiler returns a Compiler with GFM, footnotes, automatic heading IDs
// and syntax highlighting using style (DefaultStyle when empty).
func NewCompiler(style string) *Compiler {
	if style == "" {
		style = DefaultStyle
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(highlighting.WithStyle(style)),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Compiler{md: md}
}

// Compile parses src once, collects headings into the TOC and renders HTML.
func (c *Compiler) Compile(src []byte) (Document, error) {
	ctx := parser.NewContext()
	doc := c.md.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))

	toc := collectTOC(doc, src)

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, src, doc); err != nil {
		return Document{}, fmt.Errorf("markdown: render: %w", err)
	}
	return Document{HTML: buf.String(), TOC: toc}, nil
}

func collectTOC(doc ast.Node, src []byte) []TocEntry {
	var toc []TocEntry
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		id, found := heading.AttributeString("id")
		if !found {
			return ast.WalkSkipChildren, nil
		}
		idBytes, _ := id.([]byte)
		toc = append(toc, TocEntry{
			Value: nodeText(heading, src),
			URL:   "#" + string(idBytes),
			Depth: heading.Level,
		})
		return ast.WalkSkipChildren, nil
	})
	return toc
}

// nodeText concatenates the literal text below n.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// HTML returns a templ.Component that writes the compiled document as-is.
func HTML(doc Document) templ.Component {
	return templ.Raw(doc.HTML)
}
