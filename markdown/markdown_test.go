package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func compile(t *testing.T, src string) Document {
	t.Helper()
	doc, err := NewCompiler("").Compile([]byte(src))
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", src, err)
	}
	return doc
}

func TestCompileHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", `<h1 id="heading-1">Heading 1</h1>`},
		{"## Getting Started", `<h2 id="getting-started">Getting Started</h2>`},
		{"### Deep Dive", `<h3 id="deep-dive">Deep Dive</h3>`},
	}
	for _, tt := range tests {
		got := compile(t, tt.input).HTML
		if !strings.Contains(got, tt.expected) {
			t.Errorf("Compile(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestCompileTOC(t *testing.T) {
	src := "# Title\n\nintro\n\n## First Part\n\ntext\n\n### Detail `code`\n\n## Second Part\n"
	doc := compile(t, src)

	want := []TocEntry{
		{Value: "Title", URL: "#title", Depth: 1},
		{Value: "First Part", URL: "#first-part", Depth: 2},
		{Value: "Detail code", URL: "#detail-code", Depth: 3},
		{Value: "Second Part", URL: "#second-part", Depth: 2},
	}
	if len(doc.TOC) != len(want) {
		t.Fatalf("TOC = %+v, want %d entries", doc.TOC, len(want))
	}
	for i := range want {
		if doc.TOC[i] != want[i] {
			t.Errorf("TOC[%d] = %+v, want %+v", i, doc.TOC[i], want[i])
		}
	}
}

func TestCompileDuplicateHeadingsGetUniqueIDs(t *testing.T) {
	doc := compile(t, "## Setup\n\n## Setup\n")
	if len(doc.TOC) != 2 {
		t.Fatalf("TOC = %+v, want 2 entries", doc.TOC)
	}
	if doc.TOC[0].URL == doc.TOC[1].URL {
		t.Errorf("duplicate headings share anchor %q", doc.TOC[0].URL)
	}
}

func TestCompileNoHeadingsEmptyTOC(t *testing.T) {
	doc := compile(t, "just a paragraph")
	if len(doc.TOC) != 0 {
		t.Errorf("TOC = %+v, want empty", doc.TOC)
	}
	if !strings.Contains(doc.HTML, "<p>just a paragraph</p>") {
		t.Errorf("HTML = %q, want a paragraph", doc.HTML)
	}
}

func TestCompileCodeBlock(t *testing.T) {
	doc := compile(t, "```go\nfmt.Println(\"hello\")\n```")
	if !strings.Contains(doc.HTML, "<pre") {
		t.Errorf("code block should render a <pre>: %q", doc.HTML)
	}
	if !strings.Contains(doc.HTML, "Println") {
		t.Errorf("code block missing content: %q", doc.HTML)
	}
}

func TestCompileTable(t *testing.T) {
	doc := compile(t, "| A | B |\n|---|---|\n| 1 | 2 |\n")
	if !strings.Contains(doc.HTML, "<table>") || !strings.Contains(doc.HTML, "<td>1</td>") {
		t.Errorf("GFM table not rendered: %q", doc.HTML)
	}
}

func TestHTMLComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := HTML(Document{HTML: "<p>x</p>"}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.String() != "<p>x</p>" {
		t.Errorf("Render = %q", buf.String())
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/static/banner.png", "/static/banner.png"},
		{"#section", "#section"},
		{"https://example.com/a?b=1&c=2", "https://example.com/a?b=1&amp;c=2"},
		{"mailto:me@example.com", "mailto:me@example.com"},
		{"javascript:alert(1)", ""},
		{"relative/path", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
