package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func render(md string) string {
	var buf bytes.Buffer
	Render(&buf, md)
	return buf.String()
}

func TestInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"**bold *italic* text**", "<strong>bold <em>italic</em> text</strong>"},
		{"`a*b*c`", "<code>a*b*c</code>"},
		{"<script>", "&lt;script&gt;"},
		{"[ACM](https://www.acm.org)", `<a href="https://www.acm.org" rel="noopener noreferrer">ACM</a>`},
		{"[home](/)", `<a href="/">home</a>`},
		{"[x](javascript:void)", "x"},
	}
	for _, tt := range tests {
		if got := Inline(tt.input); got != tt.expected {
			t.Errorf("Inline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestInlineLeavesHrefAlone(t *testing.T) {
	got := Inline("[a](https://example.org/*x*/)")
	if !strings.Contains(got, `href="https://example.org/*x*/"`) {
		t.Errorf("emphasis applied inside href: %q", got)
	}
}

func TestRenderBlocks(t *testing.T) {
	md := "# Awards\n\nThe **test of time** award.\nSecond line.\n\n- one\n- two\n\n1. first\n2. second\n\n> quoted\n> more\n\n---\n#notaheading"
	want := "<h2>Awards</h2>" +
		"<p>The <strong>test of time</strong> award. Second line.</p>" +
		"<ul><li>one</li><li>two</li></ul>" +
		"<ol><li>first</li><li>second</li></ol>" +
		"<blockquote>quoted more</blockquote>" +
		"<hr/>" +
		"<p>#notaheading</p>"
	if got := render(md); got != want {
		t.Errorf("Render:\n got %q\nwant %q", got, want)
	}
}

func TestRenderListEndsParagraph(t *testing.T) {
	got := render("intro\n- item")
	if got != "<p>intro</p><ul><li>item</li></ul>" {
		t.Errorf("got %q", got)
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"/awards", "/awards"},
		{"#top", "#top"},
		{"https://a.example/?x=1&amp;y=2", "https://a.example/?x=1&amp;y=2"},
		{"mailto:a@b.org", "mailto:a@b.org"},
		{"javascript:alert(1)", ""},
		{"data:text/html,hi", ""},
		{"relative/path", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("hello").Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "<p>hello</p>" {
		t.Errorf("got %q", buf.String())
	}
}
