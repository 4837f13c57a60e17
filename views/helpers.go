package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/sigmetrics/sigsite/markdown"
)

// html accumulates writes and keeps the first error, so templates read as a
// straight sequence of tags.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newHTML(ctx context.Context, w io.Writer) *html {
	return &html{ctx: ctx, w: w}
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) textf(format string, args ...any) {
	h.text(fmt.Sprintf(format, args...))
}

// tag writes an element whose body is escaped text.
func (h *html) tag(name, body string) {
	h.raw("<" + name + ">")
	h.text(body)
	h.raw("</" + name + ">")
}

// link writes an anchor. Unsafe hrefs degrade to plain text.
func (h *html) link(href, label string) {
	safe := markdown.SafeURL(href)
	if safe == "" {
		h.text(label)
		return
	}
	h.raw(`<a href="` + safe + `"`)
	if strings.HasPrefix(href, "http") {
		h.raw(` rel="noopener"`)
	}
	h.raw(">")
	h.text(label)
	h.raw("</a>")
}

func (h *html) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (h *html) child(c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

// component adapts a template body to templ.Component.
func component(body func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		body(h)
		return h.err
	})
}

// pageURL turns a navigation href into the served path: site-relative
// pages are served with a trailing slash.
func pageURL(href string) string {
	if strings.HasPrefix(href, "/") && !strings.HasSuffix(href, "/") {
		return href + "/"
	}
	return href
}

var linkLabels = map[string]string{
	"sigmetricsConference": "SIGMETRICS Conference",
	"pomacs":               "POMACS",
	"joinSigmetrics":       "Join SIGMETRICS",
	"joinAcm":              "Join ACM",
	"acmStore":             "ACM Store",
	"acm":                  "ACM",
}

// LinkLabel returns the display label of an external link name.
func LinkLabel(name string) string {
	if l, ok := linkLabels[name]; ok {
		return l
	}
	return name
}

var sortLabels = []struct{ key, label string }{
	{"pubs", "Papers"},
	{"first", "First-author"},
	{"last", "Last-author"},
	{"coauthors", "Co-authors"},
	{"name", "Name"},
}
