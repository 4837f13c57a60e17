// Package markdown renders the small Markdown subset used for page bodies
// as a templ component.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold        = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic      = regexp.MustCompile(`\*([^*]+)\*`)
	reInlineCode  = regexp.MustCompile("`([^`]+)`")
	reLink        = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	reOrderedItem = regexp.MustCompile(`^\d+\.\s+`)
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		Render(&buf, md)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// block is the HTML element currently open.
type block string

const (
	none  block = ""
	para  block = "p"
	ulist block = "ul"
	olist block = "ol"
	quote block = "blockquote"
)

type renderer struct {
	buf  *bytes.Buffer
	open block
}

func (r *renderer) enter(b block) bool {
	if r.open == b {
		return false
	}
	r.close()
	r.buf.WriteString("<" + string(b) + ">")
	r.open = b
	return true
}

func (r *renderer) close() {
	if r.open != none {
		r.buf.WriteString("</" + string(r.open) + ">")
		r.open = none
	}
}

// Render writes the HTML representation of md to buf. Headings start at
// h2 because pages already carry an h1.
func Render(buf *bytes.Buffer, md string) {
	r := &renderer{buf: buf}
	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, "\r ")
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			r.close()
		case trimmed == "---":
			r.close()
			buf.WriteString("<hr/>")
		case strings.HasPrefix(trimmed, "#"):
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			text := strings.TrimSpace(trimmed[level:])
			if level > 3 || text == "" || trimmed[level] != ' ' {
				r.paragraph(trimmed)
				continue
			}
			r.close()
			tag := "h" + strconv.Itoa(level+1)
			buf.WriteString("<" + tag + ">" + Inline(text) + "</" + tag + ">")
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			r.enter(ulist)
			buf.WriteString("<li>" + Inline(strings.TrimSpace(trimmed[2:])) + "</li>")
		case reOrderedItem.MatchString(trimmed):
			r.enter(olist)
			buf.WriteString("<li>" + Inline(reOrderedItem.ReplaceAllString(trimmed, "")) + "</li>")
		case strings.HasPrefix(trimmed, "> "):
			if !r.enter(quote) {
				buf.WriteString(" ")
			}
			buf.WriteString(Inline(strings.TrimSpace(trimmed[2:])))
		default:
			r.paragraph(trimmed)
		}
	}
	r.close()
}

func (r *renderer) paragraph(text string) {
	if !r.enter(para) {
		r.buf.WriteString(" ")
	}
	r.buf.WriteString(Inline(text))
}

// Inline escapes s and applies code spans, links, bold and italic.
func Inline(s string) string {
	escaped := html.EscapeString(s)

	// Code spans are swapped for placeholders so emphasis cannot reach them.
	var spans []string
	escaped = reInlineCode.ReplaceAllStringFunc(escaped, func(m string) string {
		spans = append(spans, "<code>"+reInlineCode.FindStringSubmatch(m)[1]+"</code>")
		return "\x00" + strconv.Itoa(len(spans)-1) + "\x00"
	})
	escaped = reLink.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		attrs := ""
		if strings.HasPrefix(href, "http") {
			attrs = ` rel="noopener noreferrer"`
		}
		return `<a href="` + href + `"` + attrs + `>` + match[1] + `</a>`
	})
	escaped = outsideTags(escaped, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		return reItalic.ReplaceAllString(seg, "<em>$1</em>")
	})
	for i, span := range spans {
		escaped = strings.Replace(escaped, "\x00"+strconv.Itoa(i)+"\x00", span, 1)
	}
	return escaped
}

// outsideTags applies fn to the text between HTML tags only, leaving href
// attributes untouched.
func outsideTags(s string, fn func(string) string) string {
	var b strings.Builder
	for s != "" {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			b.WriteString(fn(s))
			break
		}
		b.WriteString(fn(s[:lt]))
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			b.WriteString(s[lt:])
			break
		}
		b.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return b.String()
}

// SafeURL returns raw escaped for an href attribute, or "" when its scheme
// is not one a page link may use.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	u, err := url.Parse(val)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto":
		return html.EscapeString(val)
	}
	return ""
}
