package views

import (
	"github.com/a-h/templ"
)

// Layout wraps body in the site chrome: head metadata, header with the
// navigation, and the contact footer.
func Layout(p Page, body templ.Component) templ.Component {
	return component(func(h *html) {
		site := p.Content.Site
		title := site.Title
		if p.Meta.Title != "" && p.Meta.Title != site.Title {
			title = p.Meta.Title + " | " + site.Title
		}
		description := p.Meta.Description
		if description == "" {
			description = site.Description
		}
		ogType := p.Meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"/>`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		h.tag("title", title)
		h.raw(`<meta name="description"`)
		h.attr("content", description)
		h.raw("/>")
		if p.Meta.URL != "" {
			h.raw(`<link rel="canonical"`)
			h.attr("href", p.Meta.URL)
			h.raw("/>")
			h.raw(`<meta property="og:url"`)
			h.attr("content", p.Meta.URL)
			h.raw("/>")
		}
		h.raw(`<meta property="og:title"`)
		h.attr("content", title)
		h.raw(`/><meta property="og:type"`)
		h.attr("content", ogType)
		h.raw(`/><meta property="og:description"`)
		h.attr("content", description)
		h.raw("/>")
		h.raw(`<link rel="stylesheet" href="/public/site.css"/>`)
		h.raw(`<link rel="alternate" type="application/rss+xml" title="Recent SIGMETRICS papers" href="/feed.xml"/>`)
		if p.Meta.JSONLD != "" {
			// json.Marshal escapes <, > and &, so the block cannot close the script early.
			h.raw(`<script type="application/ld+json">` + p.Meta.JSONLD + `</script>`)
		}
		h.raw("</head><body>")

		h.raw(`<header class="site-header"><a class="brand" href="/">`)
		h.text(site.Title)
		h.raw(`</a>`)
		if site.Tagline != "" {
			h.raw(`<p class="tagline">`)
			h.text(site.Tagline)
			h.raw(`</p>`)
		}
		h.child(navigation(p))
		h.raw(`</header><main>`)
		h.child(body)
		h.raw(`</main>`)
		h.child(footer(p))
		h.raw(`</body></html>`)
	})
}

func navigation(p Page) templ.Component {
	return component(func(h *html) {
		active := p.Content.NavIndex(p.Path)
		h.raw(`<nav aria-label="Main"><ul>`)
		for i, item := range p.Content.Nav {
			h.raw(`<li><a`)
			h.attr("href", pageURL(item.Href))
			if i == active {
				h.raw(` aria-current="page" class="active"`)
			}
			h.raw(">")
			h.text(item.Label)
			h.raw("</a></li>")
		}
		h.raw(`</ul></nav>`)
	})
}

func footer(p Page) templ.Component {
	return component(func(h *html) {
		site := p.Content.Site
		h.raw(`<footer class="site-footer"><p>Contact: `)
		h.link("mailto:"+site.Contact.Email, site.Contact.Email)
		h.raw(`</p>`)
		if u, ok := site.Social["x"]; ok {
			h.raw(`<p>Follow us on `)
			h.link(u, "X")
			h.raw(`</p>`)
		}
		h.raw(`<p><a href="/officers/">Officers</a> · <a href="/committees/">Committees</a> · <a href="/feed.xml">Recent papers</a></p>`)
		h.raw(`</footer>`)
	})
}
