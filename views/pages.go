package views

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/sigmetrics/sigsite/content"
	"github.com/sigmetrics/sigsite/markdown"
)

// Home renders the landing page.
func Home(p Page) templ.Component {
	return Layout(p, component(func(h *html) {
		site := p.Content.Site
		h.raw(`<section class="hero">`)
		h.tag("h1", site.Title)
		h.tag("p", site.Description)
		if u, ok := p.Content.Link("joinSigmetrics"); ok {
			h.raw(`<p class="cta">`)
			h.link(u, LinkLabel("joinSigmetrics"))
			h.raw(`</p>`)
		}
		h.raw(`</section>`)

		h.raw(`<section><h2>Officers</h2>`)
		h.child(officerList(p.Content.Officers))
		h.raw(`</section>`)

		h.raw(`<section><h2>Board of Directors</h2>`)
		h.child(memberList(p.Content.Committees.BoardOfDirectors))
		h.raw(`</section>`)

		h.raw(`<section><h2>Links</h2><ul class="links">`)
		for _, name := range p.Content.LinkNames() {
			u, _ := p.Content.Link(name)
			h.raw("<li>")
			h.link(u, LinkLabel(name))
			h.raw("</li>")
		}
		h.raw(`</ul></section>`)
	}))
}

// NavPage renders a navigation entry. body is Markdown; when it is empty
// the page points at the legacy page if the edition has one.
func NavPage(p Page, item content.NavItem, body, original string) templ.Component {
	return Layout(p, component(func(h *html) {
		h.raw(`<article class="page">`)
		h.tag("h1", item.Label)
		switch {
		case body != "":
			h.child(markdown.Markdown(body))
		case original != "":
			h.raw(`<p>This page is maintained on the `)
			h.link(original, "SIGMETRICS site")
			h.raw(`.</p>`)
		default:
			h.raw(`<p>This page has no content yet.</p>`)
		}
		if body != "" && original != "" {
			h.raw(`<p class="original">Original page: `)
			h.link(original, original)
			h.raw(`</p>`)
		}
		h.raw(`</article>`)
	}))
}

// Officers renders the officer roster.
func Officers(p Page) templ.Component {
	return Layout(p, component(func(h *html) {
		h.raw(`<article class="page"><h1>Officers</h1>`)
		h.child(officerList(p.Content.Officers))
		h.raw(`</article>`)
	}))
}

// Committees renders the board and the executive committee.
func Committees(p Page) templ.Component {
	return Layout(p, component(func(h *html) {
		c := p.Content.Committees
		h.raw(`<article class="page"><h1>Committees</h1>`)
		h.raw(`<section><h2>Board of Directors</h2>`)
		h.child(memberList(c.BoardOfDirectors))
		h.raw(`</section><section><h2>Executive Committee</h2>`)
		if c.ExecutiveCommitteeNote != "" {
			h.tag("p", c.ExecutiveCommitteeNote)
		}
		h.raw(`<ul class="people">`)
		for _, name := range p.Content.ExecutiveCommittee() {
			h.tag("li", name)
		}
		h.raw(`</ul></section></article>`)
	}))
}

func officerList(officers []content.Officer) templ.Component {
	return component(func(h *html) {
		h.raw(`<dl class="officers">`)
		for _, o := range officers {
			h.tag("dt", o.Role)
			h.raw("<dd>")
			if o.Href != "" {
				h.link(o.Href, o.Name)
			} else {
				h.text(o.Name)
			}
			h.raw("</dd>")
		}
		h.raw(`</dl>`)
	})
}

func memberList(members []content.Member) templ.Component {
	return component(func(h *html) {
		h.raw(`<ul class="people">`)
		for _, m := range members {
			h.raw("<li>")
			if m.Href != "" {
				h.link(m.Href, m.Name)
			} else {
				h.text(m.Name)
			}
			h.raw("</li>")
		}
		h.raw(`</ul>`)
	})
}

// FrequentAuthors renders the author ranking with sort links.
func FrequentAuthors(p Page, rows []AuthorRow, f AuthorFilter, d Dataset) templ.Component {
	return Layout(p, component(func(h *html) {
		h.raw(`<article class="page"><h1>Frequent Authors</h1>`)
		if d.Empty() {
			h.raw(`<p>The author dataset has not been fetched yet.</p></article>`)
			return
		}
		h.raw(`<p class="summary">`)
		h.textf("SIGMETRICS papers %d to %d: %d papers by %d authors, updated %s.",
			d.StartYear, d.EndYear, d.Papers, d.Authors, d.FetchedAt.Format("2 January 2006"))
		h.raw(`</p>`)

		h.raw(`<p class="sort">Sort by: `)
		for i, s := range sortLabels {
			if i > 0 {
				h.raw(" · ")
			}
			if s.key == f.Sort {
				h.tag("strong", s.label)
				continue
			}
			q := url.Values{"sort": {s.key}, "min": {strconv.Itoa(f.MinPubs)}}
			h.raw("<a")
			h.attr("href", "?"+q.Encode())
			h.raw(">")
			h.text(s.label)
			h.raw("</a>")
		}
		h.raw(`</p>`)

		h.raw(`<table class="authors"><thead><tr>`)
		for _, col := range []string{"#", "Author", "Papers", "First", "Last", "Solo", "Co-authors", "Avg team", "Active years", "Years", "Links"} {
			h.tag("th", col)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, r := range rows {
			h.raw("<tr>")
			h.tag("td", strconv.Itoa(r.Rank))
			h.raw("<td>")
			h.text(r.Name)
			h.raw("</td>")
			for _, n := range []int{r.Pubs, r.FirstAuth, r.LastAuth, r.Solo, r.Coauthors} {
				h.tag("td", strconv.Itoa(n))
			}
			h.tag("td", strconv.FormatFloat(r.AvgTeam, 'f', 1, 64))
			h.tag("td", strconv.Itoa(r.ActiveYears))
			h.raw("<td>")
			h.textf("%d–%d", r.FirstYear, r.LastYear)
			h.raw("</td><td>")
			sep := ""
			for _, l := range []struct{ href, label string }{
				{r.DBLP, "dblp"}, {r.Homepage, "home"}, {r.Scholar, "scholar"},
			} {
				if l.href == "" {
					continue
				}
				h.raw(sep)
				h.link(l.href, l.label)
				sep = " "
			}
			h.raw("</td></tr>")
		}
		h.raw(`</tbody></table></article>`)
	}))
}

// NotFound renders the 404 page.
func NotFound(p Page) templ.Component {
	return Layout(p, component(func(h *html) {
		h.raw(`<article class="page"><h1>Page not found</h1><p>The page you asked for does not exist. <a href="/">Back to the home page</a>.</p></article>`)
	}))
}

// ServerError renders the 5xx page.
func ServerError(p Page) templ.Component {
	return Layout(p, component(func(h *html) {
		h.raw(`<article class="page"><h1>Something went wrong</h1><p>Please try again later.</p></article>`)
	}))
}
