package views

import (
	"github.com/a-h/templ"
)

func csrfField(h *html, token string) {
	h.raw(`<input type="hidden" name="_csrf"`)
	h.attr("value", token)
	h.raw("/>")
}

// AdminLogin renders the password form.
func AdminLogin(p Page, showError bool) templ.Component {
	return Layout(p, component(func(h *html) {
		h.raw(`<article class="page admin"><h1>Admin</h1>`)
		if showError {
			h.raw(`<p class="error" role="alert">Wrong password.</p>`)
		}
		h.raw(`<form method="post" action="/admin/login/">`)
		csrfField(h, p.CSRFToken)
		h.raw(`<label for="password">Password</label><input id="password" type="password" name="password" autocomplete="current-password" required/>`)
		h.raw(`<button type="submit">Log in</button></form></article>`)
	}))
}

// AdminDashboard shows the stored dataset and the refresh controls.
func AdminDashboard(p Page, d Dataset, status RefreshStatus, message string) templ.Component {
	return Layout(p, component(func(h *html) {
		h.raw(`<article class="page admin"><h1>Admin</h1>`)
		if message != "" {
			h.raw(`<p class="notice" role="status">`)
			h.text(message)
			h.raw(`</p>`)
		}

		h.raw(`<section><h2>Author dataset</h2>`)
		if d.Empty() {
			h.raw(`<p>No dataset stored.</p>`)
		} else {
			h.raw(`<dl>`)
			h.tag("dt", "Fetched")
			h.tag("dd", d.FetchedAt.Format("2006-01-02 15:04 MST"))
			h.tag("dt", "Years")
			h.raw("<dd>")
			h.textf("%d–%d", d.StartYear, d.EndYear)
			h.raw("</dd>")
			h.tag("dt", "Papers")
			h.raw("<dd>")
			h.textf("%d", d.Papers)
			h.raw("</dd>")
			h.tag("dt", "Authors")
			h.raw("<dd>")
			h.textf("%d", d.Authors)
			h.raw("</dd></dl>")
		}
		h.raw(`</section>`)

		h.raw(`<section><h2>Refresh</h2>`)
		switch {
		case status.Running:
			h.raw(`<p>`)
			h.textf("Refresh running since %s.", status.StartedAt.Format("15:04:05"))
			h.raw(`</p>`)
		case status.Err != "":
			h.raw(`<p class="error">`)
			h.textf("Last refresh failed: %s", status.Err)
			h.raw(`</p>`)
		case !status.FinishedAt.IsZero():
			h.raw(`<p>`)
			h.textf("Last refresh finished %s.", status.FinishedAt.Format("2006-01-02 15:04 MST"))
			h.raw(`</p>`)
		}
		if !status.Running {
			h.raw(`<form method="post" action="/admin/refresh/">`)
			csrfField(h, p.CSRFToken)
			h.raw(`<button type="submit">Fetch from dblp</button></form>`)
		}
		h.raw(`</section>`)

		h.raw(`<form method="post" action="/admin/logout/">`)
		csrfField(h, p.CSRFToken)
		h.raw(`<button type="submit">Log out</button></form></article>`)
	}))
}
