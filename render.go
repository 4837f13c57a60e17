package sigsite

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/sigmetrics/sigsite/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// page builds the per-request template context. An empty title falls back
// to the site title.
func (a *App) page(c echo.Context, title, description string) views.Page {
	path := c.Request().URL.Path
	return views.Page{
		Meta: views.PageMeta{
			Title:       title,
			Description: description,
			URL:         BuildURL(a.Config.URL, path),
		},
		Path:      path,
		Content:   a.Content,
		CSRFToken: CsrfToken(c),
	}
}

// viewDataset converts the stored dataset summary for templates.
func viewDataset(d DatasetInfo) views.Dataset {
	return views.Dataset{
		FetchedAt: d.FetchedAt,
		StartYear: d.StartYear,
		EndYear:   d.EndYear,
		Papers:    d.Papers,
		Authors:   d.Authors,
	}
}

// viewAuthors converts ranked authors for templates, numbering from 1.
func viewAuthors(authors []Author) []views.AuthorRow {
	rows := make([]views.AuthorRow, len(authors))
	for i, a := range authors {
		rows[i] = views.AuthorRow{
			Rank:        i + 1,
			ID:          a.ID,
			Name:        a.Name,
			Aliases:     a.Aliases,
			Pubs:        a.Pubs,
			FirstAuth:   a.FirstAuth,
			LastAuth:    a.LastAuth,
			Solo:        a.Solo,
			Coauthors:   a.Coauthors,
			AvgTeam:     a.AvgTeam,
			ActiveYears: a.ActiveYears,
			FirstYear:   a.FirstYear,
			LastYear:    a.LastYear,
			DBLP:        a.Links.DBLP,
			Homepage:    a.Links.Homepage,
			Scholar:     a.Links.GoogleScholar,
		}
	}
	return rows
}
