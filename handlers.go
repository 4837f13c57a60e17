package sigsite

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sigmetrics/sigsite/views"
)

func (a *App) handleHome(c echo.Context) error {
	p := a.page(c, "", "")
	p.Meta.JSONLD = OrganizationJSONLD(a.Content, a.Config.URL)
	return Render(c, a.Views.Home(p))
}

// handleNavPage serves every navigation entry without a dedicated handler.
// The route path identifies the entry.
func (a *App) handleNavPage(c echo.Context) error {
	item, ok := a.Content.NavItemFor(c.Path())
	if !ok {
		return echo.ErrNotFound
	}
	body, _ := a.Content.Page(item.Href)
	original, _ := a.Content.OriginalFor(item.Href)
	return Render(c, a.Views.NavPage(a.page(c, item.Label, ""), item, body, original))
}

func (a *App) handleOfficers(c echo.Context) error {
	return Render(c, a.Views.Officers(a.page(c, "Officers", "Officers of ACM SIGMETRICS")))
}

func (a *App) handleCommittees(c echo.Context) error {
	return Render(c, a.Views.Committees(a.page(c, "Committees", "Board of Directors and Executive Committee of ACM SIGMETRICS")))
}

// authorQuery reads ?sort=, ?min= and ?limit=. Invalid numbers fall back to
// the defaults.
func (a *App) authorQuery(c echo.Context) AuthorQuery {
	q := AuthorQuery{Sort: c.QueryParam("sort"), MinPubs: a.Config.MinAuthorPubs}
	if n, err := strconv.Atoi(c.QueryParam("min")); err == nil && n > 0 {
		q.MinPubs = n
	}
	if n, err := strconv.Atoi(c.QueryParam("limit")); err == nil && n > 0 {
		q.Limit = n
	}
	return q.normalize()
}

func (a *App) handleFrequentAuthors(c echo.Context) error {
	q := a.authorQuery(c)
	authors, err := a.Cache.List(q)
	if err != nil {
		return err
	}
	info, err := a.Cache.Info()
	if err != nil {
		return err
	}
	p := a.page(c, "Frequent Authors", "Most frequent authors of SIGMETRICS papers")
	return Render(c, a.Views.FrequentAuthors(p, viewAuthors(authors),
		views.AuthorFilter{Sort: q.Sort, MinPubs: q.MinPubs}, viewDataset(info)))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c)
}

func (a *App) handleFeed(c echo.Context) error {
	papers, err := a.Store.LatestPapers(feedSize)
	if err != nil {
		return err
	}
	return a.renderRSS(c, papers)
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, "User-agent: *\nDisallow: /admin/\nSitemap: "+a.Config.URL+"/sitemap.xml\n")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	isHTTP := errors.As(err, &he)
	if isHTTP && he.Code == http.StatusNotFound {
		if isAPI(c) {
			_ = c.JSON(http.StatusNotFound, apiError{Error: "not found"})
			return
		}
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, "Page not found", "")))
		return
	}
	code := http.StatusInternalServerError
	if isHTTP {
		code = he.Code
	}
	if code >= 500 {
		a.logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		if isAPI(c) {
			_ = c.JSON(code, apiError{Error: http.StatusText(code)})
			return
		}
		_ = RenderStatus(c, code, a.Views.ServerError(a.page(c, "Error", "")))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
