package sigsite

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sigmetrics/sigsite/content"
)

type apiError struct {
	Error string `json:"error"`
}

func isAPI(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

func (a *App) setupAPI(g *echo.Group) {
	g.GET("/site", a.apiSite)
	g.GET("/nav", a.apiNav)
	g.GET("/officers", a.apiOfficers)
	g.GET("/committees", a.apiCommittees)
	g.GET("/links", a.apiLinks)
	g.GET("/links/:name", a.apiLink)
	g.GET("/content", a.apiContent)
	g.GET("/authors", a.apiAuthors)
	g.GET("/authors/*", a.apiAuthor)
	g.GET("/dataset", a.apiDataset)
}

func (a *App) apiSite(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Content.Site)
}

func (a *App) apiNav(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Content.Nav)
}

// apiOfficers lists officers, optionally only those holding ?role=.
func (a *App) apiOfficers(c echo.Context) error {
	if role := c.QueryParam("role"); role != "" {
		officers := a.Content.OfficersByRole(role)
		if officers == nil {
			officers = []content.Officer{}
		}
		return c.JSON(http.StatusOK, officers)
	}
	return c.JSON(http.StatusOK, a.Content.Officers)
}

func (a *App) apiCommittees(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Content.Committees)
}

func (a *App) apiLinks(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Content.Links)
}

func (a *App) apiLink(c echo.Context) error {
	name := c.Param("name")
	u, ok := a.Content.Link(name)
	if !ok {
		return c.JSON(http.StatusNotFound, apiError{Error: "unknown link " + name})
	}
	return c.JSON(http.StatusOK, map[string]string{"name": name, "url": u})
}

// apiContent returns the whole bundle the site is serving.
func (a *App) apiContent(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Content)
}

func (a *App) apiAuthors(c echo.Context) error {
	authors, err := a.Cache.List(a.authorQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authors)
}

// apiAuthor looks up one author; ids contain slashes ("pid:49/7911"), so
// the route uses a wildcard.
func (a *App) apiAuthor(c echo.Context) error {
	id, err := url.PathUnescape(c.Param("*"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	author, err := a.Cache.Get(id)
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, apiError{Error: "unknown author " + id})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, author)
}

func (a *App) apiDataset(c echo.Context) error {
	info, err := a.Cache.Info()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, info)
}
