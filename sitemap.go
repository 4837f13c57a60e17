package sigsite

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
}

// sitemapURLs lists every site-relative navigation entry plus the officer
// and committee pages, without duplicates.
func (a *App) sitemapURLs() []sitemapURL {
	base := a.Config.URL
	seen := make(map[string]bool)
	var urls []sitemapURL
	add := func(u sitemapURL) {
		if !seen[u.Loc] {
			seen[u.Loc] = true
			urls = append(urls, u)
		}
	}
	for _, item := range a.Content.Nav {
		if !strings.HasPrefix(item.Href, "/") {
			continue
		}
		u := sitemapURL{Loc: BuildURL(base, item.Href)}
		if item.Href == "/" {
			u.Loc = BuildURL(base)
		}
		if strings.TrimSuffix(item.Href, "/") == "/frequent-authors" {
			u.ChangeFreq = "monthly"
			if info, err := a.Cache.Info(); err == nil && !info.Empty() {
				u.LastMod = info.FetchedAt.Format("2006-01-02")
			}
		}
		add(u)
	}
	add(sitemapURL{Loc: BuildURL(base, "officers")})
	add(sitemapURL{Loc: BuildURL(base, "committees")})
	return urls
}

func (a *App) renderSitemap(c echo.Context) error {
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  a.sitemapURLs(),
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
