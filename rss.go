package sigsite

import (
	"encoding/xml"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sigmetrics/sigsite/dblp"
)

const feedSize = 50

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	Category    string  `xml:"category,omitempty"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// paperLink prefers the DOI resolver over the dblp record page.
func paperLink(r dblp.Record) string {
	if r.DOI != "" {
		if strings.HasPrefix(r.DOI, "http") {
			return r.DOI
		}
		return "https://doi.org/" + r.DOI
	}
	if r.URL != "" {
		return r.URL
	}
	return "https://dblp.org/rec/" + r.Key
}

// renderRSS writes the most recent SIGMETRICS papers. dblp gives years
// only, so items carry no pubDate.
func (a *App) renderRSS(c echo.Context, papers []dblp.Record) error {
	items := make([]rssItem, 0, len(papers))
	for _, p := range papers {
		names := make([]string, len(p.Authors))
		for i, au := range p.Authors {
			names[i] = au.Name
		}
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        paperLink(p),
			Description: strings.Join(names, ", ") + ". " + p.Venue + " " + strconv.Itoa(p.Year) + ".",
			Category:    strconv.Itoa(p.Year),
			GUID:        rssGUID{Value: "dblp:" + p.Key},
		})
	}
	site := a.Content.Site
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       site.Title + ": recent papers",
			Link:        BuildURL(a.Config.URL),
			Description: site.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
