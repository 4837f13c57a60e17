package views

import (
	"time"

	"github.com/sigmetrics/sigsite/content"
)

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "profile"
	JSONLD      string // optional schema.org block
}

// Page is what every full-page template renders with.
type Page struct {
	Meta      PageMeta
	Path      string // request path, marks the active navigation entry
	Content   content.Bundle
	CSRFToken string
}

// AuthorRow is one line of the frequent-authors table.
type AuthorRow struct {
	Rank        int
	ID          string
	Name        string
	Aliases     []string
	Pubs        int
	FirstAuth   int
	LastAuth    int
	Solo        int
	Coauthors   int
	AvgTeam     float64
	ActiveYears int
	FirstYear   int
	LastYear    int
	DBLP        string
	Homepage    string
	Scholar     string
}

// AuthorFilter echoes the query the table was built from.
type AuthorFilter struct {
	Sort    string
	MinPubs int
}

// Dataset summarizes the stored author dataset.
type Dataset struct {
	FetchedAt time.Time
	StartYear int
	EndYear   int
	Papers    int
	Authors   int
}

// Empty reports whether the dataset was never fetched.
func (d Dataset) Empty() bool {
	return d.FetchedAt.IsZero()
}

// RefreshStatus is the state of the background dataset refresh.
type RefreshStatus struct {
	Running    bool
	StartedAt  time.Time
	FinishedAt time.Time
	Err        string
}
