package sigsite

import (
	"time"

	"github.com/sigmetrics/sigsite/csrankings"
	"github.com/sigmetrics/sigsite/dblp"
)

// Author is one row of the frequent-authors table: dblp statistics plus any
// profile links found for the author.
type Author struct {
	dblp.AuthorStats
	Links csrankings.AuthorLinks `json:"links"`
}

// DatasetInfo describes the stored frequent-authors dataset.
type DatasetInfo struct {
	FetchedAt time.Time  `json:"fetchedAt"`
	StartYear int        `json:"startYear"`
	EndYear   int        `json:"endYear"`
	Papers    int        `json:"papers"`
	Authors   int        `json:"authors"`
	Notes     dblp.Notes `json:"notes"`
}

// Empty reports whether no dataset has been stored yet.
func (d DatasetInfo) Empty() bool {
	return d.FetchedAt.IsZero()
}

// Sort keys accepted by AuthorQuery.
const (
	SortPubs      = "pubs"
	SortFirst     = "first"
	SortLast      = "last"
	SortCoauthors = "coauthors"
	SortName      = "name"
)

var sortClauses = map[string]string{
	SortPubs:      "a.pubs DESC, a.name ASC, a.id ASC",
	SortFirst:     "a.first_auth DESC, a.pubs DESC, a.name ASC, a.id ASC",
	SortLast:      "a.last_auth DESC, a.pubs DESC, a.name ASC, a.id ASC",
	SortCoauthors: "a.coauthors DESC, a.pubs DESC, a.name ASC, a.id ASC",
	SortName:      "a.name ASC, a.id ASC",
}

// AuthorQuery selects and orders frequent authors.
type AuthorQuery struct {
	Sort    string // one of the Sort* keys, default SortPubs
	MinPubs int    // minimum publication count, at least 1
	Limit   int    // 0 means no limit
}

func (q AuthorQuery) normalize() AuthorQuery {
	if _, ok := sortClauses[q.Sort]; !ok {
		q.Sort = SortPubs
	}
	q.MinPubs = max(q.MinPubs, 1)
	q.Limit = max(q.Limit, 0)
	return q
}

// less orders a before b the same way the SQL clause for q.Sort does.
func (q AuthorQuery) less(a, b Author) bool {
	byPubs := func() bool {
		if a.Pubs != b.Pubs {
			return a.Pubs > b.Pubs
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	}
	switch q.Sort {
	case SortFirst:
		if a.FirstAuth != b.FirstAuth {
			return a.FirstAuth > b.FirstAuth
		}
	case SortLast:
		if a.LastAuth != b.LastAuth {
			return a.LastAuth > b.LastAuth
		}
	case SortCoauthors:
		if a.Coauthors != b.Coauthors {
			return a.Coauthors > b.Coauthors
		}
	case SortName:
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	}
	return byPubs()
}
