package csrankings

import (
	"net/url"
	"strings"
	"time"

	"github.com/sigmetrics/sigsite/dblp"
)

// AuthorLinks are the outbound profile links of one author.
type AuthorLinks struct {
	DBLP          string `json:"dblp,omitempty"`
	Homepage      string `json:"homepage,omitempty"`
	GoogleScholar string `json:"googleScholar,omitempty"`
}

// Stats summarizes a BuildLinks run.
type Stats struct {
	SigmetricsAuthors int `json:"sigmetricsAuthors"`
	AuthorsWithPID    int `json:"authorsWithPid"`
	AuthorsMatched    int `json:"authorsMatchedInCSRankings"`
	CSRankingsEntries int `json:"csrankingsEntries"`
}

// Links is the author_links document.
type Links struct {
	GeneratedAt int64                  `json:"generatedAt"`
	Source      string                 `json:"source"`
	Stats       Stats                  `json:"stats"`
	ByPID       map[string]AuthorLinks `json:"byPid"`
	ByName      map[string]AuthorLinks `json:"byName"`
}

// DBLPURL returns the dblp person page of pid.
func DBLPURL(pid string) string {
	if pid == "" {
		return ""
	}
	return "https://dblp.org/pid/" + pid + ".html"
}

// ScholarURL returns the Google Scholar profile of a CSRankings scholar id.
func ScholarURL(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.EqualFold(id, noScholarPage) {
		return ""
	}
	return "https://scholar.google.com/citations?user=" + url.QueryEscape(id) + "&hl=en"
}

// BuildLinks matches every author against the index by canonical name, then
// aliases. Authors with a dblp pid are keyed by pid, the rest by name.
func BuildLinks(meta map[string]dblp.AuthorMeta, idx Index, now time.Time) Links {
	out := Links{
		GeneratedAt: now.UnixMilli(),
		Source:      "CSRankings gh-pages/csrankings-*.csv (name to homepage and scholarid) + dblp pid",
		ByPID:       make(map[string]AuthorLinks),
		ByName:      make(map[string]AuthorLinks),
		Stats: Stats{
			SigmetricsAuthors: len(meta),
			CSRankingsEntries: len(idx),
		},
	}
	for _, m := range meta {
		canonical := m.CanonicalName
		if canonical == "" {
			canonical = m.Name
		}
		var links AuthorLinks
		if m.PID != "" {
			links.DBLP = DBLPURL(m.PID)
			out.Stats.AuthorsWithPID++
		}
		if e, ok := idx.Lookup(append([]string{canonical}, m.Aliases...)...); ok {
			links.Homepage = e.Homepage
			links.GoogleScholar = ScholarURL(e.ScholarID)
			if links.Homepage != "" || links.GoogleScholar != "" {
				out.Stats.AuthorsMatched++
			}
		}
		if links == (AuthorLinks{}) {
			continue
		}
		switch {
		case m.PID != "":
			out.ByPID[m.PID] = links
		case canonical != "":
			out.ByName[canonical] = links
		}
	}
	return out
}

// For returns the links of an author by dataset id ("pid:…" or "name:…").
func (l Links) For(id string) (AuthorLinks, bool) {
	if pid, ok := strings.CutPrefix(id, "pid:"); ok {
		a, found := l.ByPID[pid]
		return a, found
	}
	if name, ok := strings.CutPrefix(id, "name:"); ok {
		a, found := l.ByName[name]
		return a, found
	}
	return AuthorLinks{}, false
}
